// Package verify checks that the files behind imported library entries are
// still present on disk. Drives get unplugged and cards get wiped; this is
// how stale entries are found.
package verify

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"reel/internal/model"
)

// Status represents the on-disk state of an item's backing file.
type Status int

const (
	Present    Status = iota // file exists and matches
	Missing                  // file no longer exists
	Unreadable               // permission or I/O error during the check
	Resized                  // file exists but its size changed
)

// Result holds the check result for a single item.
type Result struct {
	Item   *model.Item
	Status Status
	Error  string // error message for unreadable files
}

// ProgressFunc is called after each file is checked.
// completed is the number of files checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// CheckFiles stats every item's backing file concurrently and returns
// results. Items without a recorded path are skipped.
func CheckFiles(items []model.Item, concurrency int, onProgress ProgressFunc) []Result {
	var checkable []int
	for i := range items {
		if items[i].Path != "" {
			checkable = append(checkable, i)
		}
	}
	if len(checkable) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(checkable))
	jobs := make(chan int, len(checkable))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkFile(&items[checkable[idx]])

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(checkable))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range checkable {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkFile stats a single item's backing file.
func checkFile(item *model.Item) Result {
	result := Result{Item: item}

	info, err := os.Stat(item.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Status = Missing
			return result
		}
		result.Status = Unreadable
		result.Error = normalizeError(err.Error())
		return result
	}

	if item.SizeBytes > 0 && info.Size() != item.SizeBytes {
		result.Status = Resized
		return result
	}

	result.Status = Present
	return result
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "permission denied"):
		return "Permission denied"
	case strings.Contains(lower, "input/output error"):
		return "I/O error"
	case strings.Contains(lower, "not a directory"):
		return "Broken path"
	default:
		return errStr
	}
}
