// Package importer brings media files from a mounted directory (an external
// drive, a camera card) into the library: one folder per subdirectory, one
// appended item per media file.
package importer

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"reel/internal/model"
)

// Result summarizes one import run.
type Result struct {
	FoldersCreated int
	ItemsAdded     int
	Skipped        int // non-media files
}

// mediaExtensions are the file types picked up by a scan.
var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".heic": true, ".bmp": true, ".tiff": true,
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".m4a": true,
}

type scannedFile struct {
	relDir string
	name   string
	size   int64
	path   string
}

// ScanDirectory imports the media files under root into the library, below
// the given parent folder. Subdirectories become folders (created once,
// nested); files append to their directory's folder in path order so the
// sequence contract holds.
func ScanDirectory(lib *model.Library, root string, parentID *string, scope string) (Result, error) {
	var mu sync.Mutex
	var files []scannedFile
	var result Result

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !mediaExtensions[ext] {
			mu.Lock()
			result.Skipped++
			mu.Unlock()
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		mu.Lock()
		files = append(files, scannedFile{relDir: rel, name: d.Name(), size: info.Size(), path: abs})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	// fastwalk visits concurrently; order by path for stable sequences
	sort.Slice(files, func(i, j int) bool {
		if files[i].relDir != files[j].relDir {
			return files[i].relDir < files[j].relDir
		}
		return files[i].name < files[j].name
	})

	folders := map[string]string{} // rel dir -> folder id
	for _, f := range files {
		folderID, created := ensureFolderPath(lib, folders, f.relDir, parentID, scope)
		result.FoldersCreated += created

		item := model.NewItem(model.NewItemParams{
			ParentID:  folderID,
			Name:      f.name,
			SizeBytes: f.size,
			Kind:      model.KindForExtension(filepath.Ext(f.name)),
			Path:      f.path,
		})
		item.Source = "import"
		lib.AppendItem(item)
		result.ItemsAdded++
	}

	return result, nil
}

// ensureFolderPath creates the folder chain for a relative directory,
// reusing folders created earlier in the run. Returns the leaf folder id
// and how many folders were created.
func ensureFolderPath(lib *model.Library, cache map[string]string, relDir string, parentID *string, scope string) (string, int) {
	if relDir == "." || relDir == "" {
		if parentID != nil {
			return *parentID, 0
		}
		// Files at the scan root land in the scope's default folder
		return lib.EnsureDefaultFolder(scope).ID, 0
	}
	if id, ok := cache[relDir]; ok {
		return id, 0
	}

	parentDir := filepath.Dir(relDir)
	parentFolderID, created := ensureFolderPath(lib, cache, parentDir, parentID, scope)

	folder := model.NewFolder(model.NewFolderParams{
		Name:       filepath.Base(relDir),
		ParentID:   &parentFolderID,
		OwnerScope: scope,
	})
	lib.AddFolder(folder)
	cache[relDir] = folder.ID
	return folder.ID, created + 1
}
