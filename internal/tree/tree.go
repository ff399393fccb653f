// Package tree maintains the folder forest and validates structural
// mutations before they reach persistence. Validation errors are returned
// synchronously with no local state change; moves apply optimistically and
// roll back if the asynchronous commit fails.
package tree

import (
	"errors"
	"fmt"
	"sync"

	"reel/internal/model"
)

// Error kinds surfaced to the UI layer.
var (
	// ErrCircularMove means the destination is the source itself or one of
	// its descendants.
	ErrCircularMove = errors.New("circular move")
	// ErrProtectedFolder means a structural change was attempted on a
	// protected/default folder.
	ErrProtectedFolder = errors.New("protected folder")
	// ErrInvalidParent means the parent reference crosses owner scopes or
	// does not exist.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrCommitFailed means the persistence call was rejected after the
	// optimistic mutation already happened.
	ErrCommitFailed = errors.New("commit failed")
	// ErrCascadeRequired means a folder with contents was deleted without
	// the caller acknowledging the cascade.
	ErrCascadeRequired = errors.New("cascade required")
)

// Committer persists structural changes. Implemented by the storage layer.
type Committer interface {
	CommitFolderMove(folderID string, newParentID *string) error
	CommitCreateFolder(f model.Folder) error
	CommitRenameFolder(id, name string) error
	CommitDeleteFolder(id string, cascade bool) error
}

// Commit is the handle for an in-flight asynchronous move commit.
// Wait blocks until the commit resolves and returns its error, if any.
type Commit struct {
	done chan error
	err  error
	once sync.Once
}

func newCommit() *Commit {
	return &Commit{done: make(chan error, 1)}
}

// Wait blocks until the commit completes. Safe to call multiple times.
func (c *Commit) Wait() error {
	c.once.Do(func() { c.err = <-c.done })
	return c.err
}

// Outcome reports the result of one folder in a bulk move. Err holds a
// synchronous validation failure; Commit resolves the persistence call for
// folders that passed validation. Both are nil for no-op moves.
type Outcome struct {
	FolderID string
	Err      error
	Commit   *Commit
}

// Tree is the in-memory folder forest engine for one library.
type Tree struct {
	mu        sync.Mutex
	lib       *model.Library
	committer Committer
}

// New creates a Tree over the given library and persistence collaborator.
func New(lib *model.Library, committer Committer) *Tree {
	return &Tree{lib: lib, committer: committer}
}

// Create validates and creates a folder under parentID (nil = root).
func (t *Tree) Create(parentID *string, name, scope string) (model.Folder, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if parentID != nil {
		parent := t.lib.GetFolderByID(*parentID)
		if parent == nil {
			return model.Folder{}, fmt.Errorf("%w: parent %s not found", ErrInvalidParent, *parentID)
		}
		if parent.OwnerScope != scope {
			return model.Folder{}, fmt.Errorf("%w: parent belongs to scope %s", ErrInvalidParent, parent.OwnerScope)
		}
	}

	folder := model.NewFolder(model.NewFolderParams{
		Name:       name,
		ParentID:   parentID,
		OwnerScope: scope,
	})
	t.lib.AddFolder(folder)

	if err := t.committer.CommitCreateFolder(folder); err != nil {
		_ = t.lib.RemoveFolder(folder.ID)
		return model.Folder{}, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return folder, nil
}

// Rename changes a folder's name. Protected folders cannot be renamed.
func (t *Tree) Rename(id, newName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	folder := t.lib.GetFolderByID(id)
	if folder == nil {
		return fmt.Errorf("folder not found: %s", id)
	}
	if folder.Protected {
		return fmt.Errorf("%w: %s", ErrProtectedFolder, folder.Name)
	}

	oldName := folder.Name
	folder.Name = newName
	if err := t.committer.CommitRenameFolder(id, newName); err != nil {
		folder.Name = oldName
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}

// Move reparents a folder. Validation runs synchronously; on success the
// local tree is updated optimistically and the commit runs asynchronously.
// The returned Commit is nil when the move was a no-op (destination already
// the current parent); no persistence call is made in that case.
//
// If the commit fails, the local change is rolled back and Wait returns an
// error wrapping ErrCommitFailed.
func (t *Tree) Move(sourceID string, destID *string) (*Commit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	commit, _, err := t.moveLocked(sourceID, destID)
	return commit, err
}

// moveLocked validates and optimistically applies one move. Callers hold t.mu.
func (t *Tree) moveLocked(sourceID string, destID *string) (*Commit, bool, error) {
	source := t.lib.GetFolderByID(sourceID)
	if source == nil {
		return nil, false, fmt.Errorf("folder not found: %s", sourceID)
	}
	if source.Protected {
		return nil, false, fmt.Errorf("%w: %s", ErrProtectedFolder, source.Name)
	}

	if destID != nil {
		dest := t.lib.GetFolderByID(*destID)
		if dest == nil {
			return nil, false, fmt.Errorf("%w: destination %s not found", ErrInvalidParent, *destID)
		}
		if dest.OwnerScope != source.OwnerScope {
			return nil, false, fmt.Errorf("%w: destination belongs to scope %s", ErrInvalidParent, dest.OwnerScope)
		}
		if *destID == sourceID {
			return nil, false, fmt.Errorf("%w: cannot move %s into itself", ErrCircularMove, source.Name)
		}
		descendants := t.descendantsLocked(sourceID)
		if descendants[*destID] {
			return nil, false, fmt.Errorf("%w: %s is inside the moved folder", ErrCircularMove, *destID)
		}
	}

	// Already there: idempotent no-op, no spurious write.
	if ptrEqual(source.ParentID, destID) {
		return nil, true, nil
	}

	oldParent := source.ParentID
	source.ParentID = destID

	commit := newCommit()
	go func() {
		err := t.committer.CommitFolderMove(sourceID, destID)
		if err != nil {
			t.mu.Lock()
			if f := t.lib.GetFolderByID(sourceID); f != nil {
				f.ParentID = oldParent
			}
			t.mu.Unlock()
			commit.done <- fmt.Errorf("%w: %v", ErrCommitFailed, err)
			return
		}
		commit.done <- nil
	}()
	return commit, false, nil
}

// BulkMove applies Move to each source folder in order. Each folder is
// validated against the tree as already reshaped by the batch's earlier
// accepted moves, so a conflicting pair (A into B, B into A) rejects the
// second move without blocking unrelated folders. Commits run concurrently;
// one failing folder never aborts the others.
func (t *Tree) BulkMove(sourceIDs []string, destID *string) []Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	outcomes := make([]Outcome, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		commit, _, err := t.moveLocked(id, destID)
		outcomes = append(outcomes, Outcome{FolderID: id, Err: err, Commit: commit})
	}
	return outcomes
}

// Read runs fn with the tree's lock held. Callers use it to walk the
// library while an in-flight move commit may still roll back a parent
// reference on another goroutine. fn must not call back into the Tree.
func (t *Tree) Read(fn func(lib *model.Library)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.lib)
}

// Delete removes a folder. A folder that still contains subfolders or items
// is only deleted when the caller passes cascade, having acknowledged the
// contents count (see ContentsCount). Cascade removes the whole subtree and
// its items locally; item-level cascade in the backing store is delegated to
// the persistence collaborator.
func (t *Tree) Delete(id string, cascade bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	folder := t.lib.GetFolderByID(id)
	if folder == nil {
		return fmt.Errorf("folder not found: %s", id)
	}
	if folder.Protected {
		return fmt.Errorf("%w: %s", ErrProtectedFolder, folder.Name)
	}

	descendants := t.descendantsLocked(id)
	if !cascade {
		if len(descendants) > 0 || len(t.lib.GetItemsIn(id)) > 0 {
			return fmt.Errorf("%w: folder %s is not empty", ErrCascadeRequired, folder.Name)
		}
	}

	if err := t.committer.CommitDeleteFolder(id, cascade); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	doomed := map[string]bool{id: true}
	for d := range descendants {
		doomed[d] = true
	}
	var keepFolders []model.Folder
	for _, f := range t.lib.Folders {
		if !doomed[f.ID] {
			keepFolders = append(keepFolders, f)
		}
	}
	t.lib.Folders = keepFolders
	var keepItems []model.Item
	for _, it := range t.lib.Items {
		if !doomed[it.ParentID] {
			keepItems = append(keepItems, it)
		}
	}
	t.lib.Items = keepItems
	return nil
}

// ContentsCount returns the number of descendant folders and contained items
// that a cascading delete of the folder would remove. The UI uses it to ask
// for confirmation before calling Delete with cascade.
func (t *Tree) ContentsCount(id string) (folders, items int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	descendants := t.descendantsLocked(id)
	folders = len(descendants)
	items = len(t.lib.GetItemsIn(id))
	for d := range descendants {
		items += len(t.lib.GetItemsIn(d))
	}
	return folders, items
}

// Descendants returns the full descendant-id set of a folder.
func (t *Tree) Descendants(id string) map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.descendantsLocked(id)
}

// descendantsLocked computes the descendant set by breadth-first traversal
// over a parent-indexed adjacency view. An explicit queue bounds the walk
// even if the stored tree is corrupted into a cycle. Callers hold t.mu.
func (t *Tree) descendantsLocked(id string) map[string]bool {
	children := map[string][]string{}
	for _, f := range t.lib.Folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	result := map[string]bool{}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if !result[child] {
				result[child] = true
				queue = append(queue, child)
			}
		}
	}
	return result
}

func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
