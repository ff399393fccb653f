package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reel/internal/model"
)

// Store defines the persistence collaborator consumed by the engines:
// whole-library hydration plus per-operation commits.
type Store interface {
	Load() (*model.Library, error)
	Save(lib *model.Library) error

	CommitFolderMove(folderID string, newParentID *string) error
	CommitCreateFolder(f model.Folder) error
	CommitRenameFolder(id, name string) error
	CommitDeleteFolder(id string, cascade bool) error
	CommitReorder(parentID string, orderedItemIDs []string) error

	ListFolders(scope string) ([]model.Folder, error)
	ListItems(parentID string) ([]model.Item, error)
}

// JSONStorage implements Store using a single JSON file. Commit operations
// are read-modify-write of the whole file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the library from the JSON file.
// Returns an empty library if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Library, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewLibrary(), nil
		}
		return nil, err
	}

	var lib model.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, err
	}

	if lib.Folders == nil {
		lib.Folders = []model.Folder{}
	}
	if lib.Items == nil {
		lib.Items = []model.Item{}
	}

	return &lib, nil
}

// Save writes the library to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(lib *model.Library) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// update applies a mutation to the stored library and writes it back.
func (s *JSONStorage) update(fn func(lib *model.Library) error) error {
	lib, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(lib); err != nil {
		return err
	}
	return s.Save(lib)
}

// CommitFolderMove reparents a folder in the stored library.
func (s *JSONStorage) CommitFolderMove(folderID string, newParentID *string) error {
	return s.update(func(lib *model.Library) error {
		folder := lib.GetFolderByID(folderID)
		if folder == nil {
			return fmt.Errorf("folder not found: %s", folderID)
		}
		folder.ParentID = newParentID
		return nil
	})
}

// CommitCreateFolder adds a folder to the stored library.
func (s *JSONStorage) CommitCreateFolder(f model.Folder) error {
	return s.update(func(lib *model.Library) error {
		lib.AddFolder(f)
		return nil
	})
}

// CommitRenameFolder renames a folder in the stored library.
func (s *JSONStorage) CommitRenameFolder(id, name string) error {
	return s.update(func(lib *model.Library) error {
		folder := lib.GetFolderByID(id)
		if folder == nil {
			return fmt.Errorf("folder not found: %s", id)
		}
		folder.Name = name
		return nil
	})
}

// CommitDeleteFolder removes a folder and, with cascade, its whole subtree
// and contained items.
func (s *JSONStorage) CommitDeleteFolder(id string, cascade bool) error {
	return s.update(func(lib *model.Library) error {
		doomed := map[string]bool{id: true}
		if cascade {
			// Repeated sweeps give the closure without an index
			for changed := true; changed; {
				changed = false
				for _, f := range lib.Folders {
					if f.ParentID != nil && doomed[*f.ParentID] && !doomed[f.ID] {
						doomed[f.ID] = true
						changed = true
					}
				}
			}
		}

		var keepFolders []model.Folder
		for _, f := range lib.Folders {
			if !doomed[f.ID] {
				keepFolders = append(keepFolders, f)
			}
		}
		lib.Folders = keepFolders

		var keepItems []model.Item
		for _, it := range lib.Items {
			if !doomed[it.ParentID] {
				keepItems = append(keepItems, it)
			}
		}
		lib.Items = keepItems
		return nil
	})
}

// CommitReorder rewrites the sequences of a parent's items to match the
// given order.
func (s *JSONStorage) CommitReorder(parentID string, orderedItemIDs []string) error {
	return s.update(func(lib *model.Library) error {
		for seq, id := range orderedItemIDs {
			item := lib.GetItemByID(id)
			if item == nil {
				return fmt.Errorf("item not found: %s", id)
			}
			if item.ParentID != parentID {
				return fmt.Errorf("item %s not in parent %s", id, parentID)
			}
			item.Sequence = seq + 1
		}
		return nil
	})
}

// ListFolders returns the stored folders of an owner scope.
func (s *JSONStorage) ListFolders(scope string) ([]model.Folder, error) {
	lib, err := s.Load()
	if err != nil {
		return nil, err
	}
	var result []model.Folder
	for _, f := range lib.Folders {
		if f.OwnerScope == scope {
			result = append(result, f)
		}
	}
	return result, nil
}

// ListItems returns the stored items of a parent, ordered by sequence.
func (s *JSONStorage) ListItems(parentID string) ([]model.Item, error) {
	lib, err := s.Load()
	if err != nil {
		return nil, err
	}
	return lib.GetItemsIn(parentID), nil
}

// DefaultLibraryPath returns the default JSON library path: ~/.config/reel/library.json
func DefaultLibraryPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "reel", "library.json"), nil
}

// OpenStore opens the appropriate storage backend.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStore() (Store, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}

	jsonPath, err := DefaultLibraryPath()
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(jsonPath), nil
}
