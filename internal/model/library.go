package model

import (
	"fmt"
	"sort"
)

// DefaultFolderName is the name given to the protected root folder of a scope.
const DefaultFolderName = "Library"

// Library holds all folders and items.
type Library struct {
	Folders []Folder `json:"folders"`
	Items   []Item   `json:"items"`
}

// NewLibrary creates an empty Library with initialized slices.
func NewLibrary() *Library {
	return &Library{
		Folders: []Folder{},
		Items:   []Item{},
	}
}

// GetFoldersIn returns folders with the given parent ID.
// Pass nil for root level folders.
func (l *Library) GetFoldersIn(parentID *string) []Folder {
	var result []Folder
	for _, f := range l.Folders {
		if ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	return result
}

// GetItemsIn returns items in the given parent, ordered by Sequence.
func (l *Library) GetItemsIn(parentID string) []Item {
	var result []Item
	for _, it := range l.Items {
		if it.ParentID == parentID {
			result = append(result, it)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	return result
}

// GetFolderByID finds a folder by ID, returns nil if not found.
func (l *Library) GetFolderByID(id string) *Folder {
	for i := range l.Folders {
		if l.Folders[i].ID == id {
			return &l.Folders[i]
		}
	}
	return nil
}

// GetItemByID finds an item by ID, returns nil if not found.
func (l *Library) GetItemByID(id string) *Item {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}

// AddFolder appends a folder to the library.
func (l *Library) AddFolder(f Folder) {
	l.Folders = append(l.Folders, f)
}

// AppendItem adds an item at the end of its parent's sequence.
// The item's Sequence field is overwritten with the next dense value.
func (l *Library) AppendItem(it Item) {
	max := 0
	for i := range l.Items {
		if l.Items[i].ParentID == it.ParentID && l.Items[i].Sequence > max {
			max = l.Items[i].Sequence
		}
	}
	it.Sequence = max + 1
	l.Items = append(l.Items, it)
}

// RemoveItem deletes an item and renumbers the remaining items of its parent
// so sequences stay dense.
func (l *Library) RemoveItem(id string) error {
	idx := -1
	for i := range l.Items {
		if l.Items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("item not found: %s", id)
	}
	parentID := l.Items[idx].ParentID
	l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
	l.RenumberParent(parentID)
	return nil
}

// RemoveFolder deletes a folder record. Structural validation (protected
// folders, cascade) belongs to the tree engine; this is the raw mutation.
func (l *Library) RemoveFolder(id string) error {
	for i := range l.Folders {
		if l.Folders[i].ID == id {
			l.Folders = append(l.Folders[:i], l.Folders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("folder not found: %s", id)
}

// RenumberParent rewrites the sequences of a parent's items to 1..N,
// preserving their current relative order.
func (l *Library) RenumberParent(parentID string) {
	ordered := l.GetItemsIn(parentID)
	for seq, it := range ordered {
		if entry := l.GetItemByID(it.ID); entry != nil {
			entry.Sequence = seq + 1
		}
	}
}

// EnsureDefaultFolder returns the protected root folder for a scope,
// creating it lazily if the scope has none.
func (l *Library) EnsureDefaultFolder(scope string) *Folder {
	for i := range l.Folders {
		if l.Folders[i].OwnerScope == scope && l.Folders[i].Protected {
			return &l.Folders[i]
		}
	}
	l.Folders = append(l.Folders, Folder{
		ID:         GenerateUUID(),
		Name:       DefaultFolderName,
		ParentID:   nil,
		OwnerScope: scope,
		Protected:  true,
	})
	return &l.Folders[len(l.Folders)-1]
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
