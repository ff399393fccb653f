package tui

import "reel/internal/model"

// EntryKind distinguishes between folders and media items in a list.
type EntryKind int

const (
	EntryFolder EntryKind = iota
	EntryMedia
)

// Entry represents either a folder or a media item in the list.
type Entry struct {
	Kind   EntryKind
	Folder *model.Folder
	Item   *model.Item
}

// ID returns the entry's ID regardless of type.
func (e Entry) ID() string {
	if e.Kind == EntryFolder {
		return e.Folder.ID
	}
	return e.Item.ID
}

// Title returns a display title for the entry.
func (e Entry) Title() string {
	if e.Kind == EntryFolder {
		return e.Folder.Name
	}
	return e.Item.Name
}

// IsFolder returns true if this entry is a folder.
func (e Entry) IsFolder() bool {
	return e.Kind == EntryFolder
}
