package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"reel/internal/dupes"
	"reel/internal/search"
)

// Mode identifies which interaction surface currently owns the keyboard.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeSearch
	ModeDupes
	ModeMove
	ModeAddFolder
	ModeRename
	ModeConfirmDelete
	ModeHelp
)

// BrowserNav holds state for folder navigation.
type BrowserNav struct {
	CurrentFolderID *string  // nil = root
	FolderStack     []string // breadcrumb trail of folder IDs
	Cursor          int      // selected entry index
	Entries         []Entry  // current list entries
}

// NewBrowserNav creates a new BrowserNav at root.
func NewBrowserNav() BrowserNav {
	return BrowserNav{
		CurrentFolderID: nil,
		FolderStack:     []string{},
		Cursor:          0,
	}
}

// AtRoot returns true if currently at the root level.
func (b *BrowserNav) AtRoot() bool {
	return b.CurrentFolderID == nil
}

// FilterState holds state for the inline name filter.
type FilterState struct {
	Input textinput.Model
	Query string // active query, persists after closing the input
}

// NewFilterState creates a FilterState with an initialized input.
func NewFilterState() FilterState {
	input := textinput.New()
	input.Placeholder = "Filter..."
	input.CharLimit = 64
	input.Width = 30
	return FilterState{Input: input}
}

// Reset clears the filter.
func (f *FilterState) Reset() {
	f.Input.Reset()
	f.Query = ""
}

// SearchState holds state for the global fuzzy search overlay.
type SearchState struct {
	Input   textinput.Model
	Results []search.Result
	Cursor  int
}

// NewSearchState creates a SearchState with an initialized input.
func NewSearchState() SearchState {
	input := textinput.New()
	input.Placeholder = "Search library..."
	input.CharLimit = 64
	input.Width = 40
	return SearchState{Input: input}
}

// Reset clears the search state for a new session.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Results = nil
	s.Cursor = 0
}

// MoveState holds state for the move-to-folder picker.
type MoveState struct {
	Input     textinput.Model
	Choices   []MoveChoice // destination folders, filtered
	Cursor    int
	FolderIDs []string // folders being moved
}

// MoveChoice is one destination in the move picker.
type MoveChoice struct {
	ID   *string // nil = root
	Path string  // display path ("/" for root)
}

// NewMoveState creates a MoveState with an initialized input.
func NewMoveState() MoveState {
	input := textinput.New()
	input.Placeholder = "Filter folders..."
	input.CharLimit = 64
	input.Width = 30
	return MoveState{Input: input}
}

// Reset clears the move state for a new session.
func (m *MoveState) Reset() {
	m.Input.Reset()
	m.Choices = nil
	m.Cursor = 0
	m.FolderIDs = nil
}

// InputState backs the add-folder and rename text prompts.
type InputState struct {
	Input    textinput.Model
	Prompt   string
	TargetID string // folder being renamed, empty for add
}

// NewInputState creates an InputState with an initialized input.
func NewInputState() InputState {
	input := textinput.New()
	input.CharLimit = 64
	input.Width = 30
	return InputState{Input: input}
}

// Reset clears the input state.
func (i *InputState) Reset() {
	i.Input.Reset()
	i.Prompt = ""
	i.TargetID = ""
}

// DupeState holds state for the duplicates overlay.
type DupeState struct {
	Groups []dupes.Group
	Cursor int
}

// ConfirmState holds state for the cascade-delete confirmation.
type ConfirmState struct {
	FolderID    string
	FolderName  string
	FolderCount int
	ItemCount   int
}
