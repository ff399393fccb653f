package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"reel/internal/dupes"
	"reel/internal/model"
	"reel/internal/reorder"
	"reel/internal/search"
	"reel/internal/selection"
	"reel/internal/tree"
)

// MoveDoneMsg reports the outcome of a (bulk) folder move after all
// persistence calls resolved.
type MoveDoneMsg struct {
	Moved    int
	Failed   int
	FirstErr error
}

// ReorderFailedMsg surfaces an asynchronous reorder-commit failure.
// The runner wires the coordinator's error callback to Program.Send.
type ReorderFailedMsg struct {
	ParentID string
	Err      error
}

// App is the main bubbletea model for the library browser.
type App struct {
	lib    *model.Library
	tree   *tree.Tree
	coord  *reorder.Coordinator
	sel    *selection.Manager
	keys   KeyMap
	styles Styles

	scope          string
	metadataSearch bool
	skipConfirm    bool

	mode    Mode
	browser BrowserNav
	filter  FilterState
	srch    SearchState
	move    MoveState
	dupe    DupeState
	confirm ConfirmState
	input   InputState

	status  string
	lastErr error

	// For gg command
	lastKeyWasG bool

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Library        *model.Library
	Tree           *tree.Tree
	Coordinator    *reorder.Coordinator
	OwnerScope     string
	MetadataSearch bool

	// SkipDeleteConfirm deletes folders without the cascade confirmation.
	SkipDeleteConfirm bool

	Keys   *KeyMap // optional, uses default if nil
	Styles *Styles // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	app := App{
		lib:            params.Library,
		tree:           params.Tree,
		coord:          params.Coordinator,
		sel:            selection.NewManager(),
		keys:           keys,
		styles:         styles,
		scope:          params.OwnerScope,
		metadataSearch: params.MetadataSearch,
		skipConfirm:    params.SkipDeleteConfirm,
		browser:        NewBrowserNav(),
		filter:         NewFilterState(),
		srch:           NewSearchState(),
		move:           NewMoveState(),
		input:          NewInputState(),
		width:          80,
		height:         24,
	}

	app.lib.EnsureDefaultFolder(params.OwnerScope)
	app.refreshEntries()
	return app
}

// Library returns the in-memory library (for saving on exit).
func (a App) Library() *model.Library {
	return a.lib
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.browser.Cursor
}

// CurrentFolderID returns the ID of the current folder (nil for root).
func (a App) CurrentFolderID() *string {
	return a.browser.CurrentFolderID
}

// Entries returns the current list entries.
func (a App) Entries() []Entry {
	return a.browser.Entries
}

// Selection returns the selection manager.
func (a App) Selection() *selection.Manager {
	return a.sel
}

// refreshEntries rebuilds the entry list for the current folder and filter,
// and re-syncs the selection against the new view identity.
func (a *App) refreshEntries() {
	a.browser.Entries = []Entry{}

	// Walk under the tree's lock: a failing move commit may still be
	// rolling back a parent reference on another goroutine.
	a.tree.Read(func(lib *model.Library) {
		// Folders first, scoped to the owner
		for _, f := range lib.GetFoldersIn(a.browser.CurrentFolderID) {
			if f.OwnerScope != a.scope {
				continue
			}
			if a.filter.Query != "" && !search.Match(a.filter.Query, f.Name) {
				continue
			}
			folder := f
			a.browser.Entries = append(a.browser.Entries, Entry{Kind: EntryFolder, Folder: &folder})
		}

		// Items in sequence order; only folders live at root
		if a.browser.CurrentFolderID != nil {
			items := lib.GetItemsIn(*a.browser.CurrentFolderID)
			items = search.Filter(items, a.filter.Query, a.metadataSearch)
			for _, it := range items {
				item := it
				a.browser.Entries = append(a.browser.Entries, Entry{Kind: EntryMedia, Item: &item})
			}
		}
	})

	if a.browser.Cursor >= len(a.browser.Entries) {
		a.browser.Cursor = len(a.browser.Entries) - 1
	}
	if a.browser.Cursor < 0 {
		a.browser.Cursor = 0
	}

	a.sel.SyncView(a.viewID())
}

// viewID identifies the visible list; changing folder or filter changes it
// and disengages any selection.
func (a *App) viewID() string {
	folder := "root"
	if a.browser.CurrentFolderID != nil {
		folder = *a.browser.CurrentFolderID
	}
	return "folder:" + folder + "|filter:" + a.filter.Query
}

// visibleIDs returns the entry ids in display order.
func (a *App) visibleIDs() []string {
	ids := make([]string, len(a.browser.Entries))
	for i, e := range a.browser.Entries {
		ids[i] = e.ID()
	}
	return ids
}

// currentEntry returns the entry under the cursor, or nil.
func (a *App) currentEntry() *Entry {
	if len(a.browser.Entries) == 0 || a.browser.Cursor >= len(a.browser.Entries) {
		return nil
	}
	return &a.browser.Entries[a.browser.Cursor]
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case MoveDoneMsg:
		a.refreshEntries()
		if msg.Failed > 0 {
			a.lastErr = fmt.Errorf("%d moved, %d failed: %v", msg.Moved, msg.Failed, msg.FirstErr)
		} else {
			a.status = fmt.Sprintf("%d folder(s) moved", msg.Moved)
		}
		return a, nil

	case ReorderFailedMsg:
		a.lastErr = fmt.Errorf("saving order failed, reorder again to retry: %v", msg.Err)
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeNormal:
			return a.updateNormal(msg)
		case ModeFilter:
			return a.updateFilter(msg)
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeDupes:
			return a.updateDupes(msg)
		case ModeMove:
			return a.updateMove(msg)
		case ModeAddFolder, ModeRename:
			return a.updateInput(msg)
		case ModeConfirmDelete:
			return a.updateConfirm(msg)
		case ModeHelp:
			a.mode = ModeNormal
			return a, nil
		}
	}

	return a, nil
}

// updateNormal handles keys in the main browse mode.
func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.browser.Cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.status = ""
	a.lastErr = nil

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.browser.Entries) > 0 && a.browser.Cursor < len(a.browser.Entries)-1 {
			a.browser.Cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.browser.Cursor > 0 {
			a.browser.Cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.browser.Entries) > 0 {
			a.browser.Cursor = len(a.browser.Entries) - 1
		}

	case key.Matches(msg, a.keys.Right):
		if entry := a.currentEntry(); entry != nil && entry.IsFolder() {
			if a.browser.CurrentFolderID != nil {
				a.browser.FolderStack = append(a.browser.FolderStack, *a.browser.CurrentFolderID)
			}
			id := entry.Folder.ID
			a.browser.CurrentFolderID = &id
			a.browser.Cursor = 0
			a.filter.Reset()
			a.refreshEntries()
		}

	case key.Matches(msg, a.keys.Left):
		if a.browser.CurrentFolderID != nil {
			if len(a.browser.FolderStack) > 0 {
				lastIdx := len(a.browser.FolderStack) - 1
				parentID := a.browser.FolderStack[lastIdx]
				a.browser.FolderStack = a.browser.FolderStack[:lastIdx]
				a.browser.CurrentFolderID = &parentID
			} else {
				a.browser.CurrentFolderID = nil
			}
			a.browser.Cursor = 0
			a.filter.Reset()
			a.refreshEntries()
		}

	case key.Matches(msg, a.keys.Select):
		if entry := a.currentEntry(); entry != nil {
			a.sel.Toggle(entry.ID())
		}

	case key.Matches(msg, a.keys.Range):
		if entry := a.currentEntry(); entry != nil {
			a.sel.SelectRange(entry.ID(), a.visibleIDs())
		}

	case key.Matches(msg, a.keys.SelectAll):
		a.sel.ToggleAll(a.visibleIDs())

	case key.Matches(msg, a.keys.MoveItemDn):
		return a.shiftItem(1)

	case key.Matches(msg, a.keys.MoveItemUp):
		return a.shiftItem(-1)

	case key.Matches(msg, a.keys.Move):
		a.openMovePicker()

	case key.Matches(msg, a.keys.AddFolder):
		a.mode = ModeAddFolder
		a.input.Prompt = "New folder name"
		a.input.Input.Focus()

	case key.Matches(msg, a.keys.Rename):
		if entry := a.currentEntry(); entry != nil && entry.IsFolder() {
			a.mode = ModeRename
			a.input.Prompt = "Rename folder"
			a.input.TargetID = entry.Folder.ID
			a.input.Input.SetValue(entry.Folder.Name)
			a.input.Input.Focus()
		}

	case key.Matches(msg, a.keys.Delete):
		return a.deleteCurrent()

	case key.Matches(msg, a.keys.YankName):
		if entry := a.currentEntry(); entry != nil {
			if err := clipboard.WriteAll(entry.Title()); err == nil {
				a.status = "name copied"
			}
		}

	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.filter.Input.SetValue(a.filter.Query)
		a.filter.Input.Focus()

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.srch.Reset()
		a.srch.Input.Focus()

	case key.Matches(msg, a.keys.Dupes):
		a.dupe = DupeState{Groups: a.detectDupes()}
		a.mode = ModeDupes

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// shiftItem moves the media item under the cursor within its parent's
// sequence and keeps the cursor on it.
func (a App) shiftItem(delta int) (tea.Model, tea.Cmd) {
	entry := a.currentEntry()
	if entry == nil || entry.IsFolder() || a.browser.CurrentFolderID == nil {
		return a, nil
	}

	id := entry.Item.ID
	if err := a.coord.Shift(*a.browser.CurrentFolderID, id, delta); err != nil {
		a.lastErr = err
		return a, nil
	}

	a.refreshEntries()
	for i, e := range a.browser.Entries {
		if e.ID() == id {
			a.browser.Cursor = i
			break
		}
	}
	return a, nil
}

// detectDupes runs duplicate detection over the current folder's items, or
// the whole library at root.
func (a App) detectDupes() []dupes.Group {
	if a.browser.CurrentFolderID != nil {
		return dupes.Detect(a.lib.GetItemsIn(*a.browser.CurrentFolderID))
	}
	return dupes.Detect(a.lib.Items)
}

// movingFolderIDs returns the folders a move would apply to: the selected
// folders, or the folder under the cursor.
func (a *App) movingFolderIDs() []string {
	var ids []string
	selected := map[string]bool{}
	for _, id := range a.sel.IDs(a.visibleIDs()) {
		selected[id] = true
	}
	for _, e := range a.browser.Entries {
		if e.IsFolder() && selected[e.ID()] {
			ids = append(ids, e.ID())
		}
	}
	if len(ids) == 0 {
		if entry := a.currentEntry(); entry != nil && entry.IsFolder() {
			ids = append(ids, entry.Folder.ID)
		}
	}
	return ids
}

// openMovePicker enters the move mode for the selected folders.
func (a *App) openMovePicker() {
	ids := a.movingFolderIDs()
	if len(ids) == 0 {
		a.status = "select a folder to move"
		return
	}
	a.move.Reset()
	a.move.FolderIDs = ids
	a.move.Choices = a.moveChoices("")
	a.move.Input.Focus()
	a.mode = ModeMove
}

// moveChoices lists the valid destinations for the pending move: root plus
// every folder in scope that is not being moved or inside a moved subtree.
func (a *App) moveChoices(filterQuery string) []MoveChoice {
	excluded := map[string]bool{}
	for _, id := range a.move.FolderIDs {
		excluded[id] = true
		for d := range a.tree.Descendants(id) {
			excluded[d] = true
		}
	}

	choices := []MoveChoice{{ID: nil, Path: "/"}}
	a.tree.Read(func(lib *model.Library) {
		for _, f := range lib.Folders {
			if f.OwnerScope != a.scope || excluded[f.ID] {
				continue
			}
			path := folderPathIn(lib, f.ID)
			if filterQuery != "" && !search.Match(filterQuery, path) {
				continue
			}
			id := f.ID
			choices = append(choices, MoveChoice{ID: &id, Path: path})
		}
	})
	return choices
}

// folderPath renders a folder's full path like "/shoots/day one".
func (a *App) folderPath(id string) string {
	var path string
	a.tree.Read(func(lib *model.Library) {
		path = folderPathIn(lib, id)
	})
	return path
}

func folderPathIn(lib *model.Library, id string) string {
	var parts []string
	current := lib.GetFolderByID(id)
	for current != nil {
		parts = append([]string{current.Name}, parts...)
		if current.ParentID == nil {
			break
		}
		current = lib.GetFolderByID(*current.ParentID)
	}
	return "/" + strings.Join(parts, "/")
}

// deleteCurrent deletes the selected media items, or asks for cascade
// confirmation when the cursor is on a folder.
func (a App) deleteCurrent() (tea.Model, tea.Cmd) {
	// Selected media items delete as a batch
	if a.sel.Count() > 0 {
		removed := 0
		for _, id := range a.sel.IDs(a.visibleIDs()) {
			if a.lib.GetItemByID(id) != nil {
				if err := a.lib.RemoveItem(id); err == nil {
					removed++
				}
			}
		}
		if removed > 0 {
			a.sel.Clear()
			a.refreshEntries()
			a.status = fmt.Sprintf("%d item(s) deleted", removed)
			return a, nil
		}
	}

	entry := a.currentEntry()
	if entry == nil {
		return a, nil
	}

	if !entry.IsFolder() {
		if err := a.lib.RemoveItem(entry.Item.ID); err != nil {
			a.lastErr = err
		} else {
			a.refreshEntries()
			a.status = "item deleted"
		}
		return a, nil
	}

	if entry.Folder.Protected {
		a.lastErr = fmt.Errorf("%w: %s", tree.ErrProtectedFolder, entry.Folder.Name)
		return a, nil
	}

	if a.skipConfirm {
		if err := a.tree.Delete(entry.Folder.ID, true); err != nil {
			a.lastErr = err
		} else {
			a.refreshEntries()
			a.status = fmt.Sprintf("folder %q deleted", entry.Folder.Name)
		}
		return a, nil
	}

	folders, items := a.tree.ContentsCount(entry.Folder.ID)
	a.confirm = ConfirmState{
		FolderID:    entry.Folder.ID,
		FolderName:  entry.Folder.Name,
		FolderCount: folders,
		ItemCount:   items,
	}
	a.mode = ModeConfirmDelete
	return a, nil
}

// updateFilter handles keys while the filter input is focused.
func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.filter.Reset()
		a.mode = ModeNormal
		a.refreshEntries()
		return a, nil
	case tea.KeyEnter:
		a.filter.Query = a.filter.Input.Value()
		a.mode = ModeNormal
		a.refreshEntries()
		return a, nil
	}

	var cmd tea.Cmd
	a.filter.Input, cmd = a.filter.Input.Update(msg)
	return a, cmd
}

// updateSearch handles keys in the global search overlay.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.srch.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyUp:
		if a.srch.Cursor > 0 {
			a.srch.Cursor--
		}
		return a, nil

	case tea.KeyDown:
		if a.srch.Cursor < len(a.srch.Results)-1 {
			a.srch.Cursor++
		}
		return a, nil

	case tea.KeyEnter:
		if a.srch.Cursor < len(a.srch.Results) {
			a.jumpToItem(a.srch.Results[a.srch.Cursor].Item)
		}
		a.srch.Reset()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.srch.Input, cmd = a.srch.Input.Update(msg)
	a.srch.Results = search.Rank(a.lib, a.srch.Input.Value())
	if a.srch.Cursor >= len(a.srch.Results) {
		a.srch.Cursor = 0
	}
	return a, cmd
}

// jumpToItem navigates to an item's parent folder and puts the cursor on it.
func (a *App) jumpToItem(item *model.Item) {
	// Rebuild the breadcrumb stack from the folder's ancestor chain
	var stack []string
	a.tree.Read(func(lib *model.Library) {
		current := lib.GetFolderByID(item.ParentID)
		for current != nil && current.ParentID != nil {
			stack = append([]string{*current.ParentID}, stack...)
			current = lib.GetFolderByID(*current.ParentID)
		}
	})

	parentID := item.ParentID
	a.browser.FolderStack = stack
	a.browser.CurrentFolderID = &parentID
	a.filter.Reset()
	a.refreshEntries()

	for i, e := range a.browser.Entries {
		if e.ID() == item.ID {
			a.browser.Cursor = i
			return
		}
	}
	a.browser.Cursor = 0
}

// updateDupes handles keys in the duplicates overlay.
func (a App) updateDupes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "D":
		a.mode = ModeNormal
	case "j", "down":
		if a.dupe.Cursor < len(a.dupe.Groups)-1 {
			a.dupe.Cursor++
		}
	case "k", "up":
		if a.dupe.Cursor > 0 {
			a.dupe.Cursor--
		}
	}
	return a, nil
}

// updateMove handles keys in the move-to-folder picker.
func (a App) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.move.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyUp:
		if a.move.Cursor > 0 {
			a.move.Cursor--
		}
		return a, nil

	case tea.KeyDown:
		if a.move.Cursor < len(a.move.Choices)-1 {
			a.move.Cursor++
		}
		return a, nil

	case tea.KeyEnter:
		if a.move.Cursor >= len(a.move.Choices) {
			return a, nil
		}
		dest := a.move.Choices[a.move.Cursor].ID
		ids := a.move.FolderIDs
		a.move.Reset()
		a.mode = ModeNormal
		return a.executeMove(ids, dest)
	}

	var cmd tea.Cmd
	a.move.Input, cmd = a.move.Input.Update(msg)
	a.move.Choices = a.moveChoices(a.move.Input.Value())
	if a.move.Cursor >= len(a.move.Choices) {
		a.move.Cursor = 0
	}
	return a, cmd
}

// executeMove applies the move optimistically and returns a command that
// waits for all persistence calls to resolve.
func (a App) executeMove(ids []string, dest *string) (tea.Model, tea.Cmd) {
	outcomes := a.tree.BulkMove(ids, dest)
	a.sel.Clear()
	a.refreshEntries()

	var rejected int
	var firstErr error
	var commits []*tree.Commit
	for _, o := range outcomes {
		if o.Err != nil {
			rejected++
			if firstErr == nil {
				firstErr = o.Err
			}
			continue
		}
		if o.Commit != nil {
			commits = append(commits, o.Commit)
		}
	}

	total := len(ids)
	return a, func() tea.Msg {
		moved := total - rejected
		failed := rejected
		for _, c := range commits {
			if err := c.Wait(); err != nil {
				moved--
				failed++
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return MoveDoneMsg{Moved: moved, Failed: failed, FirstErr: firstErr}
	}
}

// updateInput handles the add-folder and rename text prompts.
func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.input.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(a.input.Input.Value())
		if name == "" {
			return a, nil
		}
		switch a.mode {
		case ModeAddFolder:
			if _, err := a.tree.Create(a.browser.CurrentFolderID, name, a.scope); err != nil {
				a.lastErr = err
			} else {
				a.status = fmt.Sprintf("folder %q created", name)
			}
		case ModeRename:
			if err := a.tree.Rename(a.input.TargetID, name); err != nil {
				a.lastErr = err
			} else {
				a.status = "folder renamed"
			}
		}
		a.input.Reset()
		a.mode = ModeNormal
		a.refreshEntries()
		return a, nil
	}

	var cmd tea.Cmd
	a.input.Input, cmd = a.input.Input.Update(msg)
	return a, cmd
}

// updateConfirm handles the cascade-delete confirmation.
func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if err := a.tree.Delete(a.confirm.FolderID, true); err != nil {
			a.lastErr = err
		} else {
			a.status = fmt.Sprintf("folder %q deleted", a.confirm.FolderName)
		}
		a.mode = ModeNormal
		a.refreshEntries()
	case "n", "esc", "q":
		a.mode = ModeNormal
	}
	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
