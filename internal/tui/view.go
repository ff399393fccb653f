package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reel/internal/tui/layout"
)

// renderView renders the browser plus any active overlay.
func (a App) renderView() string {
	base := a.renderBrowser()

	switch a.mode {
	case ModeSearch:
		return a.placeOverlay(a.renderSearch())
	case ModeDupes:
		return a.placeOverlay(a.renderDupes())
	case ModeMove:
		return a.placeOverlay(a.renderMove())
	case ModeAddFolder, ModeRename:
		return a.placeOverlay(a.renderInput())
	case ModeConfirmDelete:
		return a.placeOverlay(a.renderConfirm())
	case ModeHelp:
		return a.placeOverlay(a.renderHelp())
	}

	return base
}

// placeOverlay centers an overlay box in the terminal.
func (a App) placeOverlay(content string) string {
	cfg := layout.DefaultConfig()
	width := layout.CalculateModalWidth(a.width, cfg.Modal)
	box := a.styles.Overlay.Width(width).Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// renderBrowser renders the breadcrumb, entry list, and status bar.
func (a App) renderBrowser() string {
	cfg := layout.DefaultConfig()
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("reel"))
	b.WriteString("  ")
	b.WriteString(a.styles.Breadcrumb.Render(a.breadcrumb()))
	b.WriteString("\n\n")

	if a.mode == ModeFilter {
		b.WriteString("/" + a.filter.Input.View())
		b.WriteString("\n")
	} else if a.filter.Query != "" {
		b.WriteString(a.styles.Meta.Render(fmt.Sprintf("filter: %s (%d shown)", a.filter.Query, len(a.browser.Entries))))
		b.WriteString("\n")
	}

	if len(a.browser.Entries) == 0 {
		b.WriteString(a.styles.Empty.Render("  nothing here"))
		b.WriteString("\n")
	} else {
		height := layout.CalculateListHeight(a.height, cfg.List)
		entryWidth := layout.CalculateEntryWidth(a.width, cfg.List)
		offset := layout.CalculateViewportOffset(a.browser.Cursor, len(a.browser.Entries), height)

		end := offset + height
		if end > len(a.browser.Entries) {
			end = len(a.browser.Entries)
		}

		for i := offset; i < end; i++ {
			b.WriteString(a.renderEntry(i, entryWidth))
			b.WriteString("\n")
		}
	}

	switch {
	case a.lastErr != nil:
		b.WriteString(a.styles.Error.Render(a.lastErr.Error()))
	case a.status != "":
		b.WriteString(a.styles.Status.Render(a.status))
	}

	if count := a.sel.Count(); count > 0 {
		b.WriteString(a.styles.Status.Render(fmt.Sprintf("\n%d selected", count)))
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("j/k nav · space select · m move · J/K reorder · / filter · s search · ? help · q quit"))

	return a.styles.App.Render(b.String())
}

// renderEntry renders one list row.
func (a App) renderEntry(i, width int) string {
	cfg := layout.DefaultConfig()
	e := a.browser.Entries[i]

	marker := "  "
	if a.sel.IsSelected(e.ID()) {
		marker = "* "
	}

	var line string
	if e.IsFolder() {
		folders, items := a.tree.ContentsCount(e.Folder.ID)
		line = fmt.Sprintf("%s%s/  %s", marker, e.Folder.Name,
			a.styles.Meta.Render(fmt.Sprintf("%d folders, %d items", folders, items)))
	} else {
		line = fmt.Sprintf("%s%s  %s", marker, e.Item.Name,
			a.styles.Meta.Render(fmt.Sprintf("%s · %s", e.Item.Kind, formatSize(e.Item.SizeBytes))))
	}

	line = layout.TruncateANSIAware(line, width, cfg.Text)

	if i == a.browser.Cursor {
		return a.styles.ItemCursor.Render("> " + layout.StripANSI(line))
	}
	if a.sel.IsSelected(e.ID()) {
		return a.styles.ItemSelected.Render(line)
	}
	if e.IsFolder() {
		return a.styles.Folder.Render("  " + line)
	}
	return a.styles.Item.Render(line)
}

// breadcrumb renders the current folder path.
func (a App) breadcrumb() string {
	if a.browser.CurrentFolderID == nil {
		return "/"
	}
	return a.folderPath(*a.browser.CurrentFolderID)
}

// renderSearch renders the global search overlay.
func (a App) renderSearch() string {
	cfg := layout.DefaultConfig()
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(a.srch.Input.View())
	b.WriteString("\n\n")

	if len(a.srch.Results) == 0 {
		if a.srch.Input.Value() != "" {
			b.WriteString(a.styles.Empty.Render("no matches"))
		}
	} else {
		start, end := layout.CalculateVisibleListItems(cfg.Modal.MaxVisible, a.srch.Cursor, len(a.srch.Results))
		for i := start; i < end; i++ {
			r := a.srch.Results[i]
			line := fmt.Sprintf("%s  %s", r.Item.Name, a.styles.Meta.Render(a.folderPath(r.Item.ParentID)))
			if i == a.srch.Cursor {
				b.WriteString(a.styles.ItemCursor.Render("> " + layout.StripANSI(line)))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter jump · esc close"))
	return b.String()
}

// renderDupes renders the duplicate-groups overlay.
func (a App) renderDupes() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Possible duplicates"))
	b.WriteString("\n\n")

	if len(a.dupe.Groups) == 0 {
		b.WriteString(a.styles.Empty.Render("no duplicates found"))
		b.WriteString("\n")
	} else {
		for i, g := range a.dupe.Groups {
			prefix := "  "
			if i == a.dupe.Cursor {
				prefix = "> "
			}
			first := a.lib.GetItemByID(g.Members[0])
			b.WriteString(fmt.Sprintf("%s%d files · %s\n", prefix, len(g.Members), formatSize(first.SizeBytes)))
			for _, id := range g.Members {
				it := a.lib.GetItemByID(id)
				if it == nil {
					continue
				}
				b.WriteString(a.styles.Meta.Render(fmt.Sprintf("      %s  %s", it.Name, a.folderPath(it.ParentID))))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("j/k nav · esc close"))
	return b.String()
}

// renderMove renders the move-destination picker.
func (a App) renderMove() string {
	cfg := layout.DefaultConfig()
	var b strings.Builder

	b.WriteString(a.styles.Title.Render(fmt.Sprintf("Move %d folder(s) to", len(a.move.FolderIDs))))
	b.WriteString("\n\n")
	b.WriteString(a.move.Input.View())
	b.WriteString("\n\n")

	start, end := layout.CalculateVisibleListItems(cfg.Modal.MaxVisible, a.move.Cursor, len(a.move.Choices))
	for i := start; i < end; i++ {
		if i == a.move.Cursor {
			b.WriteString(a.styles.ItemCursor.Render("> " + a.move.Choices[i].Path))
		} else {
			b.WriteString("  " + a.move.Choices[i].Path)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter move · esc cancel"))
	return b.String()
}

// renderInput renders the add-folder / rename prompt.
func (a App) renderInput() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render(a.input.Prompt))
	b.WriteString("\n\n")
	b.WriteString(a.input.Input.View())
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("enter confirm · esc cancel"))
	return b.String()
}

// renderConfirm renders the cascade-delete confirmation.
func (a App) renderConfirm() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Delete folder?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%q contains %d folder(s) and %d item(s).\n", a.confirm.FolderName, a.confirm.FolderCount, a.confirm.ItemCount))
	b.WriteString("Everything inside will be deleted too.\n\n")
	b.WriteString(a.styles.Help.Render("y delete · n cancel"))
	return b.String()
}

// renderHelp renders the key binding reference.
func (a App) renderHelp() string {
	rows := [][2]string{
		{"j/k", "move cursor"},
		{"h/l", "leave / enter folder"},
		{"gg/G", "top / bottom"},
		{"space", "toggle select"},
		{"v", "range select"},
		{"ctrl+a", "select all / clear"},
		{"J/K", "reorder item"},
		{"m", "move folder(s)"},
		{"A", "add folder"},
		{"e", "rename folder"},
		{"d", "delete"},
		{"y", "copy name"},
		{"/", "filter list"},
		{"s", "search library"},
		{"D", "find duplicates"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", r[0], a.styles.Meta.Render(r[1])))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("any key to close"))
	return b.String()
}

// formatSize renders a byte count for humans.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
