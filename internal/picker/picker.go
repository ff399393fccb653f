package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reel/internal/model"
	"reel/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Bold(true).
			MarginBottom(1)
)

// Picker is a minimal TUI for selecting one item from ranked search results.
type Picker struct {
	lib       *model.Library
	results   []search.Result
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over ranked results. The library is needed to render
// each item's folder path.
func New(lib *model.Library, results []search.Result, query string) Picker {
	return Picker{
		lib:     lib,
		results: results,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			p.selected = true
			return p, tea.Quit

		case tea.KeyDown:
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case tea.KeyUp:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				if p.cursor < len(p.results)-1 {
					p.cursor++
				}
				return p, nil
			case "k":
				if p.cursor > 0 {
					p.cursor--
				}
				return p, nil
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		name := style.Render(result.Item.Name)
		path := pathStyle.Render(p.itemPath(result.Item))

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, name))
		b.WriteString(fmt.Sprintf("   %s\n", path))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("j/k: move  Enter: select  q/Esc: cancel"))

	return b.String()
}

// SelectedItem returns the selected item, or nil if cancelled.
func (p Picker) SelectedItem() *model.Item {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Item
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// itemPath renders the folder path holding an item.
func (p Picker) itemPath(item *model.Item) string {
	var parts []string
	current := p.lib.GetFolderByID(item.ParentID)
	for current != nil {
		parts = append([]string{current.Name}, parts...)
		if current.ParentID == nil {
			break
		}
		current = p.lib.GetFolderByID(*current.ParentID)
	}
	return "/" + strings.Join(parts, "/")
}
