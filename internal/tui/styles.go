package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemCursor   lipgloss.Style
	ItemSelected lipgloss.Style
	Folder       lipgloss.Style
	Meta         lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	Overlay      lipgloss.Style
	Breadcrumb   lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	warn := lipgloss.AdaptiveColor{Light: "#8A5050", Dark: "#A86060"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(2),

		ItemCursor: lipgloss.NewStyle().
			PaddingLeft(0).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemSelected: lipgloss.NewStyle().
			Foreground(accent).
			PaddingLeft(2),

		Folder: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Meta: lipgloss.NewStyle().
			Foreground(subtle),

		Status: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(1),

		Error: lipgloss.NewStyle().
			Foreground(warn).
			PaddingTop(1),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
