package layout

// Config holds all layout-related configuration values.
type Config struct {
	List  ListConfig
	Modal ModalConfig
	Text  TextConfig
}

// ListConfig holds list dimension configuration.
type ListConfig struct {
	// HeightReduction is subtracted from terminal height for list content.
	// Accounts for: app padding (1) + breadcrumb (1) + status line (1) + help bar (2) = 5
	HeightReduction int

	// MinHeight is the minimum list height.
	MinHeight int

	// ContentPadding is subtracted from terminal width for entry rendering.
	ContentPadding int
}

// ModalConfig holds overlay dialog configuration.
type ModalConfig struct {
	// WidthPercent is the overlay width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum overlay width in characters.
	MinWidth int

	// MaxWidth is the maximum overlay width in characters.
	MaxWidth int

	// MaxVisible is the max rows shown in the move picker and search results.
	MaxVisible int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		List: ListConfig{
			HeightReduction: 5,
			MinHeight:       5,
			ContentPadding:  6,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     44,
			MaxWidth:     80,
			MaxVisible:   8,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
