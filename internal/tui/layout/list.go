package layout

// CalculateListHeight computes the row count available for the entry list.
// Returns at least MinHeight.
func CalculateListHeight(terminalHeight int, cfg ListConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculateEntryWidth computes the width available for one entry line.
func CalculateEntryWidth(terminalWidth int, cfg ListConfig) int {
	width := terminalWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// cursor visible within the viewport.
func CalculateViewportOffset(cursor, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep the cursor roughly centered, clamped to valid range
	offset := cursor - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
