package layout

import (
	"regexp"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText truncates text to maxWidth with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	textLen := utf8.RuneCountInString(text)

	if textLen <= maxWidth {
		return text, false
	}

	if maxWidth <= ellipsisLen {
		runes := []rune(cfg.Ellipsis)
		return string(runes[:maxWidth]), true
	}

	runes := []rune(text)
	truncLen := maxWidth - ellipsisLen
	return string(runes[:truncLen]) + cfg.Ellipsis, true
}

// TruncateANSIAware truncates styled text, preserving ANSI codes. Used for
// ranked search results where matched runes carry highlight styling. The
// result gets a reset code appended to prevent style bleed.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}

	visLen := VisibleLength(styledText)
	if visLen <= maxWidth {
		return styledText
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	targetVisibleLen := maxWidth - ellipsisLen
	if targetVisibleLen < 0 {
		targetVisibleLen = 0
	}

	var result []byte
	var visibleCount int
	input := []byte(styledText)
	resetCode := []byte("\x1b[0m")

	i := 0
	for i < len(input) && visibleCount < targetVisibleLen {
		if input[i] == '\x1b' && i+1 < len(input) && input[i+1] == '[' {
			j := i + 2
			for j < len(input) && input[j] != 'm' {
				j++
			}
			if j < len(input) {
				result = append(result, input[i:j+1]...)
				i = j + 1
				continue
			}
		}

		r, size := utf8.DecodeRune(input[i:])
		if r != utf8.RuneError {
			result = append(result, input[i:i+size]...)
			visibleCount++
		}
		i += size
	}

	result = append(result, []byte(cfg.Ellipsis)...)
	result = append(result, resetCode...)

	return string(result)
}
