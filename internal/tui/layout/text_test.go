package layout

import "testing"

func TestTruncateText(t *testing.T) {
	cfg := TextConfig{Ellipsis: "..."}

	tests := []struct {
		name          string
		text          string
		maxWidth      int
		want          string
		wantTruncated bool
	}{
		{"fits untouched", "clip.mp4", 20, "clip.mp4", false},
		{"exact width untouched", "clip.mp4", 8, "clip.mp4", false},
		{"truncated with ellipsis", "a very long media filename.png", 12, "a very lo...", true},
		{"width smaller than ellipsis", "whatever", 2, "..", true},
		{"zero width", "whatever", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateText(tt.text, tt.maxWidth, cfg)
			if got != tt.want || truncated != tt.wantTruncated {
				t.Errorf("TruncateText(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.maxWidth, got, truncated, tt.want, tt.wantTruncated)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	styled := "\x1b[1mbold\x1b[0m plain"
	if got := StripANSI(styled); got != "bold plain" {
		t.Errorf("StripANSI() = %q, want %q", got, "bold plain")
	}
}

func TestVisibleLength(t *testing.T) {
	styled := "\x1b[38;5;66mfolder\x1b[0m"
	if got := VisibleLength(styled); got != 6 {
		t.Errorf("VisibleLength() = %d, want 6", got)
	}
}

func TestTruncateANSIAware(t *testing.T) {
	cfg := TextConfig{Ellipsis: "..."}

	t.Run("short styled text untouched", func(t *testing.T) {
		styled := "\x1b[1mshort\x1b[0m"
		if got := TruncateANSIAware(styled, 10, cfg); got != styled {
			t.Errorf("got %q, want %q", got, styled)
		}
	})

	t.Run("truncated text keeps codes and resets", func(t *testing.T) {
		styled := "\x1b[1mlong styled media name\x1b[0m"
		got := TruncateANSIAware(styled, 10, cfg)
		if VisibleLength(got) != 10 {
			t.Errorf("visible length = %d, want 10", VisibleLength(got))
		}
		if got[len(got)-4:] != "\x1b[0m" {
			t.Errorf("result does not end with reset code: %q", got)
		}
	})

	t.Run("zero width", func(t *testing.T) {
		if got := TruncateANSIAware("anything", 0, cfg); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
