package layout

import "testing"

func TestCalculateListHeight(t *testing.T) {
	cfg := DefaultConfig().List

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"normal terminal", 30, 25},
		{"tall terminal", 60, 55},
		{"tiny terminal clamps to min", 8, cfg.MinHeight},
		{"zero height clamps to min", 0, cfg.MinHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateListHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculateListHeight(%d) = %d, want %d", tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculateEntryWidth(t *testing.T) {
	cfg := DefaultConfig().List

	if got := CalculateEntryWidth(80, cfg); got != 74 {
		t.Errorf("CalculateEntryWidth(80) = %d, want 74", got)
	}
	if got := CalculateEntryWidth(3, cfg); got != 1 {
		t.Errorf("CalculateEntryWidth(3) = %d, want 1", got)
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name           string
		cursor         int
		total          int
		viewportHeight int
		want           int
	}{
		{"all entries fit", 5, 8, 10, 0},
		{"cursor at top", 0, 50, 10, 0},
		{"cursor centered", 25, 50, 10, 20},
		{"cursor at bottom clamps", 49, 50, 10, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.cursor, tt.total, tt.viewportHeight)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.cursor, tt.total, tt.viewportHeight, got, tt.want)
			}
		})
	}
}
