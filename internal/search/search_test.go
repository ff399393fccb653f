package search

import (
	"testing"
	"time"

	"reel/internal/model"
)

func TestMatch_Substring(t *testing.T) {
	if !Match("bird", "bird.png") {
		t.Error("expected exact substring to match")
	}
	if !Match("BIRD", "Bird Watching.mp4") {
		t.Error("expected case-insensitive substring to match")
	}
}

func TestMatch_Subsequence(t *testing.T) {
	if !Match("brd", "bird.png") {
		t.Error("expected subsequence 'brd' to match 'bird.png'")
	}
	if Match("xyz", "bird.png") {
		t.Error("expected 'xyz' not to match 'bird.png'")
	}
	// Order matters for subsequence matching
	if Match("drb", "bird.png") {
		t.Error("expected out-of-order characters not to match")
	}
}

func TestMatch_EmptyQuery(t *testing.T) {
	if !Match("", "anything") {
		t.Error("expected empty query to match everything")
	}
}

func TestMatchItem_Metadata(t *testing.T) {
	it := model.Item{
		Name:   "output_0042.png",
		Prompt: "a lighthouse at dusk",
		Model:  "sdxl-turbo",
		Source: "generated",
	}

	if !MatchItem("lighthouse", it, true) {
		t.Error("expected prompt field to match with metadata enabled")
	}
	if MatchItem("lighthouse", it, false) {
		t.Error("expected prompt ignored with metadata disabled")
	}
	if !MatchItem("sdxl", it, true) {
		t.Error("expected model name to match")
	}
	if !MatchItem("output", it, false) {
		t.Error("expected name to match regardless of metadata flag")
	}
}

func TestRank_EmptyQuery(t *testing.T) {
	lib := model.NewLibrary()
	lib.AppendItem(model.Item{ID: "i1", ParentID: "f1", Name: "sunset.jpg", CreatedAt: time.Now()})

	if results := Rank(lib, ""); len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestRank_SortedByScore(t *testing.T) {
	lib := model.NewLibrary()
	lib.AppendItem(model.Item{ID: "i1", ParentID: "f1", Name: "beach sunset timelapse.mp4"})
	lib.AppendItem(model.Item{ID: "i2", ParentID: "f1", Name: "sunset.jpg"})

	results := Rank(lib, "sunset")
	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	if results[0].Item.Name != "sunset.jpg" {
		t.Errorf("expected tightest match first, got %s", results[0].Item.Name)
	}
}

func TestRank_NoMatch(t *testing.T) {
	lib := model.NewLibrary()
	lib.AppendItem(model.Item{ID: "i1", ParentID: "f1", Name: "sunset.jpg"})

	if results := Rank(lib, "qqq111"); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestFilter(t *testing.T) {
	items := []model.Item{
		{ID: "i1", Name: "bird.png"},
		{ID: "i2", Name: "cat.png"},
		{ID: "i3", Name: "board.png"},
	}

	got := Filter(items, "brd", false)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != "i1" || got[1].ID != "i3" {
		t.Errorf("expected order preserved [i1 i3], got %v", []string{got[0].ID, got[1].ID})
	}

	if got := Filter(items, "", false); len(got) != 3 {
		t.Errorf("expected empty query to pass everything, got %d", len(got))
	}
}
