package model_test

import (
	"testing"
	"time"

	"reel/internal/model"
)

func stringPtr(s string) *string { return &s }

func TestLibrary_GetFoldersIn(t *testing.T) {
	lib := model.Library{
		Folders: []model.Folder{
			{ID: "f1", Name: "Shoots", ParentID: nil, OwnerScope: "acct1"},
			{ID: "f2", Name: "Portraits", ParentID: stringPtr("f1"), OwnerScope: "acct1"},
			{ID: "f3", Name: "Archive", ParentID: nil, OwnerScope: "acct1"},
			{ID: "f4", Name: "Landscapes", ParentID: stringPtr("f1"), OwnerScope: "acct1"},
		},
		Items: []model.Item{},
	}

	rootFolders := lib.GetFoldersIn(nil)
	if len(rootFolders) != 2 {
		t.Errorf("expected 2 root folders, got %d", len(rootFolders))
	}

	f1ID := "f1"
	nested := lib.GetFoldersIn(&f1ID)
	if len(nested) != 2 {
		t.Errorf("expected 2 nested folders in f1, got %d", len(nested))
	}

	f3ID := "f3"
	empty := lib.GetFoldersIn(&f3ID)
	if len(empty) != 0 {
		t.Errorf("expected 0 folders in f3, got %d", len(empty))
	}
}

func TestLibrary_GetItemsIn_OrderedBySequence(t *testing.T) {
	lib := model.Library{
		Folders: []model.Folder{},
		Items: []model.Item{
			{ID: "i3", ParentID: "f1", Sequence: 3, Name: "c.png"},
			{ID: "i1", ParentID: "f1", Sequence: 1, Name: "a.png"},
			{ID: "i2", ParentID: "f1", Sequence: 2, Name: "b.png"},
			{ID: "other", ParentID: "f2", Sequence: 1, Name: "x.png"},
		},
	}

	items := lib.GetItemsIn("f1")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"i1", "i2", "i3"} {
		if items[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, items[i].ID)
		}
	}
}

func TestLibrary_AppendItem_AssignsDenseSequence(t *testing.T) {
	lib := model.NewLibrary()
	lib.AppendItem(model.Item{ID: "i1", ParentID: "f1", Name: "a.png"})
	lib.AppendItem(model.Item{ID: "i2", ParentID: "f1", Name: "b.png"})
	lib.AppendItem(model.Item{ID: "i3", ParentID: "f2", Name: "c.png"})

	if got := lib.GetItemByID("i1").Sequence; got != 1 {
		t.Errorf("expected first item sequence 1, got %d", got)
	}
	if got := lib.GetItemByID("i2").Sequence; got != 2 {
		t.Errorf("expected second item sequence 2, got %d", got)
	}
	if got := lib.GetItemByID("i3").Sequence; got != 1 {
		t.Errorf("expected sequence to restart per parent, got %d", got)
	}
}

func TestLibrary_RemoveItem_Renumbers(t *testing.T) {
	lib := model.NewLibrary()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		lib.AppendItem(model.Item{ID: name, ParentID: "f1", Name: name})
	}

	if err := lib.RemoveItem("b.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := lib.GetItemsIn("f1")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "a.png" || items[0].Sequence != 1 {
		t.Errorf("expected a.png at sequence 1, got %s at %d", items[0].ID, items[0].Sequence)
	}
	if items[1].ID != "c.png" || items[1].Sequence != 2 {
		t.Errorf("expected c.png at sequence 2, got %s at %d", items[1].ID, items[1].Sequence)
	}

	if err := lib.RemoveItem("nonexistent"); err == nil {
		t.Error("expected error for non-existent item")
	}
}

func TestLibrary_EnsureDefaultFolder(t *testing.T) {
	lib := model.NewLibrary()

	first := lib.EnsureDefaultFolder("acct1")
	if first == nil {
		t.Fatal("expected default folder to be created")
	}
	if !first.Protected {
		t.Error("default folder must be protected")
	}
	if first.Name != model.DefaultFolderName {
		t.Errorf("expected name %q, got %q", model.DefaultFolderName, first.Name)
	}

	// Second call returns the same folder, not a new one
	second := lib.EnsureDefaultFolder("acct1")
	if second.ID != first.ID {
		t.Errorf("expected existing default folder %s, got %s", first.ID, second.ID)
	}
	if len(lib.Folders) != 1 {
		t.Errorf("expected 1 folder, got %d", len(lib.Folders))
	}

	// A different scope gets its own default
	other := lib.EnsureDefaultFolder("acct2")
	if other.ID == first.ID {
		t.Error("expected separate default folder per owner scope")
	}
}

func TestKindForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want model.ItemKind
	}{
		{".jpg", model.KindImage},
		{"PNG", model.KindImage},
		{".mp4", model.KindVideo},
		{"flac", model.KindAudio},
		{".xyz", model.KindOther},
		{"", model.KindOther},
	}
	for _, tt := range tests {
		if got := model.KindForExtension(tt.ext); got != tt.want {
			t.Errorf("KindForExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestNewItem_SetsDefaults(t *testing.T) {
	before := time.Now()
	it := model.NewItem(model.NewItemParams{
		ParentID:  "f1",
		Name:      "clip.mp4",
		SizeBytes: 1024,
		Kind:      model.KindVideo,
	})

	if it.ID == "" {
		t.Error("expected generated ID")
	}
	if it.CreatedAt.Before(before) {
		t.Error("expected CreatedAt to be set")
	}
	if it.Sequence != 0 {
		t.Errorf("sequence is assigned on append, expected 0, got %d", it.Sequence)
	}
}
