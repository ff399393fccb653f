package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"reel/internal/model"
	"reel/internal/storage"
)

func stringPtr(s string) *string { return &s }

func sampleLibrary() *model.Library {
	return &model.Library{
		Folders: []model.Folder{
			{ID: "root", Name: "Library", ParentID: nil, OwnerScope: "acct1", Protected: true},
			{ID: "f1", Name: "Shoots", ParentID: stringPtr("root"), OwnerScope: "acct1"},
		},
		Items: []model.Item{
			{ID: "i1", ParentID: "f1", Sequence: 1, Name: "a.png", SizeBytes: 100, CreatedAt: time.Now().UTC(), Kind: model.KindImage},
			{ID: "i2", ParentID: "f1", Sequence: 2, Name: "b.png", SizeBytes: 200, CreatedAt: time.Now().UTC(), Kind: model.KindImage},
		},
	}
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(sampleLibrary()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("library file was not created")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Folders) != 2 {
		t.Errorf("expected 2 folders, got %d", len(loaded.Folders))
	}
	if len(loaded.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(loaded.Items))
	}
	if !loaded.GetFolderByID("root").Protected {
		t.Error("expected protected flag to round-trip")
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "missing.json"))

	lib, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lib.Folders) != 0 || len(lib.Items) != 0 {
		t.Error("expected empty library for missing file")
	}
}

func TestJSONStorage_CommitFolderMove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	s := storage.NewJSONStorage(path)
	if err := s.Save(sampleLibrary()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := s.CommitFolderMove("f1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.GetFolderByID("f1").ParentID != nil {
		t.Error("expected f1 moved to root")
	}

	if err := s.CommitFolderMove("missing", nil); err == nil {
		t.Error("expected error for unknown folder")
	}
}

func TestJSONStorage_CommitReorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	s := storage.NewJSONStorage(path)
	if err := s.Save(sampleLibrary()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := s.CommitReorder("f1", []string{"i2", "i1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := s.ListItems("f1")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if items[0].ID != "i2" || items[0].Sequence != 1 {
		t.Errorf("expected i2 first with sequence 1, got %s/%d", items[0].ID, items[0].Sequence)
	}
	if items[1].ID != "i1" || items[1].Sequence != 2 {
		t.Errorf("expected i1 second with sequence 2, got %s/%d", items[1].ID, items[1].Sequence)
	}
}

func TestJSONStorage_CommitDeleteFolderCascade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	s := storage.NewJSONStorage(path)
	lib := sampleLibrary()
	lib.AddFolder(model.Folder{ID: "f2", Name: "Nested", ParentID: stringPtr("f1"), OwnerScope: "acct1"})
	lib.Items = append(lib.Items, model.Item{ID: "i3", ParentID: "f2", Sequence: 1, Name: "c.png"})
	if err := s.Save(lib); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := s.CommitDeleteFolder("f1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.GetFolderByID("f1") != nil || loaded.GetFolderByID("f2") != nil {
		t.Error("expected subtree removed")
	}
	if len(loaded.Items) != 0 {
		t.Errorf("expected contained items removed, got %d", len(loaded.Items))
	}
	if loaded.GetFolderByID("root") == nil {
		t.Error("expected unrelated folder kept")
	}
}

func TestJSONStorage_ListFoldersByScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	s := storage.NewJSONStorage(path)
	lib := sampleLibrary()
	lib.AddFolder(model.Folder{ID: "other", Name: "Other", OwnerScope: "acct2"})
	if err := s.Save(lib); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	folders, err := s.ListFolders("acct1")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(folders) != 2 {
		t.Errorf("expected 2 folders in acct1, got %d", len(folders))
	}
}
