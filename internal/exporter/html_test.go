package exporter_test

import (
	"strings"
	"testing"

	"reel/internal/exporter"
	"reel/internal/model"
)

func stringPtr(s string) *string { return &s }

func TestExportHTML_NestedFolders(t *testing.T) {
	lib := &model.Library{
		Folders: []model.Folder{
			{ID: "f1", Name: "Shoots", ParentID: nil, OwnerScope: "acct1"},
			{ID: "f2", Name: "Day One", ParentID: stringPtr("f1"), OwnerScope: "acct1"},
		},
		Items: []model.Item{
			{ID: "i2", ParentID: "f2", Sequence: 2, Name: "b.png", SizeBytes: 20},
			{ID: "i1", ParentID: "f2", Sequence: 1, Name: "a.png", SizeBytes: 10},
		},
	}

	out := exporter.ExportHTML(lib)

	if !strings.Contains(out, "Shoots") || !strings.Contains(out, "Day One") {
		t.Error("expected both folders in output")
	}

	// Items render in sequence order, not slice order
	aIdx := strings.Index(out, "a.png")
	bIdx := strings.Index(out, "b.png")
	if aIdx == -1 || bIdx == -1 {
		t.Fatal("expected both items in output")
	}
	if aIdx > bIdx {
		t.Error("expected a.png (sequence 1) before b.png (sequence 2)")
	}

	if !strings.Contains(out, `data-seq="1"`) {
		t.Error("expected sequence attribute")
	}
}

func TestExportHTML_EscapesNames(t *testing.T) {
	lib := &model.Library{
		Folders: []model.Folder{
			{ID: "f1", Name: "Cats & <Dogs>", ParentID: nil, OwnerScope: "acct1"},
		},
		Items: []model.Item{},
	}

	out := exporter.ExportHTML(lib)
	if strings.Contains(out, "<Dogs>") {
		t.Error("expected folder name to be escaped")
	}
	if !strings.Contains(out, "Cats &amp; &lt;Dogs&gt;") {
		t.Error("expected escaped entities in output")
	}
}

func TestExportHTML_EmptyLibrary(t *testing.T) {
	out := exporter.ExportHTML(model.NewLibrary())
	if !strings.Contains(out, "<h1>Media Library</h1>") {
		t.Error("expected header in empty export")
	}
}
