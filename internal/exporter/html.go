package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reel/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/library-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("library-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders the library as a nested HTML index. Items appear in
// sequence order within each folder; that ordering is the contract the
// rest of the system maintains.
func ExportHTML(lib *model.Library) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Media Library</title>\n")
	b.WriteString("<h1>Media Library</h1>\n")
	b.WriteString("<ul>\n")

	writeFolders(&b, lib, nil, 1)

	b.WriteString("</ul>\n")
	return b.String()
}

// writeFolders recursively writes folders and their items for a parent.
func writeFolders(b *strings.Builder, lib *model.Library, parentID *string, indent int) {
	prefix := strings.Repeat("    ", indent)

	folders := lib.GetFoldersIn(parentID)
	for _, folder := range folders {
		fmt.Fprintf(b, "%s<li class=\"folder\">%s\n", prefix, html.EscapeString(folder.Name))
		fmt.Fprintf(b, "%s<ul>\n", prefix)

		folderID := folder.ID
		writeFolders(b, lib, &folderID, indent+1)

		for _, item := range lib.GetItemsIn(folderID) {
			fmt.Fprintf(b,
				"%s    <li class=\"item\" data-seq=\"%d\" data-size=\"%d\">%s</li>\n",
				prefix,
				item.Sequence,
				item.SizeBytes,
				html.EscapeString(item.Name),
			)
		}

		fmt.Fprintf(b, "%s</ul>\n", prefix)
		fmt.Fprintf(b, "%s</li>\n", prefix)
	}
}
