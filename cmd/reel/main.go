package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"reel/internal/dupes"
	"reel/internal/exporter"
	"reel/internal/importer"
	"reel/internal/model"
	"reel/internal/picker"
	"reel/internal/reorder"
	"reel/internal/search"
	"reel/internal/storage"
	"reel/internal/tree"
	"reel/internal/tui"
	"reel/internal/verify"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: reel import <directory>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		case "dupes":
			runDupes()
			return
		case "verify":
			runVerify()
			return
		default:
			// Treat as search query (join all remaining args)
			query := strings.Join(os.Args[1:], " ")
			runQuickSearch(query)
			return
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `reel - vim-style media library console

Usage:
  reel                  Open interactive TUI
  reel <query>          Quick search → select → copy name
  reel import <dir>     Import a directory tree of media files
  reel export [path]    Export the library to HTML
  reel dupes            List probable duplicate files
  reel verify           Check that imported files still exist on disk
  reel help             Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    h/l         Leave/enter folder
    gg/G        Jump to top/bottom

  Selection:
    space       Toggle select
    v           Range select
    ctrl+a      Select all / clear

  Editing:
    J/K         Move item down/up within its folder
    m           Move selected folder(s)
    A           Add folder
    e           Rename folder
    d           Delete (folders ask before cascading)
    y           Copy name to clipboard

  Other:
    /           Filter current list
    s           Search whole library
    D           Find duplicates
    ?           Show help overlay
    q           Quit

Data Storage:
  ~/.config/reel/library.json (or library.db when present)
`
	fmt.Print(help)
}

// mustLoad opens the store and hydrates the library, exiting on failure.
func mustLoad() (storage.Store, *model.Library) {
	store, err := storage.OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	lib, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading library: %v\n", err)
		os.Exit(1)
	}

	return store, lib
}

// runTUI runs the full interactive TUI.
func runTUI() {
	store, err := storage.OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	lib, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading library: %v\n", err)
		os.Exit(1)
	}

	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}
	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	coord := reorder.New(reorder.Params{
		Library:     lib,
		Committer:   store,
		QuietPeriod: time.Duration(config.ReorderQuietMS) * time.Millisecond,
	})

	app := tui.NewApp(tui.AppParams{
		Library:           lib,
		Tree:              tree.New(lib, store),
		Coordinator:       coord,
		OwnerScope:        config.OwnerScope,
		MetadataSearch:    config.MetadataSearch,
		SkipDeleteConfirm: !config.ConfirmCascading,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	coord.OnError = func(parentID string, err error) {
		p.Send(tui.ReorderFailedMsg{ParentID: parentID, Err: err})
	}

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}

	// Flush any pending reorder before the final save
	coord.Close()

	finalApp := finalModel.(tui.App)
	if err := store.Save(finalApp.Library()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving library: %v\n", err)
		os.Exit(1)
	}
}

// runQuickSearch performs a ranked search and copies the chosen file name.
func runQuickSearch(query string) {
	_, lib := mustLoad()

	results := search.Rank(lib, query)
	if len(results) == 0 {
		fmt.Printf("No media found for '%s'\n", query)
		os.Exit(0)
	}

	selected := results[0].Item
	if len(results) > 1 {
		p := picker.New(lib, results, query)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			os.Exit(0)
		}
		selected = finalPicker.SelectedItem()
	}

	if selected == nil {
		os.Exit(0)
	}

	if err := clipboard.WriteAll(selected.Name); err == nil {
		fmt.Printf("Copied: %s\n", selected.Name)
	} else {
		fmt.Println(selected.Name)
	}
}

// runImport walks a directory tree into the library.
func runImport(dir string) {
	store, lib := mustLoad()

	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}
	config, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	result, err := importer.ScanDirectory(lib, dir, nil, config.OwnerScope)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning directory: %v\n", err)
		os.Exit(1)
	}

	if err := store.Save(lib); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving library: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d files, %d folders", result.ItemsAdded, result.FoldersCreated)
	if result.Skipped > 0 {
		fmt.Printf(" (%d non-media files skipped)", result.Skipped)
	}
	fmt.Println()
}

// runExport writes the library as a nested HTML listing.
func runExport(outputPath string) {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	_, lib := mustLoad()

	html := exporter.ExportHTML(lib)
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d files, %d folders to %s\n", len(lib.Items), len(lib.Folders), outputPath)
}

// runDupes prints probable-duplicate clusters.
func runDupes() {
	_, lib := mustLoad()

	groups := dupes.Detect(lib.Items)
	if len(groups) == 0 {
		fmt.Println("No duplicates found")
		return
	}

	for _, g := range groups {
		fmt.Printf("%d files:\n", len(g.Members))
		for _, id := range g.Members {
			if it := lib.GetItemByID(id); it != nil {
				fmt.Printf("  %s (%d bytes)\n", it.Name, it.SizeBytes)
			}
		}
	}
}

// runVerify stats every imported file and reports the ones that are gone.
func runVerify() {
	_, lib := mustLoad()

	results := verify.CheckFiles(lib.Items, 8, func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking %d/%d", completed, total)
	})
	fmt.Fprintln(os.Stderr)

	if results == nil {
		fmt.Println("No imported files to check")
		return
	}

	ok := 0
	for _, r := range results {
		switch r.Status {
		case verify.Present:
			ok++
		case verify.Missing:
			fmt.Printf("missing   %s (%s)\n", r.Item.Name, r.Item.Path)
		case verify.Resized:
			fmt.Printf("changed   %s (%s)\n", r.Item.Name, r.Item.Path)
		case verify.Unreadable:
			fmt.Printf("unreadable %s: %s\n", r.Item.Name, r.Error)
		}
	}
	fmt.Printf("%d/%d files present\n", ok, len(results))
}
