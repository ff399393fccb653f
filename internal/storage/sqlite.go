package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"reel/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Store using a SQLite database with
// per-operation commits.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys and set pragmas for performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			parent_id TEXT,
			owner_scope TEXT NOT NULL,
			protected INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE SET NULL
		);

		CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);
		CREATE INDEX IF NOT EXISTS idx_folders_owner_scope ON folders(owner_scope);

		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'other',
			prompt TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_items_parent_id ON items(parent_id);
		CREATE INDEX IF NOT EXISTS idx_items_parent_seq ON items(parent_id, seq);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the whole library from the database.
func (s *SQLiteStorage) Load() (*model.Library, error) {
	lib := model.NewLibrary()

	rows, err := s.db.Query(`
		SELECT id, name, parent_id, owner_scope, protected
		FROM folders
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f model.Folder
		var parentID sql.NullString
		var protected int

		if err := rows.Scan(&f.ID, &f.Name, &parentID, &f.OwnerScope, &protected); err != nil {
			return nil, err
		}

		if parentID.Valid {
			f.ParentID = &parentID.String
		}
		f.Protected = protected == 1

		lib.Folders = append(lib.Folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT id, parent_id, seq, name, size_bytes, created_at, kind, prompt, model, source, path
		FROM items
		ORDER BY parent_id, seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		lib.Items = append(lib.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lib, nil
}

// Save replaces the database contents with the given library.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(lib *model.Library) error {
	// Folders may reference parents not yet inserted; keys are re-enabled
	// after the bulk write. PRAGMA foreign_keys cannot change inside a
	// transaction.
	if _, err := s.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.db.Exec("PRAGMA foreign_keys = ON")
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM folders"); err != nil {
		return err
	}

	folderStmt, err := tx.Prepare(`
		INSERT INTO folders (id, name, parent_id, owner_scope, protected)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer folderStmt.Close()

	for _, f := range lib.Folders {
		protected := 0
		if f.Protected {
			protected = 1
		}
		if _, err := folderStmt.Exec(f.ID, f.Name, f.ParentID, f.OwnerScope, protected); err != nil {
			return err
		}
	}

	itemStmt, err := tx.Prepare(`
		INSERT INTO items (id, parent_id, seq, name, size_bytes, created_at, kind, prompt, model, source, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	for _, it := range lib.Items {
		if _, err := itemStmt.Exec(
			it.ID, it.ParentID, it.Sequence, it.Name, it.SizeBytes,
			it.CreatedAt.Format(time.RFC3339), string(it.Kind),
			it.Prompt, it.Model, it.Source, it.Path,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	_, _ = s.db.Exec("PRAGMA foreign_keys = ON")
	return nil
}

// CommitFolderMove reparents one folder.
func (s *SQLiteStorage) CommitFolderMove(folderID string, newParentID *string) error {
	result, err := s.db.Exec("UPDATE folders SET parent_id = ? WHERE id = ?", newParentID, folderID)
	if err != nil {
		return err
	}
	return requireRow(result, "folder", folderID)
}

// CommitCreateFolder inserts one folder.
func (s *SQLiteStorage) CommitCreateFolder(f model.Folder) error {
	protected := 0
	if f.Protected {
		protected = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO folders (id, name, parent_id, owner_scope, protected)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.Name, f.ParentID, f.OwnerScope, protected)
	return err
}

// CommitRenameFolder renames one folder.
func (s *SQLiteStorage) CommitRenameFolder(id, name string) error {
	result, err := s.db.Exec("UPDATE folders SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	return requireRow(result, "folder", id)
}

// CommitDeleteFolder removes a folder; with cascade, the whole subtree and
// its items go too.
func (s *SQLiteStorage) CommitDeleteFolder(id string, cascade bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cascade {
		subtree := `
			WITH RECURSIVE subtree(fid) AS (
				SELECT id FROM folders WHERE id = ?
				UNION ALL
				SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.fid
			)
		`
		if _, err := tx.Exec(subtree+"DELETE FROM items WHERE parent_id IN (SELECT fid FROM subtree)", id); err != nil {
			return err
		}
		if _, err := tx.Exec(subtree+"DELETE FROM folders WHERE id IN (SELECT fid FROM subtree)", id); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec("DELETE FROM items WHERE parent_id = ?", id); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM folders WHERE id = ?", id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CommitReorder rewrites the sequence column of a parent's items inside a
// single transaction.
func (s *SQLiteStorage) CommitReorder(parentID string, orderedItemIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE items SET seq = ? WHERE id = ? AND parent_id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, id := range orderedItemIDs {
		result, err := stmt.Exec(seq+1, id, parentID)
		if err != nil {
			return err
		}
		if err := requireRow(result, "item", id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListFolders returns the folders of an owner scope.
func (s *SQLiteStorage) ListFolders(scope string) ([]model.Folder, error) {
	rows, err := s.db.Query(`
		SELECT id, name, parent_id, owner_scope, protected
		FROM folders
		WHERE owner_scope = ?
		ORDER BY name
	`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Folder
	for rows.Next() {
		var f model.Folder
		var parentID sql.NullString
		var protected int
		if err := rows.Scan(&f.ID, &f.Name, &parentID, &f.OwnerScope, &protected); err != nil {
			return nil, err
		}
		if parentID.Valid {
			f.ParentID = &parentID.String
		}
		f.Protected = protected == 1
		result = append(result, f)
	}
	return result, rows.Err()
}

// ListItems returns the items of a parent in sequence order.
func (s *SQLiteStorage) ListItems(parentID string) ([]model.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, parent_id, seq, name, size_bytes, created_at, kind, prompt, model, source, path
		FROM items
		WHERE parent_id = ?
		ORDER BY seq
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// scanItem reads one item row.
func scanItem(rows *sql.Rows) (model.Item, error) {
	var it model.Item
	var createdAt string
	var kind string
	if err := rows.Scan(
		&it.ID, &it.ParentID, &it.Sequence, &it.Name, &it.SizeBytes,
		&createdAt, &kind, &it.Prompt, &it.Model, &it.Source, &it.Path,
	); err != nil {
		return model.Item{}, err
	}
	it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	it.Kind = model.ItemKind(kind)
	return it, nil
}

// requireRow converts a zero-row update into an error.
func requireRow(result sql.Result, what, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", what, id)
	}
	return nil
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/reel/library.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "reel", "library.db"), nil
}
