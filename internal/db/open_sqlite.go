package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/sprout/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection serializes writers
	dbh.SetMaxOpenConns(1)
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS pages (
  id TEXT PRIMARY KEY,
  page BLOB NOT NULL,
  blocks BLOB NOT NULL,
  fetched_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS databases (
  id TEXT PRIMARY KEY,
  fetched_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS database_pages (
  database_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  page_id TEXT NOT NULL,
  page BLOB NOT NULL,
  PRIMARY KEY(database_id, position)
);
CREATE INDEX IF NOT EXISTS idx_database_pages_page ON database_pages(page_id);
CREATE TABLE IF NOT EXISTS outputs (
  path TEXT PRIMARY KEY,
  hash TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	return err
}

func (s *sqliteStore) PutPage(ctx context.Context, page api.Page, blocks []api.Block) error {
	pj, err := json.Marshal(page)
	if err != nil {
		return err
	}
	bj, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO pages(id, page, blocks, fetched_at) VALUES(?,?,?,?)
ON CONFLICT(id) DO UPDATE SET page=excluded.page, blocks=excluded.blocks, fetched_at=excluded.fetched_at`,
		page.ID, pj, bj, time.Now().UTC())
	return err
}

func (s *sqliteStore) GetPage(ctx context.Context, id string) (api.Page, []api.Block, error) {
	var pj, bj []byte
	row := s.db.QueryRowContext(ctx, `SELECT page, blocks FROM pages WHERE id=?`, id)
	if err := row.Scan(&pj, &bj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Page{}, nil, ErrNotFound
		}
		return api.Page{}, nil, err
	}
	var page api.Page
	if err := json.Unmarshal(pj, &page); err != nil {
		return api.Page{}, nil, err
	}
	var blocks []api.Block
	if err := json.Unmarshal(bj, &blocks); err != nil {
		return api.Page{}, nil, err
	}
	return page, blocks, nil
}

func (s *sqliteStore) PutDatabase(ctx context.Context, databaseID string, pages []api.Page) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM database_pages WHERE database_id=?`, databaseID); err != nil {
		return err
	}
	for i, p := range pages {
		pj, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO database_pages(database_id, position, page_id, page) VALUES(?,?,?,?)`,
			databaseID, i, p.ID, pj); err != nil {
			return err
		}
	}
	// An empty list still marks the database as fetched.
	if _, err := tx.ExecContext(ctx, `INSERT INTO databases(id, fetched_at) VALUES(?,?)
ON CONFLICT(id) DO UPDATE SET fetched_at=excluded.fetched_at`, databaseID, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) ListDatabase(ctx context.Context, databaseID string) ([]api.Page, error) {
	var id string
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM databases WHERE id=?`, databaseID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT page FROM database_pages WHERE database_id=? ORDER BY position ASC`, databaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.Page{}
	for rows.Next() {
		var pj []byte
		if err := rows.Scan(&pj); err != nil {
			return nil, err
		}
		var p api.Page
		if err := json.Unmarshal(pj, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) GetOutput(ctx context.Context, path string) (string, error) {
	var hash string
	if err := s.db.QueryRowContext(ctx, `SELECT hash FROM outputs WHERE path=?`, path).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

func (s *sqliteStore) PutOutput(ctx context.Context, path, hash string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO outputs(path, hash, updated_at) VALUES(?,?,?)
ON CONFLICT(path) DO UPDATE SET hash=excluded.hash, updated_at=excluded.updated_at`,
		path, hash, time.Now().UTC())
	return err
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"pages", "databases", "database_pages", "outputs"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
