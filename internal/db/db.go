package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/sprout/pkg/api"
)

// Store caches fetched documents and the hashes of written outputs.
type Store interface {
	// PutPage replaces the cached page and its block tree.
	PutPage(ctx context.Context, page api.Page, blocks []api.Block) error
	GetPage(ctx context.Context, id string) (api.Page, []api.Block, error)
	// PutDatabase replaces the cached page list of a database, keeping order.
	PutDatabase(ctx context.Context, databaseID string, pages []api.Page) error
	ListDatabase(ctx context.Context, databaseID string) ([]api.Page, error)
	GetOutput(ctx context.Context, path string) (string, error)
	PutOutput(ctx context.Context, path, hash string) error
	// Clear drops every cached page, database and output hash.
	Clear(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("not found")

// Open returns a Store for the DSN: mem:// for a process-local store,
// sqlite://path (or a bare path) for an on-disk cache.
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("db: empty dsn")
	case strings.HasPrefix(dsn, "mem://"):
		return newMemStore(), nil
	case strings.HasPrefix(dsn, "sqlite://"), !strings.Contains(dsn, "://"):
		s, err := openSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("db: unsupported dsn %q", dsn)
	}
}
