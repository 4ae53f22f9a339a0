package site

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mithrel/sprout/internal/db"
	"github.com/mithrel/sprout/pkg/api"
)

// Source is read access to the external document store.
type Source interface {
	GetPage(ctx context.Context, id string) (*api.Page, error)
	GetBlockTree(ctx context.Context, id string) ([]api.Block, error)
	ListPages(ctx context.Context, databaseID string) ([]api.Page, error)
}

// ErrNotCached is returned by a cached source for documents never fetched.
var ErrNotCached = errors.New("not in cache; run fetch first")

// CachedSource serves documents from the local cache only.
type CachedSource struct {
	store db.Store
}

func NewCachedSource(store db.Store) *CachedSource {
	return &CachedSource{store: store}
}

func (s *CachedSource) GetPage(ctx context.Context, id string) (*api.Page, error) {
	page, _, err := s.store.GetPage(ctx, id)
	if err != nil {
		return nil, cacheErr("page "+id, err)
	}
	return &page, nil
}

func (s *CachedSource) GetBlockTree(ctx context.Context, id string) ([]api.Block, error) {
	_, blocks, err := s.store.GetPage(ctx, id)
	if err != nil {
		return nil, cacheErr("blocks of "+id, err)
	}
	if blocks == nil {
		blocks = []api.Block{}
	}
	return blocks, nil
}

func (s *CachedSource) ListPages(ctx context.Context, databaseID string) ([]api.Page, error) {
	pages, err := s.store.ListDatabase(ctx, databaseID)
	if err != nil {
		return nil, cacheErr("database "+databaseID, err)
	}
	return pages, nil
}

func cacheErr(what string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotCached)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// RecordingSource reads through to a live source and writes every
// document it returns to the cache. GetPage fetches the block tree along
// with the page so a cached page is always complete; the following
// GetBlockTree for the same id is served from that fetch.
type RecordingSource struct {
	live  Source
	store db.Store

	mu      sync.Mutex
	pending map[string][]api.Block
}

func NewRecordingSource(live Source, store db.Store) *RecordingSource {
	return &RecordingSource{live: live, store: store, pending: make(map[string][]api.Block)}
}

func (s *RecordingSource) GetPage(ctx context.Context, id string) (*api.Page, error) {
	page, blocks, err := s.record(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.pending[id] = blocks
	s.mu.Unlock()
	return page, nil
}

// Record fetches a page with its block tree into the cache without
// keeping the blocks for a later GetBlockTree.
func (s *RecordingSource) Record(ctx context.Context, id string) error {
	_, _, err := s.record(ctx, id)
	return err
}

func (s *RecordingSource) record(ctx context.Context, id string) (*api.Page, []api.Block, error) {
	page, err := s.live.GetPage(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	blocks, err := s.live.GetBlockTree(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.PutPage(ctx, *page, blocks); err != nil {
		return nil, nil, fmt.Errorf("cache page %s: %w", id, err)
	}
	return page, blocks, nil
}

func (s *RecordingSource) GetBlockTree(ctx context.Context, id string) ([]api.Block, error) {
	s.mu.Lock()
	blocks, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if ok {
		return blocks, nil
	}
	return s.live.GetBlockTree(ctx, id)
}

func (s *RecordingSource) ListPages(ctx context.Context, databaseID string) ([]api.Page, error) {
	pages, err := s.live.ListPages(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutDatabase(ctx, databaseID, pages); err != nil {
		return nil, fmt.Errorf("cache database %s: %w", databaseID, err)
	}
	return pages, nil
}
