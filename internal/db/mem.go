package db

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mithrel/sprout/pkg/api"
)

// memStore keeps encoded documents so callers never share slices with
// the cache, matching the sqlite store's copy semantics.
type memStore struct {
	mu        sync.RWMutex
	pages     map[string]memPage
	databases map[string][]byte
	outputs   map[string]string
}

type memPage struct {
	page   []byte
	blocks []byte
}

func newMemStore() *memStore {
	m := &memStore{}
	m.reset()
	return m
}

func (m *memStore) reset() {
	m.pages = make(map[string]memPage)
	m.databases = make(map[string][]byte)
	m.outputs = make(map[string]string)
}

func (m *memStore) PutPage(ctx context.Context, page api.Page, blocks []api.Block) error {
	pj, err := json.Marshal(page)
	if err != nil {
		return err
	}
	bj, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.ID] = memPage{page: pj, blocks: bj}
	return nil
}

func (m *memStore) GetPage(ctx context.Context, id string) (api.Page, []api.Block, error) {
	m.mu.RLock()
	p, ok := m.pages[id]
	m.mu.RUnlock()
	if !ok {
		return api.Page{}, nil, ErrNotFound
	}
	var page api.Page
	if err := json.Unmarshal(p.page, &page); err != nil {
		return api.Page{}, nil, err
	}
	var blocks []api.Block
	if err := json.Unmarshal(p.blocks, &blocks); err != nil {
		return api.Page{}, nil, err
	}
	return page, blocks, nil
}

func (m *memStore) PutDatabase(ctx context.Context, databaseID string, pages []api.Page) error {
	if pages == nil {
		pages = []api.Page{}
	}
	b, err := json.Marshal(pages)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.databases[databaseID] = b
	return nil
}

func (m *memStore) ListDatabase(ctx context.Context, databaseID string) ([]api.Page, error) {
	m.mu.RLock()
	b, ok := m.databases[databaseID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var out []api.Page
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *memStore) GetOutput(ctx context.Context, path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.outputs[path]
	if !ok {
		return "", ErrNotFound
	}
	return h, nil
}

func (m *memStore) PutOutput(ctx context.Context, path, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs[path] = hash
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

func (m *memStore) Close() error { return nil }
