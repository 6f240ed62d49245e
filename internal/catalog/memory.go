package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept entirely in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	articles  []Article
	suppliers []Supplier
}

// NewMemoryStore returns a store seeded with the given records.
func NewMemoryStore(articles []Article, suppliers []Supplier) *MemoryStore {
	return &MemoryStore{
		articles:  append([]Article(nil), articles...),
		suppliers: append([]Supplier(nil), suppliers...),
	}
}

// ListArticleNames returns the names of all stored articles.
func (m *MemoryStore) ListArticleNames(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.articles))
	for i, a := range m.articles {
		names[i] = a.Name
	}
	return names, nil
}

// ListSuppliers returns a copy of all stored suppliers.
func (m *MemoryStore) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return m.Suppliers(), nil
}

// CreateSuppliers stores the suppliers, assigning a UUID to any without an id.
func (m *MemoryStore) CreateSuppliers(ctx context.Context, suppliers []Supplier) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, len(suppliers))
	for i, s := range suppliers {
		if s.Name == "" {
			return nil, errors.New("supplier name is required")
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		ids[i] = s.ID
	}
	for i, s := range suppliers {
		s.ID = ids[i]
		m.suppliers = append(m.suppliers, s)
	}
	return ids, nil
}

// CreateArticles stores the articles, assigning a UUID to any without an id.
func (m *MemoryStore) CreateArticles(ctx context.Context, articles []Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range articles {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		m.articles = append(m.articles, a)
	}
	return nil
}

// Articles returns a copy of all stored articles.
func (m *MemoryStore) Articles() []Article {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Article(nil), m.articles...)
}

// Suppliers returns a copy of all stored suppliers.
func (m *MemoryStore) Suppliers() []Supplier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Supplier(nil), m.suppliers...)
}

// Snapshot copies the article names and suppliers of src into a new
// MemoryStore. Writes to the snapshot never reach src.
func Snapshot(ctx context.Context, src Store) (*MemoryStore, error) {
	names, err := src.ListArticleNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	suppliers, err := src.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	articles := make([]Article, len(names))
	for i, n := range names {
		articles[i] = Article{Name: n}
	}
	return NewMemoryStore(articles, suppliers), nil
}
