package catalog

import (
	"context"
	"testing"
)

func TestMemoryStore_CreateAndList(t *testing.T) {
	store := NewMemoryStore([]Article{{ID: "a-1", Name: "Gurke"}}, []Supplier{{ID: "s-1", Name: "Metro"}})
	ctx := context.Background()

	ids, err := store.CreateSuppliers(ctx, []Supplier{{ID: "tmp", Name: "Müller"}, {Name: "Weber"}})
	if err != nil {
		t.Fatalf("CreateSuppliers() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "tmp" || ids[1] == "" {
		t.Errorf("CreateSuppliers() ids = %q, want [tmp <generated>]", ids)
	}

	if err := store.CreateArticles(ctx, []Article{{Name: "Tomaten", SupplierID: ids[0]}}); err != nil {
		t.Fatalf("CreateArticles() error = %v", err)
	}

	names, err := store.ListArticleNames(ctx)
	if err != nil {
		t.Fatalf("ListArticleNames() error = %v", err)
	}
	if len(names) != 2 || names[0] != "Gurke" || names[1] != "Tomaten" {
		t.Errorf("ListArticleNames() = %q, want [Gurke Tomaten]", names)
	}

	suppliers, err := store.ListSuppliers(ctx)
	if err != nil {
		t.Fatalf("ListSuppliers() error = %v", err)
	}
	if len(suppliers) != 3 {
		t.Errorf("len(ListSuppliers()) = %d, want 3", len(suppliers))
	}

	if got := store.Articles()[1].ID; got == "" {
		t.Error("CreateArticles should assign an id")
	}
}

func TestMemoryStore_RejectsUnnamedSupplier(t *testing.T) {
	store := NewMemoryStore(nil, nil)

	_, err := store.CreateSuppliers(context.Background(), []Supplier{{Name: "A"}, {Name: ""}})
	if err == nil {
		t.Fatal("CreateSuppliers() expected error for empty name")
	}
	if got := len(store.Suppliers()); got != 0 {
		t.Errorf("supplier count = %d, want 0 after failed create", got)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.CreateArticles(ctx, []Article{{Name: "x"}}); err == nil {
		t.Error("CreateArticles() with cancelled context should fail")
	}
	if len(store.Articles()) != 0 {
		t.Error("no article should be stored")
	}
}

func TestSnapshot_IsIndependent(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore([]Article{{ID: "a-1", Name: "Gurke"}}, []Supplier{{ID: "s-1", Name: "Metro"}})

	snap, err := Snapshot(ctx, src)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if err := snap.CreateArticles(ctx, []Article{{Name: "Tomaten"}}); err != nil {
		t.Fatalf("CreateArticles() error = %v", err)
	}

	names, _ := snap.ListArticleNames(ctx)
	if len(names) != 2 {
		t.Errorf("snapshot article count = %d, want 2", len(names))
	}
	if got := len(src.Articles()); got != 1 {
		t.Errorf("source article count = %d, want 1", got)
	}
	if got := snap.Suppliers(); len(got) != 1 || got[0].ID != "s-1" {
		t.Errorf("snapshot suppliers = %+v, want [s-1 Metro]", got)
	}
}
