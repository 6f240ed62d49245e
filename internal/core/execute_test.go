package core

import (
	"context"
	"errors"
	"testing"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
)

// recordingStore records writes and can be told to fail.
type recordingStore struct {
	supplierIDs  []string
	supplierErr  error
	articleErr   error
	suppliers    [][]catalog.Supplier
	articles     [][]catalog.Article
	articleNames []string
}

func (s *recordingStore) ListArticleNames(ctx context.Context) ([]string, error) {
	return s.articleNames, nil
}

func (s *recordingStore) ListSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	return nil, nil
}

func (s *recordingStore) CreateSuppliers(ctx context.Context, suppliers []catalog.Supplier) ([]string, error) {
	s.suppliers = append(s.suppliers, suppliers)
	if s.supplierErr != nil {
		return nil, s.supplierErr
	}
	return s.supplierIDs, nil
}

func (s *recordingStore) CreateArticles(ctx context.Context, articles []catalog.Article) error {
	s.articles = append(s.articles, articles)
	return s.articleErr
}

func TestExecute_RemapsSupplierIDs(t *testing.T) {
	store := &recordingStore{supplierIDs: []string{"db-1", "db-2"}}
	res := MergeResult{
		Accepted: []ArticleDraft{
			{Name: "Tomaten", SupplierID: "tmp-1"},
			{Name: "Gurke", SupplierID: "existing"},
			{Name: "Lauch", SupplierID: "tmp-2"},
			{Name: "Salz"},
		},
		NewSuppliers: []catalog.Supplier{{ID: "tmp-1", Name: "Müller"}, {ID: "tmp-2", Name: "Weber"}},
		Skipped:      []SkippedRow{{Line: 9, Name: "x", Reason: ReasonDuplicate}},
	}

	got, err := Execute(context.Background(), store, res)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := ImportOutcome{ImportedCount: 4, SkippedCount: 1, SuppliersCreatedCount: 2}
	if got != want {
		t.Errorf("Execute() = %+v, want %+v", got, want)
	}

	if len(store.articles) != 1 {
		t.Fatalf("CreateArticles called %d times, want 1", len(store.articles))
	}
	wantIDs := []string{"db-1", "existing", "db-2", ""}
	for i, a := range store.articles[0] {
		if a.SupplierID != wantIDs[i] {
			t.Errorf("article %s SupplierID = %q, want %q", a.Name, a.SupplierID, wantIDs[i])
		}
	}
}

func TestExecute_SupplierFailureWritesNoArticles(t *testing.T) {
	store := &recordingStore{supplierErr: errors.New("connection reset")}
	res := MergeResult{
		Accepted:     []ArticleDraft{{Name: "Tomaten", SupplierID: "tmp-1"}},
		NewSuppliers: []catalog.Supplier{{ID: "tmp-1", Name: "Müller"}},
	}

	_, err := Execute(context.Background(), store, res)
	if err == nil {
		t.Fatal("Execute() expected error")
	}
	if len(store.articles) != 0 {
		t.Errorf("CreateArticles called %d times after supplier failure, want 0", len(store.articles))
	}
}

func TestExecute_SupplierIDCountMismatch(t *testing.T) {
	store := &recordingStore{supplierIDs: []string{"db-1"}}
	res := MergeResult{
		Accepted:     []ArticleDraft{{Name: "Tomaten", SupplierID: "tmp-1"}},
		NewSuppliers: []catalog.Supplier{{ID: "tmp-1", Name: "A"}, {ID: "tmp-2", Name: "B"}},
	}

	if _, err := Execute(context.Background(), store, res); err == nil {
		t.Fatal("Execute() expected error for id count mismatch")
	}
	if len(store.articles) != 0 {
		t.Error("no articles should be written after a supplier id mismatch")
	}
}

func TestExecute_NothingToWrite(t *testing.T) {
	store := &recordingStore{}
	res := MergeResult{Skipped: []SkippedRow{{Line: 2, Reason: ReasonEmptyName}}}

	got, err := Execute(context.Background(), store, res)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != (ImportOutcome{SkippedCount: 1}) {
		t.Errorf("Execute() = %+v, want only one skip", got)
	}
	if len(store.suppliers) != 0 || len(store.articles) != 0 {
		t.Error("store should not be called when nothing is accepted")
	}
}

func TestExecute_ArticleFailure(t *testing.T) {
	store := &recordingStore{articleErr: errors.New("deadlock detected")}
	res := MergeResult{Accepted: []ArticleDraft{{Name: "Tomaten"}}}

	_, err := Execute(context.Background(), store, res)
	if err == nil || MapError(err).Code != "DB006" {
		t.Errorf("Execute() error = %v, want mapped DB006", err)
	}
}
