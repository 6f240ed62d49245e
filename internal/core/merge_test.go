package core

import (
	"fmt"
	"testing"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func TestResolve(t *testing.T) {
	idx := NewCatalogIndex(
		[]string{"Tomaten", "Gurke "},
		[]catalog.Supplier{{ID: "s-1", Name: "Müller"}},
	)
	ic := NewImportContext(idx)
	ic.newID = sequentialIDs()

	drafts := []ArticleDraft{
		{Line: 2, Name: " tomaten "},
		{Line: 3, Name: "  "},
		{Line: 4, Name: "Paprika", SupplierName: "müller "},
		{Line: 5, Name: "Zwiebel", SupplierName: " Schmidt "},
		{Line: 6, Name: "Lauch", SupplierName: "schmidt"},
		{Line: 7, Name: "PAPRIKA", SupplierName: "Weber"},
		{Line: 8, Name: "Salz"},
		{Line: 9, Name: "GURKE"},
	}

	res := Resolve(ic, drafts)

	wantSkipped := []SkippedRow{
		{Line: 2, Name: " tomaten ", Reason: ReasonDuplicate},
		{Line: 3, Name: "  ", Reason: ReasonEmptyName},
		{Line: 7, Name: "PAPRIKA", Reason: ReasonDuplicateInFile},
		{Line: 9, Name: "GURKE", Reason: ReasonDuplicate},
	}
	if len(res.Skipped) != len(wantSkipped) {
		t.Fatalf("Skipped = %+v, want %+v", res.Skipped, wantSkipped)
	}
	for i, want := range wantSkipped {
		if res.Skipped[i] != want {
			t.Errorf("Skipped[%d] = %+v, want %+v", i, res.Skipped[i], want)
		}
	}

	wantSupplier := map[string]string{
		"Paprika": "s-1",
		"Zwiebel": "new-1",
		"Lauch":   "new-1",
		"Salz":    "",
	}
	if len(res.Accepted) != len(wantSupplier) {
		t.Fatalf("len(Accepted) = %d, want %d", len(res.Accepted), len(wantSupplier))
	}
	for _, d := range res.Accepted {
		if d.SupplierID != wantSupplier[d.Name] {
			t.Errorf("%s SupplierID = %q, want %q", d.Name, d.SupplierID, wantSupplier[d.Name])
		}
	}

	if len(res.NewSuppliers) != 1 {
		t.Fatalf("NewSuppliers = %+v, want one", res.NewSuppliers)
	}
	if got := res.NewSuppliers[0]; got.ID != "new-1" || got.Name != "Schmidt" {
		t.Errorf("NewSuppliers[0] = %+v, want {new-1 Schmidt}", got)
	}
}

func TestResolve_SupplierSpellingsShareStub(t *testing.T) {
	ic := NewImportContext(NewCatalogIndex(nil, nil))

	res := Resolve(ic, []ArticleDraft{
		{Line: 2, Name: "Tomaten", SupplierName: " Müller "},
		{Line: 3, Name: "Gurke", SupplierName: "müller"},
	})

	if len(res.NewSuppliers) != 1 {
		t.Fatalf("len(NewSuppliers) = %d, want 1", len(res.NewSuppliers))
	}
	if res.NewSuppliers[0].Name != "Müller" {
		t.Errorf("supplier name = %q, want %q", res.NewSuppliers[0].Name, "Müller")
	}
	if res.Accepted[0].SupplierID != res.Accepted[1].SupplierID {
		t.Errorf("supplier ids differ: %q vs %q", res.Accepted[0].SupplierID, res.Accepted[1].SupplierID)
	}
	if res.Accepted[0].SupplierID != res.NewSuppliers[0].ID {
		t.Errorf("SupplierID = %q, want %q", res.Accepted[0].SupplierID, res.NewSuppliers[0].ID)
	}
}

func TestCatalogIndex(t *testing.T) {
	idx := NewCatalogIndex(
		[]string{" Käse"},
		[]catalog.Supplier{{ID: "a", Name: "Metro"}, {ID: "b", Name: "metro "}, {ID: "c", Name: ""}},
	)

	if !idx.HasArticle("KÄSE ") {
		t.Error("HasArticle should match case-insensitively and trimmed")
	}
	if id, ok := idx.SupplierID(" METRO"); !ok || id != "a" {
		t.Errorf("SupplierID(METRO) = (%q, %v), want (a, true)", id, ok)
	}
	if _, ok := idx.SupplierID(""); ok {
		t.Error("empty supplier name should not be indexed")
	}
	if got := idx.ArticleCount(); got != 1 {
		t.Errorf("ArticleCount() = %d, want 1", got)
	}
}
