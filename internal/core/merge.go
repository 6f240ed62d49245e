package core

import (
	"strings"

	"github.com/google/uuid"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
)

// normalizeName is the comparison key for article and supplier names.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CatalogIndex is a read-only snapshot of the catalog taken at the start of
// an import run.
type CatalogIndex struct {
	articles  map[string]struct{}
	suppliers map[string]string // normalized name -> id
}

// NewCatalogIndex indexes existing article names and suppliers. The first
// supplier wins when two normalize to the same name.
func NewCatalogIndex(articleNames []string, suppliers []catalog.Supplier) *CatalogIndex {
	idx := &CatalogIndex{
		articles:  make(map[string]struct{}, len(articleNames)),
		suppliers: make(map[string]string, len(suppliers)),
	}
	for _, n := range articleNames {
		idx.articles[normalizeName(n)] = struct{}{}
	}
	for _, s := range suppliers {
		key := normalizeName(s.Name)
		if _, ok := idx.suppliers[key]; !ok && key != "" {
			idx.suppliers[key] = s.ID
		}
	}
	return idx
}

// HasArticle reports whether an article with the name exists.
func (idx *CatalogIndex) HasArticle(name string) bool {
	_, ok := idx.articles[normalizeName(name)]
	return ok
}

// SupplierID returns the id of the existing supplier with the name.
func (idx *CatalogIndex) SupplierID(name string) (string, bool) {
	id, ok := idx.suppliers[normalizeName(name)]
	return id, ok
}

// ArticleCount returns the number of indexed article names.
func (idx *CatalogIndex) ArticleCount() int { return len(idx.articles) }

// ImportContext carries the state of one merge pass: the catalog snapshot
// plus what the batch itself has produced so far.
type ImportContext struct {
	Index *CatalogIndex

	seenNames      map[string]struct{}
	batchSuppliers map[string]string
	newSuppliers   []catalog.Supplier
	newID          func() string
}

// NewImportContext starts a merge pass over idx.
func NewImportContext(idx *CatalogIndex) *ImportContext {
	return &ImportContext{
		Index:          idx,
		seenNames:      make(map[string]struct{}),
		batchSuppliers: make(map[string]string),
		newID:          uuid.NewString,
	}
}

// resolveSupplier returns the id for a supplier name, creating a stub the
// first time an unknown name appears in the batch.
func (ic *ImportContext) resolveSupplier(name string) string {
	if id, ok := ic.Index.SupplierID(name); ok {
		return id
	}
	key := normalizeName(name)
	if id, ok := ic.batchSuppliers[key]; ok {
		return id
	}
	id := ic.newID()
	ic.batchSuppliers[key] = id
	ic.newSuppliers = append(ic.newSuppliers, catalog.Supplier{ID: id, Name: strings.TrimSpace(name)})
	return id
}

// MergeResult is the output of Resolve.
type MergeResult struct {
	Accepted     []ArticleDraft
	NewSuppliers []catalog.Supplier
	Skipped      []SkippedRow
}

// Resolve filters drafts against the catalog and the batch itself and
// resolves supplier names to ids. Rows with an empty name, a name already
// in the catalog, or a name accepted earlier in the same batch are skipped.
// New suppliers are listed in the order they first appear.
func Resolve(ic *ImportContext, drafts []ArticleDraft) MergeResult {
	var res MergeResult
	for _, d := range drafts {
		key := normalizeName(d.Name)
		switch {
		case key == "":
			res.Skipped = append(res.Skipped, SkippedRow{Line: d.Line, Name: d.Name, Reason: ReasonEmptyName})
			continue
		case ic.Index.HasArticle(d.Name):
			res.Skipped = append(res.Skipped, SkippedRow{Line: d.Line, Name: d.Name, Reason: ReasonDuplicate})
			continue
		}
		if _, seen := ic.seenNames[key]; seen {
			res.Skipped = append(res.Skipped, SkippedRow{Line: d.Line, Name: d.Name, Reason: ReasonDuplicateInFile})
			continue
		}
		ic.seenNames[key] = struct{}{}

		if strings.TrimSpace(d.SupplierName) != "" {
			d.SupplierID = ic.resolveSupplier(d.SupplierName)
		}
		res.Accepted = append(res.Accepted, d)
	}
	res.NewSuppliers = append([]catalog.Supplier(nil), ic.newSuppliers...)
	return res
}
