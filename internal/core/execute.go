package core

import (
	"context"
	"fmt"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
)

// Execute commits a merge result. Suppliers are created first; articles are
// only written once every supplier they may reference exists. Provisional
// supplier ids are replaced by the ids the store returns.
func Execute(ctx context.Context, store catalog.Store, res MergeResult) (ImportOutcome, error) {
	outcome := ImportOutcome{SkippedCount: len(res.Skipped)}

	remap := make(map[string]string, len(res.NewSuppliers))
	if len(res.NewSuppliers) > 0 {
		ids, err := store.CreateSuppliers(ctx, res.NewSuppliers)
		if err != nil {
			return outcome, fmt.Errorf("create suppliers: %w", err)
		}
		if len(ids) != len(res.NewSuppliers) {
			return outcome, fmt.Errorf("create suppliers: store returned %d ids for %d suppliers", len(ids), len(res.NewSuppliers))
		}
		for i, s := range res.NewSuppliers {
			remap[s.ID] = ids[i]
		}
		outcome.SuppliersCreatedCount = len(ids)
	}

	if len(res.Accepted) > 0 {
		articles := make([]catalog.Article, len(res.Accepted))
		for i, d := range res.Accepted {
			if id, ok := remap[d.SupplierID]; ok {
				d.SupplierID = id
			}
			articles[i] = d.Article()
		}
		if err := store.CreateArticles(ctx, articles); err != nil {
			return outcome, fmt.Errorf("create articles: %w", err)
		}
		outcome.ImportedCount = len(articles)
	}

	return outcome, nil
}
