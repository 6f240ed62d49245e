// Package catalog holds the persisted article/supplier model and the stores
// the import pipeline reads its snapshot from and commits its results to.
package catalog

import "context"

// Supplier is a persisted supplier record. Suppliers created by an import
// carry only ID and Name; the remaining fields are maintained elsewhere.
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Website       string `json:"website,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Nutrition holds per-100g/ml nutrition values.
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Kilojoules    float64 `json:"kilojoules"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Sugar         float64 `json:"sugar"`
	Fiber         float64 `json:"fiber"`
	Salt          float64 `json:"salt"`
}

// Article is a persisted catalog article. SupplierID is empty when the
// article has no supplier.
type Article struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Category              string    `json:"category,omitempty"`
	SupplierID            string    `json:"supplierId,omitempty"`
	SupplierArticleNumber string    `json:"supplierArticleNumber,omitempty"`
	BundleUnit            string    `json:"bundleUnit,omitempty"`
	BundlePrice           float64   `json:"bundlePrice"`
	Content               float64   `json:"content"`
	ContentUnit           string    `json:"contentUnit,omitempty"`
	PricePerUnit          float64   `json:"pricePerUnit"`
	Ingredients           []string  `json:"ingredients,omitempty"`
	Allergens             []string  `json:"allergens,omitempty"`
	Nutrition             Nutrition `json:"nutrition"`
}

// Store is the catalog persistence boundary used by an import run.
//
// A run reads ListArticleNames and ListSuppliers once at its start and
// writes with CreateSuppliers and CreateArticles at its end. Suppliers are
// always created before the articles that reference them.
type Store interface {
	ListArticleNames(ctx context.Context) ([]string, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)

	// CreateSuppliers persists the given suppliers and returns their ids in
	// input order. The store may keep the ids supplied by the caller or
	// assign its own.
	CreateSuppliers(ctx context.Context, suppliers []Supplier) ([]string, error)

	CreateArticles(ctx context.Context, articles []Article) error
}
