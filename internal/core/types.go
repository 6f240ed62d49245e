package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
)

// Sentinel errors. IOError and FormatError match ErrIO and ErrFormat with errors.Is.
var (
	ErrIO              = errors.New("file unreadable")
	ErrFormat          = errors.New("invalid file format")
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMapping  = errors.New("invalid field mapping")
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// IOError reports that the import file could not be read. No pipeline stage
// runs after it.
type IOError struct {
	FileName string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %s: %v", e.FileName, ErrIO, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// FormatError reports a file whose content cannot be turned into rows.
type FormatError struct {
	Format string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrFormat, e.Format, e.Reason)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ArticleDraft is an article under construction. SupplierName is resolved to
// SupplierID by the merge stage.
type ArticleDraft struct {
	Line                  int               `json:"line"`
	Name                  string            `json:"name"`
	Category              string            `json:"category,omitempty"`
	SupplierName          string            `json:"supplierName,omitempty"`
	SupplierID            string            `json:"supplierId,omitempty"`
	SupplierArticleNumber string            `json:"supplierArticleNumber,omitempty"`
	BundleUnit            string            `json:"bundleUnit,omitempty"`
	BundlePrice           float64           `json:"bundlePrice"`
	Content               float64           `json:"content"`
	ContentUnit           string            `json:"contentUnit,omitempty"`
	PricePerUnit          float64           `json:"pricePerUnit"`
	Ingredients           []string          `json:"ingredients,omitempty"`
	Allergens             []string          `json:"allergens,omitempty"`
	Nutrition             catalog.Nutrition `json:"nutrition"`
}

// Article converts the draft to a catalog article. The id is left to the store.
func (d ArticleDraft) Article() catalog.Article {
	return catalog.Article{
		Name:                  d.Name,
		Category:              d.Category,
		SupplierID:            d.SupplierID,
		SupplierArticleNumber: d.SupplierArticleNumber,
		BundleUnit:            d.BundleUnit,
		BundlePrice:           d.BundlePrice,
		Content:               d.Content,
		ContentUnit:           d.ContentUnit,
		PricePerUnit:          d.PricePerUnit,
		Ingredients:           d.Ingredients,
		Allergens:             d.Allergens,
		Nutrition:             d.Nutrition,
	}
}

// SkippedRow records a row excluded from an import.
type SkippedRow struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Skip reasons.
const (
	ReasonEmptyName       = "empty name"
	ReasonDuplicate       = "duplicate"
	ReasonDuplicateInFile = "duplicate in file"
)

// RowNote is an informational message attached to an accepted row.
type RowNote struct {
	Line    int    `json:"line"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ImportOutcome summarizes a completed import run.
type ImportOutcome struct {
	ImportedCount         int `json:"importedCount"`
	SkippedCount          int `json:"skippedCount"`
	SuppliersCreatedCount int `json:"suppliersCreatedCount"`
}

// ImportOptions are caller overrides for a run.
type ImportOptions struct {
	// Mapping overrides the default header mapping per header. Headers not
	// named here keep their default assignment.
	Mapping FieldMapping

	// Encoding forces a decoding instead of detection when non-empty.
	Encoding Encoding
}

// ImportResult is the full report of a preview or import run.
type ImportResult struct {
	ImportID     string             `json:"importId"`
	FileName     string             `json:"fileName"`
	Format       string             `json:"format"`
	Encoding     Encoding           `json:"encoding"`
	Delimiter    string             `json:"delimiter,omitempty"`
	Headers      []string           `json:"headers"`
	Mapping      FieldMapping       `json:"mapping"`
	Outcome      ImportOutcome      `json:"outcome"`
	Skipped      []SkippedRow       `json:"skipped"`
	Notes        []RowNote          `json:"notes"`
	Articles     []ArticleDraft     `json:"articles,omitempty"`
	NewSuppliers []catalog.Supplier `json:"newSuppliers,omitempty"`
	DryRun       bool               `json:"dryRun"`
	Duration     time.Duration      `json:"durationNs"`
}
