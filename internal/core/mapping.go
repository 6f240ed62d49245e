package core

import (
	"fmt"
	"strings"
)

// FieldKey names a canonical article field.
type FieldKey string

const (
	FieldName                  FieldKey = "name"
	FieldCategory              FieldKey = "category"
	FieldSupplier              FieldKey = "supplier"
	FieldSupplierArticleNumber FieldKey = "supplierArticleNumber"
	FieldBundleUnit            FieldKey = "bundleUnit"
	FieldBundlePrice           FieldKey = "bundlePrice"
	FieldContent               FieldKey = "content"
	FieldContentUnit           FieldKey = "contentUnit"
	FieldPricePerUnit          FieldKey = "pricePerUnit"
	FieldIngredients           FieldKey = "ingredients"
	FieldAllergens             FieldKey = "allergens"
	FieldCalories              FieldKey = "calories"
	FieldKilojoules            FieldKey = "kilojoules"
	FieldProtein               FieldKey = "protein"
	FieldFat                   FieldKey = "fat"
	FieldCarbohydrates         FieldKey = "carbohydrates"
	FieldSugar                 FieldKey = "sugar"
	FieldFiber                 FieldKey = "fiber"
	FieldSalt                  FieldKey = "salt"
)

// FieldKeys lists every canonical field in display order.
var FieldKeys = []FieldKey{
	FieldName, FieldCategory, FieldSupplier, FieldSupplierArticleNumber,
	FieldBundleUnit, FieldBundlePrice, FieldContent, FieldContentUnit, FieldPricePerUnit,
	FieldIngredients, FieldAllergens,
	FieldCalories, FieldKilojoules, FieldProtein, FieldFat,
	FieldCarbohydrates, FieldSugar, FieldFiber, FieldSalt,
}

// Valid reports whether k is a canonical field.
func (k FieldKey) Valid() bool {
	for _, f := range FieldKeys {
		if f == k {
			return true
		}
	}
	return false
}

// IsNumeric reports whether values of k are parsed as numbers.
func (k FieldKey) IsNumeric() bool {
	switch k {
	case FieldBundlePrice, FieldContent, FieldPricePerUnit,
		FieldCalories, FieldKilojoules, FieldProtein, FieldFat,
		FieldCarbohydrates, FieldSugar, FieldFiber, FieldSalt:
		return true
	}
	return false
}

// IsList reports whether values of k are semicolon-separated lists.
func (k FieldKey) IsList() bool {
	return k == FieldIngredients || k == FieldAllergens
}

// headerRule maps a lower-case header substring to a field.
type headerRule struct {
	substr string
	field  FieldKey
}

// headerRules is evaluated in order; the first matching substring wins.
// Compound German/English headers come first so that e.g. "Gebindepreis"
// is a price rather than a bundle unit.
var headerRules = []headerRule{
	{"gebindepreis", FieldBundlePrice},
	{"bundle price", FieldBundlePrice},
	{"bundleprice", FieldBundlePrice},
	{"preis pro", FieldPricePerUnit},
	{"price per", FieldPricePerUnit},
	{"unit price", FieldPricePerUnit},
	{"priceperunit", FieldPricePerUnit},
	{"grundpreis", FieldPricePerUnit},
	{"artikelnummer", FieldSupplierArticleNumber},
	{"article number", FieldSupplierArticleNumber},
	{"lieferantenname", FieldSupplier},
	{"supplier name", FieldSupplier},
	{"inhaltseinheit", FieldContentUnit},
	{"content unit", FieldContentUnit},

	{"name", FieldName},
	{"artikel", FieldName},
	{"kategorie", FieldCategory},
	{"category", FieldCategory},
	{"lieferant", FieldSupplier},
	{"supplier", FieldSupplier},
	{"nummer", FieldSupplierArticleNumber},
	{"number", FieldSupplierArticleNumber},
	{"gebinde", FieldBundleUnit},
	{"bundle", FieldBundleUnit},
	{"preis", FieldBundlePrice},
	{"price", FieldBundlePrice},
	{"inhalt", FieldContent},
	{"content", FieldContent},
	{"einheit", FieldContentUnit},
	{"unit", FieldContentUnit},
	{"kalorien", FieldCalories},
	{"calories", FieldCalories},
	{"protein", FieldProtein},
	{"fett", FieldFat},
	{"fat", FieldFat},
	{"kohlenhydrate", FieldCarbohydrates},
	{"carbohydrates", FieldCarbohydrates},

	{"kilojoule", FieldKilojoules},
	{"zucker", FieldSugar},
	{"sugar", FieldSugar},
	{"ballaststoffe", FieldFiber},
	{"fiber", FieldFiber},
	{"salz", FieldSalt},
	{"salt", FieldSalt},
	{"zutaten", FieldIngredients},
	{"ingredients", FieldIngredients},
	{"allergen", FieldAllergens},
}

// GuessField returns the canonical field for a header, or "" if no rule
// matches.
func GuessField(header string) FieldKey {
	h := strings.ToLower(header)
	for _, r := range headerRules {
		if strings.Contains(h, r.substr) {
			return r.field
		}
	}
	return ""
}

// FieldMapping maps file headers to canonical fields. A header maps to at
// most one field and a field is fed by at most one header.
type FieldMapping map[string]FieldKey

// DefaultMapping guesses a field for every header. When several headers
// guess the same field, the first of them keeps it.
func DefaultMapping(headers []string) FieldMapping {
	m := make(FieldMapping, len(headers))
	for _, h := range headers {
		key := GuessField(h)
		if key == "" || m.HeaderFor(key) != "" {
			continue
		}
		m[h] = key
	}
	return m
}

// Assign maps header to key, taking key away from any other header. An
// empty key unmaps the header.
func (m FieldMapping) Assign(header string, key FieldKey) {
	if key == "" {
		delete(m, header)
		return
	}
	for h, k := range m {
		if k == key && h != header {
			delete(m, h)
		}
	}
	m[header] = key
}

// HeaderFor returns the header mapped to key, or "".
func (m FieldMapping) HeaderFor(key FieldKey) string {
	for h, k := range m {
		if k == key {
			return h
		}
	}
	return ""
}

// Clone returns an independent copy.
func (m FieldMapping) Clone() FieldMapping {
	c := make(FieldMapping, len(m))
	for h, k := range m {
		c[h] = k
	}
	return c
}

// WithOverrides returns a copy of m with overrides applied in header order.
// Every override must name a header of the file and a canonical field (or
// "" to unmap).
func (m FieldMapping) WithOverrides(headers []string, overrides FieldMapping) (FieldMapping, error) {
	out := m.Clone()
	if len(overrides) == 0 {
		return out, nil
	}

	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	for h, k := range overrides {
		if !known[h] {
			return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidMapping, h)
		}
		if k != "" && !k.Valid() {
			return nil, fmt.Errorf("%w: unknown field %q for column %q", ErrInvalidMapping, k, h)
		}
	}

	for _, h := range headers {
		if k, ok := overrides[h]; ok {
			out.Assign(h, k)
		}
	}
	return out, nil
}
