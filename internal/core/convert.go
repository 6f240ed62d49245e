package core

// convert.go normalizes raw cell strings into canonical article values.
//
// Numbers arrive in German or English notation, with or without currency
// symbols. A value that cannot be read as a number becomes 0; this is never
// an error.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates a cleaned-up number before parsing.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var currencyStripper = strings.NewReplacer("€", "", "$", "", "£", "", "¥", "")

// ParseNumber reads a price or quantity. When both "," and "." occur, "." is
// a thousands separator and "," the decimal mark; a lone "," is a decimal
// mark. Unreadable input gives 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(currencyStripper.Replace(strings.TrimSpace(s)))
	if s == "" {
		return 0
	}

	hasComma := strings.Contains(s, ",")
	switch {
	case hasComma && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	if !numericRegex.MatchString(s) {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// SplitList splits a semicolon-separated list, trimming elements and
// dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BuildDraft converts one row into a draft using mapping. Unmapped columns
// are ignored.
func BuildDraft(row RawRow, mapping FieldMapping) ArticleDraft {
	d := ArticleDraft{Line: row.Line}
	for header, key := range mapping {
		raw, ok := row.Values[header]
		if !ok {
			continue
		}
		setField(&d, key, raw)
	}
	return d
}

func setField(d *ArticleDraft, key FieldKey, raw string) {
	switch {
	case key.IsNumeric():
		*numberField(d, key) = ParseNumber(raw)
		return
	case key.IsList():
		if key == FieldIngredients {
			d.Ingredients = SplitList(raw)
		} else {
			d.Allergens = SplitList(raw)
		}
		return
	}

	v := strings.TrimSpace(raw)
	switch key {
	case FieldName:
		d.Name = v
	case FieldCategory:
		d.Category = v
	case FieldSupplier:
		d.SupplierName = v
	case FieldSupplierArticleNumber:
		d.SupplierArticleNumber = v
	case FieldBundleUnit:
		d.BundleUnit = v
	case FieldContentUnit:
		d.ContentUnit = v
	}
}

func numberField(d *ArticleDraft, key FieldKey) *float64 {
	n := &d.Nutrition
	fields := map[FieldKey]*float64{
		FieldBundlePrice:   &d.BundlePrice,
		FieldContent:       &d.Content,
		FieldPricePerUnit:  &d.PricePerUnit,
		FieldCalories:      &n.Calories,
		FieldKilojoules:    &n.Kilojoules,
		FieldProtein:       &n.Protein,
		FieldFat:           &n.Fat,
		FieldCarbohydrates: &n.Carbohydrates,
		FieldSugar:         &n.Sugar,
		FieldFiber:         &n.Fiber,
		FieldSalt:          &n.Salt,
	}
	return fields[key]
}
