package core

import (
	"reflect"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1.234,56", 1234.56},
		{"12,5", 12.5},
		{"€45.00", 45},
		{"45,00 €", 45},
		{"$ 1,5", 1.5},
		{"¥100", 100},
		{"1.5", 1.5},
		{" 3 ", 3},
		{"-2,5", -2.5},
		{"1.234.567,89", 1234567.89},
		{"abc", 0},
		{"", 0},
		{"1,2,3", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"0x1F", 0},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.input); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Milch; Ei ;;Senf", []string{"Milch", "Ei", "Senf"}},
		{"Gluten", []string{"Gluten"}},
		{" ; ", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := SplitList(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildDraft(t *testing.T) {
	row := RawRow{Line: 3, Values: map[string]string{
		"Name":      " Tomaten ",
		"Lieferant": "Müller",
		"Preis":     "12,50",
		"Inhalt":    "5",
		"Allergene": "Sellerie; Senf",
		"Fett":      "0,2",
		"Notiz":     "ignored",
	}}
	mapping := FieldMapping{
		"Name":      FieldName,
		"Lieferant": FieldSupplier,
		"Preis":     FieldBundlePrice,
		"Inhalt":    FieldContent,
		"Allergene": FieldAllergens,
		"Fett":      FieldFat,
		"Missing":   FieldCategory,
	}

	got := BuildDraft(row, mapping)

	if got.Line != 3 {
		t.Errorf("Line = %d, want 3", got.Line)
	}
	if got.Name != "Tomaten" {
		t.Errorf("Name = %q, want %q", got.Name, "Tomaten")
	}
	if got.SupplierName != "Müller" {
		t.Errorf("SupplierName = %q, want %q", got.SupplierName, "Müller")
	}
	if got.BundlePrice != 12.5 || got.Content != 5 || got.PricePerUnit != 0 {
		t.Errorf("prices = (%v, %v, %v), want (12.5, 5, 0)", got.BundlePrice, got.Content, got.PricePerUnit)
	}
	if want := []string{"Sellerie", "Senf"}; !reflect.DeepEqual(got.Allergens, want) {
		t.Errorf("Allergens = %q, want %q", got.Allergens, want)
	}
	if got.Nutrition.Fat != 0.2 {
		t.Errorf("Nutrition.Fat = %v, want 0.2", got.Nutrition.Fat)
	}
	if got.Category != "" {
		t.Errorf("Category = %q, want empty", got.Category)
	}
}
