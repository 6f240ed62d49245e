package core

import (
	"math"
	"testing"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		bp, c, ppu  float64
		wantBP      float64
		wantContent float64
		wantPPU     float64
		wantNote    bool
	}{
		{"derive price per unit", 10, 2, 0, 10, 2, 5, false},
		{"mismatch overwrites price per unit", 10, 2, 10, 10, 2, 5, true},
		{"within tolerance is kept", 10, 2, 5.2, 10, 2, 5.2, false},
		{"exact match", 10, 2, 5, 10, 2, 5, false},
		{"derive content", 10, 0, 2, 10, 5, 2, false},
		{"derive bundle price", 0, 3, 2, 6, 3, 2, false},
		{"bundle price only", 4, 0, 0, 4, 1, 4, false},
		{"price per unit only", 0, 0, 3, 3, 1, 3, false},
		{"content only", 0, 7, 0, 0, 7, 0, false},
		{"nothing present", 0, 0, 0, 0, 0, 0, false},
		{"negative bundle price is clamped", -5, 2, 0, 0, 2, 0, false},
		{"negative price per unit is derived", 10, 2, -1, 10, 2, 5, false},
		{"negative content counts as absent", 10, -2, 2, 10, 5, 2, false},
		{"overflowing price per unit becomes zero", 1e300, 1e-300, 0, 1e300, 1e-300, 0, false},
		{"overflow skips mismatch note", 1e300, 1e-300, 3, 1e300, 1e-300, 0, false},
		{"overflowing content becomes zero", 1e300, 0, 1e-300, 1e300, 0, 1e-300, false},
		{"overflowing bundle price becomes zero", 0, 1e300, 1e300, 0, 1e300, 1e300, false},
		{"infinite input counts as absent", math.Inf(1), 2, 3, 6, 2, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, note := Reconcile(ArticleDraft{BundlePrice: tt.bp, Content: tt.c, PricePerUnit: tt.ppu})

			if got.BundlePrice != tt.wantBP {
				t.Errorf("BundlePrice = %v, want %v", got.BundlePrice, tt.wantBP)
			}
			if got.Content != tt.wantContent {
				t.Errorf("Content = %v, want %v", got.Content, tt.wantContent)
			}
			if got.PricePerUnit != tt.wantPPU {
				t.Errorf("PricePerUnit = %v, want %v", got.PricePerUnit, tt.wantPPU)
			}
			if (note != "") != tt.wantNote {
				t.Errorf("note = %q, want note: %v", note, tt.wantNote)
			}
		})
	}
}
