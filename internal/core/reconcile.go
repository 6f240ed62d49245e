package core

import (
	"fmt"
	"math"
)

// PriceTolerance is the relative difference between a supplied price per
// unit and bundlePrice/content above which the derived value wins.
const PriceTolerance = 0.05

// Reconcile completes the bundlePrice = content * pricePerUnit identity.
// Missing values are derived from the others. When all three are present
// and disagree beyond PriceTolerance, pricePerUnit is replaced by
// bundlePrice/content and a note is returned. Negative or non-finite values
// count as absent, and a derivation that overflows yields 0.
func Reconcile(d ArticleDraft) (ArticleDraft, string) {
	var note string
	bp, c, ppu := usable(d.BundlePrice), usable(d.Content), usable(d.PricePerUnit)

	switch {
	case bp > 0 && c > 0:
		derived := bp / c
		switch {
		case !isFinite(derived):
			ppu = 0
		case ppu > 0:
			if diff := math.Abs(derived-ppu) / ppu; diff > PriceTolerance {
				note = fmt.Sprintf("price per unit %s differs from bundle price / content %s by %.0f%%; using %s",
					formatAmount(ppu), formatAmount(derived), diff*100, formatAmount(derived))
				ppu = derived
			}
		default:
			ppu = derived
		}
	case bp > 0 && ppu > 0 && c == 0:
		c = bp / ppu
	case ppu > 0 && c > 0 && bp == 0:
		bp = ppu * c
	case bp > 0:
		c, ppu = 1, bp
	case ppu > 0:
		c, bp = 1, ppu
	}

	d.BundlePrice = usable(bp)
	d.Content = usable(c)
	d.PricePerUnit = usable(ppu)
	return d, note
}

// usable maps negative and non-finite values to 0.
func usable(f float64) float64 {
	if !isFinite(f) || f < 0 {
		return 0
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%.4g", f)
}
