package interpretation

import (
	"strconv"
	"strings"
)

// Interpretation is the structured filter set extracted from a free-text query.
// A nil field means "no constraint" for that dimension.
type Interpretation struct {
	Category *string
	PriceMax *float64
	// PriceMin is reserved: the interpreter never populates it, the filter engine honours it.
	PriceMin *float64
	Raw      string
}

// IsPresent reports whether at least one filter field was extracted.
// An interpretation carrying only the raw text counts as absent.
func (i Interpretation) IsPresent() bool {
	return i.Category != nil || i.PriceMax != nil || i.PriceMin != nil
}

// Summary renders a short human-readable description of the active filters.
// Returns an empty string for an absent interpretation.
func (i Interpretation) Summary() string {
	parts := make([]string, 0, 3)
	if i.Category != nil {
		parts = append(parts, "categoria "+*i.Category)
	}
	if i.PriceMin != nil {
		parts = append(parts, "a partir de R$ "+formatPrice(*i.PriceMin))
	}
	if i.PriceMax != nil {
		parts = append(parts, "até R$ "+formatPrice(*i.PriceMax))
	}
	return strings.Join(parts, " · ")
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
