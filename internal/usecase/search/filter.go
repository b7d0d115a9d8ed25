package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
)

// DefaultPageSize is the number of products a search returns.
const DefaultPageSize = 12

// FilterEngine applies structured or plain-text criteria to a product snapshot.
// It never mutates the input and preserves catalog order.
type FilterEngine struct {
	pageSize       int
	foldDiacritics bool
}

// NewFilterEngine creates a filter engine. pageSize <= 0 uses DefaultPageSize.
func NewFilterEngine(pageSize int, foldDiacritics bool) *FilterEngine {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FilterEngine{pageSize: pageSize, foldDiacritics: foldDiacritics}
}

// PageSize returns the result cap.
func (f *FilterEngine) PageSize() int { return f.pageSize }

// Structured keeps products matching every present criterion.
func (f *FilterEngine) Structured(products []product.Product, in interpretation.Interpretation) []product.Product {
	return f.collect(products, func(p product.Product) bool {
		return MatchesInterpretation(p, in)
	})
}

// Text keeps products whose name or description contains the query.
// The empty query matches everything.
func (f *FilterEngine) Text(products []product.Product, query string) []product.Product {
	needle := f.normalize(query)
	return f.collect(products, func(p product.Product) bool {
		return f.containsNormalized(p, needle)
	})
}

// MatchText reports whether p's name or description contains query.
func (f *FilterEngine) MatchText(p product.Product, query string) bool {
	return f.containsNormalized(p, f.normalize(query))
}

func (f *FilterEngine) containsNormalized(p product.Product, needle string) bool {
	return strings.Contains(f.normalize(p.Name()), needle) ||
		strings.Contains(f.normalize(p.Description()), needle)
}

// MatchesInterpretation reports whether p satisfies every non-nil field of in.
func MatchesInterpretation(p product.Product, in interpretation.Interpretation) bool {
	if in.Category != nil && !strings.EqualFold(p.Category(), *in.Category) {
		return false
	}
	if in.PriceMax != nil && p.Price() > *in.PriceMax {
		return false
	}
	if in.PriceMin != nil && p.Price() < *in.PriceMin {
		return false
	}
	return true
}

func (f *FilterEngine) collect(products []product.Product, keep func(product.Product) bool) []product.Product {
	out := make([]product.Product, 0, min(len(products), f.pageSize))
	for _, p := range products {
		if len(out) == f.pageSize {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *FilterEngine) normalize(s string) string {
	s = strings.ToLower(s)
	if f.foldDiacritics {
		s = FoldDiacritics(s)
	}
	return s
}

// FoldDiacritics strips combining marks ("educação" -> "educacao").
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
