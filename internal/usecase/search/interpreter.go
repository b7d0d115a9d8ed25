package search

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
)

// CategoryRule maps query keywords to a canonical category label.
type CategoryRule struct {
	Label    string
	Keywords []string
}

// DefaultVocabulary is the built-in category table. Order is the tie-break.
func DefaultVocabulary() []CategoryRule {
	return []CategoryRule{
		{Label: "Doces", Keywords: []string{"doces"}},
		{Label: "Higiene", Keywords: []string{"higiene"}},
		{Label: "Vestuário", Keywords: []string{"vestuário", "roupa"}},
		{Label: "Educação", Keywords: []string{"educação", "escolar"}},
	}
}

// priceMaxPattern matches "até 50 reais", "ate 50 reais", "R$ 50" and "r 50".
var priceMaxPattern = regexp.MustCompile(`(até|ate)\s*(\d+)[\s\-]*reais|r\$?\s*(\d+)`)

// Interpreter extracts structured filters from free text.
type Interpreter struct {
	vocabulary []CategoryRule
}

// NewInterpreter creates an interpreter over the given vocabulary.
// An empty vocabulary falls back to DefaultVocabulary.
func NewInterpreter(vocabulary []CategoryRule) *Interpreter {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary()
	}
	rules := make([]CategoryRule, 0, len(vocabulary))
	for _, r := range vocabulary {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		if r.Label == "" || len(kws) == 0 {
			continue
		}
		rules = append(rules, CategoryRule{Label: r.Label, Keywords: kws})
	}
	return &Interpreter{vocabulary: rules}
}

// Interpret returns the extracted filters and whether any were found.
func (i *Interpreter) Interpret(query string) (interpretation.Interpretation, bool) {
	q := strings.ToLower(query)
	out := interpretation.Interpretation{Raw: query}

	if label, ok := i.matchCategory(q); ok {
		out.Category = &label
	}
	if ceiling, ok := matchPriceMax(q); ok {
		out.PriceMax = &ceiling
	}

	if !out.IsPresent() {
		return interpretation.Interpretation{}, false
	}
	return out, true
}

func (i *Interpreter) matchCategory(q string) (string, bool) {
	for _, rule := range i.vocabulary {
		for _, kw := range rule.Keywords {
			if strings.Contains(q, kw) {
				return rule.Label, true
			}
		}
	}
	return "", false
}

// matchPriceMax tries the single ceiling expression. The capture is only digits,
// so any length parses; values beyond float64 range saturate at math.MaxFloat64.
func matchPriceMax(q string) (float64, bool) {
	m := priceMaxPattern.FindStringSubmatch(q)
	if m == nil {
		return 0, false
	}
	digits := m[2]
	if digits == "" {
		digits = m[3]
	}
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(digits, 64)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxFloat64, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
