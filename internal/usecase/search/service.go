package search

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/result"
)

// DefaultForceFallbackMarker forces the text-search path when found in a query.
const DefaultForceFallbackMarker = "fallback"

// Service resolves a free-text query into a search result:
// snapshot -> interpret -> filter -> log decision.
type Service struct {
	catalog     CatalogProvider
	decisions   DecisionLogger
	interpreter *Interpreter
	filters     *FilterEngine
	marker      string
	outcomes    *prometheus.CounterVec
	now         func() time.Time
}

// New creates a search service with the default vocabulary, page size and fallback marker.
// decisions can be nil.
func New(catalog CatalogProvider, decisions DecisionLogger) *Service {
	return &Service{
		catalog:     catalog,
		decisions:   decisions,
		interpreter: NewInterpreter(nil),
		filters:     NewFilterEngine(DefaultPageSize, false),
		marker:      DefaultForceFallbackMarker,
		now:         time.Now,
	}
}

// WithInterpreter replaces the query interpreter.
func (s *Service) WithInterpreter(i *Interpreter) *Service {
	if i != nil {
		s.interpreter = i
	}
	return s
}

// WithFilterEngine replaces the filter engine.
func (s *Service) WithFilterEngine(f *FilterEngine) *Service {
	if f != nil {
		s.filters = f
	}
	return s
}

// WithForceFallbackMarker sets the debug marker that forces fallback. Empty disables it.
func (s *Service) WithForceFallbackMarker(marker string) *Service {
	s.marker = strings.ToLower(marker)
	return s
}

// WithOutcomeCounter counts searches by label "outcome" ("interpreted"/"fallback"/"error").
func (s *Service) WithOutcomeCounter(c *prometheus.CounterVec) *Service {
	s.outcomes = c
	return s
}

// Search runs one query. Only a snapshot failure is returned as an error.
func (s *Service) Search(ctx context.Context, query string) (result.Result, error) {
	products, err := s.catalog.Snapshot(ctx)
	if err != nil {
		s.count("error")
		return result.Result{}, domain.CatalogUnavailable(err)
	}

	interp, ok := s.interpret(query)

	var matched []product.Product
	var used *interpretation.Interpretation
	if ok {
		used = &interp
		matched = s.filters.Structured(products, interp)
		s.count("interpreted")
	} else {
		matched = s.filters.Text(products, query)
		s.count("fallback")
	}

	if s.decisions != nil {
		s.decisions.RecordDecision(ctx, audit.DecisionRecord{
			Timestamp:       s.now().UTC(),
			InputText:       query,
			Filters:         used,
			AISuccess:       ok,
			FallbackApplied: !ok,
		})
	}

	return result.New(matched, used), nil
}

func (s *Service) interpret(query string) (interpretation.Interpretation, bool) {
	if s.marker != "" && strings.Contains(strings.ToLower(query), s.marker) {
		return interpretation.Interpretation{}, false
	}
	return s.interpreter.Interpret(query)
}

func (s *Service) count(outcome string) {
	if s.outcomes != nil {
		s.outcomes.WithLabelValues(outcome).Inc()
	}
}
