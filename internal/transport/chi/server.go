package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	logpkg "github.com/kailas-cloud/ongsearch/internal/logger"
	cataloguc "github.com/kailas-cloud/ongsearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/ongsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/ongsearch/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// StatusClientClosedRequest is the non-standard status for a request the client abandoned.
const StatusClientClosedRequest = 499

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the public catalog, search and admin product routes.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		detailHandler(domain.ErrInvalidProduct, http.StatusBadRequest, ErrorCodeValidationFailed),
		detailHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrReadOnlyCatalog, http.StatusNotImplemented, ErrorCodeReadOnlyCatalog),
		sentinelHandler(context.Canceled, StatusClientClosedRequest, ErrorCodeRequestCanceled),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorCodeTimeout),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusBadGateway, ErrorCodeCatalogUnavailable),
	}
	return s
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/catalog", s.BrowseCatalog)
		r.Get("/products/{id}", s.GetProduct)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", s.CreateProduct)
		r.Put("/{id}", s.UpdateProduct)
		r.Delete("/{id}", s.DeleteProduct)
	})
}

// Search handles GET /api/public/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	res, err := s.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultToWire(&res))
}

// BrowseCatalog handles GET /api/public/catalog.
func (s *Server) BrowseCatalog(w http.ResponseWriter, r *http.Request) {
	f, err := catalogFiltersFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	page, err := s.catalog.Browse(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogPageToWire(page))
}

// GetProduct handles GET /api/public/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductResponse{Success: true, Data: productToWire(p)})
}

// CreateProduct handles POST /api/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	if req.OrganizationID == "" {
		req.OrganizationID = actor.FromContext(r.Context()).OrganizationID
	}

	p, err := s.catalog.Create(r.Context(), req.attrs())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/public/products/"+p.ID())
	writeJSON(w, http.StatusCreated, ProductResponse{Success: true, Data: productToWire(p)})
}

// UpdateProduct handles PUT /api/products/{id}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if req.ID != "" && req.ID != id {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "body id does not match path id")
		return
	}

	p, err := s.catalog.Update(r.Context(), id, req.attrs())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductResponse{Success: true, Data: productToWire(p)})
}

// DeleteProduct handles DELETE /api/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToWire(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	var req ProductRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return ProductRequest{}, false
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Product name is required")
		return ProductRequest{}, false
	}
	if req.Price == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Product price is required")
		return ProductRequest{}, false
	}
	return req, true
}

// catalogFiltersFromQuery reads category, name, minPrice, maxPrice, page, limit and offset.
// offset is converted to a page when page is absent.
func catalogFiltersFromQuery(r *http.Request) (cataloguc.Filters, error) {
	q := r.URL.Query()
	f := cataloguc.Filters{
		Category: q.Get("category"),
		Name:     strings.TrimSpace(q.Get("name")),
	}

	var err error
	if f.PriceMin, err = optionalFloat(q.Get("minPrice"), "minPrice"); err != nil {
		return cataloguc.Filters{}, err
	}
	if f.PriceMax, err = optionalFloat(q.Get("maxPrice"), "maxPrice"); err != nil {
		return cataloguc.Filters{}, err
	}
	if f.Page, err = optionalInt(q.Get("page"), "page"); err != nil {
		return cataloguc.Filters{}, err
	}
	if f.Limit, err = optionalInt(q.Get("limit"), "limit"); err != nil {
		return cataloguc.Filters{}, err
	}

	offset, err := optionalInt(q.Get("offset"), "offset")
	if err != nil {
		return cataloguc.Filters{}, err
	}
	if offset > 0 && f.Page == 0 {
		limit := f.Limit
		if limit == 0 {
			limit = cataloguc.DefaultLimit
		}
		limit = min(limit, cataloguc.MaxLimit)
		f.Page = offset/limit + 1
		if f.Page <= 0 {
			f.Page = math.MaxInt
		}
	}
	return f, nil
}

func optionalFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

func optionalInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidProduct,
		domain.ErrInvalidQuery,
		domain.ErrReadOnlyCatalog,
		context.Canceled,
		context.DeadlineExceeded,
		domain.ErrCatalogUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detailHandler is sentinelHandler for client errors whose full text is safe to echo.
func detailHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
