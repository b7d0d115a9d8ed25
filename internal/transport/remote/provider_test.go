package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

func newProvider(t *testing.T, h http.Handler, cfg Config) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	p, err := New(&cfg)
	require.NoError(t, err)
	return p
}

func ids(ps []product.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID()
	}
	return out
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "/relative"} {
		_, err := New(&Config{BaseURL: u})
		assert.Error(t, err, u)
	}
}

func TestSnapshot_FollowsTotalPages(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/public/catalog", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		a, b := page*2-1, page*2
		fmt.Fprintf(w, `{"success":true,"data":{"products":[{"id":"%d","name":"p%d","price":"1.5"},{"id":"%d","name":"p%d","price":2}],"totalPages":2}}`, a, a, b, b)
	})
	p := newProvider(t, h, Config{PageSize: 2, Token: "s3cret"})

	got, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, 1.5, got[0].Price())
}

func TestSnapshot_StopsOnShortPage(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte(`[{"id":"a","name":"A"},{"id":"b","name":"B"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"c","name":"C"}]`))
	})
	p := newProvider(t, h, Config{PageSize: 2})

	got, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSnapshot_MaxPagesAndDedup(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"products":[{"id":"same","name":"S"}]}`))
	})
	p := newProvider(t, h, Config{PageSize: 1, MaxPages: 3})

	got, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"same"}, ids(got))
	assert.EqualValues(t, 3, calls.Load())
}

func TestSnapshot_EmptyCatalog(t *testing.T) {
	p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}), Config{})

	got, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSnapshot_Failures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"unknown envelope": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		},
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			p := newProvider(t, h, Config{})
			_, err := p.Snapshot(context.Background())
			assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
		})
	}
}

func TestSnapshot_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	p, err := New(&Config{BaseURL: base})
	require.NoError(t, err)
	_, err = p.Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestGet(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/public/products/p1":
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"p1","name":"Sabonete","imageUrl":"s.png"}}`))
		case "/api/public/products/p2":
			_, _ = w.Write([]byte(`{"id":"p2","name":"Caderno"}`))
		default:
			http.NotFound(w, r)
		}
	})
	p := newProvider(t, h, Config{})

	got, err := p.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "s.png", got.ImageURL())

	got, err = p.Get(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Caderno", got.Name())

	_, err = p.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWritesAreReadOnly(t *testing.T) {
	p := newProvider(t, http.NotFoundHandler(), Config{})
	_, err := p.Upsert(context.Background(), product.Product{})
	assert.ErrorIs(t, err, domain.ErrReadOnlyCatalog)
	assert.ErrorIs(t, p.Delete(context.Background(), "x"), domain.ErrReadOnlyCatalog)
}

func TestHealthCheck(t *testing.T) {
	ok := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}), Config{})
	assert.NoError(t, ok.HealthCheck(context.Background()))

	down := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), Config{})
	assert.ErrorIs(t, down.HealthCheck(context.Background()), domain.ErrCatalogUnavailable)
}
