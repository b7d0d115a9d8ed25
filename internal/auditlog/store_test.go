package auditlog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ongsearch/internal/db"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

type fakeStore struct {
	err     error
	created bool
}

func (f *fakeStore) Snapshot(context.Context) ([]product.Product, error) {
	return nil, f.err
}

func (f *fakeStore) Get(context.Context, string) (product.Product, error) {
	return product.Product{}, f.err
}

func (f *fakeStore) Upsert(context.Context, product.Product) (bool, error) {
	return f.created, f.err
}

func (f *fakeStore) Delete(context.Context, string) error {
	return f.err
}

func TestInstrumentedStore_Routes(t *testing.T) {
	sink := &memSink{}
	s := NewInstrumentedStore(&fakeStore{created: true}, NewRequestLogger(sink))
	ctx := actor.WithActor(context.Background(), actor.Actor{UserID: "u-9"})

	_, _ = s.Snapshot(ctx)
	_, _ = s.Get(ctx, "p1")
	_, _ = s.Upsert(ctx, product.Product{})
	_ = s.Delete(ctx, "p1")

	recs := sink.requests()
	require.Len(t, recs, 4)

	want := []struct {
		route, method string
		status        int
	}{
		{RouteSnapshot, http.MethodGet, 200},
		{RouteGet, http.MethodGet, 200},
		{RouteUpsert, http.MethodPut, 201},
		{RouteDelete, http.MethodDelete, 204},
	}
	for i, w := range want {
		assert.Equal(t, w.route, recs[i].Route)
		assert.Equal(t, w.method, recs[i].Method)
		require.NotNil(t, recs[i].Status)
		assert.Equal(t, w.status, *recs[i].Status)
		assert.Equal(t, "u-9", recs[i].Actor.UserID)
	}
}

func TestInstrumentedStore_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *int
	}{
		{"not found", domain.ErrNotFound, intp(404)},
		{"read only", domain.ErrReadOnlyCatalog, intp(501)},
		{"backend error", &db.Error{Op: db.OpHGetAll, Err: errors.New("OOM")}, intp(500)},
		{"transport failure", context.DeadlineExceeded, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &memSink{}
			s := NewInstrumentedStore(&fakeStore{err: tt.err}, NewRequestLogger(sink))

			_, err := s.Get(context.Background(), "p1")
			assert.ErrorIs(t, err, tt.err)

			recs := sink.requests()
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Status)
		})
	}
}

func intp(n int) *int { return &n }
