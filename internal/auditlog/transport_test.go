package auditlog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
)

func TestRoundTripper_RecordsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	sink := &memSink{}
	client := &http.Client{Transport: NewRoundTripper(nil, NewRequestLogger(sink))}

	ctx := actor.WithActor(context.Background(), actor.Actor{OrganizationID: "org-1"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/public/catalog?page=1", http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	recs := sink.requests()
	require.Len(t, recs, 1)
	assert.Equal(t, "/api/public/catalog", recs[0].Route)
	assert.Equal(t, "GET", recs[0].Method)
	require.NotNil(t, recs[0].Status)
	assert.Equal(t, http.StatusTeapot, *recs[0].Status)
	assert.Equal(t, "org-1", recs[0].Actor.OrganizationID)
}

func TestRoundTripper_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sink := &memSink{}
	client := &http.Client{Transport: NewRoundTripper(nil, NewRequestLogger(sink))}

	_, err := client.Get(url + "/api/public/catalog")
	require.Error(t, err)

	recs := sink.requests()
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Status)
}
