package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/famomatic/livehls/client"
)

type stubResolver struct {
	result client.Result
	err    error
	gotID  string
}

func (s *stubResolver) Resolve(_ context.Context, input string) (client.Result, error) {
	s.gotID = input
	return s.result, s.err
}

func (s *stubResolver) QueueDepth() int64    { return 0 }
func (s *stubResolver) SessionState() string { return "ready" }
func (s *stubResolver) SessionRestarts() int { return 1 }

func TestHandleResolve_MissingID(t *testing.T) {
	srv := New(&stubResolver{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hls", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResolve_InvalidInputIsRejected(t *testing.T) {
	srv := New(&stubResolver{err: client.ErrInvalidInput}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hls?id=nope", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResolve_SuccessEnvelope(t *testing.T) {
	stub := &stubResolver{result: client.Result{
		Status:     client.StatusResolved,
		MasterURL:  "https://m.example/api/manifest/hls_variant/x",
		Confidence: "exact",
		Title:      "a stream",
		Channel:    "a channel",
		Qualities: []client.Quality{
			{Resolution: "1280x720", FPS: 30, URL: "https://m.example/hls_playlist/720p"},
		},
	}}
	srv := New(stub, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hls?id=5qap5aO4i9A", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "5qap5aO4i9A", stub.gotID)

	var env resolveEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "resolved", env.Status)
	require.NotNil(t, env.HLSManifestURL)
	require.Equal(t, "https://m.example/api/manifest/hls_variant/x", *env.HLSManifestURL)
	require.Equal(t, "exact", env.Confidence)
	require.Len(t, env.Qualities, 1)
	require.Equal(t, "1280x720", env.Qualities[0].Resolution)
	require.Nil(t, env.Error)
}

func TestHandleResolve_FailureStaysOn200(t *testing.T) {
	stub := &stubResolver{result: client.Result{
		Status: client.StatusNotLive,
		Err:    "stream not live",
	}}
	srv := New(stub, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hls?id=5qap5aO4i9A", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env resolveEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "not_live", env.Status)
	require.Nil(t, env.HLSManifestURL)
	require.NotNil(t, env.Error)
	require.NotNil(t, env.Qualities, "qualities must encode as [] not null")
}

func TestIndexAndHealth(t *testing.T) {
	srv := New(&stubResolver{}, prometheus.NewRegistry())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/api/hls?id=")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ready")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
