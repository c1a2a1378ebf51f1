// Package httpapi is the inbound HTTP collaborator. It decodes the video
// identifier, hands it to the resolver and serializes the outcome as a flat
// JSON envelope. Non-2xx transport status is used only for malformed input;
// every resolution outcome, including failures, travels in the body.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/famomatic/livehls/client"
)

// Resolver is the surface the server consumes; *client.Client satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, input string) (client.Result, error)
	QueueDepth() int64
	SessionState() string
	SessionRestarts() int
}

// Server wires the routes.
type Server struct {
	resolver Resolver
	metrics  *Metrics
	mux      *http.ServeMux
}

// New builds the HTTP surface. reg may be nil to disable metrics.
func New(resolver Resolver, reg *prometheus.Registry) *Server {
	s := &Server{resolver: resolver, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("GET /api/hls", s.handleResolve)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	if reg != nil {
		s.metrics = NewMetrics(reg)
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "livehls",
				Name:      "queue_depth",
				Help:      "Requests waiting or in flight.",
			}, func() float64 { return float64(resolver.QueueDepth()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "livehls",
				Name:      "session_restarts_total",
				Help:      "Automation engine creations since process start.",
			}, func() float64 { return float64(resolver.SessionRestarts()) }),
		)
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type qualityEnvelope struct {
	Resolution string `json:"resolution,omitempty"`
	FPS        int    `json:"fps,omitempty"`
	URL        string `json:"url"`
}

type resolveEnvelope struct {
	Status         string            `json:"status"`
	HLSManifestURL *string           `json:"hlsManifestUrl"`
	Confidence     string            `json:"confidence,omitempty"`
	Qualities      []qualityEnvelope `json:"qualities"`
	Title          *string           `json:"title"`
	Channel        *string           `json:"channel"`
	Error          *string           `json:"error"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing ?id="})
		return
	}

	start := time.Now()
	res, err := s.resolver.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid video id or url"})
			return
		}
		// Shutdown or cancelled caller: surface as a transient outcome.
		res = client.Result{Status: client.StatusTransientFailure, Err: err.Error()}
	}
	s.metrics.observe(string(res.Status), time.Since(start).Seconds())

	env := resolveEnvelope{
		Status:         string(res.Status),
		HLSManifestURL: nullable(res.MasterURL),
		Confidence:     res.Confidence,
		Qualities:      []qualityEnvelope{},
		Title:          nullable(res.Title),
		Channel:        nullable(res.Channel),
		Error:          nullable(res.Err),
	}
	for _, q := range res.Qualities {
		env.Qualities = append(env.Qualities, qualityEnvelope{
			Resolution: q.Resolution,
			FPS:        q.FPS,
			URL:        q.URL,
		})
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"usage":   "/api/hls?id=<YouTube_Video_ID>",
		"example": "/api/hls?id=5qap5aO4i9A",
		"note":    "Returns the auto-quality master manifest plus individual quality playlists for live streams.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"session": s.resolver.SessionState(),
		"queue":   s.resolver.QueueDepth(),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
