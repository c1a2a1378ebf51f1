package resolver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/famomatic/livehls/internal/extract"
	"github.com/famomatic/livehls/internal/session"
	"github.com/famomatic/livehls/internal/types"
)

type fakeEngine struct{ closed bool }

func (e *fakeEngine) Render(context.Context, session.RenderRequest) (session.RenderResult, error) {
	return session.RenderResult{}, nil
}
func (e *fakeEngine) Close(context.Context) error { e.closed = true; return nil }

func newTestManager(created *[]*fakeEngine, threshold int) *session.Manager {
	factory := func(context.Context, []*http.Cookie) (session.Engine, error) {
		e := &fakeEngine{}
		*created = append(*created, e)
		return e, nil
	}
	return session.NewManager(factory, nil, session.Options{FailureThreshold: threshold})
}

type stubStrategy struct {
	name      string
	kind      types.Status // zero value means success
	touchEng  bool
	result    *extract.Result
	calls     int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(ctx context.Context, _ string, h *session.Handle) (*extract.Result, error) {
	s.calls++
	if s.touchEng {
		if _, err := h.Engine(ctx); err != nil {
			return nil, &extract.Failure{Kind: types.StatusFatalFailure, Strategy: s.name, Cause: err}
		}
	}
	if s.kind != "" {
		return nil, &extract.Failure{Kind: s.kind, Strategy: s.name, Cause: errors.New("stubbed")}
	}
	if s.result != nil {
		return s.result, nil
	}
	return &extract.Result{
		Candidates: []types.StreamDescriptor{{
			URL:      "https://m.example/api/manifest/hls_variant/x",
			Protocol: types.ProtocolHLS,
			Markers:  map[string]struct{}{types.MarkerVariantManifest: {}},
		}},
		Title:   "stream",
		Channel: "channel",
	}, nil
}

func TestResolve_FirstSuccessWins(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 2)
	first := &stubStrategy{name: "first"}
	second := &stubStrategy{name: "second"}

	r := NewRunner([]extract.Strategy{first, second}, mgr, nil)
	res := r.Resolve(context.Background(), "vid")

	if res.Status != types.StatusResolved {
		t.Fatalf("Status = %s, want resolved", res.Status)
	}
	if res.MasterURL != "https://m.example/api/manifest/hls_variant/x" {
		t.Fatalf("MasterURL = %q", res.MasterURL)
	}
	if res.Confidence != types.ConfidenceExact {
		t.Fatalf("Confidence = %q, want exact", res.Confidence)
	}
	if second.calls != 0 {
		t.Fatalf("second strategy called %d times, want 0", second.calls)
	}
}

func TestResolve_AllTransientYieldsTransientWithoutRotation(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 0)
	strategies := []extract.Strategy{
		&stubStrategy{name: "a", kind: types.StatusTransientFailure},
		&stubStrategy{name: "b", kind: types.StatusTransientFailure},
		&stubStrategy{name: "c", kind: types.StatusTransientFailure},
	}

	r := NewRunner(strategies, mgr, nil)
	res := r.Resolve(context.Background(), "vid")

	if res.Status != types.StatusTransientFailure {
		t.Fatalf("Status = %s, want transient_failure", res.Status)
	}
	// No fatal was observed: even with a zero threshold the session must
	// not have been degraded.
	if mgr.State() == session.StateDegraded {
		t.Fatalf("session degraded after transient-only failures")
	}
}

func TestResolve_NotLiveStopsChainImmediately(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 2)
	notLive := &stubStrategy{name: "metadata", kind: types.StatusNotLive}
	rendered := &stubStrategy{name: "rendered"}

	r := NewRunner([]extract.Strategy{notLive, rendered}, mgr, nil)
	res := r.Resolve(context.Background(), "vid")

	if res.Status != types.StatusNotLive {
		t.Fatalf("Status = %s, want not_live", res.Status)
	}
	if rendered.calls != 0 {
		t.Fatalf("remaining strategy called %d times after definitive failure", rendered.calls)
	}
}

func TestResolve_AuthRequiredIsDefinitive(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 2)
	auth := &stubStrategy{name: "metadata", kind: types.StatusAuthRequired}
	next := &stubStrategy{name: "rendered"}

	r := NewRunner([]extract.Strategy{auth, next}, mgr, nil)
	res := r.Resolve(context.Background(), "vid")

	if res.Status != types.StatusAuthRequired {
		t.Fatalf("Status = %s, want auth_required", res.Status)
	}
	if next.calls != 0 {
		t.Fatalf("chain continued past auth_required")
	}
}

func TestResolve_FatalTriggersRecreationOnNextSubmission(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 0)
	fatal := &stubStrategy{name: "rendered", kind: types.StatusFatalFailure, touchEng: true}
	fallback := &stubStrategy{name: "watchpage", kind: types.StatusTransientFailure}

	r := NewRunner([]extract.Strategy{fatal, fallback}, mgr, nil)
	res := r.Resolve(context.Background(), "vid")
	if res.Status != types.StatusTransientFailure {
		t.Fatalf("Status = %s, want transient_failure (fatal then transient exhaustion)", res.Status)
	}
	if len(created) != 1 {
		t.Fatalf("engines created = %d, want 1", len(created))
	}
	if mgr.State() != session.StateDegraded {
		t.Fatalf("session state = %s, want degraded after fatal", mgr.State())
	}

	// Next submission succeeds through a strategy that uses the engine: a
	// fresh engine must be created first.
	ok := &stubStrategy{name: "rendered-ok", touchEng: true}
	r2 := NewRunner([]extract.Strategy{ok}, mgr, nil)
	res = r2.Resolve(context.Background(), "vid")
	if res.Status != types.StatusResolved {
		t.Fatalf("Status = %s, want resolved", res.Status)
	}
	if len(created) != 2 {
		t.Fatalf("engines created = %d, want 2 (recreated after rotation)", len(created))
	}
	if !created[0].closed {
		t.Fatalf("poisoned engine was not torn down")
	}
}

func TestResolve_AllFatalYieldsFatal(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 5)
	r := NewRunner([]extract.Strategy{
		&stubStrategy{name: "a", kind: types.StatusFatalFailure},
		&stubStrategy{name: "b", kind: types.StatusFatalFailure},
	}, mgr, nil)

	res := r.Resolve(context.Background(), "vid")
	if res.Status != types.StatusFatalFailure {
		t.Fatalf("Status = %s, want fatal_failure", res.Status)
	}
}

func TestResolve_NoMasterYieldsNoManifest(t *testing.T) {
	var created []*fakeEngine
	mgr := newTestManager(&created, 2)
	dashOnly := &stubStrategy{name: "metadata", result: &extract.Result{
		Candidates: []types.StreamDescriptor{{
			URL:      "https://m.example/api/manifest/dash/x",
			Protocol: types.ProtocolOther,
		}},
		Title: "stream",
	}}

	r := NewRunner([]extract.Strategy{dashOnly}, mgr, nil)
	res := r.Resolve(context.Background(), "vid")

	if res.Status != types.StatusNoManifest {
		t.Fatalf("Status = %s, want no_manifest", res.Status)
	}
	if res.Title != "stream" {
		t.Fatalf("Title = %q, metadata should survive NoManifest", res.Title)
	}
}
