package resolver

import (
	"context"
	"errors"

	"github.com/famomatic/livehls/internal/extract"
	"github.com/famomatic/livehls/internal/selector"
	"github.com/famomatic/livehls/internal/session"
	"github.com/famomatic/livehls/internal/types"
)

// Logger is the minimal logging surface the runner needs.
type Logger interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Infof(string, ...any) {}

// Runner executes the extraction strategies in fixed priority order under
// the session manager's exclusive access.
type Runner struct {
	strategies []extract.Strategy
	sessions   *session.Manager
	log        Logger
}

func NewRunner(strategies []extract.Strategy, sessions *session.Manager, log Logger) *Runner {
	if log == nil {
		log = nopLogger{}
	}
	return &Runner{strategies: strategies, sessions: sessions, log: log}
}

// Resolve runs the chain for one video ID and reduces the first successful
// candidate set through the selector. Definitive failures (NotLive,
// AuthRequired) stop the chain immediately; transient and fatal failures
// fall through to the next strategy. Fatal failures are reported to the
// session manager so it can rotate the underlying engine.
func (r *Runner) Resolve(ctx context.Context, videoID string) types.ResolutionResult {
	var result types.ResolutionResult

	err := r.sessions.WithSession(ctx, func(h *session.Handle) error {
		result = r.runChain(ctx, videoID, h)
		return nil
	})
	if err != nil {
		// Session acquisition itself failed (manager dead).
		return types.ResolutionResult{
			Status: types.StatusFatalFailure,
			Err:    err.Error(),
		}
	}
	return result
}

func (r *Runner) runChain(ctx context.Context, videoID string, h *session.Handle) types.ResolutionResult {
	attempts := make([]*extract.Failure, 0, len(r.strategies))
	sawTransient := false

	for _, strat := range r.strategies {
		if ctx.Err() != nil {
			return types.ResolutionResult{
				Status: types.StatusTransientFailure,
				Err:    ctx.Err().Error(),
			}
		}

		res, err := strat.Extract(ctx, videoID, h)
		if err == nil {
			h.ReportSuccess()
			return r.reduce(res)
		}

		fail := asFailure(strat.Name(), err)
		attempts = append(attempts, fail)
		r.log.Warnf("resolve %s: strategy %s: %v", videoID, strat.Name(), fail)

		switch fail.Kind {
		case types.StatusNotLive, types.StatusAuthRequired:
			// Definitive: trying another strategy cannot change the answer.
			return types.ResolutionResult{Status: fail.Kind, Err: fail.Error()}
		case types.StatusFatalFailure:
			h.ReportFatal()
		default:
			sawTransient = true
		}
	}

	status := types.StatusFatalFailure
	if sawTransient {
		status = types.StatusTransientFailure
	}
	return types.ResolutionResult{
		Status: status,
		Err:    exhaustedMessage(attempts),
	}
}

// reduce applies the candidate selector to a successful extraction.
func (r *Runner) reduce(res *extract.Result) types.ResolutionResult {
	sel, ok := selector.Select(res.Candidates)
	if !ok {
		return types.ResolutionResult{
			Status:  types.StatusNoManifest,
			Title:   res.Title,
			Channel: res.Channel,
			Err:     types.ErrNoManifest.Error(),
		}
	}
	r.log.Infof("resolved master manifest (%s confidence, %d candidates)", sel.Confidence, sel.RawCount)
	return types.ResolutionResult{
		Status:     types.StatusResolved,
		MasterURL:  sel.MasterURL,
		Confidence: sel.Confidence,
		Qualities:  sel.Qualities,
		Title:      res.Title,
		Channel:    res.Channel,
	}
}

// asFailure guarantees classification even if a strategy leaked a raw error.
func asFailure(strategy string, err error) *extract.Failure {
	var fail *extract.Failure
	if errors.As(err, &fail) {
		return fail
	}
	return &extract.Failure{
		Kind:     types.StatusTransientFailure,
		Strategy: strategy,
		Cause:    err,
	}
}

func exhaustedMessage(attempts []*extract.Failure) string {
	if len(attempts) == 0 {
		return "no strategies configured"
	}
	msg := "all strategies failed: "
	for i, a := range attempts {
		if i > 0 {
			msg += "; "
		}
		msg += a.Error()
	}
	return msg
}
