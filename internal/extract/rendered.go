package extract

import (
	"context"
	"time"

	"github.com/famomatic/livehls/internal/innertube"
	"github.com/famomatic/livehls/internal/session"
	"github.com/famomatic/livehls/internal/types"
)

const renderedStrategyName = "rendered"

// playerStateWaitExpr is polled in the page until the player configuration
// object materializes.
const playerStateWaitExpr = "window.ytInitialPlayerResponse !== undefined"

// playerStateEvalExpr reads the object out as a JSON string.
const playerStateEvalExpr = "JSON.stringify(window.ytInitialPlayerResponse)"

// RenderedStrategy loads the watch page in the session's browser and reads
// the client-side player configuration after script execution. Slowest
// strategy, but sees exactly what a real browser is served.
type RenderedStrategy struct {
	timeout time.Duration
}

func NewRenderedStrategy(timeout time.Duration) *RenderedStrategy {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &RenderedStrategy{timeout: timeout}
}

func (s *RenderedStrategy) Name() string { return renderedStrategyName }

func (s *RenderedStrategy) Extract(ctx context.Context, videoID string, h *session.Handle) (*Result, error) {
	eng, err := h.Engine(ctx)
	if err != nil {
		// A session that cannot be (re)created is a fail-closed condition,
		// not something to retry inside this request.
		return nil, failure(renderedStrategyName, types.StatusFatalFailure, err)
	}

	res, err := eng.Render(ctx, session.RenderRequest{
		URL:      watchURL(videoID),
		WaitExpr: playerStateWaitExpr,
		EvalExpr: playerStateEvalExpr,
		Timeout:  s.timeout,
	})
	if err != nil {
		// A timeout without the player object is transient unless the
		// captured markup shows the session was flagged.
		if hasBotCheck(res.HTML) {
			return nil, failure(renderedStrategyName, types.StatusFatalFailure, err)
		}
		return nil, failure(renderedStrategyName, types.StatusTransientFailure, err)
	}

	resp, err := decodePlayerState(res.Payload)
	if err != nil {
		if hasBotCheck(res.HTML) {
			return nil, failure(renderedStrategyName, types.StatusFatalFailure, err)
		}
		return nil, failure(renderedStrategyName, types.StatusTransientFailure, err)
	}

	if fail := classifyPlayability(renderedStrategyName, resp); fail != nil {
		return nil, fail
	}
	return buildResult(resp), nil
}

// classifyPlayability maps an in-page player response's playability block to
// a definitive failure, or nil when candidates can be extracted.
func classifyPlayability(strategy string, resp *innertube.PlayerResponse) *Failure {
	st := &resp.PlayabilityStatus
	if st.IsOK() || st.IsLive() {
		if !isLive(resp) {
			return failure(strategy, types.StatusNotLive, nil)
		}
		return nil
	}
	perr := &innertube.PlayabilityError{
		Client: strategy,
		Status: st.Status,
		Reason: st.Reason,
	}
	switch {
	case perr.RequiresLogin():
		return failure(strategy, types.StatusAuthRequired, perr)
	case perr.IsNotLive(), perr.IsUnavailable():
		return failure(strategy, types.StatusNotLive, perr)
	default:
		return failure(strategy, types.StatusTransientFailure, perr)
	}
}
