package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/famomatic/livehls/internal/session"
	"github.com/famomatic/livehls/internal/types"
)

const watchPageStrategyName = "watchpage"

// WatchPageStrategy fetches the watch page without script execution and
// extracts the embedded player configuration from inline script text.
// Cheapest fallback, most fragile to markup changes.
type WatchPageStrategy struct {
	timeout   time.Duration
	userAgent string
}

func NewWatchPageStrategy(timeout time.Duration, userAgent string) *WatchPageStrategy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WatchPageStrategy{timeout: timeout, userAgent: userAgent}
}

func (s *WatchPageStrategy) Name() string { return watchPageStrategyName }

func (s *WatchPageStrategy) Extract(ctx context.Context, videoID string, h *session.Handle) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := s.fetch(ctx, videoID, h)
	if err != nil {
		return nil, failure(watchPageStrategyName, types.StatusTransientFailure, err)
	}

	raw, err := extractPlayerState(body)
	if err != nil {
		if hasBotCheck(string(body)) {
			return nil, failure(watchPageStrategyName, types.StatusFatalFailure, err)
		}
		return nil, failure(watchPageStrategyName, types.StatusTransientFailure, err)
	}

	resp, err := decodePlayerState(raw)
	if err != nil {
		return nil, failure(watchPageStrategyName, types.StatusTransientFailure, err)
	}

	if fail := classifyPlayability(watchPageStrategyName, resp); fail != nil {
		return nil, fail
	}
	return buildResult(resp), nil
}

func (s *WatchPageStrategy) fetch(ctx context.Context, videoID string, h *session.Handle) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL(videoID), nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for _, cookie := range h.Cookies() {
		req.AddCookie(cookie)
	}

	resp, err := h.HTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page request failed: status=%d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
