package extract

import (
	"context"
	"errors"
	"time"

	"github.com/famomatic/livehls/internal/innertube"
	"github.com/famomatic/livehls/internal/session"
	"github.com/famomatic/livehls/internal/types"
)

const metadataStrategyName = "metadata"

// MetadataStrategy resolves candidates through the platform's structured
// player endpoint. Fastest strategy, least resilient to format drift.
type MetadataStrategy struct {
	profiles []innertube.ClientProfile
	timeout  time.Duration
}

func NewMetadataStrategy(timeout time.Duration) *MetadataStrategy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MetadataStrategy{
		profiles: innertube.DefaultProfiles(),
		timeout:  timeout,
	}
}

func (s *MetadataStrategy) Name() string { return metadataStrategyName }

func (s *MetadataStrategy) Extract(ctx context.Context, videoID string, h *session.Handle) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client := innertube.NewClient(h.HTTPClient(), h.Cookies())

	var lastErr error
	for _, profile := range s.profiles {
		resp, err := client.Player(ctx, profile, videoID)
		if err != nil {
			var pErr *innertube.PlayabilityError
			if errors.As(err, &pErr) {
				switch {
				case pErr.RequiresLogin():
					return nil, failure(metadataStrategyName, types.StatusAuthRequired, err)
				case pErr.IsNotLive(), pErr.IsUnavailable():
					// Unavailable, private or deleted videos cannot be live;
					// another strategy cannot change that answer.
					return nil, failure(metadataStrategyName, types.StatusNotLive, err)
				}
			}
			lastErr = err
			continue
		}
		if !isLive(resp) {
			return nil, failure(metadataStrategyName, types.StatusNotLive, nil)
		}
		return buildResult(resp), nil
	}
	return nil, failure(metadataStrategyName, types.StatusTransientFailure, lastErr)
}

// isLive mirrors the platform's own live gate: either the playability block
// carries liveStreamability or the video details declare a live broadcast.
func isLive(resp *innertube.PlayerResponse) bool {
	return resp.PlayabilityStatus.IsLive() || resp.VideoDetails.IsLive
}
