package extract

import (
	"context"
	"fmt"

	"github.com/famomatic/livehls/internal/session"
	"github.com/famomatic/livehls/internal/types"
)

// Result is one strategy's successful extraction: the raw candidate set plus
// whatever title/channel metadata the source exposed.
type Result struct {
	Candidates []types.StreamDescriptor
	Title      string
	Channel    string
}

// Strategy is one unit of the fallback chain. Implementations convert every
// internal fault into a *Failure before returning; no raw error crosses this
// boundary.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, videoID string, h *session.Handle) (*Result, error)
}

// Failure is a classified extraction failure.
type Failure struct {
	Kind     types.Status
	Strategy string
	Cause    error
}

func (f *Failure) Error() string {
	if f.Cause == nil {
		return fmt.Sprintf("%s: %s", f.Strategy, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Strategy, f.Kind, f.Cause)
}

func (f *Failure) Unwrap() error { return f.Cause }

func failure(strategy string, kind types.Status, cause error) *Failure {
	return &Failure{Kind: kind, Strategy: strategy, Cause: cause}
}

// watchURL is the canonical watch page for a video ID.
func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
