package client

import "github.com/famomatic/livehls/internal/types"

// Status classifies the outcome of one resolution.
type Status = types.Status

const (
	StatusResolved         = types.StatusResolved
	StatusNotLive          = types.StatusNotLive
	StatusNoManifest       = types.StatusNoManifest
	StatusAuthRequired     = types.StatusAuthRequired
	StatusTransientFailure = types.StatusTransientFailure
	StatusFatalFailure     = types.StatusFatalFailure
)

// Quality is one quality-specific playlist in a resolved set.
type Quality struct {
	// Resolution is a "WxH" label, empty when the platform reported none.
	Resolution string
	FPS        int
	Bitrate    int
	URL        string
}

// Result is the public view of one resolution outcome.
type Result struct {
	Status    Status
	MasterURL string
	// Confidence is "exact" when the master came from an explicit marker,
	// "best-effort" when the weak first-HLS fallback fired.
	Confidence string
	Qualities  []Quality
	Title      string
	Channel    string
	Err        string
}

func fromInternal(res types.ResolutionResult) Result {
	out := Result{
		Status:     res.Status,
		MasterURL:  res.MasterURL,
		Confidence: string(res.Confidence),
		Title:      res.Title,
		Channel:    res.Channel,
		Err:        res.Err,
	}
	for _, q := range res.Qualities {
		out.Qualities = append(out.Qualities, Quality{
			Resolution: q.Resolution(),
			FPS:        q.FPS,
			Bitrate:    q.Bitrate,
			URL:        q.URL,
		})
	}
	return out
}
