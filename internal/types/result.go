package types

import "strconv"

// Status classifies the outcome of one resolution attempt.
type Status string

const (
	StatusResolved         Status = "resolved"
	StatusNotLive          Status = "not_live"
	StatusNoManifest       Status = "no_manifest"
	StatusAuthRequired     Status = "auth_required"
	StatusTransientFailure Status = "transient_failure"
	StatusFatalFailure     Status = "fatal_failure"
)

// Definitive reports whether the status must not be retried with another
// strategy: the platform gave an authoritative answer.
func (s Status) Definitive() bool {
	return s == StatusNotLive || s == StatusAuthRequired
}

// Confidence qualifies how the master manifest was chosen.
type Confidence string

const (
	// ConfidenceExact means the master came from a variant-manifest or an
	// explicit master/auto marker.
	ConfidenceExact Confidence = "exact"
	// ConfidenceBestEffort means the weak fallback fired: the first HLS
	// candidate was promoted and may be a mislabeled quality playlist.
	ConfidenceBestEffort Confidence = "best-effort"
)

// QualityVariant is one quality-specific playlist in the resolved set.
type QualityVariant struct {
	Width   int
	Height  int
	FPS     int
	Bitrate int
	URL     string
}

// Resolution returns a "WxH" label, or empty when dimensions are unknown.
func (q QualityVariant) Resolution() string {
	if q.Width <= 0 && q.Height <= 0 {
		return ""
	}
	return strconv.Itoa(q.Width) + "x" + strconv.Itoa(q.Height)
}

// ResolutionResult is the immutable outcome of one resolution request.
type ResolutionResult struct {
	Status     Status
	MasterURL  string
	Confidence Confidence
	Qualities  []QualityVariant
	Title      string
	Channel    string
	Err        string
}

// Resolved reports whether a master manifest URL was produced.
func (r ResolutionResult) Resolved() bool {
	return r.Status == StatusResolved && r.MasterURL != ""
}
