package innertube

import (
	"fmt"
	"strings"
)

// HTTPStatusError indicates a non-200 Innertube response.
type HTTPStatusError struct {
	Client     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("innertube http status=%d client=%s", e.StatusCode, e.Client)
}

// PlayabilityError indicates an unplayable player response.
type PlayabilityError struct {
	Client string
	Status string
	Reason string
}

func (e *PlayabilityError) Error() string {
	return fmt.Sprintf("unplayable status=%s client=%s reason=%s", e.Status, e.Client, e.Reason)
}

func (e *PlayabilityError) RequiresLogin() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "LOGIN") || strings.Contains(s, "SIGN IN")
}

func (e *PlayabilityError) IsNotLive() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "LIVE_STREAM_OFFLINE") ||
		strings.Contains(s, "NOT AVAILABLE") && strings.Contains(s, "LIVE") ||
		strings.Contains(s, "PREMIERE")
}

func (e *PlayabilityError) IsUnavailable() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "UNAVAILABLE") ||
		strings.Contains(s, "PRIVATE") ||
		strings.Contains(s, "DELETED")
}
