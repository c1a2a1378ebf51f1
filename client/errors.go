package client

import "errors"

var (
	// ErrInvalidInput indicates malformed input (not a video ID/url).
	ErrInvalidInput = errors.New("invalid input")
	// ErrClosed indicates the client has been shut down.
	ErrClosed = errors.New("client closed")
)
