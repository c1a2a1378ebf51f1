package types

import "errors"

var (
	// ErrNotLive indicates the video exists but is not currently live.
	ErrNotLive = errors.New("stream not live")

	// ErrAuthRequired indicates the platform demanded authentication the
	// current session cannot satisfy.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNoManifest indicates extraction succeeded but no adaptive manifest
	// was present among the candidates.
	ErrNoManifest = errors.New("no hls manifest found")

	// ErrSessionDead indicates the automation session exhausted its
	// recreation budget and cannot be acquired.
	ErrSessionDead = errors.New("session dead")
)
