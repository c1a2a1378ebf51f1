package types

// Protocol is a coarse transport hint for a candidate stream.
type Protocol int

const (
	ProtocolOther Protocol = iota
	ProtocolHLS
)

// Marker tokens recognized in candidate URLs. The platform embeds them as
// path segments of googlevideo manifest URLs.
const (
	MarkerVariantManifest = "hls_variant"
	MarkerQualityPlaylist = "hls_playlist"
	MarkerMaster          = "master"
	MarkerAuto            = "auto"
)

// StreamDescriptor is one candidate stream variant as reported by the
// platform, not yet classified as master or quality-specific.
type StreamDescriptor struct {
	URL       string
	Protocol  Protocol
	Width     int
	Height    int
	FPS       int
	Bitrate   int
	AudioOnly bool
	// Markers holds the raw marker tokens observed in the URL or source
	// structure. Strategies only record tokens they saw directly.
	Markers map[string]struct{}
}

// HasMarker reports whether the descriptor carries the given raw marker token.
func (d StreamDescriptor) HasMarker(token string) bool {
	_, ok := d.Markers[token]
	return ok
}

// HasResolution reports whether the platform attached pixel dimensions.
func (d StreamDescriptor) HasResolution() bool {
	return d.Width > 0 || d.Height > 0
}
