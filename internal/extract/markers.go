package extract

import (
	neturl "net/url"
	"strings"

	"github.com/famomatic/livehls/internal/types"
)

// knownMarkers are the only tokens a strategy may attach to a descriptor.
// They are matched against URL path segments, so a strategy never guesses a
// marker it did not observe directly.
var knownMarkers = []string{
	types.MarkerVariantManifest,
	types.MarkerQualityPlaylist,
	types.MarkerMaster,
	types.MarkerAuto,
}

// markersFromURL scans the URL path for known marker tokens. Segments are
// compared after stripping a playlist file extension, so "master.m3u8"
// yields the master marker.
func markersFromURL(raw string) map[string]struct{} {
	u, err := neturl.Parse(raw)
	if err != nil {
		return nil
	}
	var markers map[string]struct{}
	for _, seg := range strings.Split(u.Path, "/") {
		seg = strings.TrimSuffix(seg, ".m3u8")
		for _, token := range knownMarkers {
			if seg != token {
				continue
			}
			if markers == nil {
				markers = make(map[string]struct{})
			}
			markers[token] = struct{}{}
		}
	}
	return markers
}

// isHLS reports whether the URL points at a segmented HLS resource.
func isHLS(raw string) bool {
	return strings.Contains(raw, "m3u8") ||
		strings.Contains(raw, "/"+types.MarkerVariantManifest+"/") ||
		strings.Contains(raw, "/"+types.MarkerQualityPlaylist+"/")
}

// botCheckSignatures mark rendered or fetched markup as session-poisoned:
// retrying on the same fingerprint will keep failing until rotation.
var botCheckSignatures = []string{
	"not a bot",
	"consent.youtube.com",
	"g-recaptcha",
	"unusual traffic",
}

func hasBotCheck(markup string) bool {
	lower := strings.ToLower(markup)
	for _, sig := range botCheckSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
