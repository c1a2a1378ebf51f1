package selector

import (
	"sort"

	"github.com/famomatic/livehls/internal/types"
)

// Selection is the reduced answer for one candidate set.
type Selection struct {
	MasterURL  string
	Confidence types.Confidence
	Qualities  []types.QualityVariant
	// RawCount is the de-duplicated candidate count, including audio-only
	// descriptors excluded from the quality list. Logging only.
	RawCount int
}

// Select reduces a noisy candidate set to a master manifest URL and an
// ordered quality list. It is pure: no I/O, no clock, no randomness, and
// calling it twice on the same input yields identical output.
//
// Master election, first rule that matches wins:
//  1. a candidate carrying the variant-manifest marker
//  2. an HLS candidate carrying an explicit master/auto marker
//  3. the first HLS candidate in original order (best-effort fallback,
//     flagged via Confidence)
//
// The second return is false when no HLS candidate exists at all.
func Select(candidates []types.StreamDescriptor) (Selection, bool) {
	candidates = dedupe(candidates)
	sel := Selection{RawCount: len(candidates)}

	var master *types.StreamDescriptor
	for i := range candidates {
		if candidates[i].HasMarker(types.MarkerVariantManifest) {
			master = &candidates[i]
			sel.Confidence = types.ConfidenceExact
			break
		}
	}
	if master == nil {
		for i := range candidates {
			c := &candidates[i]
			if c.Protocol != types.ProtocolHLS {
				continue
			}
			if c.HasMarker(types.MarkerMaster) || c.HasMarker(types.MarkerAuto) {
				master = c
				sel.Confidence = types.ConfidenceExact
				break
			}
		}
	}
	if master == nil {
		for i := range candidates {
			if candidates[i].Protocol == types.ProtocolHLS {
				master = &candidates[i]
				sel.Confidence = types.ConfidenceBestEffort
				break
			}
		}
	}
	if master == nil {
		return sel, false
	}
	sel.MasterURL = master.URL
	sel.Qualities = qualityList(candidates, master.URL)
	return sel, true
}

// qualityList filters and orders the per-quality playlists. When any
// candidate in the set carries the quality-playlist marker, only marked
// candidates qualify, even if audio-only exclusion then empties the list.
// The unmarked fallback fires only when the marker is absent from the whole
// set.
func qualityList(candidates []types.StreamDescriptor, masterURL string) []types.QualityVariant {
	marked := false
	for _, c := range candidates {
		if c.HasMarker(types.MarkerQualityPlaylist) {
			marked = true
			break
		}
	}

	var picked []types.StreamDescriptor
	for _, c := range candidates {
		if c.AudioOnly {
			continue
		}
		if marked {
			if c.HasMarker(types.MarkerQualityPlaylist) {
				picked = append(picked, c)
			}
			continue
		}
		if c.Protocol == types.ProtocolHLS && c.URL != masterURL {
			picked = append(picked, c)
		}
	}

	// Descending by height, width, bitrate; descriptors without a reported
	// resolution sort last, stable by original order.
	sort.SliceStable(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if a.HasResolution() != b.HasResolution() {
			return a.HasResolution()
		}
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		return a.Bitrate > b.Bitrate
	})

	out := make([]types.QualityVariant, 0, len(picked))
	for _, c := range picked {
		out = append(out, types.QualityVariant{
			Width:   c.Width,
			Height:  c.Height,
			FPS:     c.FPS,
			Bitrate: c.Bitrate,
			URL:     c.URL,
		})
	}
	return out
}

// dedupe drops exact duplicate URLs, keeping the first occurrence's metadata.
func dedupe(candidates []types.StreamDescriptor) []types.StreamDescriptor {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]types.StreamDescriptor, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}
