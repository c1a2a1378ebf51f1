package extract

import (
	"strings"

	"github.com/famomatic/livehls/internal/innertube"
	"github.com/famomatic/livehls/internal/types"
)

// buildResult normalizes a player response into the candidate model shared
// by all three strategies. Order follows the platform-reported order:
// manifest URLs first, then declared formats.
func buildResult(resp *innertube.PlayerResponse) *Result {
	res := &Result{
		Title:   resp.VideoDetails.Title,
		Channel: resp.VideoDetails.Author,
	}

	if u := resp.StreamingData.HlsManifestURL; u != "" {
		res.Candidates = append(res.Candidates, descriptorFromURL(u))
	}
	if u := resp.StreamingData.DashManifestURL; u != "" {
		res.Candidates = append(res.Candidates, descriptorFromURL(u))
	}
	for _, f := range resp.StreamingData.Formats {
		if d, ok := descriptorFromFormat(f); ok {
			res.Candidates = append(res.Candidates, d)
		}
	}
	for _, f := range resp.StreamingData.AdaptiveFormats {
		if d, ok := descriptorFromFormat(f); ok {
			res.Candidates = append(res.Candidates, d)
		}
	}
	return res
}

func descriptorFromURL(u string) types.StreamDescriptor {
	d := types.StreamDescriptor{
		URL:     u,
		Markers: markersFromURL(u),
	}
	if isHLS(u) {
		d.Protocol = types.ProtocolHLS
	}
	return d
}

func descriptorFromFormat(f innertube.Format) (types.StreamDescriptor, bool) {
	// Ciphered formats carry no direct URL; live playlists are never
	// ciphered, so dropping them loses nothing.
	if f.URL == "" {
		return types.StreamDescriptor{}, false
	}
	d := types.StreamDescriptor{
		URL:       f.URL,
		Width:     f.Width,
		Height:    f.Height,
		FPS:       f.FPS,
		Bitrate:   f.Bitrate,
		AudioOnly: strings.HasPrefix(f.MimeType, "audio/") || (f.AudioQuality != "" && f.Width == 0 && f.Height == 0),
		Markers:   markersFromURL(f.URL),
	}
	if isHLS(f.URL) {
		d.Protocol = types.ProtocolHLS
	}
	return d, true
}
