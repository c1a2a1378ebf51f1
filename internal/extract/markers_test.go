package extract

import (
	"testing"

	"github.com/famomatic/livehls/internal/types"
)

func TestMarkersFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want []string
	}{
		{
			name: "variant manifest path",
			url:  "https://manifest.example/api/manifest/hls_variant/expire/123/index.m3u8",
			want: []string{types.MarkerVariantManifest},
		},
		{
			name: "quality playlist path",
			url:  "https://manifest.example/api/manifest/hls_playlist/itag/95/index.m3u8",
			want: []string{types.MarkerQualityPlaylist},
		},
		{
			name: "master file segment",
			url:  "https://cdn.example/live/master.m3u8",
			want: []string{types.MarkerMaster},
		},
		{
			name: "auto rendition segment",
			url:  "https://cdn.example/live/auto/index.m3u8",
			want: []string{types.MarkerAuto},
		},
		{
			name: "token inside a longer segment does not match",
			url:  "https://cdn.example/remaster/hls_variants/index.m3u8",
			want: nil,
		},
		{
			name: "token in query string does not match",
			url:  "https://cdn.example/live/index.m3u8?src=hls_variant",
			want: nil,
		},
		{
			name: "unparseable url",
			url:  "://not-a-url",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := markersFromURL(tc.url)
			if len(got) != len(tc.want) {
				t.Fatalf("markersFromURL(%q) = %v, want %v", tc.url, got, tc.want)
			}
			for _, m := range tc.want {
				if _, ok := got[m]; !ok {
					t.Fatalf("markersFromURL(%q) missing %q", tc.url, m)
				}
			}
		})
	}
}

func TestIsHLS(t *testing.T) {
	if !isHLS("https://cdn.example/live/index.m3u8") {
		t.Error("m3u8 URL not recognized as HLS")
	}
	if !isHLS("https://manifest.example/api/manifest/hls_variant/expire/123/file") {
		t.Error("variant manifest URL not recognized as HLS")
	}
	if isHLS("https://cdn.example/videoplayback?itag=22") {
		t.Error("progressive URL misclassified as HLS")
	}
}

func TestHasBotCheck(t *testing.T) {
	if !hasBotCheck(`<form action="https://consent.youtube.com/save">`) {
		t.Error("consent redirect not detected")
	}
	if !hasBotCheck("Please confirm that you are Not A Bot.") {
		t.Error("case-insensitive signature not detected")
	}
	if hasBotCheck("<html><body>regular watch page</body></html>") {
		t.Error("false positive on plain markup")
	}
}
