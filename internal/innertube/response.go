package innertube

// PlayerResponse is the top-level response from the /player endpoint,
// trimmed to the fields live-manifest resolution reads. The same shape is
// embedded in the watch page as ytInitialPlayerResponse, so the rendered
// and raw-markup strategies decode into it as well.
type PlayerResponse struct {
	PlayabilityStatus PlayabilityStatus `json:"playabilityStatus"`
	StreamingData     StreamingData     `json:"streamingData"`
	VideoDetails      VideoDetails      `json:"videoDetails"`
}

type PlayabilityStatus struct {
	Status            string             `json:"status"`
	Reason            string             `json:"reason"`
	LiveStreamability *LiveStreamability `json:"liveStreamability"`
}

func (p *PlayabilityStatus) IsOK() bool {
	return p.Status == "OK"
}

// IsLive reports whether the playability block carries live-stream metadata.
func (p *PlayabilityStatus) IsLive() bool {
	return p.LiveStreamability != nil
}

type LiveStreamability struct {
	LiveStreamabilityRenderer LiveStreamabilityRenderer `json:"liveStreamabilityRenderer"`
}

type LiveStreamabilityRenderer struct {
	VideoID     string `json:"videoId"`
	PollDelayMs string `json:"pollDelayMs"`
}

type StreamingData struct {
	ExpiresInSeconds string   `json:"expiresInSeconds"`
	Formats          []Format `json:"formats"`
	AdaptiveFormats  []Format `json:"adaptiveFormats"`
	DashManifestURL  string   `json:"dashManifestUrl"`
	HlsManifestURL   string   `json:"hlsManifestUrl"`
}

type Format struct {
	Itag         int    `json:"itag"`
	URL          string `json:"url"`
	MimeType     string `json:"mimeType"`
	Bitrate      int    `json:"bitrate"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FPS          int    `json:"fps"`
	Quality      string `json:"quality"`
	QualityLabel string `json:"qualityLabel"`
	AudioQuality string `json:"audioQuality"`
}

type VideoDetails struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ChannelID     string `json:"channelId"`
	IsLive        bool   `json:"isLive"`
	IsLiveContent bool   `json:"isLiveContent"`
	IsPrivate     bool   `json:"isPrivate"`
}
