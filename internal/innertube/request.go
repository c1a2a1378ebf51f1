package innertube

import "encoding/json"

// PlayerRequest is the body of a /youtubei/v1/player call.
type PlayerRequest struct {
	Context        Context `json:"context"`
	VideoID        string  `json:"videoId"`
	ContentCheckOk bool    `json:"contentCheckOk,omitempty"`
	RacyCheckOk    bool    `json:"racyCheckOk,omitempty"`
}

type Context struct {
	Client     ClientInfo     `json:"client"`
	ThirdParty *ThirdParty    `json:"thirdParty,omitempty"`
	Request    RequestContext `json:"request,omitempty"`
}

type ClientInfo struct {
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
	UserAgent        string `json:"userAgent,omitempty"`
	AcceptLanguage   string `json:"hl"`
	TimeZone         string `json:"timeZone"`
	UtcOffsetMinutes int    `json:"utcOffsetMinutes"`
}

type ThirdParty struct {
	EmbedUrl string `json:"embedUrl"`
}

type RequestContext struct {
	UseSsl bool `json:"useSsl"`
}

// NewPlayerRequest builds a player request for the given profile and video.
func NewPlayerRequest(profile ClientProfile, videoID string) *PlayerRequest {
	req := &PlayerRequest{
		VideoID:        videoID,
		ContentCheckOk: true,
		RacyCheckOk:    true,
		Context: Context{
			Client: ClientInfo{
				ClientName:       profile.Name,
				ClientVersion:    profile.Version,
				UserAgent:        profile.UserAgent,
				AcceptLanguage:   "en",
				TimeZone:         "UTC",
				UtcOffsetMinutes: 0,
			},
			Request: RequestContext{UseSsl: true},
		},
	}
	if profile.Screen == "EMBED" {
		req.Context.ThirdParty = &ThirdParty{
			EmbedUrl: "https://www.youtube.com/watch?v=" + videoID,
		}
	}
	return req
}

// MarshalRequest serializes the request body.
func MarshalRequest(req *PlayerRequest) ([]byte, error) {
	return json.Marshal(req)
}
