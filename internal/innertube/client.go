package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	neturl "net/url"
)

// Client issues /player calls with a fixed HTTP client and cookie set.
type Client struct {
	httpClient *http.Client
	cookies    []*http.Cookie
}

func NewClient(httpClient *http.Client, cookies []*http.Cookie) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, cookies: cookies}
}

// Player fetches the player response for videoID using the given profile.
// An unplayable response is returned as *PlayabilityError unless the stream
// is live, in which case the response is usable despite the status.
func (c *Client) Player(ctx context.Context, profile ClientProfile, videoID string) (*PlayerResponse, error) {
	url := "https://" + profile.Host + "/youtubei/v1/player"
	if profile.APIKey != "" {
		url += "?key=" + neturl.QueryEscape(profile.APIKey)
	}

	body, err := MarshalRequest(NewPlayerRequest(profile, videoID))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", profile.UserAgent)
	httpReq.Header.Set("Origin", "https://"+profile.Host)
	httpReq.Header.Set("Referer", "https://"+profile.Host+"/watch?v="+videoID)
	for k, v := range profile.Headers {
		for _, val := range v {
			httpReq.Header.Add(k, val)
		}
	}
	for _, cookie := range c.cookies {
		httpReq.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{
			Client:     profile.Name,
			StatusCode: resp.StatusCode,
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var playerResp PlayerResponse
	if err := json.Unmarshal(respBody, &playerResp); err != nil {
		return nil, err
	}

	if !playerResp.PlayabilityStatus.IsOK() && !playerResp.PlayabilityStatus.IsLive() {
		return nil, &PlayabilityError{
			Client: profile.Name,
			Status: playerResp.PlayabilityStatus.Status,
			Reason: playerResp.PlayabilityStatus.Reason,
		}
	}

	return &playerResp, nil
}
