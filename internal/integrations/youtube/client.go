// Package youtube wraps the YouTube Data API v3 for channel and video
// metadata, with defensive daily quota accounting.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Channel is the subset of channel metadata the platform uses.
type Channel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscribers"`
	VideoCount  int64  `json:"video_count"`
	ViewCount   int64  `json:"view_count"`
}

// Video is the subset of video metadata the platform uses.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
}

// Client calls the YouTube Data API with an API key. Every call spends quota
// units through the tracker before going to the network.
type Client struct {
	apiKey  string
	baseURL string
	quota   *QuotaTracker
	http    *http.Client
}

// NewClient creates a YouTube API client.
func NewClient(apiKey string, quota *QuotaTracker) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		quota:   quota,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchChannel returns channel metadata by channel ID.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*Channel, error) {
	if err := c.quota.Spend(ctx, CostChannelList); err != nil {
		return nil, err
	}
	var out struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
				VideoCount      string `json:"videoCount"`
				ViewCount       string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	params := url.Values{"part": {"snippet,statistics"}, "id": {channelID}}
	if err := c.get(ctx, "/channels", params, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("channel not found: %s", channelID)
	}
	it := out.Items[0]
	return &Channel{
		ID:          it.ID,
		Title:       it.Snippet.Title,
		Subscribers: parseCount(it.Statistics.SubscriberCount),
		VideoCount:  parseCount(it.Statistics.VideoCount),
		ViewCount:   parseCount(it.Statistics.ViewCount),
	}, nil
}

// FetchVideo returns video metadata by video ID.
func (c *Client) FetchVideo(ctx context.Context, videoID string) (*Video, error) {
	if err := c.quota.Spend(ctx, CostVideoList); err != nil {
		return nil, err
	}
	var out struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string    `json:"title"`
				PublishedAt time.Time `json:"publishedAt"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
				LikeCount string `json:"likeCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	params := url.Values{"part": {"snippet,statistics"}, "id": {videoID}}
	if err := c.get(ctx, "/videos", params, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("video not found: %s", videoID)
	}
	it := out.Items[0]
	return &Video{
		ID:          it.ID,
		Title:       it.Snippet.Title,
		PublishedAt: it.Snippet.PublishedAt,
		Views:       parseCount(it.Statistics.ViewCount),
		Likes:       parseCount(it.Statistics.LikeCount),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("youtube api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseCount(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
