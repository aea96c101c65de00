// Package megaphone wraps the Megaphone hosting API for podcast and episode
// metadata import.
package megaphone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://cms.megaphone.fm/api"

// Podcast is the subset of podcast metadata the platform uses.
type Podcast struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	EpisodeCount int    `json:"episode_count"`
}

// Episode is one episode record from the Megaphone feed.
type Episode struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Number      int       `json:"number"`
	PubDate     time.Time `json:"pub_date"`
	DurationSec int       `json:"duration_sec"`
}

// Client calls the Megaphone API with key/secret auth.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client
}

// NewClient creates a Megaphone API client. An empty baseURL uses the
// production endpoint.
func NewClient(apiKey, apiSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
}

// FetchPodcast returns podcast metadata by Megaphone podcast ID.
func (c *Client) FetchPodcast(ctx context.Context, podcastID string) (*Podcast, error) {
	var out struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		EpisodesCount int    `json:"episodesCount"`
	}
	if err := c.get(ctx, "/podcasts/"+podcastID, &out); err != nil {
		return nil, err
	}
	return &Podcast{ID: out.ID, Title: out.Title, EpisodeCount: out.EpisodesCount}, nil
}

// FetchEpisodes returns all episodes for a podcast.
func (c *Client) FetchEpisodes(ctx context.Context, podcastID string) ([]Episode, error) {
	var out []struct {
		ID      string    `json:"id"`
		Title   string    `json:"title"`
		Number  int       `json:"episodeNumber"`
		PubDate time.Time `json:"pubdate"`
		Length  float64   `json:"duration"`
	}
	if err := c.get(ctx, "/podcasts/"+podcastID+"/episodes", &out); err != nil {
		return nil, err
	}
	episodes := make([]Episode, 0, len(out))
	for _, e := range out {
		episodes = append(episodes, Episode{
			ID:          e.ID,
			Title:       e.Title,
			Number:      e.Number,
			PubDate:     e.PubDate,
			DurationSec: int(e.Length),
		})
	}
	return episodes, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token token="+c.apiKey)
	req.Header.Set("X-Megaphone-Api-Secret", c.apiSecret)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("megaphone api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("megaphone resource not found: %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("megaphone api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
