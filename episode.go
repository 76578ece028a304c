package castwave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Episode is a single published or draft episode of a podcast.
type Episode struct {
	ID          string `json:"id"`
	PodcastID   string `json:"podcast_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AudioURL    string `json:"audio_url"`
	Number      int    `json:"number"`
	// Duration is the episode length in seconds.
	Duration    int    `json:"duration"`
	Status      string `json:"status"`
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"created_at"`
}

// Identifier returns the episode's API identifier. Episodes passed as
// operation parameters encode as this identifier.
func (e *Episode) Identifier() string { return e.ID }

// EpisodeService exposes the episode operations. The zero value resolves
// its client from the context (or the process default) per call.
type EpisodeService struct {
	client *Client
}

func (s EpisodeService) resolve(ctx context.Context) (*Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	return activeClient(ctx)
}

// Get retrieves one episode by id.
func (s EpisodeService) Get(ctx context.Context, id string) (*Episode, error) {
	c, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Call(ctx, http.MethodGet, "/v1/episodes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeEpisode(resp)
}

// List retrieves episodes matching the given filter parameters, such as
// "podcast_id", "status" or "limit".
func (s EpisodeService) List(ctx context.Context, params map[string]any) ([]*Episode, error) {
	c, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Call(ctx, http.MethodGet, "/v1/episodes", &CallParams{Params: params})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []*Episode `json:"data"`
	}
	if err := json.Unmarshal(resp.RawBody, &envelope); err != nil {
		return nil, fmt.Errorf("castwave: decode episode list: %w", err)
	}
	return envelope.Data, nil
}

// Create creates an episode from the given parameters.
func (s EpisodeService) Create(ctx context.Context, params map[string]any) (*Episode, error) {
	c, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Call(ctx, http.MethodPost, "/v1/episodes", &CallParams{Params: params})
	if err != nil {
		return nil, err
	}
	return decodeEpisode(resp)
}

// Update applies the given parameters to an existing episode.
func (s EpisodeService) Update(ctx context.Context, id string, params map[string]any) (*Episode, error) {
	c, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Call(ctx, http.MethodPost, "/v1/episodes/"+url.PathEscape(id), &CallParams{Params: params})
	if err != nil {
		return nil, err
	}
	return decodeEpisode(resp)
}

// Delete removes an episode.
func (s EpisodeService) Delete(ctx context.Context, id string) error {
	c, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, http.MethodDelete, "/v1/episodes/"+url.PathEscape(id), nil)
	return err
}

func decodeEpisode(resp *Response) (*Episode, error) {
	var episode Episode
	if err := json.Unmarshal(resp.RawBody, &episode); err != nil {
		return nil, fmt.Errorf("castwave: decode episode: %w", err)
	}
	return &episode, nil
}
