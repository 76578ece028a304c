package castwave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Podcast is a show hosted on Castwave.
type Podcast struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Language    string   `json:"language"`
	FeedURL     string   `json:"feed_url"`
	Categories  []string `json:"categories"`
}

// Identifier returns the podcast's API identifier.
func (p *Podcast) Identifier() string { return p.ID }

// PodcastService exposes the podcast operations. The zero value resolves
// its client from the context (or the process default) per call.
type PodcastService struct {
	client *Client
}

func (s PodcastService) resolve(ctx context.Context) (*Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	return activeClient(ctx)
}

// Get retrieves one podcast by id.
func (s PodcastService) Get(ctx context.Context, id string) (*Podcast, error) {
	c, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Call(ctx, http.MethodGet, "/v1/podcasts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var podcast Podcast
	if err := json.Unmarshal(resp.RawBody, &podcast); err != nil {
		return nil, fmt.Errorf("castwave: decode podcast: %w", err)
	}
	return &podcast, nil
}

// List retrieves podcasts matching the given filter parameters.
func (s PodcastService) List(ctx context.Context, params map[string]any) ([]*Podcast, error) {
	c, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Call(ctx, http.MethodGet, "/v1/podcasts", &CallParams{Params: params})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []*Podcast `json:"data"`
	}
	if err := json.Unmarshal(resp.RawBody, &envelope); err != nil {
		return nil, fmt.Errorf("castwave: decode podcast list: %w", err)
	}
	return envelope.Data, nil
}
