// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package places searches businesses on the Google Places API to build
// review links.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/metrics"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/secrets"
)

// MinQueryLength is the shortest trimmed query sent upstream.
const MinQueryLength = 3

const (
	searchFieldMask  = "places.id,places.displayName"
	detailsFieldMask = "id,displayName"
	reviewURLPrefix  = "https://search.google.com/local/writereview?placeid="
)

var (
	ErrQueryTooShort = errors.New("query too short")
	ErrMissingAPIKey = errors.New("places API key not configured")
	ErrUpstream      = errors.New("places API request failed")
)

// Place is a search hit.
type Place struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReviewURL is the Google "write a review" link for the place.
func (p Place) ReviewURL() string {
	return ReviewURL(p.ID)
}

func ReviewURL(placeID string) string {
	return reviewURLPrefix + url.QueryEscape(placeID)
}

// KeySource yields the API key.
type KeySource interface {
	Get(ctx context.Context, name string) (string, error)
}

type Client struct {
	http       *http.Client
	keys       KeySource
	baseURL    string
	secretName string
}

// NewClient builds a client against baseURL reading the key named
// secretName from keys.
func NewClient(keys KeySource, baseURL, secretName string) *Client {
	return &Client{
		http:       &http.Client{Timeout: 10 * time.Second},
		keys:       keys,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		secretName: secretName,
	}
}

type wirePlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
}

func (w wirePlace) place() Place {
	return Place{ID: w.ID, Name: w.DisplayName.Text}
}

// Search runs a text search. Queries shorter than MinQueryLength return
// ErrQueryTooShort without touching the key or the network.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		metrics.PlaceSearchesTotal.WithLabelValues("skipped").Inc()
		return nil, ErrQueryTooShort
	}

	body, err := json.Marshal(map[string]string{"textQuery": query})
	if err != nil {
		return nil, err
	}

	var out struct {
		Places []wirePlace `json:"places"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/places:searchText", searchFieldMask, body, &out); err != nil {
		metrics.PlaceSearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PlaceSearchesTotal.WithLabelValues("ok").Inc()

	result := make([]Place, 0, len(out.Places))
	for _, p := range out.Places {
		result = append(result, p.place())
	}
	return result, nil
}

// Details fetches a single place by ID.
func (c *Client) Details(ctx context.Context, id string) (*Place, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty place id", ErrUpstream)
	}
	var out wirePlace
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/places/"+url.PathEscape(id), detailsFieldMask, nil, &out); err != nil {
		return nil, err
	}
	p := out.place()
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, mask string, body []byte, out any) error {
	key, err := c.keys.Get(ctx, c.secretName)
	switch {
	case errors.Is(err, secrets.ErrNotFound), err == nil && key == "":
		slog.Warn("places API key not configured", "secret", c.secretName)
		return ErrMissingAPIKey
	case err != nil:
		return fmt.Errorf("load places API key: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Goog-Api-Key", key)
	req.Header.Set("X-Goog-FieldMask", mask)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("places API error", "status", resp.StatusCode, "body", string(snippet))
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}
	return nil
}
