package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"sportzone-cli/model"
)

const geoErrorSnippetN = 120

// Place is where the shopper appears to be according to IP geolocation.
type Place struct {
	City    string
	Region  string
	Country string
	Source  string
}

// SearchTerm is the value sent as the venue search location.
func (p Place) SearchTerm() string {
	if city := strings.TrimSpace(p.City); city != "" {
		return city
	}
	return strings.TrimSpace(p.Region)
}

func (p Place) String() string {
	parts := []string{}
	for _, s := range []string{p.City, p.Region, p.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type geoProvider struct {
	name     string
	endpoint string
	parse    func([]byte) (Place, error)
}

var geoProviders = []geoProvider{
	{name: "ipapi", endpoint: "https://ipapi.co/json/", parse: parseIPAPI},
	{name: "ipwhois", endpoint: "https://ipwho.is/", parse: parseIPWhoIs},
	{name: "ipinfo", endpoint: "https://ipinfo.io/json", parse: parseIPInfo},
}

// Locate guesses the shopper's city from their public IP, trying each
// provider in turn.
func (c *Client) Locate(ctx context.Context) (Place, error) {
	return c.locateWith(ctx, geoProviders)
}

// NearbyVenues searches venues in the city Locate finds.
func (c *Client) NearbyVenues(ctx context.Context) (Place, []model.Venue, error) {
	place, err := c.Locate(ctx)
	if err != nil {
		return Place{}, nil, err
	}
	venues, err := c.SearchVenues(ctx, place.SearchTerm())
	if err != nil {
		return place, nil, err
	}
	return place, venues, nil
}

func (c *Client) locateWith(ctx context.Context, providers []geoProvider) (Place, error) {
	if len(providers) == 0 {
		return Place{}, errors.New("no location providers configured")
	}

	var failures []string
	for _, provider := range providers {
		place, err := c.locateFrom(ctx, provider)
		if err == nil {
			c.logger.Debug("location resolved", zap.String("source", place.Source), zap.String("city", place.City))
			return place, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Place{}, err
		}
		c.logger.Debug("location provider failed", zap.String("provider", provider.name), zap.Error(err))
		failures = append(failures, fmt.Sprintf("%s: %s", provider.name, err.Error()))
	}
	return Place{}, fmt.Errorf("could not determine your city (%s)", strings.Join(failures, " | "))
}

func (c *Client) locateFrom(ctx context.Context, provider geoProvider) (Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.endpoint, nil)
	if err != nil {
		return Place{}, fmt.Errorf("create location request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("location request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		if msg := compactSnippet(string(snippet)); msg != "" {
			return Place{}, fmt.Errorf("%s: %s", res.Status, msg)
		}
		return Place{}, errors.New(res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return Place{}, fmt.Errorf("read location response: %w", err)
	}
	place, err := provider.parse(body)
	if err != nil {
		return Place{}, err
	}
	if place.SearchTerm() == "" {
		return Place{}, errors.New("provider returned no city")
	}
	place.Source = provider.name
	return place, nil
}

func parseIPAPI(body []byte) (Place, error) {
	var payload struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country_name"`
		Error   bool   `json:"error"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Place{}, fmt.Errorf("decode location response: %w", err)
	}
	if payload.Error {
		if payload.Reason == "" {
			payload.Reason = "unknown error"
		}
		return Place{}, errors.New(payload.Reason)
	}
	return Place{City: payload.City, Region: payload.Region, Country: payload.Country}, nil
}

func parseIPWhoIs(body []byte) (Place, error) {
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Place{}, fmt.Errorf("decode location response: %w", err)
	}
	if !payload.Success {
		if strings.TrimSpace(payload.Message) == "" {
			payload.Message = "provider returned unsuccessful response"
		}
		return Place{}, errors.New(payload.Message)
	}
	return Place{City: payload.City, Region: payload.Region, Country: payload.Country}, nil
}

func parseIPInfo(body []byte) (Place, error) {
	var payload struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Bogon   bool   `json:"bogon"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Place{}, fmt.Errorf("decode location response: %w", err)
	}
	if payload.Bogon {
		return Place{}, errors.New("bogon IP")
	}
	if payload.Error.Message != "" {
		return Place{}, errors.New(payload.Error.Message)
	}
	return Place{City: payload.City, Region: payload.Region, Country: payload.Country}, nil
}

// compactSnippet flattens a provider error body for messages; HTML pages
// are dropped entirely.
func compactSnippet(raw string) string {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	if text == "" || strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > geoErrorSnippetN {
		text = text[:geoErrorSnippetN]
	}
	return text
}
