package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"sportzone-cli/model"
	"sportzone-cli/store"
)

// ListVenues returns the approved venues. A fresh cached copy is served
// without a request; a stale one is used only when the API is unreachable.
func (c *Client) ListVenues(ctx context.Context) ([]model.Venue, error) {
	return c.cachedVenues(ctx, store.KeyVenues, c.endpoint("/api/venues", nil))
}

// SearchVenues filters venues by location on the server side.
func (c *Client) SearchVenues(ctx context.Context, location string) ([]model.Venue, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return c.ListVenues(ctx)
	}
	query := url.Values{"location": {location}}
	return c.cachedVenues(ctx, store.KeyVenueSearch(strings.ToLower(location)), c.endpoint("/api/venues/search", query))
}

func (c *Client) cachedVenues(ctx context.Context, key string, endpoint string) ([]model.Venue, error) {
	var cached []model.Venue
	found, fresh := false, false
	if c.cache != nil {
		var err error
		found, fresh, err = c.cache.Get(ctx, key, &cached)
		if err != nil {
			c.logger.Warn("venue cache read failed", zap.String("key", key), zap.Error(err))
			found = false
		}
		if found && fresh {
			return cached, nil
		}
	}

	var venues []model.Venue
	if err := c.getJSON(ctx, endpoint, &venues); err != nil {
		if found {
			c.logger.Warn("serving stale venues", zap.String("key", key), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, venues, store.VenueCacheTTL); err != nil {
			c.logger.Warn("venue cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return venues, nil
}

// InvalidateVenues drops the cached venue list and every cached location
// search so the next lookup hits the API.
func (c *Client) InvalidateVenues(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, store.KeyVenues); err != nil {
		c.logger.Warn("venue cache delete failed", zap.Error(err))
	}
	if err := c.cache.DeletePrefix(ctx, store.KeyVenueSearchPrefix); err != nil {
		c.logger.Warn("venue search cache delete failed", zap.Error(err))
	}
}

func (c *Client) GetVenue(ctx context.Context, id int64) (model.Venue, error) {
	if id == 0 {
		return model.Venue{}, errors.New("venue id is required")
	}
	var venue model.Venue
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("/api/venues/%d", id), nil), &venue); err != nil {
		return model.Venue{}, err
	}
	if venue.Id == 0 {
		return model.Venue{}, errors.New("venue not found")
	}
	return venue, nil
}

func (c *Client) ListOwnerVenues(ctx context.Context, ownerID int64) ([]model.Venue, error) {
	if ownerID == 0 {
		return nil, errors.New("owner id is required")
	}
	var venues []model.Venue
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("/api/venues/owner/%d", ownerID), nil), &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// ListAllVenues includes venues still waiting for approval.
func (c *Client) ListAllVenues(ctx context.Context) ([]model.Venue, error) {
	var venues []model.Venue
	if err := c.getJSON(ctx, c.endpoint("/api/venues/admin/all", nil), &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (c *Client) CreateVenue(ctx context.Context, venue model.Venue) (model.Venue, error) {
	if strings.TrimSpace(venue.Name) == "" || strings.TrimSpace(venue.Location) == "" {
		return model.Venue{}, errors.New("venue name and location are required")
	}
	var created model.Venue
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/venues", nil), venue, &created); err != nil {
		return model.Venue{}, err
	}
	c.InvalidateVenues(ctx)
	return created, nil
}

// UpdateVenue applies a partial change. The API appends the update's courts
// to the venue rather than replacing them.
func (c *Client) UpdateVenue(ctx context.Context, id int64, update model.VenueUpdate) (model.Venue, error) {
	if id == 0 {
		return model.Venue{}, errors.New("venue id is required")
	}
	var updated model.Venue
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/venues/%d", id), nil), update, &updated); err != nil {
		return model.Venue{}, err
	}
	c.InvalidateVenues(ctx)
	return updated, nil
}

func (c *Client) SetVenueHours(ctx context.Context, id int64, openTime string, closeTime string) (model.Venue, error) {
	return c.UpdateVenue(ctx, id, model.VenueUpdate{OpenTime: openTime, CloseTime: closeTime})
}

func (c *Client) AddCourt(ctx context.Context, venueID int64, court model.Court) (model.Venue, error) {
	court.Name = strings.TrimSpace(court.Name)
	court.SportType = strings.TrimSpace(court.SportType)
	if court.Name == "" || court.SportType == "" {
		return model.Venue{}, errors.New("court name and sport are required")
	}
	if court.PricePerHour <= 0 {
		return model.Venue{}, errors.New("price per hour must be positive")
	}
	court.Id = 0
	return c.UpdateVenue(ctx, venueID, model.VenueUpdate{Courts: []model.Court{court}})
}

func (c *Client) DeleteVenue(ctx context.Context, id int64) error {
	if id == 0 {
		return errors.New("venue id is required")
	}
	if err := c.doJSON(ctx, http.MethodDelete, c.endpoint(fmt.Sprintf("/api/venues/%d", id), nil), nil, nil); err != nil {
		return err
	}
	c.InvalidateVenues(ctx)
	return nil
}

func (c *Client) ApproveVenue(ctx context.Context, id int64) (model.Venue, error) {
	if id == 0 {
		return model.Venue{}, errors.New("venue id is required")
	}
	var venue model.Venue
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/venues/%d/approve", id), nil), nil, &venue); err != nil {
		return model.Venue{}, err
	}
	c.InvalidateVenues(ctx)
	return venue, nil
}

func (c *Client) DeleteCourt(ctx context.Context, courtID int64) error {
	if courtID == 0 {
		return errors.New("court id is required")
	}
	if err := c.doJSON(ctx, http.MethodDelete, c.endpoint(fmt.Sprintf("/api/venues/courts/%d", courtID), nil), nil, nil); err != nil {
		return err
	}
	c.InvalidateVenues(ctx)
	return nil
}
