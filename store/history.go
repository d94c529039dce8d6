package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"sportzone-cli/config"
	"sportzone-cli/model"
)

const maxRecentVenues = 8

type RecentVenue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type venueHistory struct {
	Venues []RecentVenue `json:"venues"`
}

func LoadRecentVenues() ([]RecentVenue, error) {
	path, err := config.ConfigPath("venues.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history venueHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid venue history format")
	}
	return history.Venues, nil
}

// RememberVenue moves venue to the front of the recent list.
func RememberVenue(venue model.Venue) error {
	history, _ := LoadRecentVenues()
	next := []RecentVenue{{ID: venue.Id, Name: venue.Name, Location: venue.Location}}

	for _, existing := range history {
		if existing.ID == venue.Id && existing.ID != 0 {
			continue
		}
		if existing.Name != "" && strings.EqualFold(existing.Name, venue.Name) && strings.EqualFold(existing.Location, venue.Location) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentVenues {
			break
		}
	}

	return saveRecentVenues(next)
}

// IsRecentVenue reports whether venue appears in recents.
func IsRecentVenue(venue model.Venue, recents []RecentVenue) bool {
	for _, recent := range recents {
		if recent.ID != 0 && recent.ID == venue.Id {
			return true
		}
	}
	return false
}

func saveRecentVenues(venues []RecentVenue) error {
	path, err := config.ConfigPath("venues.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(venueHistory{Venues: venues}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
