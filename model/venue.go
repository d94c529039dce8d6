package model

import "strings"

type VenueStatus string

const (
	VenueStatusPending  VenueStatus = "PENDING"
	VenueStatusApproved VenueStatus = "APPROVED"
	VenueStatusRejected VenueStatus = "REJECTED"
)

type Venue struct {
	Id          int64        `json:"id"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	Description string       `json:"description,omitempty"`
	ImageUrl    string       `json:"imageUrl,omitempty"`
	OpenTime    string       `json:"openTime,omitempty"`
	CloseTime   string       `json:"closeTime,omitempty"`
	OwnerId     int64        `json:"ownerId,omitempty"`
	Status      VenueStatus  `json:"status,omitempty"`
	Images      []VenueImage `json:"images,omitempty"`
	Courts      []Court      `json:"courts,omitempty"`
}

// VenueUpdate is a partial venue change. Empty fields are left untouched and
// any courts listed are added to the venue.
type VenueUpdate struct {
	Name        string  `json:"name,omitempty"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	OpenTime    string  `json:"openTime,omitempty"`
	CloseTime   string  `json:"closeTime,omitempty"`
	Courts      []Court `json:"courts,omitempty"`
}

type VenueImage struct {
	Id       int64  `json:"id"`
	ImageUrl string `json:"imageUrl"`
}

type Court struct {
	Id           int64   `json:"id,omitempty"`
	Name         string  `json:"name"`
	SportType    string  `json:"sportType"`
	PricePerHour float64 `json:"pricePerHour"`
}

// Sports returns the distinct sport types offered by the venue, in the order
// their first court appears.
func (v Venue) Sports() []string {
	seen := map[string]bool{}
	var sports []string
	for _, court := range v.Courts {
		sport := strings.TrimSpace(court.SportType)
		if sport == "" || seen[strings.ToLower(sport)] {
			continue
		}
		seen[strings.ToLower(sport)] = true
		sports = append(sports, sport)
	}
	return sports
}

// CourtsFor returns the courts of the given sport. An empty sport returns all courts.
func (v Venue) CourtsFor(sport string) []Court {
	if strings.TrimSpace(sport) == "" {
		return v.Courts
	}
	var courts []Court
	for _, court := range v.Courts {
		if strings.EqualFold(strings.TrimSpace(court.SportType), strings.TrimSpace(sport)) {
			courts = append(courts, court)
		}
	}
	return courts
}

func (v Venue) Court(id int64) (Court, bool) {
	for _, court := range v.Courts {
		if court.Id == id {
			return court, true
		}
	}
	return Court{}, false
}
