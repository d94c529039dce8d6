package model

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusBlocked   BookingStatus = "BLOCKED"
)

// BookingStatuses lists every status in the order the admin editor cycles
// through them.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
	BookingStatusBlocked,
}

// ParseBookingStatus matches s against the known statuses, ignoring case.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	for _, status := range BookingStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, true
		}
	}
	return "", false
}

// Active reports whether a booking with this status still occupies its hours.
func (s BookingStatus) Active() bool {
	return !strings.EqualFold(string(s), string(BookingStatusCancelled))
}

// LocalDateTimeLayout is the ISO local date-time format the booking API exchanges.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalTime decodes the API's zone-less timestamps.
type LocalTime struct {
	time.Time
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalDateTimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{LocalDateTimeLayout, "2006-01-02T15:04", "2006-01-02T15:04:05.999999999", time.RFC3339Nano} {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid local date-time %q", raw)
}

type Booking struct {
	Id        int64         `json:"id,omitempty"`
	UserId    int64         `json:"userId"`
	CourtId   int64         `json:"courtId"`
	VenueId   int64         `json:"venueId"`
	StartTime LocalTime     `json:"startTime"`
	EndTime   LocalTime     `json:"endTime"`
	Status    BookingStatus `json:"status,omitempty"`
	Amount    float64       `json:"amount"`
}

// Page mirrors the paged envelope the bookings API returns.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// Cancellable reports whether the shopper may still cancel: the booking has
// not started and is neither cancelled nor completed.
func (b Booking) Cancellable(now time.Time) bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusCompleted:
		return false
	}
	return b.StartTime.After(now)
}
