// Package slot implements the hourly slot picker used when booking a court:
// a small state machine that turns clicks on hour cells into a single
// contiguous range that never covers an already booked hour.
package slot

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultOpen  = 0
	DefaultClose = 24
)

// Window is the daily [Open, Close) hour range a venue accepts bookings in.
type Window struct {
	Open  int
	Close int
}

// FullDay is the window used when a venue does not publish opening hours.
var FullDay = Window{Open: DefaultOpen, Close: DefaultClose}

// ParseWindow builds a window from the venue's "HH:MM" open and close times.
// Missing or unreadable values fall back to the full-day bound on that side.
func ParseWindow(openTime string, closeTime string) Window {
	w := FullDay
	if h, ok := ParseHour(openTime); ok && h <= 23 {
		w.Open = h
	}
	if h, ok := ParseHour(closeTime); ok && h >= 1 {
		w.Close = h
	}
	if w.Close <= w.Open {
		return FullDay
	}
	return w
}

// Contains reports whether hour h is a bookable cell of the window.
func (w Window) Contains(h int) bool {
	return h >= w.Open && h < w.Close
}

// Hours lists every hour of the window in ascending order.
func (w Window) Hours() []int {
	if w.Close <= w.Open {
		return nil
	}
	hours := make([]int, 0, w.Close-w.Open)
	for h := w.Open; h < w.Close; h++ {
		hours = append(hours, h)
	}
	return hours
}

func (w Window) normalized() Window {
	if w.Open < 0 || w.Open > 23 || w.Close < 1 || w.Close > 24 || w.Close <= w.Open {
		return FullDay
	}
	return w
}

// NewWindow validates opening hours entered by hand. Unlike ParseWindow it
// rejects unreadable or inverted values instead of widening to the full day.
func NewWindow(openTime string, closeTime string) (Window, error) {
	opens, ok := ParseHour(openTime)
	if !ok || opens > 23 {
		return Window{}, fmt.Errorf("invalid opening time %q", openTime)
	}
	closes, ok := ParseHour(closeTime)
	if !ok || closes < 1 {
		return Window{}, fmt.Errorf("invalid closing time %q", closeTime)
	}
	if closes <= opens {
		return Window{}, fmt.Errorf("closing time %s must be after opening time %s", Label(closes), Label(opens))
	}
	return Window{Open: opens, Close: closes}, nil
}

// ParseHour reads an hour boundary written as "18" or "18:00".
func ParseHour(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	head, _, _ := strings.Cut(value, ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	return h, true
}

// Label renders an hour boundary as "HH:00".
func Label(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
