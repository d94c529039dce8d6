// Package booking turns a slot selection into the request the bookings API
// accepts.
package booking

import (
	"errors"
	"fmt"
	"math"
	"time"

	"sportzone-cli/model"
	"sportzone-cli/session"
	"sportzone-cli/slot"
)

var (
	ErrNoSelection  = errors.New("select at least one hour")
	ErrPastStart    = errors.New("selected start time has already passed")
	ErrOverlap      = errors.New("selection overlaps a booked hour")
	ErrOutsideHours = errors.New("selection is outside the venue's opening hours")
	ErrUnknownCourt = errors.New("court does not belong to this venue")
	ErrUnknownState = errors.New("unknown booking status")
	ErrNegativeFee  = errors.New("amount cannot be negative")
)

// Request is everything needed to book one court for a contiguous range of hours.
type Request struct {
	User      model.User
	Venue     model.Venue
	Court     model.Court
	Date      time.Time
	Selection slot.Selection
	Booked    slot.BookedHours
}

// Amount is hours × hourly rate, rounded to paise.
func Amount(hours int, rate float64) float64 {
	return math.Round(float64(hours)*rate*100) / 100
}

// Times returns the local start and end of a selection on date. An end hour
// of 24 becomes midnight of the following day.
func Times(date time.Time, sel slot.Selection) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	start := day.Add(time.Duration(sel.Start) * time.Hour)
	end := day.AddDate(0, 0, sel.End/24).Add(time.Duration(sel.End%24) * time.Hour)
	return start, end
}

// Build validates req against now and returns a PENDING booking.
func Build(req Request, now time.Time) (model.Booking, error) {
	if req.User.Id == 0 {
		return model.Booking{}, session.ErrNotLoggedIn
	}
	if req.Selection.Empty() {
		return model.Booking{}, ErrNoSelection
	}
	if _, ok := req.Venue.Court(req.Court.Id); !ok {
		return model.Booking{}, fmt.Errorf("court %d: %w", req.Court.Id, ErrUnknownCourt)
	}
	window := slot.ParseWindow(req.Venue.OpenTime, req.Venue.CloseTime)
	if req.Selection.Start < window.Open || req.Selection.End > window.Close {
		return model.Booking{}, fmt.Errorf("%s: %w", req.Selection, ErrOutsideHours)
	}
	if req.Booked.AnyIn(req.Selection.Start, req.Selection.End) {
		return model.Booking{}, fmt.Errorf("%s: %w", req.Selection, ErrOverlap)
	}

	start, end := Times(req.Date, req.Selection)
	if !start.After(now) {
		return model.Booking{}, fmt.Errorf("%s: %w", start.Format(model.LocalDateTimeLayout), ErrPastStart)
	}

	return model.Booking{
		UserId:    req.User.Id,
		CourtId:   req.Court.Id,
		VenueId:   req.Venue.Id,
		StartTime: model.LocalTime{Time: start},
		EndTime:   model.LocalTime{Time: end},
		Status:    model.BookingStatusPending,
		Amount:    Amount(req.Selection.Hours(), req.Court.PricePerHour),
	}, nil
}

// Block validates req like Build and returns a free BLOCKED booking, which
// an owner uses to hold hours back from shoppers.
func Block(req Request, now time.Time) (model.Booking, error) {
	b, err := Build(req, now)
	if err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingStatusBlocked
	b.Amount = 0
	return b, nil
}

// Change is an administrator's edit of a saved booking. Overlaps with other
// bookings are checked by the API.
type Change struct {
	Date      time.Time
	Selection slot.Selection
	Status    model.BookingStatus
	Amount    float64
}

// Apply returns b moved to the change's hours with its status and amount.
func (c Change) Apply(b model.Booking, now time.Time) (model.Booking, error) {
	if c.Selection.Hours() <= 0 {
		return model.Booking{}, ErrNoSelection
	}
	if c.Selection.Start < 0 || c.Selection.End > 24 {
		return model.Booking{}, fmt.Errorf("%s: %w", c.Selection, ErrOutsideHours)
	}
	status, ok := model.ParseBookingStatus(string(c.Status))
	if !ok {
		return model.Booking{}, fmt.Errorf("%q: %w", c.Status, ErrUnknownState)
	}
	if c.Amount < 0 {
		return model.Booking{}, ErrNegativeFee
	}
	start, end := Times(c.Date, c.Selection)
	if !start.After(now) {
		return model.Booking{}, fmt.Errorf("%s: %w", start.Format(model.LocalDateTimeLayout), ErrPastStart)
	}
	b.StartTime = model.LocalTime{Time: start}
	b.EndTime = model.LocalTime{Time: end}
	b.Status = status
	b.Amount = math.Round(c.Amount*100) / 100
	return b, nil
}

// SelectionOf recovers the hour range of a saved booking. An end at
// midnight of the next day is hour 24.
func SelectionOf(b model.Booking) slot.Selection {
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return slot.Selection{}
	}
	end := b.EndTime.Hour()
	if end == 0 && b.EndTime.After(b.StartTime.Time) {
		end = 24
	}
	return slot.Range(b.StartTime.Hour(), end)
}
