package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sportzone-cli/model"
)

// BookingsPageSize is how many bookings the user history shows per page.
const BookingsPageSize = 10

func (c *Client) CreateBooking(ctx context.Context, booking model.Booking) (model.Booking, error) {
	if booking.CourtId == 0 || booking.UserId == 0 {
		return model.Booking{}, errors.New("court id and user id are required")
	}
	var created model.Booking
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/api/bookings", nil), booking, &created); err != nil {
		return model.Booking{}, err
	}
	return created, nil
}

// ListUserBookings returns one zero-based page of the user's booking history.
func (c *Client) ListUserBookings(ctx context.Context, userID int64, page int, size int) (model.Page[model.Booking], error) {
	if userID == 0 {
		return model.Page[model.Booking]{}, errors.New("user id is required")
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = BookingsPageSize
	}
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var result model.Page[model.Booking]
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("/api/bookings/user/%d", userID), query), &result); err != nil {
		return model.Page[model.Booking]{}, err
	}
	return result, nil
}

// ListCourtBookings is never cached: the slot grid needs the current state.
func (c *Client) ListCourtBookings(ctx context.Context, courtID int64) ([]model.Booking, error) {
	if courtID == 0 {
		return nil, errors.New("court id is required")
	}
	var bookings []model.Booking
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("/api/bookings/court/%d", courtID), nil), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) ListVenueBookings(ctx context.Context, venueID int64) ([]model.Booking, error) {
	if venueID == 0 {
		return nil, errors.New("venue id is required")
	}
	var bookings []model.Booking
	if err := c.getJSON(ctx, c.endpoint(fmt.Sprintf("/api/bookings/venue/%d", venueID), nil), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.getJSON(ctx, c.endpoint("/api/bookings", nil), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int64) (model.Booking, error) {
	if id == 0 {
		return model.Booking{}, errors.New("booking id is required")
	}
	var booking model.Booking
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/bookings/%d/cancel", id), nil), nil, &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

func (c *Client) UpdateBooking(ctx context.Context, booking model.Booking) (model.Booking, error) {
	if booking.Id == 0 {
		return model.Booking{}, errors.New("booking id is required")
	}
	var updated model.Booking
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/bookings/%d", booking.Id), nil), booking, &updated); err != nil {
		return model.Booking{}, err
	}
	return updated, nil
}

// CancelVenueBookings cancels every booking of a venue, as owners do before
// removing it.
func (c *Client) CancelVenueBookings(ctx context.Context, venueID int64) error {
	if venueID == 0 {
		return errors.New("venue id is required")
	}
	return c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/bookings/venue/%d/cancel", venueID), nil), nil, nil)
}

func (c *Client) CancelCourtBookings(ctx context.Context, courtID int64) error {
	if courtID == 0 {
		return errors.New("court id is required")
	}
	return c.doJSON(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/api/bookings/court/%d/cancel", courtID), nil), nil, nil)
}
