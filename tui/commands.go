package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sportzone-cli/checkout"
	"sportzone-cli/model"
	"sportzone-cli/service"
	"sportzone-cli/slot"
	"sportzone-cli/store"
)

// venuesMsg fills the venue list. near is set when the list was narrowed
// to the shopper's detected city.
type venuesMsg struct {
	venues  []model.Venue
	recents []store.RecentVenue
	near    string
	err     error
}

type venueMsg struct {
	venue model.Venue
	err   error
}

// bookedHoursMsg carries the hours fetched for ctx. It is applied only if ctx
// still matches the court and date on screen.
type bookedHoursMsg struct {
	ctx   slot.Context
	hours slot.BookedHours
	err   error
}

type bookingPlacedMsg struct {
	booking model.Booking
	pending *checkout.Pending
	err     error
}

type slotBlockedMsg struct {
	booking model.Booking
	err     error
}

type paymentMsg struct {
	payment model.Payment
	err     error
}

type userBookingsMsg struct {
	page model.Page[model.Booking]
	err  error
}

type ownerVenuesMsg struct {
	venues []model.Venue
	err    error
}

type venueBookingsMsg struct {
	bookings []model.Booking
	err      error
}

type adminMsg struct {
	users    []model.User
	venues   []model.Venue
	bookings []model.Booking
	err      error
}

type loginMsg struct {
	user model.User
	err  error
}

func (m appModel) fetchVenuesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		venues, err := m.client.ListVenues(ctx)
		recents, _ := store.LoadRecentVenues()
		return venuesMsg{venues: venues, recents: recents, err: err}
	}
}

func (m appModel) refreshVenuesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		m.client.InvalidateVenues(ctx)
		venues, err := m.client.ListVenues(ctx)
		recents, _ := store.LoadRecentVenues()
		return venuesMsg{venues: venues, recents: recents, err: err}
	}
}

func (m appModel) nearbyVenuesCmd() tea.Cmd {
	return func() tea.Msg {
		place, venues, err := m.client.NearbyVenues(context.Background())
		if err != nil {
			return venuesMsg{err: err}
		}
		recents, _ := store.LoadRecentVenues()
		return venuesMsg{venues: venues, recents: recents, near: place.String()}
	}
}

func (m appModel) fetchVenueCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		venue, err := m.client.GetVenue(ctx, id)
		if err != nil {
			return venueMsg{err: err}
		}
		if err := store.RememberVenue(venue); err != nil {
			m.logger.Debug("remember venue", zap.Error(err))
		}
		return venueMsg{venue: venue}
	}
}

func (m appModel) fetchBookedHoursCmd(sc slot.Context, date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		bookings, err := m.client.ListCourtBookings(ctx, sc.CourtID)
		if err != nil {
			return bookedHoursMsg{ctx: sc, err: err}
		}
		return bookedHoursMsg{ctx: sc, hours: slot.BookedHoursFor(bookings, sc.CourtID, date)}
	}
}

// placeBookingCmd saves the booking as PENDING and opens its payment order.
func (m appModel) placeBookingCmd(draft model.Booking) tea.Cmd {
	client := m.client
	flow := checkout.NewFlow(client, m.cfg, m.logger)
	return func() tea.Msg {
		ctx := context.Background()
		created, err := client.CreateBooking(ctx, draft)
		if err != nil {
			if service.IsConflict(err) {
				return bookingPlacedMsg{err: fmt.Errorf("that slot was just taken: %w", err)}
			}
			return bookingPlacedMsg{err: err}
		}
		if created.Amount == 0 {
			created.Amount = draft.Amount
		}
		pending, err := flow.Start(ctx, created)
		if err != nil {
			return bookingPlacedMsg{booking: created, err: err}
		}
		return bookingPlacedMsg{booking: created, pending: pending}
	}
}

func waitPaymentCmd(ctx context.Context, pending *checkout.Pending) tea.Cmd {
	return func() tea.Msg {
		payment, err := pending.Wait(ctx)
		return paymentMsg{payment: payment, err: err}
	}
}

func openLinkCmd(pending *checkout.Pending) tea.Cmd {
	return func() tea.Msg {
		if err := pending.Open(); err != nil {
			return actionMsg{notice: "Could not open a browser; use the link below."}
		}
		return nil
	}
}

func (m appModel) fetchUserBookingsCmd(page int) tea.Cmd {
	userID := m.session.UserID()
	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.client.ListUserBookings(ctx, userID, page, service.BookingsPageSize)
		return userBookingsMsg{page: result, err: err}
	}
}

func (m appModel) fetchOwnerVenuesCmd() tea.Cmd {
	userID := m.session.UserID()
	return func() tea.Msg {
		ctx := context.Background()
		venues, err := m.client.ListOwnerVenues(ctx, userID)
		return ownerVenuesMsg{venues: venues, err: err}
	}
}

func (m appModel) fetchVenueBookingsCmd(venueID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		bookings, err := m.client.ListVenueBookings(ctx, venueID)
		return venueBookingsMsg{bookings: bookings, err: err}
	}
}

func (m appModel) fetchAdminCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		users, err := m.client.ListUsers(ctx)
		if err != nil {
			return adminMsg{err: err}
		}
		venues, err := m.client.ListAllVenues(ctx)
		if err != nil {
			return adminMsg{err: err}
		}
		bookings, err := m.client.ListBookings(ctx)
		if err != nil {
			return adminMsg{err: err}
		}
		return adminMsg{users: users, venues: venues, bookings: bookings}
	}
}

func (m appModel) cancelBookingCmd(id int64, next tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := m.client.CancelBooking(ctx, id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("Booking #%d cancelled.", id), next: next}
	}
}

func (m appModel) loginCmd(creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		user, err := m.client.Login(ctx, creds)
		if err != nil {
			if service.IsUnauthorized(err) || service.IsNotFound(err) {
				return loginMsg{err: errors.New("invalid credentials")}
			}
			return loginMsg{err: err}
		}
		return loginMsg{user: user}
	}
}
