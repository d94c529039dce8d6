package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sportzone-cli/model"
	"sportzone-cli/service"
)

func (m *appModel) openOwnerDashboard() tea.Cmd {
	if !m.session.LoggedIn() {
		return m.openLogin(stateSelectVenue)
	}
	if err := m.session.Require(m.now(), model.RoleVenueOwner, model.RoleAdmin); err != nil {
		return errCmd(err)
	}
	m.state = stateLoadingOwner
	return tea.Batch(m.fetchOwnerVenuesCmd(), m.spinner.Tick)
}

func (m appModel) handleOwnerKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if m.state == stateOwnerCourts {
		return m.handleOwnerCourtKey(msg)
	}

	item, ok := m.ownerList.SelectedItem().(ownerVenueItem)
	switch msg.String() {
	case "n":
		cmd := m.openNewVenueForm()
		return m, cmd, true
	case "h":
		if !ok {
			return m, nil, true
		}
		cmd := m.openHoursForm(item.venue)
		return m, cmd, true
	case "enter":
		if !ok {
			return m, nil, true
		}
		m.ownerVenue = item.venue
		m.state = stateLoadingOwner
		return m, tea.Batch(m.fetchVenueBookingsCmd(item.venue.Id), m.spinner.Tick), true
	case "c":
		if !ok {
			return m, nil, true
		}
		m.ownerVenue = item.venue
		m.ownerCourts.Title = "Courts • " + item.venue.Name
		m.ownerCourts.SetItems(buildCourtItems(item.venue.Courts))
		m.state = stateOwnerCourts
		return m, nil, true
	case "x":
		if !ok {
			return m, nil, true
		}
		m.askConfirm(
			fmt.Sprintf("Delete venue %s? All of its bookings will be cancelled.", item.venue.Name),
			m.deleteVenueCmd(item.venue),
		)
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) handleOwnerCourtKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if msg.String() == "n" {
		cmd := m.openAddCourtForm(m.ownerVenue)
		return m, cmd, true
	}
	item, ok := m.ownerCourts.SelectedItem().(courtItem)
	switch msg.String() {
	case "b":
		if !ok {
			return m, nil, true
		}
		m.startBlocking(item.court)
		return m, nil, true
	case "x":
		if !ok {
			return m, nil, true
		}
		m.askConfirm(
			fmt.Sprintf("Delete court %s? Its bookings will be cancelled.", item.court.Name),
			m.deleteCourtCmd(item.court),
		)
		return m, nil, true
	}
	return m, nil, false
}

// startBlocking reuses the shopper's date picker and slot grid for the
// owner's venue. The selection is saved as a free BLOCKED booking.
func (m *appModel) startBlocking(court model.Court) {
	m.blocking = true
	m.venue = m.ownerVenue
	m.sports = nil
	m.court = court
	m.notice = ""
	m.openDatePicker()
}

// replaceOwnerVenue swaps in a venue the API just returned.
func (m *appModel) replaceOwnerVenue(venue model.Venue) {
	for i := range m.ownerVenues {
		if m.ownerVenues[i].Id == venue.Id {
			m.ownerVenues[i] = venue
		}
	}
	m.ownerList.SetItems(buildOwnerVenueItems(m.ownerVenues))
	if m.ownerVenue.Id == venue.Id {
		m.ownerVenue = venue
		m.ownerCourts.SetItems(buildCourtItems(venue.Courts))
	}
}

func (m appModel) blockSlotCmd(draft model.Booking) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if _, err := client.CreateBooking(context.Background(), draft); err != nil {
			if service.IsConflict(err) {
				err = fmt.Errorf("those hours were just booked: %w", err)
			}
			return slotBlockedMsg{booking: draft, err: err}
		}
		return slotBlockedMsg{booking: draft}
	}
}

func (m appModel) deleteVenueCmd(venue model.Venue) tea.Cmd {
	reload := m.fetchOwnerVenuesCmd()
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.client.CancelVenueBookings(ctx, venue.Id); err != nil {
			return actionMsg{err: err}
		}
		if err := m.client.DeleteVenue(ctx, venue.Id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("Venue %s deleted.", venue.Name), next: reload}
	}
}

func (m appModel) deleteCourtCmd(court model.Court) tea.Cmd {
	reload := m.fetchOwnerVenuesCmd()
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.client.CancelCourtBookings(ctx, court.Id); err != nil {
			return actionMsg{err: err}
		}
		if err := m.client.DeleteCourt(ctx, court.Id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("Court %s deleted.", court.Name), next: reload}
	}
}
