package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sportzone-cli/model"
)

func (m *appModel) openMyBookings(page int) tea.Cmd {
	if !m.session.LoggedIn() {
		return m.openLogin(stateSelectVenue)
	}
	if err := m.session.Require(m.now()); err != nil {
		return m.openLogin(stateSelectVenue)
	}
	m.state = stateLoadingBookings
	return tea.Batch(m.fetchUserBookingsCmd(page), m.spinner.Tick)
}

func (m appModel) handleBookingsKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "n", "right":
		if m.page.Last || m.page.Number+1 >= m.page.TotalPages {
			return m, nil, true
		}
		cmd := m.openMyBookings(m.page.Number + 1)
		return m, cmd, true
	case "p", "left":
		if m.page.Number == 0 {
			return m, nil, true
		}
		cmd := m.openMyBookings(m.page.Number - 1)
		return m, cmd, true
	case "r":
		cmd := m.openMyBookings(m.page.Number)
		return m, cmd, true
	case "x":
		item, ok := m.bookingList.SelectedItem().(bookingItem)
		if !ok {
			return m, nil, true
		}
		if !item.booking.Cancellable(m.now()) {
			m.notice = "Only upcoming bookings that are not cancelled can be cancelled."
			return m, nil, true
		}
		reload := m.fetchUserBookingsCmd(m.page.Number)
		m.askConfirm(
			fmt.Sprintf("Cancel booking #%d (%s)?", item.booking.Id, item.Title()),
			m.cancelBookingCmd(item.booking.Id, reload),
		)
		return m, nil, true
	}
	return m, nil, false
}

func bookingPageLabel(page model.Page[model.Booking]) string {
	return fmt.Sprintf("page %d of %d • %d bookings", page.Number+1, max(1, page.TotalPages), page.TotalElements)
}
