package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sportzone-cli/model"
)

type adminTab int

const (
	adminUsers adminTab = iota
	adminVenues
	adminBookings
	adminTabCount
)

func (t adminTab) String() string {
	switch t {
	case adminUsers:
		return "Users"
	case adminVenues:
		return "Venues"
	case adminBookings:
		return "Bookings"
	default:
		return ""
	}
}

func (t adminTab) hints() string {
	switch t {
	case adminUsers:
		return "enter change role"
	case adminVenues:
		return "a approve • x delete"
	case adminBookings:
		return "e edit booking • x cancel booking"
	default:
		return ""
	}
}

func (m *appModel) openAdminDashboard() tea.Cmd {
	if !m.session.LoggedIn() {
		return m.openLogin(stateSelectVenue)
	}
	if err := m.session.Require(m.now(), model.RoleAdmin); err != nil {
		return errCmd(err)
	}
	m.state = stateLoadingAdmin
	return tea.Batch(m.fetchAdminCmd(), m.spinner.Tick)
}

func (m appModel) handleAdminKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		m.adminTab = (m.adminTab + 1) % adminTabCount
		m.notice = ""
		return m, nil, true
	case "shift+tab":
		m.adminTab = (m.adminTab - 1 + adminTabCount) % adminTabCount
		m.notice = ""
		return m, nil, true
	}

	selected := m.adminLists[m.adminTab].SelectedItem()
	reload := m.fetchAdminCmd()
	switch m.adminTab {
	case adminUsers:
		item, ok := selected.(userItem)
		if msg.Type != tea.KeyEnter || !ok {
			return m, nil, false
		}
		next := item.user.Role.Next()
		m.askConfirm(
			fmt.Sprintf("Change role of %s to %s?", displayName(item.user), next),
			m.changeRoleCmd(item.user, next, reload),
		)
		return m, nil, true
	case adminVenues:
		item, ok := selected.(ownerVenueItem)
		if !ok {
			return m, nil, false
		}
		switch msg.String() {
		case "a":
			if item.venue.Status == model.VenueStatusApproved {
				m.notice = item.venue.Name + " is already approved."
				return m, nil, true
			}
			return m, m.approveVenueCmd(item.venue, reload), true
		case "x":
			m.askConfirm(
				fmt.Sprintf("Delete venue %s?", item.venue.Name),
				m.adminDeleteVenueCmd(item.venue, reload),
			)
			return m, nil, true
		}
	case adminBookings:
		item, ok := selected.(bookingItem)
		if !ok {
			return m, nil, false
		}
		if msg.String() == "e" {
			cmd := m.openEditBookingForm(item.booking)
			return m, cmd, true
		}
		if msg.String() != "x" {
			return m, nil, false
		}
		if item.booking.Status == model.BookingStatusCancelled {
			m.notice = fmt.Sprintf("Booking #%d is already cancelled.", item.booking.Id)
			return m, nil, true
		}
		m.askConfirm(
			fmt.Sprintf("Cancel booking #%d (%s)?", item.booking.Id, item.Title()),
			m.cancelBookingCmd(item.booking.Id, reload),
		)
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) changeRoleCmd(user model.User, role model.Role, next tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.UpdateUserRole(context.Background(), user.Id, role); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("%s is now %s.", displayName(user), role), next: next}
	}
}

func (m appModel) approveVenueCmd(venue model.Venue, next tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.ApproveVenue(context.Background(), venue.Id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("Venue %s approved.", venue.Name), next: next}
	}
}

func (m appModel) adminDeleteVenueCmd(venue model.Venue, next tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.DeleteVenue(context.Background(), venue.Id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("Venue %s deleted.", venue.Name), next: next}
	}
}

func (m appModel) adminView() string {
	active := lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 2)
	inactive := lipgloss.NewStyle().Faint(true).Padding(0, 2)
	tabs := make([]string, 0, adminTabCount)
	for tab := adminTab(0); tab < adminTabCount; tab++ {
		label := fmt.Sprintf("%s (%d)", tab, len(m.adminLists[tab].Items()))
		if tab == m.adminTab {
			tabs = append(tabs, active.Render(label))
			continue
		}
		tabs = append(tabs, inactive.Render(label))
	}
	return strings.Join(tabs, "") + "\n\n" + m.adminLists[m.adminTab].View()
}
