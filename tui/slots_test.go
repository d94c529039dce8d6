package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportzone-cli/booking"
	"sportzone-cli/checkout"
	"sportzone-cli/model"
	"sportzone-cli/session"
	"sportzone-cli/slot"
)

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)

func testVenue() model.Venue {
	return model.Venue{
		Id:        1,
		Name:      "Alpha Arena",
		OpenTime:  "06:00",
		CloseTime: "22:00",
		Courts: []model.Court{
			{Id: 7, Name: "Court A", SportType: "Tennis", PricePerHour: 500},
			{Id: 8, Name: "Court B", SportType: "Badminton", PricePerHour: 300},
		},
	}
}

func newGridModel(t *testing.T, s *session.Session) appModel {
	t.Helper()
	m := New(Deps{
		Session:     s,
		Now:         func() time.Time { return testNow },
		SaveSession: func(session.Session) error { return nil },
	}).(appModel)
	m.openVenue(testVenue())
	m.court = m.venue.Courts[0]
	cmd := m.enterSlotGrid(testNow)
	require.NotNil(t, cmd)
	return m
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(appModel)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loadBooked(t *testing.T, m appModel, hours ...int) appModel {
	t.Helper()
	updated, _ := m.Update(bookedHoursMsg{ctx: m.slotCtx, hours: slot.NewBookedHours(hours...)})
	return updated.(appModel)
}

func TestEnterSlotGrid_StartsAtOpening(t *testing.T) {
	m := newGridModel(t, nil)

	assert.Equal(t, stateSlotGrid, m.state)
	assert.True(t, m.slotsLoading)
	assert.Equal(t, 6, m.cursor)
	assert.Equal(t, slot.NewContext(7, testNow), m.slotCtx)
	assert.Equal(t, slot.Window{Open: 6, Close: 22}, m.selector.Window())
}

func TestBookedHours_StaleResultDropped(t *testing.T) {
	m := newGridModel(t, nil)

	stale := bookedHoursMsg{ctx: slot.NewContext(7, testNow.AddDate(0, 0, 1)), hours: slot.NewBookedHours(10)}
	updated, _ := m.Update(stale)
	m = updated.(appModel)
	assert.True(t, m.slotsLoading)
	assert.False(t, m.selector.Booked().Has(10))

	other := bookedHoursMsg{ctx: slot.NewContext(8, testNow), hours: slot.NewBookedHours(11)}
	updated, _ = m.Update(other)
	m = updated.(appModel)
	assert.False(t, m.selector.Booked().Has(11))

	m = loadBooked(t, m, 12)
	assert.False(t, m.slotsLoading)
	assert.True(t, m.selector.Booked().Has(12))
}

func TestBookedHours_ErrorReturnsToDatePicker(t *testing.T) {
	m := newGridModel(t, nil)

	updated, cmd := m.Update(bookedHoursMsg{ctx: m.slotCtx, err: errors.New("boom")})
	m = updated.(appModel)
	require.NotNil(t, cmd)

	msg, ok := cmd().(errMsg)
	require.True(t, ok)
	assert.Equal(t, stateSelectDate, msg.returnState)
	assert.ErrorContains(t, msg.err, "boom")
}

func TestSlotGrid_ClickBlockedWhileLoading(t *testing.T) {
	m := newGridModel(t, nil)

	m = press(t, m, key("enter"))
	assert.True(t, m.selector.Selection().Empty())
	assert.NotEmpty(t, m.notice)
}

func TestSlotGrid_SelectExtendAndReset(t *testing.T) {
	m := loadBooked(t, newGridModel(t, nil), 12)

	m = press(t, m, key("right"), key("right"), key("right"), key("right"), key("enter"))
	assert.Equal(t, 10, m.cursor)
	assert.Equal(t, slot.Range(10, 11), m.selector.Selection())

	m = press(t, m, key("right"), key("enter"))
	assert.Equal(t, slot.Range(10, 12), m.selector.Selection())

	// 12 is booked: clicking past it starts over.
	m = press(t, m, key("right"), key("right"), key("enter"))
	assert.Equal(t, 13, m.cursor)
	assert.Equal(t, slot.Range(13, 14), m.selector.Selection())

	m = press(t, m, key("enter"))
	assert.True(t, m.selector.Selection().Empty())

	m = press(t, m, key("left"), key("enter"), key("c"))
	assert.True(t, m.selector.Selection().Empty())
}

func TestSlotGrid_BookedCellIgnored(t *testing.T) {
	m := loadBooked(t, newGridModel(t, nil), 6)

	m = press(t, m, key("enter"))
	assert.True(t, m.selector.Selection().Empty())
}

func TestSlotGrid_CursorStaysInWindow(t *testing.T) {
	m := loadBooked(t, newGridModel(t, nil))

	m = press(t, m, key("left"))
	assert.Equal(t, 6, m.cursor)

	m = press(t, m, key("down"), key("down"))
	assert.Equal(t, 18, m.cursor)

	m = press(t, m, key("down"))
	assert.Equal(t, 18, m.cursor)
}

func TestSlotGrid_DaySwitchClearsAndRefetches(t *testing.T) {
	m := loadBooked(t, newGridModel(t, nil), 12)
	m = press(t, m, key("right"), key("enter"))
	require.False(t, m.selector.Selection().Empty())

	m = press(t, m, key("["))
	assert.True(t, isSameDay(testNow, m.date))

	updated, cmd := m.Update(key("]"))
	m = updated.(appModel)
	require.NotNil(t, cmd)
	assert.True(t, isSameDay(testNow.AddDate(0, 0, 1), m.date))
	assert.True(t, m.slotsLoading)
	assert.True(t, m.selector.Selection().Empty())
	assert.False(t, m.selector.Booked().Has(12))
	assert.Equal(t, slot.NewContext(7, testNow.AddDate(0, 0, 1)), m.slotCtx)

	for i := 0; i < bookableDays; i++ {
		m = press(t, m, key("]"))
	}
	assert.True(t, isSameDay(testNow.AddDate(0, 0, bookableDays-1), m.date))
}

func TestBeginBooking_RequiresLogin(t *testing.T) {
	m := loadBooked(t, newGridModel(t, nil))
	m = press(t, m, key("right"), key("enter"), key("b"))

	assert.Equal(t, stateLogin, m.state)
	assert.Equal(t, stateSlotGrid, m.loginReturn)
}

func TestBeginBooking_BuildsDraft(t *testing.T) {
	s := &session.Session{User: model.User{Id: 3, Username: "asha", Role: model.RoleUser}}
	m := loadBooked(t, newGridModel(t, s), 12)
	m = press(t, m, key("right"), key("right"), key("right"), key("right"), key("enter"))
	m = press(t, m, key("right"), key("enter"), key("b"))

	require.Equal(t, stateConfirmBooking, m.state)
	assert.Equal(t, model.BookingStatusPending, m.draft.Status)
	assert.Equal(t, int64(3), m.draft.UserId)
	assert.Equal(t, int64(7), m.draft.CourtId)
	assert.Equal(t, 1000.0, m.draft.Amount)
	assert.Equal(t, 10, m.draft.StartTime.Hour())
	assert.Equal(t, 12, m.draft.EndTime.Hour())

	m = press(t, m, key("n"))
	assert.Equal(t, stateSlotGrid, m.state)
}

func TestBeginBooking_PastStartShowsNotice(t *testing.T) {
	s := &session.Session{User: model.User{Id: 3, Role: model.RoleUser}}
	m := loadBooked(t, newGridModel(t, s))
	m = press(t, m, key("right"), key("right"), key("enter"), key("b"))

	assert.Equal(t, stateSlotGrid, m.state)
	assert.Contains(t, m.notice, booking.ErrPastStart.Error())
}

func TestConfirmPrompt(t *testing.T) {
	m := New(Deps{}).(appModel)
	m.state = stateMyBookings
	fired := false
	m.askConfirm("Cancel booking #4?", func() tea.Msg {
		fired = true
		return nil
	})
	require.Equal(t, stateConfirm, m.state)

	m = press(t, m, key("n"))
	assert.Equal(t, stateMyBookings, m.state)
	assert.Nil(t, m.confirm)

	m.askConfirm("Cancel booking #4?", func() tea.Msg {
		fired = true
		return nil
	})
	updated, cmd := m.Update(key("y"))
	m = updated.(appModel)
	assert.Equal(t, stateMyBookings, m.state)
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, fired)
}

func TestDashboards_RoleGated(t *testing.T) {
	s := &session.Session{User: model.User{Id: 3, Role: model.RoleUser}}
	m := New(Deps{Session: s}).(appModel)
	m.state = stateSelectVenue

	cmd := m.openAdminDashboard()
	require.NotNil(t, cmd)
	msg, ok := cmd().(errMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, session.ErrForbidden)

	cmd = m.openOwnerDashboard()
	msg, ok = cmd().(errMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, session.ErrForbidden)

	m.session = nil
	_ = m.openOwnerDashboard()
	assert.Equal(t, stateLogin, m.state)
}

func TestAdminTabsCycle(t *testing.T) {
	m := New(Deps{}).(appModel)
	m.state = stateAdmin

	m = press(t, m, key("tab"))
	assert.Equal(t, adminVenues, m.adminTab)
	m = press(t, m, key("shift+tab"), key("shift+tab"))
	assert.Equal(t, adminBookings, m.adminTab)
}

func TestFinishLogin_SavesSessionAndReturns(t *testing.T) {
	var saved session.Session
	m := New(Deps{
		SaveSession: func(s session.Session) error {
			saved = s
			return nil
		},
	}).(appModel)
	_ = m.openLogin(stateSlotGrid)
	require.Equal(t, stateLogin, m.state)

	updated, _ := m.Update(loginMsg{user: model.User{Id: 5, Username: "asha", Role: model.RoleUser, Token: "tkn"}})
	m = updated.(appModel)

	assert.Equal(t, stateSlotGrid, m.state)
	require.True(t, m.session.LoggedIn())
	assert.Equal(t, int64(5), m.session.UserID())
	assert.Equal(t, "tkn", saved.Token)
	assert.Same(t, m.session, m.client.Session())
}

func TestFinishLogin_ErrorStaysOnForm(t *testing.T) {
	m := New(Deps{}).(appModel)
	_ = m.openLogin(stateSelectVenue)

	updated, _ := m.Update(loginMsg{err: errors.New("invalid credentials")})
	m = updated.(appModel)
	assert.Equal(t, stateLogin, m.state)
	assert.Equal(t, "invalid credentials", m.notice)
	assert.False(t, m.session.LoggedIn())
}

func TestCtrlCWhilePaying_QuitsAfterOrderSettles(t *testing.T) {
	m := newGridModel(t, nil)
	cancelled := false
	m.cancel = func() { cancelled = true }
	m.state = statePaying

	updated, cmd := m.Update(key("ctrl+c"))
	m = updated.(appModel)
	assert.True(t, cancelled)
	assert.True(t, m.quitAfterPayment)
	assert.Nil(t, cmd)
	assert.Equal(t, statePaying, m.state)

	updated, cmd = m.Update(paymentMsg{err: checkout.ErrTimeout})
	m = updated.(appModel)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.cancel)
}

func TestCtrlCWhilePaying_SecondPressQuits(t *testing.T) {
	m := newGridModel(t, nil)
	m.cancel = func() {}
	m.state = statePaying

	m = press(t, m, key("ctrl+c"))
	_, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCOutsidePayment_QuitsAtOnce(t *testing.T) {
	m := newGridModel(t, nil)
	_, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
