package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"sportzone-cli/booking"
	"sportzone-cli/checkout"
	"sportzone-cli/model"
	"sportzone-cli/slot"
)

const slotColumns = 6

func (m *appModel) openVenue(venue model.Venue) {
	m.blocking = false
	m.venue = venue
	m.sports = venue.Sports()
	m.sportIdx = 0
	m.court = model.Court{}
	m.refreshCourtList()
	m.notice = ""
	m.state = stateVenueDetail
}

func (m appModel) currentSport() string {
	if m.sportIdx < 0 || m.sportIdx >= len(m.sports) {
		return ""
	}
	return m.sports[m.sportIdx]
}

func (m *appModel) refreshCourtList() {
	sport := m.currentSport()
	title := "Courts"
	if sport != "" {
		title = "Courts • " + sport
	}
	m.courtList.Title = title
	m.courtList.SetItems(buildCourtItems(m.venue.CourtsFor(sport)))
	m.courtList.Select(0)
}

func (m appModel) handleVenueDetailKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "right", "tab", "l":
		if len(m.sports) > 1 {
			m.sportIdx = (m.sportIdx + 1) % len(m.sports)
			m.refreshCourtList()
		}
		return m, nil, true
	case "left", "shift+tab", "h":
		if len(m.sports) > 1 {
			m.sportIdx = (m.sportIdx - 1 + len(m.sports)) % len(m.sports)
			m.refreshCourtList()
		}
		return m, nil, true
	}
	if msg.Type == tea.KeyEnter {
		item, ok := m.courtList.SelectedItem().(courtItem)
		if !ok {
			return m, nil, true
		}
		m.court = item.court
		m.openDatePicker()
		return m, nil, true
	}
	return m, nil, false
}

func (m *appModel) openDatePicker() {
	today := truncateDate(m.now())
	m.dateList.SetItems(buildDateItems(today))
	idx := int(truncateDate(m.date).Sub(today).Hours() / 24)
	if idx < 0 || idx >= bookableDays {
		idx = 0
	}
	m.dateList.Select(idx)
	m.state = stateSelectDate
}

func (m appModel) venueDetailView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.venue.Name))
	if m.venue.Location != "" {
		b.WriteString(hint(" • " + m.venue.Location))
	}
	b.WriteString("\n")
	window := slot.ParseWindow(m.venue.OpenTime, m.venue.CloseTime)
	b.WriteString(hint(fmt.Sprintf("Open %s - %s", slot.Label(window.Open), slot.Label(window.Close))))
	b.WriteString("\n")
	if d := strings.TrimSpace(m.venue.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if len(m.sports) > 0 {
		b.WriteString(m.sportTabs())
		b.WriteString("\n\n")
	}
	if len(m.venue.Courts) == 0 {
		b.WriteString(hint("No courts listed for this venue."))
		return b.String()
	}
	b.WriteString(m.courtList.View())
	return b.String()
}

func (m appModel) sportTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 2)
	tabs := make([]string, 0, len(m.sports))
	for i, sport := range m.sports {
		if i == m.sportIdx {
			tabs = append(tabs, active.Render(sport))
			continue
		}
		tabs = append(tabs, inactive.Render(sport))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *appModel) enterSlotGrid(date time.Time) tea.Cmd {
	m.cursor = -1
	return m.showDay(date)
}

// showDay switches the grid to date and starts fetching its booked hours.
// Any earlier fetch still in flight becomes stale.
func (m *appModel) showDay(date time.Time) tea.Cmd {
	m.date = truncateDate(date)
	window := slot.ParseWindow(m.venue.OpenTime, m.venue.CloseTime)
	m.slotCtx = slot.NewContext(m.court.Id, m.date)
	m.selector.Reset(window, nil)
	if !window.Contains(m.cursor) {
		m.cursor = window.Open
	}
	m.slotsLoading = true
	m.notice = ""
	m.state = stateSlotGrid
	return tea.Batch(m.fetchBookedHoursCmd(m.slotCtx, m.date), m.spinner.Tick)
}

func (m appModel) handleSlotKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	window := m.selector.Window()
	switch msg.String() {
	case "left", "h":
		m.moveCursor(-1, window)
	case "right", "l":
		m.moveCursor(1, window)
	case "up", "k":
		m.moveCursor(-slotColumns, window)
	case "down", "j":
		m.moveCursor(slotColumns, window)
	case "enter", " ":
		if m.slotsLoading {
			m.notice = "Still loading booked hours..."
			return m, nil, true
		}
		m.notice = ""
		m.selector.Click(m.cursor)
	case "c":
		m.notice = ""
		m.selector.Clear()
	case "[":
		today := truncateDate(m.now())
		prev := m.date.AddDate(0, 0, -1)
		if prev.Before(today) {
			return m, nil, true
		}
		cmd := m.showDay(prev)
		return m, cmd, true
	case "]":
		next := m.date.AddDate(0, 0, 1)
		if !next.Before(truncateDate(m.now()).AddDate(0, 0, bookableDays)) {
			return m, nil, true
		}
		cmd := m.showDay(next)
		return m, cmd, true
	case "b":
		cmd := m.beginBooking()
		return m, cmd, true
	}
	return m, nil, true
}

func (m *appModel) moveCursor(delta int, window slot.Window) {
	next := m.cursor + delta
	if next < window.Open || next >= window.Close {
		return
	}
	m.cursor = next
}

func (m appModel) applyBookedHours(msg bookedHoursMsg) (tea.Model, tea.Cmd) {
	if msg.ctx != m.slotCtx {
		m.logger.Debug("dropping stale booked hours",
			zap.Int64("court_id", msg.ctx.CourtID),
			zap.String("date", msg.ctx.Date),
		)
		return m, nil
	}
	m.slotsLoading = false
	if msg.err != nil {
		return m, errWithReturnCmd(fmt.Errorf("load booked hours: %w", msg.err), stateSelectDate)
	}
	m.selector.SetBooked(msg.hours)
	return m, nil
}

func (m *appModel) beginBooking() tea.Cmd {
	if !m.session.LoggedIn() {
		m.notice = "Sign in to book."
		return m.openLogin(stateSlotGrid)
	}
	if err := m.session.Require(m.now()); err != nil {
		return m.openLogin(stateSlotGrid)
	}
	req := booking.Request{
		User:      m.session.User,
		Venue:     m.venue,
		Court:     m.court,
		Date:      m.date,
		Selection: m.selector.Selection(),
		Booked:    m.selector.Booked(),
	}
	build := booking.Build
	if m.blocking {
		build = booking.Block
	}
	draft, err := build(req, m.now())
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	m.draft = draft
	m.notice = ""
	m.state = stateConfirmBooking
	return nil
}

func (m appModel) handleConfirmBookingKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.state = stateSubmitting
		if m.blocking {
			return m, tea.Batch(m.blockSlotCmd(m.draft), m.spinner.Tick), true
		}
		return m, tea.Batch(m.placeBookingCmd(m.draft), m.spinner.Tick), true
	case "n", "N":
		m.state = stateSlotGrid
		return m, nil, true
	}
	return m, nil, true
}

func (m appModel) startPayment(msg bookingPlacedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.booking.Id != 0 {
			m.logger.Warn("booking saved but payment did not start", zap.Int64("booking_id", msg.booking.Id), zap.Error(msg.err))
		}
		m.refreshAfterBooking()
		return m, tea.Batch(errWithReturnCmd(msg.err, stateSlotGrid), m.fetchBookedHoursCmd(m.slotCtx, m.date))
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.draft = msg.booking
	m.pending = msg.pending
	m.cancel = cancel
	m.payErr = nil
	m.state = statePaying
	return m, tea.Batch(openLinkCmd(msg.pending), waitPaymentCmd(ctx, msg.pending), m.spinner.Tick)
}

// refreshAfterBooking marks the grid as loading so the next booked-hours
// result for the same court and day is applied.
func (m *appModel) refreshAfterBooking() {
	m.selector.Clear()
	m.slotsLoading = true
}

func (m appModel) handlePayingKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if msg.String() == "o" && m.pending != nil {
		return m, openLinkCmd(m.pending), true
	}
	return m, nil, true
}

// finishBlocking returns to the grid and reloads its booked hours, whether
// or not the block was saved.
func (m appModel) finishBlocking(msg slotBlockedMsg) (tea.Model, tea.Cmd) {
	m.refreshAfterBooking()
	reload := m.fetchBookedHoursCmd(m.slotCtx, m.date)
	if msg.err != nil {
		return m, tea.Batch(errWithReturnCmd(msg.err, stateSlotGrid), reload)
	}
	m.state = stateSlotGrid
	m.notice = fmt.Sprintf("Blocked %s on %s.", booking.SelectionOf(msg.booking), msg.booking.StartTime.Format("Mon 02 Jan"))
	return m, reload
}

func (m appModel) confirmBookingView() string {
	start, end := m.draft.StartTime, m.draft.EndTime
	sel := m.selector.Selection()
	if m.blocking {
		return lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(strings.Join([]string{
				lipgloss.NewStyle().Bold(true).Render("Block hours"),
				"",
				fmt.Sprintf("Venue:  %s", m.venue.Name),
				fmt.Sprintf("Court:  %s (%s)", m.court.Name, m.court.SportType),
				fmt.Sprintf("Date:   %s", start.Format("Mon 02 Jan 2006")),
				fmt.Sprintf("Time:   %s (%d h)", sel, sel.Hours()),
				"",
				hint("Shoppers cannot book blocked hours. No payment is taken."),
			}, "\n"))
	}
	rows := []string{
		lipgloss.NewStyle().Bold(true).Render("Confirm booking"),
		"",
		fmt.Sprintf("Venue:  %s", m.venue.Name),
		fmt.Sprintf("Court:  %s (%s)", m.court.Name, m.court.SportType),
		fmt.Sprintf("Date:   %s", start.Format("Mon 02 Jan 2006")),
		fmt.Sprintf("Time:   %s (%d h)", sel, sel.Hours()),
		fmt.Sprintf("Rate:   %s/h", formatPrice(m.court.PricePerHour)),
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Total:  %s", formatPrice(m.draft.Amount))),
		"",
		hint(fmt.Sprintf("Ends %s. Payment opens in your browser.", end.Format("Mon 02 Jan 15:04"))),
	}
	return lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(rows, "\n"))
}

func (m appModel) payingView() string {
	if m.pending == nil {
		return m.spinner.View() + " Starting payment"
	}
	lines := []string{
		fmt.Sprintf("%s Waiting for payment of %s", m.spinner.View(), formatPrice(m.pending.Payment.Amount)),
		"",
		fmt.Sprintf("Booking #%d • order %s", m.draft.Id, m.pending.Payment.RazorpayOrderId),
		"",
		hint("Complete the payment in your browser. If it did not open, visit:"),
		m.pending.Link,
	}
	return strings.Join(lines, "\n")
}

func (m appModel) paymentResultView() string {
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	switch {
	case m.payErr == nil:
		return ok.Render(fmt.Sprintf("Payment received. Booking #%d is confirmed.", m.draft.Id)) +
			"\n\n" + hint("Press enter to see your bookings.")
	case errors.Is(m.payErr, checkout.ErrTimeout):
		return bad.Render("Payment was not completed.") +
			"\n\n" + hint(fmt.Sprintf("Booking #%d was not paid and will not be confirmed.", m.draft.Id))
	case errors.Is(m.payErr, checkout.ErrPaymentFailed):
		return bad.Render("Payment failed.") +
			"\n\n" + hint(fmt.Sprintf("Booking #%d was not paid and will not be confirmed.", m.draft.Id))
	default:
		return bad.Render(m.payErr.Error())
	}
}

type slotStyles struct {
	available lipgloss.Style
	selected  lipgloss.Style
	booked    lipgloss.Style
	past      lipgloss.Style
}

func newSlotStyles() slotStyles {
	return slotStyles{
		available: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")),
		booked:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Strikethrough(true),
		past:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (m appModel) renderSlotGrid() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.court.Name))
	b.WriteString(hint(fmt.Sprintf(" • %s • %s/h • %s", m.court.SportType, formatPrice(m.court.PricePerHour), m.date.Format("Mon 02 Jan"))))
	b.WriteString("\n")
	if m.slotsLoading {
		b.WriteString(m.spinner.View() + " Loading booked hours")
	}
	b.WriteString("\n")

	styles := newSlotStyles()
	now := m.now()
	today := isSameDay(m.date, now)
	cells := m.selector.Cells()
	if len(cells) == 0 {
		return b.String() + "No hours available."
	}
	for i, cell := range cells {
		text := padCell(slot.Label(cell.Hour), 7)
		if cell.Hour == m.cursor {
			text = "[" + slot.Label(cell.Hour) + "]"
			text = padCell(text, 7)
		}
		var rendered string
		switch {
		case cell.State == slot.CellBooked:
			rendered = styles.booked.Render(text)
		case cell.State == slot.CellSelected:
			rendered = styles.selected.Render(text)
		case today && cell.Hour <= now.Hour():
			rendered = styles.past.Render(text)
		default:
			rendered = styles.available.Render(text)
		}
		if cell.Hour == m.cursor {
			rendered = lipgloss.NewStyle().Underline(true).Render(rendered)
		}
		b.WriteString(rendered)
		if (i+1)%slotColumns == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if len(cells)%slotColumns != 0 {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	legend := fmt.Sprintf("Legend: %s available • %s selected • %s booked",
		styles.available.Render("09:00"),
		styles.selected.Render("09:00"),
		styles.booked.Render("09:00"),
	)
	b.WriteString(hint(legend))
	b.WriteString("\n")

	sel := m.selector.Selection()
	summary := "Selected: " + sel.String()
	if !sel.Empty() {
		summary += fmt.Sprintf(" • %d h • Total %s", sel.Hours(), formatPrice(m.selector.Price(m.court.PricePerHour)))
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(summary))
	if m.notice != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.notice))
	}
	return b.String()
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}
