package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"sportzone-cli/booking"
	"sportzone-cli/model"
	"sportzone-cli/slot"
)

type formKind int

const (
	formNewVenue formKind = iota
	formVenueHours
	formAddCourt
	formProfile
	formEditBooking
)

type formField struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

// form is a column of text inputs submitted together with enter on the
// last field.
type form struct {
	kind        formKind
	title       string
	inputs      []textinput.Model
	focus       int
	returnState appState
	saving      bool
	err         string

	venue   model.Venue
	booking model.Booking
}

// formSavedMsg reports a submitted form. venue and user carry the record the
// API returned when the screen behind the form shows it.
type formSavedMsg struct {
	notice string
	err    error
	next   tea.Cmd
	venue  *model.Venue
	user   *model.User
}

func newForm(kind formKind, title string, fields ...formField) *form {
	width := 0
	for _, field := range fields {
		width = max(width, len(field.label))
	}
	f := &form{kind: kind, title: title}
	for _, field := range fields {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-*s ", width+1, field.label+":")
		in.Placeholder = field.placeholder
		in.CharLimit = 128
		in.SetValue(field.value)
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

// value returns field i, trimmed unless it is a secret.
func (f *form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	if f.inputs[i].EchoMode == textinput.EchoPassword {
		return f.inputs[i].Value()
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) focusField(i int) tea.Cmd {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j != f.focus {
			f.inputs[j].Blur()
		}
	}
	return f.inputs[f.focus].Focus()
}

func (m *appModel) openForm(f *form) tea.Cmd {
	f.returnState = m.state
	m.form = f
	m.notice = ""
	m.state = stateForm
	return f.focusField(0)
}

func (m *appModel) openNewVenueForm() tea.Cmd {
	return m.openForm(newForm(formNewVenue, "New venue",
		formField{label: "Name", placeholder: "Metro Sports Arena"},
		formField{label: "Location", placeholder: "city or area"},
		formField{label: "Description", placeholder: "optional"},
		formField{label: "Image URL", placeholder: "optional"},
		formField{label: "Opens", value: "06:00"},
		formField{label: "Closes", value: "23:00"},
	))
}

func (m *appModel) openHoursForm(venue model.Venue) tea.Cmd {
	window := slot.ParseWindow(venue.OpenTime, venue.CloseTime)
	f := newForm(formVenueHours, "Opening hours • "+venue.Name,
		formField{label: "Opens", value: slot.Label(window.Open)},
		formField{label: "Closes", value: slot.Label(window.Close)},
	)
	f.venue = venue
	return m.openForm(f)
}

func (m *appModel) openAddCourtForm(venue model.Venue) tea.Cmd {
	f := newForm(formAddCourt, "Add court • "+venue.Name,
		formField{label: "Name", placeholder: "Court 3"},
		formField{label: "Sport", placeholder: "Badminton"},
		formField{label: "Price/hour", placeholder: "500"},
	)
	f.venue = venue
	return m.openForm(f)
}

func (m *appModel) openProfileForm() tea.Cmd {
	if !m.session.LoggedIn() {
		return m.openLogin(m.state)
	}
	return m.openForm(newForm(formProfile, "Profile • "+m.session.User.Username,
		formField{label: "Name", value: m.session.User.Name},
		formField{label: "New password", placeholder: "leave empty to keep", secret: true},
	))
}

func (m *appModel) openEditBookingForm(b model.Booking) tea.Cmd {
	sel := booking.SelectionOf(b)
	from, to := "", ""
	if !sel.Empty() {
		from, to = slot.Label(sel.Start), slot.Label(sel.End)
	}
	date := ""
	if !b.StartTime.IsZero() {
		date = b.StartTime.Format(time.DateOnly)
	}
	f := newForm(formEditBooking, fmt.Sprintf("Edit booking #%d", b.Id),
		formField{label: "Date", value: date, placeholder: "YYYY-MM-DD"},
		formField{label: "From", value: from, placeholder: "18:00"},
		formField{label: "To", value: to, placeholder: "20:00"},
		formField{label: "Status", value: string(b.Status), placeholder: statusHint()},
		formField{label: "Amount", value: strconv.FormatFloat(b.Amount, 'f', -1, 64)},
	)
	f.booking = b
	return m.openForm(f)
}

func statusHint() string {
	names := make([]string, 0, len(model.BookingStatuses))
	for _, s := range model.BookingStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, "|")
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.state = stateSelectVenue
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = f.returnState
		m.form = nil
		return m, nil
	case "tab", "down":
		return m, f.focusField(f.focus + 1)
	case "shift+tab", "up":
		return m, f.focusField(f.focus - 1)
	case "enter":
		if f.saving {
			return m, nil
		}
		if f.focus < len(f.inputs)-1 {
			return m, f.focusField(f.focus + 1)
		}
		cmd, err := m.submitForm(f)
		if err != nil {
			f.err = err.Error()
			return m, nil
		}
		f.err = ""
		f.saving = true
		return m, tea.Batch(cmd, m.spinner.Tick)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// submitForm validates the fields locally and returns the command that saves
// them.
func (m appModel) submitForm(f *form) (tea.Cmd, error) {
	client := m.client
	switch f.kind {
	case formNewVenue:
		name, location := f.value(0), f.value(1)
		if name == "" || location == "" {
			return nil, errors.New("name and location are required")
		}
		window, err := slot.NewWindow(f.value(4), f.value(5))
		if err != nil {
			return nil, err
		}
		venue := model.Venue{
			Name:        name,
			Location:    location,
			Description: f.value(2),
			ImageUrl:    f.value(3),
			OpenTime:    slot.Label(window.Open),
			CloseTime:   slot.Label(window.Close),
			OwnerId:     m.session.UserID(),
		}
		reload := m.fetchOwnerVenuesCmd()
		return func() tea.Msg {
			created, err := client.CreateVenue(context.Background(), venue)
			if err != nil {
				return formSavedMsg{err: err}
			}
			return formSavedMsg{notice: fmt.Sprintf("Venue %s submitted for approval.", created.Name), next: reload}
		}, nil

	case formVenueHours:
		window, err := slot.NewWindow(f.value(0), f.value(1))
		if err != nil {
			return nil, err
		}
		id := f.venue.Id
		return func() tea.Msg {
			updated, err := client.SetVenueHours(context.Background(), id, slot.Label(window.Open), slot.Label(window.Close))
			if err != nil {
				return formSavedMsg{err: err}
			}
			return formSavedMsg{notice: fmt.Sprintf("%s now opens %s - %s.", updated.Name, slot.Label(window.Open), slot.Label(window.Close)), venue: &updated}
		}, nil

	case formAddCourt:
		price, err := strconv.ParseFloat(f.value(2), 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("invalid price %q", f.value(2))
		}
		court := model.Court{Name: f.value(0), SportType: f.value(1), PricePerHour: price}
		if court.Name == "" || court.SportType == "" {
			return nil, errors.New("court name and sport are required")
		}
		id := f.venue.Id
		return func() tea.Msg {
			updated, err := client.AddCourt(context.Background(), id, court)
			if err != nil {
				return formSavedMsg{err: err}
			}
			return formSavedMsg{notice: fmt.Sprintf("Court %s added.", court.Name), venue: &updated}
		}, nil

	case formProfile:
		update := model.ProfileUpdate{Name: f.value(0), Password: f.value(1)}
		if update.Name == "" {
			return nil, errors.New("name is required")
		}
		if update.Password != "" && len(update.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		id := m.session.UserID()
		return func() tea.Msg {
			updated, err := client.UpdateUser(context.Background(), id, update)
			if err != nil {
				return formSavedMsg{err: err}
			}
			return formSavedMsg{notice: "Profile updated.", user: &updated}
		}, nil

	case formEditBooking:
		date, err := time.ParseInLocation(time.DateOnly, f.value(0), time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", f.value(0))
		}
		from, okFrom := slot.ParseHour(f.value(1))
		to, okTo := slot.ParseHour(f.value(2))
		if !okFrom || !okTo {
			return nil, errors.New("hours look like 18:00")
		}
		amount, err := strconv.ParseFloat(f.value(4), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q", f.value(4))
		}
		change := booking.Change{
			Date:      date,
			Selection: slot.Range(from, to),
			Status:    model.BookingStatus(f.value(3)),
			Amount:    amount,
		}
		edited, err := change.Apply(f.booking, m.now())
		if err != nil {
			return nil, err
		}
		reload := m.fetchAdminCmd()
		return func() tea.Msg {
			if _, err := client.UpdateBooking(context.Background(), edited); err != nil {
				return formSavedMsg{err: err}
			}
			return formSavedMsg{notice: fmt.Sprintf("Booking #%d updated.", edited.Id), next: reload}
		}, nil
	}
	return nil, errors.New("unknown form")
}

func (m appModel) finishForm(msg formSavedMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		return m, nil
	}
	f.saving = false
	if msg.err != nil {
		f.err = msg.err.Error()
		return m, nil
	}
	if msg.venue != nil {
		m.replaceOwnerVenue(*msg.venue)
	}
	if msg.user != nil && m.session.LoggedIn() {
		s := m.session.WithUser(*msg.user)
		if err := m.save(s); err != nil {
			m.logger.Warn("could not persist session", zap.Error(err))
		}
		m.setSession(&s)
	}
	m.state = f.returnState
	m.form = nil
	m.notice = msg.notice
	return m, msg.next
}

func (m appModel) formView() string {
	f := m.form
	if f == nil {
		return ""
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(f.title), ""}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	switch {
	case f.saving:
		lines = append(lines, "", m.spinner.View()+" Saving")
	case f.err != "":
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(f.err))
	}
	return lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))
}
