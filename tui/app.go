package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"sportzone-cli/checkout"
	"sportzone-cli/config"
	"sportzone-cli/model"
	"sportzone-cli/service"
	"sportzone-cli/session"
	"sportzone-cli/slot"
)

type appState int

const (
	stateLoadingVenues appState = iota
	stateSelectVenue
	stateLoadingVenue
	stateVenueDetail
	stateSelectDate
	stateSlotGrid
	stateConfirmBooking
	stateSubmitting
	statePaying
	statePaymentResult
	stateLoadingBookings
	stateMyBookings
	stateLoadingOwner
	stateOwnerVenues
	stateOwnerBookings
	stateOwnerCourts
	stateLoadingAdmin
	stateAdmin
	stateLogin
	stateConfirm
	stateForm
	stateError
)

// Deps is what the storefront needs from the outside. Session may be nil for
// an anonymous shopper.
type Deps struct {
	Client      *service.Client
	Config      config.Config
	Session     *session.Session
	Logger      *zap.Logger
	SaveSession func(session.Session) error
	Now         func() time.Time
}

type appModel struct {
	client  *service.Client
	cfg     config.Config
	session *session.Session
	logger  *zap.Logger
	save    func(session.Session) error
	now     func() time.Time

	state     appState
	lastState appState
	err       error
	notice    string

	width  int
	height int

	venues     []model.Venue
	venueNames map[int64]string
	venue      model.Venue
	sports     []string
	sportIdx   int
	court      model.Court
	date       time.Time

	venueList   list.Model
	courtList   list.Model
	dateList    list.Model
	bookingList list.Model
	ownerList   list.Model
	ownerCourts list.Model
	ownerBooks  list.Model
	adminLists  [adminTabCount]list.Model
	adminTab    adminTab

	selector     *slot.Selector
	slotCtx      slot.Context
	slotsLoading bool
	cursor       int

	draft   model.Booking
	pending *checkout.Pending
	payment model.Payment
	payErr  error
	cancel  context.CancelFunc
	// quitAfterPayment holds the exit until the abandoned order is settled.
	quitAfterPayment bool

	page model.Page[model.Booking]

	ownerVenue  model.Venue
	ownerVenues []model.Venue
	// blocking turns the slot grid into the owner's block-hours tool.
	blocking bool

	loginInputs [2]textinput.Model
	loginFocus  int
	loginReturn appState

	confirm *confirmPrompt
	form    *form

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

// actionMsg reports a finished mutation. next reloads whatever screen the
// mutation affected.
type actionMsg struct {
	notice string
	err    error
	next   tea.Cmd
}

type confirmPrompt struct {
	text        string
	action      tea.Cmd
	returnState appState
}

func New(deps Deps) tea.Model {
	client := deps.Client
	if client == nil {
		client = service.NewClient(nil)
	}
	if deps.Session != nil {
		client = client.WithSession(deps.Session)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	save := deps.SaveSession
	if save == nil {
		save = session.Save
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	m := appModel{
		client:     client,
		cfg:        deps.Config,
		session:    deps.Session,
		logger:     logger.Named("tui"),
		save:       save,
		now:        now,
		state:      stateLoadingVenues,
		date:       truncateDate(now()),
		venueNames: map[int64]string{},
		selector:   slot.NewSelector(slot.FullDay, nil),
	}

	m.venueList = newList("Venues")
	m.courtList = newPlainList("Courts")
	m.dateList = newPlainList("Select Date")
	m.bookingList = newPlainList("My Bookings")
	m.ownerList = newPlainList("My Venues")
	m.ownerCourts = newPlainList("Courts")
	m.ownerBooks = newPlainList("Venue Bookings")
	for tab := adminTab(0); tab < adminTabCount; tab++ {
		m.adminLists[tab] = newPlainList(tab.String())
	}
	m.loginInputs = newLoginInputs()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchVenuesCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateLogin {
			return m.updateLogin(msg)
		}
		if m.state == stateForm {
			return m.updateForm(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var (
			cmd     tea.Cmd
			handled bool
		)
		m, cmd, handled = m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() || m.slotsLoading {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case actionMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.notice = msg.notice
		return m, msg.next

	case venuesMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.venues = msg.venues
		for _, v := range msg.venues {
			m.venueNames[v.Id] = v.Name
		}
		m.venueList.Title = "Venues"
		if msg.near != "" {
			m.venueList.Title = "Venues near " + msg.near
		}
		m.venueList.SetItems(buildVenueItems(msg.venues, msg.recents))
		m.state = stateSelectVenue
		return m, nil

	case venueMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.openVenue(msg.venue)
		return m, nil

	case bookedHoursMsg:
		return m.applyBookedHours(msg)

	case bookingPlacedMsg:
		return m.startPayment(msg)

	case slotBlockedMsg:
		return m.finishBlocking(msg)

	case formSavedMsg:
		return m.finishForm(msg)

	case paymentMsg:
		m.payment = msg.payment
		m.payErr = msg.err
		m.pending = nil
		m.cancel = nil
		if m.quitAfterPayment {
			return m, tea.Quit
		}
		if msg.err == nil {
			m.selector.Clear()
		}
		m.state = statePaymentResult
		return m, nil

	case userBookingsMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.page = msg.page
		m.bookingList.Title = "My Bookings • " + bookingPageLabel(msg.page)
		m.bookingList.SetItems(buildBookingItems(msg.page.Content, m.venueNames, m.venues))
		m.state = stateMyBookings
		return m, nil

	case ownerVenuesMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		for _, v := range msg.venues {
			m.venueNames[v.Id] = v.Name
		}
		m.ownerVenues = msg.venues
		m.ownerList.SetItems(buildOwnerVenueItems(msg.venues))
		m.state = stateOwnerVenues
		return m, nil

	case venueBookingsMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.ownerBooks.Title = "Bookings • " + m.ownerVenue.Name
		m.ownerBooks.SetItems(buildBookingItems(msg.bookings, m.venueNames, []model.Venue{m.ownerVenue}))
		m.state = stateOwnerBookings
		return m, nil

	case adminMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		for _, v := range msg.venues {
			m.venueNames[v.Id] = v.Name
		}
		m.adminLists[adminUsers].SetItems(buildUserItems(msg.users))
		m.adminLists[adminVenues].SetItems(buildOwnerVenueItems(msg.venues))
		m.adminLists[adminBookings].SetItems(buildBookingItems(msg.bookings, m.venueNames, msg.venues))
		m.state = stateAdmin
		return m, nil

	case loginMsg:
		return m.finishLogin(msg)
	}

	var cmd tea.Cmd
	if listPtr := m.componentList(); listPtr != nil {
		*listPtr, cmd = listPtr.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingVenues, stateLoadingVenue, stateSubmitting, stateLoadingBookings, stateLoadingOwner, stateLoadingAdmin:
		return header + "\n\n" + m.loadingView()
	case stateSelectVenue:
		return header + "\n\n" + m.venueList.View()
	case stateVenueDetail:
		return header + "\n\n" + m.venueDetailView()
	case stateSelectDate:
		return header + "\n\n" + m.dateList.View()
	case stateSlotGrid:
		return header + "\n\n" + m.renderSlotGrid()
	case stateConfirmBooking:
		return header + "\n\n" + m.confirmBookingView()
	case statePaying:
		return header + "\n\n" + m.payingView()
	case statePaymentResult:
		return header + "\n\n" + m.paymentResultView()
	case stateMyBookings:
		return header + "\n\n" + m.bookingList.View()
	case stateOwnerVenues:
		return header + "\n\n" + m.ownerList.View()
	case stateOwnerBookings:
		return header + "\n\n" + m.ownerBooks.View()
	case stateOwnerCourts:
		return header + "\n\n" + m.ownerCourts.View()
	case stateAdmin:
		return header + "\n\n" + m.adminView()
	case stateLogin:
		return header + "\n\n" + m.loginView()
	case stateConfirm:
		return header + "\n\n" + m.confirmView()
	case stateForm:
		return header + "\n\n" + m.formView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("SportZone")
	sub := []string{}
	if m.session.LoggedIn() {
		sub = append(sub, fmt.Sprintf("Signed in: %s (%s)", displayName(m.session.User), m.session.User.Role))
	} else {
		sub = append(sub, "Guest")
	}
	if m.venue.Name != "" && m.inBookingFlow() {
		sub = append(sub, fmt.Sprintf("Venue: %s", m.venue.Name))
	}
	if m.court.Name != "" && (m.state == stateSlotGrid || m.state == stateConfirmBooking || m.state == stateSelectDate) {
		sub = append(sub, fmt.Sprintf("Court: %s", m.court.Name))
	}
	if !m.date.IsZero() && (m.state == stateSlotGrid || m.state == stateConfirmBooking) {
		sub = append(sub, fmt.Sprintf("Date: %s", m.date.Format(time.DateOnly)))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back"
	switch m.state {
	case stateSelectVenue:
		hints = "ctrl+c quit • type to filter • enter open • ctrl+b my bookings • ctrl+o owner • ctrl+a admin • ctrl+p profile • ctrl+l login/logout • ctrl+n near me • ctrl+r refresh"
	case stateVenueDetail:
		hints = "ctrl+c quit • esc back • ←/→ or tab sport • enter pick court"
	case stateSelectDate:
		hints = "ctrl+c quit • esc back • enter select date"
	case stateSlotGrid:
		hints = "ctrl+c quit • esc back • arrows move • enter/space select • c clear • [ ] day • b book"
		if m.blocking {
			hints = "ctrl+c quit • esc back • arrows move • enter/space select • c clear • [ ] day • b block hours"
		}
	case stateConfirmBooking:
		hints = "y/enter confirm and pay • n/esc back"
		if m.blocking {
			hints = "y/enter block • n/esc back"
		}
	case statePaying:
		hints = "esc abandon payment • o reopen browser"
	case statePaymentResult:
		hints = "enter my bookings • esc venues"
	case stateMyBookings:
		hints = "ctrl+c quit • esc back • n/p page • x cancel booking • r refresh"
	case stateOwnerVenues:
		hints = "ctrl+c quit • esc back • enter bookings • c courts • n new venue • h hours • x delete venue"
	case stateOwnerBookings:
		hints = "ctrl+c quit • esc back"
	case stateOwnerCourts:
		hints = "ctrl+c quit • esc back • n add court • b block hours • x delete court"
	case stateAdmin:
		hints = "ctrl+c quit • esc back • tab switch • " + m.adminTab.hints()
	case stateLogin:
		hints = "tab next field • enter sign in • esc back"
	case stateConfirm:
		hints = "y confirm • n/esc cancel"
	case stateForm:
		hints = "tab next field • enter on last field saves • esc cancel"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	noticeLine := ""
	if m.notice != "" {
		noticeLine = "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(m.notice)
	}
	return title + meta + filterLine + noticeLine + "\n" + hint(hints)
}

func (m appModel) inBookingFlow() bool {
	switch m.state {
	case stateVenueDetail, stateSelectDate, stateSlotGrid, stateConfirmBooking, stateSubmitting, statePaying, statePaymentResult:
		return true
	}
	return false
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		if m.state == statePaying && m.cancel != nil && !m.quitAfterPayment {
			m.quitAfterPayment = true
			m.cancel()
			m.notice = "Cancelling the payment before exit..."
			return m, nil, true
		}
		return m, tea.Quit, true
	case "q":
		if m.state != statePaying {
			return m, tea.Quit, true
		}
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		model, cmd := m.goBack()
		return model, cmd, true
	}

	switch m.state {
	case stateSelectVenue:
		return m.handleVenueListKey(msg)
	case stateVenueDetail:
		return m.handleVenueDetailKey(msg)
	case stateSelectDate:
		if msg.Type == tea.KeyEnter {
			item, ok := m.dateList.SelectedItem().(dateItem)
			if !ok {
				return m, nil, true
			}
			cmd := m.enterSlotGrid(item.date)
			return m, cmd, true
		}
	case stateSlotGrid:
		return m.handleSlotKey(msg)
	case stateConfirmBooking:
		return m.handleConfirmBookingKey(msg)
	case statePaying:
		return m.handlePayingKey(msg)
	case statePaymentResult:
		if msg.Type == tea.KeyEnter {
			cmd := m.openMyBookings(0)
			return m, cmd, true
		}
	case stateMyBookings:
		return m.handleBookingsKey(msg)
	case stateOwnerVenues, stateOwnerCourts:
		return m.handleOwnerKey(msg)
	case stateAdmin:
		return m.handleAdminKey(msg)
	case stateConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil, false
}

func (m appModel) handleVenueListKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+b":
		cmd := m.openMyBookings(0)
		return m, cmd, true
	case "ctrl+o":
		cmd := m.openOwnerDashboard()
		return m, cmd, true
	case "ctrl+a":
		cmd := m.openAdminDashboard()
		return m, cmd, true
	case "ctrl+p":
		cmd := m.openProfileForm()
		return m, cmd, true
	case "ctrl+l":
		if m.session.LoggedIn() {
			cmd := m.logout()
			return m, cmd, true
		}
		cmd := m.openLogin(stateSelectVenue)
		return m, cmd, true
	case "ctrl+r":
		m.state = stateLoadingVenues
		return m, tea.Batch(m.refreshVenuesCmd(), m.spinner.Tick), true
	case "ctrl+n":
		m.state = stateLoadingVenues
		return m, tea.Batch(m.nearbyVenuesCmd(), m.spinner.Tick), true
	}
	if msg.Type == tea.KeyEnter {
		item, ok := m.venueList.SelectedItem().(venueItem)
		if !ok {
			return m, nil, true
		}
		m.state = stateLoadingVenue
		return m, tea.Batch(m.fetchVenueCmd(item.venue.Id), m.spinner.Tick), true
	}
	return m, nil, false
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if m.confirm == nil {
		m.state = stateSelectVenue
		return m, nil, true
	}
	switch msg.String() {
	case "y", "Y":
		action := m.confirm.action
		m.state = m.confirm.returnState
		m.confirm = nil
		return m, action, true
	case "n", "N":
		m.state = m.confirm.returnState
		m.confirm = nil
		return m, nil, true
	}
	return m, nil, true
}

func (m *appModel) askConfirm(text string, action tea.Cmd) {
	m.confirm = &confirmPrompt{text: text, action: action, returnState: m.state}
	m.notice = ""
	m.state = stateConfirm
}

func (m appModel) confirmView() string {
	if m.confirm == nil {
		return ""
	}
	box := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("203"))
	return box.Render(m.confirm.text + "\n\n" + hint("y confirm • n cancel"))
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	m.notice = ""
	switch m.state {
	case stateVenueDetail:
		if len(m.venueList.Items()) == 0 {
			m.state = stateLoadingVenues
			return m, tea.Batch(m.fetchVenuesCmd(), m.spinner.Tick)
		}
		m.state = stateSelectVenue
	case stateSelectDate:
		m.state = stateVenueDetail
		if m.blocking {
			m.blocking = false
			m.state = stateOwnerCourts
		}
	case stateSlotGrid:
		m.slotCtx = slot.Context{}
		m.slotsLoading = false
		m.state = stateSelectDate
	case stateConfirmBooking:
		m.state = stateSlotGrid
	case statePaying:
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil
	case statePaymentResult, stateMyBookings, stateOwnerVenues, stateAdmin:
		m.state = stateSelectVenue
	case stateOwnerBookings, stateOwnerCourts:
		m.state = stateOwnerVenues
	case stateLogin:
		m.state = m.loginReturn
	case stateConfirm:
		if m.confirm != nil {
			m.state = m.confirm.returnState
			m.confirm = nil
		}
	case stateError:
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

// activeList is the list that receives typed filter text.
func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectVenue:
		return &m.venueList
	default:
		return nil
	}
}

// componentList is the list that receives navigation keys in the current state.
func (m *appModel) componentList() *list.Model {
	switch m.state {
	case stateSelectVenue:
		return &m.venueList
	case stateVenueDetail:
		return &m.courtList
	case stateSelectDate:
		return &m.dateList
	case stateMyBookings:
		return &m.bookingList
	case stateOwnerVenues:
		return &m.ownerList
	case stateOwnerBookings:
		return &m.ownerBooks
	case stateOwnerCourts:
		return &m.ownerCourts
	case stateAdmin:
		return &m.adminLists[m.adminTab]
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingVenues ||
		m.state == stateLoadingVenue ||
		m.state == stateSubmitting ||
		m.state == statePaying ||
		m.state == stateLoadingBookings ||
		m.state == stateLoadingOwner ||
		m.state == stateLoadingAdmin
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingVenues:
		title = "Loading venues"
	case stateLoadingVenue:
		title = "Loading venue"
	case stateSubmitting:
		title = "Placing booking"
	case stateLoadingBookings:
		title = "Loading bookings"
	case stateLoadingOwner:
		title = "Loading your venues"
	case stateLoadingAdmin:
		title = "Loading admin data"
	}

	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.venueList.SetSize(m.width, h)
	m.courtList.SetSize(m.width, h-4)
	m.dateList.SetSize(m.width, h)
	m.bookingList.SetSize(m.width, h)
	m.ownerList.SetSize(m.width, h)
	m.ownerCourts.SetSize(m.width, h)
	m.ownerBooks.SetSize(m.width, h)
	for i := range m.adminLists {
		m.adminLists[i].SetSize(m.width, h-2)
	}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

// newPlainList is a list whose letter keys are free for shortcuts.
func newPlainList(title string) list.Model {
	l := newList(title)
	l.SetFilteringEnabled(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingVenues, stateLoadingVenue, stateLoadingBookings, stateLoadingOwner, stateLoadingAdmin:
		return stateSelectVenue
	case stateSubmitting:
		return stateSlotGrid
	case stateError:
		return stateSelectVenue
	default:
		return state
	}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func displayName(u model.User) string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func formatPrice(price float64) string {
	if price <= 0 {
		return "-"
	}
	return fmt.Sprintf("₹%.2f", price)
}
