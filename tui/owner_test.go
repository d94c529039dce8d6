package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportzone-cli/booking"
	"sportzone-cli/config"
	"sportzone-cli/model"
	"sportzone-cli/service"
	"sportzone-cli/session"
	"sportzone-cli/slot"
)

type apiCall struct {
	method string
	path   string
	body   map[string]any
}

// fakeAPI answers every request with reply and records what was sent.
func fakeAPI(t *testing.T, status int, reply string) (*service.Client, func() []apiCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []apiCall
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{method: r.Method, path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&call.body)
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	client := service.FromConfig(config.Config{APIURL: server.URL, MaxAttempts: 3}, nil, nil)
	return client, func() []apiCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]apiCall(nil), calls...)
	}
}

func ownerModel(t *testing.T, client *service.Client) appModel {
	t.Helper()
	s := &session.Session{User: model.User{Id: 3, Username: "owner", Role: model.RoleVenueOwner}}
	m := New(Deps{
		Client:      client,
		Session:     s,
		Now:         func() time.Time { return testNow },
		SaveSession: func(session.Session) error { return nil },
	}).(appModel)
	venue := testVenue()
	m.ownerVenues = []model.Venue{venue}
	m.ownerList.SetItems(buildOwnerVenueItems(m.ownerVenues))
	m.ownerVenue = venue
	m.ownerCourts.SetItems(buildCourtItems(venue.Courts))
	m.state = stateOwnerCourts
	return m
}

func TestOwnerBlocksHours(t *testing.T) {
	client, calls := fakeAPI(t, http.StatusOK, `{"id": 40, "status": "BLOCKED"}`)
	m := ownerModel(t, client)

	m = press(t, m, key("b"))
	require.Equal(t, stateSelectDate, m.state)
	assert.True(t, m.blocking)
	assert.Equal(t, int64(7), m.court.Id)

	m = press(t, m, key("enter"), key("]"))
	require.Equal(t, stateSlotGrid, m.state)
	m = loadBooked(t, m, 9)
	m = press(t, m, key("enter"), key("right"), key("enter"), key("b"))
	require.Equal(t, stateConfirmBooking, m.state, m.notice)
	assert.Equal(t, model.BookingStatusBlocked, m.draft.Status)
	assert.Zero(t, m.draft.Amount)

	updated, cmd := m.Update(key("y"))
	m = updated.(appModel)
	require.NotNil(t, cmd)
	assert.Equal(t, stateSubmitting, m.state)

	msg := m.blockSlotCmd(m.draft)().(slotBlockedMsg)
	require.NoError(t, msg.err)
	sent := calls()
	require.Len(t, sent, 1)
	assert.Equal(t, http.MethodPost, sent[0].method)
	assert.Equal(t, "/api/bookings", sent[0].path)
	assert.Equal(t, "BLOCKED", sent[0].body["status"])
	assert.Equal(t, 0.0, sent[0].body["amount"])
	assert.Equal(t, 3.0, sent[0].body["userId"])
	assert.Equal(t, "2026-10-16T06:00:00", sent[0].body["startTime"])
	assert.Equal(t, "2026-10-16T08:00:00", sent[0].body["endTime"])

	updated, _ = m.Update(msg)
	m = updated.(appModel)
	assert.Equal(t, stateSlotGrid, m.state)
	assert.True(t, m.slotsLoading)
	assert.Contains(t, m.notice, "Blocked 06:00 - 08:00")

	m = press(t, m, key("esc"), key("esc"))
	assert.Equal(t, stateOwnerCourts, m.state)
	assert.False(t, m.blocking)
}

func TestOwnerBlock_TakenHoursReportConflict(t *testing.T) {
	client, calls := fakeAPI(t, http.StatusInternalServerError, `{"message": "This slot is already booked. Please choose another time."}`)
	m := ownerModel(t, client)
	draft, err := booking.Block(booking.Request{
		User:      m.session.User,
		Venue:     m.ownerVenue,
		Court:     m.ownerVenue.Courts[0],
		Date:      testNow.AddDate(0, 0, 1),
		Selection: slot.Range(10, 12),
	}, testNow)
	require.NoError(t, err)

	msg := m.blockSlotCmd(draft)().(slotBlockedMsg)
	require.Error(t, msg.err)
	assert.Contains(t, msg.err.Error(), "just booked")
	assert.Len(t, calls(), 1)
}

func TestOwnerShoppingResetsBlocking(t *testing.T) {
	m := ownerModel(t, nil)
	m = press(t, m, key("b"))
	require.True(t, m.blocking)

	m.openVenue(testVenue())
	assert.False(t, m.blocking)
}

func TestOwnerAddsCourt(t *testing.T) {
	client, calls := fakeAPI(t, http.StatusOK, `{"id": 1, "name": "Alpha Arena", "openTime": "06:00", "closeTime": "22:00",
		"courts": [{"id": 7, "name": "Court A", "sportType": "Tennis", "pricePerHour": 500},
		           {"id": 8, "name": "Court B", "sportType": "Badminton", "pricePerHour": 300},
		           {"id": 9, "name": "Court C", "sportType": "Squash", "pricePerHour": 350}]}`)
	m := ownerModel(t, client)

	m = press(t, m, key("n"))
	require.Equal(t, stateForm, m.state)
	require.NotNil(t, m.form)
	assert.Equal(t, formAddCourt, m.form.kind)

	m.form.inputs[0].SetValue("Court C")
	m.form.inputs[1].SetValue("Squash")
	m.form.inputs[2].SetValue("free")
	m = press(t, m, key("enter"), key("enter"), key("enter"))
	assert.Equal(t, stateForm, m.state)
	assert.Contains(t, m.form.err, "invalid price")

	m.form.inputs[2].SetValue("350")
	cmd, err := m.submitForm(m.form)
	require.NoError(t, err)
	msg := cmd().(formSavedMsg)
	require.NoError(t, msg.err)

	sent := calls()
	require.Len(t, sent, 1)
	assert.Equal(t, http.MethodPut, sent[0].method)
	assert.Equal(t, "/api/venues/1", sent[0].path)
	assert.Equal(t, []any{map[string]any{"name": "Court C", "sportType": "Squash", "pricePerHour": 350.0}}, sent[0].body["courts"])

	updated, _ := m.Update(msg)
	m = updated.(appModel)
	assert.Equal(t, stateOwnerCourts, m.state)
	assert.Nil(t, m.form)
	assert.Len(t, m.ownerCourts.Items(), 3)
	assert.Len(t, m.ownerVenues[0].Courts, 3)
	assert.Equal(t, "Court C added.", m.notice)
}

func TestOwnerVenueForms(t *testing.T) {
	client, calls := fakeAPI(t, http.StatusOK, `{"id": 1, "name": "Alpha Arena", "openTime": "07:00", "closeTime": "21:00"}`)
	m := ownerModel(t, client)
	m.state = stateOwnerVenues

	m = press(t, m, key("h"))
	require.Equal(t, stateForm, m.state)
	assert.Equal(t, "06:00", m.form.inputs[0].Value())
	assert.Equal(t, "22:00", m.form.inputs[1].Value())

	m.form.inputs[0].SetValue("21:00")
	m.form.inputs[1].SetValue("07:00")
	_, err := m.submitForm(m.form)
	assert.ErrorContains(t, err, "after opening")

	m.form.inputs[0].SetValue("7")
	m.form.inputs[1].SetValue("21:00")
	cmd, err := m.submitForm(m.form)
	require.NoError(t, err)
	updated, _ := m.Update(cmd())
	m = updated.(appModel)
	assert.Equal(t, stateOwnerVenues, m.state)
	assert.Equal(t, "07:00", m.ownerVenues[0].OpenTime)
	assert.Equal(t, map[string]any{"openTime": "07:00", "closeTime": "21:00"}, calls()[0].body)

	m = press(t, m, key("n"))
	require.Equal(t, formNewVenue, m.form.kind)
	m.form.inputs[0].SetValue("Metro Turf")
	m.form.inputs[1].SetValue("Pune")
	cmd, err = m.submitForm(m.form)
	require.NoError(t, err)
	msg := cmd().(formSavedMsg)
	require.NoError(t, msg.err)
	assert.NotNil(t, msg.next)
	created := calls()[1]
	assert.Equal(t, "/api/venues", created.path)
	assert.Equal(t, 3.0, created.body["ownerId"])
	assert.Equal(t, "06:00", created.body["openTime"])
	assert.Equal(t, "23:00", created.body["closeTime"])

	m = press(t, m, key("esc"))
	assert.Equal(t, stateOwnerVenues, m.state)
	assert.Nil(t, m.form)
}

func TestProfileForm_UpdatesSession(t *testing.T) {
	client, calls := fakeAPI(t, http.StatusOK, `{"id": 5, "username": "asha", "name": "Asha K", "role": "USER"}`)
	var saved session.Session
	s := &session.Session{User: model.User{Id: 5, Username: "asha", Name: "Asha", Role: model.RoleUser}, Token: "tkn"}
	m := New(Deps{
		Client:  client,
		Session: s,
		SaveSession: func(s session.Session) error {
			saved = s
			return nil
		},
	}).(appModel)
	m.state = stateSelectVenue

	_ = m.openProfileForm()
	require.Equal(t, stateForm, m.state)
	assert.Equal(t, "Asha", m.form.inputs[0].Value())

	m.form.inputs[0].SetValue(" ")
	m = press(t, m, key("enter"), key("enter"))
	assert.Equal(t, "name is required", m.form.err)

	m.form.inputs[0].SetValue("Asha K")
	m.form.inputs[1].SetValue("abc")
	_, err := m.submitForm(m.form)
	assert.ErrorContains(t, err, "6 characters")

	m.form.inputs[1].SetValue("s3cret-pass")
	cmd, err := m.submitForm(m.form)
	require.NoError(t, err)
	updated, _ := m.Update(cmd())
	m = updated.(appModel)

	assert.Equal(t, map[string]any{"name": "Asha K", "password": "s3cret-pass"}, calls()[0].body)
	assert.Equal(t, stateSelectVenue, m.state)
	assert.Equal(t, "Asha K", m.session.User.Name)
	assert.Equal(t, "tkn", m.session.BearerToken())
	assert.Equal(t, "Asha K", saved.User.Name)
	assert.Same(t, m.session, m.client.Session())
}

func TestAdminEditsBooking(t *testing.T) {
	client, calls := fakeAPI(t, http.StatusOK, `{"id": 4, "status": "CANCELLED"}`)
	s := &session.Session{User: model.User{Id: 1, Role: model.RoleAdmin}}
	m := New(Deps{Client: client, Session: s, Now: func() time.Time { return testNow }}).(appModel)
	start := time.Date(2026, 10, 16, 18, 0, 0, 0, time.Local)
	b := model.Booking{
		Id: 4, UserId: 2, CourtId: 7, VenueId: 1,
		StartTime: model.LocalTime{Time: start},
		EndTime:   model.LocalTime{Time: start.Add(2 * time.Hour)},
		Status:    model.BookingStatusConfirmed,
		Amount:    1000,
	}
	m.adminLists[adminBookings].SetItems(buildBookingItems([]model.Booking{b}, m.venueNames, nil))
	m.adminTab = adminBookings
	m.state = stateAdmin

	m = press(t, m, key("e"))
	require.Equal(t, stateForm, m.state)
	values := make([]string, 0, len(m.form.inputs))
	for _, in := range m.form.inputs {
		values = append(values, in.Value())
	}
	assert.Equal(t, []string{"2026-10-16", "18:00", "20:00", "CONFIRMED", "1000"}, values)

	m.form.inputs[3].SetValue("PAID")
	_, err := m.submitForm(m.form)
	assert.ErrorIs(t, err, booking.ErrUnknownState)

	m.form.inputs[1].SetValue("19")
	m.form.inputs[2].SetValue("21:00")
	m.form.inputs[3].SetValue("cancelled")
	m.form.inputs[4].SetValue("0")
	cmd, err := m.submitForm(m.form)
	require.NoError(t, err)
	msg := cmd().(formSavedMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, "Booking #4 updated.", msg.notice)

	sent := calls()
	require.Len(t, sent, 1)
	assert.Equal(t, http.MethodPut, sent[0].method)
	assert.Equal(t, "/api/bookings/4", sent[0].path)
	assert.Equal(t, "2026-10-16T19:00:00", sent[0].body["startTime"])
	assert.Equal(t, "2026-10-16T21:00:00", sent[0].body["endTime"])
	assert.Equal(t, "CANCELLED", sent[0].body["status"])
	assert.Equal(t, 7.0, sent[0].body["courtId"])
}
