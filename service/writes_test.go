package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportzone-cli/model"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func recordingServer(t *testing.T, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestGetAndUpdateUser(t *testing.T) {
	server, calls := recordingServer(t, `{"id":5,"username":"asha","role":"VENUE_OWNER"}`)
	client := newTestClient(server)
	ctx := context.Background()

	user, err := client.GetUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.RoleVenueOwner, user.Role)

	_, err = client.UpdateUser(ctx, 5, model.ProfileUpdate{Name: " Asha K "})
	require.NoError(t, err)
	_, err = client.UpdateUser(ctx, 5, model.ProfileUpdate{Name: "Asha", Password: "n3w-secret"})
	require.NoError(t, err)

	_, err = client.UpdateUser(ctx, 0, model.ProfileUpdate{Name: "Asha"})
	assert.Error(t, err)
	_, err = client.UpdateUser(ctx, 5, model.ProfileUpdate{Name: "  "})
	assert.ErrorContains(t, err, "name")

	require.Len(t, *calls, 3)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
	assert.Equal(t, "/api/users/5", (*calls)[0].path)
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
	assert.Equal(t, map[string]any{"name": "Asha K"}, (*calls)[1].body)
	assert.Equal(t, map[string]any{"name": "Asha", "password": "n3w-secret"}, (*calls)[2].body)
}

func TestUpdateUserRole_SendsOnlyRole(t *testing.T) {
	server, calls := recordingServer(t, `{"id":9,"role":"ADMIN"}`)
	client := newTestClient(server)

	_, err := client.UpdateUserRole(context.Background(), 9, model.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Equal(t, map[string]any{"role": "ADMIN"}, (*calls)[0].body)
}

func TestCreateAndUpdateVenue(t *testing.T) {
	server, calls := recordingServer(t, `{"id":3,"name":"Metro Turf","location":"Pune"}`)
	client := newTestClient(server)
	ctx := context.Background()

	_, err := client.CreateVenue(ctx, model.Venue{Name: "Metro Turf"})
	assert.ErrorContains(t, err, "location")
	assert.Empty(t, *calls)

	created, err := client.CreateVenue(ctx, model.Venue{Name: "Metro Turf", Location: "Pune", OpenTime: "06:00", CloseTime: "23:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.Id)

	_, err = client.SetVenueHours(ctx, 3, "07:00", "22:00")
	require.NoError(t, err)

	_, err = client.AddCourt(ctx, 3, model.Court{Id: 99, Name: "Court C", SportType: "Tennis", PricePerHour: 450})
	require.NoError(t, err)
	_, err = client.AddCourt(ctx, 3, model.Court{Name: "Court D", SportType: "Tennis"})
	assert.ErrorContains(t, err, "price")

	require.Len(t, *calls, 3)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, "/api/venues", (*calls)[0].path)
	assert.Equal(t, "06:00", (*calls)[0].body["openTime"])
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
	assert.Equal(t, "/api/venues/3", (*calls)[1].path)
	assert.Equal(t, map[string]any{"openTime": "07:00", "closeTime": "22:00"}, (*calls)[1].body)
	assert.Equal(t, "/api/venues/3", (*calls)[2].path)
	assert.Equal(t, map[string]any{
		"courts": []any{map[string]any{"name": "Court C", "sportType": "Tennis", "pricePerHour": 450.0}},
	}, (*calls)[2].body)
}

func TestUpdateBooking(t *testing.T) {
	server, calls := recordingServer(t, `{"id":11,"status":"CONFIRMED"}`)
	client := newTestClient(server)
	start := time.Date(2026, 10, 16, 18, 0, 0, 0, time.Local)

	updated, err := client.UpdateBooking(context.Background(), model.Booking{
		Id:        11,
		StartTime: model.LocalTime{Time: start},
		EndTime:   model.LocalTime{Time: start.Add(time.Hour)},
		Status:    model.BookingStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, updated.Status)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/api/bookings/11", (*calls)[0].path)
	assert.Equal(t, "2026-10-16T18:00:00", (*calls)[0].body["startTime"])

	_, err = client.UpdateBooking(context.Background(), model.Booking{})
	assert.Error(t, err)
}

func TestCancelVenueAndCourtBookings(t *testing.T) {
	server, calls := recordingServer(t, ``)
	client := newTestClient(server)
	ctx := context.Background()

	require.NoError(t, client.CancelVenueBookings(ctx, 2))
	require.NoError(t, client.CancelCourtBookings(ctx, 7))
	require.NoError(t, client.DeleteCourt(ctx, 7))

	require.Len(t, *calls, 3)
	assert.Equal(t, "/api/bookings/venue/2/cancel", (*calls)[0].path)
	assert.Equal(t, "/api/bookings/court/7/cancel", (*calls)[1].path)
	assert.Equal(t, http.MethodDelete, (*calls)[2].method)
	assert.Equal(t, "/api/venues/courts/7", (*calls)[2].path)
}
