package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sportzone-cli/model"
)

func at(day int, hour int) model.LocalTime {
	return model.LocalTime{Time: time.Date(2026, 3, day, hour, 0, 0, 0, time.Local)}
}

func TestBookedHoursFor(t *testing.T) {
	bookings := []model.Booking{
		{CourtId: 1, StartTime: at(10, 9), EndTime: at(10, 11), Status: model.BookingStatusConfirmed},
		{CourtId: 1, StartTime: at(10, 14), EndTime: at(10, 15), Status: model.BookingStatusPending},
		{CourtId: 1, StartTime: at(10, 16), EndTime: at(10, 18), Status: model.BookingStatusCancelled},
		{CourtId: 1, StartTime: at(11, 9), EndTime: at(11, 10), Status: model.BookingStatusConfirmed},
		{CourtId: 2, StartTime: at(10, 12), EndTime: at(10, 13), Status: model.BookingStatusConfirmed},
		{CourtId: 1, StartTime: at(10, 22), EndTime: at(11, 0), Status: model.BookingStatusBlocked},
	}

	booked := BookedHoursFor(bookings, 1, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local))
	assert.Equal(t, []int{9, 10, 14, 22, 23}, booked.Sorted())
}

func TestBookedHoursFor_Empty(t *testing.T) {
	booked := BookedHoursFor(nil, 1, time.Now())
	assert.Empty(t, booked.Sorted())
}

func TestContext(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 4, 0, 0, time.Local)
	ctx := NewContext(7, day)
	assert.Equal(t, Context{CourtID: 7, Date: "2026-03-10"}, ctx)
	assert.False(t, ctx.Empty())
	assert.True(t, Context{}.Empty())
	assert.NotEqual(t, ctx, NewContext(7, day.AddDate(0, 0, 1)))
}
