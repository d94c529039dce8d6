package slot

import (
	"sort"
	"time"

	"golang.org/x/exp/maps"

	"sportzone-cli/model"
)

// BookedHours is the set of hours already reserved on a court for one day.
type BookedHours map[int]bool

func NewBookedHours(hours ...int) BookedHours {
	b := make(BookedHours, len(hours))
	for _, h := range hours {
		b[h] = true
	}
	return b
}

func (b BookedHours) Has(h int) bool {
	return b[h]
}

// Sorted returns the booked hours in ascending order.
func (b BookedHours) Sorted() []int {
	hours := maps.Keys(b)
	sort.Ints(hours)
	return hours
}

// AnyIn reports whether any hour in [from, to) is booked.
func (b BookedHours) AnyIn(from int, to int) bool {
	for h := from; h < to; h++ {
		if b[h] {
			return true
		}
	}
	return false
}

// BookedHoursFor expands the non-cancelled bookings of courtID that start on
// date into individual hour units.
func BookedHoursFor(bookings []model.Booking, courtID int64, date time.Time) BookedHours {
	booked := BookedHours{}
	day := date.Format(time.DateOnly)
	for _, b := range bookings {
		if b.CourtId != courtID || !b.Status.Active() {
			continue
		}
		if b.StartTime.IsZero() || b.StartTime.Format(time.DateOnly) != day {
			continue
		}
		start := b.StartTime.Hour()
		end := b.EndTime.Hour()
		if b.EndTime.Format(time.DateOnly) != day {
			end = DefaultClose
		}
		for h := start; h < end; h++ {
			booked[h] = true
		}
	}
	return booked
}

// Context identifies the court and day a booked-hours set was fetched for.
// Results tagged with a context other than the current one are stale.
type Context struct {
	CourtID int64
	Date    string
}

func NewContext(courtID int64, date time.Time) Context {
	return Context{CourtID: courtID, Date: date.Format(time.DateOnly)}
}

func (c Context) Empty() bool {
	return c.CourtID == 0 || c.Date == ""
}
