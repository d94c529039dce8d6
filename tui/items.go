package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"sportzone-cli/model"
	"sportzone-cli/slot"
	"sportzone-cli/store"
)

type venueItem struct {
	venue  model.Venue
	recent bool
}

func (v venueItem) Title() string {
	return v.venue.Name
}

func (v venueItem) Description() string {
	parts := []string{}
	if v.recent {
		parts = append(parts, "Recent")
	}
	if v.venue.Location != "" {
		parts = append(parts, v.venue.Location)
	}
	if sports := v.venue.Sports(); len(sports) > 0 {
		parts = append(parts, strings.Join(sports, ", "))
	}
	if low, ok := lowestRate(v.venue); ok {
		parts = append(parts, "from "+formatPrice(low)+"/h")
	}
	return strings.Join(parts, " • ")
}

func (v venueItem) FilterValue() string {
	return strings.ToLower(strings.Join(append([]string{v.venue.Name, v.venue.Location}, v.venue.Sports()...), " "))
}

func lowestRate(v model.Venue) (float64, bool) {
	low, ok := 0.0, false
	for _, c := range v.Courts {
		if c.PricePerHour <= 0 {
			continue
		}
		if !ok || c.PricePerHour < low {
			low, ok = c.PricePerHour, true
		}
	}
	return low, ok
}

// buildVenueItems lists recently opened venues first, then the rest by name.
func buildVenueItems(venues []model.Venue, recents []store.RecentVenue) []list.Item {
	byID := make(map[int64]model.Venue, len(venues))
	for _, v := range venues {
		byID[v.Id] = v
	}

	var items []list.Item
	used := map[int64]bool{}
	for _, recent := range recents {
		if v, ok := byID[recent.ID]; ok && !used[v.Id] {
			items = append(items, venueItem{venue: v, recent: true})
			used[v.Id] = true
		}
	}

	remaining := make([]model.Venue, 0, len(venues))
	for _, v := range venues {
		if !used[v.Id] {
			remaining = append(remaining, v)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		return strings.ToLower(remaining[i].Name) < strings.ToLower(remaining[j].Name)
	})
	for _, v := range remaining {
		items = append(items, venueItem{venue: v})
	}
	return items
}

type courtItem struct {
	court model.Court
}

func (c courtItem) Title() string {
	return c.court.Name
}

func (c courtItem) Description() string {
	return fmt.Sprintf("%s • %s/h", c.court.SportType, formatPrice(c.court.PricePerHour))
}

func (c courtItem) FilterValue() string {
	return strings.ToLower(c.court.Name + " " + c.court.SportType)
}

func buildCourtItems(courts []model.Court) []list.Item {
	items := make([]list.Item, 0, len(courts))
	for _, c := range courts {
		items = append(items, courtItem{court: c})
	}
	return items
}

type dateItem struct {
	date  time.Time
	today time.Time
}

func (d dateItem) Title() string {
	if isSameDay(d.date, d.today) {
		return fmt.Sprintf("%s • %s (Today)", d.date.Format("Mon"), d.date.Format("02/01"))
	}
	return fmt.Sprintf("%s • %s", d.date.Format("Mon"), d.date.Format("02/01"))
}

func (d dateItem) Description() string {
	return d.date.Format(time.DateOnly)
}

func (d dateItem) FilterValue() string {
	return d.Title()
}

// bookableDays is how far ahead the date picker reaches.
const bookableDays = 7

func buildDateItems(today time.Time) []list.Item {
	start := truncateDate(today)
	items := make([]list.Item, 0, bookableDays)
	for i := 0; i < bookableDays; i++ {
		items = append(items, dateItem{date: start.AddDate(0, 0, i), today: start})
	}
	return items
}

func isSameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type bookingItem struct {
	booking model.Booking
	venue   string
	court   string
}

func (b bookingItem) Title() string {
	venue := b.venue
	if venue == "" {
		venue = fmt.Sprintf("Venue #%d", b.booking.VenueId)
	}
	if b.court != "" {
		return venue + " • " + b.court
	}
	return venue
}

func (b bookingItem) Description() string {
	start, end := b.booking.StartTime, b.booking.EndTime
	when := "-"
	if !start.IsZero() {
		endLabel := end.Format("15:04")
		if !end.IsZero() && !isSameDay(start.Time, end.Time) {
			endLabel = slot.Label(slot.DefaultClose)
		}
		when = fmt.Sprintf("%s %s - %s", start.Format("Mon 02/01"), start.Format("15:04"), endLabel)
	}
	return strings.Join([]string{
		fmt.Sprintf("#%d", b.booking.Id),
		when,
		string(b.booking.Status),
		formatPrice(b.booking.Amount),
	}, " • ")
}

func (b bookingItem) FilterValue() string {
	return strings.ToLower(b.Title() + " " + string(b.booking.Status))
}

func buildBookingItems(bookings []model.Booking, venueNames map[int64]string, venues []model.Venue) []list.Item {
	courts := map[int64]string{}
	for _, v := range venues {
		for _, c := range v.Courts {
			courts[c.Id] = c.Name
		}
	}
	items := make([]list.Item, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookingItem{booking: b, venue: venueNames[b.VenueId], court: courts[b.CourtId]})
	}
	return items
}

type ownerVenueItem struct {
	venue model.Venue
}

func (o ownerVenueItem) Title() string {
	return o.venue.Name
}

func (o ownerVenueItem) Description() string {
	parts := []string{}
	if o.venue.Status != "" {
		parts = append(parts, string(o.venue.Status))
	}
	if o.venue.Location != "" {
		parts = append(parts, o.venue.Location)
	}
	parts = append(parts, fmt.Sprintf("%d courts", len(o.venue.Courts)))
	return strings.Join(parts, " • ")
}

func (o ownerVenueItem) FilterValue() string {
	return strings.ToLower(o.venue.Name + " " + o.venue.Location)
}

func buildOwnerVenueItems(venues []model.Venue) []list.Item {
	items := make([]list.Item, 0, len(venues))
	for _, v := range venues {
		items = append(items, ownerVenueItem{venue: v})
	}
	return items
}

type userItem struct {
	user model.User
}

func (u userItem) Title() string {
	return displayName(u.user)
}

func (u userItem) Description() string {
	return strings.Join([]string{fmt.Sprintf("#%d", u.user.Id), u.user.Email, string(u.user.Role)}, " • ")
}

func (u userItem) FilterValue() string {
	return strings.ToLower(u.user.Username + " " + u.user.Email)
}

func buildUserItems(users []model.User) []list.Item {
	sorted := append([]model.User(nil), users...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id < sorted[j].Id })
	items := make([]list.Item, 0, len(sorted))
	for _, u := range sorted {
		items = append(items, userItem{user: u})
	}
	return items
}
