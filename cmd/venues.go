package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sportzone-cli/model"
	"sportzone-cli/service"
	"sportzone-cli/slot"
	"sportzone-cli/store"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List venues",
	Long:  `List every venue, or only those matching --location or near you.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		near, _ := cmd.Flags().GetBool("near")
		ctx := cmd.Context()
		var (
			venues []model.Venue
			err    error
		)
		switch {
		case near:
			var place service.Place
			place, venues, err = current.client.NearbyVenues(ctx)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Venues near %s\n", place)
			}
		case strings.TrimSpace(location) != "":
			venues, err = current.client.SearchVenues(ctx, location)
		default:
			venues, err = current.client.ListVenues(ctx)
		}
		if err != nil {
			return err
		}
		if len(venues) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No venues found.")
			return nil
		}
		recents, _ := store.LoadRecentVenues()
		renderVenues(cmd.OutOrStdout(), venues, recents)
		return nil
	},
}

var venueCmd = &cobra.Command{
	Use:   "venue <id>",
	Short: "Show a venue and its courts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("venue id", args[0])
		if err != nil {
			return err
		}
		venue, err := current.client.GetVenue(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := store.RememberVenue(venue); err != nil {
			current.logger.Debug("remember venue", zap.Error(err))
		}
		renderVenue(cmd.OutOrStdout(), venue)
		return nil
	},
}

var slotsCmd = &cobra.Command{
	Use:   "slots <venueID> <courtID> [date]",
	Short: "Show free and booked hours of a court",
	Long:  `Show the hourly availability of a court for a date (YYYY-MM-DD, default today).`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		venue, court, date, err := resolveCourtDay(cmd.Context(), args)
		if err != nil {
			return err
		}
		selector, err := loadSelector(cmd.Context(), venue, court, date)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s • %s • %s\n", venue.Name, court.Name, date.Format(time.DateOnly))
		renderSlots(cmd.OutOrStdout(), selector, date, nowFunc())
		return nil
	},
}

func init() {
	venuesCmd.Flags().String("location", "", "only venues in this location")
	venuesCmd.Flags().Bool("near", false, "only venues in the city your IP address resolves to")
	venuesCmd.MarkFlagsMutuallyExclusive("location", "near")
}

func parseID(what string, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}

// resolveCourtDay reads "<venueID> <courtID> [date]" and loads the venue.
func resolveCourtDay(ctx context.Context, args []string) (model.Venue, model.Court, time.Time, error) {
	venueID, err := parseID("venue id", args[0])
	if err != nil {
		return model.Venue{}, model.Court{}, time.Time{}, err
	}
	courtID, err := parseID("court id", args[1])
	if err != nil {
		return model.Venue{}, model.Court{}, time.Time{}, err
	}
	now := nowFunc()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if len(args) > 2 {
		if date, err = parseDate(args[2]); err != nil {
			return model.Venue{}, model.Court{}, time.Time{}, err
		}
	}

	venue, err := current.client.GetVenue(ctx, venueID)
	if err != nil {
		return model.Venue{}, model.Court{}, time.Time{}, err
	}
	court, ok := venue.Court(courtID)
	if !ok {
		return model.Venue{}, model.Court{}, time.Time{}, fmt.Errorf("venue %s has no court %d", venue.Name, courtID)
	}
	return venue, court, date, nil
}

func loadSelector(ctx context.Context, venue model.Venue, court model.Court, date time.Time) (*slot.Selector, error) {
	bookings, err := current.client.ListCourtBookings(ctx, court.Id)
	if err != nil {
		return nil, err
	}
	window := slot.ParseWindow(venue.OpenTime, venue.CloseTime)
	return slot.NewSelector(window, slot.BookedHoursFor(bookings, court.Id, date)), nil
}

// renderVenues prints venues by name, marking the ones opened recently.
func renderVenues(out io.Writer, venues []model.Venue, recents []store.RecentVenue) {
	sorted := append([]model.Venue(nil), venues...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Venue", "Location", "Sports", "Hours", "Courts"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 28},
		{Number: 4, WidthMax: 30},
	})
	for _, v := range sorted {
		window := slot.ParseWindow(v.OpenTime, v.CloseTime)
		name := v.Name
		if store.IsRecentVenue(v, recents) {
			name = "★ " + name
		}
		t.AppendRow(table.Row{
			v.Id,
			name,
			v.Location,
			strings.Join(v.Sports(), ", "),
			slot.Label(window.Open) + " - " + slot.Label(window.Close),
			len(v.Courts),
		})
	}
	t.Render()
}

func renderVenue(out io.Writer, venue model.Venue) {
	fmt.Fprintf(out, "%s (#%d)\n", venue.Name, venue.Id)
	if venue.Location != "" {
		fmt.Fprintln(out, venue.Location)
	}
	if venue.Description != "" {
		fmt.Fprintln(out, venue.Description)
	}
	window := slot.ParseWindow(venue.OpenTime, venue.CloseTime)
	fmt.Fprintf(out, "Open %s - %s\n\n", slot.Label(window.Open), slot.Label(window.Close))

	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Sport", "Court ID", "Court", "Price/h"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	t.Style().Options.SeparateRows = true
	for _, sport := range venue.Sports() {
		for _, c := range venue.CourtsFor(sport) {
			t.AppendRow(table.Row{sport, c.Id, c.Name, formatPrice(c.PricePerHour)}, rowConfigAutoMerge)
		}
	}
	t.Render()
}

// renderSlots prints one row per hour of the window. Hours that already
// started on date are marked as past.
func renderSlots(out io.Writer, selector *slot.Selector, date time.Time, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Hour", "Status"})
	for _, cell := range selector.Cells() {
		status := cell.State.String()
		start := time.Date(date.Year(), date.Month(), date.Day(), cell.Hour, 0, 0, 0, time.Local)
		if cell.State != slot.CellBooked && !start.After(now) {
			status = "past"
		}
		t.AppendRow(table.Row{slot.Label(cell.Hour) + " - " + slot.Label(cell.Hour+1), status})
	}
	t.Render()
}

func formatPrice(price float64) string {
	if price <= 0 {
		return "-"
	}
	return fmt.Sprintf("₹%.2f", price)
}
