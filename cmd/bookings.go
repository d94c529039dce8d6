package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sportzone-cli/booking"
	"sportzone-cli/checkout"
	"sportzone-cli/model"
	"sportzone-cli/service"
	"sportzone-cli/slot"
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List your bookings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession(current)
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		if page < 1 {
			page = 1
		}
		result, err := current.client.ListUserBookings(cmd.Context(), s.UserID(), page-1, service.BookingsPageSize)
		if err != nil {
			return err
		}
		if len(result.Content) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No bookings.")
			return nil
		}
		renderBookings(cmd.OutOrStdout(), result, nowFunc())
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <bookingID>",
	Short: "Cancel one of your bookings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(current); err != nil {
			return err
		}
		id, err := parseID("booking id", args[0])
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Cancel booking #%d", id),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
				return nil
			}
		}
		cancelled, err := current.client.CancelBooking(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Booking #%d is now %s.\n", id, cancelled.Status)
		return nil
	},
}

var bookCmd = &cobra.Command{
	Use:   "book <venueID> <courtID> <date> <from> <to>",
	Short: "Book a court from one hour to another and pay for it",
	Long: `Book hours [from, to) of a court on date (YYYY-MM-DD), then open the
checkout page and wait for the payment to complete.`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession(current)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		venue, court, date, err := resolveCourtDay(ctx, args[:3])
		if err != nil {
			return err
		}
		from, to, err := parseHours(args[3], args[4])
		if err != nil {
			return err
		}
		selector, err := loadSelector(ctx, venue, court, date)
		if err != nil {
			return err
		}
		sel := selectRange(selector, from, to)
		if sel != slot.Range(from, to) {
			return fmt.Errorf("%s - %s: %w", slot.Label(from), slot.Label(to), booking.ErrOverlap)
		}

		draft, err := booking.Build(booking.Request{
			User:      s.User,
			Venue:     venue,
			Court:     court,
			Date:      date,
			Selection: sel,
			Booked:    selector.Booked(),
		}, nowFunc())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Booking %s • %s • %s %s for %s\n",
			venue.Name, court.Name, date.Format(time.DateOnly), sel, formatPrice(draft.Amount))

		created, err := current.client.CreateBooking(ctx, draft)
		if err != nil {
			if service.IsConflict(err) {
				return fmt.Errorf("that slot was just taken, pick another time: %w", err)
			}
			return err
		}
		if created.Amount == 0 {
			created.Amount = draft.Amount
		}
		return pay(ctx, out, created)
	},
}

func init() {
	bookingsCmd.Flags().Int("page", 1, "page number, starting at 1")
	cancelCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func parseHours(rawFrom string, rawTo string) (int, int, error) {
	from, err := strconv.Atoi(strings.TrimSpace(rawFrom))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start hour %q", rawFrom)
	}
	to, err := strconv.Atoi(strings.TrimSpace(rawTo))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end hour %q", rawTo)
	}
	if from < 0 || to > 24 || to <= from {
		return 0, 0, fmt.Errorf("hours must satisfy 0 <= from < to <= 24, got %d-%d", from, to)
	}
	return from, to, nil
}

// selectRange clicks the first and last hour the way a shopper would. The
// result differs from [from, to) when a booked hour is in the way.
func selectRange(selector *slot.Selector, from int, to int) slot.Selection {
	selector.Clear()
	sel := selector.Click(from)
	if to-1 > from {
		sel = selector.Click(to - 1)
	}
	return sel
}

func pay(ctx context.Context, out io.Writer, created model.Booking) error {
	flow := checkout.NewFlow(current.client, current.cfg, current.logger)
	pending, err := flow.Start(ctx, created)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Booking #%d saved as %s. Complete the payment at:\n%s\n", created.Id, created.Status, pending.Link)
	if err := pending.Open(); err != nil {
		current.logger.Debug("open browser", zap.Error(err))
	}
	fmt.Fprintln(out, "Waiting for payment (ctrl+c to abandon)...")

	payment, err := pending.Wait(ctx)
	switch {
	case errors.Is(err, checkout.ErrTimeout):
		return fmt.Errorf("booking #%d was not paid in time", created.Id)
	case errors.Is(err, checkout.ErrPaymentFailed):
		return fmt.Errorf("payment for booking #%d was declined", created.Id)
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "Paid. Booking #%d is confirmed (order %s).\n", created.Id, payment.RazorpayOrderId)
	return nil
}

func renderBookings(out io.Writer, page model.Page[model.Booking], now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Venue", "Court", "Date", "Time", "Status", "Amount", ""})
	for _, b := range page.Content {
		when, hours := "-", "-"
		if !b.StartTime.IsZero() {
			when = b.StartTime.Format("Mon 02/01/2006")
			end := b.EndTime.Format("15:04")
			if !b.EndTime.IsZero() && b.EndTime.Day() != b.StartTime.Day() {
				end = slot.Label(slot.DefaultClose)
			}
			hours = b.StartTime.Format("15:04") + " - " + end
		}
		note := ""
		if b.Cancellable(now) {
			note = "cancellable"
		}
		t.AppendRow(table.Row{b.Id, b.VenueId, b.CourtId, when, hours, b.Status, formatPrice(b.Amount), note})
	}
	t.SetCaption("page %d of %d", page.Number+1, max(1, page.TotalPages))
	t.Render()
}
