package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andeanfly/flightdesk/booking"
	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/flightapi"
)

var bookingCmd = &cobra.Command{
	Use:     "booking",
	Short:   "Create and manage bookings",
	Aliases: []string{"bookings"},
}

var bookingNewCmd = &cobra.Command{
	Use:   "new [FLIGHT_ID]",
	Short: "Start the interactive booking wizard for a flight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.session.IsAuthenticated() {
			return fmt.Errorf("you must be logged in to book. Run '%s auth login'", appName)
		}

		flight, err := a.api.FlightWithPricing(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		seats, err := a.api.AvailableSeats(cmd.Context(), flight.ID)
		if err != nil {
			return describeError(err)
		}
		if len(seats) == 0 {
			fmt.Println("This flight has no available seats.")
			return nil
		}

		draft := booking.NewDraft()
		draft.SelectFlight(*flight)

		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Booking %s: %s → %s, departing %s\n\n",
			flight.FlightNumber, flight.Origin, flight.Destination,
			flight.DepartureTime.Format("2006-01-02 15:04"))

		if err := runSeatStep(reader, draft, seats); err != nil {
			return err
		}
		if err := runPassengerStep(reader, draft); err != nil {
			return err
		}
		if err := runReviewStep(reader, draft); err != nil {
			return err
		}

		userID, err := a.session.UserID()
		if err != nil {
			return fmt.Errorf("could not determine user: %w", err)
		}
		created, err := a.api.CreateBooking(cmd.Context(), flightapi.CreateBookingRequest{
			FlightID:   flight.ID,
			UserID:     userID,
			Passengers: draft.Passengers(),
		})
		if err != nil {
			return describeError(err)
		}
		draft.AttachBooking(*created)

		fmt.Printf("\nBooking created. Reference: %s\n", created.BookingReference)
		// Draft.Amount applies the pricing fallback when the server omits
		// totalPrice, so the summary never shows $0.00.
		if total, err := draft.Amount(); err == nil {
			fmt.Printf("Total: $%.2f\n", total)
		}
		if !created.ExpiresAt.IsZero() {
			fmt.Printf("Complete payment within %s or the booking expires.\n",
				booking.FormatRemaining(booking.Remaining(time.Now(), created.ExpiresAt)))
			fmt.Printf("Run '%s payment init --booking %s' to pay.\n", appName, created.ID)
		}
		return nil
	},
}

func runSeatStep(reader *bufio.Reader, draft *booking.Draft, seats []domain.Seat) error {
	byNumber := make(map[string]domain.Seat, len(seats))
	fmt.Println("Available seats:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEAT\tCLASS\tPRICE")
	for _, s := range seats {
		byNumber[s.SeatNumber] = s
		fmt.Fprintf(w, "%s\t%s\t$%.2f\n", s.SeatNumber, s.Class, s.Price)
	}
	w.Flush()
	fmt.Println("\nType a seat number to select or deselect it; 'done' to continue.")

	for {
		fmt.Printf("[%s] seat> ", draft.Step())
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input := strings.TrimSpace(line)
		switch {
		case input == "done":
			if err := draft.Next(); err != nil {
				fmt.Println(err)
				continue
			}
			return nil
		case input == "":
			continue
		default:
			seat, ok := byNumber[input]
			if !ok {
				fmt.Printf("No seat %q on this flight.\n", input)
				continue
			}
			if err := draft.ToggleSeat(seat); err != nil {
				fmt.Println(err)
				continue
			}
			selected := draft.Seats()
			numbers := make([]string, len(selected))
			for i, s := range selected {
				numbers[i] = s.SeatNumber
			}
			fmt.Printf("Selected: %s\n", strings.Join(numbers, ", "))
		}
	}
}

func runPassengerStep(reader *bufio.Reader, draft *booking.Draft) error {
	need := len(draft.Seats())
	fmt.Printf("\nEnter details for %d passenger(s). Each passenger is assigned the next selected seat.\n", need)

	for len(draft.Passengers()) < need {
		n := len(draft.Passengers()) + 1
		fmt.Printf("\nPassenger %d of %d:\n", n, need)
		p := domain.Passenger{}
		p.FirstName = prompt(reader, "  First name: ")
		p.LastName = prompt(reader, "  Last name: ")
		p.DocumentType = domain.DocumentType(strings.ToUpper(prompt(reader, "  Document type (CEDULA/PASSPORT/RUC): ")))
		p.DocumentNumber = prompt(reader, "  Document number: ")
		if err := draft.AddPassenger(p); err != nil {
			fmt.Printf("  %v. Try again.\n", err)
		}
	}
	return draft.Next()
}

func runReviewStep(reader *bufio.Reader, draft *booking.Draft) error {
	fmt.Println("\nReview:")
	for _, p := range draft.Passengers() {
		fmt.Printf("  %s %s (%s %s), seat %s\n",
			p.FirstName, p.LastName, p.DocumentType, p.DocumentNumber, p.SeatNumber)
	}
	amount, err := draft.Amount()
	if err != nil {
		return err
	}
	fmt.Printf("  Total: $%.2f\n", amount)
	fmt.Print("\nConfirm booking? (yes/no): ")
	confirm, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(confirm)) != "yes" {
		return errors.New("booking cancelled")
	}
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

var bookingGetCmd = &cobra.Command{
	Use:   "get [BOOKING_ID]",
	Short: "Show a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		byRef, _ := cmd.Flags().GetBool("by-reference")
		var b *domain.Booking
		if byRef {
			b, err = a.api.BookingByReference(cmd.Context(), args[0])
		} else {
			b, err = a.api.Booking(cmd.Context(), args[0])
		}
		if err != nil {
			return describeError(err)
		}
		return printYAML(b)
	},
}

var bookingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your bookings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		userID, err := a.session.UserID()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		result, err := a.api.UserBookings(cmd.Context(), userID, page, size)
		if err != nil {
			return describeError(err)
		}
		if len(result.Content) == 0 {
			fmt.Println("No bookings found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "REFERENCE\tFLIGHT\tSTATUS\tTOTAL\tPASSENGERS")
		for _, b := range result.Content {
			fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%d\n",
				b.BookingReference, b.FlightID, b.Status, b.TotalPrice, len(b.Passengers))
		}
		w.Flush()
		fmt.Printf("\nPage %d of %d (%d total)\n", result.Number+1, result.TotalPages, result.TotalElements)
		return nil
	},
}

var bookingCancelCmd = &cobra.Command{
	Use:   "cancel [BOOKING_ID]",
	Short: "Cancel a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		b, err := a.api.CancelBooking(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Booking %s is now %s.\n", b.BookingReference, b.Status)
		return nil
	},
}

func printYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(bookingCmd)
	bookingCmd.AddCommand(bookingNewCmd)
	bookingCmd.AddCommand(bookingGetCmd)
	bookingCmd.AddCommand(bookingListCmd)
	bookingCmd.AddCommand(bookingCancelCmd)

	bookingGetCmd.Flags().Bool("by-reference", false, "look up by booking reference instead of ID")
	bookingListCmd.Flags().Int("page", 0, "page number")
	bookingListCmd.Flags().Int("size", 10, "page size")
}
