package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/booking"
	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/flightapi"
)

// paymentPollInterval is how often the wait loop re-checks the payment
// while the booking hold counts down.
const paymentPollInterval = 5 * time.Second

var paymentCmd = &cobra.Command{
	Use:     "payment",
	Short:   "Pay for bookings",
	Aliases: []string{"payments"},
}

var paymentInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a payment for a booking",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		bookingID, _ := cmd.Flags().GetString("booking")
		method, _ := cmd.Flags().GetString("method")
		currency, _ := cmd.Flags().GetString("currency")
		amount, _ := cmd.Flags().GetFloat64("amount")
		wait, _ := cmd.Flags().GetBool("wait")

		if bookingID == "" {
			return fmt.Errorf("--booking is required")
		}

		b, err := a.api.Booking(cmd.Context(), bookingID)
		if err != nil {
			return describeError(err)
		}
		if amount <= 0 {
			amount = b.TotalPrice
		}
		if amount <= 0 {
			// The server omitted totalPrice: fall back to the flight's
			// current pricing, the same way the review step prices a draft.
			flight, err := a.api.FlightWithPricing(cmd.Context(), b.FlightID)
			if err != nil {
				return describeError(err)
			}
			amount, err = booking.AmountDue(*b, *flight)
			if err != nil {
				return err
			}
		}

		userID, err := a.session.UserID()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		attempt := flightapi.NewPaymentAttempt()
		payment, err := a.api.InitiatePayment(cmd.Context(), flightapi.InitiatePaymentRequest{
			BookingID: b.ID,
			Amount:    amount,
			Currency:  currency,
			Method:    domain.PaymentMethod(method),
		}, userID, attempt)
		if err != nil {
			return describeError(err)
		}

		fmt.Printf("Payment %s created (%s, $%.2f %s).\n", payment.ID, payment.Status, payment.Amount, payment.Currency)
		if payment.ApprovalURL != "" {
			fmt.Println("Approve the payment in your browser:")
			fmt.Println("  " + payment.ApprovalURL)
		}
		if !wait {
			if !b.ExpiresAt.IsZero() {
				fmt.Printf("The booking hold expires in %s.\n",
					booking.FormatRemaining(booking.Remaining(time.Now(), b.ExpiresAt)))
			}
			return nil
		}
		return waitForPayment(cmd.Context(), a, b)
	},
}

// waitForPayment renders the hold countdown while polling the payments
// service until the payment settles or the hold runs out.
func waitForPayment(ctx context.Context, a *app, b *domain.Booking) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan struct{})
	countdown := &booking.Countdown{
		ExpiresAt: b.ExpiresAt,
		OnTick: func(remaining time.Duration) {
			fmt.Printf("\rTime remaining: %s  ", booking.FormatRemaining(remaining))
		},
		OnExpire: func() {
			close(expired)
		},
	}
	countdown.Start(waitCtx)
	defer countdown.Stop()

	ticker := time.NewTicker(paymentPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-waitCtx.Done():
			fmt.Println()
			return waitCtx.Err()
		case <-expired:
			fmt.Println()
			fmt.Println("The booking hold expired before payment completed.")
			return nil
		case <-ticker.C:
			payment, err := a.api.PaymentByBooking(waitCtx, b.ID)
			if err != nil {
				continue
			}
			switch payment.Status {
			case domain.PaymentCompleted:
				fmt.Println()
				confirmed, cerr := a.api.ConfirmBooking(waitCtx, b.ID, payment.ID)
				if cerr != nil {
					fmt.Printf("Payment completed, but confirming booking %s failed: %v\n",
						b.BookingReference, describeError(cerr))
					return nil
				}
				fmt.Printf("Payment completed. Booking %s is %s.\n", confirmed.BookingReference, confirmed.Status)
				return nil
			case domain.PaymentFailed, domain.PaymentCancelled:
				fmt.Println()
				fmt.Printf("Payment ended with status %s.\n", payment.Status)
				return nil
			}
		}
	}
}

var paymentCaptureCmd = &cobra.Command{
	Use:   "capture [PAYPAL_ORDER_ID]",
	Short: "Capture an approved PayPal order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		payment, err := a.api.CapturePayment(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Payment %s is now %s.\n", payment.ID, payment.Status)

		if payment.Status == domain.PaymentCompleted && payment.BookingID != "" {
			confirmed, err := a.api.ConfirmBooking(cmd.Context(), payment.BookingID, payment.ID)
			if err != nil {
				return describeError(err)
			}
			fmt.Printf("Booking %s is now %s.\n", confirmed.BookingReference, confirmed.Status)
		}
		return nil
	},
}

var paymentGetCmd = &cobra.Command{
	Use:   "get [PAYMENT_ID]",
	Short: "Show a payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		byBooking, _ := cmd.Flags().GetBool("by-booking")
		var p *domain.Payment
		if byBooking {
			p, err = a.api.PaymentByBooking(cmd.Context(), args[0])
		} else {
			p, err = a.api.Payment(cmd.Context(), args[0])
		}
		if err != nil {
			return describeError(err)
		}
		return printYAML(p)
	},
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your payments",
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
		result, err := a.api.UserPayments(cmd.Context(), userID, page, size)
		if err != nil {
			return describeError(err)
		}
		if len(result.Content) == 0 {
			fmt.Println("No payments found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tBOOKING\tMETHOD\tSTATUS\tAMOUNT")
		for _, p := range result.Content {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.2f %s\n",
				p.ID, p.BookingID, p.Method, p.Status, p.Amount, p.Currency)
		}
		w.Flush()
		return nil
	},
}

var paymentCancelCmd = &cobra.Command{
	Use:   "cancel [PAYMENT_ID]",
	Short: "Cancel a pending payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.api.CancelPayment(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Payment %s is now %s.\n", p.ID, p.Status)
		return nil
	},
}

var paymentRefundCmd = &cobra.Command{
	Use:   "refund [PAYMENT_ID]",
	Short: "Refund a completed payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		reason, _ := cmd.Flags().GetString("reason")
		p, err := a.api.RefundPayment(cmd.Context(), args[0], reason)
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Payment %s is now %s.\n", p.ID, p.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(paymentCmd)
	paymentCmd.AddCommand(paymentInitCmd)
	paymentCmd.AddCommand(paymentCaptureCmd)
	paymentCmd.AddCommand(paymentGetCmd)
	paymentCmd.AddCommand(paymentListCmd)
	paymentCmd.AddCommand(paymentCancelCmd)
	paymentCmd.AddCommand(paymentRefundCmd)

	paymentInitCmd.Flags().String("booking", "", "booking ID to pay for")
	paymentInitCmd.Flags().String("method", string(domain.PaymentMethodPayPal), "payment method: PAYPAL, CREDIT_CARD or DEBIT_CARD")
	paymentInitCmd.Flags().String("currency", "USD", "payment currency")
	paymentInitCmd.Flags().Float64("amount", 0, "override the amount charged")
	paymentInitCmd.Flags().Bool("wait", false, "wait for the payment, showing the booking hold countdown")

	paymentGetCmd.Flags().Bool("by-booking", false, "look up by booking ID instead of payment ID")
}
