package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flightsCmd = &cobra.Command{
	Use:     "flights",
	Short:   "Browse the flight catalog",
	Aliases: []string{"flight"},
}

var flightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List flights",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		result, err := a.api.Flights(cmd.Context(), page, size)
		if err != nil {
			return describeError(err)
		}
		if len(result.Content) == 0 {
			fmt.Println("No flights found.")
			return nil
		}
		printFlights(result.Content)
		fmt.Printf("\nPage %d of %d (%d total)\n", result.Number+1, result.TotalPages, result.TotalElements)
		return nil
	},
}

var flightsGetCmd = &cobra.Command{
	Use:   "get [FLIGHT_ID]",
	Short: "Show a flight with live pricing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.api.FlightWithPricing(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		return printYAML(f)
	},
}

var flightsSeatsCmd = &cobra.Command{
	Use:   "seats [FLIGHT_ID]",
	Short: "List available seats on a flight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		seats, err := a.api.AvailableSeats(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		if len(seats) == 0 {
			fmt.Println("No seats available.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SEAT\tCLASS\tPRICE")
		for _, s := range seats {
			fmt.Fprintf(w, "%s\t%s\t$%.2f\n", s.SeatNumber, s.Class, s.Price)
		}
		w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flightsCmd)
	flightsCmd.AddCommand(flightsListCmd)
	flightsCmd.AddCommand(flightsGetCmd)
	flightsCmd.AddCommand(flightsSeatsCmd)

	flightsListCmd.Flags().Int("page", 0, "page number")
	flightsListCmd.Flags().Int("size", 10, "page size")
}
