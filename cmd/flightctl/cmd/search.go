package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search flights",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		origin, _ := cmd.Flags().GetString("origin")
		destination, _ := cmd.Flags().GetString("destination")
		date, _ := cmd.Flags().GetString("date")
		returnDate, _ := cmd.Flags().GetString("return")
		passengers, _ := cmd.Flags().GetInt("passengers")
		sortBy, _ := cmd.Flags().GetString("sort")
		orderFlag, _ := cmd.Flags().GetString("order")
		maxPrice, _ := cmd.Flags().GetFloat64("max-price")
		departure, _ := cmd.Flags().GetString("departure")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		if origin == "" || destination == "" || date == "" {
			return fmt.Errorf("--origin, --destination and --date are required")
		}

		params := search.Params{
			Origin:        origin,
			Destination:   destination,
			DepartureDate: date,
			ReturnDate:    returnDate,
			Passengers:    passengers,
		}

		cache := search.NewCache(search.DefaultCacheTTL)
		defer cache.Stop()

		results, hit := cache.Get(params)
		if !hit || noCache {
			results, err = a.api.SearchFlights(cmd.Context(), params)
			if err != nil {
				return describeError(err)
			}
			cache.Set(params, results)
		}

		store := search.NewStore()
		store.SetParams(params)
		store.SetResults(results)

		order := search.Asc
		if orderFlag == string(search.Desc) {
			order = search.Desc
		}
		switch sortBy {
		case "price":
			store.SortByPrice(order)
		case "duration":
			store.SortByDuration(order)
		case "":
		default:
			return fmt.Errorf("unknown sort key %q (use price or duration)", sortBy)
		}

		view := store.Results()
		if maxPrice > 0 {
			store.SetResults(view)
			view = store.FilterByMaxPrice(maxPrice)
		}
		if departure != "" {
			store.SetResults(view)
			view = store.FilterByDeparture(search.TimeBucket(departure))
		}

		if len(view) == 0 {
			fmt.Printf("No flights found from %s to %s on %s.\n", origin, destination, date)
			return nil
		}
		printFlights(view)
		return nil
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop the search service's cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.api.ClearSearchCache(cmd.Context()); err != nil {
			return describeError(err)
		}
		fmt.Println("Search cache cleared.")
		return nil
	},
}

func printFlights(flights []domain.Flight) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FLIGHT\tROUTE\tDEPARTURE\tDURATION\tPRICE\tSEATS")
	for _, f := range flights {
		price := f.CurrentPrice
		if price == 0 {
			price = f.BasePrice
		}
		fmt.Fprintf(w, "%s\t%s → %s\t%s\t%dm\t$%.2f\t%d\n",
			f.FlightNumber, f.Origin, f.Destination,
			f.DepartureTime.Format("2006-01-02 15:04"),
			f.DurationMinutes, price, f.AvailableSeats)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.AddCommand(clearCacheCmd)

	searchCmd.Flags().String("origin", "", "origin airport code")
	searchCmd.Flags().String("destination", "", "destination airport code")
	searchCmd.Flags().String("date", "", "departure date (YYYY-MM-DD)")
	searchCmd.Flags().String("return", "", "return date for round trips (YYYY-MM-DD)")
	searchCmd.Flags().Int("passengers", 1, "number of passengers")
	searchCmd.Flags().String("sort", "", "sort by: price or duration")
	searchCmd.Flags().String("order", "asc", "sort order: asc or desc")
	searchCmd.Flags().Float64("max-price", 0, "only show flights at or below this price")
	searchCmd.Flags().String("departure", "", "departure window: morning, afternoon, evening or night")
	searchCmd.Flags().Bool("no-cache", false, "bypass the client-side result cache")
}
