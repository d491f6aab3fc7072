package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/inventoryapi"
)

var movementsCmd = &cobra.Command{
	Use:     "movements",
	Short:   "Record and inspect stock movements",
	Aliases: []string{"movement"},
}

var movementsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a stock movement",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		productID, _ := cmd.Flags().GetString("product")
		movementType, _ := cmd.Flags().GetString("type")
		quantity, _ := cmd.Flags().GetInt("quantity")
		reason, _ := cmd.Flags().GetString("reason")

		if productID == "" {
			return fmt.Errorf("--product is required")
		}
		if quantity <= 0 {
			return fmt.Errorf("--quantity must be positive")
		}

		userID, err := a.session.UserID()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		created, err := a.api.CreateMovement(cmd.Context(), domain.Movement{
			ProductID: productID,
			Type:      domain.MovementType(strings.ToUpper(movementType)),
			Quantity:  quantity,
			Reason:    reason,
		}, userID)
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Movement %s recorded: %s %d on product %s.\n",
			created.ID, created.Type, created.Quantity, created.ProductID)
		return nil
	},
}

var movementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock movements",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		productID, _ := cmd.Flags().GetString("product")

		var result *inventoryapi.Page[domain.Movement]
		if productID != "" {
			result, err = a.api.MovementsByProduct(cmd.Context(), productID, page, size)
		} else {
			result, err = a.api.Movements(cmd.Context(), page, size)
		}
		if err != nil {
			return describeError(err)
		}
		if len(result.Content) == 0 {
			fmt.Println("No movements found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRODUCT\tTYPE\tQTY\tREASON\tWHEN")
		for _, m := range result.Content {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				m.ID, m.ProductID, m.Type, m.Quantity, m.Reason,
				m.CreatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
		fmt.Printf("\nPage %d of %d (%d total)\n", result.Number+1, result.TotalPages, result.TotalElements)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(movementsCmd)
	movementsCmd.AddCommand(movementsCreateCmd)
	movementsCmd.AddCommand(movementsListCmd)

	movementsCreateCmd.Flags().String("product", "", "product ID")
	movementsCreateCmd.Flags().String("type", string(domain.MovementIn), "movement type: IN, OUT or ADJUSTMENT")
	movementsCreateCmd.Flags().Int("quantity", 0, "movement quantity")
	movementsCreateCmd.Flags().String("reason", "", "reason for the movement")

	movementsListCmd.Flags().Int("page", 0, "page number")
	movementsListCmd.Flags().Int("size", 10, "page size")
	movementsListCmd.Flags().String("product", "", "only movements for this product")
}
