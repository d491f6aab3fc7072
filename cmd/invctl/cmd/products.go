package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/inventoryapi"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Short:   "Manage the product catalog",
	Aliases: []string{"product"},
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		keyword, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		lowStock, _ := cmd.Flags().GetBool("low-stock")

		var result *inventoryapi.Page[domain.Product]
		switch {
		case lowStock:
			result, err = a.api.LowStockProducts(cmd.Context(), page, size)
		case keyword != "":
			result, err = a.api.SearchProducts(cmd.Context(), keyword, page, size)
		case category != "":
			result, err = a.api.ProductsByCategory(cmd.Context(), category, page, size)
		default:
			result, err = a.api.Products(cmd.Context(), page, size)
		}
		if err != nil {
			return describeError(err)
		}
		if len(result.Content) == 0 {
			fmt.Println("No products found.")
			return nil
		}
		printProducts(result.Content)
		fmt.Printf("\nPage %d of %d (%d total)\n", result.Number+1, result.TotalPages, result.TotalElements)
		return nil
	},
}

func printProducts(products []domain.Product) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		stock := fmt.Sprintf("%d", p.Stock)
		if p.MinStock > 0 && p.Stock <= p.MinStock {
			stock += " (low)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%s\n", p.ID, p.Name, p.Category, p.Price, stock)
	}
	w.Flush()
}

var productsGetCmd = &cobra.Command{
	Use:   "get [PRODUCT_ID]",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.api.Product(cmd.Context(), args[0])
		if err != nil {
			return describeError(err)
		}
		return printYAML(p)
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product, optionally uploading its image",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		product, err := productFromFlags(cmd)
		if err != nil {
			return err
		}
		imagePath, _ := cmd.Flags().GetString("image")
		bucket, _ := cmd.Flags().GetString("bucket")

		userID, err := a.session.UserID()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		created, err := a.api.CreateProduct(cmd.Context(), product, bucket, userID)
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Product %s created.\n", created.ID)

		// The create response carries a presigned URL; the image bytes go
		// straight to object storage, not through the gateway.
		if imagePath != "" {
			if created.UploadURL == "" {
				return fmt.Errorf("product created but no upload URL was returned; image not uploaded")
			}
			f, err := os.Open(imagePath)
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer f.Close()
			if err := a.api.UploadImage(cmd.Context(), created.UploadURL, imageContentType(imagePath), f); err != nil {
				return fmt.Errorf("product created but image upload failed: %w", err)
			}
			fmt.Println("Image uploaded.")
		}
		return nil
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update [PRODUCT_ID]",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		product, err := productFromFlags(cmd)
		if err != nil {
			return err
		}
		userID, err := a.session.UserID()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		updated, err := a.api.UpdateProduct(cmd.Context(), args[0], product, userID)
		if err != nil {
			return describeError(err)
		}
		fmt.Printf("Product %s updated.\n", updated.ID)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete [PRODUCT_ID]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.api.DeleteProduct(cmd.Context(), args[0]); err != nil {
			return describeError(err)
		}
		fmt.Printf("Product %s deleted.\n", args[0])
		return nil
	},
}

func productFromFlags(cmd *cobra.Command) (domain.Product, error) {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	price, _ := cmd.Flags().GetFloat64("price")
	stock, _ := cmd.Flags().GetInt("stock")
	minStock, _ := cmd.Flags().GetInt("min-stock")

	if name == "" {
		return domain.Product{}, fmt.Errorf("--name is required")
	}
	return domain.Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Stock:       stock,
		MinStock:    minStock,
	}, nil
}

func imageContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func addProductFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "product name")
	cmd.Flags().String("description", "", "product description")
	cmd.Flags().String("category", "", "product category")
	cmd.Flags().Float64("price", 0, "unit price")
	cmd.Flags().Int("stock", 0, "stock on hand")
	cmd.Flags().Int("min-stock", 0, "low-stock threshold")
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsGetCmd)
	productsCmd.AddCommand(productsCreateCmd)
	productsCmd.AddCommand(productsUpdateCmd)
	productsCmd.AddCommand(productsDeleteCmd)

	productsListCmd.Flags().Int("page", 0, "page number")
	productsListCmd.Flags().Int("size", 10, "page size")
	productsListCmd.Flags().String("search", "", "search products by keyword")
	productsListCmd.Flags().String("category", "", "filter by category")
	productsListCmd.Flags().Bool("low-stock", false, "only products at or below their low-stock threshold")

	addProductFlags(productsCreateCmd)
	productsCreateCmd.Flags().String("image", "", "path to a product image to upload")
	productsCreateCmd.Flags().String("bucket", inventoryapi.DefaultBucket, "object storage bucket for the image")
	addProductFlags(productsUpdateCmd)
}
