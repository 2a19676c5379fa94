package cmd

import (
	"fmt"

	"myCatalog/business/compare"
	"myCatalog/domain"

	"github.com/spf13/cobra"
)

var topSpecsCmd = &cobra.Command{
	Use:   "top-specs",
	Short: "List the most common specifications in a catalog file.",
	Long: `List the specification names that appear most often, with every value seen.

These are the facets a category filter would offer.

Examples:
  catalog top-specs --file catalog.json --category-id 1 -n 5`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		categoryID, _ := cmd.Flags().GetUint64("category-id")
		n, _ := cmd.Flags().GetInt("limit")

		catalog, err := readCatalog(file)
		if err != nil {
			return err
		}

		products := catalog.snapshots()
		if categoryID != 0 {
			filtered := make([]domain.ProductSnapshot, 0, len(products))
			for _, p := range products {
				if p.CategoryID == categoryID {
					filtered = append(filtered, p)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("no products in category %d", categoryID)
			}
			products = filtered
		}

		specs := compare.NewSpecificationIndex(products).TopFrequentSpecs(n)
		return writeTopSpecs(cmd.OutOrStdout(), specs)
	},
}

func bindTopSpecsFlags() {
	topSpecsCmd.Flags().String("file", "catalog.json", "Catalog JSON file")
	topSpecsCmd.Flags().Uint64("category-id", 0, "Only consider products of this category")
	topSpecsCmd.Flags().IntP("limit", "n", 8, "Number of specifications to list")
}
