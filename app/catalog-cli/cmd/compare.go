package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"myCatalog/business/compare"
	"myCatalog/domain"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare 2 or 3 products from a catalog file.",
	Long: `Compare 2 or 3 products of the same category side by side.

Prints the specification table, the similarity score of the selection and the
best choice with the reasons it won.

Examples:
  # Compare two laptops
  catalog compare --file catalog.json --ids 1,2

  # Favour price over everything else
  catalog compare --file catalog.json --ids 1,2,3 --weight-price 60 --weight-rating 10`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		rawIDs, _ := cmd.Flags().GetStringSlice("ids")

		ids, err := parseIDs(rawIDs)
		if err != nil {
			return err
		}

		weights, err := weightsFromConfig()
		if err != nil {
			return err
		}

		catalog, err := readCatalog(file)
		if err != nil {
			return err
		}

		selection, err := buildSelection(catalog.snapshots(), ids)
		if err != nil {
			return err
		}

		items := selection.Items()
		similarity, err := compare.SelectionSimilarity(items)
		if err != nil {
			return err
		}

		ranking, err := compare.NewRanker(weights).RankAll(items)
		if err != nil {
			return err
		}

		rows := compare.NewSpecificationIndex(items).Table(items)
		return writeComparison(cmd.OutOrStdout(), items, similarity, ranking, rows)
	},
}

func bindCompareFlags() {
	compareCmd.Flags().String("file", "catalog.json", "Catalog JSON file")
	compareCmd.Flags().StringSlice("ids", nil, "Product ids to compare (2 or 3)")

	defaults := compare.DefaultWeights()
	compareCmd.Flags().Float64("weight-price", defaults.Price, "Weight of the price criterion")
	compareCmd.Flags().Float64("weight-rating", defaults.Rating, "Weight of the rating criterion")
	compareCmd.Flags().Float64("weight-reviews", defaults.ReviewCount, "Weight of the review count criterion")
	compareCmd.Flags().Float64("weight-specs", defaults.Specification, "Weight of the specification count criterion")
	compareCmd.Flags().Float64("weight-features", defaults.Feature, "Weight of the feature count criterion")
	for _, key := range []string{"weight-price", "weight-rating", "weight-reviews", "weight-specs", "weight-features"} {
		if err := viper.BindPFlag(key, compareCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("error binding compare flag %s: %v", key, err))
		}
	}
}

func weightsFromConfig() (compare.Weights, error) {
	weights := compare.Weights{
		Price:         viper.GetFloat64("weight-price"),
		Rating:        viper.GetFloat64("weight-rating"),
		ReviewCount:   viper.GetFloat64("weight-reviews"),
		Specification: viper.GetFloat64("weight-specs"),
		Feature:       viper.GetFloat64("weight-features"),
	}
	if err := weights.Validate(); err != nil {
		return compare.Weights{}, err
	}
	return weights, nil
}

func parseIDs(raw []string) ([]uint64, error) {
	if len(raw) == 0 {
		return nil, errors.New("--ids is required")
	}

	ids := make([]uint64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", s)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// buildSelection adds products in the order given, the way a shopper picks
// them; the first product fixes the category.
func buildSelection(products []domain.ProductSnapshot, ids []uint64) (*compare.Selection, error) {
	byID := make(map[uint64]domain.ProductSnapshot, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	selection := compare.NewSelection(0)
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("product %d %w", id, domain.ErrNotFound)
		}
		if err := selection.Add(p); err != nil {
			return nil, fmt.Errorf("cannot add product %d: %w", id, err)
		}
	}

	if !selection.Ready() {
		return nil, compare.ErrSelectionTooSmall
	}

	return selection, nil
}
