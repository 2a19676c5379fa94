package cmd

import (
	"fmt"
	"strings"

	"myCatalog/business/product"
	"myCatalog/business/review"
	"myCatalog/domain"
	psqlRepo "myCatalog/internal/repository/postgres"
	"myCatalog/pkg/config"
	"myCatalog/pkg/database"
	"myCatalog/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load categories and products from a catalog file into the database.",
	Long: `Load categories and products from a catalog file into the database.

Categories are matched by name and updated in place; products are always
created. Products name their category with "category".

Examples:
  catalog import --file catalog.json
  CATALOG_DB_DRIVER=sqlite catalog import --file catalog.json --db-path dev.db`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")

		catalog, err := readCatalog(file)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		ctx := cmd.Context()
		categoryRepo := psqlRepo.NewCategoryRepository(db)
		productSvc := product.NewProductService(psqlRepo.NewProductRepository(db), categoryRepo)

		categoryIDs := make(map[string]uint64)
		upsert := func(c domain.Category) (uint64, error) {
			c.CategoryID = 0
			c.Name = strings.TrimSpace(c.Name)
			if err := categoryRepo.UpsertByName(ctx, &c); err != nil {
				return 0, err
			}
			categoryIDs[strings.ToLower(c.Name)] = c.CategoryID
			return c.CategoryID, nil
		}

		for _, c := range catalog.Categories {
			if _, err := upsert(c); err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
		}

		created := 0
		for _, p := range catalog.Products {
			categoryID, ok := categoryIDs[strings.ToLower(strings.TrimSpace(p.Category))]
			if !ok {
				if strings.TrimSpace(p.Category) == "" {
					return fmt.Errorf("product %q: %w: category is required", p.Name, domain.ErrInvalidInput)
				}
				if categoryID, err = upsert(domain.Category{Name: p.Category}); err != nil {
					return fmt.Errorf("category %q: %w", p.Category, err)
				}
			}

			if _, err := productSvc.CreateProduct(ctx, p.toProduct(categoryID)); err != nil {
				return fmt.Errorf("product %q: %w", p.Name, err)
			}
			created++
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories and %d products\n", len(categoryIDs), created)
		return err
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute-ratings",
	Short: "Rebuild every product's rating and review count from its reviews.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		productRepo := psqlRepo.NewProductRepository(db)
		reviewSvc := review.NewReviewService(psqlRepo.NewReviewRepository(db), productRepo, viper.GetBool("rating-include-disabled"))

		count, err := reviewSvc.RecomputeAll(cmd.Context())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recomputed ratings for %d products\n", count)
		return err
	},
}

func bindImportFlags() {
	importCmd.Flags().String("file", "catalog.json", "Catalog JSON file")
}

func bindRecomputeFlags() {
	recomputeCmd.Flags().Bool("rating-include-disabled", false, "Count disabled reviews toward ratings")
	if err := viper.BindPFlag("rating-include-disabled", recomputeCmd.Flags().Lookup("rating-include-disabled")); err != nil {
		panic(fmt.Sprintf("error binding recompute flags: %v", err))
	}
}

func openDB() (*gorm.DB, error) {
	switch driver := strings.ToLower(viper.GetString("db-driver")); driver {
	case "sqlite":
		return database.InitSQLite(viper.GetString("db-path"))
	case "postgres", "postgresql", "":
		logger.Debug("connecting to postgres", "host", viper.GetString("db-host"))
		return database.InitPostgres(&config.Config{
			App: config.AppConfig{Environment: viper.GetString("env")},
			Database: config.DatabaseConfig{
				Host:        viper.GetString("db-host"),
				Port:        viper.GetString("db-port"),
				User:        viper.GetString("db-user"),
				Password:    viper.GetString("db-password"),
				Name:        viper.GetString("db-name"),
				SSLMode:     viper.GetString("db-ssl-mode"),
				AutoMigrate: true,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}
