package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"myCatalog/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Compare catalog products and maintain review aggregates.",
	Long:          `catalog works on product files offline (compare, top-specs) or on the catalog database (import, recompute-ratings).`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		logger.InitWriter(viper.GetString("env"), os.Stderr)
		color.NoColor = !useColors()
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(topSpecsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(recomputeCmd)

	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("env", "production", "Log format: production (json) or development (text)")
	rootCmd.PersistentFlags().String("db-driver", "postgres", "Database driver: postgres or sqlite")
	rootCmd.PersistentFlags().String("db-path", "catalog.db", "SQLite database file (db-driver=sqlite)")
	rootCmd.PersistentFlags().String("db-host", "localhost", "Postgres host")
	rootCmd.PersistentFlags().String("db-port", "5432", "Postgres port")
	rootCmd.PersistentFlags().String("db-user", "postgres", "Postgres user")
	rootCmd.PersistentFlags().String("db-password", "", "Postgres password")
	rootCmd.PersistentFlags().String("db-name", "my_catalog", "Postgres database name")
	rootCmd.PersistentFlags().String("db-ssl-mode", "disable", "Postgres sslmode")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("error binding root flags: %v", err))
	}

	bindCompareFlags()
	bindTopSpecsFlags()
	bindImportFlags()
	bindRecomputeFlags()
}

// initConfig reads ENV variables with the CATALOG_ prefix, e.g. CATALOG_DB_HOST.
func initConfig() {
	viper.SetEnvPrefix("CATALOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".catalog")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func useColors() bool {
	switch strings.ToLower(viper.GetString("color")) {
	case "no", "false", "0":
		return false
	default:
		return true
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}
