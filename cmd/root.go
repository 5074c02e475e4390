package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/database"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/database/migration"
	"github.com/ParthPrakashSaini/military-asset-management-system/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		err := migration.Migrate(
			dbURL,
			fmt.Sprintf("file://%s", migrationDir),
			logger.NewLogger(),
		)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed an admin user and sample catalog data.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := database.NewPostgresConnection(os.Getenv("DATABASE_URL"))
		if err != nil {
			return err
		}
		defer db.Close()

		return Seed(db, logger.NewLogger())
	},
}

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "asset-management",
		Short: "Military asset management service",
	}
	migrateCmd.Flags().String("dir", "./migrations", "Directory containing the migration files")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
