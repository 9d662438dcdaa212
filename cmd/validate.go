package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"ShelfFM/config"
	"ShelfFM/db"
	"ShelfFM/repository"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Probe the shared playlist store",
	Long:  `Check whether the shared playlist store is configured, reachable and migrated, and print the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Probing shared playlist store...")

		cfg := config.Load()
		if cfg.DBHost == "" {
			fmt.Println("Shared store is not configured (DB_HOST is empty).")
			return
		}
		fmt.Printf("Database config: %s:%s/%s\n", cfg.DBHost, cfg.DBPort, cfg.DBName)

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.CloseDB()
		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to open GORM connection: %v", err)
		}
		defer db.CloseGormDB()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		health := repository.NewGormSharedPlaylistRepository().Validate(ctx)
		fmt.Printf("Configured:     %v\n", health.Configured)
		fmt.Printf("Reachable:      %v\n", health.Reachable)
		fmt.Printf("Schema present: %v\n", health.SchemaPresent)

		if health.Reachable && health.SchemaPresent {
			fmt.Println("Shared playlist store is healthy.")
		} else {
			fmt.Println("Shared playlist store is NOT healthy; see flags above.")
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
