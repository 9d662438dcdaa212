package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"ShelfFM/config"
	"ShelfFM/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Test the MinIO connection",
	Long:  `Connect to the configured MinIO endpoint and verify the media bucket exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Testing MinIO connection...")

		cfg := config.Load()
		if cfg.MinioEndpoint == "" {
			fmt.Println("MinIO is not configured (MINIO_ENDPOINT is empty).")
			return
		}
		fmt.Printf("MinIO config: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to initialize MinIO: %v", err)
		}
		fmt.Println("MinIO connection established.")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		exists, err := storage.GetMinioClient().BucketExists(ctx, cfg.MinioBucket)
		if err != nil {
			log.Fatalf("Failed to check bucket: %v", err)
		}
		fmt.Printf("Bucket %q exists: %v\n", cfg.MinioBucket, exists)
		fmt.Println("MinIO test finished.")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
