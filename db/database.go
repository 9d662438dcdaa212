package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"ShelfFM/config"

	_ "github.com/go-sql-driver/mysql"
)

// DB is the raw database handle, used by the store health probe.
var DB *sql.DB

// ConnectDB establishes the MySQL connection for the shared playlist store.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxIdleConns(10)
	DB.SetMaxOpenConns(100)
	DB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// CloseDB closes the raw database handle.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

// Ping checks whether the database is reachable.
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.PingContext(ctx)
}

// TablePresent reports whether a table exists in the configured schema.
// Used by the shared store health probe.
func TablePresent(ctx context.Context, table string) (bool, error) {
	if DB == nil {
		return false, fmt.Errorf("database not initialized")
	}
	var count int
	query := `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
	if err := DB.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}
