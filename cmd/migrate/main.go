package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fundme/internal/infra"
	"fundme/internal/sqlinline"
)

func main() {
	_ = godotenv.Load()

	var (
		dbURLFlag  string
		dryRunFlag bool
	)
	flag.StringVar(&dbURLFlag, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.BoolVar(&dryRunFlag, "dry-run", false, "print the schema instead of applying it")
	flag.Parse()

	if dryRunFlag {
		fmt.Print(sqlinline.Schema)
		return
	}
	dbURL := strings.TrimSpace(dbURLFlag)
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "migrate").Logger()

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		exitWithError(fmt.Errorf("failed to begin migration: %w", err))
	}
	if _, err := tx.ExecContext(ctx, sqlinline.Schema); err != nil {
		_ = tx.Rollback()
		exitWithError(fmt.Errorf("failed to apply schema: %w", err))
	}
	if err := tx.Commit(); err != nil {
		exitWithError(fmt.Errorf("failed to commit migration: %w", err))
	}
	logger.Info().Msg("ledger schema applied")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
