package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"

	"fundme/internal/chain"
	"fundme/internal/domain"
	"fundme/internal/infra"
	"fundme/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		contractFlag string
		driverFlag   string
		eventsFlag   int
	)
	flag.StringVar(&contractFlag, "contract", "", "ledger contract address (defaults to the development deployment)")
	flag.StringVar(&driverFlag, "driver", envOr("STORE_DRIVER", infra.StoreSQLite), "store driver (sqlite, postgres)")
	flag.IntVar(&eventsFlag, "events", 10, "number of recent events to print")
	flag.Parse()

	cfg := &infra.Config{
		StoreDriver: strings.ToLower(strings.TrimSpace(driverFlag)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  envOr("SQLITE_PATH", "./data/fundme.db"),
	}
	switch cfg.StoreDriver {
	case infra.StoreSQLite:
	case infra.StorePostgres:
		if cfg.DatabaseURL == "" {
			exitWithError(errors.New("DATABASE_URL is required"))
		}
	default:
		exitWithError(fmt.Errorf("unsupported driver %q", cfg.StoreDriver))
	}

	contract, err := resolveContract(contractFlag)
	if err != nil {
		exitWithError(err)
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "snapshot").Logger()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open store: %w", err))
	}
	defer closeStore()

	snap, err := repo.Load(ctx, contract)
	if errors.Is(err, domain.ErrNotFound) {
		exitWithError(fmt.Errorf("no ledger stored for %s", contract.Hex()))
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to load ledger: %w", err))
	}

	fmt.Printf("Ledger %s\n", snap.Contract.Hex())
	fmt.Printf("owner=%s\n", snap.Owner.Hex())
	fmt.Printf("price_feed=%s\n", snap.PriceFeed.Hex())
	fmt.Printf("held=%s ETH (recorded %s ETH)\n", domain.FormatEther(snap.Held), domain.FormatEther(snap.Total()))
	fmt.Printf("updated_at=%s\n", snap.UpdatedAt.UTC().Format(time.RFC3339))
	for i, f := range snap.Funders {
		fmt.Printf("funder[%d] %s %s ETH\n", i, f.Hex(), domain.FormatEther(snap.Balances[f]))
	}

	if eventsFlag <= 0 {
		return
	}
	events, err := repo.ListRecentEvents(ctx, contract, eventsFlag)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load events: %w", err))
	}
	for _, ev := range events {
		fmt.Printf("%s %-9s %s %s ETH\n", ev.CreatedAt.UTC().Format(time.RFC3339), ev.Kind, ev.Address.Hex(), domain.FormatEther(ev.Amount))
	}
}

// resolveContract parses raw, or derives the address the API deploys the
// ledger to on a development chain: the deployer's second contract.
func resolveContract(raw string) (domain.Address, error) {
	if strings.TrimSpace(raw) != "" {
		return domain.ParseAddress(raw)
	}
	deployer := strings.TrimSpace(os.Getenv("DEPLOYER_ADDRESS"))
	if deployer != "" {
		addr, err := domain.ParseAddress(deployer)
		if err != nil {
			return domain.Address{}, fmt.Errorf("invalid DEPLOYER_ADDRESS: %w", err)
		}
		return crypto.CreateAddress(addr, 1), nil
	}
	accounts, err := chain.DevAccounts(envOr("DEV_ACCOUNT_SEED", "fundme development"), 1)
	if err != nil {
		return domain.Address{}, err
	}
	return crypto.CreateAddress(accounts[0].Address, 1), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
