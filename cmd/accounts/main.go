package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fundme/internal/chain"
	"fundme/internal/domain"
	"fundme/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	var (
		seedFlag   string
		countFlag  int
		tokenFlag  bool
		ttlFlag    time.Duration
		localeFlag string
	)
	flag.StringVar(&seedFlag, "seed", envOr("DEV_ACCOUNT_SEED", "fundme development"), "seed the development accounts are derived from")
	flag.IntVar(&countFlag, "n", chain.DevAccountCount, "number of accounts to print")
	flag.BoolVar(&tokenFlag, "token", false, "print a bearer token for each account (needs JWT_SECRET)")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	flag.StringVar(&localeFlag, "locale", "en", "locale for balance formatting")
	flag.Parse()

	if countFlag <= 0 {
		exitWithError(errors.New("-n must be positive"))
	}
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if tokenFlag && secret == "" {
		exitWithError(errors.New("JWT_SECRET is required with -token"))
	}
	tag, err := language.Parse(localeFlag)
	if err != nil {
		exitWithError(fmt.Errorf("invalid -locale: %w", err))
	}

	accounts, err := chain.DevAccounts(seedFlag, countFlag)
	if err != nil {
		exitWithError(err)
	}
	balance, _ := decimal.NewFromBigInt(chain.DevAccountBalance, -domain.EtherDecimals).Float64()
	p := message.NewPrinter(tag)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := "#\taddress\tbalance (ETH)"
	if tokenFlag {
		header += "\ttoken"
	}
	fmt.Fprintln(w, header)
	for _, acct := range accounts {
		line := p.Sprintf("%d\t%s\t%.2f", acct.Index, acct.Address.Hex(), balance)
		if tokenFlag {
			token, err := middleware.SignJWT(secret, acct.Address, ttlFlag)
			if err != nil {
				exitWithError(fmt.Errorf("sign token for %s: %w", acct.Address.Hex(), err))
			}
			line += "\t" + token
		}
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		exitWithError(err)
	}
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
