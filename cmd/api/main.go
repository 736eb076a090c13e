package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"fundme/internal/chain"
	"fundme/internal/deploy"
	"fundme/internal/domain"
	"fundme/internal/http/handlers"
	httpapi "fundme/internal/http/httpapi"
	"fundme/internal/infra"
	"fundme/internal/infra/geoip"
	"fundme/internal/network"
	"fundme/internal/oracle"
	"fundme/internal/storage"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	metrics := infra.NewMetrics()
	ctx := context.Background()

	// Tabel network
	table, err := network.Load(cfg.NetworksFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load network table")
	}
	net, err := table.ByName(cfg.Network)
	if err != nil {
		logger.Fatal().Err(err).Msg("unknown network")
	}

	// Store ledger (memory / sqlite / postgres)
	repo, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open ledger store")
	}
	defer closeStore()

	// Dev chain: 20 akun deterministik
	bank, accounts, err := chain.NewDevBank(cfg.DevAccountSeed)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to derive development accounts")
	}
	deployer := accounts[0].Address
	if cfg.DeployerAddress != "" {
		if deployer, err = domain.ParseAddress(cfg.DeployerAddress); err != nil {
			logger.Fatal().Err(err).Msg("invalid DEPLOYER_ADDRESS")
		}
	}

	var feed oracle.PriceOracle
	if !table.IsDevelopment(net.Name) {
		feed = oracle.NewCoinGeckoFeed(&http.Client{Timeout: cfg.PriceFeedTimeout}, cfg.PriceFeedURL, 8)
	}

	ledger, err := deploy.Deploy(ctx, deploy.Options{
		Table:    table,
		Network:  net,
		Bank:     bank,
		Deployer: deployer,
		Repo:     repo,
		Journal:  storage.NewJournal(repo, logger, metrics),
		Feed:     feed,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to deploy ledger")
	}
	snap := ledger.Contract().Snapshot(ctx)
	metrics.SetLedger(snap.Held, len(snap.Funders))

	// GeoIP opsional untuk locale tampilan
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer func() { _ = resolver.Close() }()

	locale, err := language.Parse(strings.TrimSpace(cfg.DefaultLocale))
	if err != nil {
		locale = language.English
	}

	app := handlers.NewApp(ledger, repo, logger, metrics)
	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMin:    cfg.RateLimitPerMin,
		DefaultLocale:      locale,
		CountryLookup:      resolver.Lookup(),
		Logger:             logger,
	})

	// HTTP server wrapper dari infra
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
