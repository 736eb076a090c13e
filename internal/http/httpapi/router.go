package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"fundme/internal/http/handlers"
	"fundme/internal/middleware"
)

// Options configures the router's middleware stack.
type Options struct {
	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	DefaultLocale      language.Tag
	CountryLookup      middleware.CountryLookup
	Logger             zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware dasar
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger, app.Metrics),
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	// Health & observability
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if app.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())
	}

	// Read-only ledger views
	r.Get("/v1/owner", app.Owner)
	r.Get("/v1/price-feed", app.PriceFeed)
	r.Get("/v1/price", app.Price)
	r.Get("/v1/balance", app.Balance)
	r.Get("/v1/funders/{index}", app.Funder)
	r.Get("/v1/funded/{address}", app.AmountFunded)
	r.Get("/v1/accounts/{address}", app.Account)
	r.Get("/v1/events", app.Events)
	r.Get("/v1/export", app.Export)

	// Transaksi, butuh bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		r.Post("/v1/fund", app.Fund)
		r.Post("/v1/receive", app.Receive)
		r.Route("/v1/withdraw", func(r chi.Router) {
			r.Post("/", app.Withdraw)
			r.Post("/cheaper", app.WithdrawCheaper)
		})
	})

	return r
}
