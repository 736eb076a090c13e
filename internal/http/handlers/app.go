package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"fundme/internal/deploy"
	"fundme/internal/domain"
	"fundme/internal/infra"
)

// App carries the dependencies shared by every handler.
type App struct {
	Ledger  *deploy.Deployment
	Repo    domain.LedgerRepository
	Logger  zerolog.Logger
	Metrics *infra.Metrics
}

func NewApp(ledger *deploy.Deployment, repo domain.LedgerRepository, logger zerolog.Logger, metrics *infra.Metrics) *App {
	return &App{Ledger: ledger, Repo: repo, Logger: logger, Metrics: metrics}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}
