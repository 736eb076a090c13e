package handlers

import (
	"net/http"
	"strconv"
	"time"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

type eventDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Address   string    `json:"address"`
	Amount    amountDTO `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *App) Events(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}
	events, err := a.Repo.ListRecentEvents(r.Context(), a.Ledger.Contract().Address(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list ledger events failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load events")
		return
	}
	items := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, eventDTO{
			ID:        ev.ID,
			Kind:      string(ev.Kind),
			Address:   ev.Address.Hex(),
			Amount:    amount(ev.Amount),
			CreatedAt: ev.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
