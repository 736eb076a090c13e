package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fundme/internal/domain"
)

func (a *App) Owner(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"address": a.Ledger.Contract().Owner().Hex()})
}

func (a *App) PriceFeed(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"address": a.Ledger.Contract().PriceFeed().Hex()})
}

func (a *App) Funder(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "index must be a non-negative integer")
		return
	}
	addr, err := a.Ledger.Contract().Funder(r.Context(), index)
	if err != nil {
		a.ledgerError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"index": index, "address": addr.Hex()})
}

func (a *App) AmountFunded(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid address")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"address": addr.Hex(),
		"funded":  amount(a.Ledger.Contract().AddressToAmountFunded(r.Context(), addr)),
	})
}

func (a *App) Balance(w http.ResponseWriter, r *http.Request) {
	snap := a.Ledger.Contract().Snapshot(r.Context())
	a.json(w, http.StatusOK, map[string]any{
		"contract":     snap.Contract.Hex(),
		"balance":      amount(snap.Held),
		"recorded":     amount(snap.Total()),
		"funder_count": len(snap.Funders),
	})
}

func (a *App) Account(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid address")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"address": addr.Hex(),
		"balance": amount(a.Ledger.Bank().BalanceOf(r.Context(), addr)),
	})
}
