package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	n := a.Ledger.Network()
	a.json(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"network":  n.Name,
		"chain_id": n.ChainID,
		"contract": a.Ledger.Contract().Address().Hex(),
	})
}
