package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fundme/pkg/zip"
)

const exportEventLimit = 1000

type exportFunder struct {
	Index   int       `json:"index"`
	Address string    `json:"address"`
	Funded  amountDTO `json:"funded"`
}

type exportSnapshot struct {
	Network   string         `json:"network"`
	ChainID   uint64         `json:"chain_id"`
	Contract  string         `json:"contract"`
	Owner     string         `json:"owner"`
	PriceFeed string         `json:"price_feed"`
	Balance   amountDTO      `json:"balance"`
	Funders   []exportFunder `json:"funders"`
	TakenAt   time.Time      `json:"taken_at"`
}

// Export streams a zip of the current ledger snapshot and its recent events.
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contract := a.Ledger.Contract()
	snap := contract.Snapshot(ctx)
	now := time.Now().UTC()

	out := exportSnapshot{
		Network:   a.Ledger.Network().Name,
		ChainID:   a.Ledger.Network().ChainID,
		Contract:  snap.Contract.Hex(),
		Owner:     snap.Owner.Hex(),
		PriceFeed: snap.PriceFeed.Hex(),
		Balance:   amount(snap.Held),
		Funders:   make([]exportFunder, 0, len(snap.Funders)),
		TakenAt:   now,
	}
	for i, f := range snap.Funders {
		out.Funders = append(out.Funders, exportFunder{Index: i, Address: f.Hex(), Funded: amount(snap.Balances[f])})
	}

	events, err := a.Repo.ListRecentEvents(ctx, snap.Contract, exportEventLimit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("export events failed")
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

	snapJSON, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode snapshot")
		return
	}
	eventsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode events")
		return
	}
	archive, err := zip.Archive([]zip.File{
		{Name: "snapshot.json", Data: snapJSON, Modified: now},
		{Name: "events.json", Data: eventsJSON, Modified: now},
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("export archive failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="fundme-%s.zip"`, snap.Contract.Hex()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
