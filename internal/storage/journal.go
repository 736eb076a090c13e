package storage

import (
	"context"

	"github.com/rs/zerolog"

	"fundme/internal/domain"
	"fundme/internal/infra"
)

// Journal commits ledger changes to a repository, then logs each event and
// updates the ledger metrics. It satisfies fundme.Journal.
type Journal struct {
	repo    domain.LedgerRepository
	logger  zerolog.Logger
	metrics *infra.Metrics
}

// NewJournal wraps repo. metrics may be nil.
func NewJournal(repo domain.LedgerRepository, logger zerolog.Logger, metrics *infra.Metrics) *Journal {
	return &Journal{repo: repo, logger: logger, metrics: metrics}
}

func (j *Journal) Commit(ctx context.Context, snapshot domain.LedgerSnapshot, events []domain.LedgerEvent) error {
	if err := j.repo.Commit(ctx, snapshot, events); err != nil {
		j.logger.Error().Err(err).Str("contract", snapshot.Contract.Hex()).Int("events", len(events)).Msg("ledger commit failed")
		return err
	}
	for _, ev := range events {
		j.logger.Info().
			Str("event_id", ev.ID).
			Str("kind", string(ev.Kind)).
			Str("address", ev.Address.Hex()).
			Str("amount_eth", domain.FormatEther(ev.Amount)).
			Msg("ledger event")
		if j.metrics != nil {
			j.metrics.ObserveEvent(string(ev.Kind), ev.Amount)
		}
	}
	if j.metrics != nil {
		j.metrics.SetLedger(snapshot.Held, len(snapshot.Funders))
	}
	return nil
}
