package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"botnanny/internal/nanny"
)

// JournalStore implements nanny.Journal using PostgreSQL. Rows are append
// only; nothing in the loop ever reads them back.
type JournalStore struct {
	pool *pgxpool.Pool
}

// NewJournalStore creates a JournalStore backed by the given connection pool.
func NewJournalStore(pool *pgxpool.Pool) *JournalStore {
	return &JournalStore{pool: pool}
}

// RecordStopLossUpdate appends one applied protection to the journal.
func (s *JournalStore) RecordStopLossUpdate(ctx context.Context, rec nanny.ProtectionRecord) error {
	const query = `
		INSERT INTO sl_updates (
			cycle_id, deal_id, bot_id, pair, status, strategy,
			profit_percent, previous_stop_loss, applied_stop_loss
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		rec.CycleID, rec.DealID, rec.BotID, rec.Pair, rec.Status, rec.Strategy,
		rec.ProfitPercent, rec.PreviousStopLoss, rec.AppliedStopLoss,
	)
	if err != nil {
		return fmt.Errorf("postgres: record stop-loss update for deal %d: %w", rec.DealID, err)
	}
	return nil
}
