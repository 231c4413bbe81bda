package nanny

import (
	"context"
	"fmt"
	"log/slog"

	"botnanny/internal/threecommas"
)

// Engine decides whether an active deal's stop-loss should be tightened to
// lock in profit, and issues the mutation when it should. It only ever
// tightens an existing simple loss-stop; trailing stops, non-plain stop
// types, and stops already protecting profit are never touched, because
// overwriting those could loosen protection already in place.
type Engine struct {
	client   PlatformClient
	notifier Notifier
	journal  Journal // nil when journaling is disabled
	policy   ProtectionPolicy
	logger   *slog.Logger
}

// NewEngine creates a protection Engine. journal may be nil.
func NewEngine(client PlatformClient, notifier Notifier, journal Journal, policy ProtectionPolicy, logger *slog.Logger) *Engine {
	return &Engine{
		client:   client,
		notifier: notifier,
		journal:  journal,
		policy:   policy,
		logger:   logger.With(slog.String("component", "protection")),
	}
}

// Evaluate inspects a single active deal and applies the protection policy.
// It issues at most one mutation. The diagnostic record is emitted on every
// branch, whatever the outcome.
func (e *Engine) Evaluate(ctx context.Context, cycleID string, deal *threecommas.Deal) error {
	stopLossPercent, err := deal.StopLossPercent()
	if err != nil {
		return fmt.Errorf("nanny: deal %d: parse stop_loss_percentage %q: %w",
			deal.ID, deal.StopLossPercentage, err)
	}
	profitPercent, err := deal.ProfitPercent()
	if err != nil {
		return fmt.Errorf("nanny: deal %d: parse actual_profit_percentage %q: %w",
			deal.ID, deal.ActualProfitPercentage, err)
	}
	leverageAmount := deal.LeverageAmount()

	// The current stop is a simple fixed loss-stop only when all three hold:
	// plain stop_loss type, negative true stop-loss, trailing disabled.
	currentSLIsLoss := deal.StopLossType == threecommas.StopLossPlain &&
		stopLossPercent < 0 &&
		!deal.TslEnabled

	e.logger.InfoContext(ctx, "checked deal",
		slog.String("cycle_id", cycleID),
		slog.Int64("deal_id", deal.ID),
		slog.String("status", string(deal.Status)),
		slog.String("strategy", deal.Strategy),
		slog.String("leverage_type", deal.LeverageType),
		slog.Float64("leverage_amount", leverageAmount),
		slog.String("stop_loss_type", string(deal.StopLossType)),
		slog.Float64("stop_loss_percentage", stopLossPercent),
		slog.Bool("tsl_enabled", deal.TslEnabled),
		slog.Float64("actual_profit_percentage", profitPercent),
	)

	if !currentSLIsLoss || profitPercent < e.policy.TargetPnLPercent {
		e.logger.DebugContext(ctx, "nothing to do for deal",
			slog.Int64("deal_id", deal.ID),
		)
		return nil
	}

	return e.applyStopLoss(ctx, cycleID, deal, stopLossPercent, profitPercent)
}

// applyStopLoss issues the single stop-loss mutation for a deal and reports
// the outcome. It is never retried within the cycle: the next cycle
// re-fetches the deal and re-evaluates against fresh state.
func (e *Engine) applyStopLoss(ctx context.Context, cycleID string, deal *threecommas.Deal, previousSL, profitPercent float64) error {
	e.logger.InfoContext(ctx, "profit target reached, updating stop-loss",
		slog.Int64("deal_id", deal.ID),
		slog.Float64("profit_percentage", profitPercent),
		slog.Float64("target_pnl_percent", e.policy.TargetPnLPercent),
		slog.Float64("adjusted_sl_percent", e.policy.AdjustedSLPercent),
	)

	if err := e.client.UpdateDealStopLoss(ctx, deal.ID, e.policy.AdjustedSLPercent); err != nil {
		e.logger.ErrorContext(ctx, "failed to update stop-loss",
			slog.Int64("deal_id", deal.ID),
			slog.String("error", err.Error()),
		)
		e.notifier.Notify(ctx, EventSLUpdateFailed, "Stop-loss update failed",
			fmt.Sprintf("Failed to update SL for deal id %d: %v", deal.ID, err))
		return err
	}

	e.logger.InfoContext(ctx, "updated stop-loss",
		slog.Int64("deal_id", deal.ID),
		slog.Float64("stop_loss_percent", e.policy.AdjustedSLPercent),
	)
	e.notifier.Notify(ctx, EventSLUpdated, "Stop-loss updated",
		fmt.Sprintf("Deal id %d reached %.2f%% PnL, SL moved to %.2f%%",
			deal.ID, profitPercent, e.policy.AdjustedSLPercent))

	if e.journal != nil {
		rec := ProtectionRecord{
			CycleID:          cycleID,
			DealID:           deal.ID,
			BotID:            deal.BotID,
			Pair:             deal.Pair,
			Status:           string(deal.Status),
			Strategy:         deal.Strategy,
			ProfitPercent:    profitPercent,
			PreviousStopLoss: previousSL,
			AppliedStopLoss:  e.policy.AdjustedSLPercent,
		}
		if err := e.journal.RecordStopLossUpdate(ctx, rec); err != nil {
			// Journal is best-effort; the mutation already succeeded.
			e.logger.WarnContext(ctx, "failed to journal stop-loss update",
				slog.Int64("deal_id", deal.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
