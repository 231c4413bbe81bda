package nanny

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Supervisor runs the polling loop: discover, then fetch-classify-decide for
// every discovered deal, then sleep and start over. Failures are contained at
// the item boundary; a panic anywhere in a cycle is recovered at the cycle
// boundary and the loop carries on after the sleep interval.
type Supervisor struct {
	client    PlatformClient
	discovery *Discovery
	engine    *Engine
	notifier  Notifier
	selection Selection
	interval  time.Duration
	logger    *slog.Logger
}

// NewSupervisor creates a Supervisor.
func NewSupervisor(
	client PlatformClient,
	discovery *Discovery,
	engine *Engine,
	notifier Notifier,
	selection Selection,
	interval time.Duration,
	logger *slog.Logger,
) *Supervisor {
	return &Supervisor{
		client:    client,
		discovery: discovery,
		engine:    engine,
		notifier:  notifier,
		selection: selection,
		interval:  interval,
		logger:    logger.With(slog.String("component", "supervisor")),
	}
}

// Run executes cycles until ctx is cancelled. It only ever returns ctx.Err().
func (s *Supervisor) Run(ctx context.Context, version string) error {
	s.notifier.Notify(ctx, EventStartup, "BotNanny started",
		fmt.Sprintf("BotNanny %s started", version))

	for {
		s.runCycle(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.InfoContext(ctx, "sleeping until next cycle",
			slog.Duration("interval", s.interval),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.interval):
		}
	}
}

// runCycle performs one full discovery-classification-decision pass. Each
// cycle re-discovers the world from the platform; nothing is carried over
// from the previous pass.
func (s *Supervisor) runCycle(ctx context.Context) {
	cycleID := uuid.NewString()
	logger := s.logger.With(slog.String("cycle_id", cycleID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from panic during cycle",
				slog.Any("panic", r),
			)
		}
	}()

	start := time.Now()
	logger.InfoContext(ctx, "cycle starting")

	botIDs := s.discovery.BotIDs(ctx, NewIDSet(s.selection.AccountIDs...))
	botIDs.Union(NewIDSet(s.selection.BotIDs...))

	dealIDs := s.discovery.DealIDs(ctx, botIDs)
	dealIDs.Union(NewIDSet(s.selection.DealIDs...))

	logger.InfoContext(ctx, "discovery complete",
		slog.Int("bots", len(botIDs)),
		slog.Int("deals", len(dealIDs)),
	)

	for dealID := range dealIDs {
		if ctx.Err() != nil {
			return
		}
		if err := s.processDeal(ctx, cycleID, dealID); err != nil {
			// Item-scoped: log and move on to the next deal.
			logger.ErrorContext(ctx, "failed to process deal",
				slog.Int64("deal_id", dealID),
				slog.String("error", err.Error()),
			)
		}
	}

	logger.InfoContext(ctx, "cycle complete",
		slog.Duration("elapsed", time.Since(start)),
	)
}

// processDeal fetches a fresh deal snapshot, classifies it, and hands active
// deals to the protection engine.
func (s *Supervisor) processDeal(ctx context.Context, cycleID string, dealID int64) error {
	deal, err := s.client.DealInfo(ctx, dealID)
	if err != nil {
		return fmt.Errorf("fetch deal: %w", err)
	}

	if !IsActive(deal) {
		s.logger.DebugContext(ctx, "ignoring inactive deal",
			slog.Int64("deal_id", deal.ID),
			slog.String("status", string(deal.Status)),
			slog.Bool("finished", deal.Finished),
		)
		return nil
	}

	return s.engine.Evaluate(ctx, cycleID, deal)
}
