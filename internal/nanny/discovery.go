package nanny

import (
	"context"
	"log/slog"
)

// Platform pagination limits. These are contract values from the 3Commas
// API, not tunables.
const (
	botsBatchSize  = 100
	dealsBatchSize = 1000
)

// Discovery expands account ids into bot ids and bot ids into active-deal
// ids via paginated platform queries. Failures are item-scoped: one bad
// account or bot never blocks the others.
type Discovery struct {
	client PlatformClient
	logger *slog.Logger
}

// NewDiscovery creates a Discovery over the given platform client.
func NewDiscovery(client PlatformClient, logger *slog.Logger) *Discovery {
	return &Discovery{
		client: client,
		logger: logger.With(slog.String("component", "discovery")),
	}
}

// BotIDs returns the union of all bot ids found across the given accounts.
// An account whose metadata cannot be fetched is skipped; a page error ends
// pagination for that account only, keeping the pages already accumulated.
func (d *Discovery) BotIDs(ctx context.Context, accountIDs IDSet) IDSet {
	botIDs := NewIDSet()
	for accountID := range accountIDs {
		acct, err := d.client.AccountInfo(ctx, accountID)
		if err != nil {
			d.logger.ErrorContext(ctx, "failed to fetch account info",
				slog.Int64("account_id", accountID),
				slog.String("error", err.Error()),
			)
			continue
		}

		d.logger.InfoContext(ctx, "fetching bot ids",
			slog.Int64("account_id", accountID),
			slog.String("account", acct.Name),
		)

		found := 0
		offset := 0
		for {
			bots, err := d.client.ListBots(ctx, accountID, botsBatchSize, offset)
			if err != nil {
				// Give up on this account; bots found so far are kept.
				d.logger.ErrorContext(ctx, "failed to fetch bots page",
					slog.String("account", acct.Name),
					slog.Int("offset", offset),
					slog.String("error", err.Error()),
				)
				break
			}
			for _, bot := range bots {
				d.logger.DebugContext(ctx, "found bot",
					slog.Int64("bot_id", bot.ID),
					slog.String("bot", bot.Name),
				)
				botIDs.Add(bot.ID)
				found++
			}
			offset += len(bots)
			if len(bots) < botsBatchSize {
				break
			}
		}

		d.logger.InfoContext(ctx, "account discovery complete",
			slog.String("account", acct.Name),
			slog.Int("bots", found),
		)
	}
	return botIDs
}

// DealIDs returns the union of all active-deal ids found across the given
// bots, with the same per-item failure isolation as BotIDs. The active scope
// is applied by the platform query itself.
func (d *Discovery) DealIDs(ctx context.Context, botIDs IDSet) IDSet {
	dealIDs := NewIDSet()
	for botID := range botIDs {
		bot, err := d.client.BotInfo(ctx, botID)
		if err != nil {
			d.logger.ErrorContext(ctx, "failed to fetch bot info",
				slog.Int64("bot_id", botID),
				slog.String("error", err.Error()),
			)
			continue
		}

		d.logger.InfoContext(ctx, "fetching active deal ids",
			slog.Int64("bot_id", botID),
			slog.String("bot", bot.Name),
		)

		found := 0
		offset := 0
		for {
			deals, err := d.client.ListActiveDeals(ctx, botID, dealsBatchSize, offset)
			if err != nil {
				d.logger.ErrorContext(ctx, "failed to fetch deals page",
					slog.String("bot", bot.Name),
					slog.Int("offset", offset),
					slog.String("error", err.Error()),
				)
				break
			}
			for _, deal := range deals {
				d.logger.DebugContext(ctx, "found active deal",
					slog.Int64("deal_id", deal.ID),
				)
				dealIDs.Add(deal.ID)
				found++
			}
			offset += len(deals)
			if len(deals) < dealsBatchSize {
				break
			}
		}

		d.logger.InfoContext(ctx, "bot discovery complete",
			slog.String("bot", bot.Name),
			slog.Int("active_deals", found),
		)
	}
	return dealIDs
}
