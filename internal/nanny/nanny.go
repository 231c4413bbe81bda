// Package nanny implements the deal-protection core: discovery of accounts,
// bots and deals, classification of deal lifecycle state, the
// profit-protection decision, and the polling supervisor that ties them
// together.
package nanny

import (
	"context"

	"botnanny/internal/threecommas"
)

// Notification event types emitted by the supervisor and engine.
const (
	EventStartup        = "startup"
	EventSLUpdated      = "sl_updated"
	EventSLUpdateFailed = "sl_update_failed"
)

// PlatformClient is the 3Commas surface the core consumes. The concrete
// client throttles and signs internally; fakes in tests do neither.
type PlatformClient interface {
	AccountInfo(ctx context.Context, accountID int64) (*threecommas.Account, error)
	ListBots(ctx context.Context, accountID int64, limit, offset int) ([]threecommas.Bot, error)
	BotInfo(ctx context.Context, botID int64) (*threecommas.Bot, error)
	ListActiveDeals(ctx context.Context, botID int64, limit, offset int) ([]threecommas.Deal, error)
	DealInfo(ctx context.Context, dealID int64) (*threecommas.Deal, error)
	UpdateDealStopLoss(ctx context.Context, dealID int64, percentage float64) error
}

// Notifier is a fire-and-forget notification sink. Implementations must not
// surface delivery failures; a broken channel never affects the loop.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string)
}

// Journal records applied protections for later inspection. Implementations
// are write-only from the core's perspective; the loop never reads back.
type Journal interface {
	RecordStopLossUpdate(ctx context.Context, rec ProtectionRecord) error
}

// ProtectionRecord describes one applied stop-loss update.
type ProtectionRecord struct {
	CycleID          string
	DealID           int64
	BotID            int64
	Pair             string
	Status           string
	Strategy         string
	ProfitPercent    float64
	PreviousStopLoss float64
	AppliedStopLoss  float64
}

// ProtectionPolicy is the single threshold/action pair evaluated per deal:
// once ProfitPercent reaches TargetPnLPercent, the stop-loss is moved to
// AdjustedSLPercent.
type ProtectionPolicy struct {
	TargetPnLPercent  float64
	AdjustedSLPercent float64
}

// Selection is the operator's explicit entity choice. Each set is unioned
// with the identifiers discovery finds, never substituted for them.
type Selection struct {
	AccountIDs []int64
	BotIDs     []int64
	DealIDs    []int64
}

// IDSet is an unordered set of platform identifiers. Iteration order is
// unspecified, which matches the processing-order contract: every id is
// handled exactly once per cycle, in no particular order.
type IDSet map[int64]struct{}

// NewIDSet builds an IDSet from the given ids, dropping duplicates.
func NewIDSet(ids ...int64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id into the set.
func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

// Union adds every id from other into s.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}
