package nanny

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"botnanny/internal/threecommas"
)

// fakeClient is a hand-rolled PlatformClient. Behavior is injected per test
// through the function fields; unset fields fall back to benign defaults.
type fakeClient struct {
	accountInfoFn     func(id int64) (*threecommas.Account, error)
	listBotsFn        func(accountID int64, limit, offset int) ([]threecommas.Bot, error)
	botInfoFn         func(id int64) (*threecommas.Bot, error)
	listActiveDealsFn func(botID int64, limit, offset int) ([]threecommas.Deal, error)
	dealInfoFn        func(id int64) (*threecommas.Deal, error)
	updateFn          func(dealID int64, percentage float64) error

	listBotsCalls  int
	listDealsCalls int
	fetchedDeals   []int64
	updates        []slUpdate
}

type slUpdate struct {
	dealID     int64
	percentage float64
}

func (f *fakeClient) AccountInfo(_ context.Context, id int64) (*threecommas.Account, error) {
	if f.accountInfoFn != nil {
		return f.accountInfoFn(id)
	}
	return &threecommas.Account{ID: id, Name: fmt.Sprintf("account-%d", id)}, nil
}

func (f *fakeClient) ListBots(_ context.Context, accountID int64, limit, offset int) ([]threecommas.Bot, error) {
	f.listBotsCalls++
	if f.listBotsFn != nil {
		return f.listBotsFn(accountID, limit, offset)
	}
	return nil, nil
}

func (f *fakeClient) BotInfo(_ context.Context, id int64) (*threecommas.Bot, error) {
	if f.botInfoFn != nil {
		return f.botInfoFn(id)
	}
	return &threecommas.Bot{ID: id, Name: fmt.Sprintf("bot-%d", id)}, nil
}

func (f *fakeClient) ListActiveDeals(_ context.Context, botID int64, limit, offset int) ([]threecommas.Deal, error) {
	f.listDealsCalls++
	if f.listActiveDealsFn != nil {
		return f.listActiveDealsFn(botID, limit, offset)
	}
	return nil, nil
}

func (f *fakeClient) DealInfo(_ context.Context, id int64) (*threecommas.Deal, error) {
	f.fetchedDeals = append(f.fetchedDeals, id)
	if f.dealInfoFn != nil {
		return f.dealInfoFn(id)
	}
	return &threecommas.Deal{ID: id, Status: threecommas.StatusCompleted}, nil
}

func (f *fakeClient) UpdateDealStopLoss(_ context.Context, dealID int64, percentage float64) error {
	f.updates = append(f.updates, slUpdate{dealID: dealID, percentage: percentage})
	if f.updateFn != nil {
		return f.updateFn(dealID, percentage)
	}
	return nil
}

// fakeNotifier records every event it is asked to deliver.
type fakeNotifier struct {
	events   []string
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, event, _, message string) {
	f.events = append(f.events, event)
	f.messages = append(f.messages, message)
}

// fakeJournal records protections and can be made to fail.
type fakeJournal struct {
	records []ProtectionRecord
	err     error
}

func (f *fakeJournal) RecordStopLossUpdate(_ context.Context, rec ProtectionRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// protectableDeal builds a deal carrying a simple fixed loss-stop, the shape
// the engine is allowed to tighten.
func protectableDeal(id int64, profit string) *threecommas.Deal {
	return &threecommas.Deal{
		ID:                     id,
		BotID:                  7,
		Pair:                   "USDT_BTC",
		Status:                 threecommas.StatusBought,
		Strategy:               "long",
		StopLossType:           threecommas.StopLossPlain,
		StopLossPercentage:     "5.0", // true stop-loss of -5.0 after the sign flip
		ActualProfitPercentage: profit,
	}
}
