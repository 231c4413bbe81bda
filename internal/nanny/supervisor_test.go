package nanny

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botnanny/internal/threecommas"
)

func newTestSupervisor(client *fakeClient, notifier *fakeNotifier, sel Selection) *Supervisor {
	discovery := NewDiscovery(client, testLogger())
	engine := NewEngine(client, notifier, nil, testPolicy, testLogger())
	return NewSupervisor(client, discovery, engine, notifier, sel, time.Minute, testLogger())
}

func TestCycleUnionsSelectedAndDiscoveredDeals(t *testing.T) {
	client := &fakeClient{
		listBotsFn: func(_ int64, _, _ int) ([]threecommas.Bot, error) {
			return []threecommas.Bot{{ID: 20}}, nil
		},
		listActiveDealsFn: func(_ int64, _, _ int) ([]threecommas.Deal, error) {
			return []threecommas.Deal{{ID: 1}, {ID: 2}}, nil
		},
	}
	notifier := &fakeNotifier{}
	sup := newTestSupervisor(client, notifier, Selection{
		AccountIDs: []int64{10},
		DealIDs:    []int64{2, 3},
	})

	sup.runCycle(context.Background())

	// Discovered {1,2} union selected {2,3} is exactly {1,2,3}, each
	// fetched once.
	assert.ElementsMatch(t, []int64{1, 2, 3}, client.fetchedDeals)
}

func TestCycleIsolatesPerDealFailures(t *testing.T) {
	client := &fakeClient{
		dealInfoFn: func(id int64) (*threecommas.Deal, error) {
			if id == 2 {
				return nil, errors.New("fetch failed")
			}
			return protectableDeal(id, "5.0"), nil
		},
	}
	notifier := &fakeNotifier{}
	sup := newTestSupervisor(client, notifier, Selection{DealIDs: []int64{1, 2, 3}})

	sup.runCycle(context.Background())

	// Deal 2's failure must not stop 1 and 3 from being fully processed.
	assert.Len(t, client.fetchedDeals, 3)
	require.Len(t, client.updates, 2)
	updated := []int64{client.updates[0].dealID, client.updates[1].dealID}
	assert.ElementsMatch(t, []int64{1, 3}, updated)
}

func TestCycleSkipsInactiveDeals(t *testing.T) {
	client := &fakeClient{
		dealInfoFn: func(id int64) (*threecommas.Deal, error) {
			deal := protectableDeal(id, "5.0")
			deal.Status = threecommas.StatusCompleted
			return deal, nil
		},
	}
	sup := newTestSupervisor(client, &fakeNotifier{}, Selection{DealIDs: []int64{1}})

	sup.runCycle(context.Background())

	assert.Empty(t, client.updates)
}

func TestCycleRecoversFromPanics(t *testing.T) {
	client := &fakeClient{
		dealInfoFn: func(id int64) (*threecommas.Deal, error) {
			panic("unexpected")
		},
	}
	sup := newTestSupervisor(client, &fakeNotifier{}, Selection{DealIDs: []int64{1}})

	assert.NotPanics(t, func() {
		sup.runCycle(context.Background())
	})
}

func TestRunNotifiesStartupAndStopsOnCancel(t *testing.T) {
	client := &fakeClient{}
	notifier := &fakeNotifier{}
	sup := newTestSupervisor(client, notifier, Selection{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sup.Run(ctx, "1.2.3")
	require.ErrorIs(t, err, context.Canceled)
	require.NotEmpty(t, notifier.events)
	assert.Equal(t, EventStartup, notifier.events[0])
	assert.Contains(t, notifier.messages[0], "1.2.3")
}
