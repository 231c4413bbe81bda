package nanny

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botnanny/internal/threecommas"
)

// botPage builds a page of n bots with ids starting at first.
func botPage(first int64, n int) []threecommas.Bot {
	bots := make([]threecommas.Bot, n)
	for i := range bots {
		bots[i] = threecommas.Bot{ID: first + int64(i), Name: fmt.Sprintf("bot-%d", first+int64(i))}
	}
	return bots
}

func TestBotIDsPaginationTerminatesOnShortPage(t *testing.T) {
	// Pages of 100, 100, 37 must yield 237 ids from exactly 3 fetches.
	pages := [][]threecommas.Bot{
		botPage(0, 100),
		botPage(100, 100),
		botPage(200, 37),
	}
	client := &fakeClient{
		listBotsFn: func(_ int64, limit, offset int) ([]threecommas.Bot, error) {
			require.Equal(t, 100, limit)
			require.Equal(t, 0, offset%100)
			return pages[offset/100], nil
		},
	}

	d := NewDiscovery(client, testLogger())
	botIDs := d.BotIDs(context.Background(), NewIDSet(1))

	assert.Len(t, botIDs, 237)
	assert.Equal(t, 3, client.listBotsCalls)
}

func TestBotIDsPageErrorKeepsAccumulatedIDs(t *testing.T) {
	client := &fakeClient{
		listBotsFn: func(_ int64, _, offset int) ([]threecommas.Bot, error) {
			if offset > 0 {
				return nil, errors.New("boom")
			}
			return botPage(0, 100), nil
		},
	}

	d := NewDiscovery(client, testLogger())
	botIDs := d.BotIDs(context.Background(), NewIDSet(1))

	// The failed second page ends pagination for the account, but the first
	// page's ids survive.
	assert.Len(t, botIDs, 100)
	assert.Equal(t, 2, client.listBotsCalls)
}

func TestBotIDsSkipsAccountOnInfoError(t *testing.T) {
	client := &fakeClient{
		accountInfoFn: func(id int64) (*threecommas.Account, error) {
			if id == 1 {
				return nil, errors.New("unreachable")
			}
			return &threecommas.Account{ID: id, Name: "ok"}, nil
		},
		listBotsFn: func(accountID int64, _, _ int) ([]threecommas.Bot, error) {
			return []threecommas.Bot{{ID: accountID * 10}}, nil
		},
	}

	d := NewDiscovery(client, testLogger())
	botIDs := d.BotIDs(context.Background(), NewIDSet(1, 2))

	assert.Len(t, botIDs, 1)
	assert.Contains(t, botIDs, int64(20))
}

func TestDealIDsUnionAcrossBots(t *testing.T) {
	client := &fakeClient{
		listActiveDealsFn: func(botID int64, limit, offset int) ([]threecommas.Deal, error) {
			require.Equal(t, 1000, limit)
			require.Equal(t, 0, offset)
			// Both bots report deal 100; the union keeps it once.
			return []threecommas.Deal{{ID: botID}, {ID: 100}}, nil
		},
	}

	d := NewDiscovery(client, testLogger())
	dealIDs := d.DealIDs(context.Background(), NewIDSet(1, 2))

	assert.Len(t, dealIDs, 3)
	assert.Contains(t, dealIDs, int64(1))
	assert.Contains(t, dealIDs, int64(2))
	assert.Contains(t, dealIDs, int64(100))
}

func TestDealIDsSkipsBotOnInfoError(t *testing.T) {
	client := &fakeClient{
		botInfoFn: func(id int64) (*threecommas.Bot, error) {
			return nil, errors.New("gone")
		},
	}

	d := NewDiscovery(client, testLogger())
	dealIDs := d.DealIDs(context.Background(), NewIDSet(1))

	assert.Empty(t, dealIDs)
	assert.Zero(t, client.listDealsCalls)
}
