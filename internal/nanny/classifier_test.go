package nanny

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"botnanny/internal/threecommas"
)

func TestIsActiveTerminalStatuses(t *testing.T) {
	terminal := []threecommas.DealStatus{
		threecommas.StatusCancelled,
		threecommas.StatusCompleted,
		threecommas.StatusFailed,
		threecommas.StatusPanicSellPending,
		threecommas.StatusPanicSellOrderPlaced,
		threecommas.StatusPanicSold,
		threecommas.StatusCancelPending,
		threecommas.StatusStopLossPending,
		threecommas.StatusStopLossFinished,
		threecommas.StatusStopLossOrderPlaced,
		threecommas.StatusSwitched,
		threecommas.StatusSwitchedTakeProfit,
		threecommas.StatusLiquidated,
		threecommas.StatusBoughtSafetyPending,
		threecommas.StatusBoughtTakeProfitPending,
		threecommas.StatusSettled,
	}

	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			deal := &threecommas.Deal{ID: 1, Status: status}
			assert.False(t, IsActive(deal))
		})
	}
}

func TestIsActiveNonTerminalStatuses(t *testing.T) {
	active := []threecommas.DealStatus{
		threecommas.StatusCreated,
		threecommas.StatusBaseOrderPlaced,
		threecommas.StatusBought,
		threecommas.DealStatus("some_future_status"),
	}

	for _, status := range active {
		t.Run(string(status), func(t *testing.T) {
			deal := &threecommas.Deal{ID: 1, Status: status}
			assert.True(t, IsActive(deal))
		})
	}
}

func TestIsActiveFinishedFlagWins(t *testing.T) {
	// The finished flag excludes a deal even in an otherwise active status.
	deal := &threecommas.Deal{ID: 1, Status: threecommas.StatusBought, Finished: true}
	assert.False(t, IsActive(deal))
}
