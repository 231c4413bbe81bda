package nanny

import "botnanny/internal/threecommas"

// terminalStatuses is the closed set of lifecycle states in which a deal must
// not be touched: it is finished, being torn down, or already under some form
// of exit execution.
var terminalStatuses = map[threecommas.DealStatus]struct{}{
	threecommas.StatusCancelled:               {},
	threecommas.StatusCompleted:               {},
	threecommas.StatusFailed:                  {},
	threecommas.StatusPanicSellPending:        {},
	threecommas.StatusPanicSellOrderPlaced:    {},
	threecommas.StatusPanicSold:               {},
	threecommas.StatusCancelPending:           {},
	threecommas.StatusStopLossPending:         {},
	threecommas.StatusStopLossFinished:        {},
	threecommas.StatusStopLossOrderPlaced:     {},
	threecommas.StatusSwitched:                {},
	threecommas.StatusSwitchedTakeProfit:      {},
	threecommas.StatusLiquidated:              {},
	threecommas.StatusBoughtSafetyPending:     {},
	threecommas.StatusBoughtTakeProfitPending: {},
	threecommas.StatusSettled:                 {},
}

// IsActive reports whether a deal is eligible for protection logic. A deal
// with the finished flag set, or whose status is terminal or transitional, is
// excluded; every other status is treated as active.
func IsActive(deal *threecommas.Deal) bool {
	if deal.Finished {
		return false
	}
	_, terminal := terminalStatuses[deal.Status]
	return !terminal
}
