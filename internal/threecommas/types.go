package threecommas

import "strconv"

// --------------------------------------------------------------------------
// 3Commas API DTOs
// --------------------------------------------------------------------------

// DealStatus is a deal's platform lifecycle state. The set of values is
// closed; anything the API returns outside this list is carried through
// verbatim and treated as active by the classifier.
type DealStatus string

const (
	StatusCreated                 DealStatus = "created"
	StatusBaseOrderPlaced         DealStatus = "base_order_placed"
	StatusBought                  DealStatus = "bought"
	StatusCancelled               DealStatus = "cancelled"
	StatusCompleted               DealStatus = "completed"
	StatusFailed                  DealStatus = "failed"
	StatusPanicSellPending        DealStatus = "panic_sell_pending"
	StatusPanicSellOrderPlaced    DealStatus = "panic_sell_order_placed"
	StatusPanicSold               DealStatus = "panic_sold"
	StatusCancelPending           DealStatus = "cancel_pending"
	StatusStopLossPending         DealStatus = "stop_loss_pending"
	StatusStopLossFinished        DealStatus = "stop_loss_finished"
	StatusStopLossOrderPlaced     DealStatus = "stop_loss_order_placed"
	StatusSwitched                DealStatus = "switched"
	StatusSwitchedTakeProfit      DealStatus = "switched_take_profit"
	StatusLiquidated              DealStatus = "liquidated"
	StatusBoughtSafetyPending     DealStatus = "bought_safety_pending"
	StatusBoughtTakeProfitPending DealStatus = "bought_take_profit_pending"
	StatusSettled                 DealStatus = "settled"
)

// StopLossType identifies how a deal's stop-loss behaves.
type StopLossType string

const (
	// StopLossPlain is the simple fixed stop-loss kind.
	StopLossPlain StopLossType = "stop_loss"
	// StopLossAndDisable closes the deal and disables the bot.
	StopLossAndDisable StopLossType = "stop_loss_and_disable_bot"
)

// Account represents a 3Commas exchange account as returned by
// /ver1/accounts/{id}.
type Account struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ExchangeName string `json:"exchange_name"`
	MarketCode   string `json:"market_code"`
}

// Bot represents a DCA bot as returned by /ver1/bots.
type Bot struct {
	ID               int64    `json:"id"`
	AccountID        int64    `json:"account_id"`
	Name             string   `json:"name"`
	IsEnabled        bool     `json:"is_enabled"`
	ActiveDealsCount int      `json:"active_deals_count"`
	Pairs            []string `json:"pairs"`
}

// Deal represents a DCA bot deal as returned by /ver1/deals. 3Commas encodes
// most numeric fields as JSON strings; the typed accessors below parse them.
type Deal struct {
	ID       int64      `json:"id"`
	BotID    int64      `json:"bot_id"`
	BotName  string     `json:"bot_name"`
	Pair     string     `json:"pair"`
	Status   DealStatus `json:"status"`
	Finished bool       `json:"finished?"`
	Strategy string     `json:"strategy"`

	LeverageType        string `json:"leverage_type"`
	LeverageCustomValue string `json:"leverage_custom_value"`

	StopLossType       StopLossType `json:"stop_loss_type"`
	StopLossPercentage string       `json:"stop_loss_percentage"`
	TslEnabled         bool         `json:"tsl_enabled"`

	ActualProfitPercentage string `json:"actual_profit_percentage"`
}

// StopLossPercent returns the deal's true stop-loss percentage. 3Commas
// stores the value sign-inverted for DCA bot deals (a positive API value
// means a stop at a loss), so the reported value is negated here. This sign
// flip is an external-interface contract, not a modelling choice.
func (d *Deal) StopLossPercent() (float64, error) {
	v, err := strconv.ParseFloat(d.StopLossPercentage, 64)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

// ProfitPercent returns the deal's realized profit percentage.
func (d *Deal) ProfitPercent() (float64, error) {
	return strconv.ParseFloat(d.ActualProfitPercentage, 64)
}

// LeverageAmount returns the deal's leverage, defaulting to 1.0 when no
// custom leverage value is present or it fails to parse.
func (d *Deal) LeverageAmount() float64 {
	if d.LeverageCustomValue == "" {
		return 1.0
	}
	v, err := strconv.ParseFloat(d.LeverageCustomValue, 64)
	if err != nil {
		return 1.0
	}
	return v
}

// apiError is the error envelope returned by the 3Commas API.
type apiError struct {
	Error            string         `json:"error"`
	ErrorDescription string         `json:"error_description"`
	ErrorAttributes  map[string]any `json:"error_attributes"`
}
