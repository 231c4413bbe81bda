package threecommas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealNumericAccessors(t *testing.T) {
	deal := Deal{
		StopLossPercentage:     "5.0",
		ActualProfitPercentage: "4.25",
	}

	sl, err := deal.StopLossPercent()
	require.NoError(t, err)
	assert.Equal(t, -5.0, sl)

	profit, err := deal.ProfitPercent()
	require.NoError(t, err)
	assert.Equal(t, 4.25, profit)
}

func TestDealStopLossPercentMalformed(t *testing.T) {
	deal := Deal{StopLossPercentage: "n/a"}
	_, err := deal.StopLossPercent()
	assert.Error(t, err)
}

func TestDealLeverageAmount(t *testing.T) {
	tests := []struct {
		name   string
		custom string
		want   float64
	}{
		{"no custom leverage", "", 1.0},
		{"custom leverage", "3.0", 3.0},
		{"unparseable falls back", "max", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := Deal{LeverageCustomValue: tt.custom}
			assert.Equal(t, tt.want, deal.LeverageAmount())
		})
	}
}

func TestDealDecodesPlatformJSON(t *testing.T) {
	// Field names follow the 3Commas wire format, including the "finished?"
	// key and numbers encoded as strings.
	raw := `{
		"id": 987654,
		"bot_id": 1234,
		"pair": "USDT_ETH",
		"status": "bought",
		"finished?": false,
		"strategy": "long",
		"leverage_type": "custom",
		"leverage_custom_value": "2.0",
		"stop_loss_type": "stop_loss",
		"stop_loss_percentage": "3.0",
		"tsl_enabled": false,
		"actual_profit_percentage": "1.17"
	}`

	var deal Deal
	require.NoError(t, json.Unmarshal([]byte(raw), &deal))

	assert.Equal(t, int64(987654), deal.ID)
	assert.Equal(t, StatusBought, deal.Status)
	assert.False(t, deal.Finished)
	assert.Equal(t, StopLossPlain, deal.StopLossType)
	assert.Equal(t, 2.0, deal.LeverageAmount())
}
