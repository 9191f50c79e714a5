package service

import (
	"testing"

	"raffler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullyPricedRaffle() *models.Raffle {
	sell := 60000000.0
	buy := 54730000.0
	coreSell := 327600.0
	coreBuy := 304000.0
	plex := 5736785.34
	return &models.Raffle{
		RaffleID:      "3037519_7",
		TicketCount:   8,
		TicketPrice:   10307323.0,
		SellPrice:     &sell,
		BuyPrice:      &buy,
		CoreSellPrice: &coreSell,
		CoreBuyPrice:  &coreBuy,
		PlexPrice:     &plex,
	}
}

func TestValuate_ProfitSigns(t *testing.T) {
	v := Valuate(fullyPricedRaffle())

	require.NotNil(t, v.ProfitWin)
	require.NotNil(t, v.ProfitLose)
	require.NotNil(t, v.ExpectedValue)

	// Owning the item back plus the payout beats the listing costs;
	// the payout alone does not.
	assert.Greater(t, *v.ProfitWin, 0.0)
	assert.Less(t, *v.ProfitLose, 0.0)
}

func TestValuate_Figures(t *testing.T) {
	raffle := fullyPricedRaffle()
	v := Valuate(raffle)

	itemValue := 8 * 10307323.0
	payout := itemValue * 0.95
	assert.InDelta(t, payout, v.Payout, 0.01)

	// 7 hypercores cover half the item value at this PLEX price
	expense := 54730000.0 + 7*327600.0 + 0.5*itemValue
	require.NotNil(t, v.ProfitWin)
	assert.InDelta(t, 54730000.0+payout-expense, *v.ProfitWin, 0.01)
	require.NotNil(t, v.ProfitLose)
	assert.InDelta(t, payout-expense, *v.ProfitLose, 0.01)

	require.NotNil(t, v.ExpectedValue)
	assert.InDelta(t, (*v.ProfitWin+*v.ProfitLose)/2, *v.ExpectedValue, 0.01)
}

func TestValuate_MissingPrices(t *testing.T) {
	tests := []struct {
		name  string
		strip func(r *models.Raffle)
	}{
		{name: "no buy price", strip: func(r *models.Raffle) { r.BuyPrice = nil }},
		{name: "no core sell price", strip: func(r *models.Raffle) { r.CoreSellPrice = nil }},
		{name: "no plex price", strip: func(r *models.Raffle) { r.PlexPrice = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raffle := fullyPricedRaffle()
			tt.strip(raffle)

			v := Valuate(raffle)

			assert.Nil(t, v.ProfitWin)
			assert.Nil(t, v.ProfitLose)
			assert.Nil(t, v.ExpectedValue)
			// Payout depends only on the ticket figures
			assert.InDelta(t, 8*10307323.0*0.95, v.Payout, 0.01)
		})
	}
}

func TestValuate_SellPriceNotRequired(t *testing.T) {
	raffle := fullyPricedRaffle()
	raffle.SellPrice = nil
	raffle.CoreBuyPrice = nil

	v := Valuate(raffle)

	assert.NotNil(t, v.ProfitWin)
	assert.NotNil(t, v.ProfitLose)
	assert.NotNil(t, v.ExpectedValue)
}
