package service

import (
	"math"

	"raffler/models"
)

// Valuation holds the computed profitability figures for one raffle.
// Profit figures are nil when a required market price is unknown;
// they are never substituted with a default.
type Valuation struct {
	Payout        float64
	ProfitWin     *float64
	ProfitLose    *float64
	ExpectedValue *float64
}

type profitScenario int

const (
	scenarioWinner profitScenario = iota
	scenarioLoser
)

// Valuate computes the win/lose profit and expected value for a raffle.
// Pure function of the record's prices.
func Valuate(raffle *models.Raffle) Valuation {
	v := Valuation{
		Payout:     raffle.Payout(),
		ProfitWin:  profit(raffle, scenarioWinner),
		ProfitLose: profit(raffle, scenarioLoser),
	}

	if v.ProfitWin != nil && v.ProfitLose != nil {
		ev := (*v.ProfitWin + *v.ProfitLose) * 0.5
		v.ExpectedValue = &ev
	}

	return v
}

// profit computes the owner's profit for one scenario.
//
// Listing a raffle costs hypercores worth half the item value: the owner
// buys floor(item_value / (2 * plex_price)) cores at the core sell price
// and additionally forfeits tickets worth half the item value. Winning
// recovers the item (valued at its buy price) on top of the payout;
// losing recovers only the payout.
func profit(raffle *models.Raffle, scenario profitScenario) *float64 {
	if raffle.BuyPrice == nil || raffle.CoreSellPrice == nil || raffle.PlexPrice == nil {
		return nil
	}

	itemValue := raffle.ItemValue()
	payout := raffle.Payout()
	requiredCores := math.Floor(itemValue / (2.0 * *raffle.PlexPrice))
	expense := *raffle.BuyPrice + requiredCores**raffle.CoreSellPrice + 0.5*itemValue

	var income float64
	switch scenario {
	case scenarioWinner:
		income = *raffle.BuyPrice + payout
	case scenarioLoser:
		income = payout
	}

	p := income - expense
	return &p
}
