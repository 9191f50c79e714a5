package models

import (
	"time"
)

// RaffleStatus represents the lifecycle state of a hypernet raffle
type RaffleStatus string

const (
	RaffleStatusCreated  RaffleStatus = "created"
	RaffleStatusExpired  RaffleStatus = "expired"
	RaffleStatusFinished RaffleStatus = "finished"
)

// Display returns the human-readable form used in embed titles
func (s RaffleStatus) Display() string {
	switch s {
	case RaffleStatusCreated:
		return "Created"
	case RaffleStatusExpired:
		return "Expired"
	case RaffleStatusFinished:
		return "Finished"
	}
	return string(s)
}

// IsTerminal reports whether the status can no longer change
func (s RaffleStatus) IsTerminal() bool {
	return s == RaffleStatusExpired || s == RaffleStatusFinished
}

// RaffleResult represents the recorded real-world outcome of a finished raffle
type RaffleResult string

const (
	RaffleResultNone   RaffleResult = "none"
	RaffleResultWinner RaffleResult = "winner"
	RaffleResultLoser  RaffleResult = "loser"
)

// Raffle represents one tracked hypernet raffle
type Raffle struct {
	RaffleID        string       `db:"raffle_id"`
	OwnerID         int32        `db:"owner_id"`
	CharacterID     int32        `db:"character_id"`
	LocationID      int64        `db:"location_id"`
	TypeID          int32        `db:"type_id"`
	TicketCount     int32        `db:"ticket_count"`
	TicketPrice     float64      `db:"ticket_price"`
	Status          RaffleStatus `db:"status"`
	Result          RaffleResult `db:"result"`
	SellPrice       *float64     `db:"sell_price"`
	BuyPrice        *float64     `db:"buy_price"`
	CoreSellPrice   *float64     `db:"core_sell_price"`
	CoreBuyPrice    *float64     `db:"core_buy_price"`
	PlexPrice       *float64     `db:"plex_price"`
	CreatedAt       time.Time    `db:"created_at"`
}

// ItemValue is the total ticket value of the raffled item
func (r *Raffle) ItemValue() float64 {
	return float64(r.TicketCount) * r.TicketPrice
}

// Payout is what the owner receives when the raffle completes, after the 5% hypernet tax
func (r *Raffle) Payout() float64 {
	return r.ItemValue() * 0.95
}
