package models

import "time"

// RaffleAnnouncement is the parsed form of one raffle lifecycle notification.
// It is consumed within a single collect run and never persisted directly.
type RaffleAnnouncement struct {
	OwnerID     int32
	RaffleID    string
	CharacterID int32
	LocationID  int64
	TypeID      int32
	TicketCount int32
	TicketPrice float64
	Timestamp   time.Time
}

// NewRaffle builds the initial stored record for a created announcement.
// Prices are filled in by the collector before insertion.
func (a *RaffleAnnouncement) NewRaffle() *Raffle {
	return &Raffle{
		RaffleID:    a.RaffleID,
		OwnerID:     a.OwnerID,
		CharacterID: a.CharacterID,
		LocationID:  a.LocationID,
		TypeID:      a.TypeID,
		TicketCount: a.TicketCount,
		TicketPrice: a.TicketPrice,
		Status:      RaffleStatusCreated,
		Result:      RaffleResultNone,
		CreatedAt:   a.Timestamp,
	}
}
