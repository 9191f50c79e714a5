package testutil

import (
	"fmt"
	"time"

	"raffler/models"
)

// CreateTestCharacter creates a test character with default values
func CreateTestCharacter(characterID int32, discordUserID int64) *models.Character {
	return &models.Character{
		CharacterID:   characterID,
		DiscordUserID: discordUserID,
		CharacterName: fmt.Sprintf("Test Pilot %d", characterID),
		RefreshToken:  fmt.Sprintf("refresh-token-%d", characterID),
	}
}

// CreateTestRaffle creates a test raffle in the created status
func CreateTestRaffle(raffleID string, characterID int32) *models.Raffle {
	return &models.Raffle{
		RaffleID:    raffleID,
		OwnerID:     characterID,
		CharacterID: characterID,
		LocationID:  60003760,
		TypeID:      587,
		TicketCount: 8,
		TicketPrice: 1000000,
		Status:      models.RaffleStatusCreated,
		Result:      models.RaffleResultNone,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// CreateTestRaffleWithPrices creates a test raffle with all market prices populated
func CreateTestRaffleWithPrices(raffleID string, characterID int32) *models.Raffle {
	raffle := CreateTestRaffle(raffleID, characterID)
	sell := 54730000.0
	buy := 50000000.0
	coreSell := 327600.0
	coreBuy := 304000.0
	plex := 5736785.34
	raffle.SellPrice = &sell
	raffle.BuyPrice = &buy
	raffle.CoreSellPrice = &coreSell
	raffle.CoreBuyPrice = &coreBuy
	raffle.PlexPrice = &plex
	return raffle
}

// CreateTestNotificationChannel creates a channel destination for a user
func CreateTestNotificationChannel(discordUserID int64, channelID int64) *models.NotificationChannel {
	return &models.NotificationChannel{
		DiscordUserID: discordUserID,
		ChannelID:     &channelID,
	}
}

// CreateTestAuthRequest creates a pending authorization request
func CreateTestAuthRequest(discordUserID int64, state string) *models.AuthRequest {
	return &models.AuthRequest{
		DiscordUserID: discordUserID,
		State:         state,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}
