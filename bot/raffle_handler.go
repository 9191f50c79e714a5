package bot

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"raffler/models"
	"raffler/service"
)

// handleRaffleInteraction handles button presses on raffle alerts
func (b *Bot) handleRaffleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, customIDRaffleWon):
		b.handleRaffleOutcome(s, i, strings.TrimPrefix(customID, customIDRaffleWon), models.RaffleResultWinner)
	case strings.HasPrefix(customID, customIDRaffleLost):
		b.handleRaffleOutcome(s, i, strings.TrimPrefix(customID, customIDRaffleLost), models.RaffleResultLoser)
	case strings.HasPrefix(customID, customIDRaffleMarket):
		b.handleRaffleMarket(s, i, strings.TrimPrefix(customID, customIDRaffleMarket))
	default:
		b.respondWithError(s, i, "Unknown action.")
	}
}

// handleRaffleOutcome records the real-world outcome and restyles the alert
func (b *Bot) handleRaffleOutcome(s *discordgo.Session, i *discordgo.InteractionCreate, raffleID string, result models.RaffleResult) {
	ctx := context.Background()

	actorID, err := interactionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	_, err = b.raffleService.RecordOutcome(ctx, raffleID, actorID, result)
	if err != nil {
		b.respondWithError(s, i, outcomeErrorMessage(err))
		return
	}

	// Restyle the existing alert in place and retire the outcome buttons
	edited := recordedEmbeds(i.Message.Embeds, result)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     edited,
			Components: BuildRecordedRaffleComponents(raffleID),
		},
	})
	if err != nil {
		log.Errorf("Error updating raffle message: %v", err)
	}
}

// handleRaffleMarket opens the in-game market window for the raffled item
func (b *Bot) handleRaffleMarket(s *discordgo.Session, i *discordgo.InteractionCreate, raffleID string) {
	ctx := context.Background()

	actorID, err := interactionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := b.raffleService.OpenMarket(ctx, raffleID, actorID); err != nil {
		b.respondWithError(s, i, outcomeErrorMessage(err))
		return
	}

	// Acknowledge without changing the message
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Errorf("Error acknowledging market interaction: %v", err)
	}
}

func outcomeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		return "This is not your raffle.\n" +
			"You can't interact with this embed.\n" +
			"If this is your character, please use `/auth` to link your discord account to your character."
	case errors.Is(err, service.ErrRaffleNotFound):
		return "This raffle is not tracked anymore."
	case errors.Is(err, service.ErrRaffleNotFinished):
		return "This raffle has not finished yet."
	case errors.Is(err, service.ErrResultAlreadySet):
		return "The outcome of this raffle is already recorded."
	default:
		log.Errorf("Error handling raffle interaction: %v", err)
		return "Unable to process request. Please try again."
	}
}
