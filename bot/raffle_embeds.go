package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"raffler/models"
	"raffler/service"
)

// Discord color constants
const (
	ColorNeutral  = 0xFFFFFF // White
	ColorExpired  = 0xFF0000 // Red
	ColorFinished = 0x00FF00 // Green
	ColorWon      = 0xF1C40F // Gold
	ColorLost     = 0xE67E22 // Orange
)

// statusColor maps a lifecycle status to its embed color
func statusColor(status models.RaffleStatus) int {
	switch status {
	case models.RaffleStatusExpired:
		return ColorExpired
	case models.RaffleStatusFinished:
		return ColorFinished
	default:
		return ColorNeutral
	}
}

// iskField renders an optional price, "Unknown" when the lookup failed
func iskField(value *float64) string {
	if value == nil {
		return "Unknown"
	}
	return FormatISK(*value)
}

// BuildRaffleAlertEmbed renders the lifecycle-transition alert for a raffle
func BuildRaffleAlertEmbed(alert *service.RaffleAlert) *discordgo.MessageEmbed {
	raffle := alert.Raffle
	valuation := alert.Valuation

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Hypernet Raffle %s", alert.NewStatus.Display()),
		Description: fmt.Sprintf("Hypernet Raffle changed status to %s", alert.NewStatus.Display()),
		Color:       statusColor(alert.NewStatus),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: fmt.Sprintf("https://images.evetech.net/types/%d/icon", raffle.TypeID),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Item", Value: alert.ItemName, Inline: true},
			{Name: "Market Value (Sell)", Value: iskField(raffle.SellPrice), Inline: true},
			{Name: "Market Value (Buy)", Value: iskField(raffle.BuyPrice), Inline: true},
			{Name: "Ticket Count", Value: FormatCount(int64(raffle.TicketCount)), Inline: true},
			{Name: "Ticket Price", Value: FormatISK(raffle.TicketPrice), Inline: true},
			{Name: "Payout", Value: FormatISK(valuation.Payout), Inline: true},
			{Name: "Profit (Win)", Value: iskField(valuation.ProfitWin), Inline: true},
			{Name: "Profit (Lose)", Value: iskField(valuation.ProfitLose), Inline: true},
			{Name: "Expected Value", Value: iskField(valuation.ExpectedValue), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("RaffleID: %s", raffle.RaffleID),
		},
	}
}

// recordedEmbeds returns copies of the alert embeds restyled for the
// recorded outcome: title suffix and outcome color
func recordedEmbeds(embeds []*discordgo.MessageEmbed, result models.RaffleResult) []*discordgo.MessageEmbed {
	suffix := " - Won"
	color := ColorWon
	if result == models.RaffleResultLoser {
		suffix = " - Loss"
		color = ColorLost
	}

	edited := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, embed := range embeds {
		e := *embed
		e.Title = embed.Title + suffix
		e.Color = color
		edited = append(edited, &e)
	}
	return edited
}
