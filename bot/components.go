package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Raffle interaction custom ID prefixes. IDs look like "raffle_won_<raffle_id>";
// the raffle ID itself may contain underscores, so handlers strip the prefix
// rather than splitting.
const (
	customIDRaffleWon    = "raffle_won_"
	customIDRaffleLost   = "raffle_lost_"
	customIDRaffleMarket = "raffle_market_"
)

// BuildRaffleOutcomeComponents creates the Won/Lost buttons attached to a
// finished-raffle alert
func BuildRaffleOutcomeComponents(raffleID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Won Raffle",
					Style:    discordgo.SuccessButton,
					CustomID: customIDRaffleWon + raffleID,
				},
				discordgo.Button{
					Label:    "Lost Raffle",
					Style:    discordgo.DangerButton,
					CustomID: customIDRaffleLost + raffleID,
				},
			},
		},
	}
}

// BuildRecordedRaffleComponents creates the component row shown after the
// outcome is recorded: outcome buttons disabled, market lookup still live
func BuildRecordedRaffleComponents(raffleID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Won Raffle",
					Style:    discordgo.SuccessButton,
					CustomID: customIDRaffleWon + raffleID,
					Disabled: true,
				},
				discordgo.Button{
					Label:    "Lost Raffle",
					Style:    discordgo.DangerButton,
					CustomID: customIDRaffleLost + raffleID,
					Disabled: true,
				},
				discordgo.Button{
					Label:    "Open Market",
					Style:    discordgo.PrimaryButton,
					CustomID: customIDRaffleMarket + raffleID,
				},
			},
		},
	}
}
