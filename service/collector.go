package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"raffler/esi"
	"raffler/models"
)

// Fixed market identifiers used for every valuation
const (
	// TheForgeRegionID is the trading region all price lookups run against
	TheForgeRegionID int32 = 10000002
	// JitaStationID is the station item quotes are restricted to
	JitaStationID int64 = 60003760
	// HypercoreTypeID is the consumable spent to list a raffle
	HypercoreTypeID int32 = 52568
	// PlexTypeID is the currency-equivalent asset used as a pricing denominator
	PlexTypeID int32 = 44992
)

// Notification type tags for the three raffle lifecycle phases
const (
	notificationRaffleCreated  = "RaffleCreated"
	notificationRaffleExpired  = "RaffleExpired"
	notificationRaffleFinished = "RaffleFinished"
)

type collectorService struct {
	uowFactory UnitOfWorkFactory
	feed       EventFeed
	market     MarketClient
	tokens     TokenSource
	dispatcher AlertDispatcher
}

// NewCollectorService creates the periodic raffle collection service
func NewCollectorService(uowFactory UnitOfWorkFactory, feed EventFeed, market MarketClient, tokens TokenSource, dispatcher AlertDispatcher) CollectorService {
	return &collectorService{
		uowFactory: uowFactory,
		feed:       feed,
		market:     market,
		tokens:     tokens,
		dispatcher: dispatcher,
	}
}

// referencePrices are the run-wide quotes every inserted raffle is enriched with
type referencePrices struct {
	coreSell *float64
	coreBuy  *float64
	plex     *float64
}

// Run executes one collection pass: for every registered character, fetch
// the notification window, store newly created raffles with prices filled
// in, correlate terminal announcements, dispatch alerts and persist the
// terminal statuses. Characters are failure-isolated from each other.
func (s *collectorService) Run(ctx context.Context) error {
	characters, err := s.allCharacters(ctx)
	if err != nil {
		return fmt.Errorf("failed to list characters: %w", err)
	}

	// Item quotes are restricted to Jita 4-4; the hypercore quote is
	// region-wide, matching how listing costs are actually paid.
	itemOracle := NewPriceOracle(s.market, TheForgeRegionID, JitaStationID)
	coreOracle := NewPriceOracle(s.market, TheForgeRegionID, 0)

	refs, err := s.fetchReferencePrices(ctx, coreOracle)
	if err != nil {
		return fmt.Errorf("failed to fetch reference prices: %w", err)
	}

	for _, character := range characters {
		if err := s.collectCharacter(ctx, character, itemOracle, refs); err != nil {
			log.Errorf("Error collecting raffles for character %d: %v", character.CharacterID, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return nil
}

func (s *collectorService) allCharacters(ctx context.Context) ([]*models.Character, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.CharacterRepository().GetAll(ctx)
}

func (s *collectorService) fetchReferencePrices(ctx context.Context, coreOracle *PriceOracle) (referencePrices, error) {
	coreQuote, err := coreOracle.Quote(ctx, HypercoreTypeID)
	if err != nil {
		return referencePrices{}, err
	}

	var prices []esi.MarketPrice
	for {
		prices, err = s.market.MarketPrices(ctx)
		if err == nil {
			break
		}
		if !errors.Is(err, esi.ErrTransient) {
			return referencePrices{}, err
		}
		log.Warnf("Error fetching market prices, retrying: %v", err)
		if ctx.Err() != nil {
			return referencePrices{}, ctx.Err()
		}
	}

	refs := referencePrices{
		coreSell: coreQuote.Sell,
		coreBuy:  coreQuote.Buy,
	}
	for _, price := range prices {
		if price.TypeID == PlexTypeID {
			refs.plex = price.AveragePrice
			break
		}
	}

	return refs, nil
}

// collectCharacter processes one character's notification window
func (s *collectorService) collectCharacter(ctx context.Context, character *models.Character, oracle *PriceOracle, refs referencePrices) error {
	accessToken, err := s.tokens.RefreshAccessToken(ctx, character.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}

	notifications, err := s.fetchNotifications(ctx, accessToken, character.CharacterID)
	if err != nil {
		return err
	}

	created := s.parseByType(notifications, notificationRaffleCreated, character.CharacterID)
	expired := s.parseByType(notifications, notificationRaffleExpired, character.CharacterID)
	finished := s.parseByType(notifications, notificationRaffleFinished, character.CharacterID)

	if err := s.insertCreated(ctx, created, oracle, refs); err != nil {
		return err
	}

	newlyExpired, newlyFinished := correlate(created, expired, finished)

	destination, err := s.destination(ctx, character.DiscordUserID)
	if err != nil {
		return err
	}

	var transitioned []transition
	for _, t := range append(transitions(newlyExpired, models.RaffleStatusExpired), transitions(newlyFinished, models.RaffleStatusFinished)...) {
		if err := s.notifyTransition(ctx, t, character, destination); err != nil {
			log.Errorf("Error notifying transition of raffle %s: %v", t.raffleID, err)
			continue
		}
		transitioned = append(transitioned, t)
	}

	return s.updateStatuses(ctx, transitioned)
}

func (s *collectorService) fetchNotifications(ctx context.Context, accessToken string, characterID int32) ([]esi.Notification, error) {
	for {
		notifications, err := s.feed.CharacterNotifications(ctx, accessToken, characterID)
		if err == nil {
			return notifications, nil
		}
		if !errors.Is(err, esi.ErrTransient) {
			return nil, err
		}
		log.Warnf("Error fetching notifications for character %d, retrying: %v", characterID, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
}

// parseByType parses every notification with the given type tag.
// Malformed announcements are logged and skipped; they never abort siblings.
func (s *collectorService) parseByType(notifications []esi.Notification, notificationType string, characterID int32) []*models.RaffleAnnouncement {
	var announcements []*models.RaffleAnnouncement
	for _, notification := range notifications {
		if notification.Type != notificationType {
			continue
		}
		announcement, err := ParseAnnouncement(notification, characterID)
		if err != nil {
			log.Warnf("Skipping %s notification %d: %v", notificationType, notification.NotificationID, err)
			continue
		}
		announcements = append(announcements, announcement)
	}
	return announcements
}

// insertCreated stores first-sighting raffles, enriched with prices, in a
// single transaction so a mid-batch failure leaves no partial insert set.
func (s *collectorService) insertCreated(ctx context.Context, created []*models.RaffleAnnouncement, oracle *PriceOracle, refs referencePrices) error {
	if len(created) == 0 {
		return nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer uow.Rollback()

	for _, announcement := range created {
		quote, err := oracle.Quote(ctx, announcement.TypeID)
		if err != nil {
			// Unknown prices are stored as such, never defaulted
			log.Warnf("Price lookup failed for type %d: %v", announcement.TypeID, err)
			quote = PriceQuote{}
		}

		raffle := announcement.NewRaffle()
		raffle.SellPrice = quote.Sell
		raffle.BuyPrice = quote.Buy
		raffle.CoreSellPrice = refs.coreSell
		raffle.CoreBuyPrice = refs.coreBuy
		raffle.PlexPrice = refs.plex

		if err := uow.RaffleRepository().Create(ctx, raffle); err != nil {
			return fmt.Errorf("failed to insert raffle %s: %w", raffle.RaffleID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit raffle inserts: %w", err)
	}

	return nil
}

// correlate determines which raffle IDs turned terminal inside this fetch
// window. A raffle transitions only when its created announcement and a
// terminal announcement both fall in the window; an ID announced as both
// expired and finished is inconsistent input and transitions nowhere.
func correlate(created, expired, finished []*models.RaffleAnnouncement) (newlyExpired, newlyFinished []string) {
	createdIDs := announcementIDs(created)
	expiredIDs := announcementIDs(expired)
	finishedIDs := announcementIDs(finished)

	for id := range createdIDs {
		inExpired := expiredIDs[id]
		inFinished := finishedIDs[id]

		switch {
		case inExpired && inFinished:
			log.Errorf("Raffle %s announced as both expired and finished in one window, skipping", id)
		case inExpired:
			newlyExpired = append(newlyExpired, id)
		case inFinished:
			newlyFinished = append(newlyFinished, id)
		}
	}

	return newlyExpired, newlyFinished
}

func announcementIDs(announcements []*models.RaffleAnnouncement) map[string]bool {
	ids := make(map[string]bool, len(announcements))
	for _, a := range announcements {
		ids[a.RaffleID] = true
	}
	return ids
}

type transition struct {
	raffleID string
	status   models.RaffleStatus
}

func transitions(ids []string, status models.RaffleStatus) []transition {
	ts := make([]transition, 0, len(ids))
	for _, id := range ids {
		ts = append(ts, transition{raffleID: id, status: status})
	}
	return ts
}

func (s *collectorService) destination(ctx context.Context, discordUserID int64) (*models.NotificationChannel, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.NotificationChannelRepository().GetByDiscordUserID(ctx, discordUserID)
}

// notifyTransition re-fetches the stored record, and only if it is still in
// the initial state, valuates it and dispatches the alert. A missing
// destination skips dispatch but does not block the status update.
func (s *collectorService) notifyTransition(ctx context.Context, t transition, character *models.Character, destination *models.NotificationChannel) error {
	raffle, err := s.raffleByID(ctx, t.raffleID)
	if err != nil {
		return err
	}
	if raffle == nil {
		return ErrRaffleNotFound
	}
	if raffle.Status.IsTerminal() {
		log.Debugf("Raffle %s already %s, skipping notification", raffle.RaffleID, raffle.Status)
		return nil
	}

	if destination == nil {
		log.Warnf("No notification destination configured for user %d, skipping alert for raffle %s: %v",
			character.DiscordUserID, raffle.RaffleID, ErrNoDestination)
		return nil
	}

	itemName, err := s.market.TypeName(ctx, raffle.TypeID)
	if err != nil {
		log.Warnf("Failed to resolve name of type %d: %v", raffle.TypeID, err)
		itemName = fmt.Sprintf("Type %d", raffle.TypeID)
	}

	alert := &RaffleAlert{
		Raffle:        raffle,
		NewStatus:     t.status,
		ItemName:      itemName,
		Valuation:     Valuate(raffle),
		DiscordUserID: character.DiscordUserID,
		ChannelID:     destination.ChannelID,
	}

	if err := s.dispatcher.DispatchRaffleAlert(ctx, alert); err != nil {
		return fmt.Errorf("failed to dispatch alert: %w", err)
	}

	return nil
}

func (s *collectorService) raffleByID(ctx context.Context, raffleID string) (*models.Raffle, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.RaffleRepository().GetByRaffleID(ctx, raffleID)
}

// updateStatuses persists the terminal statuses for all transitioned
// raffles in one transaction. Each write is guarded so a replayed terminal
// announcement for an already-terminal raffle changes nothing.
func (s *collectorService) updateStatuses(ctx context.Context, transitioned []transition) error {
	if len(transitioned) == 0 {
		return nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin status update transaction: %w", err)
	}
	defer uow.Rollback()

	for _, t := range transitioned {
		updated, err := uow.RaffleRepository().UpdateStatus(ctx, t.raffleID, t.status)
		if err != nil {
			return fmt.Errorf("failed to update status of raffle %s: %w", t.raffleID, err)
		}
		if !updated {
			log.Debugf("Raffle %s no longer in created state, status unchanged", t.raffleID)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit status updates: %w", err)
	}

	return nil
}
