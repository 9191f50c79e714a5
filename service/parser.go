package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"raffler/esi"
	"raffler/models"
)

// Raffle announcement bodies are newline-separated "key: value" entries.
// All of these keys must be present for the announcement to parse.
const (
	keyOwnerID     = "owner_id"
	keyRaffleID    = "raffle_id"
	keyLocationID  = "location_id"
	keyTicketPrice = "ticket_price"
	keyTicketCount = "ticket_count"
	keyTypeID      = "type_id"
)

// ParseAnnouncement converts one raw raffle notification into its typed form.
// Parsing is all-or-nothing: any missing or malformed field fails the whole
// announcement with ErrMalformedAnnouncement.
func ParseAnnouncement(notification esi.Notification, characterID int32) (*models.RaffleAnnouncement, error) {
	if notification.Text == nil {
		return nil, fmt.Errorf("%w: notification has no text body", ErrMalformedAnnouncement)
	}

	fields := parseFields(*notification.Text)

	ownerID, err := requireInt32(fields, keyOwnerID)
	if err != nil {
		return nil, err
	}

	raffleID, ok := fields[keyRaffleID]
	if !ok || raffleID == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedAnnouncement, keyRaffleID)
	}

	locationID, err := requireInt64(fields, keyLocationID)
	if err != nil {
		return nil, err
	}

	ticketPrice, err := requireFloat(fields, keyTicketPrice)
	if err != nil {
		return nil, err
	}

	ticketCount, err := requireInt32(fields, keyTicketCount)
	if err != nil {
		return nil, err
	}

	typeID, err := requireInt32(fields, keyTypeID)
	if err != nil {
		return nil, err
	}

	timestamp, err := time.Parse(time.RFC3339, notification.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp %q: %v", ErrMalformedAnnouncement, notification.Timestamp, err)
	}

	return &models.RaffleAnnouncement{
		OwnerID:     ownerID,
		RaffleID:    raffleID,
		CharacterID: characterID,
		LocationID:  locationID,
		TypeID:      typeID,
		TicketCount: ticketCount,
		TicketPrice: ticketPrice,
		Timestamp:   timestamp,
	}, nil
}

// parseFields splits a notification body into its key/value entries.
// Lines without a "key: value" shape are ignored; duplicate keys keep the
// last occurrence.
func parseFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ": ")
		if !found {
			continue
		}
		fields[key] = value
	}
	return fields
}

func requireInt32(fields map[string]string, key string) (int32, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedAnnouncement, key)
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q: %v", ErrMalformedAnnouncement, key, raw, err)
	}
	return int32(v), nil
}

func requireInt64(fields map[string]string, key string) (int64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedAnnouncement, key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q: %v", ErrMalformedAnnouncement, key, raw, err)
	}
	return v, nil
}

func requireFloat(fields map[string]string, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedAnnouncement, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q: %v", ErrMalformedAnnouncement, key, raw, err)
	}
	return v, nil
}
