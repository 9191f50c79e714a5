package service

import "errors"

var (
	// ErrMalformedAnnouncement marks a raffle notification whose body is
	// missing or fails to parse. The announcement is skipped; siblings in
	// the same batch still parse.
	ErrMalformedAnnouncement = errors.New("malformed raffle announcement")

	// ErrRaffleNotFound is returned when no raffle exists for the given ID
	ErrRaffleNotFound = errors.New("raffle not found")

	// ErrNotOwner is returned when the acting Discord user is not linked
	// to the character that announced the raffle
	ErrNotOwner = errors.New("raffle belongs to another user")

	// ErrRaffleNotFinished is returned when an outcome is recorded for a
	// raffle that has not finished
	ErrRaffleNotFinished = errors.New("raffle has not finished")

	// ErrResultAlreadySet is returned when an outcome was already recorded
	ErrResultAlreadySet = errors.New("raffle result already recorded")

	// ErrNoDestination is returned when a user has no notification
	// preference configured at all
	ErrNoDestination = errors.New("no notification destination configured")

	// ErrUnknownAuthRequest is returned when an OAuth callback arrives with
	// a state that matches no pending authorization
	ErrUnknownAuthRequest = errors.New("unknown authorization request")
)
