package engine

import "errors"

// Kind groups rule violations the way they are reported back to a client.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindCapacity      Kind = "capacity"
	KindStateConflict Kind = "state_conflict"
	KindUnauthorized  Kind = "unauthorized"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var ErrLobbyNotFound = &Error{KindNotFound, "lobby not found"}
var ErrLobbyFull = &Error{KindCapacity, "lobby full"}
var ErrGameInProgress = &Error{KindStateConflict, "game already started"}
var ErrGameNotStarted = &Error{KindStateConflict, "game not started"}
var ErrNotYourTurn = &Error{KindStateConflict, "not your turn"}
var ErrNoCards = &Error{KindStateConflict, "no cards to play"}
var ErrMustPlaySpecial = &Error{KindStateConflict, "must respond with a special card"}
var ErrInsufficientValue = &Error{KindStateConflict, "insufficient card value to counter"}
var ErrNotEnoughPlayers = &Error{KindStateConflict, "need 2+ players to start"}
var ErrPlayersNotReady = &Error{KindStateConflict, "all players must be ready"}
var ErrNotSeated = &Error{KindStateConflict, "not in this lobby"}
var ErrAlreadyJoined = &Error{KindStateConflict, "already in this lobby"}
var ErrNotHost = &Error{KindUnauthorized, "only host can start"}
var ErrUnsupportedCommand = &Error{KindStateConflict, "unsupported command"}

// KindOf reports the taxonomy of err, or "" if err is not a rule violation.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
