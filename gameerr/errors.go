package gameerr

import "errors"

// Shared game sentinel errors. Used by the game engines and the bot package
// to avoid circular imports. The bot maps these to ephemeral rejections.
var (
	ErrNoSession       = errors.New("no game is running in this channel")
	ErrSessionExists   = errors.New("a game is already running in this channel")
	ErrGameStarted     = errors.New("the game has already started")
	ErrGameNotStarted  = errors.New("the game has not started yet")
	ErrNotYourTurn     = errors.New("it is not your turn")
	ErrNotInGame       = errors.New("you are not in this game")
	ErrAlreadyJoined   = errors.New("you are already in this game")
	ErrLobbyFull       = errors.New("the game is full")
	ErrNeedMorePlayers = errors.New("not enough players to start")

	ErrWrongPhase       = errors.New("that response is not expected right now")
	ErrNotEnoughCoins   = errors.New("not enough coins for that action")
	ErrCoupRequired     = errors.New("with 10 or more coins you must coup")
	ErrInvalidTarget    = errors.New("invalid target for that action")
	ErrNotEligible      = errors.New("you cannot respond to this")
	ErrAlreadyVoted     = errors.New("you already allowed this")
	ErrCannotBlock      = errors.New("that action cannot be blocked")
	ErrCannotChallenge  = errors.New("that claim cannot be challenged")
	ErrInvalidSelection = errors.New("invalid card selection")

	ErrInsufficientFunds = errors.New("insufficient funds")
)
