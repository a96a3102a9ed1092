package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	BoardSize = 20

	MinPlayers = 3
	MaxPlayers = 5

	StartingCash  = 100.0
	StartingUsers = 1.0

	DefaultRounds = 5
	DiceSides     = 6

	DebtInterestRate = 0.06
	VCDilution       = 0.10
	EquityDilution   = 0.20
	IPOValuationCut  = 0.70
	IPOMinRound      = 4

	SellRecoveryRate = 0.5
	ExpandCost       = 20.0
	ExpandMultiplier = 1.5
	PivotCost        = 15.0
	PivotMultiplier  = 1.2

	EventDiscountRate = 0.10
)

var (
	ErrInvalidCatalog   = errors.New("invalid catalog")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameOver         = errors.New("game is over")
	ErrGameNotOver      = errors.New("game is not over yet")
	ErrGameStarted      = errors.New("game already started")
	ErrGameNotStarted   = errors.New("game not started")
	ErrNotEnoughPlayers = errors.New("a game needs 3 to 5 players")
	ErrTooManyPlayers   = errors.New("a game holds at most 5 players")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrWrongTile        = errors.New("action does not match the current tile")
)

func validatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("player name is required")
	}
	if len(name) > 32 {
		return "", fmt.Errorf("player name too long (max 32 chars)")
	}
	return name, nil
}
