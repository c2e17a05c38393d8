package error

import (
	"errors"
	"fmt"
)

var (
	// Wrapped by every soft rejection of a player's attack.
	// The game state is untouched when this is returned.
	ErrAttackRejected = errors.New("attack rejected")

	// The attempt grid is full; the opponent has nowhere left to fire.
	ErrNoCellsLeft = errors.New("no unattempted cells left")
)

// OutOfRangeError is returned by the grid accessors
// for coordinates outside of [1, 10].
type OutOfRangeError struct {
	Row int
	Col int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("coordinates out of grid range\trow: %d\tcol: %d", e.Row, e.Col)
}

func ErrOutOfRange(row, col int) error {
	return &OutOfRangeError{Row: row, Col: col}
}

type PlacementErrorKind uint8

const (
	PlacementOutOfBounds PlacementErrorKind = iota
	PlacementOverlap
	PlacementInvalidFleet
)

func (k PlacementErrorKind) String() string {
	switch k {
	case PlacementOutOfBounds:
		return "out of bounds"
	case PlacementOverlap:
		return "overlap"
	case PlacementInvalidFleet:
		return "invalid fleet"
	default:
		return "unknown"
	}
}

type PlacementError struct {
	Kind PlacementErrorKind
	Row  int
	Col  int
	desc string
}

func (e *PlacementError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("ship placement failed (%s): %s", e.Kind, e.desc)
	}
	return fmt.Sprintf("ship placement failed (%s)\trow: %d\tcol: %d", e.Kind, e.Row, e.Col)
}

func ErrPlacementOutOfBounds(row, col int) error {
	return &PlacementError{Kind: PlacementOutOfBounds, Row: row, Col: col}
}

func ErrPlacementOverlap(row, col int) error {
	return &PlacementError{Kind: PlacementOverlap, Row: row, Col: col}
}

func ErrInvalidFleet(desc string) error {
	return &PlacementError{Kind: PlacementInvalidFleet, desc: desc}
}

func ErrAttackAlreadyAttempted(row, col int) error {
	return fmt.Errorf("%w: position already attempted\trow: %d\tcol: %d", ErrAttackRejected, row, col)
}

func ErrMalformedAttackCommand(command, reason string) error {
	return fmt.Errorf("%w: malformed command %q: %s", ErrAttackRejected, command, reason)
}

func ErrAttackCoordsOutOfRange(row, col int) error {
	return fmt.Errorf("%w: %w", ErrAttackRejected, ErrOutOfRange(row, col))
}

func ErrGameNotPlaying(gameUuid, stage string) error {
	return fmt.Errorf("%w: game %s is not accepting attacks, stage: %s", ErrAttackRejected, gameUuid, stage)
}

func ErrInvalidRowLetter(letter string) error {
	return fmt.Errorf("row letter must be within A-J, got: %q", letter)
}

func ErrInvalidOrientation(orientation string) error {
	return fmt.Errorf("orientation must be 'h' or 'v', got: %q", orientation)
}

func ErrUnknownShip(name string) error {
	return fmt.Errorf("unknown ship name: %q", name)
}

func ErrFleetAlreadyPlaced(side string) error {
	return fmt.Errorf("%s fleet is already placed", side)
}

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrNoActiveGame(sessionId string) error {
	return fmt.Errorf("no active game for session, id: %s", sessionId)
}
