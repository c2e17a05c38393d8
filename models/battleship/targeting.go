package battleship

import (
	"fmt"
	"math/rand"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// Random is the source of randomness for the automated opponent.
// *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

func NewSeededRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

type TargetingMode uint8

const (
	TargetingModeHunting TargetingMode = iota
	TargetingModeTargeting
)

func (m TargetingMode) String() string {
	if m == TargetingModeTargeting {
		return "targeting"
	}
	return "hunting"
}

func (m TargetingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TargetingMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hunting":
		*m = TargetingModeHunting
	case "targeting":
		*m = TargetingModeTargeting
	default:
		return fmt.Errorf("invalid targeting mode: %q", text)
	}
	return nil
}

// TargetingEngine picks the automated opponent's shots. It has no
// state of its own; the mode is derived from the candidate grid.
type TargetingEngine struct {
	rng Random
}

func NewTargetingEngine(rng Random) *TargetingEngine {
	return &TargetingEngine{rng: rng}
}

func (te *TargetingEngine) Mode(candidates *Grid) TargetingMode {
	if candidates.IsAllFalse() {
		return TargetingModeHunting
	}
	return TargetingModeTargeting
}

func (te *TargetingEngine) randomCoordinates() Coordinates {
	return NewCoordinates(te.rng.Intn(GridSize)+1, te.rng.Intn(GridSize)+1)
}

// ChooseTarget rejection-samples the grid. Hunting accepts any
// cell not in attempts; targeting accepts only candidate cells,
// which samples the candidate set uniformly.
func (te *TargetingEngine) ChooseTarget(attempts, candidates *Grid) (Coordinates, TargetingMode, error) {
	mode := te.Mode(candidates)

	switch mode {
	case TargetingModeHunting:
		if attempts.Count() == GridSize*GridSize {
			return Coordinates{}, mode, cerr.ErrNoCellsLeft
		}
		c := te.randomCoordinates()
		for attempts.at(c) {
			c = te.randomCoordinates()
		}
		return c, mode, nil

	default:
		c := te.randomCoordinates()
		for !candidates.at(c) {
			c = te.randomCoordinates()
		}
		return c, mode, nil
	}
}

// TakeTurn plays one opponent shot against targetShips. The caller
// owns the ship count and decrements it when the shot is a hit.
func (te *TargetingEngine) TakeTurn(targetShips, attempts, candidates *Grid) (Shot, TargetingMode, error) {
	c, mode, err := te.ChooseTarget(attempts, candidates)
	if err != nil {
		return Shot{}, mode, err
	}

	if mode == TargetingModeTargeting {
		if err := candidates.SetFalse(c.Row, c.Col); err != nil {
			return Shot{}, mode, err
		}
	}

	outcome, err := ResolveAttack(targetShips, attempts, c)
	if err != nil {
		return Shot{}, mode, err
	}
	// Candidates are only ever unattempted cells
	if outcome == AttackOutcomeAlreadyAttempted {
		return Shot{}, mode, fmt.Errorf("opponent picked an attempted cell\trow: %d\tcol: %d", c.Row, c.Col)
	}

	if outcome == AttackOutcomeHit {
		ExpandCandidates(attempts, candidates, c)
	}
	return newShot(c, outcome), mode, nil
}

// ExpandCandidates marks every in-bounds, unattempted neighbour of c
// as a candidate. Candidates around already sunken ships are kept.
func ExpandCandidates(attempts, candidates *Grid, c Coordinates) {
	for _, n := range c.Neighbours() {
		if !attempts.at(n) {
			candidates[n.Row-1][n.Col-1] = true
		}
	}
}
