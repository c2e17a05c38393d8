package battleship_test

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// scriptedRandom replays fixed values before falling back to a
// seeded source, so a test can steer the opponent's first shots.
type scriptedRandom struct {
	values   []int
	fallback mb.Random
}

func newScriptedRandom(values ...int) *scriptedRandom {
	return &scriptedRandom{values: values, fallback: mb.NewSeededRandom(42)}
}

func (s *scriptedRandom) Intn(n int) int {
	if len(s.values) == 0 {
		return s.fallback.Intn(n)
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

// Every ship starts at column 1, one row each from A to E.
func stackedFleet() []mb.ShipPlacement {
	return []mb.ShipPlacement{
		mb.NewShipPlacement(mb.ShipCarrier, mb.NewCoordinates(1, 1), mb.OrientationHorizontal),
		mb.NewShipPlacement(mb.ShipBattleship, mb.NewCoordinates(2, 1), mb.OrientationHorizontal),
		mb.NewShipPlacement(mb.ShipCruiser, mb.NewCoordinates(3, 1), mb.OrientationHorizontal),
		mb.NewShipPlacement(mb.ShipSubmarine, mb.NewCoordinates(4, 1), mb.OrientationHorizontal),
		mb.NewShipPlacement(mb.ShipDestroyer, mb.NewCoordinates(5, 1), mb.OrientationHorizontal),
	}
}

// Ships standing upright along the right half of the grid.
func columnFleet() []mb.ShipPlacement {
	return []mb.ShipPlacement{
		mb.NewShipPlacement(mb.ShipCarrier, mb.NewCoordinates(1, 10), mb.OrientationVertical),
		mb.NewShipPlacement(mb.ShipBattleship, mb.NewCoordinates(1, 8), mb.OrientationVertical),
		mb.NewShipPlacement(mb.ShipCruiser, mb.NewCoordinates(6, 8), mb.OrientationVertical),
		mb.NewShipPlacement(mb.ShipSubmarine, mb.NewCoordinates(7, 6), mb.OrientationVertical),
		mb.NewShipPlacement(mb.ShipDestroyer, mb.NewCoordinates(9, 10), mb.OrientationVertical),
	}
}

func newPlayingGame(rng mb.Random, player, opponent []mb.ShipPlacement) (*mb.Game, error) {
	game := mb.NewGame(rng)
	if _, err := game.PlacePlayerFleet(player); err != nil {
		return nil, err
	}
	if err := game.PlaceOpponentFleet(opponent); err != nil {
		return nil, err
	}
	return game, nil
}
