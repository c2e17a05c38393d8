package battleship

import (
	"fmt"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// Caps the retries of RandomFleet per ship
const maxRandomPlacementTries = 10000

// shipRun computes the cells a ship of the given length covers.
// Cells may fall off the grid; the caller decides what to do.
func shipRun(start Coordinates, length int, orientation Orientation) []Coordinates {
	run := make([]Coordinates, length)
	for i := 0; i < length; i++ {
		if orientation == OrientationVertical {
			run[i] = NewCoordinates(start.Row+i, start.Col)
		} else {
			run[i] = NewCoordinates(start.Row, start.Col+i)
		}
	}
	return run
}

// PlaceShip validates the whole run before writing so a failed
// placement leaves grid untouched.
func PlaceShip(grid *Grid, start Coordinates, length int, orientation Orientation) ([]Coordinates, error) {
	if length <= 0 {
		return nil, cerr.ErrInvalidFleet(fmt.Sprintf("ship length must be positive, got: %d", length))
	}

	run := shipRun(start, length, orientation)
	for _, c := range run {
		if !c.InBounds() {
			return nil, cerr.ErrPlacementOutOfBounds(c.Row, c.Col)
		}
	}
	for _, c := range run {
		if grid.at(c) {
			return nil, cerr.ErrPlacementOverlap(c.Row, c.Col)
		}
	}

	for _, c := range run {
		grid[c.Row-1][c.Col-1] = true
	}
	return run, nil
}

// PlaceFleet places all five ships, each exactly once. Ships are
// written onto a copy of grid which replaces grid only on success.
func PlaceFleet(grid *Grid, placements []ShipPlacement) (Fleet, error) {
	if err := validateFleetComposition(placements); err != nil {
		return nil, err
	}

	draft := *grid
	fleet := make(Fleet, 0, len(placements))
	for _, p := range placements {
		coords, err := PlaceShip(&draft, p.Start, p.Ship.Length(), p.Orientation)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, NewShip(p.Ship, coords))
	}

	*grid = draft
	return fleet, nil
}

func validateFleetComposition(placements []ShipPlacement) error {
	if len(placements) != len(ShipNames) {
		return cerr.ErrInvalidFleet(fmt.Sprintf("fleet must have %d ships, got: %d", len(ShipNames), len(placements)))
	}

	seen := make(map[ShipName]bool, len(ShipNames))
	for _, p := range placements {
		if !p.Ship.IsValid() {
			return cerr.ErrInvalidFleet(fmt.Sprintf("unknown ship: %q", p.Ship))
		}
		if seen[p.Ship] {
			return cerr.ErrInvalidFleet(fmt.Sprintf("duplicated ship: %s", p.Ship))
		}
		seen[p.Ship] = true
	}
	return nil
}

// RandomFleet draws a valid placement for every ship by
// retrying random starts and orientations.
func RandomFleet(rng Random) ([]ShipPlacement, error) {
	var grid Grid
	placements := make([]ShipPlacement, 0, len(ShipNames))

	for _, name := range ShipNames {
		placed := false
		for tries := 0; tries < maxRandomPlacementTries; tries++ {
			start := NewCoordinates(rng.Intn(GridSize)+1, rng.Intn(GridSize)+1)
			orientation := Orientation(rng.Intn(2))

			if _, err := PlaceShip(&grid, start, name.Length(), orientation); err != nil {
				continue
			}
			placements = append(placements, NewShipPlacement(name, start, orientation))
			placed = true
			break
		}
		if !placed {
			return nil, cerr.ErrInvalidFleet("failed to place ships randomly")
		}
	}
	return placements, nil
}
