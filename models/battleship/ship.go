package battleship

import (
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type ShipName string

const (
	ShipCarrier    ShipName = "Carrier"
	ShipBattleship ShipName = "Battleship"
	ShipCruiser    ShipName = "Cruiser"
	ShipSubmarine  ShipName = "Submarine"
	ShipDestroyer  ShipName = "Destroyer"

	// Sum of all ship lengths
	TotalShipCells = 17
)

// Fleet order used everywhere a fleet is listed
var ShipNames = [...]ShipName{ShipCarrier, ShipBattleship, ShipCruiser, ShipSubmarine, ShipDestroyer}

func (n ShipName) Length() int {
	switch n {
	case ShipCarrier:
		return 5
	case ShipBattleship:
		return 4
	case ShipCruiser, ShipSubmarine:
		return 3
	case ShipDestroyer:
		return 2
	default:
		return 0
	}
}

func (n ShipName) IsValid() bool {
	return n.Length() > 0
}

func ParseShipName(name string) (ShipName, error) {
	for _, sn := range ShipNames {
		if strings.EqualFold(string(sn), name) {
			return sn, nil
		}
	}
	return "", cerr.ErrUnknownShip(name)
}

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) String() string {
	if o == OrientationVertical {
		return "v"
	}
	return "h"
}

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "h":
		return OrientationHorizontal, nil
	case "v":
		return OrientationVertical, nil
	default:
		return 0, cerr.ErrInvalidOrientation(s)
	}
}

type ShipPlacement struct {
	Ship        ShipName
	Start       Coordinates
	Orientation Orientation
}

func NewShipPlacement(ship ShipName, start Coordinates, orientation Orientation) ShipPlacement {
	return ShipPlacement{Ship: ship, Start: start, Orientation: orientation}
}

type Ship struct {
	Name           ShipName
	coordinates    []Coordinates
	hits           int
	hitCoordinates []Coordinates
}

func NewShip(name ShipName, coordinates []Coordinates) *Ship {
	return &Ship{
		Name:           name,
		coordinates:    coordinates,
		hitCoordinates: make([]Coordinates, 0, len(coordinates)),
	}
}

func (sh *Ship) Occupies(c Coordinates) bool {
	for _, sc := range sh.coordinates {
		if sc == c {
			return true
		}
	}
	return false
}

func (sh *Ship) GotHit(c Coordinates) {
	sh.hits++
	sh.hitCoordinates = append(sh.hitCoordinates, c)
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == len(sh.coordinates)
}

func (sh *Ship) Coordinates() []Coordinates {
	return sh.coordinates
}

func (sh *Ship) HitCoordinates() []Coordinates {
	return sh.hitCoordinates
}

// Fleet holds the ships of one side in placement order.
type Fleet []*Ship

// ShipAt finds the ship covering c, or nil.
func (f Fleet) ShipAt(c Coordinates) *Ship {
	for _, sh := range f {
		if sh.Occupies(c) {
			return sh
		}
	}
	return nil
}

// Layout maps every ship to the cells it occupies.
func (f Fleet) Layout() map[ShipName][]Coordinates {
	layout := make(map[ShipName][]Coordinates, len(f))
	for _, sh := range f {
		layout[sh.Name] = sh.Coordinates()
	}
	return layout
}

func (f Fleet) SunkenShips() int {
	sunken := 0
	for _, sh := range f {
		if sh.IsSunk() {
			sunken++
		}
	}
	return sunken
}
