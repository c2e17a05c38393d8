package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	GridSize = 10

	// Grid coordinates are 1-indexed on both axes
	GridLowerBound = 1
	GridUpperBound = GridSize
)

type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

func (c Coordinates) InBounds() bool {
	return c.Row >= GridLowerBound && c.Row <= GridUpperBound &&
		c.Col >= GridLowerBound && c.Col <= GridUpperBound
}

var neighbourOffsets = [4]Coordinates{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Neighbours returns the orthogonal neighbours of c that lie
// on the grid. Edges yield three and corners two; no wrap-around.
func (c Coordinates) Neighbours() []Coordinates {
	neighbours := make([]Coordinates, 0, len(neighbourOffsets))
	for _, off := range neighbourOffsets {
		n := Coordinates{Row: c.Row + off.Row, Col: c.Col + off.Col}
		if n.InBounds() {
			neighbours = append(neighbours, n)
		}
	}
	return neighbours
}

// Grid is a 10x10 boolean matrix. The zero value is an
// all-false grid ready to use.
type Grid [GridSize][GridSize]bool

func NewGrid() *Grid {
	return &Grid{}
}

func (g *Grid) IsSet(row, col int) (bool, error) {
	if !NewCoordinates(row, col).InBounds() {
		return false, cerr.ErrOutOfRange(row, col)
	}
	return g[row-1][col-1], nil
}

func (g *Grid) SetTrue(row, col int) error {
	return g.set(row, col, true)
}

func (g *Grid) SetFalse(row, col int) error {
	return g.set(row, col, false)
}

func (g *Grid) set(row, col int, v bool) error {
	if !NewCoordinates(row, col).InBounds() {
		return cerr.ErrOutOfRange(row, col)
	}
	g[row-1][col-1] = v
	return nil
}

func (g *Grid) IsAllFalse() bool {
	return g.Count() == 0
}

func (g *Grid) Count() int {
	count := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] {
				count++
			}
		}
	}
	return count
}

// Coordinates lists the true cells in row-major order.
func (g *Grid) Coordinates() []Coordinates {
	coords := make([]Coordinates, 0, g.Count())
	for r := range g {
		for c := range g[r] {
			if g[r][c] {
				coords = append(coords, NewCoordinates(r+1, c+1))
			}
		}
	}
	return coords
}

// at reads a cell that is already known to be in bounds.
func (g *Grid) at(c Coordinates) bool {
	return g[c.Row-1][c.Col-1]
}
