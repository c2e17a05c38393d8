package main

import (
	"fmt"
	"io"
	"strings"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	iconWater = '.'
	iconShip  = '#'
	iconHit   = 'X'
	iconMiss  = 'o'
)

func label(c mb.Coordinates) string {
	return fmt.Sprintf("%s,%d", mb.RowToLetter(c.Row), c.Col)
}

// ownIcon draws the player's waters as the opponent has shot them.
func ownIcon(ships, opponentAttempts *mb.Grid, c mb.Coordinates) rune {
	ship, _ := ships.IsSet(c.Row, c.Col)
	fired, _ := opponentAttempts.IsSet(c.Row, c.Col)

	switch {
	case ship && fired:
		return iconHit
	case ship:
		return iconShip
	case fired:
		return iconMiss
	default:
		return iconWater
	}
}

// targetIcon only shows what the player has learned by firing.
func targetIcon(playerAttempts *mb.Grid, playerHits map[mb.Coordinates]bool, c mb.Coordinates) rune {
	if playerHits[c] {
		return iconHit
	}
	if fired, _ := playerAttempts.IsSet(c.Row, c.Col); fired {
		return iconMiss
	}
	return iconWater
}

func writeHeader(sb *strings.Builder) {
	sb.WriteString("  ")
	for col := mb.GridLowerBound; col <= mb.GridUpperBound; col++ {
		fmt.Fprintf(sb, "%3d", col)
	}
}

// renderBoards writes the player's board and the target board side by side.
func renderBoards(w io.Writer, game *mb.Game, playerHits map[mb.Coordinates]bool) error {
	ships := game.PlayerShips()
	opponentAttempts := game.OpponentAttempts()
	playerAttempts := game.PlayerAttempts()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-34s    %s\n", "  your fleet", "  enemy waters")
	writeHeader(&sb)
	sb.WriteString("    ")
	writeHeader(&sb)
	sb.WriteByte('\n')

	for row := mb.GridLowerBound; row <= mb.GridUpperBound; row++ {
		letter := mb.RowToLetter(row)

		sb.WriteString(letter + " ")
		for col := mb.GridLowerBound; col <= mb.GridUpperBound; col++ {
			fmt.Fprintf(&sb, "%3c", ownIcon(&ships, &opponentAttempts, mb.NewCoordinates(row, col)))
		}

		sb.WriteString("    " + letter + " ")
		for col := mb.GridLowerBound; col <= mb.GridUpperBound; col++ {
			fmt.Fprintf(&sb, "%3c", targetIcon(&playerAttempts, playerHits, mb.NewCoordinates(row, col)))
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
