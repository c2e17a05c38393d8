package battleship

import (
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// LetterToRow maps A..J (any case) to rows 1..10.
func LetterToRow(letter string) (int, error) {
	if len(letter) != 1 {
		return 0, cerr.ErrInvalidRowLetter(letter)
	}

	ch := letter[0]
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	if ch < 'A' || ch > 'A'+GridSize-1 {
		return 0, cerr.ErrInvalidRowLetter(letter)
	}
	return int(ch-'A') + 1, nil
}

func RowToLetter(row int) string {
	if row < GridLowerBound || row > GridUpperBound {
		return "?"
	}
	return string(rune('A' + row - 1))
}

// ParseAttackCommand reads "<Letter>,<Number>", e.g. "B,7".
// Every failure wraps cerr.ErrAttackRejected.
func ParseAttackCommand(command string) (Coordinates, error) {
	tokens := strings.Split(command, ",")
	if len(tokens) != 2 {
		return Coordinates{}, cerr.ErrMalformedAttackCommand(command, "expected <Letter>,<Number>")
	}

	letter := strings.TrimSpace(tokens[0])
	number := strings.TrimSpace(tokens[1])

	row, err := LetterToRow(letter)
	if err != nil {
		return Coordinates{}, cerr.ErrMalformedAttackCommand(command, err.Error())
	}

	if number == "" || strings.IndexFunc(number, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return Coordinates{}, cerr.ErrMalformedAttackCommand(command, "column must be an unsigned number")
	}
	col, err := strconv.Atoi(number)
	if err != nil {
		return Coordinates{}, cerr.ErrMalformedAttackCommand(command, err.Error())
	}
	if col < GridLowerBound || col > GridUpperBound {
		return Coordinates{}, cerr.ErrAttackCoordsOutOfRange(row, col)
	}

	return NewCoordinates(row, col), nil
}
