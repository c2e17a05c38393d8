package battleship

import "fmt"

type AttackOutcome uint8

const (
	AttackOutcomeAlreadyAttempted AttackOutcome = iota
	AttackOutcomeHit
	AttackOutcomeMiss
)

func (o AttackOutcome) String() string {
	switch o {
	case AttackOutcomeAlreadyAttempted:
		return "already_attempted"
	case AttackOutcomeHit:
		return "hit"
	case AttackOutcomeMiss:
		return "miss"
	default:
		return "unknown"
	}
}

func (o AttackOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *AttackOutcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "already_attempted":
		*o = AttackOutcomeAlreadyAttempted
	case "hit":
		*o = AttackOutcomeHit
	case "miss":
		*o = AttackOutcomeMiss
	default:
		return fmt.Errorf("invalid attack outcome: %q", text)
	}
	return nil
}

// ResolveAttack fires at c. A repeated coordinate is reported as
// AttackOutcomeAlreadyAttempted and changes nothing; otherwise the
// only mutation is marking c on attempts.
func ResolveAttack(target, attempts *Grid, c Coordinates) (AttackOutcome, error) {
	attempted, err := attempts.IsSet(c.Row, c.Col)
	if err != nil {
		return AttackOutcomeAlreadyAttempted, err
	}
	if attempted {
		return AttackOutcomeAlreadyAttempted, nil
	}

	if err := attempts.SetTrue(c.Row, c.Col); err != nil {
		return AttackOutcomeAlreadyAttempted, err
	}

	if target.at(c) {
		return AttackOutcomeHit, nil
	}
	return AttackOutcomeMiss, nil
}

// Shot is what a resolved attack reports to the presentation layer.
type Shot struct {
	Coordinates
	Outcome  AttackOutcome `json:"outcome"`
	SunkShip ShipName      `json:"sunk_ship,omitempty"`
}

func newShot(c Coordinates, outcome AttackOutcome) Shot {
	return Shot{Coordinates: c, Outcome: outcome}
}

func (s Shot) IsHit() bool {
	return s.Outcome == AttackOutcomeHit
}
