package battleship

import (
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameStage uint8

const (
	GameStageSetup GameStage = iota
	GameStagePlaying
	GameStageOver
)

func (s GameStage) String() string {
	switch s {
	case GameStageSetup:
		return "setup"
	case GameStagePlaying:
		return "playing"
	case GameStageOver:
		return "over"
	default:
		return "unknown"
	}
}

const (
	WinnerNone     = ""
	WinnerPlayer   = "player"
	WinnerOpponent = "opponent"
)

// TurnResult carries both shots of one accepted player move.
type TurnResult struct {
	Player            Shot          `json:"player"`
	Opponent          Shot          `json:"opponent"`
	OpponentMode      TargetingMode `json:"opponent_mode"`
	PlayerShipCount   int           `json:"player_ship_count"`
	OpponentShipCount int           `json:"opponent_ship_count"`
	GameOver          bool          `json:"game_over"`
	Winner            string        `json:"winner,omitempty"`
}

// Game owns every grid of one human vs. automated opponent match.
// It is not safe for concurrent use; a match is driven by one caller.
type Game struct {
	uuid      string
	stage     GameStage
	winner    string
	createdAt time.Time

	playerShips      Grid
	opponentShips    Grid
	opponentAttempts Grid
	playerAttempts   Grid
	candidates       Grid

	playerShipCount   int
	opponentShipCount int

	playerFleet   Fleet
	opponentFleet Fleet

	targeting *TargetingEngine
	rng       Random
}

// Short ids collide now and then; the game manager draws again.
var newGameUuid = func() string {
	return uuid.NewString()[:6]
}

func NewGame(rng Random) *Game {
	return newGame(newGameUuid(), rng)
}

func newGame(gameUuid string, rng Random) *Game {
	return &Game{
		uuid:              gameUuid,
		stage:             GameStageSetup,
		createdAt:         time.Now(),
		playerShipCount:   TotalShipCells,
		opponentShipCount: TotalShipCells,
		targeting:         NewTargetingEngine(rng),
		rng:               rng,
	}
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Stage() GameStage {
	return g.stage
}

func (g *Game) Winner() string {
	return g.winner
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) PlayerShipCount() int {
	return g.playerShipCount
}

func (g *Game) OpponentShipCount() int {
	return g.opponentShipCount
}

func (g *Game) IsOver() bool {
	return g.stage == GameStageOver
}

// Read-only views for rendering and tests. The opponent's
// ships are deliberately not exposed.
func (g *Game) PlayerShips() Grid      { return g.playerShips }
func (g *Game) PlayerAttempts() Grid   { return g.playerAttempts }
func (g *Game) OpponentAttempts() Grid { return g.opponentAttempts }
func (g *Game) Candidates() Grid       { return g.candidates }

func (g *Game) OpponentMode() TargetingMode {
	return g.targeting.Mode(&g.candidates)
}

// PlacePlayerFleet returns the cells of every ship so the
// caller can draw them.
func (g *Game) PlacePlayerFleet(placements []ShipPlacement) (map[ShipName][]Coordinates, error) {
	if g.playerFleet != nil {
		return nil, cerr.ErrFleetAlreadyPlaced(WinnerPlayer)
	}

	fleet, err := PlaceFleet(&g.playerShips, placements)
	if err != nil {
		return nil, err
	}
	g.playerFleet = fleet
	g.startIfReady()

	return fleet.Layout(), nil
}

func (g *Game) PlaceOpponentFleet(placements []ShipPlacement) error {
	if g.opponentFleet != nil {
		return cerr.ErrFleetAlreadyPlaced(WinnerOpponent)
	}

	fleet, err := PlaceFleet(&g.opponentShips, placements)
	if err != nil {
		return err
	}
	g.opponentFleet = fleet
	g.startIfReady()

	return nil
}

func (g *Game) PlaceRandomOpponentFleet() error {
	placements, err := RandomFleet(g.rng)
	if err != nil {
		return err
	}
	return g.PlaceOpponentFleet(placements)
}

func (g *Game) startIfReady() {
	if g.playerFleet != nil && g.opponentFleet != nil && g.stage == GameStageSetup {
		g.stage = GameStagePlaying
	}
}

func (g *Game) SubmitPlayerCommand(command string) (TurnResult, error) {
	c, err := ParseAttackCommand(command)
	if err != nil {
		return TurnResult{}, err
	}
	return g.SubmitPlayerAttack(c)
}

// SubmitPlayerAttack resolves the player's shot and then exactly one
// opponent reply. Rejections wrap cerr.ErrAttackRejected and leave
// the game unchanged.
func (g *Game) SubmitPlayerAttack(c Coordinates) (TurnResult, error) {
	if g.stage != GameStagePlaying {
		return TurnResult{}, cerr.ErrGameNotPlaying(g.uuid, g.stage.String())
	}
	if !c.InBounds() {
		return TurnResult{}, cerr.ErrAttackCoordsOutOfRange(c.Row, c.Col)
	}

	outcome, err := ResolveAttack(&g.opponentShips, &g.playerAttempts, c)
	if err != nil {
		return TurnResult{}, err
	}
	if outcome == AttackOutcomeAlreadyAttempted {
		return TurnResult{}, cerr.ErrAttackAlreadyAttempted(c.Row, c.Col)
	}

	playerShot := newShot(c, outcome)
	if playerShot.IsHit() {
		g.opponentShipCount--
		playerShot.SunkShip = registerHit(g.opponentFleet, c)
	}

	opponentShot, mode, err := g.targeting.TakeTurn(&g.playerShips, &g.opponentAttempts, &g.candidates)
	if err != nil {
		return TurnResult{}, err
	}
	if opponentShot.IsHit() {
		g.playerShipCount--
		opponentShot.SunkShip = registerHit(g.playerFleet, opponentShot.Coordinates)
	}

	g.evaluateGameOver()

	return TurnResult{
		Player:            playerShot,
		Opponent:          opponentShot,
		OpponentMode:      mode,
		PlayerShipCount:   g.playerShipCount,
		OpponentShipCount: g.opponentShipCount,
		GameOver:          g.IsOver(),
		Winner:            g.winner,
	}, nil
}

// The player's count is checked first, so the opponent wins
// when both sides lose their last ship in the same step.
func (g *Game) evaluateGameOver() {
	switch {
	case g.playerShipCount == 0:
		g.stage = GameStageOver
		g.winner = WinnerOpponent
	case g.opponentShipCount == 0:
		g.stage = GameStageOver
		g.winner = WinnerPlayer
	}
}

// registerHit records the hit on the owning ship and returns its
// name if that hit sank it.
func registerHit(fleet Fleet, c Coordinates) ShipName {
	ship := fleet.ShipAt(c)
	if ship == nil {
		return ""
	}
	ship.GotHit(c)
	if ship.IsSunk() {
		return ship.Name
	}
	return ""
}
