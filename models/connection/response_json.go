package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespCreateGame struct {
	GameUuid    string                           `json:"game_uuid"`
	PlayerFleet map[mb.ShipName][]mb.Coordinates `json:"player_fleet"`
}

type RespAttack struct {
	Player            mb.Shot          `json:"player"`
	Opponent          mb.Shot          `json:"opponent"`
	OpponentMode      mb.TargetingMode `json:"opponent_mode"`
	PlayerShipCount   int              `json:"player_ship_count"`
	OpponentShipCount int              `json:"opponent_ship_count"`
}

func NewRespAttack(result mb.TurnResult) RespAttack {
	return RespAttack{
		Player:            result.Player,
		Opponent:          result.Opponent,
		OpponentMode:      result.OpponentMode,
		PlayerShipCount:   result.PlayerShipCount,
		OpponentShipCount: result.OpponentShipCount,
	}
}

type RespGameState struct {
	GameUuid          string           `json:"game_uuid"`
	Stage             string           `json:"stage"`
	PlayerShipCount   int              `json:"player_ship_count"`
	OpponentShipCount int              `json:"opponent_ship_count"`
	PlayerAttempts    []mb.Coordinates `json:"player_attempts"`
	OpponentAttempts  []mb.Coordinates `json:"opponent_attempts"`
	Winner            string           `json:"winner,omitempty"`
}

func NewRespGameState(game *mb.Game) RespGameState {
	playerAttempts := game.PlayerAttempts()
	opponentAttempts := game.OpponentAttempts()

	return RespGameState{
		GameUuid:          game.Uuid(),
		Stage:             game.Stage().String(),
		PlayerShipCount:   game.PlayerShipCount(),
		OpponentShipCount: game.OpponentShipCount(),
		PlayerAttempts:    playerAttempts.Coordinates(),
		OpponentAttempts:  opponentAttempts.Coordinates(),
		Winner:            game.Winner(),
	}
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespEndGame struct {
	Winner string `json:"winner"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
