package api

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/saeidalz13/battleship-solo/config"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager, defaultFleet config.FleetConfig) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandleAttack(game *mb.Game) (mb.TurnResult, mc.Message[mc.RespAttack])
	HandleGameState(game *mb.Game) mc.Message[mc.RespGameState]
}

// Every incoming valid request will have this structure.
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

// Fleets missing from the request come from defaultFleet. An enemy
// fleet missing from both is left to the game manager to randomize.
func (r Request) HandleCreateGame(gm mb.GameManager, defaultFleet config.FleetConfig) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var req mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid create game payload")
		return nil, resp
	}

	if len(req.Payload.PlayerShips) == 0 {
		req.Payload.PlayerShips = defaultFleet.PlayerShips
	}
	if len(req.Payload.EnemyShips) == 0 {
		req.Payload.EnemyShips = defaultFleet.EnemyShips
	}

	playerFleet, err := config.ToPlacements(req.Payload.PlayerShips)
	if err != nil {
		resp.AddErrorFrom(err)
		return nil, resp
	}

	var enemyFleet []mb.ShipPlacement
	if len(req.Payload.EnemyShips) != 0 {
		if enemyFleet, err = config.ToPlacements(req.Payload.EnemyShips); err != nil {
			resp.AddErrorFrom(err)
			return nil, resp
		}
	}

	game, layout, err := gm.CreateGame(playerFleet, enemyFleet)
	if err != nil {
		log.Debug("create game rejected", "err", err)
		resp.AddErrorFrom(err)
		return nil, resp
	}

	resp.AddPayload(mc.RespCreateGame{GameUuid: game.Uuid(), PlayerFleet: layout})
	return game, resp
}

// A rejected command comes back with the error set and leaves
// the game as it was.
func (r Request) HandleAttack(game *mb.Game) (mb.TurnResult, mc.Message[mc.RespAttack]) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if game == nil {
		resp.AddErrorFrom(cerr.ErrGameIsNil(""))
		return mb.TurnResult{}, resp
	}

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid attack payload")
		return mb.TurnResult{}, resp
	}

	result, err := game.SubmitPlayerCommand(req.Payload.Command)
	if err != nil {
		log.Debug("attack rejected", "game", game.Uuid(), "command", req.Payload.Command, "err", err)
		resp.AddErrorFrom(err)
		return mb.TurnResult{}, resp
	}

	resp.AddPayload(mc.NewRespAttack(result))
	return result, resp
}

func (r Request) HandleGameState(game *mb.Game) mc.Message[mc.RespGameState] {
	resp := mc.NewMessage[mc.RespGameState](mc.CodeGameState)
	if game == nil {
		resp.AddErrorFrom(cerr.ErrGameIsNil(""))
		return resp
	}

	resp.AddPayload(mc.NewRespGameState(game))
	return resp
}
