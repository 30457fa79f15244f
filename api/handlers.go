package api

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-solo/internal/config"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager, rules mb.Rules) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip]
	HandleAutoPlaceFleet(game *mb.Game) mc.Message[mc.RespPlaceShip]
	HandleAttack(game *mb.Game) mc.Message[mc.RespAttack]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) > 1 {
		log.Warn().Int("payloads", len(payload)).Msg("only the first payload is used")
	}

	req := Request{}
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

// The payload is optional; a board_size overrides the server rules for
// this game only.
func (r Request) HandleCreateGame(gm mb.GameManager, rules mb.Rules) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var reqCreateGame mc.Message[mc.ReqCreateGame]
	if len(r.payload) != 0 {
		if err := json.Unmarshal(r.payload, &reqCreateGame); err != nil {
			resp.AddError(err.Error(), "invalid create game payload")
			return nil, resp
		}
	}

	if reqCreateGame.Payload.BoardSize != 0 {
		rules.BoardSize = reqCreateGame.Payload.BoardSize
		if err := config.ValidateRules(rules); err != nil {
			resp.AddError(err.Error(), "invalid board size")
			return nil, resp
		}
	}

	game, err := gm.CreateGame(rules)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	resp.AddPayload(mc.RespCreateGame{
		GameUuid:  game.Uuid(),
		BoardSize: rules.BoardSize,
		Fleet:     rules.Fleet,
		NextShip:  nextShip(game),
	})
	return game, resp
}

func (r Request) HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	if game == nil {
		resp.AddError(cerr.ErrGameNotFound.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	var reqPlaceShip mc.Message[mc.ReqPlaceShip]
	if err := json.Unmarshal(r.payload, &reqPlaceShip); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	orientation, err := mb.ParseOrientation(reqPlaceShip.Payload.Orientation)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	if _, err := game.PlacePlayerShip(reqPlaceShip.Payload.X, reqPlaceShip.Payload.Y, orientation); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	resp.AddPayload(newRespPlaceShip(game))
	return resp
}

func (r Request) HandleAutoPlaceFleet(game *mb.Game) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodeAutoPlaceFleet)
	if game == nil {
		resp.AddError(cerr.ErrGameNotFound.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	if err := game.AutoPlacePlayerFleet(); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	resp.AddPayload(newRespPlaceShip(game))
	return resp
}

func (r Request) HandleAttack(game *mb.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if game == nil {
		resp.AddError(cerr.ErrGameNotFound.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	var reqAttack mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &reqAttack); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	report, err := game.PlayerAttack(reqAttack.Payload.X, reqAttack.Payload.Y)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	resp.AddPayload(newRespAttack(game, report))
	return resp
}

// HandleComputerTurn lets the computer fire until it misses or wins.
// Every shot becomes its own message.
func HandleComputerTurn(game *mb.Game) ([]mc.Message[mc.RespAttack], error) {
	reports, err := game.ComputerTurn()

	msgs := make([]mc.Message[mc.RespAttack], 0, len(reports))
	for i, report := range reports {
		payload := newRespAttack(game, report)
		// the turn only comes back with the last shot
		payload.IsTurn = payload.IsTurn && i == len(reports)-1

		msg := mc.NewMessage[mc.RespAttack](mc.CodeComputerAttack)
		msg.AddPayload(payload)
		msgs = append(msgs, msg)
	}
	return msgs, err
}

func NewEndGameMessage(game *mb.Game) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	resp.AddPayload(mc.RespEndGame{
		Winner:        game.Winner().String(),
		Scoreboard:    game.Scoreboard(),
		ComputerShips: mc.NewRespShips(game.ComputerBoard().Ships()),
	})
	return resp
}

func newRespAttack(game *mb.Game, report mb.AttackReport) mc.RespAttack {
	return mc.RespAttack{
		X:          report.Coordinates.X,
		Y:          report.Coordinates.Y,
		Outcome:    report.Result.Outcome.String(),
		ShipName:   report.ShipName,
		Sunk:       report.Result.Sunk,
		IsTurn:     game.IsPlayerTurn(),
		Scoreboard: game.Scoreboard(),
	}
}

func newRespPlaceShip(game *mb.Game) mc.RespPlaceShip {
	return mc.RespPlaceShip{
		Ships:    mc.NewRespShips(game.PlayerBoard().Ships()),
		NextShip: nextShip(game),
	}
}

func nextShip(game *mb.Game) *mb.ShipSpec {
	spec, ok := game.NextShipToPlace()
	if !ok {
		return nil
	}
	return &spec
}
