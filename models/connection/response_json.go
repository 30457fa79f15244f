package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid  string        `json:"game_uuid"`
	BoardSize int           `json:"board_size"`
	Fleet     []mb.ShipSpec `json:"fleet"`
	NextShip  *mb.ShipSpec  `json:"next_ship,omitempty"`
}

type RespShip struct {
	Name        string           `json:"name"`
	Coordinates []mb.Coordinates `json:"coordinates"`
	Sunk        bool             `json:"sunk"`
}

func NewRespShips(ships []*mb.Ship) []RespShip {
	resp := make([]RespShip, 0, len(ships))
	for _, ship := range ships {
		resp = append(resp, RespShip{
			Name:        ship.Name(),
			Coordinates: ship.Coordinates(),
			Sunk:        ship.IsSunk(),
		})
	}
	return resp
}

// RespPlaceShip carries the player's fleet as placed so far.
type RespPlaceShip struct {
	Ships    []RespShip   `json:"ships"`
	NextShip *mb.ShipSpec `json:"next_ship,omitempty"`
}

type RespStartGame struct {
	IsTurn bool `json:"is_turn"`
}

type RespAttack struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Outcome string `json:"outcome"`

	// Only the name of the ship that was hit is disclosed
	ShipName   string        `json:"ship_name,omitempty"`
	Sunk       bool          `json:"sunk"`
	IsTurn     bool          `json:"is_turn"`
	Scoreboard mb.Scoreboard `json:"scoreboard"`
}

type RespEndGame struct {
	Winner     string        `json:"winner"`
	Scoreboard mb.Scoreboard `json:"scoreboard"`

	// The computer fleet is revealed once the game is over
	ComputerShips []RespShip `json:"computer_ships"`
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
