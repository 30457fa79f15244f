package battleship

import (
	"math/rand"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GamePhase uint8

const (
	PhasePlacement GamePhase = iota
	PhaseInProgress
	PhaseFinished
)

func (p GamePhase) String() string {
	switch p {
	case PhasePlacement:
		return "placement"
	case PhaseInProgress:
		return "in progress"
	default:
		return "finished"
	}
}

type Side uint8

const (
	SideNone Side = iota
	SidePlayer
	SideComputer
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideComputer:
		return "computer"
	default:
		return "none"
	}
}

type Rules struct {
	BoardSize int        `json:"board_size" yaml:"board_size"`
	Fleet     []ShipSpec `json:"fleet" yaml:"fleet"`
}

func DefaultRules() Rules {
	return Rules{
		BoardSize: DefaultBoardSize,
		Fleet:     StandardFleet(),
	}
}

type AttackReport struct {
	Attacker    Side
	Coordinates Coordinates
	Result      AttackResult

	// Name of the ship that was hit, empty on a miss
	ShipName string
	GameOver bool
}

type Scoreboard struct {
	PlayerMoves            int `json:"player_moves"`
	PlayerShipsDestroyed   int `json:"player_ships_destroyed"`
	ComputerMoves          int `json:"computer_moves"`
	ComputerShipsDestroyed int `json:"computer_ships_destroyed"`
}

// Game is one human vs computer match. A hit keeps the turn with the
// attacker, a miss hands it over.
type Game struct {
	uuid          string
	rules         Rules
	playerBoard   *Board
	computerBoard *Board
	adversary     *AdversarySearch
	rng           *rand.Rand
	phase         GamePhase
	isPlayerTurn  bool
	nextShip      int
	playerMoves   int
	computerMoves int
	winner        Side
	createdAt     time.Time
}

// NewGame places the computer fleet straight away; the player places
// theirs through PlacePlayerShip or AutoPlacePlayerFleet.
func NewGame(uuid string, rules Rules, rng *rand.Rand) (*Game, error) {
	if rules.BoardSize <= 0 || rules.BoardSize > MaxBoardSize {
		return nil, cerr.ErrBoardSizeInvalid(rules.BoardSize)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	game := &Game{
		uuid:          uuid,
		rules:         rules,
		playerBoard:   NewBoard(rules.BoardSize),
		computerBoard: NewBoard(rules.BoardSize),
		adversary:     NewAdversarySearch(rng),
		rng:           rng,
		phase:         PhasePlacement,
		createdAt:     time.Now(),
	}

	if err := PlaceFleetRandomly(game.computerBoard, rules.Fleet, rng); err != nil {
		return nil, err
	}
	return game, nil
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) PlayerBoard() *Board {
	return g.playerBoard
}

func (g *Game) ComputerBoard() *Board {
	return g.computerBoard
}

func (g *Game) Adversary() *AdversarySearch {
	return g.adversary
}

func (g *Game) Phase() GamePhase {
	return g.phase
}

func (g *Game) IsPlayerTurn() bool {
	return g.isPlayerTurn
}

func (g *Game) IsFinished() bool {
	return g.phase == PhaseFinished
}

func (g *Game) Winner() Side {
	return g.winner
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) Scoreboard() Scoreboard {
	return Scoreboard{
		PlayerMoves:            g.playerMoves,
		PlayerShipsDestroyed:   g.computerBoard.SunkCount(),
		ComputerMoves:          g.computerMoves,
		ComputerShipsDestroyed: g.playerBoard.SunkCount(),
	}
}

// Returns false once the whole fleet has been placed.
func (g *Game) NextShipToPlace() (ShipSpec, bool) {
	if g.nextShip >= len(g.rules.Fleet) {
		return ShipSpec{}, false
	}
	return g.rules.Fleet[g.nextShip], true
}

// PlacePlayerShip places the next ship of the fleet. An invalid
// placement leaves the board untouched so the caller can ask again.
func (g *Game) PlacePlayerShip(x, y int, orientation Orientation) (ShipSpec, error) {
	spec, ok := g.NextShipToPlace()
	if !ok || g.phase != PhasePlacement {
		return ShipSpec{}, cerr.ErrFleetAlreadyPlaced
	}

	if _, err := g.playerBoard.PlaceShip(spec.Name, spec.Length, x, y, orientation); err != nil {
		return spec, err
	}

	g.nextShip++
	g.startIfPlaced()
	return spec, nil
}

// Places every ship the player has not placed yet.
func (g *Game) AutoPlacePlayerFleet() error {
	if g.phase != PhasePlacement {
		return cerr.ErrFleetAlreadyPlaced
	}

	if err := PlaceFleetRandomly(g.playerBoard, g.rules.Fleet[g.nextShip:], g.rng); err != nil {
		return err
	}

	g.nextShip = len(g.rules.Fleet)
	g.startIfPlaced()
	return nil
}

func (g *Game) startIfPlaced() {
	if g.nextShip < len(g.rules.Fleet) {
		return
	}
	g.phase = PhaseInProgress
	g.isPlayerTurn = true
}

// PlayerAttack fires at the computer board. Out of bound and repeated
// coordinates return an error and do not count as a move.
func (g *Game) PlayerAttack(x, y int) (AttackReport, error) {
	if g.phase != PhaseInProgress {
		return AttackReport{}, cerr.ErrGameNotInProgress
	}
	if !g.isPlayerTurn {
		return AttackReport{}, cerr.ErrNotPlayerTurn
	}

	result, err := g.computerBoard.ReceiveAttack(x, y)
	if err != nil {
		return AttackReport{}, err
	}
	if result.Outcome == AttackAlreadyAttacked {
		return AttackReport{}, cerr.ErrAttackPositionAlreadyFilled(x, y)
	}

	g.playerMoves++
	report := g.report(SidePlayer, g.computerBoard, NewCoordinates(x, y), result)

	switch {
	case report.GameOver:
		g.finish(SidePlayer)
	case !result.IsHit():
		g.isPlayerTurn = false
	}
	return report, nil
}

// ComputerTurn keeps firing until the computer misses or wins.
func (g *Game) ComputerTurn() ([]AttackReport, error) {
	if g.phase != PhaseInProgress {
		return nil, cerr.ErrGameNotInProgress
	}
	if g.isPlayerTurn {
		return nil, cerr.ErrNotPlayerTurn
	}

	reports := make([]AttackReport, 0, 4)
	for {
		target, err := g.adversary.NextCoordinate(g.playerBoard)
		if err != nil {
			return reports, err
		}

		result, err := g.playerBoard.ReceiveAttack(target.X, target.Y)
		if err != nil {
			return reports, err
		}
		if result.Outcome == AttackAlreadyAttacked {
			return reports, cerr.ErrAttackPositionAlreadyFilled(target.X, target.Y)
		}
		g.adversary.ObserveResult(g.playerBoard, target, result)

		g.computerMoves++
		report := g.report(SideComputer, g.playerBoard, target, result)
		reports = append(reports, report)

		if report.GameOver {
			g.finish(SideComputer)
			return reports, nil
		}
		if !result.IsHit() {
			g.isPlayerTurn = true
			return reports, nil
		}
	}
}

func (g *Game) report(attacker Side, defender *Board, c Coordinates, result AttackResult) AttackReport {
	report := AttackReport{
		Attacker:    attacker,
		Coordinates: c,
		Result:      result,
	}

	if result.IsHit() {
		if ship, err := defender.Ship(result.ShipID); err == nil {
			report.ShipName = ship.Name()
		}
		report.GameOver = defender.AllSunk()
	}
	return report
}

func (g *Game) finish(winner Side) {
	g.phase = PhaseFinished
	g.winner = winner
	g.isPlayerTurn = false
}
