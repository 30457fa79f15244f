package battleship

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameManager interface {
	CreateGame(rules Rules) (*Game, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

// BattleshipGameManager keeps the live games of the server. A single
// game is only ever driven by its own session.
type BattleshipGameManager struct {
	games map[string]*Game
	seed  func() int64
	mu    sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
		seed:  func() int64 { return time.Now().UnixNano() },
	}
}

// Every game created afterwards gets a source seeded from the given
// seed sequence, which makes server games reproducible in tests.
func (bgm *BattleshipGameManager) WithSeed(seed int64) *BattleshipGameManager {
	next := rand.New(rand.NewSource(seed))
	bgm.seed = next.Int63
	return bgm
}

func (bgm *BattleshipGameManager) CreateGame(rules Rules) (*Game, error) {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	gameUuid := uuid.NewString()[:6]
	game, err := NewGame(gameUuid, rules, rand.New(rand.NewSource(bgm.seed())))
	if err != nil {
		return nil, err
	}

	bgm.games[gameUuid] = game
	return game, nil
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
