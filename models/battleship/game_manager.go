package battleship

import (
	"sync"
	"time"

	"github.com/dolthub/swiss"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameManager interface {
	CreateGame(playerFleet, opponentFleet []ShipPlacement) (*Game, map[ShipName][]Coordinates, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	Count() int
}

type GameManagerOption func(*BattleshipGameManager)

// WithRandomSource sets how every new game gets its random source.
// Tests use it to make the opponent deterministic.
func WithRandomSource(source func() Random) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		bgm.randomSource = source
	}
}

type BattleshipGameManager struct {
	games        *swiss.Map[string, *Game]
	randomSource func() Random
	mu           sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager(opts ...GameManagerOption) *BattleshipGameManager {
	initMapSize := uint32(10)

	bgm := &BattleshipGameManager{
		games: swiss.NewMap[string, *Game](initMapSize),
		randomSource: func() Random {
			return NewSeededRandom(time.Now().UnixNano())
		},
	}
	for _, opt := range opts {
		opt(bgm)
	}
	return bgm
}

// CreateGame places both fleets and registers the game only when
// both are valid. A nil opponentFleet is replaced by a random one.
func (bgm *BattleshipGameManager) CreateGame(playerFleet, opponentFleet []ShipPlacement) (*Game, map[ShipName][]Coordinates, error) {
	game := NewGame(bgm.randomSource())

	layout, err := game.PlacePlayerFleet(playerFleet)
	if err != nil {
		return nil, nil, err
	}

	if opponentFleet == nil {
		err = game.PlaceRandomOpponentFleet()
	} else {
		err = game.PlaceOpponentFleet(opponentFleet)
	}
	if err != nil {
		return nil, nil, err
	}

	bgm.mu.Lock()
	for bgm.games.Has(game.uuid) {
		game.uuid = newGameUuid()
	}
	bgm.games.Put(game.uuid, game)
	bgm.mu.Unlock()

	return game, layout, nil
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games.Get(gameUuid)
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
	bgm.games.Delete(gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return bgm.games.Count()
}
