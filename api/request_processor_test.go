package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/config"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectErr    bool

	reqPayload          T
	respPayload         K // Used to unmarshal the response
	expectedRespPayload K // To compare to data unmarshaled in respPayload
}

type testEnv struct {
	url            string
	conn           *websocket.Conn
	sessionId      string
	mock           sqlmock.Sqlmock
	rp             api.RequestProcessor
	gameManager    *mb.BattleshipGameManager
	sessionManager *mc.BattleshipSessionManager
}

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

var (
	playerShips = []config.ShipRecord{
		{ShipName: "Carrier", LetterPos: "A", NumberPos: 1, Orientation: "h"},
		{ShipName: "Battleship", LetterPos: "B", NumberPos: 1, Orientation: "h"},
		{ShipName: "Cruiser", LetterPos: "C", NumberPos: 1, Orientation: "h"},
		{ShipName: "Submarine", LetterPos: "D", NumberPos: 1, Orientation: "h"},
		{ShipName: "Destroyer", LetterPos: "E", NumberPos: 1, Orientation: "h"},
	}
	enemyShips = []config.ShipRecord{
		{ShipName: "Carrier", LetterPos: "A", NumberPos: 10, Orientation: "v"},
		{ShipName: "Battleship", LetterPos: "A", NumberPos: 8, Orientation: "v"},
		{ShipName: "Cruiser", LetterPos: "F", NumberPos: 8, Orientation: "v"},
		{ShipName: "Submarine", LetterPos: "G", NumberPos: 6, Orientation: "v"},
		{ShipName: "Destroyer", LetterPos: "I", NumberPos: 10, Orientation: "v"},
	}
)

// enemyCommands lists every cell of enemyShips as an attack command.
func enemyCommands() []string {
	commands := make([]string, 0, mb.TotalShipCells)
	for _, record := range enemyShips {
		placement, err := record.ToPlacement()
		if err != nil {
			panic(err)
		}
		for i := 0; i < placement.Ship.Length(); i++ {
			c := placement.Start
			if placement.Orientation == mb.OrientationHorizontal {
				c.Col += i
			} else {
				c.Row += i
			}
			commands = append(commands, fmt.Sprintf("%s,%d", mb.RowToLetter(c.Row), c.Col))
		}
	}
	return commands
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	bsm := mc.NewBattleshipSessionManager(mc.WithGracePeriod(time.Second * 5))
	bgm := mb.NewBattleshipGameManager(mb.WithRandomSource(func() mb.Random {
		return mb.NewSeededRandom(7)
	}))
	rp := api.NewRequestProcessor(bsm, bgm, sqlc.New(db))

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := &testEnv{
		url:            "ws" + strings.TrimPrefix(server.URL, "http") + "/battleship",
		mock:           mock,
		rp:             rp,
		gameManager:    bgm,
		sessionManager: bsm,
	}

	conn, _, err := dialer.Dial(env.url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	env.conn = conn

	var respSessionId mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&respSessionId); err != nil {
		t.Fatal(err)
	}
	if respSessionId.Code != mc.CodeSessionID || respSessionId.Payload.SessionID == "" {
		t.Fatalf("expected a session id, got: %+v", respSessionId)
	}
	env.sessionId = respSessionId.Payload.SessionID
	return env
}

func (env *testEnv) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: env.rp.GetIpNet(), Valid: true}
}

func (env *testEnv) expectIncrement(column string) {
	env.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, " + column + ")")).
		WithArgs(env.serverInet()).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func (env *testEnv) createGame(t *testing.T) string {
	t.Helper()

	env.expectIncrement("games_created")
	req := mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{
		PlayerShips: playerShips,
		EnemyShips:  enemyShips,
	}}
	if err := env.conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespCreateGame]
	if err := env.conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}
	return resp.Payload.GameUuid
}

func (env *testEnv) attack(t *testing.T, command string) mc.Message[mc.RespAttack] {
	t.Helper()

	req := mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{Command: command}}
	if err := env.conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	var resp mc.Message[mc.RespAttack]
	if err := env.conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeAttack {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeAttack, resp.Code)
	}
	return resp
}

func TestInvalidCode(t *testing.T) {
	env := newTestEnv(t)

	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
			respPayload:  mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal),
		},
		{
			name:         "session id code is server only",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeSessionID),
			respPayload:  mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := env.conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}

			if err := env.conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
		})
	}
}

func TestSignalAbsent(t *testing.T) {
	env := newTestEnv(t)

	for _, payload := range []string{"attack A,1", `{"payload": {"command": "A,1"}}`} {
		if err := env.conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			t.Fatal(err)
		}

		var resp mc.Message[mc.NoPayload]
		if err := env.conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Code != mc.CodeSignalAbsent {
			t.Fatalf("expected status: %d\t got: %d", mc.CodeSignalAbsent, resp.Code)
		}
		if resp.Error == nil {
			t.Fatal("expected an error for a payload without code")
		}
	}
}

func TestAttackWithoutGame(t *testing.T) {
	env := newTestEnv(t)

	resp := env.attack(t, "A,1")
	if resp.Error == nil {
		t.Fatal("attack without a game must be rejected")
	}
}

func TestCreateGame(t *testing.T) {
	env := newTestEnv(t)

	tests := []Test[mc.Message[mc.ReqCreateGame], mc.Message[mc.RespCreateGame]]{
		{
			name:         "missing destroyer",
			expectedCode: mc.CodeCreateGame,
			expectErr:    true,
			reqPayload: mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{
				PlayerShips: playerShips[:4],
			}},
		},
		{
			name:         "ship off the grid",
			expectedCode: mc.CodeCreateGame,
			expectErr:    true,
			reqPayload: mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{
				PlayerShips: append(append([]config.ShipRecord{}, playerShips[:4]...),
					config.ShipRecord{ShipName: "Destroyer", LetterPos: "J", NumberPos: 10, Orientation: "h"}),
			}},
		},
		{
			name:         "random enemy fleet",
			expectedCode: mc.CodeCreateGame,
			reqPayload: mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{
				PlayerShips: playerShips,
			}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if !test.expectErr {
				env.expectIncrement("games_created")
			}

			if err := env.conn.WriteJSON(test.reqPayload); err != nil {
				t.Fatal(err)
			}
			if err := env.conn.ReadJSON(&test.respPayload); err != nil {
				t.Fatal(err)
			}

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}

			if test.expectErr {
				if test.respPayload.Error == nil {
					t.Fatal("expected an error for an invalid fleet")
				}
				return
			}

			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
			}

			game, err := env.gameManager.GetGame(test.respPayload.Payload.GameUuid)
			if err != nil {
				t.Fatal(err)
			}
			if game.Stage() != mb.GameStagePlaying {
				t.Fatalf("expected stage: %s\tgot: %s", mb.GameStagePlaying, game.Stage())
			}
			if len(test.respPayload.Payload.PlayerFleet) != len(mb.ShipNames) {
				t.Fatalf("expected %d ships in layout, got %d", len(mb.ShipNames), len(test.respPayload.Payload.PlayerFleet))
			}

			if err = env.mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations were not met: %v", err)
			}
		})
	}

	if count := env.gameManager.Count(); count != 1 {
		t.Fatalf("rejected fleets must not register games; count: %d", count)
	}
}

func TestCreateGameReplacesSessionGame(t *testing.T) {
	env := newTestEnv(t)

	first := env.createGame(t)
	second := env.createGame(t)
	if first == second {
		t.Fatal("expected a new game uuid")
	}

	if _, err := env.gameManager.GetGame(first); err == nil {
		t.Fatal("the replaced game must be terminated")
	}
	if env.gameManager.Count() != 1 {
		t.Fatalf("expected one game, got %d", env.gameManager.Count())
	}
}

func TestAttack(t *testing.T) {
	env := newTestEnv(t)
	env.createGame(t)

	tests := []Test[string, mc.Message[mc.RespAttack]]{
		{name: "carrier hit", reqPayload: "A,10", expectedRespPayload: mc.Message[mc.RespAttack]{
			Payload: mc.RespAttack{Player: mb.Shot{Coordinates: mb.NewCoordinates(1, 10), Outcome: mb.AttackOutcomeHit}, OpponentShipCount: mb.TotalShipCells - 1},
		}},
		{name: "repeated cell", reqPayload: "a,10", expectErr: true},
		{name: "miss", reqPayload: "A,1", expectedRespPayload: mc.Message[mc.RespAttack]{
			Payload: mc.RespAttack{Player: mb.Shot{Coordinates: mb.NewCoordinates(1, 1), Outcome: mb.AttackOutcomeMiss}, OpponentShipCount: mb.TotalShipCells - 1},
		}},
		{name: "row past J", reqPayload: "K,1", expectErr: true},
		{name: "column zero", reqPayload: "B,0", expectErr: true},
		{name: "column past 10", reqPayload: "B,11", expectErr: true},
		{name: "missing column", reqPayload: "B", expectErr: true},
		{name: "not a number", reqPayload: "B,x", expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = env.attack(t, test.reqPayload)

			if test.expectErr {
				if test.respPayload.Error == nil {
					t.Fatalf("expected command %q to be rejected", test.reqPayload)
				}
				return
			}
			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
			}

			got, expected := test.respPayload.Payload, test.expectedRespPayload.Payload
			if got.Player != expected.Player {
				t.Fatalf("expected player shot: %+v\tgot: %+v", expected.Player, got.Player)
			}
			if got.OpponentShipCount != expected.OpponentShipCount {
				t.Fatalf("expected opponent ship count: %d\tgot: %d", expected.OpponentShipCount, got.OpponentShipCount)
			}
			if !got.Opponent.Coordinates.InBounds() {
				t.Fatalf("opponent shot off the grid: %+v", got.Opponent)
			}
		})
	}

	// two accepted turns, one opponent shot each
	state := requestGameState(t, env)
	if len(state.PlayerAttempts) != 2 || len(state.OpponentAttempts) != 2 {
		t.Fatalf("expected 2 attempts per side, got player: %d\topponent: %d", len(state.PlayerAttempts), len(state.OpponentAttempts))
	}
}

func requestGameState(t *testing.T, env *testEnv) mc.RespGameState {
	t.Helper()

	if err := env.conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeGameState)); err != nil {
		t.Fatal(err)
	}
	var resp mc.Message[mc.RespGameState]
	if err := env.conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeGameState || resp.Error != nil {
		t.Fatalf("unexpected game state response: %+v", resp)
	}
	return resp.Payload
}

func TestPlayerWins(t *testing.T) {
	env := newTestEnv(t)
	gameUuid := env.createGame(t)

	commands := enemyCommands()
	for i, command := range commands {
		if i == len(commands)-1 {
			env.expectIncrement("games_won_by_player")
		}

		resp := env.attack(t, command)
		if resp.Error != nil {
			t.Fatalf("command %q rejected: %s", command, resp.Error.ErrorDetails)
		}
		if resp.Payload.Player.Outcome != mb.AttackOutcomeHit {
			t.Fatalf("expected %q to hit", command)
		}
		if resp.Payload.PlayerShipCount == 0 {
			t.Fatalf("opponent sank every ship first with seed 7")
		}
	}

	var respEndGame mc.Message[mc.RespEndGame]
	if err := env.conn.ReadJSON(&respEndGame); err != nil {
		t.Fatal(err)
	}
	if respEndGame.Code != mc.CodeEndGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeEndGame, respEndGame.Code)
	}
	if respEndGame.Payload.Winner != mb.WinnerPlayer {
		t.Fatalf("expected winner: %s\tgot: %s", mb.WinnerPlayer, respEndGame.Payload.Winner)
	}

	if err := env.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}

	// The game stays readable after it ends but takes no more attacks
	state := requestGameState(t, env)
	if state.GameUuid != gameUuid || state.Stage != mb.GameStageOver.String() || state.Winner != mb.WinnerPlayer {
		t.Fatalf("unexpected final state: %+v", state)
	}
	if resp := env.attack(t, "J,1"); resp.Error == nil {
		t.Fatal("attack after the game is over must be rejected")
	}
}

func TestReconnectSession(t *testing.T) {
	env := newTestEnv(t)
	gameUuid := env.createGame(t)

	// Drop the TCP connection without a close frame
	if err := env.conn.UnderlyingConn().Close(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond * 300)

	conn, _, err := dialer.Dial(env.url+"?"+api.URLQuerySessionIDKeyword+"="+env.sessionId, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	env.conn = conn

	var respReconnected mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&respReconnected); err != nil {
		t.Fatal(err)
	}
	if respReconnected.Code != mc.CodeReconnected || respReconnected.Payload.SessionID != env.sessionId {
		t.Fatalf("unexpected reconnection response: %+v", respReconnected)
	}

	state := requestGameState(t, env)
	if state.GameUuid != gameUuid {
		t.Fatalf("expected game: %s\tgot: %s", gameUuid, state.GameUuid)
	}
}

// The client comes back before the server notices the first
// connection is gone. The session and its game carry over.
func TestReconnectBeforeOldConnDrops(t *testing.T) {
	env := newTestEnv(t)
	gameUuid := env.createGame(t)
	env.attack(t, "J,1")

	conn, _, err := dialer.Dial(env.url+"?"+api.URLQuerySessionIDKeyword+"="+env.sessionId, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	env.conn = conn

	var respReconnected mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&respReconnected); err != nil {
		t.Fatal(err)
	}
	if respReconnected.Code != mc.CodeReconnected || respReconnected.Payload.SessionID != env.sessionId {
		t.Fatalf("unexpected reconnection response: %+v", respReconnected)
	}

	state := requestGameState(t, env)
	if state.GameUuid != gameUuid || len(state.PlayerAttempts) != 1 {
		t.Fatalf("unexpected state after reconnection: %+v", state)
	}
	if env.sessionManager.Count() != 1 || env.gameManager.Count() != 1 {
		t.Fatalf("expected 1 session and 1 game, got %d and %d", env.sessionManager.Count(), env.gameManager.Count())
	}

	if resp := env.attack(t, "J,2"); resp.Error != nil {
		t.Fatalf("attack on the new connection failed: %s", resp.Error.ErrorDetails)
	}
}

func TestReconnectUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	conn, _, err := dialer.Dial(env.url+"?"+api.URLQuerySessionIDKeyword+"=unknown", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var resp mc.Message[mc.NoPayload]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeReceivedInvalidSessionID || resp.Error == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
