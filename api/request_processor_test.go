package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 5 * time.Second,
}

type testServer struct {
	rp    RequestProcessor
	gm    *mb.BattleshipGameManager
	sm    *mc.BattleshipSessionManager
	wsUrl string
}

func newTestServer(t *testing.T, dbManager sqlc.DbManager) *testServer {
	t.Helper()

	bsm := mc.NewBattleshipSessionManager()
	bgm := mb.NewBattleshipGameManager().WithSeed(7)
	rp := NewRequestProcessor(bsm, bgm, dbManager, mb.DefaultRules())

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		rp:    rp,
		gm:    bgm,
		sm:    bsm,
		wsUrl: "ws" + strings.TrimPrefix(server.URL, "http") + "/battleship",
	}
}

// Dials the server and consumes the session id message.
func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	conn, _, err := dialer.Dial(ts.wsUrl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var respSessionId mc.Message[mc.RespSessionId]
	readMessage(t, conn, &respSessionId)
	require.Equal(t, mc.CodeSessionID, respSessionId.Code)
	require.NotEmpty(t, respSessionId.Payload.SessionID)
	return conn
}

func (ts *testServer) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: ts.rp.GetIpNet(), Valid: true}
}

func readMessage(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(v))
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func createGame(t *testing.T, ts *testServer, conn *websocket.Conn) *mb.Game {
	t.Helper()

	send(t, conn, mc.NewMessage[mc.NoPayload](mc.CodeCreateGame))
	var resp mc.Message[mc.RespCreateGame]
	readMessage(t, conn, &resp)
	require.Nil(t, resp.Error)

	game, err := ts.gm.GetGame(resp.Payload.GameUuid)
	require.NoError(t, err)
	return game
}

func autoPlace(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	send(t, conn, mc.NewMessage[mc.NoPayload](mc.CodeAutoPlaceFleet))
	var resp mc.Message[mc.RespPlaceShip]
	readMessage(t, conn, &resp)
	require.Nil(t, resp.Error)
	require.Len(t, resp.Payload.Ships, 5)
	assert.Nil(t, resp.Payload.NextShip)

	var start mc.Message[mc.RespStartGame]
	readMessage(t, conn, &start)
	require.Equal(t, mc.CodeStartGame, start.Code)
	assert.True(t, start.Payload.IsTurn)
}

func attackMessage(x, y int) mc.Message[mc.ReqAttack] {
	msg := mc.NewMessage[mc.ReqAttack](mc.CodeAttack)
	msg.AddPayload(mc.ReqAttack{X: x, Y: y})
	return msg
}

func TestInvalidCode(t *testing.T) {
	ts := newTestServer(t, sqlc.DbManager{})
	conn := ts.dial(t)

	tests := []struct {
		name         string
		reqPayload   any
		expectedCode uint8
	}{
		{name: "random invalid code", reqPayload: mc.NewMessage[mc.NoPayload](255), expectedCode: mc.CodeInvalidSignal},
		{name: "another invalid code", reqPayload: mc.NewMessage[mc.NoPayload](200), expectedCode: mc.CodeInvalidSignal},
		{name: "not json", reqPayload: "hello", expectedCode: mc.CodeSignalAbsent},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, conn, test.reqPayload)

			var resp mc.Message[mc.NoPayload]
			readMessage(t, conn, &resp)
			assert.Equal(t, test.expectedCode, resp.Code)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestRequestsWithoutGame(t *testing.T) {
	ts := newTestServer(t, sqlc.DbManager{})
	conn := ts.dial(t)

	send(t, conn, attackMessage(0, 0))
	var respAttack mc.Message[mc.RespAttack]
	readMessage(t, conn, &respAttack)
	assert.Equal(t, mc.CodeAttack, respAttack.Code)
	require.NotNil(t, respAttack.Error)
	assert.Equal(t, cerr.ConstErrAttackFailed, respAttack.Error.Message)

	send(t, conn, mc.NewMessage[mc.NoPayload](mc.CodeAutoPlaceFleet))
	var respPlace mc.Message[mc.RespPlaceShip]
	readMessage(t, conn, &respPlace)
	require.NotNil(t, respPlace.Error)
	assert.Equal(t, cerr.ConstErrPlacementFailed, respPlace.Error.Message)
}

func TestCreateGame(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := newTestServer(t, sqlc.NewDbManager(db))
	conn := ts.dial(t)

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_created\)`).
		WithArgs(ts.serverInet()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	send(t, conn, mc.NewMessage[mc.NoPayload](mc.CodeCreateGame))
	var resp mc.Message[mc.RespCreateGame]
	readMessage(t, conn, &resp)

	require.Nil(t, resp.Error)
	assert.Equal(t, mc.CodeCreateGame, resp.Code)
	assert.Len(t, resp.Payload.GameUuid, 6)
	assert.Equal(t, mb.DefaultBoardSize, resp.Payload.BoardSize)
	assert.Equal(t, mb.StandardFleet(), resp.Payload.Fleet)
	require.NotNil(t, resp.Payload.NextShip)
	assert.Equal(t, "Carrier", resp.Payload.NextShip.Name)
	assert.Equal(t, 1, ts.gm.CountGames())
	require.NoError(t, mock.ExpectationsWereMet())

	// a board size below the minimum is rejected
	bad := mc.NewMessage[mc.ReqCreateGame](mc.CodeCreateGame)
	bad.AddPayload(mc.ReqCreateGame{BoardSize: 3})
	send(t, conn, bad)

	var badResp mc.Message[mc.RespCreateGame]
	readMessage(t, conn, &badResp)
	require.NotNil(t, badResp.Error)
	assert.Equal(t, "invalid board size", badResp.Error.Message)
}

func TestCreateGameReplacesPreviousGame(t *testing.T) {
	ts := newTestServer(t, sqlc.DbManager{})
	conn := ts.dial(t)

	first := createGame(t, ts, conn)
	second := createGame(t, ts, conn)

	assert.NotEqual(t, first.Uuid(), second.Uuid())
	assert.Equal(t, 1, ts.gm.CountGames())
	_, err := ts.gm.GetGame(first.Uuid())
	require.ErrorIs(t, err, cerr.ErrGameNotFound)
}

func TestPlaceShips(t *testing.T) {
	ts := newTestServer(t, sqlc.DbManager{})
	conn := ts.dial(t)
	createGame(t, ts, conn)

	placeMessage := func(x, y int, orientation string) mc.Message[mc.ReqPlaceShip] {
		msg := mc.NewMessage[mc.ReqPlaceShip](mc.CodePlaceShip)
		msg.AddPayload(mc.ReqPlaceShip{X: x, Y: y, Orientation: orientation})
		return msg
	}

	tests := []struct {
		name        string
		req         mc.Message[mc.ReqPlaceShip]
		expectErr   bool
		expectShips int
	}{
		{name: "carrier", req: placeMessage(0, 0, "H"), expectShips: 1},
		{name: "overlapping battleship", req: placeMessage(2, 0, "V"), expectErr: true},
		{name: "bad orientation", req: placeMessage(0, 2, "diagonal"), expectErr: true},
		{name: "out of bound", req: placeMessage(8, 2, "H"), expectErr: true},
		{name: "battleship", req: placeMessage(0, 2, "horizontal"), expectShips: 2},
		{name: "cruiser", req: placeMessage(0, 4, "h"), expectShips: 3},
		{name: "submarine", req: placeMessage(9, 5, "V"), expectShips: 4},
		{name: "destroyer", req: placeMessage(0, 9, "H"), expectShips: 5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, conn, test.req)

			var resp mc.Message[mc.RespPlaceShip]
			readMessage(t, conn, &resp)
			assert.Equal(t, mc.CodePlaceShip, resp.Code)

			if test.expectErr {
				require.NotNil(t, resp.Error)
				assert.Equal(t, cerr.ConstErrPlacementFailed, resp.Error.Message)
				return
			}
			require.Nil(t, resp.Error)
			assert.Len(t, resp.Payload.Ships, test.expectShips)
		})
	}

	var start mc.Message[mc.RespStartGame]
	readMessage(t, conn, &start)
	assert.Equal(t, mc.CodeStartGame, start.Code)
	assert.True(t, start.Payload.IsTurn)
}

func TestPlayerWinsGame(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := newTestServer(t, sqlc.NewDbManager(db))
	conn := ts.dial(t)

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_created\)`).
		WithArgs(ts.serverInet()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_won_player\)`).
		WithArgs(ts.serverInet()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	game := createGame(t, ts, conn)
	autoPlace(t, conn)

	var targets []mb.Coordinates
	for _, ship := range game.ComputerBoard().Ships() {
		targets = append(targets, ship.Coordinates()...)
	}

	for i, c := range targets {
		send(t, conn, attackMessage(c.X, c.Y))

		var resp mc.Message[mc.RespAttack]
		readMessage(t, conn, &resp)
		require.Nil(t, resp.Error)
		assert.Equal(t, mb.AttackHit.String(), resp.Payload.Outcome)
		assert.NotEmpty(t, resp.Payload.ShipName)
		assert.Equal(t, i+1, resp.Payload.Scoreboard.PlayerMoves)

		// a hit keeps the turn until the game is over
		assert.Equal(t, i < len(targets)-1, resp.Payload.IsTurn)
	}

	var end mc.Message[mc.RespEndGame]
	readMessage(t, conn, &end)
	assert.Equal(t, mc.CodeEndGame, end.Code)
	assert.Equal(t, mb.SidePlayer.String(), end.Payload.Winner)
	assert.Equal(t, 5, end.Payload.Scoreboard.PlayerShipsDestroyed)
	require.Len(t, end.Payload.ComputerShips, 5)
	for _, ship := range end.Payload.ComputerShips {
		assert.True(t, ship.Sunk)
	}

	assert.Zero(t, ts.gm.CountGames())
	require.NoError(t, mock.ExpectationsWereMet())

	// the finished game is gone from the session
	send(t, conn, attackMessage(0, 0))
	var resp mc.Message[mc.RespAttack]
	readMessage(t, conn, &resp)
	require.NotNil(t, resp.Error)
}

func TestComputerAttacksAfterMiss(t *testing.T) {
	ts := newTestServer(t, sqlc.DbManager{})
	conn := ts.dial(t)

	game := createGame(t, ts, conn)
	autoPlace(t, conn)

	var miss mb.Coordinates
	board := game.ComputerBoard()
	for y := board.Size() - 1; y >= 0; y-- {
		for x := board.Size() - 1; x >= 0; x-- {
			if board.Cell(x, y) == mb.CellEmpty {
				miss = mb.NewCoordinates(x, y)
			}
		}
	}

	send(t, conn, attackMessage(miss.X, miss.Y))
	var resp mc.Message[mc.RespAttack]
	readMessage(t, conn, &resp)
	require.Nil(t, resp.Error)
	assert.Equal(t, mb.AttackMiss.String(), resp.Payload.Outcome)
	assert.Empty(t, resp.Payload.ShipName)
	assert.False(t, resp.Payload.IsTurn)

	var shots int
	for {
		var computer mc.Message[mc.RespAttack]
		readMessage(t, conn, &computer)
		require.Equal(t, mc.CodeComputerAttack, computer.Code)
		shots++

		if computer.Payload.IsTurn {
			assert.Equal(t, mb.AttackMiss.String(), computer.Payload.Outcome)
			assert.Equal(t, shots, computer.Payload.Scoreboard.ComputerMoves)
			break
		}
		assert.Equal(t, mb.AttackHit.String(), computer.Payload.Outcome)
	}

	// attacking the same cell twice is rejected without a move
	send(t, conn, attackMessage(miss.X, miss.Y))
	readMessage(t, conn, &resp)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.ErrorDetails, cerr.ErrAlreadyAttacked.Error())
	assert.Equal(t, 1, game.Scoreboard().PlayerMoves)
}

func TestSessionTerminatedOnClose(t *testing.T) {
	ts := newTestServer(t, sqlc.DbManager{})
	conn := ts.dial(t)
	createGame(t, ts, conn)
	require.Equal(t, 1, ts.sm.CountSessions())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool {
		return ts.sm.CountSessions() == 0 && ts.gm.CountGames() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
