package api

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RequestProcessor serves one solo game session per websocket
// connection.
type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	dbManager      sqlc.DbManager
	rules          mb.Rules
	ipnet          net.IPNet
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	dbManager sqlc.DbManager,
	rules mb.Rules,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		dbManager:      dbManager,
		rules:          rules,
		ipnet:          findServerIpNet(),
	}
}

// The first up, non loopback IPv4 address identifies this server in the
// analytics table. Loopback is used when there is none.
func findServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(8, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn().Err(err).Msg("failed to list network interfaces")
		return loopback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: ipnet.Mask}
			}
		}
	}
	return loopback
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		log.Warn().Err(err).Msg("could not open websocket connection")
		return
	}

	session := rp.sessionManager.GenerateNewSession(conn)
	log.Info().
		Str("sessionId", session.Id()).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("a new connection established")

	rp.processSessionRequests(session)
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		rp.endSessionGame(session)
		_ = session.Conn().Close()
		rp.sessionManager.TerminateSession(sessionId)
		log.Info().Str("sessionId", sessionId).Msg("session terminated")
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// the connection failed even after retries
			break sessionLoop
		}

		var signal mc.Signal
		if err := json.Unmarshal(payload, &signal); err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch signal.Code {

		// A session owns one game at a time; creating a game drops the
		// previous one
		case mc.CodeCreateGame:
			rp.endSessionGame(session)

			game, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, rp.rules)
			if respMsg.Error == nil {
				session.SetGame(game)
				rp.recordGameCreated()
				log.Info().Str("sessionId", sessionId).Str("gameUuid", game.Uuid()).Msg("game created")
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

		case mc.CodePlaceShip:
			respMsg := NewRequest(payload).HandlePlaceShip(session.Game())
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}
			if err := rp.startGameIfReady(session); err != nil {
				break sessionLoop
			}

		case mc.CodeAutoPlaceFleet:
			respMsg := NewRequest(payload).HandleAutoPlaceFleet(session.Game())
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}
			if err := rp.startGameIfReady(session); err != nil {
				break sessionLoop
			}

		// The player's shot is answered first. On a miss the computer
		// fires right away and every one of its shots is sent in order.
		case mc.CodeAttack:
			game := session.Game()
			respMsg := NewRequest(payload).HandleAttack(game)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if !game.IsFinished() && !game.IsPlayerTurn() {
				msgs, err := HandleComputerTurn(game)
				for _, msg := range msgs {
					if err := rp.sessionManager.WriteToSessionConn(session, msg); err != nil {
						break sessionLoop
					}
				}
				if err != nil {
					log.Error().Err(err).Str("gameUuid", game.Uuid()).Msg("computer turn failed")
					break sessionLoop
				}
			}

			if game.IsFinished() {
				if err := rp.finishGame(session); err != nil {
					break sessionLoop
				}
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal); err != nil {
				break sessionLoop
			}
		}
	}
}

// Called after a successful placement; the placement that completes the
// fleet starts the game.
func (rp RequestProcessor) startGameIfReady(session *mc.Session) error {
	game := session.Game()
	if game == nil || game.Phase() != mb.PhaseInProgress {
		return nil
	}

	respMsg := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)
	respMsg.AddPayload(mc.RespStartGame{IsTurn: game.IsPlayerTurn()})
	return rp.sessionManager.WriteToSessionConn(session, respMsg)
}

// Sends the end game message and releases the game. The session stays
// open for another game.
func (rp RequestProcessor) finishGame(session *mc.Session) error {
	game := session.Game()
	rp.recordGameFinished(game.Winner())

	log.Info().
		Str("sessionId", session.Id()).
		Str("gameUuid", game.Uuid()).
		Stringer("winner", game.Winner()).
		Interface("scoreboard", game.Scoreboard()).
		Msg("game finished")

	respMsg := NewEndGameMessage(game)
	rp.endSessionGame(session)
	return rp.sessionManager.WriteToSessionConn(session, respMsg)
}

func (rp RequestProcessor) endSessionGame(session *mc.Session) {
	if game := session.Game(); game != nil {
		rp.gameManager.TerminateGame(game.Uuid())
		session.SetGame(nil)
	}
}

func (rp RequestProcessor) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: rp.ipnet, Valid: true}
}

// Analytics are best effort; a failing database never ends a game.
func (rp RequestProcessor) recordGameCreated() {
	if !rp.dbManager.Enabled() {
		return
	}

	ctx, cancel := sqlc.NewQuerierCtx()
	defer cancel()
	if err := rp.dbManager.Analytics.IncrementGamesCreatedCount(ctx, rp.serverInet()); err != nil {
		log.Error().Err(err).Msg("failed to record created game")
	}
}

func (rp RequestProcessor) recordGameFinished(winner mb.Side) {
	if !rp.dbManager.Enabled() || winner == mb.SideNone {
		return
	}

	ctx, cancel := sqlc.NewQuerierCtx()
	defer cancel()
	if err := rp.dbManager.Analytics.IncrementGamesWonCount(ctx, rp.serverInet(), winner == mb.SidePlayer); err != nil {
		log.Error().Err(err).Msg("failed to record finished game")
	}
}
