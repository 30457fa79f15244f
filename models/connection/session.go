package connection

import (
	"errors"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

type ConnectionHandler interface {
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg any) error
	onConnErr(err error) uint8
}

// Session is one websocket connection. It owns at most one game at a
// time.
type Session struct {
	id        string
	conn      *websocket.Conn
	game      *mb.Game
	createdAt time.Time
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	return s.conn
}

func (s *Session) Game() *mb.Game {
	return s.game
}

func (s *Session) SetGame(game *mb.Game) {
	s.game = game
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) remoteAddr() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Warn().Err(err).Str("sessionId", s.id).Msg("timeout error")
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Warn().Err(err).Str("sessionId", s.id).Msg("high server load/traffic error")
		return ConnLoopRetry
	}

	// A solo game has nobody waiting on the other side, so an abnormal
	// closure simply ends the session
	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		log.Info().Err(err).Str("sessionId", s.id).Msg("connection closed")
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Error().Err(err).Str("sessionId", s.id).Msg("critical error")
		return ConnLoopBreak
	}

	/*
		This might mean that the client is not from the application.
		Breaking not to overwhelm the server with invalid payloads (e.g. binary data)

		CloseUnsupportedData (1003): binary message to a text only server.
		CloseInvalidFramePayloadData (1007): text message that is not valid UTF-8.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Warn().Err(err).Str("sessionId", s.id).Msg("non-critical error")
		return ConnLoopBreak
	}

	log.Error().Err(err).Str("sessionId", s.id).Msg("unexpected error")
	return ConnLoopBreak
}

// Writes msg as JSON to the connection of the session, retrying with
// a growing back off on timeouts.
func (s *Session) writeToConnWithRetry(msg any) error {
	var retries uint8

	for {
		err := s.conn.WriteJSON(msg)
		if err == nil {
			return nil
		}

		if s.onConnErr(err) != ConnLoopRetry {
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop due to: " + err.Error())
		}

		if retries >= maxWriteWsRetries {
			log.Error().Err(err).Str("remoteAddr", s.remoteAddr()).Msg("max retries reached for writing to ws")
			return NewConnErr(ConnLoopBreak).AddDesc("max write retries reached")
		}

		retries++
		log.Warn().Str("remoteAddr", s.remoteAddr()).Uint8("retry", retries).Msg("writing json to ws failed; retrying")
		time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
	}
}

// Decides what the read loop does after a failed read.
// ConnLoopBreak ends the session.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	if s.onConnErr(err) != ConnLoopRetry {
		return ConnLoopBreak
	}

	if retries >= maxWriteWsRetries {
		return ConnLoopBreak
	}

	log.Warn().Str("remoteAddr", s.remoteAddr()).Uint8("retry", retries).Msg("failed to read from ws conn; retrying")
	time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
	return ConnLoopContinue
}
