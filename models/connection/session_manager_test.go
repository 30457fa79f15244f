package connection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

func TestSessionLifecycle(t *testing.T) {
	bsm := NewBattleshipSessionManager()

	session := bsm.GenerateNewSession(nil)
	require.NotEmpty(t, session.Id())
	assert.Nil(t, session.Game())
	assert.Equal(t, 1, bsm.CountSessions())

	found, err := bsm.FindSession(session.Id())
	require.NoError(t, err)
	assert.Same(t, session, found)

	other := bsm.GenerateNewSession(nil)
	assert.NotEqual(t, session.Id(), other.Id())
	assert.Equal(t, 2, bsm.CountSessions())

	bsm.TerminateSession(session.Id())
	_, err = bsm.FindSession(session.Id())
	require.ErrorIs(t, err, cerr.ErrSessionNotFound)
	assert.Equal(t, 1, bsm.CountSessions())
}

func TestSessionOwnsGame(t *testing.T) {
	session := NewSession("abc", nil)
	game, err := mb.NewGame("g1", mb.DefaultRules(), nil)
	require.NoError(t, err)

	session.SetGame(game)
	assert.Same(t, game, session.Game())
}

func TestCleanupPeriodically(t *testing.T) {
	bsm := NewBattleshipSessionManager().WithCleanupInterval(10 * time.Millisecond)
	bsm.GenerateNewSession(nil)
	bsm.GenerateNewSession(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bsm.CleanupPeriodically(ctx)

	assert.Eventually(t, func() bool { return bsm.CountSessions() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMessageEnvelope(t *testing.T) {
	msg := NewMessage[RespAttack](CodeAttack)
	msg.AddPayload(RespAttack{X: 3, Y: 4, Outcome: mb.AttackHit.String(), ShipName: "Cruiser", IsTurn: true})

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"code": 5,
		"payload": {
			"x": 3, "y": 4, "outcome": "hit", "ship_name": "Cruiser", "sunk": false, "is_turn": true,
			"scoreboard": {"player_moves": 0, "player_ships_destroyed": 0, "computer_moves": 0, "computer_ships_destroyed": 0}
		}
	}`, string(data))

	errMsg := NewMessage[NoPayload](CodeInvalidSignal)
	errMsg.AddError("", "invalid code in the incoming payload")
	data, err = json.Marshal(errMsg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": 8, "error": {"message": "invalid code in the incoming payload"}}`, string(data))
}
