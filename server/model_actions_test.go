package server

import (
	"bytes"
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/lasermaze/model"
)

func testLevels(t *testing.T) []model.Grid {
	t.Helper()
	levels := make([]model.Grid, 0)
	for _, text := range []string{
		// level 1: solved by a "/" mirror at (0,0)
		".. .. .. .. T<\n.. .. .. .. ..\n.. .. .. .. ..\n.. .. .. .. ..\nL^ .. .. .. ..\n",
		// level 2: no laser
		".. ..\n.. ..\n",
	} {
		g, err := read(strings.NewReader(text))
		require.NoError(t, err)
		levels = append(levels, g)
	}
	return levels
}

func TestTurnPlaceRemoveRotate(t *testing.T) {
	gs := NewGameSession(testLevels(t), 0, model.NewTracer(0))

	mes := gs.Turn(model.ClientMessage{Action: model.PLACE, X: 2, Y: 2, Token: model.NewMirror(0)})
	require.Len(t, mes.Grids, 1)
	assert.Empty(t, mes.Failures)
	tok, ok := gs.Grid.Token(2, 2)
	require.True(t, ok)
	assert.Equal(t, model.MIRROR, tok.Kind)

	mes = gs.Turn(model.ClientMessage{Action: model.ROTATE, X: 2, Y: 2, Delta: -90})
	require.Len(t, mes.Grids, 1)
	tok, _ = gs.Grid.Token(2, 2)
	assert.Equal(t, 270, tok.Angle)

	mes = gs.Turn(model.ClientMessage{Action: model.REMOVE, X: 2, Y: 2})
	require.Len(t, mes.Grids, 1)
	assert.True(t, gs.Grid.At(2, 2).Empty())
}

func TestTurnFailuresKeepGrid(t *testing.T) {
	gs := NewGameSession(testLevels(t), 0, model.NewTracer(0))
	before := gs.Grid

	mes := gs.Turn(model.ClientMessage{Action: model.PLACE, X: 5, Y: 0, Token: model.NewMirror(0)})
	require.Len(t, mes.Failures, 1)
	assert.Equal(t, model.PLACE, mes.Failures[0].Action)
	assert.Empty(t, mes.Grids)

	mes = gs.Turn(model.ClientMessage{Action: model.ROTATE, X: 2, Y: 2, Delta: 90})
	require.Len(t, mes.Failures, 1)
	assert.Contains(t, mes.Failures[0].Reason, model.ErrNoTokenPresent.Error())

	mes = gs.Turn(model.ClientMessage{Action: model.NEXT_LEVEL})
	require.Len(t, mes.Failures, 1)
	assert.Equal(t, ErrNotSolved.Error(), mes.Failures[0].Reason)

	assert.True(t, gs.Grid.Equal(before))
}

func TestTurnSolveAndAdvance(t *testing.T) {
	gs := NewGameSession(testLevels(t), 0, model.NewTracer(0))

	mes := gs.Turn(model.ClientMessage{Action: model.FIRE})
	require.Len(t, mes.Beams, 1)
	assert.False(t, mes.Solved)

	gs.Turn(model.ClientMessage{Action: model.PLACE, X: 0, Y: 0, Token: model.NewMirror(0)})
	mes = gs.Turn(model.ClientMessage{Action: model.FIRE})
	require.Len(t, mes.Beams, 1)
	assert.True(t, mes.Solved)
	require.Len(t, mes.Beams[0].TargetHits, 1)
	assert.Equal(t, model.Position{X: 4, Y: 0}, mes.Beams[0].TargetHits[0].Position)

	// the reply grid carries derived states, the session grid stays idle
	lit, _ := mes.Grids[0].Token(4, 0)
	assert.Equal(t, model.HIT, lit.State)
	plain, _ := gs.Grid.Token(4, 0)
	assert.Equal(t, model.IDLE, plain.State)

	mes = gs.Turn(model.ClientMessage{Action: model.NEXT_LEVEL})
	require.Len(t, mes.Setup, 1)
	assert.Equal(t, 1, mes.Setup[0].Level)
	assert.Equal(t, 2, gs.Grid.Dimension())

	mes = gs.Turn(model.ClientMessage{Action: model.FIRE})
	require.Len(t, mes.Failures, 1)
	assert.Equal(t, model.ErrNoLaser.Error(), mes.Failures[0].Reason)
}

func TestTurnNextLevelOnLast(t *testing.T) {
	gs := NewGameSession(testLevels(t), 1, model.NewTracer(0))
	gs.Solved = true
	before := gs.Grid

	mes := gs.Turn(model.ClientMessage{Action: model.NEXT_LEVEL})
	require.Len(t, mes.Failures, 1)
	assert.Equal(t, ErrLastLevel.Error(), mes.Failures[0].Reason)
	assert.Empty(t, mes.Setup)
	assert.Equal(t, 1, gs.Level)
	assert.True(t, gs.Grid.Equal(before))
}

func TestTurnPlaceUnknownKind(t *testing.T) {
	gs := NewGameSession(testLevels(t), 0, model.NewTracer(0))
	before := gs.Grid

	mes := gs.Turn(model.ClientMessage{Action: model.PLACE, X: 2, Y: 2, Token: model.Token{Kind: 7}})
	require.Len(t, mes.Failures, 1)
	assert.Contains(t, mes.Failures[0].Reason, model.ErrInvalidToken.Error())
	assert.Empty(t, mes.Grids)
	assert.True(t, gs.Grid.Equal(before))

	var b bytes.Buffer
	require.NoError(t, Format(&b, gs.Grid))
	assert.NotContains(t, b.String(), "\x00")
}

func TestAbandonKillsLateSession(t *testing.T) {
	finished := make(chan *GameSession, 1)
	gs := NewGameSession(testLevels(t), 0, model.NewTracer(0))
	gs.Finished = finished
	go gs.Loop()

	gcas := make(chan GameContextAwaiting, 1)
	gcas <- GameContextAwaiting{ResponseCode: GAME_READY, GameSession: gs}
	abandon(gcas)

	select {
	case done := <-finished:
		assert.Equal(t, gs, done)
		assert.Equal(t, GS_ERR, done.State)
	case <-time.After(2 * time.Second):
		t.Fatal("session still running")
	}
}

func TestAbandonIgnoresMissingGame(t *testing.T) {
	gcas := make(chan GameContextAwaiting, 1)
	gcas <- GameContextAwaiting{ResponseCode: GAME_NOT_FOUND}
	assert.NotPanics(t, func() { abandon(gcas) })
}

func TestTurnReset(t *testing.T) {
	levels := testLevels(t)
	gs := NewGameSession(levels, 0, model.NewTracer(0))
	gs.Turn(model.ClientMessage{Action: model.PLACE, X: 0, Y: 0, Token: model.NewMirror(0)})
	require.False(t, gs.Grid.Equal(levels[0]))

	gs.Turn(model.ClientMessage{Action: model.RESET})
	assert.True(t, gs.Grid.Equal(levels[0]))
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	con, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return con
}

func receive(t *testing.T, con *websocket.Conn) model.ServerMessage {
	t.Helper()
	require.NoError(t, con.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, r, err := con.NextReader()
	require.NoError(t, err)
	var mes model.ServerMessage
	require.NoError(t, gob.NewDecoder(r).Decode(&mes))
	return mes
}

func submit(t *testing.T, con *websocket.Conn, cm model.ClientMessage) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(cm))
	require.NoError(t, con.WriteMessage(websocket.BinaryMessage, buf.Bytes()))
}

func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	gs := NewGameServer(testLevels(t), model.NewTracer(0))
	go gs.Loop()
	router := way.NewRouter()
	router.HandleFunc("GET", "/play", gs.HandleHttpCall())
	router.HandleFunc("GET", "/play/:level", gs.HandleHttpCall())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return gs, srv
}

func TestWebsocketSession(t *testing.T) {
	_, srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/play"

	con := dial(t, url)
	defer con.Close()

	setup := receive(t, con)
	require.Len(t, setup.Setup, 1)
	assert.Equal(t, 5, setup.Setup[0].Dimension)
	assert.Equal(t, 2, setup.Setup[0].Levels)
	require.Len(t, setup.Grids, 1)

	submit(t, con, model.ClientMessage{Action: model.PLACE, X: 0, Y: 0, Token: model.NewMirror(0)})
	placed := receive(t, con)
	require.Len(t, placed.Grids, 1)
	tok, ok := placed.Grids[0].Token(0, 0)
	require.True(t, ok)
	assert.Equal(t, model.MIRROR, tok.Kind)

	submit(t, con, model.ClientMessage{Action: model.FIRE})
	fired := receive(t, con)
	require.Len(t, fired.Beams, 1)
	assert.True(t, fired.Solved)
	assert.Equal(t, []model.Position{
		{X: 0, Y: 4}, {X: 0, Y: 3}, {X: 0, Y: 2}, {X: 0, Y: 1}, {X: 0, Y: 0},
		{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0},
	}, fired.Beams[0].Positions)
}

func TestWebsocketLevelParam(t *testing.T) {
	_, srv := newTestServer(t)
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	con := dial(t, base+"/play/2")
	defer con.Close()
	setup := receive(t, con)
	require.Len(t, setup.Setup, 1)
	assert.Equal(t, 1, setup.Setup[0].Level)
	assert.Equal(t, 2, setup.Setup[0].Dimension)

	_, resp, err := websocket.DefaultDialer.Dial(base+"/play/9", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"/play/abc", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
