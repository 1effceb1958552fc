package server

import (
	"encoding/gob"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lasermaze/model"
)

var (
	ErrNotSolved = errors.New("level not solved yet")
	ErrLastLevel = errors.New("no more levels")
)

func NewGameServer(levels []model.Grid, tracer model.Tracer) *GameServer {
	return &GameServer{
		Levels:       levels,
		Tracer:       tracer,
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest),
		Finished:     make(chan *GameSession),
		Upgrader:     &websocket.Upgrader{},
	}
}

// HandleHttpCall serves both /play and /play/:level. Levels are counted from 1
// in the URL.
func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - connection received from %s", r.RemoteAddr)

		level := 0
		if param := way.Param(r.Context(), "level"); param != "" {
			l, err := strconv.Atoi(param)
			if err != nil {
				log.Warnf("HandleHttpCall bad level %q", param)
				w.WriteHeader(GAME_INVALIDE.ToHttp())
				return
			}
			level = l - 1
		}

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{Level: level, GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			log.Printf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
			if gca.ResponseCode != GAME_READY {
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			go abandon(gcas)
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied to the client.
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			gca.GameSession.Errors <- 0
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver,
		}

		log.Info("HandleHttpCall and wait for gameover")
		<-gameOver
	}
}

// abandon waits for a reply the handler stopped waiting for and kills the
// session it carries, so the server loop drops it.
func abandon(gcas <-chan GameContextAwaiting) {
	gca := <-gcas
	if gca.ResponseCode == GAME_READY {
		log.Warn("abandon GameSession created after timeout")
		gca.GameSession.Errors <- 0
	}
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting with %d levels", len(s.Levels))
	for {
		select {
		case gameReq := <-s.GameRequests:
			if gameReq.Level < 0 || gameReq.Level >= len(s.Levels) {
				log.Warnf("GameServer.Loop level %d not found", gameReq.Level+1)
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_NOT_FOUND}
				continue
			}
			gs := NewGameSession(s.Levels, gameReq.Level, s.Tracer)
			gs.Finished = s.Finished
			go gs.Loop()
			s.GameSessions = append(s.GameSessions, gs)
			log.Infof("create GameSession, %d running", len(s.GameSessions))

			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		case gs := <-s.Finished:
			for i, running := range s.GameSessions {
				if running == gs {
					s.GameSessions = append(s.GameSessions[:i], s.GameSessions[i+1:]...)
					break
				}
			}
			log.Infof("GameSession %s finished, %d running", gs.State.Name(), len(s.GameSessions))
		}
	}
}

func NewGameSession(levels []model.Grid, level int, tracer model.Tracer) *GameSession {
	return &GameSession{
		State:                 GS_NEW,
		Levels:                levels,
		Level:                 level,
		Grid:                  levels[level],
		Tracer:                tracer,
		Errors:                make(chan int32, 2),
		Events:                make(chan PlayerEvent, 16),
		PlayerConnectRequests: make(chan PlayerConnectRequest, 1),
	}
}

func (gs *GameSession) Loop() {
	log.Info("GameSession.Loop start")
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.State = GS_PLAY
			gs.Player.State = PS_PLAY
			gs.send(gs.MakeGameSetupMessage())
		case errPlayer := <-gs.Errors:
			log.Warnf("killing GS, player %d failed", errPlayer)
			gs.State = GS_ERR
			if gs.Player != nil {
				gs.Player.State = PS_ERR
				close(gs.Player.GameOver)
			}
			if gs.Finished != nil {
				gs.Finished <- gs
			}
			return
		case pe := <-gs.Events:
			log.Debugf("GameSession.Loop %s from %d", pe.Message.Action.Name(), pe.Player)
			gs.send(gs.Turn(pe.Message))
		}
	}
}

func (gs *GameSession) send(mes model.ServerMessage) {
	if gs.Player == nil {
		return
	}
	select {
	case gs.Player.MessagesToSend <- mes:
	default:
		log.Warnf("Dropping message to player %d, MessagesToSend FULL", gs.Player.Id)
	}
}

// Turn applies one client action to the session grid and builds the reply.
// A failed action leaves the grid exactly as it was.
func (gs *GameSession) Turn(cm model.ClientMessage) model.ServerMessage {
	var (
		grid model.Grid
		err  error
		mes  model.ServerMessage
	)
	switch cm.Action {
	case model.PLACE:
		grid, err = model.Place(gs.Grid, cm.X, cm.Y, cm.Token)
	case model.REMOVE:
		grid, err = model.Remove(gs.Grid, cm.X, cm.Y)
	case model.ROTATE:
		grid, err = model.Rotate(gs.Grid, cm.X, cm.Y, cm.Delta)
	case model.FIRE:
		path, err := gs.Tracer.Fire(gs.Grid)
		if err != nil {
			return failure(cm.Action, err)
		}
		if path.Aborted {
			log.Infof("GameSession beam aborted after %d positions", len(path.Positions))
		}
		gs.Solved = path.Solved()
		mes.Grids = []model.Grid{model.Illuminate(gs.Grid, path)}
		mes.Beams = []model.BeamPath{path}
		mes.Solved = gs.Solved
		return mes
	case model.RESET:
		grid = gs.Levels[gs.Level]
	case model.NEXT_LEVEL:
		switch {
		case !gs.Solved:
			err = ErrNotSolved
		case gs.Level+1 >= len(gs.Levels):
			err = ErrLastLevel
		default:
			gs.Level++
			gs.Grid = gs.Levels[gs.Level]
			gs.Solved = false
			return gs.MakeGameSetupMessage()
		}
	default:
		err = errors.New("unknown action")
	}
	if err != nil {
		return failure(cm.Action, err)
	}
	gs.Grid = grid
	gs.Solved = false
	mes.Grids = []model.Grid{grid}
	return mes
}

func failure(a model.Action, err error) model.ServerMessage {
	log.Infof("GameSession %s failed: %v", a.Name(), err)
	return model.ServerMessage{
		Failures: []model.Failure{{Action: a, Reason: err.Error()}},
	}
}

func (gs *GameSession) MakeGameSetupMessage() model.ServerMessage {
	return model.ServerMessage{
		Setup: []model.Setup{{
			Dimension: gs.Grid.Dimension(),
			Level:     gs.Level,
			Levels:    len(gs.Levels),
		}},
		Grids: []model.Grid{gs.Grid},
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) {
	log.Printf("GameSession.addPlayer")
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             1,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	gs.Player = ps
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	default:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED")
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			break loop
		}
		cm := model.ClientMessage{}
		if err := gob.NewDecoder(r).Decode(&cm); err != nil {
			log.Warnf("LoopChannelRead cant decode %v", err)
			ps.fail()
			break loop
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Player: ps.Id, Message: cm}:
		case <-ps.GameOver:
			break loop
		}
	}
	log.Printf("LoopChannelRead ENDED")
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite STARTED")
loop:
	for {
		select {
		case mes := <-ps.MessagesToSend:
			if err := ps.write(mes); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite %v", err)
				ps.fail()
				break loop
			}
			ps.DebugOutMessages++
		case <-ps.GameOver:
			break loop
		}
	}
	log.Printf("LoopChannelWrite ENDED")
}

func (ps *PlayerSession) write(mes model.ServerMessage) error {
	w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(mes); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
