package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/lasermaze/model"
)

type GameServer struct {
	Levels       []model.Grid
	Tracer       model.Tracer
	GameSessions []*GameSession
	GameRequests chan GameRequest
	Finished     chan *GameSession
	Upgrader     *websocket.Upgrader
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_ERR
	GS_OVER
)

// GameSession owns the authoritative grid of one player. Only Loop touches
// it, which serializes every mutation.
type GameSession struct {
	State                 GameSessionState
	Levels                []model.Grid
	Level                 int
	Grid                  model.Grid
	Solved                bool
	Tracer                model.Tracer
	Player                *PlayerSession
	Errors                chan int32
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest
	Finished              chan<- *GameSession
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int32
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
