package main

import (
	"fmt"

	"github.com/zucenko/lasermaze/model"
)

// Tool is what a tap on the board does.
type Tool int

const (
	TOOL_MIRROR Tool = iota + 1
	TOOL_TARGET
	TOOL_LASER
	TOOL_ERASE
)

func (t Tool) Name() string {
	switch t {
	case TOOL_MIRROR:
		return "mirror"
	case TOOL_TARGET:
		return "target"
	case TOOL_LASER:
		return "laser"
	case TOOL_ERASE:
		return "erase"
	default:
		return fmt.Sprintf("N/A(%d)", t)
	}
}

func (t Tool) Kind() model.TokenKind {
	switch t {
	case TOOL_MIRROR:
		return model.MIRROR
	case TOOL_TARGET:
		return model.TARGET
	case TOOL_LASER:
		return model.LASER
	default:
		return model.NONE
	}
}

// Tap turns a tap on p into a message: erase removes, a tool on an empty cell
// places, and tapping an occupied cell turns its token clockwise.
func (t Tool) Tap(g model.Grid, p model.Position) model.ClientMessage {
	if t == TOOL_ERASE {
		return model.ClientMessage{Action: model.REMOVE, X: p.X, Y: p.Y}
	}
	if _, occupied := g.Token(p.X, p.Y); occupied {
		return model.ClientMessage{Action: model.ROTATE, X: p.X, Y: p.Y, Delta: 90}
	}
	return model.ClientMessage{
		Action: model.PLACE,
		X:      p.X, Y: p.Y,
		Token: model.Token{Kind: t.Kind()},
	}
}
