package client

import (
	"fmt"

	"github.com/zucenko/lasermaze/model"
)

// View is the client's copy of the session as last reported by the server.
// It never mutates the grid itself; every change arrives in a ServerMessage.
type View struct {
	Setup  model.Setup
	Grid   model.Grid
	Beam   *model.BeamPath
	Solved bool
	Status string
	Ready  bool
}

// Outcome tells the game loop which effects a message should trigger.
type Outcome struct {
	Fired  bool
	Hit    bool
	Failed bool
	Level  bool
}

func (v *View) Apply(mes model.ServerMessage) Outcome {
	var o Outcome
	for _, s := range mes.Setup {
		v.Setup = s
		v.Ready = true
		v.Beam = nil
		v.Solved = false
		v.Status = fmt.Sprintf("level %d / %d", s.Level+1, s.Levels)
		o.Level = true
	}
	for _, g := range mes.Grids {
		v.Grid = g
		if len(mes.Beams) == 0 {
			// the board changed, an old beam no longer describes it
			v.Beam = nil
			v.Solved = false
		}
	}
	for i := range mes.Beams {
		beam := mes.Beams[i]
		v.Beam = &beam
		v.Solved = mes.Solved
		o.Fired = true
		o.Hit = beam.Solved()
		switch {
		case v.Solved && v.Setup.Level+1 < v.Setup.Levels:
			v.Status = "target hit! press N for the next level"
		case v.Solved:
			v.Status = "target hit! all levels done"
		case beam.Aborted:
			v.Status = "the beam is going in circles"
		default:
			v.Status = "missed"
		}
	}
	for _, f := range mes.Failures {
		v.Status = fmt.Sprintf("%s: %s", f.Action.Name(), f.Reason)
		o.Failed = true
	}
	return o
}

// Segments returns the visible beam as consecutive position pairs, limited to
// the first n steps so it can be revealed gradually.
func (v *View) Segments(n int) [][2]model.Position {
	if v.Beam == nil {
		return nil
	}
	ps := v.Beam.Positions
	segs := make([][2]model.Position, 0, len(ps))
	for i := 1; i < len(ps) && i <= n; i++ {
		segs = append(segs, [2]model.Position{ps[i-1], ps[i]})
	}
	return segs
}

func (v *View) BeamLength() int {
	if v.Beam == nil {
		return 0
	}
	return len(v.Beam.Positions) - 1
}
