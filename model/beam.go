package model

import "errors"

// DefaultMaxSteps bounds a trace so that facing mirrors cannot loop forever.
const DefaultMaxSteps = 100

var ErrNoLaser = errors.New("no laser on board")

type ReflectionPoint struct {
	Position          Position
	IncomingDirection Orientation
	OutgoingDirection Orientation
}

type TargetHit struct {
	Position     Position
	HitDirection Orientation
}

// BeamPath is the result of one trace. Positions always starts with the start
// position, even when that lies off the board.
type BeamPath struct {
	Positions   []Position
	Reflections []ReflectionPoint
	TargetHits  []TargetHit
	// Aborted is set when the trace ran into the step cap instead of leaving
	// the board or stopping on a token.
	Aborted bool
}

func (p BeamPath) Hit(pos Position) bool {
	for _, h := range p.TargetHits {
		if h.Position == pos {
			return true
		}
	}
	return false
}

func (p BeamPath) Visits(pos Position) bool {
	for _, v := range p.Positions {
		if v == pos {
			return true
		}
	}
	return false
}

// Solved reports whether a target was struck from its required side.
func (p BeamPath) Solved() bool {
	return len(p.TargetHits) > 0
}

// StateAt derives the decorative state of whatever sits at pos for this trace.
func (p BeamPath) StateAt(pos Position) TokenState {
	switch {
	case p.Hit(pos):
		return HIT
	case p.Visits(pos):
		return ACTIVE
	default:
		return IDLE
	}
}

type Tracer struct {
	MaxSteps int
}

func NewTracer(maxSteps int) Tracer {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return Tracer{MaxSteps: maxSteps}
}

// CalculateBeamPath traces with the default step cap.
func CalculateBeamPath(g Grid, start Position, dir Orientation) BeamPath {
	return NewTracer(DefaultMaxSteps).CalculateBeamPath(g, start, dir)
}

// CalculateBeamPath walks a beam from start in dir across g. The beam
// reflects off every mirror it meets, stops on targets and on any other token,
// and ends silently when it leaves the board or runs out of steps.
func (t Tracer) CalculateBeamPath(g Grid, start Position, dir Orientation) BeamPath {
	path := BeamPath{
		Positions:   []Position{start},
		Reflections: make([]ReflectionPoint, 0),
		TargetHits:  make([]TargetHit, 0),
	}
	if !dir.Valid() || !g.InBounds(start) {
		return path
	}
	maxSteps := t.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	pos := start
	for step := 0; ; step++ {
		if step == maxSteps {
			path.Aborted = true
			return path
		}
		next := pos.Step(dir)
		if !g.InBounds(next) {
			return path
		}
		path.Positions = append(path.Positions, next)

		token, ok := g.Token(next.X, next.Y)
		if !ok {
			pos = next
			continue
		}
		switch token.Kind {
		case MIRROR:
			out := Reflect(token.Angle, dir)
			path.Reflections = append(path.Reflections, ReflectionPoint{
				Position:          next,
				IncomingDirection: dir,
				OutgoingDirection: out,
			})
			dir = out
			pos = next
		case TARGET:
			if dir == RequiredHitDirection(token.Angle) {
				path.TargetHits = append(path.TargetHits, TargetHit{Position: next, HitDirection: dir})
			}
			return path
		default:
			return path
		}
	}
}

// FindLaser returns the first laser on g in row-major order.
func FindLaser(g Grid) (Placed, bool) {
	for _, p := range g.Tokens() {
		if p.Token.Kind == LASER {
			return p, true
		}
	}
	return Placed{}, false
}

// Fire traces the beam emitted by the first laser on g, starting on the
// laser's own cell and heading the way it faces.
func (t Tracer) Fire(g Grid) (BeamPath, error) {
	laser, ok := FindLaser(g)
	if !ok {
		return BeamPath{}, ErrNoLaser
	}
	return t.CalculateBeamPath(g, laser.Position, laser.Token.Facing()), nil
}

// Illuminate returns a copy of g whose token states reflect path. The input
// grid is not modified.
func Illuminate(g Grid, path BeamPath) Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	for i := range cells {
		if cells[i].Empty() {
			continue
		}
		pos := Position{X: i % g.dim, Y: i / g.dim}
		cells[i].Token.State = path.StateAt(pos)
	}
	return Grid{dim: g.dim, cells: cells}
}
