package model

import "fmt"

type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the neighbouring position one cell towards d.
func (p Position) Step(d Orientation) Position {
	dx, dy := d.Vector()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

type TokenKind int

const (
	NONE TokenKind = iota
	LASER
	MIRROR
	TARGET
)

func (k TokenKind) Name() string {
	switch k {
	case NONE:
		return "none"
	case LASER:
		return "laser"
	case MIRROR:
		return "mirror"
	case TARGET:
		return "target"
	default:
		return fmt.Sprintf("n/a:%d", k)
	}
}

func (k TokenKind) Valid() bool {
	return k >= NONE && k <= TARGET
}

// TokenState is decorative only. Tracing never reads it.
type TokenState int

const (
	IDLE TokenState = iota
	ACTIVE
	HIT
)

func (s TokenState) Name() string {
	switch s {
	case IDLE:
		return "idle"
	case ACTIVE:
		return "active"
	case HIT:
		return "hit"
	default:
		return fmt.Sprintf("n/a:%d", s)
	}
}

// Token is a piece placed on the board. Angle is in degrees, kept in [0,360)
// by the grid operations.
type Token struct {
	Kind  TokenKind
	Angle int
	State TokenState
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d", t.Kind.Name(), t.Angle)
}

// Facing is the cardinal direction encoded by the token angle.
func (t Token) Facing() Orientation {
	return FacingOf(t.Angle)
}

func NewLaser(angle int) Token {
	return Token{Kind: LASER, Angle: Normalize(angle)}
}

func NewMirror(angle int) Token {
	return Token{Kind: MIRROR, Angle: Normalize(angle)}
}

func NewTarget(angle int) Token {
	return Token{Kind: TARGET, Angle: Normalize(angle)}
}

// Cell holds at most one token. A token of kind NONE means the cell is empty.
type Cell struct {
	Token Token
}

func (c Cell) Empty() bool {
	return c.Token.Kind == NONE
}
