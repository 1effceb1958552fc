package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
)

const DefaultDimension = 5

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoTokenPresent    = errors.New("no token present")
	ErrInvalidToken      = errors.New("invalid token kind")
)

// Grid is an immutable square board. Every mutator returns a fresh Grid and
// leaves its receiver untouched, so snapshots may be shared between goroutines.
type Grid struct {
	dim   int
	cells []Cell
}

func NewGrid(dimension int) Grid {
	if dimension < 0 {
		dimension = 0
	}
	return Grid{
		dim:   dimension,
		cells: make([]Cell, dimension*dimension),
	}
}

func (g Grid) Dimension() int {
	return g.dim
}

func (g Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.dim && p.Y >= 0 && p.Y < g.dim
}

// At returns the cell at (x,y) or an empty cell when out of bounds.
func (g Grid) At(x, y int) Cell {
	if !g.InBounds(Position{x, y}) {
		return Cell{}
	}
	return g.cells[y*g.dim+x]
}

func (g Grid) Token(x, y int) (Token, bool) {
	c := g.At(x, y)
	return c.Token, !c.Empty()
}

// Placed is a token together with the position it occupies.
type Placed struct {
	Position Position
	Token    Token
}

// Tokens lists the occupied cells in row-major order.
func (g Grid) Tokens() []Placed {
	placed := make([]Placed, 0)
	for i, c := range g.cells {
		if c.Empty() {
			continue
		}
		placed = append(placed, Placed{
			Position: Position{X: i % g.dim, Y: i / g.dim},
			Token:    c.Token,
		})
	}
	return placed
}

func (g Grid) Equal(o Grid) bool {
	if g.dim != o.dim {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (g Grid) check(x, y int) error {
	if !g.InBounds(Position{x, y}) {
		return fmt.Errorf("(%d,%d) on %dx%d board: %w", x, y, g.dim, g.dim, ErrInvalidCoordinate)
	}
	return nil
}

func (g Grid) with(x, y int, c Cell) Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	cells[y*g.dim+x] = c
	return Grid{dim: g.dim, cells: cells}
}

// Place puts t at (x,y), overwriting whatever was there. A token of kind NONE
// leaves the cell empty. Unknown kinds are rejected.
func Place(g Grid, x, y int, t Token) (Grid, error) {
	if err := g.check(x, y); err != nil {
		return g, err
	}
	if !t.Kind.Valid() {
		return g, fmt.Errorf("place %s at (%d,%d): %w", t.Kind.Name(), x, y, ErrInvalidToken)
	}
	if t.Kind == NONE {
		return g.with(x, y, Cell{}), nil
	}
	t.Angle = Normalize(t.Angle)
	return g.with(x, y, Cell{Token: t}), nil
}

// Remove empties (x,y). Removing from an empty cell is not an error.
func Remove(g Grid, x, y int) (Grid, error) {
	if err := g.check(x, y); err != nil {
		return g, err
	}
	return g.with(x, y, Cell{}), nil
}

// Rotate turns the token at (x,y) by delta degrees, keeping its kind and state.
func Rotate(g Grid, x, y, delta int) (Grid, error) {
	if err := g.check(x, y); err != nil {
		return g, err
	}
	t, ok := g.Token(x, y)
	if !ok {
		return g, fmt.Errorf("rotate (%d,%d): %w", x, y, ErrNoTokenPresent)
	}
	t.Angle = Normalize(t.Angle + delta)
	return g.with(x, y, Cell{Token: t}), nil
}

type gridWire struct {
	Dimension int
	Cells     []Cell
}

func (g Grid) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gridWire{Dimension: g.dim, Cells: g.cells})
	return buf.Bytes(), err
}

func (g *Grid) GobDecode(data []byte) error {
	var w gridWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	if w.Dimension < 0 || len(w.Cells) != w.Dimension*w.Dimension {
		return fmt.Errorf("grid of dimension %d with %d cells", w.Dimension, len(w.Cells))
	}
	g.dim = w.Dimension
	g.cells = w.Cells
	return nil
}
