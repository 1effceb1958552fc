package client

import "github.com/zucenko/lasermaze/model"

// Layout maps board cells to screen pixels.
type Layout struct {
	OriginX, OriginY int
	CellSize         int
	Dimension        int
}

func (l Layout) Width() int {
	return l.CellSize * l.Dimension
}

// CellAt returns the cell under the pixel (px,py).
func (l Layout) CellAt(px, py int) (model.Position, bool) {
	if l.CellSize <= 0 || px < l.OriginX || py < l.OriginY {
		return model.Position{}, false
	}
	p := model.Position{
		X: (px - l.OriginX) / l.CellSize,
		Y: (py - l.OriginY) / l.CellSize,
	}
	if p.X >= l.Dimension || p.Y >= l.Dimension {
		return model.Position{}, false
	}
	return p, true
}

// Corner is the top-left pixel of p.
func (l Layout) Corner(p model.Position) (float64, float64) {
	return float64(l.OriginX + p.X*l.CellSize), float64(l.OriginY + p.Y*l.CellSize)
}

// Center is the middle pixel of p; positions off the board are extrapolated.
func (l Layout) Center(p model.Position) (float64, float64) {
	x, y := l.Corner(p)
	half := float64(l.CellSize) / 2
	return x + half, y + half
}
