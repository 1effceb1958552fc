package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten"
)

// Nine draws a nine-slice panel: corners keep their size, edges and centre
// stretch to fill width×height.
type Nine struct {
	images              *ebiten.Image
	alpha               float64
	R, G, B             float64
	positions           [4][2]int
	x, y, width, height int
	targetPositions     [4][2]float64
	scales              [3][2]float64
}

func NewNine(img *ebiten.Image, corner int) *Nine {
	w, h := img.Size()
	return &Nine{
		images:    img,
		alpha:     1,
		R:         1, G: 1, B: 1,
		positions: [4][2]int{{0, 0}, {corner, corner}, {w - corner, h - corner}, {w, h}},
	}
}

func (n *Nine) SetColor(c color.RGBA) {
	n.R = float64(c.R) / 255
	n.G = float64(c.G) / 255
	n.B = float64(c.B) / 255
	n.alpha = float64(c.A) / 255
}

func (n *Nine) SetBounds(x, y, width, height int) {
	n.x, n.y = x, y
	n.width, n.height = width, height

	n.targetPositions[0] = [2]float64{float64(x), float64(y)}
	n.targetPositions[1] = [2]float64{float64(x + n.positions[1][0]), float64(y + n.positions[1][1])}
	n.targetPositions[2] = [2]float64{
		float64(x + width - (n.positions[3][0] - n.positions[2][0])),
		float64(y + height - (n.positions[3][1] - n.positions[2][1])),
	}
	n.targetPositions[3] = [2]float64{float64(x + width), float64(y + height)}

	for i := 0; i < 3; i++ {
		for axis := 0; axis < 2; axis++ {
			src := float64(n.positions[i+1][axis] - n.positions[i][axis])
			dst := n.targetPositions[i+1][axis] - n.targetPositions[i][axis]
			n.scales[i][axis] = dst / src
		}
	}
}

func (n *Nine) Draw(screen *ebiten.Image) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			src := image.Rect(
				n.positions[col][0], n.positions[row][1],
				n.positions[col+1][0], n.positions[row+1][1])
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(n.scales[col][0], n.scales[row][1])
			op.GeoM.Translate(n.targetPositions[col][0], n.targetPositions[row][1])
			op.ColorM.Scale(n.R, n.G, n.B, n.alpha)
			screen.DrawImage(n.images.SubImage(src).(*ebiten.Image), op)
		}
	}
}
