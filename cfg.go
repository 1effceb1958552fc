package main

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	spriteSize = 64
	boardSize  = 400
	margin     = 20
	hudHeight  = 90
)

var screenWidth = boardSize + 2*margin
var screenHeight = boardSize + 2*margin + hudHeight

var Font font.Face

// Sprites are white shapes drawn for angle 0 and tinted/rotated when drawn.
type Sprites struct {
	Laser, Mirror, Target, Panel *ebiten.Image
}

func loadFont() font.Face {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	const dpi = 72
	return truetype.NewFace(tt, &truetype.Options{
		Size:    18,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

func loadSprites() Sprites {
	return Sprites{
		Laser:  mustImage(shape(spriteSize, laserShape)),
		Mirror: mustImage(shape(spriteSize, mirrorShape)),
		Target: mustImage(shape(spriteSize, targetShape)),
		Panel:  mustImage(shape(3*panelCorner, panelShape)),
	}
}

func mustImage(img image.Image) *ebiten.Image {
	e, err := ebiten.NewImageFromImage(img, ebiten.FilterLinear)
	if err != nil {
		log.Fatal(err)
	}
	return e
}

// shape rasterizes inside(x,y) over a size×size square with coordinates
// normalized to [-1,1], y pointing down.
func shape(size int, inside func(x, y float64) bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			x := (float64(px)+0.5)/float64(size)*2 - 1
			y := (float64(py)+0.5)/float64(size)*2 - 1
			if inside(x, y) {
				img.Set(px, py, color.White)
			}
		}
	}
	return img
}

// laserShape is a wedge pointing north with a round emitter body.
func laserShape(x, y float64) bool {
	if y > -0.8 && y < 0.2 && math.Abs(x) < (y+0.8)*0.45 {
		return true
	}
	return x*x+(y-0.35)*(y-0.35) < 0.2
}

// mirrorShape is a "/" bar.
func mirrorShape(x, y float64) bool {
	return math.Abs(x+y) < 0.18 && math.Abs(x-y) < 1.6
}

// targetShape is a ring with a bright north face.
func targetShape(x, y float64) bool {
	r := math.Sqrt(x*x + y*y)
	if r > 0.45 && r < 0.65 {
		return true
	}
	if r < 0.2 {
		return true
	}
	return y < -0.7 && y > -0.9 && math.Abs(x) < 0.5
}

const panelCorner = 8

func panelShape(x, y float64) bool {
	// corners are rounded with a radius of one third of the image
	cx := math.Max(math.Abs(x)-1.0/3, 0)
	cy := math.Max(math.Abs(y)-1.0/3, 0)
	return cx*cx+cy*cy < (2.0/3)*(2.0/3)
}
