package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/zucenko/lasermaze/client"
	"github.com/zucenko/lasermaze/model"
	"github.com/zucenko/lasermaze/sound"
)

// StrokeSource represents a input device to provide strokes.
type StrokeSource interface {
	Position() (int, int)
	IsJustReleased() bool
}

// MouseStrokeSource is a StrokeSource implementation of mouse.
type MouseStrokeSource struct{}

func (m *MouseStrokeSource) Position() (int, int) {
	return ebiten.CursorPosition()
}

func (m *MouseStrokeSource) IsJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// TouchStrokeSource is a StrokeSource implementation of touch.
type TouchStrokeSource struct {
	ID int
}

func (t *TouchStrokeSource) Position() (int, int) {
	return ebiten.TouchPosition(t.ID)
}

func (t *TouchStrokeSource) IsJustReleased() bool {
	return inpututil.IsTouchJustReleased(t.ID)
}

// Stroke follows one press from start to release. A short stroke is a tap,
// a long horizontal one turns the token it started on.
type Stroke struct {
	source StrokeSource

	initX, initY       int
	currentX, currentY int

	released bool
}

func NewStroke(source StrokeSource) *Stroke {
	cx, cy := source.Position()
	return &Stroke{
		source:   source,
		initX:    cx,
		initY:    cy,
		currentX: cx,
		currentY: cy,
	}
}

func (s *Stroke) Update() {
	if s.released {
		return
	}
	if s.source.IsJustReleased() {
		s.released = true
		return
	}
	s.currentX, s.currentY = s.source.Position()
}

func (s *Stroke) PositionDiff() (int, int) {
	return s.currentX - s.initX, s.currentY - s.initY
}

type GameState int

const (
	CONNECTING GameState = iota + 1
	IDLE
	FIRING
	DISCONNECTED
)

func (s GameState) Name() string {
	switch s {
	case CONNECTING:
		return "CONNECTING"
	case IDLE:
		return "IDLE"
	case FIRING:
		return "FIRING"
	case DISCONNECTED:
		return "DISCONNECTED"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

type Game struct {
	State    GameState
	Settings client.Settings
	View     client.View
	Conn     *client.Connection
	Sound    *sound.Manager
	Sprites  Sprites
	Panel    *Nine
	Tool     Tool
	Tweens   map[*gween.Tween]*Action
	strokes  map[*Stroke]struct{}
	revealed float32
	glow     float32
}

func NewGame(settings client.Settings, conn *client.Connection) *Game {
	snd := sound.NewManager(settings.Sound)
	if err := snd.Initialize(); err != nil {
		log.Warnf("sound disabled: %v", err)
		snd.SetEnabled(false)
	}
	sprites := loadSprites()
	return &Game{
		State:    CONNECTING,
		Settings: settings,
		Conn:     conn,
		Sound:    snd,
		Sprites:  sprites,
		Panel:    NewNine(sprites.Panel, panelCorner),
		Tool:     TOOL_MIRROR,
		Tweens:   make(map[*gween.Tween]*Action),
		strokes:  map[*Stroke]struct{}{},
		glow:     1,
	}
}

func (g *Game) layout() client.Layout {
	dim := g.View.Grid.Dimension()
	if dim == 0 {
		dim = model.DefaultDimension
	}
	cell := boardSize / dim
	return client.Layout{
		OriginX:   margin + (boardSize-cell*dim)/2,
		OriginY:   margin + (boardSize-cell*dim)/2,
		CellSize:  cell,
		Dimension: dim,
	}
}

func (g *Game) send(cm model.ClientMessage) {
	if g.State == DISCONNECTED {
		return
	}
	if err := g.Conn.Send(cm); err != nil {
		log.Warnf("send %s: %v", cm.Action.Name(), err)
		g.State = DISCONNECTED
		g.View.Status = "connection lost"
	}
}

func (g *Game) receive() {
	for {
		select {
		case mes, ok := <-g.Conn.Incoming:
			if !ok {
				if g.State != DISCONNECTED {
					g.State = DISCONNECTED
					g.View.Status = "connection lost"
				}
				return
			}
			o := g.View.Apply(mes)
			if g.State == CONNECTING && g.View.Ready {
				g.State = IDLE
			}
			if o.Failed {
				g.Sound.PlayError()
			}
			if o.Fired {
				g.State = FIRING
				g.Sound.PlayFire()
				hit := o.Hit
				g.revealBeam(g.View.BeamLength(), func() {
					g.State = IDLE
					if hit {
						g.Sound.PlayHit()
					}
				})
			}
		default:
			return
		}
	}
}

func (g *Game) updateStroke(stroke *Stroke) {
	stroke.Update()
	if !stroke.released {
		return
	}
	p, ok := g.layout().CellAt(stroke.initX, stroke.initY)
	if !ok {
		return
	}
	dx, dy := stroke.PositionDiff()
	cellSize := g.layout().CellSize
	switch {
	case math.Abs(float64(dx)) > float64(cellSize)/2 && math.Abs(float64(dx)) > math.Abs(float64(dy)):
		delta := 90
		if dx < 0 {
			delta = -90
		}
		g.send(model.ClientMessage{Action: model.ROTATE, X: p.X, Y: p.Y, Delta: delta})
	case math.Abs(float64(dx)) < float64(cellSize)/4 && math.Abs(float64(dy)) < float64(cellSize)/4:
		g.send(g.Tool.Tap(g.View.Grid, p))
	}
}

func (g *Game) handleKeys() {
	keys := map[ebiten.Key]Tool{
		ebiten.Key1: TOOL_MIRROR,
		ebiten.Key2: TOOL_TARGET,
		ebiten.Key3: TOOL_LASER,
		ebiten.Key4: TOOL_ERASE,
	}
	for k, tool := range keys {
		if inpututil.IsKeyJustPressed(k) {
			g.Tool = tool
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.send(model.ClientMessage{Action: model.FIRE})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.send(model.ClientMessage{Action: model.RESET})
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.send(model.ClientMessage{Action: model.NEXT_LEVEL})
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.Settings.Theme = g.Settings.Theme.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.Settings.Sound = !g.Settings.Sound
		g.Sound.SetEnabled(g.Settings.Sound)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if p, ok := g.layout().CellAt(ebiten.CursorPosition()); ok {
			g.send(model.ClientMessage{Action: model.REMOVE, X: p.X, Y: p.Y})
		}
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.receive()
	g.updateTweens(1.0 / 60)

	if g.State == IDLE || g.State == FIRING {
		g.handleKeys()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.strokes[NewStroke(&MouseStrokeSource{})] = struct{}{}
		}
		for _, id := range inpututil.JustPressedTouchIDs() {
			g.strokes[NewStroke(&TouchStrokeSource{id})] = struct{}{}
		}
	}
	for s := range g.strokes {
		g.updateStroke(s)
		if s.released {
			delete(g.strokes, s)
		}
	}

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	g.draw(screen)
	return nil
}

func (g *Game) draw(screen *ebiten.Image) {
	pal := g.Settings.Theme.Palette()
	if err := screen.Fill(pal.Background); err != nil {
		log.Printf("%v", err)
	}
	l := g.layout()

	g.Panel.SetColor(pal.CellAlt)
	g.Panel.SetBounds(l.OriginX-8, l.OriginY-8, l.Width()+16, l.Width()+16)
	g.Panel.Draw(screen)

	for y := 0; y < l.Dimension; y++ {
		for x := 0; x < l.Dimension; x++ {
			cx, cy := l.Corner(model.Position{X: x, Y: y})
			c := pal.Cell
			if (x+y)%2 == 1 {
				c = pal.CellAlt
			}
			ebitenutil.DrawRect(screen, cx+1, cy+1, float64(l.CellSize-2), float64(l.CellSize-2), c)
		}
	}

	if p, ok := l.CellAt(ebiten.CursorPosition()); ok {
		cx, cy := l.Corner(p)
		ebitenutil.DrawRect(screen, cx+1, cy+1, float64(l.CellSize-2), float64(l.CellSize-2), pal.Cursor)
	}

	g.drawBeam(screen, l, pal)

	for _, placed := range g.View.Grid.Tokens() {
		g.drawToken(screen, l, pal, placed)
	}

	g.drawHud(screen, pal)
}

func (g *Game) drawBeam(screen *ebiten.Image, l client.Layout, pal client.Palette) {
	steps := int(math.Ceil(float64(g.revealed)))
	beam := pal.Beam
	beam.A = uint8(float32(beam.A) * g.glow)
	for i, seg := range g.View.Segments(steps) {
		x1, y1 := l.Center(seg[0])
		x2, y2 := l.Center(seg[1])
		// the head of the beam grows with the tween
		if frac := float64(g.revealed) - float64(i); frac < 1 {
			x2 = x1 + (x2-x1)*frac
			y2 = y1 + (y2-y1)*frac
		}
		for w := -2.0; w <= 2; w++ {
			if x1 == x2 {
				ebitenutil.DrawLine(screen, x1+w, y1, x2+w, y2, beam)
			} else {
				ebitenutil.DrawLine(screen, x1, y1+w, x2, y2+w, beam)
			}
		}
	}
}

func (g *Game) drawToken(screen *ebiten.Image, l client.Layout, pal client.Palette, placed model.Placed) {
	var (
		img *ebiten.Image
		c   color.RGBA
	)
	switch placed.Token.Kind {
	case model.LASER:
		img, c = g.Sprites.Laser, pal.Laser
	case model.MIRROR:
		img, c = g.Sprites.Mirror, pal.Mirror
	case model.TARGET:
		img, c = g.Sprites.Target, pal.Target
		if placed.Token.State == model.HIT && g.State == IDLE {
			c = pal.TargetHit
		}
	default:
		return
	}

	scale := float64(l.CellSize) * 0.8 / spriteSize
	cx, cy := l.Center(placed.Position)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-spriteSize/2, -spriteSize/2)
	op.GeoM.Rotate(float64(placed.Token.Angle) * math.Pi / 180)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx, cy)
	op.ColorM.Scale(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 1)
	screen.DrawImage(img, op)
}

func (g *Game) drawHud(screen *ebiten.Image, pal client.Palette) {
	top := boardSize + 2*margin
	text.Draw(screen, g.View.Status, Font, margin, top+10, pal.Text)
	soundState := "off"
	if g.Settings.Sound {
		soundState = "on"
	}
	text.Draw(screen, fmt.Sprintf("tool: %s   theme: %s   sound: %s", g.Tool.Name(), g.Settings.Theme.Name(), soundState),
		Font, margin, top+38, pal.Text)
	ebitenutil.DebugPrintAt(screen, "1-4 tool  SPACE fire  R reset  N next  T theme  M sound", margin, top+52)
	ebitenutil.DebugPrintAt(screen, g.State.Name(), screenWidth-margin-100, 2)
}

func main() {
	settings := client.LoadSettings()
	log.Infof("connecting to %s", settings.URL())
	conn, err := client.Connect(settings.URL())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	Font = loadFont()
	game := NewGame(settings, conn)
	if err := ebiten.Run(game.update, screenWidth, screenHeight, 1, "Laser Maze"); err != nil {
		log.Fatal(err)
	}
}
