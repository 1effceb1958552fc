package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type Action struct {
	nexts    []func(g *Game)
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	if a.onFinish == nil {
		a.onFinish = make([]func(), 0)
	}
	a.onFinish = append(a.onFinish, f)
}

func (a *Action) next(t *gween.Tween) *Action {
	action := &Action{}
	if a.nexts == nil {
		a.nexts = make([]func(g *Game), 0)
	}
	a.nexts = append(a.nexts,
		func(g *Game) {
			g.Tweens[t] = action
		})
	return action
}

// revealBeam animates the beam one cell at a time, then pulses the glow.
func (g *Game) revealBeam(steps int, onDone func()) {
	for t := range g.Tweens {
		delete(g.Tweens, t)
	}
	g.revealed = 0
	g.glow = 1
	reveal := gween.New(0, float32(steps), 0.06*float32(steps)+0.01, ease.Linear)
	action := &Action{onChange: func(v float32) { g.revealed = v }}
	action.addOnFinish(onDone)

	pulse := action.next(gween.New(1, 0.6, 0.25, ease.OutQuad))
	pulse.onChange = func(v float32) { g.glow = v }
	settle := pulse.next(gween.New(0.6, 1, 0.25, ease.InQuad))
	settle.onChange = func(v float32) { g.glow = v }

	g.Tweens[reveal] = action
}

func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			delete(g.Tweens, t)
			for _, next := range a.nexts {
				next(g)
			}
		}
	}
}
