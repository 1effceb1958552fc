package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	log "github.com/sirupsen/logrus"
)

const sampleRate = beep.SampleRate(44100)

// Manager plays the short effects of the board. It is safe to call from the
// game loop; when disabled or not initialized every Play is a no-op.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	enabled     bool
	initialized bool
}

func NewManager(enabled bool) *Manager {
	return &Manager{
		mixer:   &beep.Mixer{},
		enabled: enabled,
	}
}

func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized || !m.enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
	if enabled {
		if err := m.Initialize(); err != nil {
			log.Warnf("sound init: %v", err)
		}
	}
}

func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *Manager) play(s beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized || !m.enabled {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// PlayFire is a short rising zap.
func (m *Manager) PlayFire() {
	m.play(beep.Take(sampleRate.N(time.Millisecond*180), NewSweep(sampleRate, 400, 1200)))
}

// PlayHit is a two-tone chime.
func (m *Manager) PlayHit() {
	m.play(beep.Seq(
		beep.Take(sampleRate.N(time.Millisecond*120), NewTone(sampleRate, 880)),
		beep.Take(sampleRate.N(time.Millisecond*200), NewTone(sampleRate, 1320)),
	))
}

// PlayError is a low buzz for rejected moves.
func (m *Manager) PlayError() {
	m.play(beep.Take(sampleRate.N(time.Millisecond*150), NewTone(sampleRate, 120)))
}

// Tone is a sine with a short fade in.
type Tone struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func NewTone(sr beep.SampleRate, freq float64) *Tone {
	return &Tone{sr: sr, freq: freq}
}

func (g *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample *= math.Min(t/0.01, 1.0)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Tone) Err() error {
	return nil
}

// Sweep glides linearly from one frequency to another over one second.
type Sweep struct {
	sr       beep.SampleRate
	from, to float64
	pos      int
	phase    float64
}

func NewSweep(sr beep.SampleRate, from, to float64) *Sweep {
	return &Sweep{sr: sr, from: from, to: to}
}

func (g *Sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := math.Min(float64(g.pos)/float64(g.sr), 1)
		freq := g.from + (g.to-g.from)*t
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		sample := 0.25 * math.Sin(g.phase) * (1 - t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Sweep) Err() error {
	return nil
}
