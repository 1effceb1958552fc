package client

import (
	"image/color"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Theme int

const (
	LIGHT Theme = iota
	DARK
)

func (t Theme) Name() string {
	if t == DARK {
		return "dark"
	}
	return "light"
}

func (t Theme) Toggle() Theme {
	if t == DARK {
		return LIGHT
	}
	return DARK
}

type Settings struct {
	Theme     Theme
	Sound     bool
	ServerURL string
	Level     int
}

const DefaultServerURL = "ws://localhost:8080/play"

// LoadSettings reads SERVER_URL, LEVEL, THEME and SOUND from the environment.
func LoadSettings() Settings {
	return settingsFrom(os.Getenv)
}

func settingsFrom(getenv func(string) string) Settings {
	s := Settings{Theme: LIGHT, Sound: true, ServerURL: DefaultServerURL}
	if v := getenv("SERVER_URL"); v != "" {
		s.ServerURL = strings.TrimRight(v, "/")
	}
	if v := getenv("THEME"); strings.EqualFold(v, "dark") {
		s.Theme = DARK
	}
	if v := getenv("SOUND"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			log.Warnf("SOUND=%q is not a boolean, keeping sound on", v)
		} else {
			s.Sound = on
		}
	}
	if v := getenv("LEVEL"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			log.Warnf("LEVEL=%q ignored", v)
		} else {
			s.Level = l
		}
	}
	return s
}

// URL is the websocket address to play, including the level when one was
// requested.
func (s Settings) URL() string {
	if s.Level > 0 {
		return s.ServerURL + "/" + strconv.Itoa(s.Level)
	}
	return s.ServerURL
}

type Palette struct {
	Background color.RGBA
	Cell       color.RGBA
	CellAlt    color.RGBA
	Cursor     color.RGBA
	Laser      color.RGBA
	Mirror     color.RGBA
	Target     color.RGBA
	TargetHit  color.RGBA
	Beam       color.RGBA
	Text       color.RGBA
}

var palettes = map[Theme]Palette{
	LIGHT: {
		Background: color.RGBA{0xe6, 0xe8, 0xec, 0xff},
		Cell:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		CellAlt:    color.RGBA{0xf3, 0xf4, 0xf6, 0xff},
		Cursor:     color.RGBA{0x25, 0x63, 0xeb, 0x60},
		Laser:      color.RGBA{0xdc, 0x26, 0x26, 0xff},
		Mirror:     color.RGBA{0x47, 0x55, 0x69, 0xff},
		Target:     color.RGBA{0x0a, 0xbd, 0x38, 0xff},
		TargetHit:  color.RGBA{0xed, 0xbc, 0x1e, 0xff},
		Beam:       color.RGBA{0xfa, 0x36, 0x36, 0xc0},
		Text:       color.RGBA{0x1f, 0x29, 0x37, 0xff},
	},
	DARK: {
		Background: color.RGBA{0x11, 0x18, 0x27, 0xff},
		Cell:       color.RGBA{0x1f, 0x29, 0x37, 0xff},
		CellAlt:    color.RGBA{0x37, 0x41, 0x51, 0xff},
		Cursor:     color.RGBA{0x34, 0xfb, 0xf6, 0x60},
		Laser:      color.RGBA{0xfa, 0x36, 0x36, 0xff},
		Mirror:     color.RGBA{0xcb, 0xd5, 0xe1, 0xff},
		Target:     color.RGBA{0x0a, 0xbd, 0x38, 0xff},
		TargetHit:  color.RGBA{0xed, 0xbc, 0x1e, 0xff},
		Beam:       color.RGBA{0xfa, 0x36, 0x36, 0xd0},
		Text:       color.RGBA{0xf9, 0xfa, 0xfb, 0xff},
	},
}

func (t Theme) Palette() Palette {
	return palettes[t]
}
