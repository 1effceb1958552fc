package model

type Action int

const (
	PLACE Action = iota + 1
	REMOVE
	ROTATE
	FIRE
	RESET
	NEXT_LEVEL
)

func (a Action) Name() string {
	switch a {
	case PLACE:
		return "PLACE"
	case REMOVE:
		return "REMOVE"
	case ROTATE:
		return "ROTATE"
	case FIRE:
		return "FIRE"
	case RESET:
		return "RESET"
	case NEXT_LEVEL:
		return "NEXT_LEVEL"
	default:
		return "N/A"
	}
}

type ClientMessage struct {
	Action Action
	X, Y   int
	Token  Token
	Delta  int
}

type ServerMessage struct {
	Setup    []Setup
	Grids    []Grid
	Beams    []BeamPath
	Failures []Failure
	Solved   bool
}

type Setup struct {
	Dimension int
	Level     int
	Levels    int
}

type Failure struct {
	Action Action
	Reason string
}
