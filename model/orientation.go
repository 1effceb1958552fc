package model

import "fmt"

// Orientation is a cardinal travel direction. The numeric order matches
// clockwise quarter turns starting from north, so Orientation(q) is the facing
// of an angle of q*90 degrees.
type Orientation int

const (
	NORTH Orientation = iota
	EAST
	SOUTH
	WEST
)

var Orientations = [4]Orientation{NORTH, EAST, SOUTH, WEST}

var vectors = [4][2]int{
	NORTH: {0, -1},
	EAST:  {1, 0},
	SOUTH: {0, 1},
	WEST:  {-1, 0},
}

// reflections[class][incoming] = outgoing, class 0 is "/" and class 1 is "\".
// A "\" mirror returns southbound and westbound beams the way they came.
var reflections = [2][4]Orientation{
	{NORTH: EAST, EAST: NORTH, SOUTH: WEST, WEST: SOUTH},
	{NORTH: WEST, EAST: SOUTH, SOUTH: NORTH, WEST: EAST},
}

func (o Orientation) Name() string {
	switch o {
	case NORTH:
		return "NORTH"
	case EAST:
		return "EAST"
	case SOUTH:
		return "SOUTH"
	case WEST:
		return "WEST"
	default:
		return fmt.Sprintf("n/a:%d", o)
	}
}

func (o Orientation) String() string {
	return o.Name()
}

func (o Orientation) Valid() bool {
	return o >= NORTH && o <= WEST
}

// Vector returns the unit step for o. Y grows towards the south.
func (o Orientation) Vector() (dx, dy int) {
	if !o.Valid() {
		return 0, 0
	}
	v := vectors[o]
	return v[0], v[1]
}

func (o Orientation) Opposite() Orientation {
	return (o + 2) % 4
}

// Angle is the rotation angle whose facing is o.
func (o Orientation) Angle() int {
	return int(o) * 90
}

// Normalize maps any angle, negative or multi-turn, into [0,360).
func Normalize(angle int) int {
	return ((angle % 360) + 360) % 360
}

// Quarter returns the number of whole clockwise quarter turns in angle, 0..3.
func Quarter(angle int) int {
	return Normalize(angle) / 90
}

func FacingOf(angle int) Orientation {
	return Orientation(Quarter(angle))
}

// MirrorClass is 0 for "/" mirrors (0 and 180 degrees) and 1 for "\" mirrors
// (90 and 270 degrees).
func MirrorClass(angle int) int {
	return Quarter(angle) % 2
}

// Reflect returns the outgoing direction of a beam travelling in dir after
// hitting a mirror rotated by mirrorAngle.
func Reflect(mirrorAngle int, dir Orientation) Orientation {
	if !dir.Valid() {
		return dir
	}
	return reflections[MirrorClass(mirrorAngle)][dir]
}

// RequiredHitDirection is the travel direction a beam needs to register a hit
// on a target rotated by targetAngle: the opposite of the way it faces.
func RequiredHitDirection(targetAngle int) Orientation {
	return FacingOf(targetAngle).Opposite()
}
