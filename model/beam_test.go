package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(t *testing.T, placed ...Placed) Grid {
	t.Helper()
	g := NewGrid(DefaultDimension)
	for _, p := range placed {
		var err error
		g, err = Place(g, p.Position.X, p.Position.Y, p.Token)
		require.NoError(t, err)
	}
	return g
}

func at(x, y int, tok Token) Placed {
	return Placed{Position: Position{x, y}, Token: tok}
}

func positions(xy ...int) []Position {
	ps := make([]Position, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		ps = append(ps, Position{xy[i], xy[i+1]})
	}
	return ps
}

func TestStraightLines(t *testing.T) {
	g := NewGrid(DefaultDimension)
	cases := []struct {
		start Position
		dir   Orientation
		want  []Position
	}{
		{Position{0, 2}, EAST, positions(0, 2, 1, 2, 2, 2, 3, 2, 4, 2)},
		{Position{4, 2}, WEST, positions(4, 2, 3, 2, 2, 2, 1, 2, 0, 2)},
		{Position{2, 0}, SOUTH, positions(2, 0, 2, 1, 2, 2, 2, 3, 2, 4)},
		{Position{2, 4}, NORTH, positions(2, 4, 2, 3, 2, 2, 2, 1, 2, 0)},
	}
	for _, c := range cases {
		path := CalculateBeamPath(g, c.start, c.dir)
		assert.Equal(t, c.want, path.Positions, "%s from %s", c.dir, c.start)
		assert.Empty(t, path.Reflections)
		assert.Empty(t, path.TargetHits)
		assert.False(t, path.Aborted)
	}
}

func TestStartOnEdgeMovingOutward(t *testing.T) {
	g := NewGrid(DefaultDimension)
	cases := map[Position]Orientation{
		{4, 2}: EAST,
		{2, 0}: NORTH,
		{2, 4}: SOUTH,
		{0, 2}: WEST,
	}
	for start, dir := range cases {
		path := CalculateBeamPath(g, start, dir)
		assert.Equal(t, []Position{start}, path.Positions)
	}
}

func TestStartOutsideBoard(t *testing.T) {
	g := NewGrid(DefaultDimension)
	path := CalculateBeamPath(g, Position{5, 2}, EAST)
	assert.Equal(t, positions(5, 2), path.Positions)

	path = CalculateBeamPath(g, Position{-1, 2}, EAST)
	assert.Equal(t, positions(-1, 2), path.Positions)
}

func TestForwardSlashMirror(t *testing.T) {
	g := board(t, at(2, 2, NewMirror(0)))
	path := CalculateBeamPath(g, Position{0, 2}, EAST)

	require.Len(t, path.Reflections, 1)
	assert.Equal(t, ReflectionPoint{
		Position:          Position{2, 2},
		IncomingDirection: EAST,
		OutgoingDirection: NORTH,
	}, path.Reflections[0])
	assert.Equal(t, positions(0, 2, 1, 2, 2, 2, 2, 1, 2, 0), path.Positions)
	assert.Empty(t, path.TargetHits)
}

func TestBackSlashMirror(t *testing.T) {
	g := board(t, at(2, 2, NewMirror(90)))
	path := CalculateBeamPath(g, Position{0, 2}, EAST)

	require.Len(t, path.Reflections, 1)
	assert.Equal(t, SOUTH, path.Reflections[0].OutgoingDirection)
	assert.Equal(t, positions(0, 2, 1, 2, 2, 2, 2, 3, 2, 4), path.Positions)
}

func TestBackSlashMirrorReturnsSouthAndWestBeams(t *testing.T) {
	g := board(t, at(2, 2, NewMirror(90)))

	path := CalculateBeamPath(g, Position{2, 0}, SOUTH)
	require.Len(t, path.Reflections, 1)
	assert.Equal(t, ReflectionPoint{Position: Position{2, 2}, IncomingDirection: SOUTH, OutgoingDirection: NORTH}, path.Reflections[0])
	assert.Equal(t, positions(2, 0, 2, 1, 2, 2, 2, 1, 2, 0), path.Positions)

	path = CalculateBeamPath(g, Position{4, 2}, WEST)
	require.Len(t, path.Reflections, 1)
	assert.Equal(t, ReflectionPoint{Position: Position{2, 2}, IncomingDirection: WEST, OutgoingDirection: EAST}, path.Reflections[0])
	assert.Equal(t, positions(4, 2, 3, 2, 2, 2, 3, 2, 4, 2), path.Positions)
	assert.False(t, path.Aborted)
}

func TestMultipleReflections(t *testing.T) {
	// (0,2) east -> "/" at (2,2) north -> "\" at (2,0) west -> off board
	g := board(t,
		at(2, 2, NewMirror(0)),
		at(2, 0, NewMirror(270)),
	)
	path := CalculateBeamPath(g, Position{0, 2}, EAST)

	require.Len(t, path.Reflections, 2)
	assert.Equal(t, NORTH, path.Reflections[0].OutgoingDirection)
	assert.Equal(t, WEST, path.Reflections[1].OutgoingDirection)
	assert.Equal(t, positions(0, 2, 1, 2, 2, 2, 2, 1, 2, 0, 1, 0, 0, 0), path.Positions)
}

func TestTargetHitFromRequiredSide(t *testing.T) {
	g := board(t, at(2, 2, NewTarget(90)))

	path := CalculateBeamPath(g, Position{4, 2}, WEST)
	require.Len(t, path.TargetHits, 1)
	assert.Equal(t, TargetHit{Position: Position{2, 2}, HitDirection: WEST}, path.TargetHits[0])
	assert.Equal(t, positions(4, 2, 3, 2, 2, 2), path.Positions)
	assert.True(t, path.Solved())
}

func TestTargetWrongSideStopsBeam(t *testing.T) {
	g := board(t, at(2, 2, NewTarget(90)))

	path := CalculateBeamPath(g, Position{0, 2}, EAST)
	assert.Empty(t, path.TargetHits)
	assert.Equal(t, positions(0, 2, 1, 2, 2, 2), path.Positions)
	assert.False(t, path.Solved())
}

func TestOtherTokensBlock(t *testing.T) {
	g := board(t, at(3, 2, NewLaser(0)))
	path := CalculateBeamPath(g, Position{0, 2}, EAST)
	assert.Equal(t, positions(0, 2, 1, 2, 2, 2, 3, 2), path.Positions)
	assert.Empty(t, path.Reflections)
	assert.Empty(t, path.TargetHits)
}

func TestMirrorCycleTerminates(t *testing.T) {
	// a closed loop of four mirrors around (1,1)..(3,3)
	g := board(t,
		at(1, 1, NewMirror(0)),
		at(3, 1, NewMirror(90)),
		at(3, 3, NewMirror(0)),
		at(1, 3, NewMirror(90)),
	)
	tracer := NewTracer(40)
	path := tracer.CalculateBeamPath(g, Position{2, 1}, EAST)

	assert.True(t, path.Aborted)
	assert.Len(t, path.Positions, 41)
	assert.NotEmpty(t, path.Reflections)

	path = CalculateBeamPath(g, Position{2, 1}, EAST)
	assert.True(t, path.Aborted)
	assert.Len(t, path.Positions, DefaultMaxSteps+1)
}

func TestTraceDoesNotMutateGrid(t *testing.T) {
	g := board(t, at(2, 2, NewMirror(0)), at(2, 0, NewTarget(180)))
	before := board(t, at(2, 2, NewMirror(0)), at(2, 0, NewTarget(180)))
	CalculateBeamPath(g, Position{0, 2}, EAST)
	assert.True(t, g.Equal(before))
}

func TestFire(t *testing.T) {
	g := board(t,
		at(0, 2, NewLaser(90)),
		at(2, 2, NewMirror(0)),
		at(2, 0, NewTarget(180)),
	)
	path, err := NewTracer(0).Fire(g)
	require.NoError(t, err)
	assert.Equal(t, positions(0, 2, 1, 2, 2, 2, 2, 1, 2, 0), path.Positions)
	require.Len(t, path.TargetHits, 1)
	assert.Equal(t, NORTH, path.TargetHits[0].HitDirection)

	_, err = NewTracer(0).Fire(NewGrid(5))
	assert.Equal(t, ErrNoLaser, err)
}

func TestIlluminate(t *testing.T) {
	g := board(t,
		at(0, 2, NewLaser(90)),
		at(2, 2, NewMirror(0)),
		at(2, 0, NewTarget(180)),
		at(4, 4, NewTarget(0)),
	)
	path, err := NewTracer(0).Fire(g)
	require.NoError(t, err)

	lit := Illuminate(g, path)
	tok, _ := lit.Token(0, 2)
	assert.Equal(t, ACTIVE, tok.State)
	tok, _ = lit.Token(2, 2)
	assert.Equal(t, ACTIVE, tok.State)
	tok, _ = lit.Token(2, 0)
	assert.Equal(t, HIT, tok.State)
	tok, _ = lit.Token(4, 4)
	assert.Equal(t, IDLE, tok.State)

	tok, _ = g.Token(2, 0)
	assert.Equal(t, IDLE, tok.State)
}
