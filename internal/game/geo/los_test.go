package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMap(t *testing.T, rows ...string) Map {
	t.Helper()
	m, err := ParseMap(rows)
	require.NoError(t, err)
	return m
}

func TestLOSOpenRoom(t *testing.T) {
	m := mustMap(t,
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	)
	res := SimpleResistances(m)
	los := NewBresenhamLOS()

	assert.True(t, los.IsReachable(res, 1, 1, 5, 3))
	assert.True(t, los.IsReachable(res, 5, 3, 1, 1))
	assert.True(t, los.IsReachable(res, 3, 2, 3, 2), "a cell always sees itself")
}

func TestLOSBlockedByWall(t *testing.T) {
	m := mustMap(t,
		"#######",
		"#..#..#",
		"#..#..#",
		"#######",
	)
	res := SimpleResistances(m)

	assert.False(t, NewBresenhamLOS().IsReachable(res, 1, 1, 5, 1))
	assert.False(t, CanSee(m, Pt(2, 2), Pt(4, 2)))
	assert.True(t, CanSee(m, Pt(1, 1), Pt(2, 2)))
}

func TestLOSIgnoresStartResistance(t *testing.T) {
	m := mustMap(t,
		"#####",
		"#+..#",
		"#####",
	)

	assert.True(t, NewBresenhamLOS().IsReachable(Resistances(m), 1, 1, 3, 1))
}

func TestLOSPartialCover(t *testing.T) {
	m := mustMap(t,
		"########",
		"#.\"\"\"\"\"#",
		"########",
	)
	res := Resistances(m)
	los := NewBresenhamLOS()

	assert.True(t, los.IsReachable(res, 1, 1, 3, 1), "one tuft of grass")
	assert.False(t, los.IsReachable(res, 1, 1, 6, 1), "enough grass adds up with distance falloff")
}
