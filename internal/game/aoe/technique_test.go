package aoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridai/internal/game/dijkstra"
	"github.com/udisondev/gridai/internal/game/geo"
)

func pillarRoom(t *testing.T) geo.Map {
	t.Helper()
	return mustMap(t,
		"#########",
		"#.......#",
		"#...#...#",
		"#.......#",
		"#########",
	)
}

func TestTechniqueApply(t *testing.T) {
	b := NewBurst(geo.Pt(1, 1), 1)
	b.SetReach(geo.Reach{MinDistance: 1, MaxDistance: 6, Metric: geo.Square})
	tech := NewTechnique("fireball", b)
	tech.SetMap(room(t, 9, 9))

	area := tech.Apply(geo.Pt(1, 1), geo.Pt(5, 5))
	assert.Contains(t, area, geo.Pt(5, 5))
	assert.Contains(t, area, geo.Pt(5, 6))
	assert.NotContains(t, area, geo.Pt(1, 1))
	origin, ok := b.Origin()
	assert.True(t, ok)
	assert.Equal(t, geo.Pt(1, 1), origin)
	assert.Equal(t, "fireball", tech.ID)
}

func TestTechniqueCanTarget(t *testing.T) {
	tech := NewTechnique("bolt", NewPoint(geo.Pt(1, 1)))
	tech.AOE.SetReach(geo.Reach{MinDistance: 1, MaxDistance: 5, Metric: geo.Square})
	user := geo.Pt(2, 2)
	assert.False(t, tech.CanTarget(user, geo.Pt(3, 2)), "no map bound")

	tech.SetMap(pillarRoom(t))
	assert.True(t, tech.CanTarget(user, geo.Pt(3, 2)))
	assert.True(t, tech.CanTarget(user, geo.Pt(2, 3)))
	assert.False(t, tech.CanTarget(user, geo.Pt(6, 2)), "pillar in the way")
	assert.False(t, tech.CanTarget(user, user), "below minimum range")
	assert.False(t, tech.CanTarget(user, geo.Pt(20, 2)))
}

func TestTechniquePossibleTargets(t *testing.T) {
	tech := NewTechnique("bolt", NewPoint(geo.Pt(1, 1)))
	tech.AOE.SetReach(geo.Reach{MinDistance: 1, MaxDistance: 2, Metric: geo.Square})
	tech.SetMap(room(t, 9, 9))

	got := tech.PossibleTargets(geo.Pt(4, 4))
	assert.Len(t, got, 24)
	assert.NotContains(t, got, geo.Pt(4, 4))
	for _, p := range got {
		assert.LessOrEqual(t, geo.Square.Between(geo.Pt(4, 4), p), 2.0)
	}

	tech.AOE.SetReach(geo.Reach{MinDistance: 1, MaxDistance: 5, Metric: geo.Square})
	tech.SetMap(pillarRoom(t))
	got = tech.PossibleTargets(geo.Pt(2, 2))
	assert.Contains(t, got, geo.Pt(3, 2))
	assert.NotContains(t, got, geo.Pt(4, 2), "walls are never targets")
	assert.NotContains(t, got, geo.Pt(5, 2), "hidden behind the pillar")

	assert.Nil(t, tech.PossibleTargets(geo.Pt(30, 30)))
}

func TestTechniqueBestPlacement(t *testing.T) {
	b := NewBurst(geo.Pt(1, 1), 2)
	b.SetReach(geo.Reach{MinDistance: 1, MaxDistance: 6, Metric: geo.Square})
	tech := NewTechnique("fireball", b)
	tech.SetMap(room(t, 12, 12))
	user := geo.Pt(1, 1)

	cast, hits, ok := tech.BestPlacement(user, []geo.Point{geo.Pt(5, 5), geo.Pt(6, 5)}, nil)
	require.True(t, ok)
	assert.Equal(t, geo.Pt(5, 5), cast)
	assert.Equal(t, 2, hits)

	ally := geo.Pt(4, 5)
	cast, hits, ok = tech.BestPlacement(user, []geo.Point{geo.Pt(5, 5), geo.Pt(6, 5)}, []geo.Point{ally})
	if ok {
		assert.Positive(t, hits)
		assert.NotContains(t, tech.Apply(user, cast), ally)
	}

	_, _, ok = tech.BestPlacement(user, nil, nil)
	assert.False(t, ok)
}

func TestFindTechniquePathWithBurst(t *testing.T) {
	m := room(t, 14, 7)
	b := NewBurst(geo.Pt(1, 1), 1)
	b.SetReach(geo.Reach{MinDistance: 1, MaxDistance: 3, Metric: geo.Square})
	tech := NewTechnique("fireball", b)

	e, err := dijkstra.NewFromMap(m, dijkstra.WithSeed(4))
	require.NoError(t, err)

	start := geo.Pt(1, 3)
	path := e.FindTechniquePath(5, tech, m, geo.NewBresenhamLOS(), nil, nil, start, []geo.Point{geo.Pt(11, 3), geo.Pt(12, 3)})
	require.NotEmpty(t, path)
	assert.LessOrEqual(t, len(path), 5)

	prev := start
	for _, p := range path {
		assert.False(t, m.IsWall(p), "%v is a wall", p)
		step := geo.Direction{DX: p.X - prev.X, DY: p.Y - prev.Y}
		assert.Contains(t, geo.Manhattan.Directions(), step, "%v -> %v is not a step", prev, p)
		prev = p
	}
	assert.Greater(t, path[len(path)-1].X, start.X)
}
