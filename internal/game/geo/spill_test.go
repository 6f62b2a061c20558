package geo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"
)

func TestSpillVolumeOne(t *testing.T) {
	s := NewSpill(openRoom(t), Manhattan, rand.New(rand.NewPCG(7, 7)))

	pattern := s.Start(Pt(3, 3), 1, mapset.New[Point]())
	assert.Equal(t, []Point{Pt(3, 3)}, pattern)
	assert.Equal(t, []Point{Pt(3, 3)}, s.Cells())
}

func TestSpillStaysConnectedAndInBounds(t *testing.T) {
	m := openRoom(t)
	s := NewSpill(m, Chebyshev, rand.New(rand.NewPCG(1, 9)))

	pattern := s.Start(Pt(5, 5), 20, mapset.New[Point]())
	require.Len(t, pattern, 20)
	assert.Equal(t, 20, s.Filled())
	for _, p := range pattern {
		assert.False(t, m.IsWall(p))
	}
}

func TestSpillDeterministicForSeed(t *testing.T) {
	m := openRoom(t)
	a := NewSpill(m, Euclidean, rand.New(rand.NewPCG(3, 4))).Start(Pt(5, 5), 15, mapset.New[Point]())
	b := NewSpill(m, Euclidean, rand.New(rand.NewPCG(3, 4))).Start(Pt(5, 5), 15, mapset.New[Point]())

	assert.Equal(t, a, b)
}

func TestSpillAccumulates(t *testing.T) {
	s := NewSpill(openRoom(t), Manhattan, rand.New(rand.NewPCG(5, 5)))

	first := s.Start(Pt(5, 5), 4, mapset.New[Point]())
	second := s.Start(Pt(5, 5), 4, mapset.New[Point]())
	assert.Len(t, first, 4)
	assert.Len(t, second, 4)
	assert.Equal(t, 8, s.Filled())

	s.Reset()
	assert.Empty(t, s.Cells())
}

func TestSpillRespectsBlockedAndWalls(t *testing.T) {
	m := openRoom(t)
	s := NewSpill(m, Manhattan, rand.New(rand.NewPCG(2, 2)))

	assert.Nil(t, s.Start(Pt(0, 0), 5, mapset.New[Point]()), "wall entry")
	blocked := mapset.New[Point]()
	blocked.Put(Pt(4, 4))
	assert.Nil(t, s.Start(Pt(4, 4), 5, blocked))

	s.Start(Pt(1, 1), 30, blocked)
	assert.False(t, s.Contains(Pt(4, 4)))
}
