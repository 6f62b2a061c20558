package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadiusDistance(t *testing.T) {
	tests := []struct {
		name   string
		radius Radius
		want   float64
	}{
		{"square", Square, 4},
		{"diamond", Diamond, 7},
		{"circle", Circle, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.radius.Distance(1, 1, 4, 5), 1e-9)
		})
	}
}

func TestMeasurementSteps(t *testing.T) {
	assert.Len(t, Manhattan.Directions(), 4)
	assert.Len(t, Chebyshev.Directions(), 8)
	assert.Equal(t, 1.0, Chebyshev.StepCost(UpLeft))
	assert.Equal(t, math.Sqrt2, Euclidean.StepCost(DownRight))
	assert.Equal(t, 1.0, Euclidean.StepCost(Down))
}

func TestRadiusMeasurement(t *testing.T) {
	assert.Equal(t, Chebyshev, Square.Measurement())
	assert.Equal(t, Manhattan, Diamond.Measurement())
	assert.Equal(t, Euclidean, Circle.Measurement())
}

func TestVolume2D(t *testing.T) {
	assert.Equal(t, 9.0, Square.Volume2D(1))
	assert.Equal(t, 5.0, Diamond.Volume2D(1))
	assert.InDelta(t, math.Pi+1, Circle.Volume2D(1), 1e-9)
}

func TestAimLimit(t *testing.T) {
	origin := Pt(5, 5)
	tests := []struct {
		name   string
		limit  AimLimit
		target Point
		want   bool
	}{
		{"free anywhere", Free, Pt(7, 9), true},
		{"orthogonal row", Orthogonal, Pt(9, 5), true},
		{"orthogonal off-axis", Orthogonal, Pt(6, 7), false},
		{"diagonal", Diagonal, Pt(2, 8), true},
		{"diagonal off", Diagonal, Pt(5, 8), false},
		{"eight way column", EightWay, Pt(5, 1), true},
		{"eight way knight", EightWay, Pt(6, 7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.limit.Allows(origin, tt.target))
		})
	}
}

func TestReachAllows(t *testing.T) {
	r := Reach{MinDistance: 2, MaxDistance: 4, Metric: Square, Limit: Orthogonal}

	assert.True(t, r.Allows(Pt(0, 0), Pt(3, 0)))
	assert.False(t, r.Allows(Pt(0, 0), Pt(1, 0)), "too close")
	assert.False(t, r.Allows(Pt(0, 0), Pt(3, 3)), "off axis")
	assert.True(t, DefaultReach().Allows(Pt(0, 0), Pt(1, 1)))
}

func TestParseNames(t *testing.T) {
	m, err := ParseMeasurement("Euclidean")
	require.NoError(t, err)
	assert.Equal(t, Euclidean, m)

	r, err := ParseRadius("diamond")
	require.NoError(t, err)
	assert.Equal(t, Diamond, r)

	l, err := ParseAimLimit("")
	require.NoError(t, err)
	assert.Equal(t, Free, l)

	_, err = ParseAimLimit("sideways")
	assert.Error(t, err)
	_, err = ParseRadius("hexagon")
	assert.Error(t, err)
}
