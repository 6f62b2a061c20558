package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRoom(t *testing.T) Map {
	t.Helper()
	return mustMap(t,
		"###########",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"#.........#",
		"###########",
	)
}

func TestShadowFOVFalloff(t *testing.T) {
	res := SimpleResistances(openRoom(t))
	light := CalculateFOV(res, 5, 5, 3, Square, Shadow)

	assert.Equal(t, 1.0, light[5][5])
	assert.InDelta(t, 2.0/3.0, light[6][5], 1e-9)
	assert.InDelta(t, 1.0/3.0, light[7][7], 1e-9)
	assert.Equal(t, 0.0, light[8][5], "cells at the radius are dark")
	assert.Equal(t, 0.0, light[9][5])
}

func TestFOVIntensityBounds(t *testing.T) {
	res := SimpleResistances(openRoom(t))
	for _, kind := range []FOVKind{Shadow, RippleLoose, Ripple} {
		for _, metric := range []Radius{Square, Diamond, Circle} {
			light := CalculateFOV(res, 4, 5, 3, metric, kind)
			for x := range light {
				for y, v := range light[x] {
					if v == 0 {
						continue
					}
					assert.Greater(t, v, 0.0)
					assert.LessOrEqual(t, v, 1.0)
					assert.LessOrEqual(t, metric.Distance(4, 5, x, y), 3.0,
						"kind %d metric %s lit (%d,%d)", kind, metric, x, y)
				}
			}
		}
	}
}

func TestShadowFOVWallCastsShadow(t *testing.T) {
	m := mustMap(t,
		"#########",
		"#.......#",
		"#...#...#",
		"#.......#",
		"#########",
	)
	light := CalculateFOV(SimpleResistances(m), 2, 2, 8, Square, Shadow)

	assert.Greater(t, light[4][2], 0.0, "the wall itself is lit")
	assert.Equal(t, 0.0, light[5][2], "directly behind the wall")
	assert.Greater(t, light[6][1], 0.0)
}

func TestConeFOVRestrictsAngle(t *testing.T) {
	res := SimpleResistances(openRoom(t))
	light := CalculateConeFOV(res, 5, 5, 4, Square, RippleLoose, 0, math.Pi/2)

	assert.Greater(t, light[7][5], 0.0, "straight ahead")
	assert.Equal(t, 0.0, light[3][5], "behind the origin")
	assert.Equal(t, 0.0, light[5][7], "perpendicular to the facing")

	shadow := CalculateConeFOV(res, 5, 5, 4, Square, Shadow, math.Pi, math.Pi/2)
	assert.Greater(t, shadow[3][5], 0.0)
	assert.Equal(t, 0.0, shadow[7][5])
}

func TestFOVZeroRadius(t *testing.T) {
	light := CalculateFOV(SimpleResistances(openRoom(t)), 2, 2, 0, Circle, Shadow)

	require.Equal(t, 1.0, light[2][2])
	assert.Equal(t, 0.0, light[3][2])
}
