package geo

import "math"

// FOVKind selects the light propagation algorithm.
type FOVKind int

const (
	// Shadow is recursive shadowcasting; walls cast hard shadows.
	Shadow FOVKind = iota
	// RippleTight spreads light from the single nearest lit neighbour.
	RippleTight
	// Ripple spreads light from the two nearest lit neighbours.
	Ripple
	// RippleLoose spreads from three neighbours, leaking around single-cell obstacles.
	RippleLoose
	// RippleVeryLoose spreads from six neighbours.
	RippleVeryLoose
)

func (k FOVKind) rippleNeighbors() int {
	switch k {
	case RippleTight:
		return 1
	case RippleLoose:
		return 3
	case RippleVeryLoose:
		return 6
	default:
		return 2
	}
}

// cone restricts lighting to an angular sector. Angles are radians.
type cone struct {
	angle, span float64
}

func (c *cone) contains(sx, sy, x, y int) bool {
	if c == nil {
		return true
	}
	a := math.Atan2(float64(y-sy), float64(x-sx))
	return math.Abs(math.Remainder(c.angle-a, 2*math.Pi)) <= c.span/2
}

// CalculateFOV returns a light grid the size of res. Each lit cell holds
// 1 - d/radius, where d is its distance from the start under metric; cells at or
// beyond radius stay 0. A non-positive radius lights only the start cell.
func CalculateFOV(res [][]float64, sx, sy int, radius float64, metric Radius, kind FOVKind) [][]float64 {
	return calculate(res, sx, sy, radius, metric, kind, nil)
}

// CalculateConeFOV is CalculateFOV restricted to the sector centred on angle
// (radians, 0 pointing right, growing toward +y) spanning span radians.
func CalculateConeFOV(res [][]float64, sx, sy int, radius float64, metric Radius, kind FOVKind, angle, span float64) [][]float64 {
	return calculate(res, sx, sy, radius, metric, kind, &cone{angle: angle, span: span})
}

func calculate(res [][]float64, sx, sy int, radius float64, metric Radius, kind FOVKind, c *cone) [][]float64 {
	width := len(res)
	if width == 0 {
		return nil
	}
	height := len(res[0])
	light := NewGrid(width, height, 0)
	if !Pt(sx, sy).Within(width, height) {
		return light
	}
	if radius <= 0 {
		light[sx][sy] = 1
		return light
	}

	decay := 1 / radius
	light[sx][sy] = math.Min(1, radius)

	if kind == Shadow {
		for _, d := range Diagonals {
			castShadow(1, 1, 0, 0, d.DX, d.DY, 0, radius, sx, sy, decay, light, res, metric, c)
			castShadow(1, 1, 0, d.DX, 0, 0, d.DY, radius, sx, sy, decay, light, res, metric, c)
		}
		return light
	}

	ripple(light, kind.rippleNeighbors(), sx, sy, decay, radius, res, metric, c)
	return light
}

func castShadow(row int, start, end float64, xx, xy, yx, yy int, radius float64, sx, sy int,
	decay float64, light, res [][]float64, metric Radius, c *cone) {
	if start < end {
		return
	}
	width, height := len(light), len(light[0])

	newStart := 0.0
	blocked := false
	for distance := row; float64(distance) <= radius && distance < width+height && !blocked; distance++ {
		deltaY := -distance
		for deltaX := -distance; deltaX <= 0; deltaX++ {
			cx := sx + deltaX*xx + deltaY*xy
			cy := sy + deltaX*yx + deltaY*yy
			leftSlope := (float64(deltaX) - 0.5) / (float64(deltaY) + 0.5)
			rightSlope := (float64(deltaX) + 0.5) / (float64(deltaY) - 0.5)

			if cx < 0 || cy < 0 || cx >= width || cy >= height || start < rightSlope {
				continue
			} else if end > leftSlope {
				break
			}

			deltaRadius := metric.Delta(float64(deltaX), float64(deltaY))
			if deltaRadius <= radius && c.contains(sx, sy, cx, cy) {
				light[cx][cy] = 1 - decay*deltaRadius
			}

			if blocked {
				if res[cx][cy] >= 1 {
					newStart = rightSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if res[cx][cy] >= 1 && float64(distance) < radius {
				blocked = true
				castShadow(distance+1, start, leftSlope, xx, xy, yx, yy, radius, sx, sy, decay, light, res, metric, c)
				newStart = rightSlope
			}
		}
	}
}

func ripple(light [][]float64, neighbors, sx, sy int, decay, radius float64, res [][]float64, metric Radius, c *cone) {
	width, height := len(light), len(light[0])
	indirect := make([]bool, width*height)

	queue := []Point{{X: sx, Y: sy}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if light[p.X][p.Y] <= 0 || indirect[p.X*height+p.Y] {
			continue
		}

		for _, d := range Outwards {
			x2, y2 := p.X+d.DX, p.Y+d.DY
			if x2 < 0 || x2 >= width || y2 < 0 || y2 >= height ||
				metric.Distance(sx, sy, x2, y2) >= radius+1 {
				continue
			}
			if !c.contains(sx, sy, x2, y2) {
				continue
			}

			surrounding := nearRippleLight(x2, y2, neighbors, sx, sy, decay, light, res, indirect, metric)
			if light[x2][y2] < surrounding {
				light[x2][y2] = surrounding
				if res[x2][y2] < 1 {
					queue = append(queue, Point{X: x2, Y: y2})
				}
			}
		}
	}
}

// nearRippleLight returns the light (x,y) receives from its lit neighbours nearest
// the light source, and marks it indirect when it is opaque or lit only indirectly.
func nearRippleLight(x, y, rippleNeighbors, sx, sy int, decay float64, light, res [][]float64,
	indirect []bool, metric Radius) float64 {
	if x == sx && y == sy {
		return 1
	}
	width, height := len(light), len(light[0])

	near := make([]Point, 0, 8)
	for _, d := range Outwards {
		x2, y2 := x+d.DX, y+d.DY
		if x2 < 0 || x2 >= width || y2 < 0 || y2 >= height {
			continue
		}
		dist := metric.Distance(sx, sy, x2, y2)
		idx := 0
		for i := 0; i < len(near) && i <= rippleNeighbors; i++ {
			if dist < metric.Distance(sx, sy, near[i].X, near[i].Y) {
				break
			}
			idx++
		}
		near = append(near, Point{})
		copy(near[idx+1:], near[idx:])
		near[idx] = Point{X: x2, Y: y2}
	}
	if len(near) == 0 {
		return 0
	}

	lightLevel := 0.0
	lit, indirects := 0, 0
	for _, p := range near[:min(len(near), rippleNeighbors)] {
		if light[p.X][p.Y] <= 0 {
			continue
		}
		lit++
		if indirect[p.X*height+p.Y] {
			indirects++
		}
		dist := metric.Distance(x, y, p.X, p.Y)
		lightLevel = math.Max(lightLevel, light[p.X][p.Y]-dist*decay-res[p.X][p.Y])
	}

	if res[x][y] >= 1 || indirects >= lit {
		indirect[x*height+y] = true
	}
	return lightLevel
}
