package geo

// BresenhamLOS checks line of sight by walking a Bresenham line through a resistance
// grid. Light starts at full force and each traversed cell subtracts its resistance;
// the ray also fades linearly with distance so it is spent exactly at the target.
type BresenhamLOS struct {
	// Metric measures falloff along the ray. The zero value is Square; NewBresenhamLOS uses Circle.
	Metric Radius
}

// NewBresenhamLOS returns a checker measuring falloff with Euclidean distance.
func NewBresenhamLOS() BresenhamLOS {
	return BresenhamLOS{Metric: Circle}
}

// IsReachable reports whether (tx,ty) can be seen from (sx,sy).
// The start cell's own resistance is ignored. Cells outside the grid block sight.
func (l BresenhamLOS) IsReachable(res [][]float64, sx, sy, tx, ty int) bool {
	if sx == tx && sy == ty {
		return true
	}
	width := len(res)
	if width == 0 {
		return false
	}
	height := len(res[0])

	decay := 1 / l.Metric.Distance(sx, sy, tx, ty)
	force := 1.0

	it := NewLineIterator(sx, sy, tx, ty)
	for it.Next() {
		x, y := it.X(), it.Y()
		if x == tx && y == ty {
			return true
		}
		if x < 0 || y < 0 || x >= width || y >= height {
			return false
		}
		if x != sx || y != sy {
			force -= res[x][y]
		}
		if force-l.Metric.Distance(sx, sy, x, y)*decay <= 0 {
			return false
		}
	}
	return false
}

// CanSee is IsReachable over a map using simple resistances.
func CanSee(m Map, from, to Point) bool {
	return NewBresenhamLOS().IsReachable(SimpleResistances(m), from.X, from.Y, to.X, to.Y)
}
