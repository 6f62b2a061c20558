package geo

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrEmptyMap    = errors.New("geo: map has no cells")
	ErrRaggedMap   = errors.New("geo: map rows differ in length")
	ErrOutOfBounds = errors.New("geo: point outside map")
)

// Map is a wall/floor marker grid indexed [x][y].
// Any marker other than WallMarker is walkable.
type Map [][]rune

// ParseMap builds a Map from text rows, row i becoming y = i.
func ParseMap(rows []string) (Map, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	height := len(rows)
	runes := make([][]rune, height)
	for y, row := range rows {
		runes[y] = []rune(row)
	}
	width := len(runes[0])
	for y := range runes {
		if len(runes[y]) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(runes[y]), width, ErrRaggedMap)
		}
	}

	m := make(Map, width)
	for x := range m {
		m[x] = make([]rune, height)
		for y := range height {
			m[x][y] = runes[y][x]
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m Map) Width() int { return len(m) }

// Height returns the number of rows.
func (m Map) Height() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Contains reports whether p is inside the map.
func (m Map) Contains(p Point) bool {
	return p.Within(m.Width(), m.Height())
}

// IsWall reports whether p is a wall. Cells outside the map count as walls.
func (m Map) IsWall(p Point) bool {
	if !m.Contains(p) {
		return true
	}
	return m[p.X][p.Y] == WallMarker
}

// Rows renders the map back into text rows.
func (m Map) Rows() []string {
	rows := make([]string, m.Height())
	for y := range rows {
		line := make([]rune, m.Width())
		for x := range line {
			line[x] = m[x][y]
		}
		rows[y] = string(line)
	}
	return rows
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	c := make(Map, len(m))
	for x := range m {
		c[x] = append([]rune(nil), m[x]...)
	}
	return c
}

// RandomFloor picks a walkable cell: up to 20 random probes, then a row-major sweep
// of the interior. Returns false when the map holds no interior floor.
func (m Map) RandomFloor(rng *rand.Rand) (Point, bool) {
	w, h := m.Width(), m.Height()
	if w < 3 || h < 3 {
		return Point{}, false
	}
	for range 20 {
		p := Point{X: rng.IntN(w), Y: rng.IntN(h)}
		if m[p.X][p.Y] != WallMarker {
			return p, true
		}
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if m[x][y] != WallMarker {
				return Point{X: x, Y: y}, true
			}
		}
	}
	return Point{}, false
}

// Physical converts a map into a cost grid of Wall and Floor sentinels.
func Physical(m Map) [][]float64 {
	grid := NewGrid(m.Width(), m.Height(), Floor)
	for x := range m {
		for y := range m[x] {
			if m[x][y] == WallMarker {
				grid[x][y] = Wall
			}
		}
	}
	return grid
}

// Resistances builds a light/sight resistance grid. Doors and vegetation partially block.
func Resistances(m Map) [][]float64 {
	res := NewGrid(m.Width(), m.Height(), 0)
	for x := range m {
		for y, r := range m[x] {
			switch r {
			case WallMarker:
				res[x][y] = ResistanceOpaque
			case ClosedDoorMarker:
				res[x][y] = ResistanceDoor
			case OpenDoorMarker, GrassMarker:
				res[x][y] = ResistanceSparse
			}
		}
	}
	return res
}

// SimpleResistances treats walls as opaque and everything else as clear.
func SimpleResistances(m Map) [][]float64 {
	res := NewGrid(m.Width(), m.Height(), 0)
	for x := range m {
		for y, r := range m[x] {
			if r == WallMarker {
				res[x][y] = ResistanceOpaque
			}
		}
	}
	return res
}

// NewGrid allocates a width x height grid filled with v.
func NewGrid(width, height int, v float64) [][]float64 {
	grid := make([][]float64, width)
	for x := range grid {
		grid[x] = make([]float64, height)
		if v != 0 {
			for y := range grid[x] {
				grid[x][y] = v
			}
		}
	}
	return grid
}

// CloneGrid returns a deep copy of grid.
func CloneGrid(grid [][]float64) [][]float64 {
	c := make([][]float64, len(grid))
	for x := range grid {
		c[x] = append([]float64(nil), grid[x]...)
	}
	return c
}

// ValidateGrid checks that grid is non-empty and rectangular.
func ValidateGrid(grid [][]float64) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ErrEmptyMap
	}
	h := len(grid[0])
	for x := range grid {
		if len(grid[x]) != h {
			return fmt.Errorf("column %d has %d cells, want %d: %w", x, len(grid[x]), h, ErrRaggedMap)
		}
	}
	return nil
}
