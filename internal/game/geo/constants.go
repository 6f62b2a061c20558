package geo

// Cost sentinels of the physical and gradient grids.
// They sit orders of magnitude above any reachable cost so accumulation during a
// scan never crosses into sentinel range.
const (
	Goal  = 0.0
	Floor = 999200.0
	Wall  = 999500.0
	Dark  = 999800.0
)

// Map markers.
const (
	WallMarker       = '#'
	FloorMarker      = '.'
	ClosedDoorMarker = '+'
	OpenDoorMarker   = '/'
	GrassMarker      = '"'
)

// Resistance values used by Resistances.
const (
	ResistanceOpaque = 1.0
	ResistanceDoor   = 0.95
	ResistanceSparse = 0.15
)

// Direction is a unit step on the grid. Y grows downward.
type Direction struct {
	DX, DY int
}

var (
	None      = Direction{0, 0}
	Up        = Direction{0, -1}
	Down      = Direction{0, 1}
	Left      = Direction{-1, 0}
	Right     = Direction{1, 0}
	UpLeft    = Direction{-1, -1}
	UpRight   = Direction{1, -1}
	DownLeft  = Direction{-1, 1}
	DownRight = Direction{1, 1}
)

// Cardinals lists the four orthogonal steps.
var Cardinals = [4]Direction{Up, Down, Left, Right}

// Diagonals lists the four diagonal steps.
var Diagonals = [4]Direction{UpLeft, UpRight, DownLeft, DownRight}

// Outwards lists all eight steps, cardinals first.
var Outwards = [8]Direction{Up, Down, Left, Right, UpLeft, UpRight, DownLeft, DownRight}

// Diagonal reports whether the step moves on both axes.
func (d Direction) Diagonal() bool {
	return d.DX != 0 && d.DY != 0
}
