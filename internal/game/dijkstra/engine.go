// Package dijkstra implements goal-directed distance fields ("Dijkstra maps") over a
// 2D grid and greedy path extraction on top of them.
//
// An Engine is bound to one map. Goals are set, a scan relaxes costs outward from
// them in synchronous layers, and the path finders descend the resulting gradient.
// Engines are not safe for concurrent use; give each goroutine its own Engine.
package dijkstra

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/gridai/internal/game/geo"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMeasurement sets the movement metric. The default is Manhattan.
func WithMeasurement(m geo.Measurement) Option {
	return func(e *Engine) { e.measurement = m }
}

// WithSeed seeds the engine's own PCG generator.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = newRand(seed) }
}

// WithRand hands the engine a generator it owns from now on.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Engine owns a physical cost grid, a gradient grid and the goals of the current query.
type Engine struct {
	measurement geo.Measurement
	width       int
	height      int
	physical    [][]float64
	gradient    [][]float64
	goals       map[geo.Point]float64
	targets     map[geo.Point]geo.Point
	mappedCount int
	initialized bool

	rng  *rand.Rand
	log  *slog.Logger
	flee fleeCache
}

// New creates an unbound engine. Call Initialize or InitializeCosts before querying.
func New(opts ...Option) *Engine {
	e := &Engine{
		measurement: geo.Manhattan,
		goals:       make(map[geo.Point]float64),
		targets:     make(map[geo.Point]geo.Point),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// NewFromMap creates an engine bound to m.
func NewFromMap(m geo.Map, opts ...Option) (*Engine, error) {
	e := New(opts...)
	if err := e.Initialize(m); err != nil {
		return nil, err
	}
	return e, nil
}

// Initialize binds the engine to a wall/floor map.
func (e *Engine) Initialize(m geo.Map) error {
	return e.InitializeCosts(geo.Physical(m))
}

// InitializeCosts binds the engine to a physical cost grid indexed [x][y].
// Cells above geo.Floor are impassable.
func (e *Engine) InitializeCosts(costs [][]float64) error {
	if err := geo.ValidateGrid(costs); err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	e.width = len(costs)
	e.height = len(costs[0])
	e.physical = geo.CloneGrid(costs)
	e.gradient = geo.CloneGrid(costs)
	clear(e.goals)
	clear(e.targets)
	e.flee = fleeCache{}
	e.initialized = true
	return nil
}

// Initialized reports whether the engine is bound to a map.
func (e *Engine) Initialized() bool { return e.initialized }

// Width returns the grid width.
func (e *Engine) Width() int { return e.width }

// Height returns the grid height.
func (e *Engine) Height() int { return e.height }

// Measurement returns the movement metric.
func (e *Engine) Measurement() geo.Measurement { return e.measurement }

// SetMeasurement changes the movement metric for later scans.
func (e *Engine) SetMeasurement(m geo.Measurement) { e.measurement = m }

// Reseed rewinds the engine's generator to a fixed seed.
func (e *Engine) Reseed(seed uint64) { e.rng = newRand(seed) }

// MappedCount returns how many cells the last scan assigned, goals included.
func (e *Engine) MappedCount() int { return e.mappedCount }

// Gradient returns a copy of the live gradient grid, or nil before initialization.
func (e *Engine) Gradient() [][]float64 {
	if !e.initialized {
		return nil
	}
	return geo.CloneGrid(e.gradient)
}

// Physical returns a copy of the physical grid, or nil before initialization.
func (e *Engine) Physical() [][]float64 {
	if !e.initialized {
		return nil
	}
	return geo.CloneGrid(e.physical)
}

// GradientAt returns the gradient value at p; cells outside the grid read as geo.Wall.
func (e *Engine) GradientAt(p geo.Point) float64 {
	if !e.initialized || !e.contains(p) {
		return geo.Wall
	}
	return e.gradient[p.X][p.Y]
}

// TargetAt returns the cast point the last technique path chose for vantage cell p.
func (e *Engine) TargetAt(p geo.Point) (geo.Point, bool) {
	t, ok := e.targets[p]
	return t, ok
}

// Goals returns a copy of the current goal set.
func (e *Engine) Goals() map[geo.Point]float64 {
	out := make(map[geo.Point]float64, len(e.goals))
	for p, v := range e.goals {
		out[p] = v
	}
	return out
}

// SetGoal marks p as a goal of cost geo.Goal. Walls and cells outside the grid are ignored.
func (e *Engine) SetGoal(p geo.Point) {
	e.SetGoalValue(p, geo.Goal)
}

// SetGoalValue marks p as a goal seeded with cost v.
func (e *Engine) SetGoalValue(p geo.Point, v float64) {
	if !e.initialized || !e.contains(p) || e.physical[p.X][p.Y] > geo.Floor {
		return
	}
	e.goals[p] = v
}

// SetOccupied blocks p in the gradient until the next reset.
func (e *Engine) SetOccupied(p geo.Point) {
	if !e.initialized || !e.contains(p) {
		return
	}
	e.gradient[p.X][p.Y] = geo.Wall
}

// ResetCell restores p's physical cost.
func (e *Engine) ResetCell(p geo.Point) {
	if !e.initialized || !e.contains(p) {
		return
	}
	e.gradient[p.X][p.Y] = e.physical[p.X][p.Y]
}

// ClearGoals restores every goal cell's physical cost and empties the goal set.
func (e *Engine) ClearGoals() {
	if !e.initialized {
		return
	}
	for p := range e.goals {
		e.ResetCell(p)
	}
	clear(e.goals)
}

// ResetMap copies the physical grid over the gradient.
func (e *Engine) ResetMap() {
	if !e.initialized {
		return
	}
	for x := range e.gradient {
		copy(e.gradient[x], e.physical[x])
	}
}

// ResetTargetMap forgets the cast points chosen by the last technique path.
func (e *Engine) ResetTargetMap() {
	clear(e.targets)
}

// Reset restores the gradient and forgets goals, cast points and the flee cache.
func (e *Engine) Reset() {
	e.ResetMap()
	clear(e.goals)
	clear(e.targets)
	e.flee = fleeCache{}
}

func (e *Engine) contains(p geo.Point) bool {
	return p.Within(e.width, e.height)
}

// dropGoals empties the goal set but leaves the gradient untouched.
func (e *Engine) dropGoals() {
	clear(e.goals)
}

func (e *Engine) passable(p geo.Point) bool {
	return e.contains(p) && e.physical[p.X][p.Y] <= geo.Floor
}
