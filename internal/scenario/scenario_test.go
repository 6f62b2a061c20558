package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridai/internal/db"
	"github.com/udisondev/gridai/internal/game/geo"
	"github.com/udisondev/gridai/internal/testutil"
)

const skirmish = `
name: skirmish
measurement: manhattan
map:
  - "############"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "############"
actors:
  - {name: hero, team: blue, x: 1, y: 3, hp: 30}
  - {name: cleric, team: blue, x: 2, y: 3, hp: 20}
  - {name: orc, team: red, x: 6, y: 3, hp: 12}
  - {name: shaman, team: red, x: 7, y: 4, hp: 8, tags: [caster]}
techniques:
  - {id: fireball, name: Fireball, shape: burst, radius: 1.5, min_range: 1, max_range: 6, metric: circle}
queries:
  - {id: walk, kind: path, actor: hero, targets: [orc], length: 20}
  - {id: flood, kind: flood, actor: hero, radius: 1}
  - {kind: ideal, actor: hero, technique: fireball}
  - {id: blast, kind: area, actor: hero, technique: fireball, aim: {x: 6, y: 3}}
  - {id: approach, kind: technique, actor: hero, technique: fireball, length: 4}
  - {id: run, kind: flee, actor: orc, targets: [hero], length: 3}
`

func parse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func TestParseFillsDefaults(t *testing.T) {
	s := parse(t, skirmish)
	assert.Equal(t, "skirmish", s.Name)
	assert.Len(t, s.Actors, 4)
	assert.Equal(t, "ideal-2", s.Queries[2].ID)
	for _, q := range s.Queries {
		assert.Equal(t, 1, q.Size)
	}

	s = parse(t, "name: bare\nmap: ['...']\n")
	assert.Equal(t, "manhattan", s.Measurement)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skirmish.yaml")
	require.NoError(t, os.WriteFile(path, []byte(skirmish), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "skirmish", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  error
	}{
		{"unknown kind", "{kind: teleport, actor: hero}", ErrUnknownQuery},
		{"unknown actor", "{kind: path, actor: ghost}", ErrUnknownActor},
		{"unknown target", "{kind: path, actor: hero, targets: [ghost]}", ErrUnknownActor},
		{"unknown technique", "{kind: area, actor: hero, technique: meteor}", ErrUnknownTechnique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parse(t, "name: bad\nmap: ['....']\nactors: [{name: hero, x: 1}]\nqueries: ["+tt.query+"]\n")
			assert.ErrorIs(t, s.Validate(nil), tt.want)
		})
	}

	s := parse(t, "name: cat\nmap: ['....']\nactors: [{name: hero}]\nqueries: [{kind: area, actor: hero, technique: meteor}]\n")
	assert.NoError(t, s.Validate(map[string]TechniqueDef{"meteor": {ID: "meteor", Shape: "burst"}}))

	s = parse(t, "name: ragged\nmap: ['....', '..']\n")
	assert.ErrorIs(t, s.Validate(nil), geo.ErrRaggedMap)
}

func TestClassifyDefaults(t *testing.T) {
	s := parse(t, skirmish)
	rules, err := compileRules(Rules{})
	require.NoError(t, err)

	hero, _ := s.actor("hero")
	roles, err := rules.classify(hero, s.Actors)
	require.NoError(t, err)
	assert.Empty(t, roles.Priority)
	assert.Equal(t, []geo.Point{geo.Pt(6, 3), geo.Pt(7, 4)}, roles.Lesser)
	assert.Equal(t, []geo.Point{geo.Pt(2, 3)}, roles.Allies)
	assert.Equal(t, []geo.Point{geo.Pt(2, 3)}, roles.Excluded, "allies are kept out of areas")
	assert.Equal(t, []geo.Point{geo.Pt(6, 3), geo.Pt(7, 4)}, roles.Targets())
}

func TestClassifyCustomRules(t *testing.T) {
	s := parse(t, skirmish)
	rules, err := compileRules(Rules{
		Priority: `HasTag("caster")`,
		Lesser:   `team != self.team && distance <= 5`,
		Exclude:  `hp < 25 && team == self.team`,
	})
	require.NoError(t, err)

	hero, _ := s.actor("hero")
	roles, err := rules.classify(hero, s.Actors)
	require.NoError(t, err)
	assert.Equal(t, []geo.Point{geo.Pt(7, 4)}, roles.Priority)
	assert.Equal(t, []geo.Point{geo.Pt(6, 3)}, roles.Lesser)
	assert.Equal(t, []geo.Point{geo.Pt(2, 3)}, roles.Excluded)

	_, err = compileRules(Rules{Lesser: `hp + "x"`})
	assert.Error(t, err)
	_, err = compileRules(Rules{Ally: `hp`})
	assert.Error(t, err, "rules must be boolean")
}

func TestRunSkirmish(t *testing.T) {
	s := parse(t, skirmish)
	results, err := NewRunner(3, 7, nil).Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, results, len(s.Queries))
	for i, res := range results {
		assert.Equal(t, s.Queries[i].ID, res.QueryID, "results keep query order")
	}

	walk := results[0]
	require.Len(t, walk.Path, 5)
	assert.Equal(t, geo.Pt(6, 3), walk.Path[4])

	assert.Len(t, results[1].Area, 4)

	ideal := results[2]
	require.NotEmpty(t, ideal.Placements)
	for _, p := range ideal.Placements {
		assert.ElementsMatch(t, []geo.Point{geo.Pt(6, 3), geo.Pt(7, 4)}, p.Targets)
	}

	blast := results[3].Area
	assert.Contains(t, blast, geo.Pt(6, 3))
	assert.Contains(t, blast, geo.Pt(7, 3))

	approach := results[4]
	assert.LessOrEqual(t, len(approach.Path), 4)
	assert.Equal(t, "hero", approach.Actor)

	run := results[5]
	require.NotEmpty(t, run.Path)
	assert.LessOrEqual(t, len(run.Path), 3)
	assert.Greater(t, run.Path[len(run.Path)-1].X, 6, "the orc runs away from the hero")
}

func TestRunIsReproducible(t *testing.T) {
	first, err := NewRunner(4, 99, nil).Run(context.Background(), parse(t, skirmish))
	require.NoError(t, err)
	second, err := NewRunner(1, 99, nil).Run(context.Background(), parse(t, skirmish))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(2, 1, nil).Run(ctx, parse(t, skirmish))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsInvalid(t *testing.T) {
	s := parse(t, "name: bad\nmap: ['....']\nactors: [{name: hero}]\nqueries: [{kind: area, actor: hero, technique: meteor}]\n")
	_, err := NewRunner(1, 1, nil).Run(context.Background(), s)
	assert.ErrorIs(t, err, ErrUnknownTechnique)
}

func TestBuildShapes(t *testing.T) {
	origin := geo.Pt(2, 2)
	for _, shape := range []string{"point", "burst", "blast", "cone", "beam", "line", "cloud"} {
		d := TechniqueDef{ID: shape, Shape: shape, Radius: 2, Span: 90, Length: 3, Volume: 4, MinRange: 1, MaxRange: 4, Metric: "square", Limit: "eight_way"}
		tech, err := d.Build(origin, 5)
		require.NoError(t, err, shape)
		assert.Equal(t, shape, tech.AOE.Kind().String())
		assert.Equal(t, 1, tech.MinRange())
		assert.Equal(t, 4, tech.MaxRange())
		assert.Equal(t, geo.EightWay, tech.AOE.Reach().Limit)
		got, ok := tech.AOE.Origin()
		assert.True(t, ok)
		assert.Equal(t, origin, got)
	}

	_, err := TechniqueDef{ID: "x", Shape: "donut"}.Build(origin, 1)
	assert.Error(t, err)
	_, err = TechniqueDef{ID: "x", Shape: "burst", Metric: "hexagon"}.Build(origin, 1)
	assert.Error(t, err)
}

type fakeCatalog struct {
	records []db.TechniqueRecord
	synced  []db.TechniqueRecord
	err     error
}

func (f *fakeCatalog) List(context.Context) ([]db.TechniqueRecord, error) { return f.records, f.err }

func (f *fakeCatalog) Sync(_ context.Context, records []db.TechniqueRecord) (int, error) {
	f.synced = append(f.synced, records...)
	return len(records), f.err
}

func TestCatalogRoundTrip(t *testing.T) {
	s := parse(t, skirmish)
	store := &fakeCatalog{}
	n, err := SyncCatalog(context.Background(), store, s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.synced, 1)
	assert.Equal(t, "fireball", store.synced[0].ID)

	def, err := FromRecord(store.synced[0])
	require.NoError(t, err)
	assert.Equal(t, s.Techniques[0], def)

	// A catalog technique serves a scenario that does not define it.
	bare := parse(t, `
name: catalog
map: ["#######", "#.....#", "#######"]
actors: [{name: hero, team: a, x: 1, y: 1}, {name: rat, team: b, x: 4, y: 1}]
queries: [{id: zap, kind: area, actor: hero, technique: fireball}]
`)
	r := NewRunner(1, 1, nil)
	require.NoError(t, r.LoadCatalog(context.Background(), &fakeCatalog{records: store.synced}))
	results, err := r.Run(context.Background(), bare)
	require.NoError(t, err)
	assert.Contains(t, results[0].Area, geo.Pt(4, 1))

	broken := &fakeCatalog{err: testutil.ErrSimulated}
	assert.ErrorIs(t, r.LoadCatalog(context.Background(), broken), testutil.ErrSimulated)
	_, err = SyncCatalog(context.Background(), broken, s)
	assert.ErrorIs(t, err, testutil.ErrSimulated)
}
