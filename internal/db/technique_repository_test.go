package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridai/internal/db"
	"github.com/udisondev/gridai/internal/testutil"
)

func TestTechniqueRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewTechniqueRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	def := []byte("id: fireball\nshape: Burst\nradius: 2\n")
	changed, err := repo.Upsert(ctx, "fireball", "Fireball", "Burst", def)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Upsert(ctx, "fireball", "Fireball", "Burst", def)
	require.NoError(t, err)
	assert.False(t, changed, "same fingerprint is not rewritten")

	rec, err := repo.Get(ctx, "fireball")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Burst", rec.Shape)
	assert.Equal(t, def, rec.Definition)
	assert.True(t, rec.Verify())

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := repo.Sync(ctx, []db.TechniqueRecord{
		{ID: "fireball", Name: "Fireball", Shape: "Burst", Definition: def},
		{ID: "breath", Name: "Breath", Shape: "Cone", Definition: []byte("id: breath\nshape: Cone\n")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "breath", all[0].ID)
	assert.Equal(t, "fireball", all[1].ID)

	removed, err := repo.Delete(ctx, "breath")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Delete(ctx, "breath")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFingerprint(t *testing.T) {
	a := db.Fingerprint([]byte("radius: 2"))
	assert.Len(t, a, 32)
	assert.Equal(t, a, db.Fingerprint([]byte("radius: 2")))
	assert.NotEqual(t, a, db.Fingerprint([]byte("radius: 3")))

	rec := db.TechniqueRecord{Definition: []byte("radius: 2"), Fingerprint: a}
	assert.True(t, rec.Verify())
	rec.Definition = []byte("radius: 3")
	assert.False(t, rec.Verify())
}
