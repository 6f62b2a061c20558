package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/blake2b"
)

// TechniqueRecord is one catalog row. Definition holds the technique as YAML.
type TechniqueRecord struct {
	ID          string
	Name        string
	Shape       string
	Definition  []byte
	Fingerprint []byte
	UpdatedAt   time.Time
}

// Fingerprint returns the BLAKE2b-256 digest of a definition.
func Fingerprint(definition []byte) []byte {
	sum := blake2b.Sum256(definition)
	return sum[:]
}

// TechniqueRepository stores technique definitions in PostgreSQL.
type TechniqueRepository struct {
	pool *pgxpool.Pool
}

// NewTechniqueRepository creates a new TechniqueRepository.
func NewTechniqueRepository(pool *pgxpool.Pool) *TechniqueRepository {
	return &TechniqueRepository{pool: pool}
}

const upsertTechnique = `
	INSERT INTO techniques (id, name, shape, definition, fingerprint, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		shape = EXCLUDED.shape,
		definition = EXCLUDED.definition,
		fingerprint = EXCLUDED.fingerprint,
		updated_at = EXCLUDED.updated_at
	WHERE techniques.fingerprint <> EXCLUDED.fingerprint
`

// Upsert stores a definition. It reports false when the stored fingerprint
// already matches and nothing was written.
func (r *TechniqueRepository) Upsert(ctx context.Context, id, name, shape string, definition []byte) (bool, error) {
	result, err := r.pool.Exec(ctx, upsertTechnique, id, name, shape, definition, Fingerprint(definition))
	if err != nil {
		return false, fmt.Errorf("upserting technique %q: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

// Sync upserts every record in one transaction and returns how many rows changed.
// Fingerprints on the records are ignored and recomputed.
func (r *TechniqueRepository) Sync(ctx context.Context, records []TechniqueRecord) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		// Rollback after commit is expected to fail
		_ = tx.Rollback(ctx)
	}()

	changed := 0
	for _, rec := range records {
		result, err := tx.Exec(ctx, upsertTechnique, rec.ID, rec.Name, rec.Shape, rec.Definition, Fingerprint(rec.Definition))
		if err != nil {
			return 0, fmt.Errorf("upserting technique %q: %w", rec.ID, err)
		}
		changed += int(result.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing technique sync: %w", err)
	}
	return changed, nil
}

// Get returns the technique with the given id.
// Returns nil, nil if it does not exist.
func (r *TechniqueRepository) Get(ctx context.Context, id string) (*TechniqueRecord, error) {
	var rec TechniqueRecord
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, shape, definition, fingerprint, updated_at
		 FROM techniques WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Name, &rec.Shape, &rec.Definition, &rec.Fingerprint, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying technique %q: %w", id, err)
	}
	return &rec, nil
}

// List returns every technique ordered by id.
func (r *TechniqueRepository) List(ctx context.Context) ([]TechniqueRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, shape, definition, fingerprint, updated_at
		 FROM techniques ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying techniques: %w", err)
	}
	defer rows.Close()

	records := make([]TechniqueRecord, 0, 16)
	for rows.Next() {
		var rec TechniqueRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Shape, &rec.Definition, &rec.Fingerprint, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning technique row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating technique rows: %w", err)
	}
	return records, nil
}

// Delete removes a technique. It reports whether a row was removed.
func (r *TechniqueRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM techniques WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting technique %q: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

// Verify reports whether a record's definition still matches its fingerprint.
func (rec TechniqueRecord) Verify() bool {
	return bytes.Equal(Fingerprint(rec.Definition), rec.Fingerprint)
}
