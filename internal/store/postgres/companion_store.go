package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.CompanionStore = (*CompanionStore)(nil)

type CompanionStore struct {
	db DBTX
}

func NewCompanionStore(db DBTX) *CompanionStore {
	return &CompanionStore{db: db}
}

const companionColumns = `id::text, trip_id, name, email, phone, relationship, notes, created_at, updated_at`

func (s *CompanionStore) ListCompanions(ctx context.Context, tripID string) ([]types.Companion, error) {
	query := `SELECT ` + companionColumns + ` FROM companions WHERE trip_id = $1 ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companions: %w", err)
	}
	defer rows.Close()

	companions := []types.Companion{}
	for rows.Next() {
		c, err := scanCompanion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan companion: %w", err)
		}
		companions = append(companions, *c)
	}
	return companions, rows.Err()
}

func (s *CompanionStore) CreateCompanion(ctx context.Context, c *types.Companion) (*types.Companion, error) {
	query := `
		INSERT INTO companions (trip_id, name, email, phone, relationship, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companionColumns

	saved, err := scanCompanion(s.db.QueryRow(ctx, query, c.TripID, c.Name, c.Email, c.Phone, c.Relationship, c.Notes))
	if err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert companion: %w", err)
	}
	return saved, nil
}

func (s *CompanionStore) UpdateCompanion(ctx context.Context, c *types.Companion) (*types.Companion, error) {
	query := `
		UPDATE companions
		SET name = $3, email = $4, phone = $5, relationship = $6, notes = $7, updated_at = NOW()
		WHERE id = $1 AND trip_id = $2
		RETURNING ` + companionColumns

	saved, err := scanCompanion(s.db.QueryRow(ctx, query, c.ID, c.TripID, c.Name, c.Email, c.Phone, c.Relationship, c.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update companion: %w", err)
	}
	return saved, nil
}

func (s *CompanionStore) DeleteCompanion(ctx context.Context, tripID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM companions WHERE id = $1 AND trip_id = $2`, id, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete companion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanCompanion(row pgx.Row) (*types.Companion, error) {
	var c types.Companion
	if err := row.Scan(&c.ID, &c.TripID, &c.Name, &c.Email, &c.Phone, &c.Relationship, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
