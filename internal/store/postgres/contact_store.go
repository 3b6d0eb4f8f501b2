package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.ContactStore = (*ContactStore)(nil)

type ContactStore struct {
	db DBTX
}

func NewContactStore(db DBTX) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id::text, trip_id, name, category, phone, email, address, notes, source, created_at, updated_at`

func (s *ContactStore) ListContacts(ctx context.Context, tripID string) ([]types.EmergencyContact, error) {
	query := `SELECT ` + contactColumns + `
		FROM emergency_contacts
		WHERE trip_id = $1
		ORDER BY category, name`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []types.EmergencyContact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (s *ContactStore) CreateContacts(ctx context.Context, tripID string, contacts []types.EmergencyContact) ([]types.EmergencyContact, error) {
	query := `
		INSERT INTO emergency_contacts (trip_id, name, category, phone, email, address, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + contactColumns

	created := make([]types.EmergencyContact, 0, len(contacts))
	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		for _, c := range contacts {
			row := tx.QueryRow(ctx, query, tripID, c.Name, c.Category, c.Phone, c.Email, c.Address, c.Notes, c.Source)
			saved, err := scanContact(row)
			if err != nil {
				if pgErrCode(err) == foreignKeyViolation {
					return store.ErrNotFound
				}
				return fmt.Errorf("failed to insert contact %q: %w", c.Name, err)
			}
			created = append(created, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ContactStore) UpdateContact(ctx context.Context, c *types.EmergencyContact) (*types.EmergencyContact, error) {
	query := `
		UPDATE emergency_contacts
		SET name = $3, category = $4, phone = $5, email = $6, address = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND trip_id = $2
		RETURNING ` + contactColumns

	saved, err := scanContact(s.db.QueryRow(ctx, query, c.ID, c.TripID, c.Name, c.Category, c.Phone, c.Email, c.Address, c.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return saved, nil
}

func (s *ContactStore) DeleteContact(ctx context.Context, tripID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM emergency_contacts WHERE id = $1 AND trip_id = $2`, id, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*types.EmergencyContact, error) {
	var c types.EmergencyContact
	err := row.Scan(
		&c.ID,
		&c.TripID,
		&c.Name,
		&c.Category,
		&c.Phone,
		&c.Email,
		&c.Address,
		&c.Notes,
		&c.Source,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
