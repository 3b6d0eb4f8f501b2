package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactColumnNames = []string{
	"id", "trip_id", "name", "category", "phone", "email", "address", "notes", "source", "created_at", "updated_at",
}

func TestContactStore_ListContacts(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM emergency_contacts").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(contactColumnNames).
			AddRow("c1", "trip-1", "US Embassy Tokyo", "embassy", "+81-3-3224-5000", "", "1-10-5 Akasaka", "", "generated", now, now).
			AddRow("c2", "trip-1", "Police", "police", "110", "", "", "", "manual", now, now))

	contacts, err := s.ListContacts(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, types.ContactCategory("embassy"), contacts[0].Category)
	assert.Equal(t, types.ContactSource("manual"), contacts[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactStore_ListContacts_Empty(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)

	mock.ExpectQuery("SELECT (.+) FROM emergency_contacts").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(contactColumnNames))

	contacts, err := s.ListContacts(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestContactStore_CreateContacts_CommitsBatch(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)
	now := time.Now()

	input := []types.EmergencyContact{
		{Name: "Hospital", Category: "medical", Phone: "119", Source: "generated"},
		{Name: "Fire", Category: "fire", Phone: "119", Source: "generated"},
	}

	mock.ExpectBegin()
	for i, c := range input {
		mock.ExpectQuery("INSERT INTO emergency_contacts").
			WithArgs("trip-1", c.Name, c.Category, c.Phone, c.Email, c.Address, c.Notes, c.Source).
			WillReturnRows(pgxmock.NewRows(contactColumnNames).
				AddRow([]string{"c1", "c2"}[i], "trip-1", c.Name, string(c.Category), c.Phone, "", "", "", string(c.Source), now, now))
	}
	mock.ExpectCommit()

	created, err := s.CreateContacts(context.Background(), "trip-1", input)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "c1", created[0].ID)
	assert.Equal(t, "Fire", created[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactStore_CreateContacts_RollsBackOnMissingTrip(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO emergency_contacts").
		WithArgs("ghost", "Police", types.ContactCategory("police"), "110", "", "", "", types.ContactSource("manual")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})
	mock.ExpectRollback()

	_, err := s.CreateContacts(context.Background(), "ghost", []types.EmergencyContact{
		{Name: "Police", Category: "police", Phone: "110", Source: "manual"},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactStore_CreateContacts_BeginFails(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, err := s.CreateContacts(context.Background(), "trip-1", []types.EmergencyContact{{Name: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestContactStore_UpdateContact(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)
	now := time.Now()
	c := &types.EmergencyContact{ID: "c1", TripID: "trip-1", Name: "Embassy", Category: "embassy", Phone: "123"}

	mock.ExpectQuery("UPDATE emergency_contacts").
		WithArgs(c.ID, c.TripID, c.Name, c.Category, c.Phone, c.Email, c.Address, c.Notes).
		WillReturnRows(pgxmock.NewRows(contactColumnNames).
			AddRow("c1", "trip-1", "Embassy", "embassy", "123", "", "", "", "manual", now, now))

	saved, err := s.UpdateContact(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "123", saved.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactStore_UpdateContact_NotFound(t *testing.T) {
	mock := newMockPool(t)
	s := NewContactStore(mock)
	c := &types.EmergencyContact{ID: "nope", TripID: "trip-1"}

	mock.ExpectQuery("UPDATE emergency_contacts").
		WithArgs(c.ID, c.TripID, c.Name, c.Category, c.Phone, c.Email, c.Address, c.Notes).
		WillReturnRows(pgxmock.NewRows(contactColumnNames))

	_, err := s.UpdateContact(context.Background(), c)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContactStore_DeleteContact(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantErr: store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			s := NewContactStore(mock)

			mock.ExpectExec("DELETE FROM emergency_contacts").
				WithArgs("c1", "trip-1").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := s.DeleteContact(context.Background(), "trip-1", "c1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

var companionColumnNames = []string{
	"id", "trip_id", "name", "email", "phone", "relationship", "notes", "created_at", "updated_at",
}

func TestCompanionStore_CRUD(t *testing.T) {
	mock := newMockPool(t)
	s := NewCompanionStore(mock)
	ctx := context.Background()
	now := time.Now()

	c := &types.Companion{TripID: "trip-1", Name: "Aiko", Email: "aiko@example.com", Relationship: "friend"}

	mock.ExpectQuery("INSERT INTO companions").
		WithArgs(c.TripID, c.Name, c.Email, c.Phone, c.Relationship, c.Notes).
		WillReturnRows(pgxmock.NewRows(companionColumnNames).
			AddRow("p1", "trip-1", "Aiko", "aiko@example.com", "", "friend", "", now, now))

	created, err := s.CreateCompanion(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)

	created.Phone = "+81-90-0000-0000"
	mock.ExpectQuery("UPDATE companions").
		WithArgs(created.ID, created.TripID, created.Name, created.Email, created.Phone, created.Relationship, created.Notes).
		WillReturnRows(pgxmock.NewRows(companionColumnNames).
			AddRow("p1", "trip-1", "Aiko", "aiko@example.com", "+81-90-0000-0000", "friend", "", now, now))

	updated, err := s.UpdateCompanion(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "+81-90-0000-0000", updated.Phone)

	mock.ExpectQuery("SELECT (.+) FROM companions").
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(companionColumnNames).
			AddRow("p1", "trip-1", "Aiko", "aiko@example.com", "+81-90-0000-0000", "friend", "", now, now))

	list, err := s.ListCompanions(ctx, "trip-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	mock.ExpectExec("DELETE FROM companions").
		WithArgs("p1", "trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, s.DeleteCompanion(ctx, "trip-1", "p1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanionStore_CreateCompanion_UnknownTrip(t *testing.T) {
	mock := newMockPool(t)
	s := NewCompanionStore(mock)
	c := &types.Companion{TripID: "ghost", Name: "Ken"}

	mock.ExpectQuery("INSERT INTO companions").
		WithArgs(c.TripID, c.Name, c.Email, c.Phone, c.Relationship, c.Notes).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})

	_, err := s.CreateCompanion(context.Background(), c)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
