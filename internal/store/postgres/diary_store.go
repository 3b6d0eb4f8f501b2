package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/NomadCrew/nomad-diary-backend/internal/store"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.DiaryStore = (*DiaryStore)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DiaryStore builds its statements with squirrel since upserts and filters
// vary by entry kind.
type DiaryStore struct {
	db DBTX
}

func NewDiaryStore(db DBTX) *DiaryStore {
	return &DiaryStore{db: db}
}

var (
	scheduleColumns = []string{
		"id::text", "trip_id", "day_number", "COALESCE(date::text, '')", "activities", "notes", "updated_at",
	}
	accommodationColumns = []string{
		"id::text", "trip_id", "name", "address", "COALESCE(check_in::text, '')", "COALESCE(check_out::text, '')",
		"confirmation_number", "price_per_night", "currency", "notes", "updated_at",
	}
	travelLegColumns = []string{
		"id::text", "trip_id", "mode", "from_name", "to_name", "from_lat", "from_lng", "to_lat", "to_lng",
		"depart_at", "arrive_at", "reference", "cost", "currency", "distance_km", "notes", "updated_at",
	}
	photoColumns = []string{
		"id::text", "trip_id", "day_number", "object_key", "content_type", "size_bytes", "uploaded_by", "created_at",
	}
)

func returning(cols []string) string {
	return "RETURNING " + strings.Join(cols, ", ")
}

// --- day schedules ---

func (s *DiaryStore) ListSchedules(ctx context.Context, tripID string) ([]types.DaySchedule, error) {
	query, args, err := psql.Select(scheduleColumns...).
		From("day_schedules").
		Where(sq.Eq{"trip_id": tripID}).
		OrderBy("day_number").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	out := []types.DaySchedule{}
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		out = append(out, *sc)
	}
	return out, rows.Err()
}

// UpsertSchedule writes the schedule for (trip, day number).
func (s *DiaryStore) UpsertSchedule(ctx context.Context, sc *types.DaySchedule) (*types.DaySchedule, error) {
	query, args, err := psql.Insert("day_schedules").
		Columns("trip_id", "day_number", "date", "activities", "notes").
		Values(sc.TripID, sc.DayNumber, sq.Expr("?::date", nullIfEmpty(sc.Date)), sc.Activities, sc.Notes).
		Suffix(`ON CONFLICT (trip_id, day_number) DO UPDATE
			SET date = EXCLUDED.date, activities = EXCLUDED.activities, notes = EXCLUDED.notes, updated_at = NOW()`).
		Suffix(returning(scheduleColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}

	saved, err := scanSchedule(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return saved, nil
}

func (s *DiaryStore) DeleteSchedule(ctx context.Context, tripID string, dayNumber int) error {
	query, args, err := psql.Delete("day_schedules").
		Where(sq.Eq{"trip_id": tripID, "day_number": dayNumber}).
		ToSql()
	if err != nil {
		return err
	}
	return s.execDelete(ctx, "schedule", query, args)
}

func scanSchedule(row pgx.Row) (*types.DaySchedule, error) {
	var sc types.DaySchedule
	if err := row.Scan(&sc.ID, &sc.TripID, &sc.DayNumber, &sc.Date, &sc.Activities, &sc.Notes, &sc.UpdatedAt); err != nil {
		return nil, err
	}
	return &sc, nil
}

// --- accommodations ---

func (s *DiaryStore) ListAccommodations(ctx context.Context, tripID string) ([]types.Accommodation, error) {
	query, args, err := psql.Select(accommodationColumns...).
		From("accommodations").
		Where(sq.Eq{"trip_id": tripID}).
		OrderBy("check_in NULLS LAST", "name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accommodations: %w", err)
	}
	defer rows.Close()

	out := []types.Accommodation{}
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accommodation: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *DiaryStore) UpsertAccommodation(ctx context.Context, a *types.Accommodation) (*types.Accommodation, error) {
	var (
		query string
		args  []any
		err   error
	)
	if a.ID == "" {
		query, args, err = psql.Insert("accommodations").
			Columns("trip_id", "name", "address", "check_in", "check_out", "confirmation_number", "price_per_night", "currency", "notes").
			Values(a.TripID, a.Name, a.Address,
				sq.Expr("?::date", nullIfEmpty(a.CheckIn)), sq.Expr("?::date", nullIfEmpty(a.CheckOut)),
				a.ConfirmationNumber, a.PricePerNight, a.Currency, a.Notes).
			Suffix(returning(accommodationColumns)).
			ToSql()
	} else {
		query, args, err = psql.Update("accommodations").
			Set("name", a.Name).
			Set("address", a.Address).
			Set("check_in", sq.Expr("?::date", nullIfEmpty(a.CheckIn))).
			Set("check_out", sq.Expr("?::date", nullIfEmpty(a.CheckOut))).
			Set("confirmation_number", a.ConfirmationNumber).
			Set("price_per_night", a.PricePerNight).
			Set("currency", a.Currency).
			Set("notes", a.Notes).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": a.ID, "trip_id": a.TripID}).
			Suffix(returning(accommodationColumns)).
			ToSql()
	}
	if err != nil {
		return nil, err
	}

	saved, err := scanAccommodation(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, s.upsertErr("accommodation", err)
	}
	return saved, nil
}

func (s *DiaryStore) DeleteAccommodation(ctx context.Context, tripID, id string) error {
	query, args, err := psql.Delete("accommodations").Where(sq.Eq{"id": id, "trip_id": tripID}).ToSql()
	if err != nil {
		return err
	}
	return s.execDelete(ctx, "accommodation", query, args)
}

func scanAccommodation(row pgx.Row) (*types.Accommodation, error) {
	var a types.Accommodation
	err := row.Scan(
		&a.ID,
		&a.TripID,
		&a.Name,
		&a.Address,
		&a.CheckIn,
		&a.CheckOut,
		&a.ConfirmationNumber,
		&a.PricePerNight,
		&a.Currency,
		&a.Notes,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// --- travel legs ---

func (s *DiaryStore) ListTravelLegs(ctx context.Context, tripID string) ([]types.TravelLeg, error) {
	query, args, err := psql.Select(travelLegColumns...).
		From("travel_legs").
		Where(sq.Eq{"trip_id": tripID}).
		OrderBy("depart_at NULLS LAST", "updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel legs: %w", err)
	}
	defer rows.Close()

	out := []types.TravelLeg{}
	for rows.Next() {
		l, err := scanTravelLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel leg: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *DiaryStore) UpsertTravelLeg(ctx context.Context, l *types.TravelLeg) (*types.TravelLeg, error) {
	fromLat, fromLng := coordArgs(l.FromCoords)
	toLat, toLng := coordArgs(l.ToCoords)

	var (
		query string
		args  []any
		err   error
	)
	if l.ID == "" {
		query, args, err = psql.Insert("travel_legs").
			Columns("trip_id", "mode", "from_name", "to_name", "from_lat", "from_lng", "to_lat", "to_lng",
				"depart_at", "arrive_at", "reference", "cost", "currency", "distance_km", "notes").
			Values(l.TripID, l.Mode, l.FromName, l.ToName, fromLat, fromLng, toLat, toLng,
				l.DepartAt, l.ArriveAt, l.Reference, l.Cost, l.Currency, l.DistanceKm, l.Notes).
			Suffix(returning(travelLegColumns)).
			ToSql()
	} else {
		query, args, err = psql.Update("travel_legs").
			Set("mode", l.Mode).
			Set("from_name", l.FromName).
			Set("to_name", l.ToName).
			Set("from_lat", fromLat).
			Set("from_lng", fromLng).
			Set("to_lat", toLat).
			Set("to_lng", toLng).
			Set("depart_at", l.DepartAt).
			Set("arrive_at", l.ArriveAt).
			Set("reference", l.Reference).
			Set("cost", l.Cost).
			Set("currency", l.Currency).
			Set("distance_km", l.DistanceKm).
			Set("notes", l.Notes).
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": l.ID, "trip_id": l.TripID}).
			Suffix(returning(travelLegColumns)).
			ToSql()
	}
	if err != nil {
		return nil, err
	}

	saved, err := scanTravelLeg(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, s.upsertErr("travel leg", err)
	}
	return saved, nil
}

func (s *DiaryStore) DeleteTravelLeg(ctx context.Context, tripID, id string) error {
	query, args, err := psql.Delete("travel_legs").Where(sq.Eq{"id": id, "trip_id": tripID}).ToSql()
	if err != nil {
		return err
	}
	return s.execDelete(ctx, "travel leg", query, args)
}

func coordArgs(c *types.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Lat, c.Lng
	return &lat, &lng
}

func scanTravelLeg(row pgx.Row) (*types.TravelLeg, error) {
	var l types.TravelLeg
	var fromLat, fromLng, toLat, toLng *float64
	err := row.Scan(
		&l.ID,
		&l.TripID,
		&l.Mode,
		&l.FromName,
		&l.ToName,
		&fromLat,
		&fromLng,
		&toLat,
		&toLng,
		&l.DepartAt,
		&l.ArriveAt,
		&l.Reference,
		&l.Cost,
		&l.Currency,
		&l.DistanceKm,
		&l.Notes,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fromLat != nil && fromLng != nil {
		l.FromCoords = &types.Coordinates{Lat: *fromLat, Lng: *fromLng}
	}
	if toLat != nil && toLng != nil {
		l.ToCoords = &types.Coordinates{Lat: *toLat, Lng: *toLng}
	}
	return &l, nil
}

// --- photos ---

func (s *DiaryStore) CreatePhoto(ctx context.Context, p *types.DiaryPhoto) error {
	query, args, err := psql.Insert("diary_photos").
		Columns("id", "trip_id", "day_number", "object_key", "content_type", "size_bytes", "uploaded_by").
		Values(p.ID, p.TripID, p.DayNumber, p.ObjectKey, p.ContentType, p.SizeBytes, p.UploadedBy).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := s.db.QueryRow(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

func (s *DiaryStore) ListPhotos(ctx context.Context, tripID string, dayNumber int) ([]types.DiaryPhoto, error) {
	query, args, err := psql.Select(photoColumns...).
		From("diary_photos").
		Where(sq.Eq{"trip_id": tripID, "day_number": dayNumber}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	out := []types.DiaryPhoto{}
	for rows.Next() {
		var p types.DiaryPhoto
		if err := rows.Scan(&p.ID, &p.TripID, &p.DayNumber, &p.ObjectKey, &p.ContentType, &p.SizeBytes, &p.UploadedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *DiaryStore) execDelete(ctx context.Context, what, query string, args []any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *DiaryStore) upsertErr(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || pgErrCode(err) == foreignKeyViolation {
		return store.ErrNotFound
	}
	return fmt.Errorf("failed to upsert %s: %w", what, err)
}
