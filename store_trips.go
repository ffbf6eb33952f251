package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
)

var tripColumns = []string{
	"id", "status", "type", "title", "slug",
	"intro", "description", "facts", "media", "tags", "itinerary", "extra",
	"created_at", "updated_at",
}

// TripMedia is an uploaded image referenced by trip media blocks.
type TripMedia struct {
	ID          int       `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	MimeType    string    `json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// TripSearchFilters are the public marketplace filters. Category accepts the
// stored trip types plus the tag-derived pseudo-categories winter and cruise.
type TripSearchFilters struct {
	Query    string
	Category string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(scanner rowScanner) (TripDraft, error) {
	var trip TripDraft
	var media, tags, itinerary, extra []byte
	if err := scanner.Scan(
		&trip.ID, &trip.Status, &trip.Type, &trip.Title, &trip.Slug,
		&trip.Intro, &trip.Description, &trip.Facts, &media, &tags, &itinerary, &extra,
		&trip.CreatedAt, &trip.UpdatedAt,
	); err != nil {
		return TripDraft{}, err
	}

	if len(media) > 0 {
		_ = json.Unmarshal(media, &trip.Media)
	}
	if len(tags) > 0 {
		_ = json.Unmarshal(tags, &trip.Tags)
	}
	if len(itinerary) > 0 {
		_ = json.Unmarshal(itinerary, &trip.Itinerary)
	}
	if len(extra) > 0 {
		var extension map[string]json.RawMessage
		if err := json.Unmarshal(extra, &extension); err == nil && len(extension) > 0 {
			trip.Extra = extension
		}
	}
	return trip, nil
}

func tripJSONColumns(trip TripDraft) (media, tags, itinerary, extra []byte) {
	media, _ = json.Marshal(trip.Media)
	tags, _ = json.Marshal(trip.Tags)
	itinerary, _ = json.Marshal(trip.Itinerary)
	extra, _ = json.Marshal(trip.Extra)
	return media, tags, itinerary, extra
}

func (a *App) storeCreateTrip(ctx context.Context, trip *TripDraft) error {
	media, tags, itinerary, extra := tripJSONColumns(*trip)
	return a.db.QueryRowContext(ctx, `
		INSERT INTO trips (id, status, type, title, slug, intro, description, facts, media, tags, itinerary, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, trip.ID, trip.Status, trip.Type, trip.Title, trip.Slug,
		trip.Intro, trip.Description, trip.Facts, media, tags, itinerary, extra,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
}

// storeUpsertTrip writes the full trip representation in a single statement
// and returns the canonical persisted row, including the refreshed updated_at.
func (a *App) storeUpsertTrip(ctx context.Context, trip TripDraft) (*TripDraft, error) {
	media, tags, itinerary, extra := tripJSONColumns(trip)
	row := a.db.QueryRowContext(ctx, `
		INSERT INTO trips (id, status, type, title, slug, intro, description, facts, media, tags, itinerary, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			intro = EXCLUDED.intro,
			description = EXCLUDED.description,
			facts = EXCLUDED.facts,
			media = EXCLUDED.media,
			tags = EXCLUDED.tags,
			itinerary = EXCLUDED.itinerary,
			extra = EXCLUDED.extra,
			updated_at = NOW()
		RETURNING id, status, type, title, slug, intro, description, facts, media, tags, itinerary, extra, created_at, updated_at
	`, trip.ID, trip.Status, trip.Type, trip.Title, trip.Slug,
		trip.Intro, trip.Description, trip.Facts, media, tags, itinerary, extra)

	saved, err := scanTrip(row)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (a *App) storeGetTrip(ctx context.Context, id string) (*TripDraft, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, status, type, title, slug, intro, description, facts, media, tags, itinerary, extra, created_at, updated_at
		FROM trips
		WHERE id = $1
	`, id)
	trip, err := scanTrip(row)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (a *App) storeGetPublishedTripBySlug(ctx context.Context, slug string) (*TripDraft, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, status, type, title, slug, intro, description, facts, media, tags, itinerary, extra, created_at, updated_at
		FROM trips
		WHERE slug = $1 AND status = 'published'
	`, slug)
	trip, err := scanTrip(row)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (a *App) storeAdminListTrips(ctx context.Context) ([]TripDraft, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, status, type, title, slug, intro, description, facts, media, tags, itinerary, extra, created_at, updated_at
		FROM trips
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []TripDraft
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (a *App) storeListTripSlugs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT slug FROM trips`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slugs := make(map[string]struct{})
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs[slug] = struct{}{}
	}
	return slugs, rows.Err()
}

func (a *App) storeDeleteTrip(ctx context.Context, id string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	return err
}

// buildTripSearchQuery assembles the published-trip search. jsonb_exists is
// used instead of the ? operator to keep squirrel's placeholder rewriting out
// of the way.
func buildTripSearchQuery(filters TripSearchFilters, limit, offset int) (string, []any, error) {
	q := tripSearchBase(filters).
		Columns(tripColumns...).
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return q.ToSql()
}

func buildTripSearchCountQuery(filters TripSearchFilters) (string, []any, error) {
	return tripSearchBase(filters).Columns("COUNT(*)").ToSql()
}

func tripSearchBase(filters TripSearchFilters) squirrel.SelectBuilder {
	q := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select().
		From("trips").
		Where(squirrel.Eq{"status": tripStatusPublished})

	switch filters.Category {
	case "":
	case "winter", "cruise":
		q = q.Where(squirrel.Expr("jsonb_exists(tags, ?)", filters.Category))
	default:
		q = q.Where(squirrel.Eq{"type": normalizeTripType(filters.Category)})
	}

	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": like},
			squirrel.ILike{"intro": like},
			squirrel.ILike{"description": like},
		})
	}
	return q
}

func (a *App) storeSearchPublishedTrips(ctx context.Context, filters TripSearchFilters, limit, offset int) ([]TripDraft, int, error) {
	countSQL, countArgs, err := buildTripSearchCountQuery(filters)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := a.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	querySQL, queryArgs, err := buildTripSearchQuery(filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	rows, err := a.db.QueryContext(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []TripDraft
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, trip)
	}
	return trips, total, rows.Err()
}

func (a *App) storeSaveTripMedia(ctx context.Context, m *TripMedia) error {
	return a.db.QueryRowContext(ctx, `
		INSERT INTO trip_media (filename, storage_path, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.Filename, m.StoragePath, m.MimeType, m.SizeBytes).Scan(&m.ID, &m.CreatedAt)
}

func (a *App) storeGetTripMedia(ctx context.Context, filename string) (*TripMedia, error) {
	var m TripMedia
	err := a.db.QueryRowContext(ctx, `
		SELECT id, filename, storage_path, mime_type, size_bytes, created_at
		FROM trip_media
		WHERE filename = $1
	`, filename).Scan(&m.ID, &m.Filename, &m.StoragePath, &m.MimeType, &m.SizeBytes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
