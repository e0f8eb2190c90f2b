package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/predicate"
	"github.com/jackc/pgx/v5"
)

type ReferenceRepository interface {
	Airlines(ctx context.Context) ([]domain.Airline, error)
	Aircraft(ctx context.Context) ([]domain.Aircraft, error)
	AircraftByRouteCodes(ctx context.Context, codes []string) ([]domain.Aircraft, error)
	KnownAirports(ctx context.Context, codes []string) (map[string]struct{}, error)
	Upsert(ctx context.Context, set domain.ReferenceSet) error
}

type PGReferenceRepository struct {
	db DB
}

func NewReferenceRepository(db DB) ReferenceRepository {
	return &PGReferenceRepository{db: db}
}

const (
	upsertAirportSQL = `INSERT INTO airport (iata_code, icao_code, name, city, country, latitude, longitude, elevation)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (iata_code) DO UPDATE SET icao_code = EXCLUDED.icao_code, name = EXCLUDED.name, city = EXCLUDED.city,
	country = EXCLUDED.country, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, elevation = EXCLUDED.elevation`

	upsertAirlineSQL = `INSERT INTO airline (iata_code, name, logo_path)
VALUES ($1, $2, $3)
ON CONFLICT (iata_code) DO UPDATE SET name = EXCLUDED.name, logo_path = EXCLUDED.logo_path`

	upsertAircraftSQL = `INSERT INTO aircraft (iata_code, model_name, short_name)
VALUES ($1, $2, $3)
ON CONFLICT (iata_code) DO UPDATE SET model_name = EXCLUDED.model_name, short_name = EXCLUDED.short_name`

	upsertRouteSQL = `INSERT INTO route (origin_iata, destination_iata, airline_iata, average_duration, aircraft_codes)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (airline_iata, origin_iata, destination_iata) DO UPDATE SET average_duration = EXCLUDED.average_duration,
	aircraft_codes = EXCLUDED.aircraft_codes`
)

func (r *PGReferenceRepository) Airlines(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT id, iata_code, name, COALESCE(logo_path, '') FROM airline ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list airlines: %w", err)
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.IataCode, &a.Name, &a.LogoPath); err != nil {
			return nil, fmt.Errorf("scan airline: %w", err)
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGReferenceRepository) Aircraft(ctx context.Context) ([]domain.Aircraft, error) {
	return r.queryAircraft(ctx, `SELECT id, iata_code, model_name, short_name FROM aircraft ORDER BY iata_code`)
}

// AircraftByRouteCodes resolves the aircraft whose code contains any of the
// route's codes. A route without codes has no aircraft.
func (r *PGReferenceRepository) AircraftByRouteCodes(ctx context.Context, codes []string) ([]domain.Aircraft, error) {
	match := predicate.AnyContains(predicate.AircraftCode, codes)
	if match == nil {
		return make([]domain.Aircraft, 0), nil
	}

	where, args := predicate.Where(match)
	return r.queryAircraft(ctx, `SELECT id, iata_code, model_name, short_name FROM aircraft WHERE `+where+` ORDER BY iata_code`, args...)
}

func (r *PGReferenceRepository) queryAircraft(ctx context.Context, sql string, args ...any) ([]domain.Aircraft, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list aircraft: %w", err)
	}
	defer rows.Close()

	aircraft := make([]domain.Aircraft, 0)
	for rows.Next() {
		var a domain.Aircraft
		if err := rows.Scan(&a.ID, &a.IataCode, &a.ModelName, &a.ShortName); err != nil {
			return nil, fmt.Errorf("scan aircraft: %w", err)
		}
		aircraft = append(aircraft, a)
	}
	return aircraft, rows.Err()
}

func (r *PGReferenceRepository) KnownAirports(ctx context.Context, codes []string) (map[string]struct{}, error) {
	known := make(map[string]struct{}, len(codes))
	if len(codes) == 0 {
		return known, nil
	}

	rows, err := r.db.Query(ctx, `SELECT iata_code FROM airport WHERE iata_code = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("lookup airports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		known[code] = struct{}{}
	}
	return known, rows.Err()
}

// Upsert writes the whole set in one transaction. Airports, airlines and
// aircraft are queued before routes so their foreign keys resolve.
func (r *PGReferenceRepository) Upsert(ctx context.Context, set domain.ReferenceSet) error {
	batch := upsertBatch(set)
	if batch.Len() == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reference upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("reference upsert statement %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close reference batch: %w", err)
	}

	return tx.Commit(ctx)
}

func upsertBatch(set domain.ReferenceSet) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, a := range set.Airports {
		batch.Queue(upsertAirportSQL, a.IataCode, a.IcaoCode, a.Name, a.City, a.Country, a.Latitude, a.Longitude, a.Elevation)
	}
	for _, a := range set.Airlines {
		batch.Queue(upsertAirlineSQL, a.IataCode, a.Name, a.LogoPath)
	}
	for _, a := range set.Aircraft {
		batch.Queue(upsertAircraftSQL, a.IataCode, a.ModelName, a.ShortName)
	}
	for _, rt := range set.Routes {
		batch.Queue(upsertRouteSQL, rt.OriginIata, rt.DestinationIata, rt.AirlineIata, rt.AverageDuration, domain.JoinCodes(rt.AircraftCodes))
	}
	return batch
}

var _ ReferenceRepository = (*PGReferenceRepository)(nil)
