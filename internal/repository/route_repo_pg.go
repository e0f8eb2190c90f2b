package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/predicate"
	"github.com/jackc/pgx/v5"
)

type RouteRepository interface {
	Search(ctx context.Context, filter predicate.RouteFilter, page domain.Page) (*domain.RoutePage, error)
	GetByID(ctx context.Context, id int64) (*domain.RouteDetail, error)
}

type PGRouteRepository struct {
	db DB
}

func NewRouteRepository(db DB) RouteRepository {
	return &PGRouteRepository{db: db}
}

const routeSearchFrom = `
FROM route
JOIN airport AS origin ON route.origin_iata = origin.iata_code
JOIN airport AS destination ON route.destination_iata = destination.iata_code`

const routeDetailQuery = `SELECT
	route.id, route.average_duration, route.aircraft_codes,
	airline.id, airline.iata_code, airline.name, COALESCE(airline.logo_path, ''),
	origin.id, origin.iata_code, origin.icao_code, origin.name, origin.city, origin.country,
	origin.latitude, origin.longitude, COALESCE(origin.elevation, 0),
	destination.id, destination.iata_code, destination.icao_code, destination.name, destination.city, destination.country,
	destination.latitude, destination.longitude, COALESCE(destination.elevation, 0)
FROM route
JOIN airline ON route.airline_iata = airline.iata_code
JOIN airport AS origin ON route.origin_iata = origin.iata_code
JOIN airport AS destination ON route.destination_iata = destination.iata_code
WHERE route.id = $1`

// searchQueries lowers the filter once and shares the condition between the
// count and the page query. The page query additionally binds LIMIT/OFFSET.
func searchQueries(where predicate.Expr, page domain.Page) (countSQL string, countArgs []any, pageSQL string, pageArgs []any) {
	var args predicate.Args
	cond := where.SQL(&args)

	countSQL = `SELECT count(*)` + routeSearchFrom + `
WHERE ` + cond
	countArgs = append([]any(nil), args.Values()...)

	limit := args.Add(page.Size)
	offset := args.Add(page.Offset())
	pageSQL = `SELECT route.id, route.origin_iata, route.destination_iata, origin.name, destination.name, route.average_duration, route.aircraft_codes` + routeSearchFrom + `
WHERE ` + cond + `
ORDER BY route.average_duration, route.id
LIMIT ` + limit + ` OFFSET ` + offset
	pageArgs = args.Values()

	return countSQL, countArgs, pageSQL, pageArgs
}

func (r *PGRouteRepository) Search(ctx context.Context, filter predicate.RouteFilter, page domain.Page) (*domain.RoutePage, error) {
	if !page.InRange() {
		return nil, fmt.Errorf("%w: page %d of size %d is out of range", domain.ErrInvalidInput, page.Number, page.Size)
	}

	countSQL, countArgs, pageSQL, pageArgs := searchQueries(predicate.ForRoutes(filter), page)

	result := &domain.RoutePage{Data: make([]domain.RouteSummary, 0)}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return nil, fmt.Errorf("count routes: %w", err)
	}
	if int64(page.Offset()) >= result.TotalCount {
		return result, nil
	}

	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("search routes: %w", err)
	}
	defer rows.Close()

	routes := make([]routeRow, 0, page.Size)
	for rows.Next() {
		var row routeRow
		var codes string
		s := &row.summary
		if err := rows.Scan(&s.ID, &s.OriginIata, &s.DestinationIata, &s.OriginName, &s.DestinationName, &s.AverageDuration, &codes); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		row.codes = domain.SplitCodes(codes)
		routes = append(routes, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search routes: %w", err)
	}

	names, err := r.shortNames(ctx, distinctCodes(routes))
	if err != nil {
		return nil, err
	}
	result.Data = aggregateShortNames(routes, names)
	return result, nil
}

func (r *PGRouteRepository) shortNames(ctx context.Context, codes []string) (map[string]string, error) {
	names := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return names, nil
	}

	rows, err := r.db.Query(ctx, `SELECT iata_code, short_name FROM aircraft WHERE iata_code = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("aircraft short names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("scan aircraft short name: %w", err)
		}
		names[code] = name
	}
	return names, rows.Err()
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	var d domain.RouteDetail
	var codes string
	a, o, dst := &d.Airline, &d.Origin, &d.Destination
	err := r.db.QueryRow(ctx, routeDetailQuery, id).Scan(
		&d.ID, &d.AverageDuration, &codes,
		&a.ID, &a.IataCode, &a.Name, &a.LogoPath,
		&o.ID, &o.IataCode, &o.IcaoCode, &o.Name, &o.City, &o.Country, &o.Latitude, &o.Longitude, &o.Elevation,
		&dst.ID, &dst.IataCode, &dst.IcaoCode, &dst.Name, &dst.City, &dst.Country, &dst.Latitude, &dst.Longitude, &dst.Elevation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("route %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get route %d: %w", id, err)
	}
	d.AircraftCodes = domain.SplitCodes(codes)
	return &d, nil
}

var _ RouteRepository = (*PGRouteRepository)(nil)
