package routes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/format"
	"github.com/Domenick1991/flightroutes/internal/predicate"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/Domenick1991/flightroutes/pkg/metrics"
)

type RouteUseCase interface {
	Search(ctx context.Context, input SearchInput) (*domain.RoutePage, error)
	Detail(ctx context.Context, id int64, aircraft string) (*RouteDetailView, error)
	Airlines(ctx context.Context) ([]domain.Airline, error)
	Aircraft(ctx context.Context) ([]domain.Aircraft, error)
}

// SearchInput holds the raw search parameters. Nil durations and empty
// strings mean "no constraint"; Page 0 means the first page.
type SearchInput struct {
	Airline     string
	Aircraft    string
	MinDuration *int
	MaxDuration *int
	Page        int
}

func (in SearchInput) validate() error {
	if in.Page < 0 {
		return fmt.Errorf("%w: page must be positive", domain.ErrInvalidInput)
	}
	if in.MinDuration != nil && *in.MinDuration < 0 {
		return fmt.Errorf("%w: minDuration must not be negative", domain.ErrInvalidInput)
	}
	if in.MaxDuration != nil && *in.MaxDuration < 0 {
		return fmt.Errorf("%w: maxDuration must not be negative", domain.ErrInvalidInput)
	}
	if in.MinDuration != nil && in.MaxDuration != nil && *in.MinDuration > *in.MaxDuration {
		return fmt.Errorf("%w: minDuration is greater than maxDuration", domain.ErrInvalidInput)
	}
	return nil
}

type AirportView struct {
	domain.Airport
	FormattedElevation string `json:"formatted_elevation"`
}

type AircraftView struct {
	domain.Aircraft
	MatchesFilter bool `json:"matches_filter"`
}

type RouteDetailView struct {
	ID                int64          `json:"id"`
	FlightNumber      string         `json:"flight_number"`
	AverageDuration   int            `json:"average_duration"`
	FormattedDuration string         `json:"formatted_duration"`
	DistanceNM        int            `json:"distance_nm"`
	Scope             string         `json:"scope"`
	SkyVectorURL      string         `json:"skyvector_url"`
	Airline           domain.Airline `json:"airline"`
	Origin            AirportView    `json:"origin"`
	Destination       AirportView    `json:"destination"`
	Aircraft          []AircraftView `json:"aircraft"`
}

type RouteService struct {
	routes    repository.RouteRepository
	reference repository.ReferenceRepository
	pageSize  int
	log       logger.Logger
	metrics   *metrics.Metrics
}

type RouteServiceOption func(*RouteService)

func WithLogger(log logger.Logger) RouteServiceOption {
	return func(s *RouteService) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Metrics) RouteServiceOption {
	return func(s *RouteService) {
		s.metrics = m
	}
}

func NewRouteService(routes repository.RouteRepository, reference repository.ReferenceRepository, pageSize int, opts ...RouteServiceOption) *RouteService {
	service := &RouteService{
		routes:    routes,
		reference: reference,
		pageSize:  pageSize,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *RouteService) Search(ctx context.Context, input SearchInput) (*domain.RoutePage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.Page == 0 {
		input.Page = 1
	}
	page := domain.Page{Number: input.Page, Size: s.pageSize}
	if !page.InRange() {
		return nil, fmt.Errorf("%w: page %d is out of range", domain.ErrInvalidInput, input.Page)
	}

	filter := predicate.RouteFilter{
		Airline:     strings.ToUpper(strings.TrimSpace(input.Airline)),
		MinDuration: input.MinDuration,
		MaxDuration: input.MaxDuration,
		Aircraft:    predicate.ParseFragments(input.Aircraft),
	}

	started := time.Now()
	result, err := s.routes.Search(ctx, filter, page)
	if err != nil {
		s.fail("route_search", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SearchResults.Observe(float64(result.TotalCount))
	}
	s.log.Debug("route search",
		"airline", filter.Airline,
		"aircraft", filter.Aircraft,
		"page", input.Page,
		"total", result.TotalCount,
		"elapsed", time.Since(started),
	)
	return result, nil
}

// Detail loads a route and its aircraft. Aircraft whose code contains one of
// the given fragments are flagged; no fragments flags every aircraft.
func (s *RouteService) Detail(ctx context.Context, id int64, aircraft string) (*RouteDetailView, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: route id must be positive", domain.ErrInvalidInput)
	}

	route, err := s.routes.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.fail("route_detail", err)
		}
		return nil, err
	}

	fleet, err := s.reference.AircraftByRouteCodes(ctx, route.AircraftCodes)
	if err != nil {
		s.fail("route_aircraft", err)
		return nil, err
	}

	highlight := predicate.AnyContains(predicate.AircraftCode, predicate.ParseFragments(aircraft))
	views := make([]AircraftView, 0, len(fleet))
	for _, a := range fleet {
		matches := highlight == nil || highlight.Match(predicate.Fields{predicate.AircraftCode: a.IataCode})
		views = append(views, AircraftView{Aircraft: a, MatchesFilter: matches})
	}

	return &RouteDetailView{
		ID:                route.ID,
		FlightNumber:      format.FlightNumber(route.Airline.IataCode),
		AverageDuration:   route.AverageDuration,
		FormattedDuration: format.Minutes(route.AverageDuration),
		DistanceNM:        format.DistanceNM(route.Origin.Latitude, route.Origin.Longitude, route.Destination.Latitude, route.Destination.Longitude),
		Scope:             format.Scope(route.Origin.Country, route.Destination.Country),
		SkyVectorURL:      format.SkyVectorURL(route.Origin.IcaoCode, route.Destination.IcaoCode),
		Airline:           route.Airline,
		Origin:            AirportView{Airport: route.Origin, FormattedElevation: format.Elevation(route.Origin.Elevation)},
		Destination:       AirportView{Airport: route.Destination, FormattedElevation: format.Elevation(route.Destination.Elevation)},
		Aircraft:          views,
	}, nil
}

func (s *RouteService) Airlines(ctx context.Context) ([]domain.Airline, error) {
	airlines, err := s.reference.Airlines(ctx)
	if err != nil {
		s.fail("list_airlines", err)
		return nil, err
	}
	return airlines, nil
}

func (s *RouteService) Aircraft(ctx context.Context) ([]domain.Aircraft, error) {
	aircraft, err := s.reference.Aircraft(ctx)
	if err != nil {
		s.fail("list_aircraft", err)
		return nil, err
	}
	return aircraft, nil
}

func (s *RouteService) fail(operation string, err error) {
	s.log.Error("store query failed", "operation", operation, "error", err)
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

var _ RouteUseCase = (*RouteService)(nil)
