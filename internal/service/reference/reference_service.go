package reference

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/kafka"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/Domenick1991/flightroutes/pkg/metrics"
)

const publishRetries = 3

type Publisher interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error
}

type ReferenceUseCase interface {
	Import(ctx context.Context, set domain.ReferenceSet) error
	Publish(ctx context.Context, set domain.ReferenceSet) (int, error)
	Apply(ctx context.Context, event kafka.ReferenceEvent) error
}

type ReferenceService struct {
	repo      repository.ReferenceRepository
	publisher Publisher
	topic     string
	log       logger.Logger
	metrics   *metrics.Metrics
}

type ReferenceServiceOption func(*ReferenceService)

// WithPublisher enables Publish. Without it the service can only write to the store.
func WithPublisher(publisher Publisher, topic string) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.publisher = publisher
		s.topic = topic
	}
}

func WithLogger(log logger.Logger) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Metrics) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.metrics = m
	}
}

func NewReferenceService(repo repository.ReferenceRepository, opts ...ReferenceServiceOption) *ReferenceService {
	service := &ReferenceService{
		repo: repo,
		log:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Import validates the set and writes it to the store in one transaction.
func (s *ReferenceService) Import(ctx context.Context, set domain.ReferenceSet) error {
	set = normalize(set)
	if err := s.validate(ctx, set); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, set); err != nil {
		if s.metrics != nil {
			s.metrics.ErrorsCount.WithLabelValues("reference_upsert").Inc()
		}
		return err
	}

	s.count(set)
	s.log.Info("reference data imported",
		"airports", len(set.Airports),
		"airlines", len(set.Airlines),
		"aircraft", len(set.Aircraft),
		"routes", len(set.Routes),
	)
	return nil
}

// Publish validates the set and sends one event per record. It returns the
// number of events sent before any failure.
func (s *ReferenceService) Publish(ctx context.Context, set domain.ReferenceSet) (int, error) {
	if s.publisher == nil {
		return 0, fmt.Errorf("reference publisher is not configured")
	}

	set = normalize(set)
	if err := s.validate(ctx, set); err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range kafka.EventsFor(set) {
		if err := s.publisher.PublishWithRetry(ctx, s.topic, event.Key(), event, publishRetries); err != nil {
			return sent, fmt.Errorf("publish %s: %w", event.Key(), err)
		}
		sent++
	}

	s.log.Info("reference events published", "topic", s.topic, "events", sent)
	return sent, nil
}

func (s *ReferenceService) Apply(ctx context.Context, event kafka.ReferenceEvent) error {
	set, err := event.Set()
	if err != nil {
		return err
	}
	return s.Import(ctx, set)
}

func (s *ReferenceService) validate(ctx context.Context, set domain.ReferenceSet) error {
	for _, a := range set.Airports {
		if a.IataCode == "" {
			return fmt.Errorf("%w: airport %q has no IATA code", domain.ErrInvalidInput, a.Name)
		}
	}
	for _, a := range set.Airlines {
		if a.IataCode == "" {
			return fmt.Errorf("%w: airline %q has no IATA code", domain.ErrInvalidInput, a.Name)
		}
	}
	for _, a := range set.Aircraft {
		if a.IataCode == "" {
			return fmt.Errorf("%w: aircraft %q has no IATA code", domain.ErrInvalidInput, a.ModelName)
		}
	}
	if len(set.Routes) == 0 {
		return nil
	}

	inSet := make(map[string]struct{}, len(set.Airports))
	for _, a := range set.Airports {
		inSet[a.IataCode] = struct{}{}
	}

	missing := make(map[string]struct{})
	for _, r := range set.Routes {
		if err := r.Validate(); err != nil {
			return err
		}
		for _, code := range []string{r.OriginIata, r.DestinationIata} {
			if _, ok := inSet[code]; !ok {
				missing[code] = struct{}{}
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	codes := make([]string, 0, len(missing))
	for code := range missing {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	known, err := s.repo.KnownAirports(ctx, codes)
	if err != nil {
		return err
	}
	for _, code := range codes {
		if _, ok := known[code]; !ok {
			return fmt.Errorf("%w: route references unknown airport %s", domain.ErrInvalidInput, code)
		}
	}
	return nil
}

func (s *ReferenceService) count(set domain.ReferenceSet) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReferenceEvents.WithLabelValues(kafka.EventAirport).Add(float64(len(set.Airports)))
	s.metrics.ReferenceEvents.WithLabelValues(kafka.EventAirline).Add(float64(len(set.Airlines)))
	s.metrics.ReferenceEvents.WithLabelValues(kafka.EventAircraft).Add(float64(len(set.Aircraft)))
	s.metrics.ReferenceEvents.WithLabelValues(kafka.EventRoute).Add(float64(len(set.Routes)))
}

// normalize upper-cases every code so lookups and conflict keys agree.
func normalize(set domain.ReferenceSet) domain.ReferenceSet {
	out := domain.ReferenceSet{
		Airports: make([]domain.Airport, len(set.Airports)),
		Airlines: make([]domain.Airline, len(set.Airlines)),
		Aircraft: make([]domain.Aircraft, len(set.Aircraft)),
		Routes:   make([]domain.Route, len(set.Routes)),
	}
	for i, a := range set.Airports {
		a.IataCode = code(a.IataCode)
		a.IcaoCode = code(a.IcaoCode)
		out.Airports[i] = a
	}
	for i, a := range set.Airlines {
		a.IataCode = code(a.IataCode)
		out.Airlines[i] = a
	}
	for i, a := range set.Aircraft {
		a.IataCode = code(a.IataCode)
		out.Aircraft[i] = a
	}
	for i, r := range set.Routes {
		r.OriginIata = code(r.OriginIata)
		r.DestinationIata = code(r.DestinationIata)
		r.AirlineIata = code(r.AirlineIata)
		codes := make([]string, len(r.AircraftCodes))
		for j, c := range r.AircraftCodes {
			codes[j] = code(c)
		}
		r.AircraftCodes = codes
		out.Routes[i] = r
	}
	return out
}

func code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var _ ReferenceUseCase = (*ReferenceService)(nil)
