package domain

import (
	"fmt"
	"math"
	"strings"
)

type Route struct {
	ID              int64    `json:"id"`
	OriginIata      string   `json:"origin_iata"`
	DestinationIata string   `json:"destination_iata"`
	AirlineIata     string   `json:"airline_iata"`
	AverageDuration int      `json:"average_duration"`
	AircraftCodes   []string `json:"aircraft_codes"`
}

// Validate checks the invariants every stored route must hold.
func (r Route) Validate() error {
	if r.OriginIata == "" || r.DestinationIata == "" {
		return fmt.Errorf("%w: route origin and destination are required", ErrInvalidInput)
	}
	if strings.EqualFold(r.OriginIata, r.DestinationIata) {
		return fmt.Errorf("%w: route %s-%s has identical origin and destination", ErrInvalidInput, r.OriginIata, r.DestinationIata)
	}
	if r.AirlineIata == "" {
		return fmt.Errorf("%w: route %s-%s has no airline", ErrInvalidInput, r.OriginIata, r.DestinationIata)
	}
	if r.AverageDuration <= 0 {
		return fmt.Errorf("%w: route %s-%s duration must be positive", ErrInvalidInput, r.OriginIata, r.DestinationIata)
	}
	return nil
}

// SplitCodes parses the delimited aircraft code column.
func SplitCodes(raw string) []string {
	codes := make([]string, 0)
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func JoinCodes(codes []string) string {
	return strings.Join(codes, ",")
}

// RouteSummary is one row of the route search result.
type RouteSummary struct {
	ID                 int64  `json:"id"`
	OriginIata         string `json:"origin_iata"`
	DestinationIata    string `json:"destination_iata"`
	OriginName         string `json:"origin_name"`
	DestinationName    string `json:"destination_name"`
	AverageDuration    int    `json:"average_duration"`
	AircraftShortNames string `json:"aircraft_short_names"`
}

type RoutePage struct {
	TotalCount int64          `json:"totalCount"`
	Data       []RouteSummary `json:"data"`
}

// RouteDetail is a route joined with its airline and both airports.
type RouteDetail struct {
	ID              int64
	AverageDuration int
	AircraftCodes   []string
	Airline         Airline
	Origin          Airport
	Destination     Airport
}

// Page selects a 1-based page of Size rows.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// InRange reports whether the page is 1-based with a positive size and its
// offset fits in an int.
func (p Page) InRange() bool {
	return p.Number >= 1 && p.Size > 0 && p.Number-1 <= math.MaxInt/p.Size
}
