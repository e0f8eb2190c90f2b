package kafka

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightroutes/internal/domain"
)

const (
	EventAirport  = "airport"
	EventAirline  = "airline"
	EventAircraft = "aircraft"
	EventRoute    = "route"
)

// ReferenceEvent carries one reference record. Exactly one payload field is
// set, matching Type.
type ReferenceEvent struct {
	Type     string           `json:"type"`
	Airport  *domain.Airport  `json:"airport,omitempty"`
	Airline  *domain.Airline  `json:"airline,omitempty"`
	Aircraft *domain.Aircraft `json:"aircraft,omitempty"`
	Route    *domain.Route    `json:"route,omitempty"`
}

// Key partitions events by entity so updates to one record stay ordered.
func (e ReferenceEvent) Key() string {
	switch {
	case e.Airport != nil:
		return EventAirport + ":" + e.Airport.IataCode
	case e.Airline != nil:
		return EventAirline + ":" + e.Airline.IataCode
	case e.Aircraft != nil:
		return EventAircraft + ":" + e.Aircraft.IataCode
	case e.Route != nil:
		return fmt.Sprintf("%s:%s-%s-%s", EventRoute, e.Route.AirlineIata, e.Route.OriginIata, e.Route.DestinationIata)
	}
	return e.Type
}

// Set returns the event as a single-record reference set.
func (e ReferenceEvent) Set() (domain.ReferenceSet, error) {
	var set domain.ReferenceSet
	switch {
	case e.Type == EventAirport && e.Airport != nil:
		set.Airports = []domain.Airport{*e.Airport}
	case e.Type == EventAirline && e.Airline != nil:
		set.Airlines = []domain.Airline{*e.Airline}
	case e.Type == EventAircraft && e.Aircraft != nil:
		set.Aircraft = []domain.Aircraft{*e.Aircraft}
	case e.Type == EventRoute && e.Route != nil:
		set.Routes = []domain.Route{*e.Route}
	default:
		return set, fmt.Errorf("%w: event type %q without matching payload", domain.ErrInvalidInput, e.Type)
	}
	return set, nil
}

func DecodeReferenceEvent(data []byte) (ReferenceEvent, error) {
	var event ReferenceEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("%w: decode reference event: %v", domain.ErrInvalidInput, err)
	}
	event.Type = strings.ToLower(strings.TrimSpace(event.Type))
	return event, nil
}

// EventsFor splits a reference set into one event per record, in the order
// the records must be applied.
func EventsFor(set domain.ReferenceSet) []ReferenceEvent {
	events := make([]ReferenceEvent, 0, set.Len())
	for i := range set.Airports {
		events = append(events, ReferenceEvent{Type: EventAirport, Airport: &set.Airports[i]})
	}
	for i := range set.Airlines {
		events = append(events, ReferenceEvent{Type: EventAirline, Airline: &set.Airlines[i]})
	}
	for i := range set.Aircraft {
		events = append(events, ReferenceEvent{Type: EventAircraft, Aircraft: &set.Aircraft[i]})
	}
	for i := range set.Routes {
		events = append(events, ReferenceEvent{Type: EventRoute, Route: &set.Routes[i]})
	}
	return events
}
