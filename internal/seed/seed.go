// Package seed loads reference data from CSV exports.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/jszwec/csvutil"
)

const (
	AirportsFile = "airports.csv"
	AirlinesFile = "airlines.csv"
	AircraftFile = "aircraft.csv"
	RoutesFile   = "routes.csv"
)

type airportRow struct {
	IataCode  string  `csv:"iata_code"`
	IcaoCode  string  `csv:"icao_code"`
	Name      string  `csv:"name"`
	City      string  `csv:"city"`
	Country   string  `csv:"country"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	Elevation int     `csv:"elevation,omitempty"`
}

type airlineRow struct {
	IataCode string `csv:"iata_code"`
	Name     string `csv:"name"`
	LogoPath string `csv:"logo_path,omitempty"`
}

type aircraftRow struct {
	IataCode  string `csv:"iata_code"`
	ModelName string `csv:"model_name"`
	ShortName string `csv:"short_name"`
}

// routeRow keeps aircraft codes in their stored comma separated form, so the
// CSV field is usually quoted.
type routeRow struct {
	AirlineIata     string `csv:"airline_iata"`
	OriginIata      string `csv:"origin_iata"`
	DestinationIata string `csv:"destination_iata"`
	AverageDuration int    `csv:"average_duration"`
	AircraftCodes   string `csv:"aircraft_codes,omitempty"`
}

// LoadDir reads every known file present in dir. Missing files are skipped;
// a directory with none of them is an error.
func LoadDir(dir string) (domain.ReferenceSet, error) {
	var set domain.ReferenceSet
	found := 0

	load := func(name string, parse func(io.Reader) error) error {
		f, err := os.Open(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		defer f.Close()

		found++
		if err := parse(f); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	steps := []struct {
		name  string
		parse func(io.Reader) error
	}{
		{AirportsFile, func(r io.Reader) (err error) { set.Airports, err = ParseAirports(r); return }},
		{AirlinesFile, func(r io.Reader) (err error) { set.Airlines, err = ParseAirlines(r); return }},
		{AircraftFile, func(r io.Reader) (err error) { set.Aircraft, err = ParseAircraft(r); return }},
		{RoutesFile, func(r io.Reader) (err error) { set.Routes, err = ParseRoutes(r); return }},
	}
	for _, step := range steps {
		if err := load(step.name, step.parse); err != nil {
			return set, err
		}
	}

	if found == 0 {
		return set, fmt.Errorf("no reference files found in %s", dir)
	}
	return set, nil
}

func ParseAirports(r io.Reader) ([]domain.Airport, error) {
	var rows []airportRow
	if err := decode(r, &rows); err != nil {
		return nil, err
	}

	airports := make([]domain.Airport, 0, len(rows))
	for _, row := range rows {
		airports = append(airports, domain.Airport{
			IataCode:  row.IataCode,
			IcaoCode:  row.IcaoCode,
			Name:      row.Name,
			City:      row.City,
			Country:   row.Country,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Elevation: row.Elevation,
		})
	}
	return airports, nil
}

func ParseAirlines(r io.Reader) ([]domain.Airline, error) {
	var rows []airlineRow
	if err := decode(r, &rows); err != nil {
		return nil, err
	}

	airlines := make([]domain.Airline, 0, len(rows))
	for _, row := range rows {
		airlines = append(airlines, domain.Airline{IataCode: row.IataCode, Name: row.Name, LogoPath: row.LogoPath})
	}
	return airlines, nil
}

func ParseAircraft(r io.Reader) ([]domain.Aircraft, error) {
	var rows []aircraftRow
	if err := decode(r, &rows); err != nil {
		return nil, err
	}

	aircraft := make([]domain.Aircraft, 0, len(rows))
	for _, row := range rows {
		aircraft = append(aircraft, domain.Aircraft{IataCode: row.IataCode, ModelName: row.ModelName, ShortName: row.ShortName})
	}
	return aircraft, nil
}

func ParseRoutes(r io.Reader) ([]domain.Route, error) {
	var rows []routeRow
	if err := decode(r, &rows); err != nil {
		return nil, err
	}

	routes := make([]domain.Route, 0, len(rows))
	for _, row := range rows {
		routes = append(routes, domain.Route{
			AirlineIata:     row.AirlineIata,
			OriginIata:      row.OriginIata,
			DestinationIata: row.DestinationIata,
			AverageDuration: row.AverageDuration,
			AircraftCodes:   domain.SplitCodes(row.AircraftCodes),
		})
	}
	return routes, nil
}

func decode(r io.Reader, v interface{}) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	decoder, err := csvutil.NewDecoder(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode CSV data: %w", err)
	}
	return nil
}
