package repository

import (
	"sort"
	"strings"

	"github.com/Domenick1991/flightroutes/internal/domain"
)

type routeRow struct {
	summary domain.RouteSummary
	codes   []string
}

// aggregateShortNames replaces each route's aircraft codes with the sorted,
// de-duplicated short names of the aircraft that resolve. Unknown codes are dropped.
func aggregateShortNames(rows []routeRow, names map[string]string) []domain.RouteSummary {
	out := make([]domain.RouteSummary, 0, len(rows))
	for _, row := range rows {
		seen := make(map[string]struct{}, len(row.codes))
		short := make([]string, 0, len(row.codes))
		for _, code := range row.codes {
			name, ok := names[code]
			if !ok || name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			short = append(short, name)
		}
		sort.Strings(short)

		s := row.summary
		s.AircraftShortNames = strings.Join(short, ",")
		out = append(out, s)
	}
	return out
}

func distinctCodes(rows []routeRow) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for _, code := range row.codes {
			set[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
