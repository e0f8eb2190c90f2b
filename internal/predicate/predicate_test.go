package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestWhere_FullRouteFilter(t *testing.T) {
	expr := ForRoutes(RouteFilter{
		Airline:     "AA",
		MinDuration: intPtr(60),
		MaxDuration: intPtr(300),
		Aircraft:    []string{"73", "32"},
	})

	sql, args := Where(expr)

	assert.Equal(t, "( route.airline_iata = $1"+
		" AND ( route.average_duration > $2 AND route.average_duration < $3 )"+
		" AND ( strpos(route.aircraft_codes, $4) > 0 OR strpos(route.aircraft_codes, $5) > 0 ) )", sql)
	assert.Equal(t, []any{"AA", 60, 300, "73", "32"}, args)
}

func TestWhere_EmptyFilterMatchesAll(t *testing.T) {
	sql, args := Where(ForRoutes(RouteFilter{}))

	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, args)
}

func TestForRoutes_EmptyAircraftAddsNoPredicate(t *testing.T) {
	expr := ForRoutes(RouteFilter{Airline: "DL", Aircraft: ParseFragments("")})

	assert.Len(t, expr, 1)
	sql, args := Where(expr)
	assert.Equal(t, "( route.airline_iata = $1 )", sql)
	assert.Equal(t, []any{"DL"}, args)
}

func TestForRoutes_SingleBound(t *testing.T) {
	sql, args := Where(ForRoutes(RouteFilter{MaxDuration: intPtr(90)}))

	assert.Equal(t, "( route.average_duration < $1 )", sql)
	assert.Equal(t, []any{90}, args)
}

func TestWhere_ValuesNeverInlined(t *testing.T) {
	hostile := "'; DROP TABLE route; --"
	sql, args := Where(ForRoutes(RouteFilter{Airline: hostile, Aircraft: []string{"%_"}}))

	assert.NotContains(t, sql, "DROP")
	assert.NotContains(t, sql, "%_")
	assert.Equal(t, []any{hostile, "%_"}, args)
}

func TestOr_EmptyLowersToFalse(t *testing.T) {
	sql, _ := Where(Or{})
	assert.Equal(t, "FALSE", sql)
	assert.False(t, Or{}.Match(Fields{}))
}

func TestAnyContains_NoFragments(t *testing.T) {
	assert.Nil(t, AnyContains(RouteAircraft, nil))
	assert.Equal(t, Contains{Column: AircraftCode, Needle: "738"}, AnyContains(AircraftCode, []string{"738"}))
}

func TestMatch_AircraftFragments(t *testing.T) {
	expr := AnyContains(AircraftCode, []string{"73", "32"})

	assert.True(t, expr.Match(Fields{AircraftCode: "B738"}))
	assert.True(t, expr.Match(Fields{AircraftCode: "A320"}))
	assert.False(t, expr.Match(Fields{AircraftCode: "B77W"}))
	assert.False(t, expr.Match(Fields{}))
}

func TestMatch_RouteFilter(t *testing.T) {
	expr := ForRoutes(RouteFilter{
		Airline:     "UA",
		MinDuration: intPtr(60),
		MaxDuration: intPtr(120),
		Aircraft:    []string{"73"},
	})

	row := Fields{RouteAirline: "UA", RouteDuration: 90, RouteAircraft: "320,738"}
	assert.True(t, expr.Match(row))

	cases := map[string]Fields{
		"other airline":   {RouteAirline: "AA", RouteDuration: 90, RouteAircraft: "738"},
		"min is strict":   {RouteAirline: "UA", RouteDuration: 60, RouteAircraft: "738"},
		"max is strict":   {RouteAirline: "UA", RouteDuration: 120, RouteAircraft: "738"},
		"no aircraft":     {RouteAirline: "UA", RouteDuration: 90, RouteAircraft: "320"},
		"wrong type":      {RouteAirline: "UA", RouteDuration: "90", RouteAircraft: "738"},
		"missing columns": {},
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, expr.Match(row))
		})
	}
}

func TestParseFragments(t *testing.T) {
	assert.Equal(t, []string{}, ParseFragments(""))
	assert.Equal(t, []string{}, ParseFragments(" , ,"))
	assert.Equal(t, []string{"73", "32N"}, ParseFragments("73, 32n,,73"))
}
