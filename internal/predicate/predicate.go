// Package predicate holds a small typed expression tree for route and aircraft
// filters. Expressions lower into a parameterised PostgreSQL condition and can
// also be evaluated in memory against a Row.
package predicate

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is a trusted SQL identifier. Only the constants below are used.
type Column string

const (
	RouteAirline  Column = "route.airline_iata"
	RouteDuration Column = "route.average_duration"
	RouteAircraft Column = "route.aircraft_codes"
	AircraftCode  Column = "aircraft.iata_code"
)

type Row interface {
	Value(col Column) (any, bool)
}

// Fields is a map backed Row.
type Fields map[Column]any

func (f Fields) Value(col Column) (any, bool) {
	v, ok := f[col]
	return v, ok
}

type Expr interface {
	SQL(args *Args) string
	Match(row Row) bool
}

// Args collects bind values and hands out their $n placeholders.
type Args struct {
	values []any
}

func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}

// Where lowers e into a condition and its bind values.
func Where(e Expr) (string, []any) {
	var args Args
	return e.SQL(&args), args.Values()
}

type Equals struct {
	Column Column
	Value  any
}

func (e Equals) SQL(args *Args) string {
	return fmt.Sprintf("%s = %s", e.Column, args.Add(e.Value))
}

func (e Equals) Match(row Row) bool {
	v, ok := row.Value(e.Column)
	return ok && v == e.Value
}

// Range bounds an integer column. Both bounds are exclusive and optional.
type Range struct {
	Column Column
	Min    *int
	Max    *int
}

func (r Range) SQL(args *Args) string {
	parts := make([]string, 0, 2)
	if r.Min != nil {
		parts = append(parts, fmt.Sprintf("%s > %s", r.Column, args.Add(*r.Min)))
	}
	if r.Max != nil {
		parts = append(parts, fmt.Sprintf("%s < %s", r.Column, args.Add(*r.Max)))
	}

	switch len(parts) {
	case 0:
		return "TRUE"
	case 1:
		return parts[0]
	default:
		return "( " + strings.Join(parts, " AND ") + " )"
	}
}

func (r Range) Match(row Row) bool {
	v, ok := row.Value(r.Column)
	if !ok {
		return false
	}
	n, ok := asInt64(v)
	if !ok {
		return false
	}
	if r.Min != nil && n <= int64(*r.Min) {
		return false
	}
	if r.Max != nil && n >= int64(*r.Max) {
		return false
	}
	return true
}

// Contains is a plain substring test. strpos is used instead of LIKE so that
// % and _ in the needle carry no meaning.
type Contains struct {
	Column Column
	Needle string
}

func (c Contains) SQL(args *Args) string {
	return fmt.Sprintf("strpos(%s, %s) > 0", c.Column, args.Add(c.Needle))
}

func (c Contains) Match(row Row) bool {
	v, ok := row.Value(c.Column)
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && strings.Contains(s, c.Needle)
}

// And matches everything when empty.
type And []Expr

func (a And) SQL(args *Args) string {
	if len(a) == 0 {
		return "TRUE"
	}
	return join(a, " AND ", args)
}

func (a And) Match(row Row) bool {
	for _, e := range a {
		if !e.Match(row) {
			return false
		}
	}
	return true
}

// Or matches nothing when empty. Builders must not emit an empty Or for an
// optional filter; see AnyContains.
type Or []Expr

func (o Or) SQL(args *Args) string {
	if len(o) == 0 {
		return "FALSE"
	}
	return join(o, " OR ", args)
}

func (o Or) Match(row Row) bool {
	for _, e := range o {
		if e.Match(row) {
			return true
		}
	}
	return false
}

func join(exprs []Expr, sep string, args *Args) string {
	filters := make([]string, 0, len(exprs))
	for _, e := range exprs {
		filters = append(filters, e.SQL(args))
	}
	return fmt.Sprintf("( %s )", strings.Join(filters, sep))
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
