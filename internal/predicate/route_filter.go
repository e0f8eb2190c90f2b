package predicate

import "strings"

// RouteFilter carries the optional route search inputs. Zero values mean
// "no constraint".
type RouteFilter struct {
	Airline     string
	MinDuration *int
	MaxDuration *int
	Aircraft    []string
}

// ForRoutes builds the conjunction of every predicate the filter asks for.
func ForRoutes(f RouteFilter) And {
	preds := make(And, 0, 3)
	if f.Airline != "" {
		preds = append(preds, Equals{Column: RouteAirline, Value: f.Airline})
	}
	if f.MinDuration != nil || f.MaxDuration != nil {
		preds = append(preds, Range{Column: RouteDuration, Min: f.MinDuration, Max: f.MaxDuration})
	}
	if aircraft := AnyContains(RouteAircraft, f.Aircraft); aircraft != nil {
		preds = append(preds, aircraft)
	}
	return preds
}

// AnyContains ORs one Contains per fragment. It returns nil for an empty
// fragment list so callers can skip the constraint instead of matching nothing.
func AnyContains(col Column, fragments []string) Expr {
	if len(fragments) == 0 {
		return nil
	}
	if len(fragments) == 1 {
		return Contains{Column: col, Needle: fragments[0]}
	}

	or := make(Or, 0, len(fragments))
	for _, f := range fragments {
		or = append(or, Contains{Column: col, Needle: f})
	}
	return or
}

// ParseFragments splits a comma separated aircraft filter. Blank and repeated
// fragments are dropped and the rest upper-cased.
func ParseFragments(raw string) []string {
	fragments := make([]string, 0)
	seen := make(map[string]struct{})
	for _, f := range strings.Split(raw, ",") {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		fragments = append(fragments, f)
	}
	return fragments
}
