// Package format computes the derived display values of the route detail view.
package format

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const earthRadiusNM = 3440.065

var printer = message.NewPrinter(language.English)

// DistanceNM is the great-circle distance between two points given in decimal
// degrees, rounded to the nearest nautical mile.
func DistanceNM(lat1, lon1, lat2, lon2 float64) int {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(earthRadiusNM * c))
}

// Minutes renders a duration as "45m" or "2h05m". Only for display, ordering
// always uses the raw minutes.
func Minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

// Elevation renders feet with thousands separators, e.g. "1,234 ft".
func Elevation(ft int) string {
	return printer.Sprintf("%d ft", ft)
}

// FlightNumber derives a display flight number from the airline code. The
// number only depends on the code, so every render of a route shows the same one.
func FlightNumber(airlineIata string) string {
	code := strings.ToUpper(strings.TrimSpace(airlineIata))
	return fmt.Sprintf("%s%d", code, 100+xxhash.Sum64String(code)%9900)
}

const (
	Domestic      = "Domestic"
	International = "International"
)

func Scope(originCountry, destinationCountry string) string {
	if strings.EqualFold(originCountry, destinationCountry) {
		return Domestic
	}
	return International
}

// SkyVectorURL opens the origin/destination pair as a flight plan on skyvector.com.
func SkyVectorURL(originIcao, destinationIcao string) string {
	return fmt.Sprintf("https://skyvector.com/?fpl=%s%%20%s", url.QueryEscape(originIcao), url.QueryEscape(destinationIcao))
}
