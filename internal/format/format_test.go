package format

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceNM_SamePoint(t *testing.T) {
	assert.Equal(t, 0, DistanceNM(40.6413, -73.7781, 40.6413, -73.7781))
}

func TestDistanceNM_JFKToLAX(t *testing.T) {
	d := DistanceNM(40.6413, -73.7781, 33.9416, -118.4085)
	assert.InDelta(t, 2145, d, 2145*0.02)
	assert.Equal(t, d, DistanceNM(33.9416, -118.4085, 40.6413, -73.7781))
}

func TestMinutes(t *testing.T) {
	cases := map[int]string{
		0:   "0m",
		45:  "45m",
		59:  "59m",
		60:  "1h00m",
		125: "2h05m",
		754: "12h34m",
	}
	for in, want := range cases {
		assert.Equal(t, want, Minutes(in))
	}
}

func TestElevation(t *testing.T) {
	assert.Equal(t, "13 ft", Elevation(13))
	assert.Equal(t, "5,431 ft", Elevation(5431))
	assert.Equal(t, "-11 ft", Elevation(-11))
}

func TestFlightNumber_Deterministic(t *testing.T) {
	first := FlightNumber("DL")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FlightNumber("DL"))
	}
	assert.Equal(t, first, FlightNumber(" dl "))
	assert.Regexp(t, regexp.MustCompile(`^DL[1-9][0-9]{2,3}$`), first)
}

func TestFlightNumber_DistinctAirlines(t *testing.T) {
	assert.NotEqual(t, FlightNumber("AA"), FlightNumber("UA"))
	assert.Regexp(t, `^UA`, FlightNumber("UA"))
}

func TestScope(t *testing.T) {
	assert.Equal(t, Domestic, Scope("United States", "United States"))
	assert.Equal(t, International, Scope("United States", "Canada"))
}

func TestSkyVectorURL(t *testing.T) {
	assert.Equal(t, "https://skyvector.com/?fpl=KJFK%20KLAX", SkyVectorURL("KJFK", "KLAX"))
}
