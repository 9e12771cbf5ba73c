package geo_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"serveza.dev/Serveza/pkg/geo"
)

var (
	paris     = geo.Point{Latitude: 48.8566, Longitude: 2.3522}
	london    = geo.Point{Latitude: 51.5074, Longitude: -0.1278}
	barA      = geo.Point{Latitude: 48.85, Longitude: 2.35}
	barB      = geo.Point{Latitude: 48.86, Longitude: 2.36}
	antipodeA = geo.Point{Latitude: 0, Longitude: 0}
	antipodeB = geo.Point{Latitude: 0, Longitude: 180}
)

func TestDistance_IdenticalPointsAreZero(t *testing.T) {
	assert.Zero(t, geo.Distance(paris, paris))
	assert.Zero(t, geo.Distance(barA, barA))
}

func TestDistance_IsSymmetric(t *testing.T) {
	assert.InDelta(t, geo.Distance(paris, london), geo.Distance(london, paris), 1e-9)
	assert.InDelta(t, geo.Distance(barA, barB), geo.Distance(barB, barA), 1e-9)
}

func TestDistance_AntipodalPointsAreHalfCircumference(t *testing.T) {
	assert.InDelta(t, math.Pi*geo.EarthRadiusKm, geo.Distance(antipodeA, antipodeB), 1e-6)
}

func TestDistance_KnownDistances(t *testing.T) {
	assert.InDelta(t, 343.6, geo.Distance(paris, london), 1.0)
	assert.InDelta(t, 1.33, geo.Distance(barA, barB), 0.01)
}

// sqlDistance evaluates the SQL rendering of the formula in-process, keeping
// the two implementations honest against each other.
func sqlDistance(position geo.Point, lat, lng float64) float64 {
	rad := func(degrees float64) float64 { return degrees * math.Pi / 180 }

	args := geo.DistanceArgs(position)
	posLat := args[0].(float64)
	posLng := args[2].(float64)

	a := math.Pow(math.Sin((rad(posLat)-rad(lat))/2), 2) +
		math.Cos(rad(posLat))*math.Cos(rad(lat))*math.Pow(math.Sin((rad(posLng)-rad(lng))/2), 2)

	return geo.EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

func TestDistanceSQL_MatchesInProcessFormula(t *testing.T) {
	points := []geo.Point{paris, london, barA, barB, antipodeA, antipodeB}

	for _, from := range points {
		for _, to := range points {
			assert.InDelta(t, geo.Distance(from, to), sqlDistance(from, to.Latitude, to.Longitude), 1e-9)
		}
	}
}

func TestDistanceSQL_BindsOnePlaceholderPerArg(t *testing.T) {
	expr := geo.DistanceSQL("bars.latitude", "bars.longitude")

	assert.Equal(t, len(geo.DistanceArgs(paris)), strings.Count(expr, "?"))
	assert.Equal(t, 2, strings.Count(expr, "bars.latitude"))
	assert.Equal(t, 1, strings.Count(expr, "bars.longitude"))
}
