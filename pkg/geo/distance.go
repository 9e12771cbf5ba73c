package geo

import (
	"context"
	"fmt"
	"math"
)

// EarthRadiusKm is the approximate radius of earth in kilometers.
const EarthRadiusKm = 6373.0

type Point struct {
	Latitude  float64
	Longitude float64
}

// Distance returns the great-circle distance in kilometers between two
// points given in degrees, using the haversine formula.
func Distance(from Point, to Point) float64 {
	fromLat := radians(from.Latitude)
	fromLng := radians(from.Longitude)
	toLat := radians(to.Latitude)
	toLng := radians(to.Longitude)

	deltaLat := fromLat - toLat
	deltaLng := fromLng - toLng

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(fromLat)*math.Cos(toLat)*math.Pow(math.Sin(deltaLng/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// DistanceSQL renders the haversine formula as a SQL expression over the
// given latitude/longitude columns, so ordering and radius filtering happen
// in the database rather than after materializing every row. The reference
// point is left as three placeholders, bound in order by DistanceArgs.
// sin, cos, asin, sqrt, radians and pow are all native PostgreSQL functions.
func DistanceSQL(latColumn, lngColumn string) string {
	return fmt.Sprintf(
		"%g * 2 * asin(sqrt(pow(sin((radians(?) - radians(%s)) / 2), 2) + cos(radians(?)) * cos(radians(%s)) * pow(sin((radians(?) - radians(%s)) / 2), 2)))",
		EarthRadiusKm, latColumn, latColumn, lngColumn)
}

// DistanceArgs binds a reference point to the placeholders of DistanceSQL.
func DistanceArgs(position Point) []interface{} {
	return []interface{}{position.Latitude, position.Latitude, position.Longitude}
}

// ReverseGeocoder resolves a human-readable address for a point. Lookup is
// delegated to an external service; a bar's address is omitted when no
// geocoder is wired in.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, position Point) (string, error)
}
