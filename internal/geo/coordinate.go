package geo

import (
	"fmt"
	"math"
)

// Valid WGS84 coordinate ranges, in decimal degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
// The spherical approximation keeps the error below 0.5%.
const earthRadiusKm = 6371.0

// Coordinate is an immutable, validated geographic point on the WGS84
// ellipsoid (EPSG:4326). The zero value is the point (0, 0); every other
// instance must be obtained through NewCoordinate or one of the Parse*
// functions, which reject out-of-range values before construction completes.
// Instances are safe to share across goroutines without synchronization.
type Coordinate struct {
	lat float64
	lon float64
}

// NewCoordinate validates latitude and longitude and returns the coordinate.
// It fails with *LocationError if latitude is outside [-90, 90] or longitude
// is outside [-180, 180]. Values are never clamped.
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if latitude < MinLatitude || latitude > MaxLatitude || math.IsNaN(latitude) {
		return Coordinate{}, &LocationError{Field: "latitude", Value: latitude, Reason: "must be within [-90, 90]"}
	}
	if longitude < MinLongitude || longitude > MaxLongitude || math.IsNaN(longitude) {
		return Coordinate{}, &LocationError{Field: "longitude", Value: longitude, Reason: "must be within [-180, 180]"}
	}

	return Coordinate{lat: latitude, lon: longitude}, nil
}

// Latitude returns the latitude in decimal degrees.
func (c Coordinate) Latitude() float64 { return c.lat }

// Longitude returns the longitude in decimal degrees.
func (c Coordinate) Longitude() float64 { return c.lon }

// Equal reports whether both coordinates hold exactly equal latitude and
// longitude values.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.lat == other.lat && c.lon == other.lon
}

// Compare orders coordinates lexicographically, latitude first and then
// longitude, for use in sorted containers. It returns -1, 0, or +1.
func (c Coordinate) Compare(other Coordinate) int {
	switch {
	case c.lat < other.lat:
		return -1
	case c.lat > other.lat:
		return 1
	case c.lon < other.lon:
		return -1
	case c.lon > other.lon:
		return 1
	default:
		return 0
	}
}

// String renders the coordinate as a decimal pair, e.g. "41.9028;12.4964".
func (c Coordinate) String() string {
	return fmt.Sprintf("%s;%s", formatFloat(c.lat), formatFloat(c.lon))
}

// DistanceTo computes the great-circle distance to other using the Haversine
// formula over a spherical Earth of radius 6371 km. The result carries its
// unit and can be converted via Distance.In.
func (c Coordinate) DistanceTo(other Coordinate) Distance {
	phi1 := toRadians(c.lat)
	phi2 := toRadians(other.lat)
	dPhi := toRadians(other.lat - c.lat)
	dLambda := toRadians(other.lon - c.lon)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	central := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return Distance{value: earthRadiusKm * central, unit: Kilometers}
}

// DMSAngle is the degrees-minutes-seconds decomposition of one coordinate
// component. Degrees, minutes, and seconds are always the absolute value;
// the hemisphere letter carries the sign.
type DMSAngle struct {
	Degrees    int
	Minutes    int
	Seconds    float64
	Hemisphere string // "N", "S", "E", or "W"
}

// Decimal converts the decomposition back to signed decimal degrees.
func (a DMSAngle) Decimal() float64 {
	deg := float64(a.Degrees) + float64(a.Minutes)/60 + a.Seconds/3600
	if a.Hemisphere == hemiSouth || a.Hemisphere == hemiWest {
		return -deg
	}
	return deg
}

// DMAngle is the degrees-decimal-minutes decomposition of one coordinate
// component, following the same sign convention as DMSAngle.
type DMAngle struct {
	Degrees    int
	Minutes    float64
	Hemisphere string // "N", "S", "E", or "W"
}

// Decimal converts the decomposition back to signed decimal degrees.
func (a DMAngle) Decimal() float64 {
	deg := float64(a.Degrees) + a.Minutes/60
	if a.Hemisphere == hemiSouth || a.Hemisphere == hemiWest {
		return -deg
	}
	return deg
}

// NumericDMS decomposes the coordinate into degrees-minutes-seconds tuples
// for latitude and longitude, suitable for round-trip use without string
// formatting.
func (c Coordinate) NumericDMS() (DMSAngle, DMSAngle) {
	return splitDMS(c.lat, hemiNorth, hemiSouth), splitDMS(c.lon, hemiEast, hemiWest)
}

// NumericDM decomposes the coordinate into degrees-decimal-minutes tuples
// for latitude and longitude.
func (c Coordinate) NumericDM() (DMAngle, DMAngle) {
	return splitDM(c.lat, hemiNorth, hemiSouth), splitDM(c.lon, hemiEast, hemiWest)
}

// DMS formats the coordinate in degrees-minutes-seconds notation, e.g.
// `41° 54' 10.08" N, 12° 29' 47.04" E`.
func (c Coordinate) DMS() string {
	lat, lon := c.NumericDMS()
	return fmt.Sprintf("%s, %s", formatDMS(lat), formatDMS(lon))
}

// DM formats the coordinate in degrees-decimal-minutes notation, e.g.
// `41° 54.168' N, 12° 29.784' E`.
func (c Coordinate) DM() string {
	lat, lon := c.NumericDM()
	return fmt.Sprintf("%s, %s", formatDM(lat), formatDM(lon))
}

// splitDMS breaks a signed decimal degree value into its absolute
// degrees/minutes/seconds parts plus the hemisphere letter.
func splitDMS(value float64, positive, negative string) DMSAngle {
	hemi := positive
	if value < 0 {
		hemi = negative
	}
	abs := math.Abs(value)
	degrees := int(abs)
	fracMinutes := (abs - float64(degrees)) * 60
	minutes := int(fracMinutes)
	seconds := (fracMinutes - float64(minutes)) * 60

	return DMSAngle{Degrees: degrees, Minutes: minutes, Seconds: seconds, Hemisphere: hemi}
}

// splitDM breaks a signed decimal degree value into its absolute
// degrees/decimal-minutes parts plus the hemisphere letter.
func splitDM(value float64, positive, negative string) DMAngle {
	hemi := positive
	if value < 0 {
		hemi = negative
	}
	abs := math.Abs(value)
	degrees := int(abs)
	minutes := (abs - float64(degrees)) * 60

	return DMAngle{Degrees: degrees, Minutes: minutes, Hemisphere: hemi}
}

func formatDMS(a DMSAngle) string {
	degrees, minutes, seconds := a.Degrees, a.Minutes, a.Seconds
	// Rounding seconds to two decimals may carry into the next minute.
	if seconds+0.005 >= 60 {
		seconds = 0
		minutes++
		if minutes == 60 {
			minutes = 0
			degrees++
		}
	}
	return fmt.Sprintf("%d° %d' %.2f\" %s", degrees, minutes, seconds, a.Hemisphere)
}

func formatDM(a DMAngle) string {
	degrees, minutes := a.Degrees, a.Minutes
	if minutes+0.0005 >= 60 {
		minutes = 0
		degrees++
	}
	return fmt.Sprintf("%d° %.3f' %s", degrees, minutes, a.Hemisphere)
}

func toRadians(degrees float64) float64 { return degrees * math.Pi / 180 }

func toDegrees(radians float64) float64 { return radians * 180 / math.Pi }
