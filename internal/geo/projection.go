package geo

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid and UTM projection constants.
const (
	semiMajorAxis = 6378137.0           // a, in meters
	flattening    = 1 / 298.257223563   // f
	scaleFactor   = 0.9996              // k0
	falseEasting  = 500000.0            // meters, keeps eastings positive
	falseNorthing = 10000000.0          // meters, southern hemisphere only
	eccSquared    = flattening * (2 - flattening)
)

// bandLetters maps floor((latitude+80)/8) to the UTM latitude band. The
// letters I and O are excluded to avoid confusion with the digits 1 and 0;
// the final X is repeated so that latitudes just below 84 fall in band X.
const bandLetters = "CDEFGHJKLMNPQRSTUVWXX"

// UTM latitude domain: the projection is defined for -80 <= lat < 84.
const (
	minUTMLatitude = -80.0
	maxUTMLatitude = 84.0
)

// UTMPosition is the result of projecting a coordinate onto the Universal
// Transverse Mercator grid: a zone designator such as "31N" plus easting and
// northing in meters. It is a transient conversion result, never persisted
// on its own.
type UTMPosition struct {
	Zone     string
	Easting  float64
	Northing float64
}

// String renders the position as "<zone> <easting> <northing>" with the
// easting and northing fixed to two decimal places (centimeter precision).
func (p UTMPosition) String() string {
	return fmt.Sprintf("%s %.2f %.2f", p.Zone, p.Easting, p.Northing)
}

// UTM projects the coordinate onto the UTM grid using the forward
// Transverse Mercator series over the WGS84 ellipsoid. It fails with
// *LocationError for latitudes outside [-80, 84), where UTM is undefined.
func (c Coordinate) UTM() (UTMPosition, error) {
	letter, err := bandLetter(c.lat)
	if err != nil {
		return UTMPosition{}, err
	}

	zoneNumber := zoneNumber(c.lon)
	easting, northing := forwardTM(c.lat, c.lon, zoneNumber)

	return UTMPosition{
		Zone:     fmt.Sprintf("%d%c", zoneNumber, letter),
		Easting:  easting,
		Northing: northing,
	}, nil
}

// UTMString is shorthand for UTM().String().
func (c Coordinate) UTMString() (string, error) {
	pos, err := c.UTM()
	if err != nil {
		return "", err
	}
	return pos.String(), nil
}

// CoordinateFromUTM recovers the geographic coordinate from a UTM position
// by applying the inverse Transverse Mercator series. Zone letters C through
// M denote the southern hemisphere, for which the false northing is removed
// before the series is evaluated, so forward/inverse round-trip for all
// latitudes in the UTM domain.
func CoordinateFromUTM(pos UTMPosition) (Coordinate, error) {
	zone, letter, err := splitZone(pos.Zone)
	if err != nil {
		return Coordinate{}, err
	}

	northing := pos.Northing
	if letter < 'N' {
		northing -= falseNorthing
	}

	lat, lon := inverseTM(pos.Easting, northing, zone)
	return NewCoordinate(lat, lon)
}

// zoneNumber derives the 6-degree UTM zone (1..60) from a longitude.
func zoneNumber(longitude float64) int {
	zone := int(math.Floor((longitude+180)/6)) + 1
	if zone > 60 {
		zone = 60 // longitude exactly +180 belongs to the last zone
	}
	return zone
}

// bandLetter derives the latitude band letter, failing for latitudes where
// the UTM grid is not defined.
func bandLetter(latitude float64) (byte, error) {
	if latitude < minUTMLatitude || latitude >= maxUTMLatitude {
		return 0, &LocationError{Field: "latitude", Value: latitude, Reason: "UTM range exceeded"}
	}
	return bandLetters[int(math.Floor((latitude+80)/8))], nil
}

// centralMeridian returns the central meridian of a zone in degrees.
func centralMeridian(zone int) float64 {
	return float64((zone-1)*6 - 180 + 3)
}

// forwardTM evaluates the forward Transverse Mercator series (Krüger form,
// truncated at the order used by reference UTM implementations; error below
// one millimeter within a zone) and applies the UTM false offsets.
func forwardTM(latitude, longitude float64, zone int) (easting, northing float64) {
	phi := toRadians(latitude)
	eccPrime := eccSquared / (1 - eccSquared)

	sinPhi, cosPhi, tanPhi := math.Sin(phi), math.Cos(phi), math.Tan(phi)

	n := semiMajorAxis / math.Sqrt(1-eccSquared*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := eccPrime * cosPhi * cosPhi
	a := cosPhi * toRadians(longitude-centralMeridian(zone))

	m := meridionalArc(phi)

	easting = scaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*eccPrime)*a*a*a*a*a/120) + falseEasting

	northing = scaleFactor * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*eccPrime)*a*a*a*a*a*a/720))
	if latitude < 0 {
		northing += falseNorthing
	}

	return easting, northing
}

// meridionalArc computes the distance along the meridian from the equator to
// latitude phi (radians) on the WGS84 ellipsoid.
func meridionalArc(phi float64) float64 {
	e2 := eccSquared
	e4 := e2 * e2
	e6 := e4 * e2

	return semiMajorAxis * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// inverseTM evaluates the inverse Transverse Mercator series. The northing
// must already have the false-northing offset removed for southern
// hemisphere positions.
func inverseTM(easting, northing float64, zone int) (latitude, longitude float64) {
	e2 := eccSquared
	e4 := e2 * e2
	e6 := e4 * e2
	eccPrime := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	x := easting - falseEasting
	m := northing / scaleFactor

	// Footpoint latitude from the meridional arc.
	mu := m / (semiMajorAxis * (1 - e2/4 - 3*e4/64 - 5*e6/256))
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1, tanPhi1 := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)

	n1 := semiMajorAxis / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	t1 := tanPhi1 * tanPhi1
	c1 := eccPrime * cosPhi1 * cosPhi1
	r1 := semiMajorAxis * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scaleFactor)

	phi := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*eccPrime)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*eccPrime-3*c1*c1)*d*d*d*d*d*d/720)

	lambda := (d - (1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*eccPrime+24*t1*t1)*d*d*d*d*d/120) / cosPhi1

	return toDegrees(phi), centralMeridian(zone) + toDegrees(lambda)
}

// splitZone parses a zone designator such as "31N" into its number and band
// letter, validating both.
func splitZone(zone string) (int, byte, error) {
	if len(zone) < 2 {
		return 0, 0, malformed(FormatUTM, zone, "zone must be a number followed by a band letter")
	}

	letter := zone[len(zone)-1]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	var number int
	if _, err := fmt.Sscanf(zone[:len(zone)-1], "%d", &number); err != nil {
		return 0, 0, malformed(FormatUTM, zone, "zone number is not an integer")
	}
	if number < 1 || number > 60 {
		return 0, 0, malformed(FormatUTM, zone, "zone number must be within 1..60")
	}
	if letter < 'C' || letter > 'X' || letter == 'I' || letter == 'O' {
		return 0, 0, malformed(FormatUTM, zone, "invalid band letter")
	}

	return number, letter, nil
}
