package geo

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Format identifies one of the textual coordinate representations the codec
// understands.
type Format string

const (
	FormatDecimal Format = "decimal"
	FormatDMS     Format = "dms"
	FormatDM      Format = "dm"
	FormatUTM     Format = "utm"
	FormatWKT     Format = "wkt"
	FormatGeoJSON Format = "geojson"
	FormatPostGIS Format = "postgis"
)

// Hemisphere suffix letters used by the DMS and DM notations.
const (
	hemiNorth = "N"
	hemiSouth = "S"
	hemiEast  = "E"
	hemiWest  = "W"
)

const srid4326 = "SRID=4326"

var (
	dmsHalfPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)°\s*(\d+(?:\.\d+)?)'\s*(\d+(?:\.\d+)?)"\s*([NSEW])$`)
	dmHalfPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)°\s*(\d+(?:\.\d+)?)'\s*([NSEW])$`)
	utmPattern     = regexp.MustCompile(`^\d{1,2}[C-HJ-NP-Xc-hj-np-x]\s`)
)

// formatFloat renders a float with the fewest digits that round-trip exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WKT renders the coordinate as Well-Known Text, longitude before latitude
// per the WKT convention, e.g. "POINT(12.4964 41.9028)".
func (c Coordinate) WKT() string {
	return fmt.Sprintf("POINT(%s %s)", formatFloat(c.lon), formatFloat(c.lat))
}

// GeoJSON renders the coordinate as a GeoJSON Point geometry.
func (c Coordinate) GeoJSON() string {
	return fmt.Sprintf(`{"type":"Point","coordinates":[%s,%s]}`, formatFloat(c.lon), formatFloat(c.lat))
}

// PostGIS renders the coordinate as PostGIS extended WKT with the WGS84 SRID,
// e.g. "SRID=4326;POINT(12.4964 41.9028)".
func (c Coordinate) PostGIS() string {
	return srid4326 + ";" + c.WKT()
}

// ParseDecimal parses "<lat>;<lon>" or "<lat>,<lon>". Surrounding whitespace
// around either number is ignored.
func ParseDecimal(input string) (Coordinate, error) {
	sep := ";"
	if !strings.Contains(input, sep) {
		sep = ","
	}
	parts := strings.Split(input, sep)
	if len(parts) != 2 {
		return Coordinate{}, malformed(FormatDecimal, input, "expected two values separated by ';' or ','")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, malformed(FormatDecimal, parts[0], "latitude is not a number")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, malformed(FormatDecimal, parts[1], "longitude is not a number")
	}

	return NewCoordinate(lat, lon)
}

// ParseDMS parses degrees-minutes-seconds notation such as
// `41° 54' 10.08" N, 12° 29' 47.04" E`. The two halves may be separated by
// ';' or ','; if neither is present the text is split after the first
// latitude direction letter.
func ParseDMS(input string) (Coordinate, error) {
	latText, lonText, err := splitHalves(FormatDMS, input)
	if err != nil {
		return Coordinate{}, err
	}

	lat, err := parseDMSHalf(latText, hemiNorth, hemiSouth)
	if err != nil {
		return Coordinate{}, err
	}
	lon, err := parseDMSHalf(lonText, hemiEast, hemiWest)
	if err != nil {
		return Coordinate{}, err
	}

	return NewCoordinate(lat, lon)
}

// ParseDM parses degrees-decimal-minutes notation such as
// `41° 54.168' N, 12° 29.784' E`, with the same separator rules as ParseDMS.
func ParseDM(input string) (Coordinate, error) {
	latText, lonText, err := splitHalves(FormatDM, input)
	if err != nil {
		return Coordinate{}, err
	}

	lat, err := parseDMHalf(latText, hemiNorth, hemiSouth)
	if err != nil {
		return Coordinate{}, err
	}
	lon, err := parseDMHalf(lonText, hemiEast, hemiWest)
	if err != nil {
		return Coordinate{}, err
	}

	return NewCoordinate(lat, lon)
}

// ParseUTM parses "<zone><letter> <easting> <northing>" and applies the
// inverse projection.
func ParseUTM(input string) (Coordinate, error) {
	tokens := strings.Fields(strings.TrimSpace(input))
	if len(tokens) != 3 {
		return Coordinate{}, malformed(FormatUTM, input, "expected zone, easting and northing separated by spaces")
	}

	easting, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return Coordinate{}, malformed(FormatUTM, tokens[1], "easting is not a number")
	}
	northing, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return Coordinate{}, malformed(FormatUTM, tokens[2], "northing is not a number")
	}

	return CoordinateFromUTM(UTMPosition{Zone: tokens[0], Easting: easting, Northing: northing})
}

// ParseWKT parses a Well-Known Text point, "POINT(lon lat)". Any other
// geometry tag fails with *ExpectationMismatchError.
func ParseWKT(input string) (Coordinate, error) {
	tag, body, err := splitWKT(FormatWKT, input)
	if err != nil {
		return Coordinate{}, err
	}
	if tag != "POINT" {
		return Coordinate{}, &ExpectationMismatchError{Expected: "POINT geometry", Got: tag}
	}

	lon, lat, err := parseWKTPair(body)
	if err != nil {
		return Coordinate{}, err
	}

	return NewCoordinate(lat, lon)
}

// geoJSONGeometry mirrors the subset of GeoJSON geometry the codec accepts.
type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeoJSON parses a GeoJSON Point geometry. Invalid JSON fails with
// *MalformedInputError; a geometry type other than "Point" fails with
// *ExpectationMismatchError.
func ParseGeoJSON(input string) (Coordinate, error) {
	var geom geoJSONGeometry
	if err := json.Unmarshal([]byte(input), &geom); err != nil {
		return Coordinate{}, malformed(FormatGeoJSON, input, "invalid JSON")
	}
	if geom.Type != "Point" {
		return Coordinate{}, &ExpectationMismatchError{Expected: "Point geometry", Got: geom.Type}
	}

	var position []float64
	if err := json.Unmarshal(geom.Coordinates, &position); err != nil || len(position) < 2 {
		return Coordinate{}, malformed(FormatGeoJSON, string(geom.Coordinates), "coordinates must be [lon, lat]")
	}

	return NewCoordinate(position[1], position[0])
}

// ParsePostGIS parses extended WKT, "SRID=4326;POINT(lon lat)". Any SRID
// other than 4326 is a hard rejection via *ExpectationMismatchError; no
// datum conversion is attempted.
func ParsePostGIS(input string) (Coordinate, error) {
	rest, err := stripSRID(input)
	if err != nil {
		return Coordinate{}, err
	}
	return ParseWKT(rest)
}

// DetectFormat classifies raw location text by its leading structure so the
// normalizer can route it to the matching parser. Text matching none of the
// structured grammars is classified as decimal.
func DetectFormat(input string) Format {
	trimmed := strings.TrimSpace(input)
	upper := strings.ToUpper(trimmed)

	switch {
	case strings.HasPrefix(upper, "SRID="):
		return FormatPostGIS
	case strings.HasPrefix(upper, "POINT") || strings.HasPrefix(upper, "POLYGON"):
		return FormatWKT
	case strings.HasPrefix(trimmed, "{"):
		return FormatGeoJSON
	case strings.Contains(trimmed, `"`) && strings.Contains(trimmed, "°"):
		return FormatDMS
	case strings.Contains(trimmed, "°"):
		return FormatDM
	case utmPattern.MatchString(trimmed):
		return FormatUTM
	default:
		return FormatDecimal
	}
}

// ParseAny routes the input through DetectFormat to the matching parser.
func ParseAny(input string) (Coordinate, error) {
	switch DetectFormat(input) {
	case FormatPostGIS:
		return ParsePostGIS(input)
	case FormatWKT:
		return ParseWKT(input)
	case FormatGeoJSON:
		return ParseGeoJSON(input)
	case FormatDMS:
		return ParseDMS(input)
	case FormatDM:
		return ParseDM(input)
	case FormatUTM:
		return ParseUTM(input)
	default:
		return ParseDecimal(input)
	}
}

// splitHalves breaks angular notation into its latitude and longitude
// halves. ';' and ',' act as separators; without one, the text is split
// right after the first latitude direction letter.
func splitHalves(format Format, input string) (string, string, error) {
	trimmed := strings.TrimSpace(input)

	for _, sep := range []string{";", ","} {
		if strings.Contains(trimmed, sep) {
			parts := strings.Split(trimmed, sep)
			if len(parts) != 2 {
				return "", "", malformed(format, input, "expected exactly two components")
			}
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
		}
	}

	if idx := strings.IndexAny(trimmed, hemiNorth+hemiSouth); idx >= 0 {
		return strings.TrimSpace(trimmed[:idx+1]), strings.TrimSpace(trimmed[idx+1:]), nil
	}

	return "", "", malformed(format, input, "missing separator between latitude and longitude")
}

// parseDMSHalf parses one `D° M' S" H` component, returning signed decimal
// degrees. The direction letter must belong to the axis being parsed.
func parseDMSHalf(text, positive, negative string) (float64, error) {
	match := dmsHalfPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, malformed(FormatDMS, text, `expected degrees° minutes' seconds" and a direction letter`)
	}

	degrees, _ := strconv.ParseFloat(match[1], 64)
	minutes, _ := strconv.ParseFloat(match[2], 64)
	seconds, _ := strconv.ParseFloat(match[3], 64)
	hemi := match[4]

	if hemi != positive && hemi != negative {
		return 0, malformed(FormatDMS, text, fmt.Sprintf("direction must be %s or %s", positive, negative))
	}

	value := degrees + minutes/60 + seconds/3600
	if hemi == negative {
		value = -value
	}
	return value, nil
}

// parseDMHalf parses one `D° M.mmm' H` component, returning signed decimal
// degrees.
func parseDMHalf(text, positive, negative string) (float64, error) {
	match := dmHalfPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, malformed(FormatDM, text, `expected degrees° decimal-minutes' and a direction letter`)
	}

	degrees, _ := strconv.ParseFloat(match[1], 64)
	minutes, _ := strconv.ParseFloat(match[2], 64)
	hemi := match[3]

	if hemi != positive && hemi != negative {
		return 0, malformed(FormatDM, text, fmt.Sprintf("direction must be %s or %s", positive, negative))
	}

	value := degrees + minutes/60
	if hemi == negative {
		value = -value
	}
	return value, nil
}

// splitWKT splits WKT text into its geometry tag and the content of the
// outermost parentheses.
func splitWKT(format Format, input string) (tag, body string, err error) {
	trimmed := strings.TrimSpace(input)

	open := strings.Index(trimmed, "(")
	if open < 0 || !strings.HasSuffix(trimmed, ")") {
		return "", "", malformed(format, input, "expected TAG(...) geometry text")
	}

	tag = strings.ToUpper(strings.TrimSpace(trimmed[:open]))
	if tag == "" {
		return "", "", malformed(format, input, "missing geometry tag")
	}
	body = trimmed[open+1 : len(trimmed)-1]

	return tag, body, nil
}

// parseWKTPair parses a "lon lat" vertex.
func parseWKTPair(text string) (lon, lat float64, err error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) != 2 {
		return 0, 0, malformed(FormatWKT, text, "expected a longitude and a latitude")
	}

	lon, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, malformed(FormatWKT, fields[0], "longitude is not a number")
	}
	lat, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, malformed(FormatWKT, fields[1], "latitude is not a number")
	}

	return lon, lat, nil
}

// stripSRID validates the EWKT SRID prefix and returns the WKT remainder.
func stripSRID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SRID=") {
		return "", malformed(FormatPostGIS, input, "missing SRID= prefix")
	}

	parts := strings.SplitN(trimmed, ";", 2)
	if len(parts) != 2 {
		return "", malformed(FormatPostGIS, input, "missing ';' between SRID and geometry")
	}

	srid, err := strconv.Atoi(strings.TrimSpace(parts[0][len("SRID="):]))
	if err != nil {
		return "", malformed(FormatPostGIS, parts[0], "SRID is not an integer")
	}
	if srid != 4326 {
		return "", &ExpectationMismatchError{Expected: srid4326, Got: fmt.Sprintf("SRID=%d", srid)}
	}

	return parts[1], nil
}

// parseWKTRing parses the vertex list of a polygon ring, "lon lat, lon lat, ...".
func parseWKTRing(body string) ([]Coordinate, error) {
	// Strip any inner ring parentheses: POLYGON((...)) bodies arrive as (...).
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "(")
	body = strings.TrimSuffix(body, ")")

	segments := strings.Split(body, ",")
	vertices := make([]Coordinate, 0, len(segments))
	for _, segment := range segments {
		lon, lat, err := parseWKTPair(segment)
		if err != nil {
			return nil, err
		}
		vertex, err := NewCoordinate(lat, lon)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, vertex)
	}

	if len(vertices) == 0 {
		return nil, malformed(FormatWKT, body, "polygon ring has no vertices")
	}
	return vertices, nil
}
