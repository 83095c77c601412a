package geo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BoundingBox is an axis-aligned geographic region described by its
// south-west (min) and north-east (max) corners. Like Coordinate it is an
// immutable value: min <= max componentwise is validated at construction, so
// every instance describes a well-formed (possibly degenerate, single-point)
// region.
type BoundingBox struct {
	min Coordinate
	max Coordinate
}

// NewBoundingBox builds a box from its corner coordinates. It fails with
// *LocationError when min exceeds max on either axis. A box with min == max
// is legal and represents a single point.
func NewBoundingBox(min, max Coordinate) (BoundingBox, error) {
	if min.lat > max.lat {
		return BoundingBox{}, &LocationError{
			Field: "latitude", Value: min.lat, Reason: "min latitude exceeds max latitude",
		}
	}
	if min.lon > max.lon {
		return BoundingBox{}, &LocationError{
			Field: "longitude", Value: min.lon, Reason: "min longitude exceeds max longitude",
		}
	}

	return BoundingBox{min: min, max: max}, nil
}

// BoundingBoxFromWKT parses "POLYGON((lon lat, ...))" and returns the
// min/max envelope of all ring vertices.
func BoundingBoxFromWKT(input string) (BoundingBox, error) {
	tag, body, err := splitWKT(FormatWKT, input)
	if err != nil {
		return BoundingBox{}, err
	}
	if tag != "POLYGON" {
		return BoundingBox{}, &ExpectationMismatchError{Expected: "POLYGON geometry", Got: tag}
	}

	vertices, err := parseWKTRing(body)
	if err != nil {
		return BoundingBox{}, err
	}
	return envelope(vertices)
}

// BoundingBoxFromPostGIS parses "SRID=4326;POLYGON((...))"; any other SRID
// is rejected with *ExpectationMismatchError.
func BoundingBoxFromPostGIS(input string) (BoundingBox, error) {
	rest, err := stripSRID(input)
	if err != nil {
		return BoundingBox{}, err
	}
	return BoundingBoxFromWKT(rest)
}

// BoundingBoxFromGeoJSON parses a GeoJSON Polygon geometry and returns the
// envelope of every vertex of every ring.
func BoundingBoxFromGeoJSON(input string) (BoundingBox, error) {
	var geom geoJSONGeometry
	if err := json.Unmarshal([]byte(input), &geom); err != nil {
		return BoundingBox{}, malformed(FormatGeoJSON, input, "invalid JSON")
	}
	if geom.Type != "Polygon" {
		return BoundingBox{}, &ExpectationMismatchError{Expected: "Polygon geometry", Got: geom.Type}
	}

	var rings [][][]float64
	if err := json.Unmarshal(geom.Coordinates, &rings); err != nil || len(rings) == 0 {
		return BoundingBox{}, malformed(FormatGeoJSON, string(geom.Coordinates), "coordinates must be [[[lon, lat], ...]]")
	}

	var vertices []Coordinate
	for _, ring := range rings {
		for _, position := range ring {
			if len(position) < 2 {
				return BoundingBox{}, malformed(FormatGeoJSON, fmt.Sprint(position), "vertex must be [lon, lat]")
			}
			vertex, err := NewCoordinate(position[1], position[0])
			if err != nil {
				return BoundingBox{}, err
			}
			vertices = append(vertices, vertex)
		}
	}
	if len(vertices) == 0 {
		return BoundingBox{}, malformed(FormatGeoJSON, input, "polygon has no vertices")
	}

	return envelope(vertices)
}

// envelope computes the componentwise min/max box over a non-empty vertex set.
func envelope(vertices []Coordinate) (BoundingBox, error) {
	minLat, minLon := vertices[0].lat, vertices[0].lon
	maxLat, maxLon := minLat, minLon
	for _, v := range vertices[1:] {
		if v.lat < minLat {
			minLat = v.lat
		}
		if v.lat > maxLat {
			maxLat = v.lat
		}
		if v.lon < minLon {
			minLon = v.lon
		}
		if v.lon > maxLon {
			maxLon = v.lon
		}
	}

	return BoundingBox{
		min: Coordinate{lat: minLat, lon: minLon},
		max: Coordinate{lat: maxLat, lon: maxLon},
	}, nil
}

// Min returns the south-west corner.
func (b BoundingBox) Min() Coordinate { return b.min }

// Max returns the north-east corner.
func (b BoundingBox) Max() Coordinate { return b.max }

// Width returns the longitude span in degrees.
func (b BoundingBox) Width() float64 { return b.max.lon - b.min.lon }

// Height returns the latitude span in degrees.
func (b BoundingBox) Height() float64 { return b.max.lat - b.min.lat }

// Centroid returns the midpoint of the two corners.
func (b BoundingBox) Centroid() Coordinate {
	return Coordinate{
		lat: (b.min.lat + b.max.lat) / 2,
		lon: (b.min.lon + b.max.lon) / 2,
	}
}

// ContainsPoint reports whether the point lies inside the box, borders
// included on all four edges.
func (b BoundingBox) ContainsPoint(point Coordinate) bool {
	return point.lat >= b.min.lat && point.lat <= b.max.lat &&
		point.lon >= b.min.lon && point.lon <= b.max.lon
}

// ContainsBox reports whether other lies entirely inside the box.
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	return b.ContainsPoint(other.min) && b.ContainsPoint(other.max)
}

// Intersects reports whether the two boxes overlap. Boxes touching only at
// an edge or corner still intersect, matching the closed-interval
// containment semantics.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.min.lat <= other.max.lat && b.max.lat >= other.min.lat &&
		b.min.lon <= other.max.lon && b.max.lon >= other.min.lon
}

// Intersection returns the overlapping region of the two boxes, or false
// when they do not intersect.
func (b BoundingBox) Intersection(other BoundingBox) (BoundingBox, bool) {
	if !b.Intersects(other) {
		return BoundingBox{}, false
	}

	return BoundingBox{
		min: Coordinate{lat: max(b.min.lat, other.min.lat), lon: max(b.min.lon, other.min.lon)},
		max: Coordinate{lat: min(b.max.lat, other.max.lat), lon: min(b.max.lon, other.max.lon)},
	}, true
}

// Union returns the smallest box covering both boxes. It is always defined.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		min: Coordinate{lat: min(b.min.lat, other.min.lat), lon: min(b.min.lon, other.min.lon)},
		max: Coordinate{lat: max(b.max.lat, other.max.lat), lon: max(b.max.lon, other.max.lon)},
	}
}

// ring lists the box corners as a closed 5-point rectangular ring starting
// and ending at the south-west corner, counter-clockwise.
func (b BoundingBox) ring() [5][2]float64 {
	return [5][2]float64{
		{b.min.lon, b.min.lat},
		{b.max.lon, b.min.lat},
		{b.max.lon, b.max.lat},
		{b.min.lon, b.max.lat},
		{b.min.lon, b.min.lat},
	}
}

// WKT renders the box as "POLYGON((lon lat, ...))" with a closed ring.
func (b BoundingBox) WKT() string {
	ring := b.ring()
	pairs := make([]string, len(ring))
	for i, vertex := range ring {
		pairs[i] = formatFloat(vertex[0]) + " " + formatFloat(vertex[1])
	}
	return "POLYGON((" + strings.Join(pairs, ", ") + "))"
}

// GeoJSON renders the box as a GeoJSON Polygon geometry with a single ring.
func (b BoundingBox) GeoJSON() string {
	ring := b.ring()
	pairs := make([]string, len(ring))
	for i, vertex := range ring {
		pairs[i] = "[" + formatFloat(vertex[0]) + "," + formatFloat(vertex[1]) + "]"
	}
	return `{"type":"Polygon","coordinates":[[` + strings.Join(pairs, ",") + `]]}`
}

// PostGIS renders the box as extended WKT with the WGS84 SRID.
func (b BoundingBox) PostGIS() string {
	return srid4326 + ";" + b.WKT()
}
