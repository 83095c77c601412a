package geo_test

import (
	"testing"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBox(t *testing.T, minLat, minLon, maxLat, maxLon float64) geo.BoundingBox {
	t.Helper()
	box, err := geo.NewBoundingBox(
		mustCoordinate(t, minLat, minLon),
		mustCoordinate(t, maxLat, maxLon),
	)
	require.NoError(t, err)
	return box
}

func TestNewBoundingBox(t *testing.T) {
	t.Parallel()

	t.Run("success - ordered corners", func(t *testing.T) {
		t.Parallel()
		box := mustBox(t, 0, 0, 10, 10)

		assert.InDelta(t, 10.0, box.Width(), 1e-9)
		assert.InDelta(t, 10.0, box.Height(), 1e-9)
		assert.InDelta(t, 5.0, box.Centroid().Latitude(), 1e-9)
		assert.InDelta(t, 5.0, box.Centroid().Longitude(), 1e-9)
	})

	t.Run("success - degenerate single-point box", func(t *testing.T) {
		t.Parallel()
		point := mustCoordinate(t, 5, 5)
		box, err := geo.NewBoundingBox(point, point)

		require.NoError(t, err)
		assert.InDelta(t, 0.0, box.Width(), 0)
		assert.True(t, box.ContainsPoint(point))
	})

	t.Run("error - inverted latitude", func(t *testing.T) {
		t.Parallel()
		_, err := geo.NewBoundingBox(mustCoordinate(t, 10, 0), mustCoordinate(t, 0, 10))

		require.Error(t, err)
		var locErr *geo.LocationError
		require.ErrorAs(t, err, &locErr)
	})

	t.Run("error - inverted longitude", func(t *testing.T) {
		t.Parallel()
		_, err := geo.NewBoundingBox(mustCoordinate(t, 0, 10), mustCoordinate(t, 10, 0))

		require.Error(t, err)
	})
}

func TestBoundingBoxContains(t *testing.T) {
	t.Parallel()

	box := mustBox(t, 0, 0, 10, 10)

	t.Run("contains interior, corners, and centroid", func(t *testing.T) {
		t.Parallel()
		assert.True(t, box.ContainsPoint(mustCoordinate(t, 5, 5)))
		assert.True(t, box.ContainsPoint(box.Min()))
		assert.True(t, box.ContainsPoint(box.Max()))
		assert.True(t, box.ContainsPoint(box.Centroid()))
	})

	t.Run("rejects points outside", func(t *testing.T) {
		t.Parallel()
		assert.False(t, box.ContainsPoint(mustCoordinate(t, 11, 5)))
		assert.False(t, box.ContainsPoint(mustCoordinate(t, 5, -1)))
	})

	t.Run("contains nested box but not an overlapping one", func(t *testing.T) {
		t.Parallel()
		assert.True(t, box.ContainsBox(mustBox(t, 2, 2, 8, 8)))
		assert.True(t, box.ContainsBox(box))
		assert.False(t, box.ContainsBox(mustBox(t, 5, 5, 15, 15)))
	})
}

func TestBoundingBoxSetAlgebra(t *testing.T) {
	t.Parallel()

	a := mustBox(t, 0, 0, 10, 10)
	b := mustBox(t, 5, 5, 15, 15)
	apart := mustBox(t, 20, 20, 30, 30)

	t.Run("intersects agrees with intersection being defined", func(t *testing.T) {
		t.Parallel()
		assert.True(t, a.Intersects(b))
		_, ok := a.Intersection(b)
		assert.True(t, ok)

		assert.False(t, a.Intersects(apart))
		_, ok = a.Intersection(apart)
		assert.False(t, ok)
	})

	t.Run("intersection is contained in both operands", func(t *testing.T) {
		t.Parallel()
		overlap, ok := a.Intersection(b)

		require.True(t, ok)
		assert.True(t, a.ContainsBox(overlap))
		assert.True(t, b.ContainsBox(overlap))
		assert.InDelta(t, 5.0, overlap.Min().Latitude(), 1e-9)
		assert.InDelta(t, 10.0, overlap.Max().Latitude(), 1e-9)
	})

	t.Run("touching edges still intersect", func(t *testing.T) {
		t.Parallel()
		edge := mustBox(t, 10, 10, 20, 20)

		assert.True(t, a.Intersects(edge))
		overlap, ok := a.Intersection(edge)
		require.True(t, ok)
		assert.InDelta(t, 0.0, overlap.Width(), 0)
		assert.InDelta(t, 0.0, overlap.Height(), 0)
	})

	t.Run("union covers both operands", func(t *testing.T) {
		t.Parallel()
		combined := a.Union(apart)

		assert.True(t, combined.ContainsBox(a))
		assert.True(t, combined.ContainsBox(apart))
		assert.InDelta(t, 0.0, combined.Min().Latitude(), 1e-9)
		assert.InDelta(t, 30.0, combined.Max().Latitude(), 1e-9)
	})

	t.Run("union is symmetric", func(t *testing.T) {
		t.Parallel()
		left := a.Union(b)
		right := b.Union(a)

		assert.True(t, left.Min().Equal(right.Min()))
		assert.True(t, left.Max().Equal(right.Max()))
	})
}

func TestBoundingBoxCodecs(t *testing.T) {
	t.Parallel()

	box := mustBox(t, 0, 0, 10, 10)

	t.Run("WKT emits a closed counter-clockwise ring", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))", box.WKT())
	})

	t.Run("WKT round-trip recovers the envelope", func(t *testing.T) {
		t.Parallel()
		parsed, err := geo.BoundingBoxFromWKT(box.WKT())

		require.NoError(t, err)
		assert.True(t, parsed.Min().Equal(box.Min()))
		assert.True(t, parsed.Max().Equal(box.Max()))
	})

	t.Run("envelope covers unordered vertices", func(t *testing.T) {
		t.Parallel()
		parsed, err := geo.BoundingBoxFromWKT("POLYGON((10 10, 0 0, 10 0, 0 10))")

		require.NoError(t, err)
		assert.True(t, parsed.Min().Equal(box.Min()))
		assert.True(t, parsed.Max().Equal(box.Max()))
	})

	t.Run("GeoJSON round-trip", func(t *testing.T) {
		t.Parallel()
		text := box.GeoJSON()
		assert.JSONEq(t, `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`, text)

		parsed, err := geo.BoundingBoxFromGeoJSON(text)
		require.NoError(t, err)
		assert.True(t, parsed.Min().Equal(box.Min()))
		assert.True(t, parsed.Max().Equal(box.Max()))
	})

	t.Run("PostGIS round-trip", func(t *testing.T) {
		t.Parallel()
		text := box.PostGIS()
		assert.Equal(t, "SRID=4326;POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))", text)

		parsed, err := geo.BoundingBoxFromPostGIS(text)
		require.NoError(t, err)
		assert.True(t, parsed.Min().Equal(box.Min()))
		assert.True(t, parsed.Max().Equal(box.Max()))
	})

	t.Run("error - point where polygon required", func(t *testing.T) {
		t.Parallel()
		_, err := geo.BoundingBoxFromWKT("POINT(0 0)")

		require.Error(t, err)
		var mismatchErr *geo.ExpectationMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "POINT", mismatchErr.Got)
	})

	t.Run("error - malformed vertex", func(t *testing.T) {
		t.Parallel()
		_, err := geo.BoundingBoxFromWKT("POLYGON((0 0, nonsense, 10 10))")

		require.Error(t, err)
		var malformedErr *geo.MalformedInputError
		require.ErrorAs(t, err, &malformedErr)
	})

	t.Run("error - wrong SRID for polygon", func(t *testing.T) {
		t.Parallel()
		_, err := geo.BoundingBoxFromPostGIS("SRID=3857;POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))")

		require.Error(t, err)
		var mismatchErr *geo.ExpectationMismatchError
		require.ErrorAs(t, err, &mismatchErr)
	})

	t.Run("error - GeoJSON wrong geometry type", func(t *testing.T) {
		t.Parallel()
		_, err := geo.BoundingBoxFromGeoJSON(`{"type":"Point","coordinates":[0,0]}`)

		require.Error(t, err)
		var mismatchErr *geo.ExpectationMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "Point", mismatchErr.Got)
	})
}
