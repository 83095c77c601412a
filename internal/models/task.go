package models

// Task represents a stored location string awaiting normalization. RawText
// may be any of the supported coordinate grammars (decimal, DMS, DM, UTM,
// WKT, GeoJSON, EWKT) or, as a last resort, a postal address.
type Task struct {
	ID      int    // ID is the unique identifier for the task.
	RawText string // RawText is the location text to be normalized.
}

// NormalizedLocation is the canonical form of a resolved task that gets
// written back to storage: decimal degrees plus the EWKT and UTM renderings.
type NormalizedLocation struct {
	Latitude  float64 // Latitude in decimal degrees.
	Longitude float64 // Longitude in decimal degrees.
	EWKT      string  // EWKT is the PostGIS representation, "SRID=4326;POINT(lon lat)".
	UTM       string  // UTM is "<zone> <easting> <northing>", empty outside the UTM domain.
}
