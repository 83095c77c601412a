package resolver

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/geo"
)

// CodecResolver resolves location text that already is a coordinate in one
// of the supported grammars: decimal, DMS, DM, UTM, WKT, GeoJSON, or EWKT.
// It is pure computation with no I/O, so it is always tried first.
type CodecResolver struct {
	log *slog.Logger
}

// NewCodecResolver creates a resolver over the built-in coordinate grammars.
func NewCodecResolver(log *slog.Logger) *CodecResolver {
	return &CodecResolver{log: log}
}

// Resolve classifies the text with geo.DetectFormat and parses it with the
// matching grammar. The returned errors are the codec's typed errors
// (*geo.MalformedInputError, *geo.ExpectationMismatchError, *geo.LocationError).
func (cr *CodecResolver) Resolve(ctx context.Context, raw string) (geo.Coordinate, error) {
	format := geo.DetectFormat(raw)
	cr.log.DebugContext(ctx, "Resolving coordinate text", "format", format, "raw", raw)

	coord, err := geo.ParseAny(raw)
	if err != nil {
		cr.log.DebugContext(ctx, "Coordinate text did not parse", "format", format, "error", err)
		return geo.Coordinate{}, err
	}

	return coord, nil
}
