package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/geo"
)

// ChainResolver tries the codec resolver first and falls back to an address
// geocoder when the text matches none of the coordinate grammars. An
// *geo.ExpectationMismatchError or *geo.LocationError from the codec is
// returned directly: such input IS coordinate text, just unsupported, and
// geocoding it as an address would silently accept bad data.
type ChainResolver struct {
	codec    Resolver
	fallback Resolver
	log      *slog.Logger
}

// NewChainResolver wires a codec resolver in front of an address fallback.
func NewChainResolver(codec, fallback Resolver, log *slog.Logger) *ChainResolver {
	return &ChainResolver{codec: codec, fallback: fallback, log: log}
}

// Resolve implements Resolver.
func (cr *ChainResolver) Resolve(ctx context.Context, raw string) (geo.Coordinate, error) {
	coord, err := cr.codec.Resolve(ctx, raw)
	if err == nil {
		return coord, nil
	}

	var malformedErr *geo.MalformedInputError
	if !errors.As(err, &malformedErr) {
		return geo.Coordinate{}, err
	}

	cr.log.DebugContext(ctx, "Text is not coordinate notation, trying address fallback", "error", err)
	return cr.fallback.Resolve(ctx, raw)
}
