package resolver

import (
	"context"

	"github.com/UnknownOlympus/meridian/internal/geo"
)

// Resolver is an interface that defines a method for turning raw location
// text into a validated coordinate. The Resolve method takes a context and
// the stored text as input, and returns the corresponding coordinate and an
// error if any occurs.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (geo.Coordinate, error)
}
