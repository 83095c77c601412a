package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"googlemaps.github.io/maps"
)

// GoogleResolver is a struct that holds the client for the Google Maps API
// and a logger for logging purposes. It handles the raw texts that are
// postal addresses rather than coordinate notation.
type GoogleResolver struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleResolver initializes a new GoogleResolver with the given API client
// and logger. Rate limiting is configured on the client by the factory.
func NewGoogleResolver(client GoogleAPIClient, log *slog.Logger) *GoogleResolver {
	return &GoogleResolver{client: client, log: log}
}

// Resolve takes a context and a free-text address as input, and returns the
// geographical coordinate of the provided address using the Google Maps
// Geocoding API. If the address cannot be geocoded or if the response is
// empty, it returns an appropriate error.
func (gr *GoogleResolver) Resolve(ctx context.Context, raw string) (geo.Coordinate, error) {
	gr.log.DebugContext(ctx, "Geocoding using Google Maps", "address", raw)

	req := maps.GeocodingRequest{Address: raw}
	geocodeResponse, err := gr.client.Geocode(ctx, &req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return geo.Coordinate{}, ErrEmptyResponse
	}
	location := geocodeResponse[0].Geometry.Location

	return geo.NewCoordinate(location.Lat, location.Lng)
}
