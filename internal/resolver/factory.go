package resolver

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// Type represents the kind of resolver to build.
type Type string

const (
	// TypeCodec resolves coordinate notation only, with no address fallback.
	TypeCodec Type = "codec"
	// TypeGoogle chains the codec resolver with a Google Maps address fallback.
	TypeGoogle Type = "google"
	// TypeNominatim chains the codec resolver with an OpenStreetMap Nominatim fallback.
	TypeNominatim Type = "nominatim"
)

// Config holds configuration for creating a resolver.
type Config struct {
	Type      Type         // Type of resolver to create
	APIKey    string       // API key (used by the Google fallback)
	RateLimit int          // Rate limit for requests per second (used by the Google fallback)
	Logger    *slog.Logger // Logger for the resolver
}

// NewResolver creates a resolver based on the provided configuration. It
// applies the Factory pattern to decouple resolver instantiation from
// business logic.
//
// Supported resolver types:
// - "codec": coordinate grammars only, pure computation
// - "google": codec plus Google Maps address fallback (requires API key)
// - "nominatim": codec plus OpenStreetMap Nominatim address fallback (free, no API key)
//
// Returns an error if the resolver type is unsupported or if creation fails.
func NewResolver(config Config) (Resolver, error) {
	codec := NewCodecResolver(config.Logger)

	switch config.Type {
	case TypeCodec:
		return codec, nil
	case TypeGoogle:
		fallback, err := newGoogleFallback(config)
		if err != nil {
			return nil, err
		}
		return NewChainResolver(codec, fallback, config.Logger), nil
	case TypeNominatim:
		return NewChainResolver(codec, NewNominatimResolver(config.Logger), config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported resolver type: %s", config.Type)
	}
}

// newGoogleFallback creates the Google Maps address fallback.
func newGoogleFallback(config Config) (Resolver, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google resolver")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	// Apply rate limiting if specified
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleResolver(client, config.Logger), nil
}
