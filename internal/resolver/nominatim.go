package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
)

// NominatimResolver geocodes address text using OpenStreetMap's Nominatim
// API. This is a free service with usage limits (1 request/second for fair
// use), suitable as a keyless alternative to the Google resolver.
type NominatimResolver struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Nominatim API
	log     *slog.Logger // Logger for logging operations
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents the JSON response from Nominatim API.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// Common errors for the Nominatim resolver.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

const nominatimUserAgent = "Meridian-Normalization-Service/1.0 (https://github.com/UnknownOlympus/meridian)"

// NewNominatimResolver creates a new Nominatim resolver against the public
// API endpoint.
func NewNominatimResolver(log *slog.Logger) *NominatimResolver {
	const timeout = 10
	return &NominatimResolver{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: "https://nominatim.openstreetmap.org/search",
		log:     log,
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: nominatimUserAgent,
	}
}

// NewNominatimResolverWithClient creates a Nominatim resolver with a custom
// HTTP client. Useful for testing with mocked HTTP clients.
func NewNominatimResolverWithClient(client HTTPClient, log *slog.Logger) *NominatimResolver {
	return &NominatimResolver{
		client:    client,
		baseURL:   "https://nominatim.openstreetmap.org/search",
		log:       log,
		userAgent: nominatimUserAgent,
	}
}

// Resolve converts an address to a geographic coordinate using the Nominatim
// API. It respects Nominatim's usage policy by including a User-Agent header.
func (nr *NominatimResolver) Resolve(ctx context.Context, raw string) (geo.Coordinate, error) {
	nr.log.DebugContext(ctx, "Geocoding using Nominatim", "address", raw)

	reqURL, err := url.Parse(nr.baseURL)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", raw)
	query.Set("format", "json")
	query.Set("limit", "1") // Only need the top result
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}

	// Required per Nominatim usage policy.
	req.Header.Set("User-Agent", nr.userAgent)

	resp, err := nr.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		nr.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return geo.Coordinate{}, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		nr.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return geo.Coordinate{}, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return geo.Coordinate{}, ErrNominatimEmptyResponse
	}

	nr.log.DebugContext(ctx, "Nominatim found result", "lat", results[0].Lat, "lon", results[0].Lon)

	var lat, lon float64
	if _, err = fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	if _, err = fmt.Sscanf(results[0].Lon, "%f", &lon); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	return geo.NewCoordinate(lat, lon)
}
