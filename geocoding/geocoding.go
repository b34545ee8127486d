// Package geocoding wraps the Mapbox Geocoding API for location
// submissions: forward geocoding with a Tucson proximity bias, reverse
// geocoding, and coordinate sanity checks against the service area.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

// Service-area center used for proximity bias and the distance cutoff.
const (
	centerLatitude  = 32.2226
	centerLongitude = -110.9747

	// Results farther than this from the center are rejected; the
	// directory only covers the Tucson area.
	maxDistanceKm = 80

	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
)

// ErrDisabled is returned when no API key was configured; the feature
// degrades without affecting the rest of the application.
var ErrDisabled = errors.New("geocoding disabled: no API key configured")

// ErrNotFound means the provider returned no candidates.
var ErrNotFound = errors.New("address not found")

// ErrOutsideServiceArea means the best candidate is too far from Tucson.
var ErrOutsideServiceArea = errors.New("address is outside the Tucson service area")

// Candidate is one geocoding result.
type Candidate struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Relevance float64 `json:"relevance"`
}

// Result is a successful forward geocode: the best candidate plus the full
// candidate list for disambiguation UIs.
type Result struct {
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	FormattedAddress string      `json:"formatted_address"`
	Confidence       float64     `json:"confidence"`
	AllResults       []Candidate `json:"all_results"`
}

// Client calls the Mapbox Geocoding API. A zero APIKey disables the client.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client with the production endpoint and a request
// timeout. An empty apiKey yields a disabled client.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.APIKey != ""
}

// GeocodeAddress resolves a street address to coordinates, biased toward
// the service-area center, restricted to US addresses, and limited to the
// top five candidates.
func (c *Client) GeocodeAddress(ctx context.Context, address string) (*Result, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&proximity=%f,%f&limit=5&country=US",
		c.BaseURL, url.PathEscape(address), url.QueryEscape(c.APIKey),
		centerLongitude, centerLatitude)

	var payload mapboxResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Features) == 0 {
		return nil, ErrNotFound
	}

	best := payload.Features[0]
	lon, lat := best.Center[0], best.Center[1]
	if Distance(centerLatitude, centerLongitude, lat, lon) > maxDistanceKm {
		return nil, ErrOutsideServiceArea
	}

	confidence := best.Relevance
	if confidence == 0 {
		confidence = 1.0
	}

	result := &Result{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: best.PlaceName,
		Confidence:       confidence,
	}
	for _, f := range payload.Features {
		result.AllResults = append(result.AllResults, Candidate{
			Address:   f.PlaceName,
			Latitude:  f.Center[1],
			Longitude: f.Center[0],
			Relevance: f.Relevance,
		})
	}
	return result, nil
}

// ReverseGeocode resolves coordinates to the nearest address.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	endpoint := fmt.Sprintf("%s/%f,%f.json?access_token=%s",
		c.BaseURL, longitude, latitude, url.QueryEscape(c.APIKey))

	var payload mapboxResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return "", err
	}
	if len(payload.Features) == 0 {
		return "", ErrNotFound
	}
	return payload.Features[0].PlaceName, nil
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string     `json:"place_name"`
		Center    [2]float64 `json:"center"`
		Relevance float64    `json:"relevance"`
	} `json:"features"`
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Distance returns the haversine distance between two coordinates in
// kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Metro bounding box for quick coordinate validation without a network
// round-trip.
var serviceBounds = struct{ north, south, east, west float64 }{
	north: 32.5, south: 31.8, east: -110.5, west: -111.2,
}

// IsWithinServiceArea checks coordinates against the metro bounding box.
func IsWithinServiceArea(latitude, longitude float64) bool {
	return latitude >= serviceBounds.south && latitude <= serviceBounds.north &&
		longitude >= serviceBounds.west && longitude <= serviceBounds.east
}
