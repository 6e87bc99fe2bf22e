package common_tools

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultAtlasBaseURL = "https://atlas.microsoft.com"

// MapsClient wraps the Azure Maps REST surface used for route planning,
// geocoding, and static map rendering.
type MapsClient struct {
	Key        string
	BaseURL    string
	HTTPClient *http.Client
}

// NewMapsClient reads the subscription key from AZURE_MAPS_KEY.
func NewMapsClient() *MapsClient {
	return &MapsClient{
		Key:        os.Getenv("AZURE_MAPS_KEY"),
		BaseURL:    defaultAtlasBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// HasKey reports whether a subscription key is configured.
func (m *MapsClient) HasKey() bool {
	return m.Key != ""
}

func (m *MapsClient) get(path string, params url.Values) (map[string]interface{}, error) {
	params.Set("subscription-key", m.Key)
	params.Set("api-version", "1.0")

	resp, err := m.HTTPClient.Get(m.BaseURL + path + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("network error while calling Azure Maps API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Azure Maps API request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading Azure Maps response: %w", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON response from Azure Maps API: %w", err)
	}
	return data, nil
}

// RouteDirections asks the Route API for the best visiting order over the
// colon-separated lat,lon waypoint query.
func (m *MapsClient) RouteDirections(coordinatesQuery string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("query", coordinatesQuery)
	params.Set("computeBestOrder", "true")
	params.Set("routeType", "fastest")
	params.Set("traffic", "true")
	params.Set("travelMode", "car")
	params.Set("instructionsType", "text")
	params.Set("computeTravelTimeFor", "all")

	data, err := m.get("/route/directions/json", params)
	if err != nil {
		return nil, err
	}

	if errVal, ok := data["error"].(map[string]interface{}); ok {
		code, _ := errVal["code"].(string)
		message, _ := errVal["message"].(string)
		if message == "" {
			message = "Unknown Azure Maps API error"
		}
		return nil, fmt.Errorf("Azure Maps API error: %s - %s", code, message)
	}
	return data, nil
}

// Geocode resolves a free-form address query to coordinates.
func (m *MapsClient) Geocode(query string) (float64, float64, error) {
	params := url.Values{}
	params.Set("query", query)

	data, err := m.get("/search/address/json", params)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding failed: %w", err)
	}

	results, ok := data["results"].([]interface{})
	if !ok || len(results) == 0 {
		return 0, 0, fmt.Errorf("location not found")
	}
	first, ok := results[0].(map[string]interface{})
	if !ok {
		return 0, 0, fmt.Errorf("location not found")
	}
	position, ok := first["position"].(map[string]interface{})
	if !ok {
		return 0, 0, fmt.Errorf("location not found")
	}
	lat, _ := position["lat"].(float64)
	lon, _ := position["lon"].(float64)
	return lat, lon, nil
}

// StaticMapURL builds a static map image URL centered on the coordinates
// with a single pin.
func (m *MapsClient) StaticMapURL(lat, lon float64) string {
	params := url.Values{}
	params.Set("subscription-key", m.Key)
	params.Set("api-version", "1.0")
	params.Set("layer", "basic")
	params.Set("zoom", "15")
	params.Set("width", "800")
	params.Set("height", "600")
	params.Set("center", fmt.Sprintf("%f,%f", lon, lat))
	params.Set("pins", fmt.Sprintf("default||%f %f", lon, lat))

	return m.BaseURL + "/map/static/png?" + params.Encode()
}
