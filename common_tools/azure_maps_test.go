package common_tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeAtlas(t *testing.T, routeHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/route/directions/json", routeHandler)
	mux.HandleFunc("/search/address/json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"position": map[string]float64{"lat": 47.3699, "lon": 8.5392}},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestPlanOptimalRouteStripsLegPoints(t *testing.T) {
	server := fakeAtlas(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("computeBestOrder") != "true" {
			t.Errorf("computeBestOrder not requested")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"routes": []map[string]interface{}{
				{
					"summary": map[string]interface{}{"lengthInMeters": 125000, "travelTimeInSeconds": 7200},
					"legs": []map[string]interface{}{
						{
							"summary": map[string]interface{}{"lengthInMeters": 60000},
							"points":  []map[string]float64{{"latitude": 47.3, "longitude": 8.5}},
						},
						{
							"summary": map[string]interface{}{"lengthInMeters": 65000},
							"points":  []map[string]float64{{"latitude": 46.2, "longitude": 6.1}},
						},
					},
				},
			},
			"optimizedWaypoints": []map[string]interface{}{
				{"providedIndex": 0, "optimizedIndex": 1},
			},
		})
	})

	state := newTestState()
	maps := &MapsClient{Key: "test-key", BaseURL: server.URL, HTTPClient: server.Client()}

	out, err := PlanOptimalRoute(state, maps)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	if strings.Contains(out, `"points"`) {
		t.Errorf("leg points not stripped: %s", out)
	}

	payload := decode(t, out)
	if _, ok := payload["routes"]; !ok {
		t.Errorf("routes missing: %s", out)
	}
	if _, ok := payload["optimizedWaypoints"]; !ok {
		t.Errorf("optimized order missing: %s", out)
	}
	if state.route == nil {
		t.Errorf("route not cached on state")
	}
}

func TestPlanOptimalRouteWithoutKey(t *testing.T) {
	state := newTestState()
	maps := &MapsClient{}

	out, err := PlanOptimalRoute(state, maps)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	payload := decode(t, out)
	if payload["error"] != "Azure Maps API key not found in environment variables" {
		t.Errorf("got %s", out)
	}
}

func TestPlanOptimalRouteAPIError(t *testing.T) {
	server := fakeAtlas(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": "400 BadRequest", "message": "invalid waypoints"},
		})
	})

	state := newTestState()
	maps := &MapsClient{Key: "test-key", BaseURL: server.URL, HTTPClient: server.Client()}

	out, err := PlanOptimalRoute(state, maps)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	payload := decode(t, out)
	errMsg, _ := payload["error"].(string)
	if !strings.Contains(errMsg, "invalid waypoints") {
		t.Errorf("got %s", out)
	}
}

func TestGeocode(t *testing.T) {
	server := fakeAtlas(t, func(w http.ResponseWriter, r *http.Request) {})
	maps := &MapsClient{Key: "test-key", BaseURL: server.URL, HTTPClient: server.Client()}

	lat, lon, err := maps.Geocode("Paradeplatz 8, Zürich")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if lat != 47.3699 || lon != 8.5392 {
		t.Errorf("position: %f, %f", lat, lon)
	}
}

func TestStaticMapURL(t *testing.T) {
	maps := &MapsClient{Key: "test-key", BaseURL: defaultAtlasBaseURL}

	url := maps.StaticMapURL(47.3699, 8.5392)
	for _, want := range []string{"/map/static/png", "pins=", "center=", "subscription-key=test-key"} {
		if !strings.Contains(url, want) {
			t.Errorf("url missing %q: %s", want, url)
		}
	}
}

func TestFormatCoordinatesForRoute(t *testing.T) {
	clients := []Client{SampleClients[0], SampleClients[2]}
	query := formatCoordinatesForRoute(clients)

	parts := strings.Split(query, ":")
	if len(parts) != 4 {
		t.Fatalf("waypoints: %d, want office + 2 clients + office", len(parts))
	}
	if parts[0] != parts[3] {
		t.Errorf("route must start and end at the office: %s vs %s", parts[0], parts[3])
	}
}
