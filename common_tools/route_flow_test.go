package common_tools

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestState() *RouteState {
	state := NewRouteState()
	state.now = func() time.Time {
		return time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	}
	return state
}

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("invalid tool output %q: %v", raw, err)
	}
	return payload
}

func TestGetClientsForToday(t *testing.T) {
	state := newTestState()

	out, err := GetClientsForToday(state)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	payload := decode(t, out)

	if payload["client_count"].(float64) != 4 {
		t.Errorf("client_count: %v", payload["client_count"])
	}
	if payload["date"] != "2025-03-14" {
		t.Errorf("date: %v", payload["date"])
	}
	if len(state.clientList()) != 4 {
		t.Errorf("state not populated")
	}
	if index, _ := state.position(); index != -1 {
		t.Errorf("loading clients must reset progress, index %d", index)
	}
}

func TestVisitProgression(t *testing.T) {
	state := newTestState()
	maps := &MapsClient{} // no key, never reached once clients are loaded

	if _, err := GetClientsForToday(state); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Before starting, status reports the office.
	statusOut, err := GetCurrentVisitStatus(state, maps)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if decode(t, statusOut)["status"] != "not_started" {
		t.Errorf("initial status: %s", statusOut)
	}

	total := len(state.clientList())
	for i := 1; i <= total; i++ {
		visitOut, err := GetNextVisit(state, maps)
		if err != nil {
			t.Fatalf("next visit %d: %v", i, err)
		}
		visit := decode(t, visitOut)
		if int(visit["visit_number"].(float64)) != i {
			t.Errorf("visit_number: %v, want %d", visit["visit_number"], i)
		}
		if visit["status"] != "in_progress" {
			t.Errorf("visit status: %v", visit["status"])
		}

		statusOut, err = GetCurrentVisitStatus(state, maps)
		if err != nil {
			t.Fatalf("status during visit %d: %v", i, err)
		}
		status := decode(t, statusOut)
		if int(status["remaining_visits"].(float64)) != total-i {
			t.Errorf("remaining_visits: %v", status["remaining_visits"])
		}
	}

	// One past the end: the day is done.
	doneOut, err := GetNextVisit(state, maps)
	if err != nil {
		t.Fatalf("final next visit: %v", err)
	}
	if decode(t, doneOut)["status"] != "completed" {
		t.Errorf("expected completed, got %s", doneOut)
	}

	statusOut, err = GetCurrentVisitStatus(state, maps)
	if err != nil {
		t.Fatalf("final status: %v", err)
	}
	status := decode(t, statusOut)
	if status["status"] != "completed" {
		t.Errorf("final status: %v", status["status"])
	}
	summary := status["summary"].(map[string]interface{})
	if int(summary["total_visits"].(float64)) != total {
		t.Errorf("summary: %+v", summary)
	}
}

func TestVisitToolsSurfaceRoutePlanningError(t *testing.T) {
	// With no schedule loaded, both tools plan the route first. Planning
	// loads the clients but fails without an Azure Maps key; that error
	// must come back instead of a visit.
	maps := &MapsClient{}

	state := newTestState()
	out, err := GetNextVisit(state, maps)
	if err != nil {
		t.Fatalf("next visit: %v", err)
	}
	if decode(t, out)["error"] == nil {
		t.Errorf("expected route planning error, got %s", out)
	}
	if index, _ := state.position(); index != -1 {
		t.Errorf("failed planning must not advance the visit, index %d", index)
	}

	state = newTestState()
	out, err = GetCurrentVisitStatus(state, maps)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if decode(t, out)["error"] == nil {
		t.Errorf("expected route planning error, got %s", out)
	}
}

func TestResetSalesDay(t *testing.T) {
	state := newTestState()
	maps := &MapsClient{}

	if _, err := GetClientsForToday(state); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := GetNextVisit(state, maps); err != nil {
		t.Fatalf("setup: %v", err)
	}

	out, err := ResetSalesDay(state)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if decode(t, out)["status"] != "success" {
		t.Errorf("reset output: %s", out)
	}
	if len(state.clientList()) != 0 {
		t.Errorf("clients not cleared")
	}
	if index, _ := state.position(); index != -1 {
		t.Errorf("index not cleared: %d", index)
	}
}

func TestGenerateLocationMapNoActiveVisit(t *testing.T) {
	state := newTestState()
	maps := &MapsClient{Key: "test-key"}

	out, err := GenerateLocationMap(state, maps, "{}")
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	payload := decode(t, out)
	if payload["error"] != "No location specified and no current visit active" {
		t.Errorf("got %s", out)
	}
}

func TestGenerateLocationMapWithCoordinates(t *testing.T) {
	state := newTestState()
	maps := &MapsClient{Key: "test-key", BaseURL: defaultAtlasBaseURL}

	out, err := GenerateLocationMap(state, maps, `{"lat": 47.3699, "lon": 8.5392}`)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	payload := decode(t, out)

	display, ok := payload["_chat_display"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing _chat_display: %s", out)
	}
	if display["type"] != "image" {
		t.Errorf("display type: %v", display["type"])
	}
	if display["url"] == "" {
		t.Errorf("missing map url")
	}
}

func TestGenerateLocationMapForCurrentVisit(t *testing.T) {
	state := newTestState()
	maps := &MapsClient{Key: "test-key", BaseURL: defaultAtlasBaseURL}

	if _, err := GetClientsForToday(state); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := GetNextVisit(state, maps); err != nil {
		t.Fatalf("setup: %v", err)
	}

	out, err := GenerateLocationMap(state, maps, "")
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	payload := decode(t, out)

	index, clients := state.position()
	if payload["location_name"] != clients[index].Name {
		t.Errorf("location_name: %v, want current client %q", payload["location_name"], clients[index].Name)
	}
}
