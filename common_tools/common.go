package common_tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errorJSON renders an expected tool failure as a JSON payload the model
// can read back, matching the shape of successful outputs.
func errorJSON(format string, args ...interface{}) string {
	payload := map[string]string{"error": fmt.Sprintf(format, args...)}
	data, _ := json.Marshal(payload)
	return string(data)
}

// isErrorPayload reports whether a tool result carries an "error" key.
func isErrorPayload(result string) bool {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(result), &payload); err != nil {
		return false
	}
	_, ok := payload["error"]
	return ok
}

func marshalResult(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}

// formatCoordinatesForRoute builds the waypoint query for the Route API:
// office, each client in order, then back to the office.
func formatCoordinatesForRoute(clients []Client) string {
	coords := make([]string, 0, len(clients)+2)
	coords = append(coords, fmt.Sprintf("%f,%f", OfficeLocation.Coordinates.Latitude, OfficeLocation.Coordinates.Longitude))
	for _, client := range clients {
		coords = append(coords, fmt.Sprintf("%f,%f", client.Coordinates.Latitude, client.Coordinates.Longitude))
	}
	coords = append(coords, fmt.Sprintf("%f,%f", OfficeLocation.Coordinates.Latitude, OfficeLocation.Coordinates.Longitude))
	return strings.Join(coords, ":")
}
