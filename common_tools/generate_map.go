package common_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

type mapArgs struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
}

// GenerateLocationMap renders a static map for a place. With no arguments it
// maps the client currently being visited. Output carries a _chat_display
// payload so the UI can show the image inline.
func GenerateLocationMap(state *RouteState, maps *MapsClient, argsJSON string) (string, error) {
	var args mapArgs
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return errorJSON("invalid arguments: %v", err), nil
		}
	}

	var lat, lon float64
	var locationName string

	switch {
	case args.Query == "" && (args.Lat == nil || args.Lon == nil):
		index, clients := state.position()
		if index < 0 || index >= len(clients) {
			return errorJSON("No location specified and no current visit active"), nil
		}
		client := clients[index]
		lat = client.Coordinates.Latitude
		lon = client.Coordinates.Longitude
		locationName = client.Name

	case args.Lat != nil && args.Lon != nil:
		lat = *args.Lat
		lon = *args.Lon
		locationName = fmt.Sprintf("Location at %v, %v", lat, lon)

	default:
		if !maps.HasKey() {
			return illustrativeMap(args.Query)
		}
		var err error
		lat, lon, err = maps.Geocode(args.Query)
		if err != nil {
			return errorJSON("%v", err), nil
		}
		locationName = args.Query
	}

	if !maps.HasKey() {
		return illustrativeMap(locationName)
	}

	mapURL := maps.StaticMapURL(lat, lon)
	return marshalResult(map[string]interface{}{
		"location_name": locationName,
		"map_url":       mapURL,
		"coordinates":   Coordinates{Latitude: lat, Longitude: lon},
		"type":          "image/png",
		"_chat_display": map[string]interface{}{
			"type":  "image",
			"url":   mapURL,
			"title": "Map of " + locationName,
		},
	})
}

// illustrativeMap covers deployments with no Azure Maps key by generating
// a stylized map image with Gemini and serving it from the local images dir.
func illustrativeMap(locationName string) (string, error) {
	if locationName == "" {
		locationName = OfficeLocation.Address
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return errorJSON("Azure Maps API key not found and image fallback unavailable: %v", err), nil
	}

	prompt := "A clean stylized street map illustration of " + locationName + ", top-down view, with a single red location pin"
	result, err := client.Models.GenerateContent(ctx, "gemini-2.5-flash-image", genai.Text(prompt), nil)
	if err != nil {
		return errorJSON("failed to generate map illustration: %v", err), nil
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return errorJSON("no map illustration generated"), nil
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData == nil {
			continue
		}

		extension := "png"
		if strings.Contains(part.InlineData.MIMEType, "jpeg") || strings.Contains(part.InlineData.MIMEType, "jpg") {
			extension = "jpg"
		}

		filename := fmt.Sprintf("map_%s.%s", time.Now().Format("20060102_150405"), extension)
		imagesDir := "images"
		if err := os.MkdirAll(imagesDir, 0755); err != nil {
			return errorJSON("failed to create images directory: %v", err), nil
		}
		if err := os.WriteFile(filepath.Join(imagesDir, filename), part.InlineData.Data, 0644); err != nil {
			return errorJSON("failed to save map illustration: %v", err), nil
		}

		serverHost := os.Getenv("SERVER_HOST")
		if serverHost == "" {
			serverHost = "http://localhost:8080"
		}
		mapURL := fmt.Sprintf("%s/images/%s", serverHost, filename)

		return marshalResult(map[string]interface{}{
			"location_name": locationName,
			"map_url":       mapURL,
			"type":          "image/" + extension,
			"illustrative":  true,
			"_chat_display": map[string]interface{}{
				"type":  "image",
				"url":   mapURL,
				"title": "Map of " + locationName,
			},
		})
	}

	return errorJSON("no map illustration data found in response"), nil
}
