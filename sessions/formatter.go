package sessions

import (
	"encoding/json"
	"fmt"
)

// maxDisplayChars is the display budget for raw tool output.
const maxDisplayChars = 1000

// FormatToolOutput maps a tool's JSON result to a single human-readable
// summary line. Priority order, first match wins: a pre-built display
// payload, a generic "message" field, an "error" field, a template keyed by
// function name, then the truncated raw JSON. Non-JSON output degrades to
// truncated raw text, marked as such.
func FormatToolOutput(functionName, output string) string {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		return "Completed. Output (non-JSON): " + truncateForDisplay(output)
	}

	if display, ok := payload["_chat_display"]; ok {
		if rendered := renderChatDisplay(display); rendered != "" {
			return rendered
		}
	}
	if message, ok := payload["message"].(string); ok {
		return message
	}
	if errVal, ok := payload["error"]; ok {
		return fmt.Sprintf("Error: %v", errVal)
	}

	switch functionName {
	case "check_item_stock":
		if _, ok := payload["stock"]; ok {
			return fmt.Sprintf("%v (ID: %v): %v units in stock.", payload["name"], payload["item_id"], payload["stock"])
		}
	case "find_item_location":
		if _, ok := payload["location_id"]; ok {
			return fmt.Sprintf("%v (ID: %v) is located at Shelf %v, Position %v.",
				payload["name"], payload["item_id"], payload["location_id"], payload["position"])
		}
	case "get_items_needing_restock":
		if count, ok := payload["count"].(float64); ok {
			return formatRestockSummary(int(count), payload["low_stock_items"])
		}
	}

	return "Completed. Output: " + truncateForDisplay(output)
}

// renderChatDisplay turns a pre-built display payload into its display
// string. Image payloads render as markdown so the widget can inline them.
func renderChatDisplay(display interface{}) string {
	fields, ok := display.(map[string]interface{})
	if !ok {
		if s, ok := display.(string); ok {
			return s
		}
		return ""
	}

	title, _ := fields["title"].(string)
	if kind, _ := fields["type"].(string); kind == "image" {
		if url, _ := fields["url"].(string); url != "" {
			if title == "" {
				title = "map"
			}
			return fmt.Sprintf("![%s](%s)", title, url)
		}
	}
	if text, _ := fields["text"].(string); text != "" {
		return text
	}
	return title
}

func formatRestockSummary(count int, items interface{}) string {
	if count <= 0 {
		return "No items found needing restock."
	}

	examples := ""
	if list, ok := items.([]interface{}); ok {
		for i, raw := range list {
			if i == 3 {
				break
			}
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if examples != "" {
				examples += ", "
			}
			examples += fmt.Sprintf("%v (%v)", item["name"], item["current_stock"])
		}
	}

	suffix := ""
	if count > 3 {
		suffix = "..."
	}
	return fmt.Sprintf("Found %d low stock items. Examples: %s%s.", count, examples, suffix)
}

func truncateForDisplay(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDisplayChars {
		return s
	}
	return string(runes[:maxDisplayChars]) + "…"
}
