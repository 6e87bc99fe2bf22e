package sessions

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatToolOutputChatDisplayWinsOverMessage(t *testing.T) {
	output := `{"message":"plain text","_chat_display":{"type":"image","url":"https://maps.example/m.png","title":"Map of Office"}}`
	got := FormatToolOutput("generate_location_map", output)
	want := "![Map of Office](https://maps.example/m.png)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatToolOutputMessageField(t *testing.T) {
	got := FormatToolOutput("reset_sales_day", `{"message":"Sales day has been reset. You can now plan a new route.","status":"success"}`)
	if got != "Sales day has been reset. You can now plan a new route." {
		t.Errorf("got %q", got)
	}
}

func TestFormatToolOutputErrorField(t *testing.T) {
	got := FormatToolOutput("plan_optimal_route", `{"error":"Azure Maps API request failed with status 403"}`)
	if got != "Error: Azure Maps API request failed with status 403" {
		t.Errorf("got %q", got)
	}
}

func TestFormatToolOutputStockTemplate(t *testing.T) {
	got := FormatToolOutput("check_item_stock", `{"name":"Widget","item_id":"W1","stock":12}`)
	if got != "Widget (ID: W1): 12 units in stock." {
		t.Errorf("got %q", got)
	}
}

func TestFormatToolOutputLocationTemplate(t *testing.T) {
	got := FormatToolOutput("find_item_location", `{"name":"Widget","item_id":"W1","location_id":"A","position":3}`)
	if got != "Widget (ID: W1) is located at Shelf A, Position 3." {
		t.Errorf("got %q", got)
	}
}

func TestFormatToolOutputRestockSummary(t *testing.T) {
	payload := map[string]interface{}{
		"count": 5,
		"low_stock_items": []map[string]interface{}{
			{"name": "A", "current_stock": 1},
			{"name": "B", "current_stock": 2},
			{"name": "C", "current_stock": 0},
			{"name": "D", "current_stock": 4},
			{"name": "E", "current_stock": 3},
		},
	}
	data, _ := json.Marshal(payload)

	got := FormatToolOutput("get_items_needing_restock", string(data))
	want := "Found 5 low stock items. Examples: A (1), B (2), C (0)...."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	empty := FormatToolOutput("get_items_needing_restock", `{"count":0,"low_stock_items":[]}`)
	if empty != "No items found needing restock." {
		t.Errorf("got %q", empty)
	}
}

func TestFormatToolOutputRawJSONTruncated(t *testing.T) {
	big, _ := json.Marshal(map[string]string{"blob": strings.Repeat("x", 2000)})
	got := FormatToolOutput("some_unknown_tool", string(big))

	if !strings.HasPrefix(got, "Completed. Output: ") {
		t.Errorf("missing raw prefix: %q", got[:40])
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("missing truncation marker")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(got, "Completed. Output: "), "…")
	if len([]rune(body)) != maxDisplayChars {
		t.Errorf("truncated body length %d, want %d", len([]rune(body)), maxDisplayChars)
	}
}

func TestFormatToolOutputNonJSON(t *testing.T) {
	got := FormatToolOutput("some_tool", "plain text result")
	if got != "Completed. Output (non-JSON): plain text result" {
		t.Errorf("got %q", got)
	}
}

func TestFormatToolOutputShortJSONNotTruncated(t *testing.T) {
	got := FormatToolOutput("some_tool", `{"клиент":"Альпийский"}`)
	if strings.Contains(got, "…") {
		t.Errorf("short output should not be truncated: %q", got)
	}
}
