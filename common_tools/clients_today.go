package common_tools

// GetClientsForToday loads today's planned visits into the session state
// and returns the schedule. Any visit progress is discarded.
func GetClientsForToday(state *RouteState) (string, error) {
	schedule := GetTodaysClients(state.now(), 4)
	state.setClients(schedule.Clients)

	type clientSummary struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Address  string `json:"address"`
		Contact  string `json:"contact"`
		Priority string `json:"priority"`
	}

	summaries := make([]clientSummary, 0, len(schedule.Clients))
	for _, client := range schedule.Clients {
		summaries = append(summaries, clientSummary{
			ID:       client.ID,
			Name:     client.Name,
			Address:  client.Address,
			Contact:  client.Contact,
			Priority: client.Priority,
		})
	}

	return marshalResult(map[string]interface{}{
		"date":         schedule.Date,
		"client_count": len(schedule.Clients),
		"clients":      summaries,
	})
}
