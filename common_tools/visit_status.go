package common_tools

// GetCurrentVisitStatus reports where the rep stands in today's route:
// still at the office, mid-visit, or done for the day.
func GetCurrentVisitStatus(state *RouteState, maps *MapsClient) (string, error) {
	if len(state.clientList()) == 0 {
		result, err := PlanOptimalRoute(state, maps)
		if err != nil || isErrorPayload(result) || len(state.clientList()) == 0 {
			return result, err
		}
	}

	index, clients := state.position()

	if index < 0 {
		return marshalResult(map[string]interface{}{
			"message":     "Sales day not yet started. Currently at office.",
			"location":    OfficeLocation.Name,
			"address":     OfficeLocation.Address,
			"next_action": "Use get_next_visit to start your first client visit",
			"status":      "not_started",
		})
	}

	if index >= len(clients) {
		names := make([]string, 0, len(clients))
		for _, client := range clients {
			names = append(names, client.Name)
		}
		return marshalResult(map[string]interface{}{
			"message":  "All client visits completed. Returned to office.",
			"location": OfficeLocation.Name,
			"address":  OfficeLocation.Address,
			"status":   "completed",
			"summary": map[string]interface{}{
				"total_visits":    len(clients),
				"clients_visited": names,
			},
		})
	}

	current := clients[index]
	remaining := len(clients) - index - 1

	nextAction := "Complete this visit to finish your sales day"
	if remaining > 0 {
		nextAction = "Complete this visit and use get_next_visit to proceed to the next client"
	}

	return marshalResult(map[string]interface{}{
		"message":          "Currently visiting " + current.Name,
		"visit_number":     index + 1,
		"total_visits":     len(clients),
		"remaining_visits": remaining,
		"client_id":        current.ID,
		"client_name":      current.Name,
		"address":          current.Address,
		"contact_person":   current.Contact,
		"next_action":      nextAction,
		"status":           "in_progress",
	})
}
