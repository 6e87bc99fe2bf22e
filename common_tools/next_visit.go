package common_tools

// GetNextVisit advances to the next client on today's route and returns
// the visit briefing. Past the last client it reports the day as done.
func GetNextVisit(state *RouteState, maps *MapsClient) (string, error) {
	if len(state.clientList()) == 0 {
		result, err := PlanOptimalRoute(state, maps)
		if err != nil || isErrorPayload(result) || len(state.clientList()) == 0 {
			return result, err
		}
	}

	index := state.advance()
	clients := state.clientList()

	if index >= len(clients) {
		return marshalResult(map[string]interface{}{
			"message":  "All client visits completed. Returning to office.",
			"location": OfficeLocation.Name,
			"address":  OfficeLocation.Address,
			"status":   "completed",
		})
	}

	next := clients[index]

	lastVisit := "Unknown"
	notes := "No notes available"
	if details, err := GetClientDetails(next.ID, state.now()); err == nil {
		lastVisit = details.LastVisit
		notes = details.Notes
	}

	return marshalResult(map[string]interface{}{
		"visit_number":   index + 1,
		"total_visits":   len(clients),
		"client_id":      next.ID,
		"client_name":    next.Name,
		"contact_person": next.Contact,
		"address":        next.Address,
		"coordinates":    next.Coordinates,
		"priority":       next.Priority,
		"last_visit":     lastVisit,
		"notes":          notes,
		"status":         "in_progress",
	})
}
