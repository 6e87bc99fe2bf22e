package common_tools

// PlanOptimalRoute asks Azure Maps for the best order to visit today's
// clients. When no schedule is loaded yet it loads one first.
func PlanOptimalRoute(state *RouteState, maps *MapsClient) (string, error) {
	clients := state.clientList()
	if len(clients) == 0 {
		if _, err := GetClientsForToday(state); err != nil {
			return "", err
		}
		clients = state.clientList()
	}

	if len(clients) == 0 {
		return marshalResult(map[string]interface{}{
			"message":   "No clients scheduled for today.",
			"itinerary": []interface{}{},
		})
	}

	if !maps.HasKey() {
		return errorJSON("Azure Maps API key not found in environment variables"), nil
	}

	routeData, err := maps.RouteDirections(formatCoordinatesForRoute(clients))
	if err != nil {
		return errorJSON("%v", err), nil
	}

	routes, ok := routeData["routes"].([]interface{})
	if !ok || len(routes) == 0 {
		return errorJSON("No route data received from Azure Maps API"), nil
	}

	// The per-leg point arrays are huge and useless to the model, drop them.
	for _, routeVal := range routes {
		route, ok := routeVal.(map[string]interface{})
		if !ok {
			continue
		}
		legs, ok := route["legs"].([]interface{})
		if !ok {
			continue
		}
		for _, legVal := range legs {
			if leg, ok := legVal.(map[string]interface{}); ok {
				delete(leg, "points")
			}
		}
	}

	state.setRoute(routeData)
	return marshalResult(routeData)
}
