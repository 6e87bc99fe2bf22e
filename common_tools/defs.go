package common_tools

import (
	"github.com/salespilot/salespilot/models"
)

// SalesTools returns the function declarations for the sales visit planning
// tools, with callables bound to one session's route state.
func SalesTools(state *RouteState, maps *MapsClient) []models.FunctionDeclaration {
	return []models.FunctionDeclaration{
		{
			Name:        "get_clients_for_today",
			Description: "Get the list of clients to visit today, with addresses, contacts, and priorities.",
			Parameters: models.Parameters{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
			Callable: func(argsJSON string) (string, error) {
				return GetClientsForToday(state)
			},
		},
		{
			Name:        "plan_optimal_route",
			Description: "Plan the optimal driving route for today's client visits, starting and ending at the office.",
			Parameters: models.Parameters{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
			Callable: func(argsJSON string) (string, error) {
				return PlanOptimalRoute(state, maps)
			},
		},
		{
			Name:        "get_next_visit",
			Description: "Advance to the next client visit on today's route and get the visit details.",
			Parameters: models.Parameters{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
			Callable: func(argsJSON string) (string, error) {
				return GetNextVisit(state, maps)
			},
		},
		{
			Name:        "get_current_visit_status",
			Description: "Get the status of the current client visit and what to do next.",
			Parameters: models.Parameters{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
			Callable: func(argsJSON string) (string, error) {
				return GetCurrentVisitStatus(state, maps)
			},
		},
		{
			Name:        "generate_location_map",
			Description: "Generate a map image for a location. With no arguments, maps the client currently being visited.",
			Parameters: models.Parameters{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Address or place name to map",
					},
					"lat": map[string]interface{}{
						"type":        "number",
						"description": "Latitude, used together with lon when no query is given",
					},
					"lon": map[string]interface{}{
						"type":        "number",
						"description": "Longitude, used together with lat when no query is given",
					},
				},
			},
			Callable: func(argsJSON string) (string, error) {
				return GenerateLocationMap(state, maps, argsJSON)
			},
		},
		{
			Name:        "reset_sales_day",
			Description: "Reset the sales day planning. Clears the schedule, route, and visit progress.",
			Parameters: models.Parameters{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
			Callable: func(argsJSON string) (string, error) {
				return ResetSalesDay(state)
			},
		},
	}
}
