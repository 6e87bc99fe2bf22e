package common_tools

// ResetSalesDay clears the schedule, route, and visit progress so a new
// day can be planned from scratch.
func ResetSalesDay(state *RouteState) (string, error) {
	state.Reset()
	return marshalResult(map[string]string{
		"message": "Sales day has been reset. You can now plan a new route.",
		"status":  "success",
	})
}
