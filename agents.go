package salespilot

import (
	"encoding/json"
	"fmt"

	models "github.com/salespilot/salespilot/models"
)

// AgentInstructions is the system prompt configured on the sales planning
// agent.
const AgentInstructions = `You are a helpful Sales Planning Assistant designed to help sales professionals plan and execute their daily client visits. Follow these rules:

1. **Get Clients:** When the user asks about today's clients or schedule, use ` + "`get_clients_for_today`" + ` to retrieve the list of clients to visit.

2. **Plan Route:** When the user asks to plan or optimize their route, use ` + "`plan_optimal_route`" + ` to get the most efficient route between client locations. Always explain the route plan clearly with total distance, time, and the order of visits.

3. **Next Visit:** When the user asks about their next client or what's next on their schedule, use ` + "`get_next_visit`" + ` to advance to the next client in the optimized route.

4. **Current Status:** If the user asks about their current location or progress, use ` + "`get_current_visit_status`" + ` to check which client they're currently visiting.

5. **Show Maps:** When the user asks to see a location or needs directions, use ` + "`generate_location_map`" + ` to create a static map image for their current or next location. Explain the map is being generated, then display it when ready.

6. **Reset Day:** If the user wants to start over or plan a different route, use ` + "`reset_sales_day`" + ` to clear the current plan.

7. **Be Conversational:** Maintain a helpful, conversational tone. Remember that you're assisting someone who is potentially driving between client locations.

8. **Provide Context:** Always provide useful context with each response, such as travel time to the next location, important client notes, or details about the current visit.

9. **Display Images:** When showing a map, make sure to display the image and explain what the user is seeing.

Always ask if the user needs any more information about their sales route or client visits.`

// Agent bundles the remote agent's identity with the locally executable
// tools backing its function calls.
type Agent struct {
	Name         string
	Model        string
	Instructions string
	Tools        []models.FunctionDeclaration
}

// Create_Agent builds an agent definition over a tool set.
func Create_Agent(name, model, instructions string, tools []models.FunctionDeclaration) Agent {
	return Agent{
		Name:         name,
		Model:        model,
		Instructions: instructions,
		Tools:        tools,
	}
}

// ExecuteTool runs the named tool with its raw JSON arguments. Failures come
// back as a JSON error payload so the model can read and recover from them.
func (a Agent) ExecuteTool(name, argsJSON string) (string, error) {
	for _, tool := range a.Tools {
		if tool.Name != name {
			continue
		}
		if tool.Callable == nil {
			return "", fmt.Errorf("tool %s has no callable", name)
		}
		output, err := tool.Callable(argsJSON)
		if err != nil {
			payload, _ := json.Marshal(map[string]string{"error": err.Error()})
			return string(payload), nil
		}
		return output, nil
	}
	return "", fmt.Errorf("unknown tool: %s", name)
}
