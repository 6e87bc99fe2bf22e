package models

// ToolFunc is the callable signature every business tool implements: JSON
// arguments in, JSON result out. Tools report their own failures inside the
// result payload (an "error" field) in addition to the returned error.
type ToolFunc func(argsJSON string) (string, error)

// FunctionDeclaration describes one tool exposed to the remote agent.
type FunctionDeclaration struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	Callable    ToolFunc   `json:"-"`
}

// Parameters defines the JSON Schema for function parameters
type Parameters struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required"`
}
