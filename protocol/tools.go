package protocol

// --- Tooling Structures ---

// InputSchema declares the expected argument shape for a tool (a small JSON
// Schema subset: an object with typed properties and a required list).
type InputSchema struct {
	Type       string                    `json:"type"` // always "object"
	Properties map[string]PropertyDetail `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertyDetail describes a single argument within an InputSchema.
// Kind is one of: string, number, boolean, array, object.
type PropertyDetail struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Items       *PropertyDetail `json:"items,omitempty"` // item shape when Type is "array"
	Enum        []interface{}   `json:"enum,omitempty"`
}

// Tool describes one named operation offered by the server.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema"`
}

// CallToolParams are the parameters of a 'call_tool' request.
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ListToolsResult is the result payload of a 'list_tools' response. Tools
// appear in registration order, group by group.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolResult is the result payload of a successful 'call_tool' response:
// an ordered sequence of content blocks.
type CallToolResult struct {
	Content []Content `json:"content"`
}
