// Package protocol defines the wire structures and constants for the agora
// dispatch protocol: the request kinds a transport may deliver, the content
// block variants returned on success, and the closed error taxonomy.
package protocol

import "encoding/json"

// --- Method Name Constants ---
// These align with the 'method' field of a framed request.

const (
	MethodListTools             = "list_tools"
	MethodCallTool              = "call_tool"
	MethodListResources         = "list_resources"
	MethodListResourceTemplates = "list_resource_templates"
	MethodReadResource          = "read_resource"
)

// Request is a single framed request as decoded by a transport. Params are
// kept raw; method-specific handlers unmarshal them.
type Request struct {
	ID     interface{}     `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the envelope written back for every request. Exactly one of
// Result or Error is populated.
type Response struct {
	ID     interface{} `json:"id,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// Content block type tags.
const (
	ContentTypeText       = "text"
	ContentTypeStructured = "structured-data"
)

// Content is one block of a successful tool response. It is a tagged
// variant: Type "text" carries Text, Type "structured-data" carries Data.
type Content struct {
	Type string      `json:"type"`
	Text string      `json:"text,omitempty"`
	Data interface{} `json:"data,omitempty"`
}
