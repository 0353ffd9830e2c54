package protocol

// --- Resource Structures ---

// Resource describes a static (parameterless) document at a fixed URI.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType,omitempty"`
	Description string `json:"description,omitempty"`
}

// ResourceTemplate describes a parameterized document family. The URI
// template contains one or more {placeholder} segments.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType,omitempty"`
	Description string `json:"description,omitempty"`
}

// ReadResourceParams are the parameters of a 'read_resource' request.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one document body tagged with the URI it was read
// from. Exactly one of Text or JSON is populated.
type ResourceContents struct {
	URI      string      `json:"uri"`
	MimeType string      `json:"mimeType,omitempty"`
	Text     string      `json:"text,omitempty"`
	JSON     interface{} `json:"json,omitempty"`
}

// ListResourcesResult is the result payload of a 'list_resources' response.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ListResourceTemplatesResult is the result payload of a
// 'list_resource_templates' response.
type ListResourceTemplatesResult struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
}

// ReadResourceResult is the result payload of a successful 'read_resource'
// response.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}
