package server

import (
	"fmt"

	"github.com/agoralabs/agora/protocol"
)

// TextContent wraps a string in a text content block.
func TextContent(text string) protocol.Content {
	return protocol.Content{Type: protocol.ContentTypeText, Text: text}
}

// TextContentf wraps a formatted string in a text content block.
func TextContentf(format string, args ...interface{}) protocol.Content {
	return TextContent(fmt.Sprintf(format, args...))
}

// StructuredContent wraps an arbitrary value in a structured-data content
// block. The value is serialized as-is; handlers may pair it with a text
// block for a human-readable rendering, order preserved.
func StructuredContent(data interface{}) protocol.Content {
	return protocol.Content{Type: protocol.ContentTypeStructured, Data: data}
}

// buildResourceContents wraps a handler's document body into the contents
// shape, tagged with the URI the caller asked for and the mime type declared
// by the matched descriptor. String and byte bodies use the text variant,
// everything else the json variant. Handlers that return a ready-made
// ResourceContents keep it, with missing tags filled in.
func buildResourceContents(uri, mimeType string, body interface{}) protocol.ResourceContents {
	switch b := body.(type) {
	case protocol.ResourceContents:
		if b.URI == "" {
			b.URI = uri
		}
		if b.MimeType == "" {
			b.MimeType = mimeType
		}
		return b
	case string:
		return protocol.ResourceContents{URI: uri, MimeType: mimeType, Text: b}
	case []byte:
		return protocol.ResourceContents{URI: uri, MimeType: mimeType, Text: string(b)}
	default:
		return protocol.ResourceContents{URI: uri, MimeType: mimeType, JSON: b}
	}
}
