package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoralabs/agora/protocol"
)

func echoResource(body interface{}) ResourceHandler {
	return func(ctx context.Context, params map[string]string) (interface{}, error) {
		return body, nil
	}
}

func TestResourceRegistryTemplateBinding(t *testing.T) {
	r := NewResourceRegistry()
	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "proposal://{id}",
		MimeType:    "application/json",
	}, echoResource("body")))

	resolved, ok := r.Resolve("proposal://42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, resolved.Params)
	assert.Equal(t, "application/json", resolved.MimeType)
}

func TestResourceRegistryRejectsExtraSegments(t *testing.T) {
	r := NewResourceRegistry()
	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "proposal://{id}",
	}, echoResource(nil)))

	_, ok := r.Resolve("proposal://42/extra")
	assert.False(t, ok)
}

func TestResourceRegistryRejectsEmptyBinding(t *testing.T) {
	r := NewResourceRegistry()
	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "proposal://{id}",
	}, echoResource(nil)))

	_, ok := r.Resolve("proposal://")
	assert.False(t, ok)
}

func TestResourceRegistryStaticBeforeTemplate(t *testing.T) {
	r := NewResourceRegistry()
	staticHit := false
	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "proposal://{id}",
	}, echoResource("template")))
	require.NoError(t, r.RegisterStatic(protocol.Resource{
		URI: "proposal://featured",
	}, func(ctx context.Context, params map[string]string) (interface{}, error) {
		staticHit = true
		return "static", nil
	}))

	resolved, ok := r.Resolve("proposal://featured")
	require.True(t, ok)
	_, err := resolved.Handler(context.Background(), resolved.Params)
	require.NoError(t, err)
	assert.True(t, staticHit, "static match must win over templates")
}

func TestResourceRegistryFirstTemplateWins(t *testing.T) {
	r := NewResourceRegistry()
	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "doc://{x}",
	}, echoResource("first")))
	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "doc://{y}",
	}, echoResource("second")))

	resolved, ok := r.Resolve("doc://v")
	require.True(t, ok)
	body, err := resolved.Handler(context.Background(), resolved.Params)
	require.NoError(t, err)
	assert.Equal(t, "first", body)
	assert.Equal(t, map[string]string{"x": "v"}, resolved.Params)
}

func TestResourceRegistryDuplicateRegistration(t *testing.T) {
	r := NewResourceRegistry()
	require.NoError(t, r.RegisterStatic(protocol.Resource{URI: "a://b"}, echoResource(nil)))
	assert.ErrorContains(t, r.RegisterStatic(protocol.Resource{URI: "a://b"}, echoResource(nil)), "already registered")

	require.NoError(t, r.RegisterTemplate(protocol.ResourceTemplate{URITemplate: "a://{id}"}, echoResource(nil)))
	assert.ErrorContains(t, r.RegisterTemplate(protocol.ResourceTemplate{URITemplate: "a://{id}"}, echoResource(nil)), "already registered")
}

func TestResourceGroupNotFoundMessage(t *testing.T) {
	g := NewResourceGroup("proposals", "proposal", "Proposal")
	e := g.notFoundError("proposal://missing")
	assert.Equal(t, protocol.ErrorKindNotFound, e.Code)
	assert.Equal(t, "Proposal not found: proposal://missing", e.Message)
}

func TestBuildResourceContents(t *testing.T) {
	text := buildResourceContents("a://1", "text/plain", "hello")
	assert.Equal(t, "hello", text.Text)
	assert.Nil(t, text.JSON)

	structured := buildResourceContents("a://1", "application/json", map[string]string{"k": "v"})
	assert.Empty(t, structured.Text)
	assert.Equal(t, map[string]string{"k": "v"}, structured.JSON)

	ready := buildResourceContents("a://1", "application/json", protocol.ResourceContents{Text: "x"})
	assert.Equal(t, "a://1", ready.URI)
	assert.Equal(t, "application/json", ready.MimeType)
	assert.Equal(t, "x", ready.Text)
}
