package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoralabs/agora/protocol"
)

func noopTool(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error) {
	return []protocol.Content{TextContent("ok")}, nil
}

func TestToolRegistryRegister(t *testing.T) {
	r := NewToolRegistry()

	require.NoError(t, r.Register(protocol.Tool{Name: "proposal_create"}, noopTool))

	err := r.Register(protocol.Tool{Name: "proposal_create"}, noopTool)
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(protocol.Tool{Name: ""}, noopTool)
	assert.ErrorContains(t, err, "cannot be empty")

	err = r.Register(protocol.Tool{Name: "proposal_get"}, nil)
	assert.ErrorContains(t, err, "cannot be nil")
}

func TestToolRegistryListPreservesRegistrationOrder(t *testing.T) {
	r := NewToolRegistry()
	names := []string{"vote_cast", "vote_results", "vote_list"}
	for _, name := range names {
		require.NoError(t, r.Register(protocol.Tool{Name: name}, noopTool))
	}

	var got []string
	for _, def := range r.List() {
		got = append(got, def.Name)
	}
	assert.Equal(t, names, got)
}

func TestToolRegistryResolve(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(protocol.Tool{Name: "comment_add"}, noopTool))

	handler, def, ok := r.Resolve("comment_add")
	require.True(t, ok)
	assert.NotNil(t, handler)
	assert.Equal(t, "comment_add", def.Name)

	_, _, ok = r.Resolve("comment_list")
	assert.False(t, ok)
}

func TestToolGroupEnforcesPrefix(t *testing.T) {
	g := NewToolGroup("proposals", "proposal_")

	require.NoError(t, g.Register(protocol.Tool{Name: "proposal_create"}, noopTool))

	err := g.Register(protocol.Tool{Name: "vote_cast"}, noopTool)
	assert.ErrorContains(t, err, "does not carry group prefix")
}
