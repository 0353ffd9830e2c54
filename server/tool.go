package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/agoralabs/agora/protocol"
)

// ToolHandler executes one tool invocation. Arguments have already been
// validated against the tool's input schema when the handler runs. A handler
// either returns the ordered content blocks of a successful call or an
// error; returning a *protocol.Error selects a specific error kind,
// anything else is wrapped as InternalError at the dispatch boundary.
type ToolHandler func(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error)

type registeredTool struct {
	def     protocol.Tool
	handler ToolHandler
}

// ToolRegistry maps tool names to descriptors and handlers, preserving
// registration order for discovery listings. Registration happens during the
// single-threaded startup phase; afterwards the registry is read-only.
type ToolRegistry struct {
	order []string
	tools map[string]registeredTool
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]registeredTool)}
}

// Register adds a tool. Registering a duplicate name is a configuration
// error surfaced at startup, never a dispatch-time ambiguity.
func (r *ToolRegistry) Register(def protocol.Tool, handler ToolHandler) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for tool '%s' cannot be nil", def.Name)
	}
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", def.Name)
	}
	r.tools[def.Name] = registeredTool{def: def, handler: handler}
	r.order = append(r.order, def.Name)
	return nil
}

// List returns all tool descriptors in registration order.
func (r *ToolRegistry) List() []protocol.Tool {
	defs := make([]protocol.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Resolve looks up a tool by exact name.
func (r *ToolRegistry) Resolve(name string) (ToolHandler, protocol.Tool, bool) {
	t, ok := r.tools[name]
	if !ok {
		return nil, protocol.Tool{}, false
	}
	return t.handler, t.def, true
}

// ToolGroup binds a tool registry to the name prefix that owns it. Every
// tool registered through the group must carry the group's prefix; the
// dispatcher routes call_tool requests to groups by prefix alone.
type ToolGroup struct {
	name     string
	prefix   string
	registry *ToolRegistry
}

// NewToolGroup creates a tool group owning the given name prefix
// (e.g. "proposal_").
func NewToolGroup(name, prefix string) *ToolGroup {
	return &ToolGroup{name: name, prefix: prefix, registry: NewToolRegistry()}
}

// Name returns the group's name.
func (g *ToolGroup) Name() string { return g.name }

// Prefix returns the tool name prefix the group owns.
func (g *ToolGroup) Prefix() string { return g.prefix }

// Registry returns the group's tool registry.
func (g *ToolGroup) Registry() *ToolRegistry { return g.registry }

// Register adds a tool to the group after checking it carries the group's
// prefix.
func (g *ToolGroup) Register(def protocol.Tool, handler ToolHandler) error {
	if !strings.HasPrefix(def.Name, g.prefix) {
		return fmt.Errorf("tool '%s' does not carry group prefix '%s'", def.Name, g.prefix)
	}
	return g.registry.Register(def, handler)
}
