// Package server implements the agora request dispatcher: the capability
// registries, the name/URI routing rules, the request-validation contract,
// and the error-mapping policy.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/agoralabs/agora/metrics"
	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/util/schema"
)

// Server is the dispatcher core. Tool and resource groups are added during a
// single-threaded startup phase; once serving begins the registries are
// read-only, so concurrent transport goroutines may dispatch without
// additional locking provided handlers are themselves safe for concurrent
// invocation.
type Server struct {
	name           string
	logger         *slog.Logger
	metrics        *metrics.Metrics
	toolGroups     []*ToolGroup
	resourceGroups []*ResourceGroup
	schemeIndex    map[string]*ResourceGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches dispatch metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a dispatcher with no groups registered.
func NewServer(name string, opts ...Option) *Server {
	s := &Server{
		name:        name,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		schemeIndex: make(map[string]*ResourceGroup),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToolGroup registers a tool group. Group order is fixed at startup and
// drives both discovery listings and prefix routing. Prefixes must be
// disjoint: an overlap in either direction is rejected here rather than
// resolved silently by match order at dispatch time.
func (s *Server) AddToolGroup(g *ToolGroup) error {
	if g.prefix == "" {
		return fmt.Errorf("tool group '%s' has an empty prefix", g.name)
	}
	for _, existing := range s.toolGroups {
		if strings.HasPrefix(g.prefix, existing.prefix) || strings.HasPrefix(existing.prefix, g.prefix) {
			return fmt.Errorf("tool group prefix '%s' overlaps with registered prefix '%s'", g.prefix, existing.prefix)
		}
	}
	s.toolGroups = append(s.toolGroups, g)
	s.logger.Debug("registered tool group", "group", g.name, "prefix", g.prefix)
	return nil
}

// AddResourceGroup registers a resource group. The URI scheme deterministically
// selects the group, so each scheme may be claimed once.
func (s *Server) AddResourceGroup(g *ResourceGroup) error {
	if g.scheme == "" {
		return fmt.Errorf("resource group '%s' has an empty scheme", g.name)
	}
	if _, exists := s.schemeIndex[g.scheme]; exists {
		return fmt.Errorf("resource scheme '%s' already claimed", g.scheme)
	}
	s.resourceGroups = append(s.resourceGroups, g)
	s.schemeIndex[g.scheme] = g
	s.logger.Debug("registered resource group", "group", g.name, "scheme", g.scheme)
	return nil
}

// ListTools collects every group's descriptors in group order, each group in
// registration order. The list is stable across calls.
func (s *Server) ListTools() protocol.ListToolsResult {
	s.metrics.ObserveRequest(protocol.MethodListTools)
	var tools []protocol.Tool
	for _, g := range s.toolGroups {
		tools = append(tools, g.registry.List()...)
	}
	return protocol.ListToolsResult{Tools: tools}
}

// CallTool routes a tool invocation: prefix match selects the owning group,
// exact-name lookup selects the tool, arguments are validated against the
// declared schema, and the handler outcome is wrapped into the response
// envelope. Any handler failure that is not already a *protocol.Error is
// reclassified as InternalError.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	s.metrics.ObserveRequest(protocol.MethodCallTool)

	group := s.resolveToolGroup(name)
	if group == nil {
		return nil, s.fail(protocol.NewMethodNotFoundError(fmt.Sprintf("Unknown tool: %s", name)))
	}
	handler, def, ok := group.registry.Resolve(name)
	if !ok {
		return nil, s.fail(protocol.NewMethodNotFoundError(fmt.Sprintf("Unknown tool: %s", name)))
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	if err := schema.ValidateArguments(def.InputSchema, args); err != nil {
		return nil, s.fail(protocol.AsError(err))
	}

	s.logger.Debug("invoking tool", "tool", name, "group", group.name)
	s.metrics.ObserveToolCall(name)

	content, err := handler(ctx, args)
	if err != nil {
		return nil, s.fail(protocol.AsError(err))
	}
	return &protocol.CallToolResult{Content: content}, nil
}

// ListResources concatenates every group's static descriptors in group
// order.
func (s *Server) ListResources() protocol.ListResourcesResult {
	s.metrics.ObserveRequest(protocol.MethodListResources)
	var resources []protocol.Resource
	for _, g := range s.resourceGroups {
		resources = append(resources, g.registry.ListStatic()...)
	}
	return protocol.ListResourcesResult{Resources: resources}
}

// ListResourceTemplates concatenates every group's template descriptors in
// group order.
func (s *Server) ListResourceTemplates() protocol.ListResourceTemplatesResult {
	s.metrics.ObserveRequest(protocol.MethodListResourceTemplates)
	var templates []protocol.ResourceTemplate
	for _, g := range s.resourceGroups {
		templates = append(templates, g.registry.ListTemplates()...)
	}
	return protocol.ListResourceTemplatesResult{ResourceTemplates: templates}
}

// ReadResource routes a document read: the URI scheme selects the owning
// group, the group's registry resolves the URI (static first, then templates
// in registration order), and the handler's body is wrapped as one contents
// block tagged with the URI and mime type.
func (s *Server) ReadResource(ctx context.Context, uri string) (*protocol.ReadResourceResult, error) {
	s.metrics.ObserveRequest(protocol.MethodReadResource)

	scheme, ok := splitScheme(uri)
	if !ok {
		return nil, s.fail(protocol.NewInvalidRequestError(fmt.Sprintf("Invalid URI format: %s", uri)))
	}
	group, ok := s.schemeIndex[scheme]
	if !ok {
		return nil, s.fail(protocol.NewInvalidRequestError(fmt.Sprintf("Invalid URI format: %s", uri)))
	}

	resolved, ok := group.registry.Resolve(uri)
	if !ok {
		return nil, s.fail(group.notFoundError(uri))
	}

	s.logger.Debug("reading resource", "uri", uri, "group", group.name)

	body, err := resolved.Handler(ctx, resolved.Params)
	if err != nil {
		return nil, s.fail(protocol.AsError(err))
	}
	contents := buildResourceContents(uri, resolved.MimeType, body)
	return &protocol.ReadResourceResult{Contents: []protocol.ResourceContents{contents}}, nil
}

// HandleMessage processes one framed request and always produces one framed
// response, so byte-stream transports can host the dispatcher without
// knowing the request alphabet.
func (s *Server) HandleMessage(ctx context.Context, raw []byte) []byte {
	var req protocol.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return s.encodeResponse(protocol.Response{
			Error: protocol.NewInvalidRequestError(fmt.Sprintf("Failed to parse request: %v", err)),
		})
	}

	resp := protocol.Response{ID: req.ID}

	switch req.Method {
	case protocol.MethodListTools:
		resp.Result = s.ListTools()
	case protocol.MethodCallTool:
		var params protocol.CallToolParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			resp.Error = protocol.NewInvalidParamsError(fmt.Sprintf("Failed to parse call_tool params: %v", err))
			break
		}
		result, err := s.CallTool(ctx, params.Name, params.Arguments)
		if err != nil {
			resp.Error = protocol.AsError(err)
			break
		}
		resp.Result = result
	case protocol.MethodListResources:
		resp.Result = s.ListResources()
	case protocol.MethodListResourceTemplates:
		resp.Result = s.ListResourceTemplates()
	case protocol.MethodReadResource:
		var params protocol.ReadResourceParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			resp.Error = protocol.NewInvalidParamsError(fmt.Sprintf("Failed to parse read_resource params: %v", err))
			break
		}
		result, err := s.ReadResource(ctx, params.URI)
		if err != nil {
			resp.Error = protocol.AsError(err)
			break
		}
		resp.Result = result
	default:
		resp.Error = protocol.NewMethodNotFoundError(fmt.Sprintf("Method '%s' not implemented", req.Method))
		s.metrics.ObserveError(string(protocol.ErrorKindMethodNotFound))
	}

	return s.encodeResponse(resp)
}

// resolveToolGroup finds the group owning a tool name by prefix match.
// Prefixes are disjoint by construction, so at most one group matches.
func (s *Server) resolveToolGroup(name string) *ToolGroup {
	for _, g := range s.toolGroups {
		if strings.HasPrefix(name, g.prefix) {
			return g
		}
	}
	return nil
}

// fail records the error kind and returns the envelope unchanged. The
// dispatcher surfaces each failure exactly once and never retries.
func (s *Server) fail(e *protocol.Error) *protocol.Error {
	s.metrics.ObserveError(string(e.Code))
	return e
}

func (s *Server) encodeResponse(resp protocol.Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		fallback := protocol.Response{
			ID:    resp.ID,
			Error: protocol.NewInternalError(fmt.Sprintf("failed to encode response: %v", err)),
		}
		data, _ = json.Marshal(fallback)
	}
	return data
}

func unmarshalParams(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("params are required")
	}
	return json.Unmarshal(raw, out)
}

// splitScheme extracts the scheme of a "scheme://rest" URI.
func splitScheme(uri string) (string, bool) {
	idx := strings.Index(uri, "://")
	if idx <= 0 {
		return "", false
	}
	return uri[:idx], true
}
