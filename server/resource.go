package server

import (
	"context"
	"fmt"

	"github.com/agoralabs/agora/protocol"
	"github.com/yosida95/uritemplate/v3"
)

// ResourceHandler produces the body of one document. For template resources
// params carries the placeholder bindings captured from the URI. The
// returned body is wrapped by the dispatcher: strings become the text
// variant, anything else the json variant.
type ResourceHandler func(ctx context.Context, params map[string]string) (interface{}, error)

type staticResource struct {
	def     protocol.Resource
	handler ResourceHandler
}

type templateResource struct {
	def     protocol.ResourceTemplate
	tmpl    *uritemplate.Template
	handler ResourceHandler
}

// ResolvedResource is the outcome of a successful URI resolution: the
// handler to invoke, the captured placeholder bindings, and the mime type
// declared by the matched descriptor.
type ResolvedResource struct {
	Handler  ResourceHandler
	Params   map[string]string
	MimeType string
}

// ResourceRegistry maps concrete URIs and URI templates to handlers. Static
// URIs resolve by exact match before any template is tried; templates are
// tried in registration order and the first structural match wins.
type ResourceRegistry struct {
	staticOrder []string
	statics     map[string]staticResource
	templates   []templateResource
}

// NewResourceRegistry creates an empty resource registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{statics: make(map[string]staticResource)}
}

// RegisterStatic adds a fixed-URI resource.
func (r *ResourceRegistry) RegisterStatic(def protocol.Resource, handler ResourceHandler) error {
	if def.URI == "" {
		return fmt.Errorf("resource URI cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for resource '%s' cannot be nil", def.URI)
	}
	if _, exists := r.statics[def.URI]; exists {
		return fmt.Errorf("resource '%s' already registered", def.URI)
	}
	r.statics[def.URI] = staticResource{def: def, handler: handler}
	r.staticOrder = append(r.staticOrder, def.URI)
	return nil
}

// RegisterTemplate adds a parameterized resource. Registration order is
// preserved: it is the sole disambiguator when a URI could match more than
// one template.
func (r *ResourceRegistry) RegisterTemplate(def protocol.ResourceTemplate, handler ResourceHandler) error {
	if handler == nil {
		return fmt.Errorf("handler for template '%s' cannot be nil", def.URITemplate)
	}
	tmpl, err := uritemplate.New(def.URITemplate)
	if err != nil {
		return fmt.Errorf("invalid URI template '%s': %w", def.URITemplate, err)
	}
	for _, existing := range r.templates {
		if existing.def.URITemplate == def.URITemplate {
			return fmt.Errorf("URI template '%s' already registered", def.URITemplate)
		}
	}
	r.templates = append(r.templates, templateResource{def: def, tmpl: tmpl, handler: handler})
	return nil
}

// ListStatic returns static resource descriptors in registration order.
func (r *ResourceRegistry) ListStatic() []protocol.Resource {
	defs := make([]protocol.Resource, 0, len(r.staticOrder))
	for _, uri := range r.staticOrder {
		defs = append(defs, r.statics[uri].def)
	}
	return defs
}

// ListTemplates returns template descriptors in registration order.
func (r *ResourceRegistry) ListTemplates() []protocol.ResourceTemplate {
	defs := make([]protocol.ResourceTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		defs = append(defs, t.def)
	}
	return defs
}

// Resolve maps a URI to a handler. Exact static match first, then templates
// in registration order. Every captured placeholder must bind a non-empty
// value; a template whose bindings are empty does not match. Absence is
// reported as a boolean, not an error: the owning group knows the domain
// entity name and builds the NotFound message.
func (r *ResourceRegistry) Resolve(uri string) (*ResolvedResource, bool) {
	if s, ok := r.statics[uri]; ok {
		return &ResolvedResource{Handler: s.handler, MimeType: s.def.MimeType}, true
	}
	for _, t := range r.templates {
		params, ok := matchTemplate(t.tmpl, uri)
		if !ok {
			continue
		}
		return &ResolvedResource{Handler: t.handler, Params: params, MimeType: t.def.MimeType}, true
	}
	return nil, false
}

// matchTemplate matches a URI against a compiled template and extracts the
// placeholder bindings as strings.
func matchTemplate(tmpl *uritemplate.Template, uri string) (map[string]string, bool) {
	values := tmpl.Match(uri)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string)
	for _, varname := range tmpl.Varnames() {
		value := values.Get(varname)
		if !value.Valid() || value.T != uritemplate.ValueTypeString {
			return nil, false
		}
		bound := value.String()
		if bound == "" {
			// An empty segment (e.g. "proposal://") is not a match.
			return nil, false
		}
		params[varname] = bound
	}
	return params, true
}

// ResourceGroup binds a resource registry to the URI scheme that owns it.
// The dispatcher selects a group by scheme before any template matching is
// attempted. Entity is the human-readable name used in NotFound messages,
// because the group, not the generic registry, knows what kind of document
// lives behind its scheme.
type ResourceGroup struct {
	name     string
	scheme   string
	entity   string
	registry *ResourceRegistry
}

// NewResourceGroup creates a resource group owning the given URI scheme
// (without the "://" separator).
func NewResourceGroup(name, scheme, entity string) *ResourceGroup {
	return &ResourceGroup{name: name, scheme: scheme, entity: entity, registry: NewResourceRegistry()}
}

// Name returns the group's name.
func (g *ResourceGroup) Name() string { return g.name }

// Scheme returns the URI scheme the group owns.
func (g *ResourceGroup) Scheme() string { return g.scheme }

// Registry returns the group's resource registry.
func (g *ResourceGroup) Registry() *ResourceRegistry { return g.registry }

// notFoundError builds the NotFound envelope for a URI that resolved to
// nothing within this group.
func (g *ResourceGroup) notFoundError(uri string) *protocol.Error {
	return protocol.NewNotFoundError(fmt.Sprintf("%s not found: %s", g.entity, uri))
}
