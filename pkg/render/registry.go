package render

import (
	"html/template"
	"sync"

	"github.com/rubiojr/dataplans/pkg/core"
)

// CardRenderer renders one match as a package card. Implementations return
// trusted HTML with every record value escaped.
type CardRenderer interface {
	Render(m core.Match) template.HTML
	CanRender(r *core.Record) bool
	Name() string
}

// Registry picks the first registered renderer that accepts a record and
// falls back to a default card. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers []CardRenderer
	fallback  CardRenderer
}

// NewRegistry returns a registry holding only the default card.
func NewRegistry() *Registry {
	return &Registry{fallback: NewDefaultRenderer()}
}

// DefaultRegistry returns a registry with a card per known source.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, src := range core.KnownSources {
		reg.Register(NewSourceRenderer(src))
	}
	return reg
}

func (r *Registry) Register(renderer CardRenderer) {
	if renderer == nil {
		return
	}
	r.mu.Lock()
	r.renderers = append(r.renderers, renderer)
	r.mu.Unlock()
}

// Render renders m with the first matching renderer.
func (r *Registry) Render(m core.Match) template.HTML {
	return r.Renderer(&m.Record).Render(m)
}

// Renderer returns the renderer used for rec, never nil.
func (r *Registry) Renderer(rec *core.Record) CardRenderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, renderer := range r.renderers {
		if renderer.CanRender(rec) {
			return renderer
		}
	}
	return r.fallback
}

// Names lists registered renderers in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for _, renderer := range r.renderers {
		out = append(out, renderer.Name())
	}
	return out
}

// SetDefaultRenderer overrides the fallback card.
func (r *Registry) SetDefaultRenderer(cr CardRenderer) {
	if cr == nil {
		return
	}
	r.mu.Lock()
	r.fallback = cr
	r.mu.Unlock()
}
