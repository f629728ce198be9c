// Package resolver computes the dependency closure of catalog templates.
//
// The closure is every template reachable through Dependencies, visited
// depth-first in declaration order, restricted to templates available for the
// target framework. Catalog inconsistencies (unknown identities, templates
// unavailable for the framework, cycles) are logged and skipped; they never
// fail a resolution.
package resolver

import (
	"log/slog"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/logx"
)

// Source looks up templates by identity.
type Source interface {
	Template(identity string) (catalog.Template, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report catalog inconsistencies.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// Resolver resolves template dependency closures against a Source.
type Resolver struct {
	source Source
	logger *slog.Logger
}

// New creates a Resolver over source.
func New(source Source, opts ...Option) *Resolver {
	r := &Resolver{source: source}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logx.OrDiscard(r.logger)
	return r
}

// Resolve returns the transitive dependencies of t for framework, excluding
// t itself, each identity at most once, in pre-order.
func (r *Resolver) Resolve(t catalog.Template, framework string) []catalog.Template {
	visited := map[string]bool{t.Identity: true}
	var out []catalog.Template
	r.visit(t, framework, visited, &out)
	return out
}

// ResolveIdentities is Resolve reduced to identities.
func (r *Resolver) ResolveIdentities(t catalog.Template, framework string) []string {
	deps := r.Resolve(t, framework)
	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.Identity
	}
	return ids
}

func (r *Resolver) visit(t catalog.Template, framework string, visited map[string]bool, out *[]catalog.Template) {
	for _, id := range t.Dependencies {
		if visited[id] {
			r.logger.Debug("dependency already visited",
				"template", t.Identity, "dependency", id)
			continue
		}
		visited[id] = true

		dep, ok := r.source.Template(id)
		if !ok {
			r.logger.Warn("template references unknown dependency",
				"template", t.Identity, "dependency", id)
			continue
		}
		if !dep.SupportsFramework(framework) {
			r.logger.Warn("dependency unavailable for framework",
				"template", t.Identity, "dependency", id, "framework", framework)
			continue
		}

		*out = append(*out, dep)
		r.visit(dep, framework, visited, out)
	}
}
