// Package selection owns the composition being assembled: ordered
// page-groups of pages plus a set of features.
//
// Every public mutation is a whole-composition transaction. The store plans a
// change with the planner, rejects it on conflict or invalid names without
// touching state, and otherwise applies it and re-aligns the home page.
// Changes are announced to subscribers; user-facing problems go to the
// host's StatusFunc; edit actions go to a telemetry sink.
//
// A Store is not safe for concurrent use.
package selection

import (
	"context"
	"log/slog"
	"strings"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/logx"
	"github.com/danieljhkim/appcomposer/internal/naming"
	"github.com/danieljhkim/appcomposer/internal/planner"
	"github.com/danieljhkim/appcomposer/internal/resolver"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for catalog inconsistencies.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTelemetry sets the sink for edit actions.
func WithTelemetry(sink telemetry.Sink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithStatus sets the host status channel.
func WithStatus(fn StatusFunc) Option {
	return func(s *Store) { s.status = fn }
}

// WithReservedWords replaces naming.DefaultReservedWords.
func WithReservedWords(words ...string) Option {
	return func(s *Store) { s.reserved = append([]string(nil), words...) }
}

// WithDisallowedNames adds names free-named instances may not take, on top
// of the fixed default names from the catalog.
func WithDisallowedNames(names ...string) Option {
	return func(s *Store) { s.disallowed = append(s.disallowed, names...) }
}

// Store holds a composition for one framework.
type Store struct {
	catalog   Catalog
	resolver  *resolver.Resolver
	framework string

	pages    [][]*Instance
	features []*Instance
	pending  *PendingEdit

	reserved   []string
	disallowed []string

	sink   telemetry.Sink
	status StatusFunc
	logger *slog.Logger

	subs     []subscription
	nextSub  int
	batching bool
	queued   []Event
}

// New creates an empty Store over cat for framework.
func New(cat Catalog, framework string, opts ...Option) *Store {
	s := &Store{
		catalog:   cat,
		framework: framework,
		reserved:  naming.DefaultReservedWords,
		sink:      telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logx.OrDiscard(s.logger)
	s.resolver = resolver.New(cat, resolver.WithLogger(s.logger))
	return s
}

// Framework returns the framework the store resolves templates for.
func (s *Store) Framework() string {
	return s.framework
}

// Find returns a copy of the named instance.
func (s *Store) Find(name string) (Instance, bool) {
	if inst := s.find(name); inst != nil {
		return inst.clone(), true
	}
	return Instance{}, false
}

// Pages returns copies of the page-groups.
func (s *Store) Pages() [][]Instance {
	out := make([][]Instance, len(s.pages))
	for g, group := range s.pages {
		out[g] = make([]Instance, len(group))
		for i, inst := range group {
			out[g][i] = inst.clone()
		}
	}
	return out
}

// Features returns copies of the features in insertion order.
func (s *Store) Features() []Instance {
	out := make([]Instance, len(s.features))
	for i, inst := range s.features {
		out[i] = inst.clone()
	}
	return out
}

// Instances returns every instance, pages first in group order.
func (s *Store) Instances() []Instance {
	var out []Instance
	s.each(func(inst *Instance) {
		out = append(out, inst.clone())
	})
	return out
}

// Names returns every instance name, pages first.
func (s *Store) Names() []string {
	var out []string
	s.each(func(inst *Instance) {
		out = append(out, inst.Name)
	})
	return out
}

// HomeName returns the name of the home page, or "" without pages.
func (s *Store) HomeName() string {
	if home := s.home(); home != nil {
		return home.Name
	}
	return ""
}

// Pending returns the open edit, if any.
func (s *Store) Pending() (PendingEdit, bool) {
	if s.pending == nil {
		return PendingEdit{}, false
	}
	return *s.pending, true
}

func (s *Store) PageCount() int {
	n := 0
	for _, group := range s.pages {
		n += len(group)
	}
	return n
}

func (s *Store) FeatureCount() int { return len(s.features) }

func (s *Store) HasPages() bool { return s.PageCount() > 0 }

func (s *Store) HasFeatures() bool { return len(s.features) > 0 }

// IsEmpty reports whether the composition holds no instances.
func (s *Store) IsEmpty() bool {
	return !s.HasPages() && !s.HasFeatures()
}

// CanReorder reports whether group holds more than one page.
func (s *Store) CanReorder(group int) bool {
	return group >= 0 && group < len(s.pages) && len(s.pages[group]) > 1
}

func (s *Store) each(fn func(*Instance)) {
	for _, group := range s.pages {
		for _, inst := range group {
			fn(inst)
		}
	}
	for _, inst := range s.features {
		fn(inst)
	}
}

func (s *Store) find(name string) *Instance {
	var found *Instance
	s.each(func(inst *Instance) {
		if found == nil && inst.Name == name {
			found = inst
		}
	})
	return found
}

func (s *Store) findIdentity(identity string) *Instance {
	var found *Instance
	s.each(func(inst *Instance) {
		if found == nil && inst.Identity == identity {
			found = inst
		}
	})
	return found
}

func (s *Store) firstNonEmptyGroup() int {
	for g, group := range s.pages {
		if len(group) > 0 {
			return g
		}
	}
	return -1
}

func (s *Store) home() *Instance {
	g := s.firstNonEmptyGroup()
	if g < 0 {
		return nil
	}
	return s.pages[g][0]
}

// alignHome marks the first page of the first non-empty group as home and
// clears every other page. It returns the previous home name and whether the
// home page changed.
func (s *Store) alignHome() (previous string, changed bool) {
	for _, group := range s.pages {
		for _, inst := range group {
			if inst.IsHome {
				previous = inst.Name
			}
			inst.IsHome = false
		}
	}
	current := ""
	if home := s.home(); home != nil {
		home.IsHome = true
		current = home.Name
	}
	return previous, previous != current
}

func (s *Store) emitHome(previous string) {
	s.emit(Event{Type: HomeChanged, Name: s.HomeName(), Previous: previous})
}

// entries converts the composition for the planner.
func (s *Store) entries() []planner.Entry {
	var out []planner.Entry
	s.each(func(inst *Instance) {
		out = append(out, planner.Entry{
			Name:         inst.Name,
			Identity:     inst.Identity,
			Kind:         inst.Kind,
			Hidden:       inst.IsHidden,
			Removable:    inst.IsRemovable,
			Dependencies: inst.Dependencies,
		})
	})
	return out
}

// fixedNames are the catalog's fixed default names plus configured extras.
func (s *Store) fixedNames() []string {
	return append(append([]string(nil), s.disallowed...), s.catalog.FixedNames()...)
}

// nameRules is the validation pipeline for naming an instance of a template.
// self is the current name of an instance being renamed.
func (s *Store) nameRules(canChooseName bool, self string, used []string) []naming.Rule {
	rules := []naming.Rule{
		naming.Format(),
		naming.ExistingNames(used, self),
		naming.Reserved(s.reserved...),
	}
	if canChooseName {
		rules = append(rules, naming.DefaultNames(s.fixedNames()...))
	}
	return rules
}

// baseRules omits the default-name rule; it names dependencies and layout
// entries, which are not user choices.
func (s *Store) baseRules(used []string) []naming.Rule {
	return s.nameRules(false, "", used)
}

func (s *Store) track(action telemetry.Action, identity string) {
	s.sink.Track(context.Background(), telemetry.Event{Action: action, Template: identity})
}

// defaultNameOf falls back to the last identity segment when a template has
// no default name.
func defaultNameOf(t catalog.Template) string {
	if t.DefaultName != "" {
		return t.DefaultName
	}
	id := t.Identity
	if i := strings.LastIndexAny(id, "./"); i >= 0 {
		id = id[i+1:]
	}
	return id
}

// checkpoint captures the composition so a failed multi-step operation can
// be rolled back.
func (s *Store) checkpoint() (restore func()) {
	pages := make([][]*Instance, len(s.pages))
	for g, group := range s.pages {
		pages[g] = make([]*Instance, len(group))
		for i, inst := range group {
			c := inst.clone()
			pages[g][i] = &c
		}
	}
	features := make([]*Instance, len(s.features))
	for i, inst := range s.features {
		c := inst.clone()
		features[i] = &c
	}
	pending := s.pending
	return func() {
		s.pages = pages
		s.features = features
		s.pending = pending
	}
}
