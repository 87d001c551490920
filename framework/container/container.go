package container

import (
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/km-arc/go-ioc/framework/logging"
)

// numScopes counts every scope ever switched to, across all containers.
var numScopes atomic.Uint64

// NumScopes returns how many scopes have been switched to in this process.
// Auto-named scopes are "scope-<n>" with n taken from this counter.
func NumScopes() uint64 { return numScopes.Load() }

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the reflection registry. It tracks the origin of every Type it
// has seen, the Reflections layered over them, one Master Reflection per Type,
// and the current scope new Reflections are tagged with.
//
// A Container does no locking. Types' active slots are shared process state;
// callers running Containers from several goroutines must serialize access.
type Container struct {
	currentScope string

	// known Types in registration order
	types []*Type

	// Type → Master Reflection
	masters map[*Type]*Implementation

	// Reflections in injection order
	reflections []*Implementation

	beforeSynthesize []func(scope string)
	onSynthesize     []func(scope string, activated []*Implementation)

	log logr.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(c *Container) { c.log = log }
}

// New creates an empty Container with a freshly minted current scope.
func New(opts ...Option) *Container {
	c := &Container{
		masters: make(map[*Type]*Implementation),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.SwitchScope()
	return c
}

// ── Scopes ────────────────────────────────────────────────────────────────────

// CurrentScope returns the scope new Reflections are tagged with.
func (c *Container) CurrentScope() string { return c.currentScope }

// SwitchScope makes name the current scope, or mints "scope-<n>" when name is
// omitted or empty. The process-wide scope counter always advances.
//
//	c.SwitchScope("holiday").Inject(greeter, overrides)
func (c *Container) SwitchScope(name ...string) *Container {
	n := numScopes.Add(1)
	if len(name) > 0 && name[0] != "" {
		c.currentScope = name[0]
	} else {
		c.currentScope = "scope-" + strconv.FormatUint(n, 10)
	}
	return c
}

// ShareScope retags reflections (every tracked one when nil) with scope (the
// current scope when empty). Only Reflections tracked by c are retagged:
// origins, Master Reflections and another Container's entries are left alone.
// Active Implementations do not change until the next Synthesize.
//
//	c.ShareScope("shared", c.ReflectionsWhere(func(d container.Detail) bool {
//	    return d.Vars["team"] == "ops"
//	}))
func (c *Container) ShareScope(scope string, reflections []*Implementation) *Container {
	if scope == "" {
		scope = c.currentScope
	}
	if reflections == nil {
		reflections = c.reflections
	}
	for _, r := range reflections {
		if !c.tracks(r) {
			continue
		}
		r.detail.Scope = scope
	}
	return c
}

// ── Queries ───────────────────────────────────────────────────────────────────

// typeOf resolves a *Type, *Object or *Implementation to its Type.
func typeOf(target any) *Type {
	switch v := target.(type) {
	case *Type:
		return v
	case *Object:
		if v != nil {
			return v.typ
		}
	case *Implementation:
		if v != nil {
			return v.typ
		}
	}
	return nil
}

func (c *Container) knows(t *Type) bool {
	_, ok := c.masters[t]
	return ok
}

func (c *Container) tracks(impl *Implementation) bool {
	return impl != nil && slices.Contains(c.reflections, impl)
}

// IsOrigin reports whether target's Type is known and currently dispatches
// through its origin.
func (c *Container) IsOrigin(target any) bool {
	t := typeOf(target)
	return t != nil && c.knows(t) && t.active == t.origin
}

// IsReflection reports whether target's Type currently dispatches through a
// Reflection tracked by this Container. An active Master Reflection counts as
// neither origin nor reflection.
func (c *Container) IsReflection(target any) bool {
	t := typeOf(target)
	return t != nil && c.tracks(t.active)
}

// OriginOf returns the origin of target's Type, or nil if the Type is unknown.
func (c *Container) OriginOf(target any) *Implementation {
	t := typeOf(target)
	if t == nil || !c.knows(t) {
		return nil
	}
	return t.origin
}

// MasterOf returns the Master Reflection of target's Type, or nil.
func (c *Container) MasterOf(target any) *Implementation {
	t := typeOf(target)
	if t == nil {
		return nil
	}
	return c.masters[t]
}

// ReflectionsOf returns every tracked Reflection of target's Type in
// injection order.
func (c *Container) ReflectionsOf(target any) []*Implementation {
	origin := c.OriginOf(target)
	if origin == nil {
		return []*Implementation{}
	}
	return c.ReflectionsWhere(func(d Detail) bool { return d.Origin == origin })
}

// ReflectionsWhere returns the tracked Reflections whose Detail satisfies sel.
// A nil selector matches nothing.
func (c *Container) ReflectionsWhere(sel Selector) []*Implementation {
	out := []*Implementation{}
	if sel == nil {
		return out
	}
	for _, r := range c.reflections {
		if sel(*r.detail) {
			out = append(out, r)
		}
	}
	return out
}

// OriginsWhere returns the distinct origins of the Reflections selected by sel,
// in order of first appearance.
func (c *Container) OriginsWhere(sel Selector) []*Implementation {
	out := []*Implementation{}
	for _, r := range c.ReflectionsWhere(sel) {
		if !slices.Contains(out, r.detail.Origin) {
			out = append(out, r.detail.Origin)
		}
	}
	return out
}

// Types returns every known Type in registration order.
func (c *Container) Types() []*Type { return slices.Clone(c.types) }

// Reflections returns every tracked Reflection in injection order.
func (c *Container) Reflections() []*Implementation { return slices.Clone(c.reflections) }

// Scopes returns the distinct scopes of tracked Reflections, first seen first.
func (c *Container) Scopes() []string {
	out := []string{}
	for _, r := range c.reflections {
		if !slices.Contains(out, r.detail.Scope) {
			out = append(out, r.detail.Scope)
		}
	}
	return out
}

// ── Injection ─────────────────────────────────────────────────────────────────

// Inject registers a Reflection of target's Type carrying overrides, tagged with
// the current scope. The first injection for a Type captures its origin and
// builds its Master Reflection. Nothing is activated; see Synthesize.
//
// A nil target or nil overrides make Inject a no-op. An empty, non-nil
// overrides map still registers a (pass-through) Reflection.
//
//	c.SwitchScope("holiday").
//	    Inject(greeter, container.Members{"greeting": "Happy holidays"}, container.Vars{"owner": "ops"})
func (c *Container) Inject(target any, overrides Members, vars ...Vars) *Container {
	var v Vars
	if len(vars) > 0 {
		v = vars[0]
	}
	c.inject(target, overrides, v, c.currentScope)
	return c
}

func (c *Container) inject(target any, overrides Members, vars Vars, scope string) *Implementation {
	t := typeOf(target)
	if t == nil || overrides == nil {
		return nil
	}
	c.register(t)

	r := c.newReflection(t.origin, overrides, vars, scope)
	c.reflections = append(c.reflections, r)
	c.log.V(logging.DEBUG).Info("injected reflection", "type", t.name, "scope", scope, "members", len(overrides))
	return r
}

// register captures t's origin and Master Reflection once per Container
// lifetime (until Dispose).
func (c *Container) register(t *Type) {
	if c.knows(t) {
		return
	}
	c.types = append(c.types, t)
	c.masters[t] = c.newMaster(t.origin)
	c.log.V(logging.DEBUG).Info("registered type", "type", t.name, "id", t.id)
}

// ── Activation ────────────────────────────────────────────────────────────────

// Synthesize activates scope (the current scope when omitted or empty): each
// Reflection tagged with it becomes the active Implementation of its Type.
// OriginScope activates every Master Reflection instead. Types without a
// Reflection in the scope keep whatever they had, so Types can sit in
// different scopes at once.
//
//	c.Synthesize("holiday")
//	greeter.New().Call("greet", "Ada") // holiday behavior
//	c.Synthesize(container.OriginScope)
func (c *Container) Synthesize(scope ...string) *Container {
	s := c.currentScope
	if len(scope) > 0 && scope[0] != "" {
		s = scope[0]
	}

	for _, cb := range c.beforeSynthesize {
		cb(s)
	}

	var selected []*Implementation
	if s == OriginScope {
		selected = make([]*Implementation, 0, len(c.types))
		for _, t := range c.types {
			selected = append(selected, c.masters[t])
		}
	} else {
		selected = c.ReflectionsWhere(func(d Detail) bool { return d.Scope == s })
	}

	for _, r := range selected {
		r.typ.active = r
	}
	c.log.V(logging.DEBUG).Info("synthesized scope", "scope", s, "activated", len(selected))

	for _, cb := range c.onSynthesize {
		cb(s, selected)
	}
	return c
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Flush forgets reflections (every tracked one when nil; an empty slice
// flushes nothing). A flushed Reflection that is currently active hands its
// Type back to the origin, not to the Master Reflection. Unknown entries and
// Master Reflections are skipped.
//
//	c.Flush(c.ReflectionsOf(greeter))
//	c.Flush(nil) // everything
func (c *Container) Flush(reflections []*Implementation) *Container {
	if reflections == nil {
		reflections = slices.Clone(c.reflections)
	}
	flushed := 0
	for _, r := range reflections {
		i := slices.Index(c.reflections, r)
		if i < 0 {
			continue
		}
		c.reflections = slices.Delete(c.reflections, i, i+1)
		if r.typ.active == r {
			r.typ.active = r.typ.origin
		}
		flushed++
	}
	c.log.V(logging.DEBUG).Info("flushed reflections", "count", flushed)
	return c
}

// Dispose flushes every Reflection and forgets every Type and Master
// Reflection. A Type left on its Master Reflection is returned to its origin.
// A later Inject treats every Type as new.
func (c *Container) Dispose() *Container {
	c.Flush(nil)
	for _, t := range c.types {
		if t.active == c.masters[t] {
			t.active = t.origin
		}
	}
	c.types = nil
	c.masters = make(map[*Type]*Implementation)
	c.log.V(logging.DEBUG).Info("disposed container")
	return c
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// BeforeSynthesize registers a callback fired with the resolved scope before
// any Implementation is swapped.
func (c *Container) BeforeSynthesize(cb func(scope string)) {
	c.beforeSynthesize = append(c.beforeSynthesize, cb)
}

// OnSynthesize registers a callback fired after a scope has been activated.
func (c *Container) OnSynthesize(cb func(scope string, activated []*Implementation)) {
	c.onSynthesize = append(c.onSynthesize, cb)
}
