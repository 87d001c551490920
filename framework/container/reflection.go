package container

import "github.com/km-arc/go-ioc/framework/logging"

// OriginScope is the reserved scope that activates every Master Reflection,
// restoring default behavior without forgetting any Reflection.
//
//	c.Synthesize(container.OriginScope)
const OriginScope = "origin-scope"

// Detail identifies a Reflection: its scope, the origin it was derived from,
// and the caller's vars.
type Detail struct {
	Scope  string
	Origin *Implementation
	Vars   Vars
}

// Selector picks Reflections by their Detail.
type Selector func(d Detail) bool

// Implementation is a member table a Type dispatches through. An origin
// Implementation has no Detail; a Reflection layers its own members over the
// origin and carries a Detail.
type Implementation struct {
	typ     *Type
	members Members
	parent  *Implementation
	detail  *Detail
}

// Type returns the Type the Implementation belongs to.
func (i *Implementation) Type() *Type { return i.typ }

// Detail returns the reflection detail, or nil for an origin.
func (i *Implementation) Detail() *Detail { return i.detail }

// IsOrigin reports whether i is a Type's default Implementation.
func (i *Implementation) IsOrigin() bool { return i.detail == nil }

// Scope returns the reflection scope, or "" for an origin.
func (i *Implementation) Scope() string {
	if i.detail == nil {
		return ""
	}
	return i.detail.Scope
}

// Lookup resolves name through the own layer, then the origin.
func (i *Implementation) Lookup(name string) (any, bool) {
	for impl := i; impl != nil; impl = impl.parent {
		if v, ok := impl.members[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Own returns the member names set directly on this layer.
func (i *Implementation) Own() []string {
	names := make([]string, 0, len(i.members))
	for k := range i.members {
		names = append(names, k)
	}
	return names
}

// ── Construction ──────────────────────────────────────────────────────────────

// newReflection layers overrides over origin. Operations are wrapped so a call
// re-activates the reflection's scope first.
func (c *Container) newReflection(origin *Implementation, overrides Members, vars Vars, scope string) *Implementation {
	if vars == nil {
		vars = Vars{}
	}
	r := &Implementation{
		typ:     origin.typ,
		members: make(Members, len(overrides)),
		parent:  origin,
		detail:  &Detail{Scope: scope, Origin: origin, Vars: vars},
	}
	for name, v := range overrides {
		if fn, ok := asMethod(v); ok {
			r.members[name] = c.wrap(r.detail, fn)
			continue
		}
		r.members[name] = v
	}
	return r
}

// newMaster copies every operation of origin behind the same wrapper used for
// ordinary Reflections, so switching back to defaults goes through the same
// activation path.
func (c *Container) newMaster(origin *Implementation) *Implementation {
	m := &Implementation{
		typ:     origin.typ,
		members: make(Members),
		parent:  origin,
		detail:  &Detail{Scope: OriginScope, Origin: origin, Vars: Vars{}},
	}
	for name, v := range origin.members {
		if fn, ok := asMethod(v); ok {
			m.members[name] = c.wrap(m.detail, fn)
		}
	}
	return m
}

// wrap returns a Method that synthesizes d's scope before running fn.
// The scope is read at call time so ShareScope retargets existing wrappers.
//
// Objects fn constructs pick up the Implementations its scope declares,
// whatever scope was active before the call.
func (c *Container) wrap(d *Detail, fn Method) Method {
	return func(self *Object, args ...any) any {
		c.log.V(logging.TRACE).Info("re-synthesizing before call", "scope", d.Scope, "type", self.typ.name)
		c.Synthesize(d.Scope)
		return fn(self, args...)
	}
}
