package container

// ReflectionBuilder implements the fluent injection API.
//
//	c.When(greeter).
//	    Needs("greeting").Give("Happy holidays").
//	    Needs("greet").GiveMethod(shout).
//	    WithVars(container.Vars{"owner": "ops"}).
//	    Scoped("holiday").
//	    Inject()
type ReflectionBuilder struct {
	container *Container
	target    any
	needs     string
	overrides Members
	vars      Vars
	scope     string
}

// When starts a reflection chain for target (a *Type, *Object or
// *Implementation).
func (c *Container) When(target any) *ReflectionBuilder {
	return &ReflectionBuilder{container: c, target: target, overrides: Members{}}
}

// Needs names the member the next Give or GiveMethod overrides.
func (b *ReflectionBuilder) Needs(name string) *ReflectionBuilder {
	b.needs = name
	return b
}

// Give overrides the pending member with a literal value (or a Method).
func (b *ReflectionBuilder) Give(value any) *ReflectionBuilder {
	if b.needs != "" {
		b.overrides[b.needs] = value
		b.needs = ""
	}
	return b
}

// GiveMethod overrides the pending member with an operation.
func (b *ReflectionBuilder) GiveMethod(fn Method) *ReflectionBuilder {
	return b.Give(fn)
}

// WithVars attaches metadata to the Reflection.
func (b *ReflectionBuilder) WithVars(vars Vars) *ReflectionBuilder {
	b.vars = vars
	return b
}

// Scoped tags the Reflection with scope instead of the container's current
// scope. The current scope is not changed.
func (b *ReflectionBuilder) Scoped(scope string) *ReflectionBuilder {
	b.scope = scope
	return b
}

// Inject registers the Reflection and returns it, or nil when the target does
// not resolve to a Type.
func (b *ReflectionBuilder) Inject() *Implementation {
	scope := b.scope
	if scope == "" {
		scope = b.container.currentScope
	}
	return b.container.inject(b.target, b.overrides, b.vars, scope)
}
