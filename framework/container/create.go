package container

// Injection is a declarative Inject call, consumed by Create and Apply.
// Records without a Scope are skipped entirely.
type Injection struct {
	Scope     string
	Origin    any
	Overrides Members
	Vars      Vars
}

// Create builds a Container and applies injections, each under its own scope.
// The returned Container is left on scope, or on its initial scope when scope
// is empty. Nothing is synthesized.
//
//	c := container.Create("startup", []container.Injection{
//	    {Scope: "startup", Origin: greeter, Overrides: container.Members{"greeting": "Hi"}},
//	    {Scope: "holiday", Origin: greeter, Overrides: container.Members{"greeting": "Ho ho"}},
//	})
//	c.Synthesize()
func Create(scope string, injections []Injection, opts ...Option) *Container {
	c := New(opts...)
	if scope == "" {
		scope = c.CurrentScope()
	}
	c.apply(injections)
	return c.SwitchScope(scope)
}

// Apply injects every record that carries a Scope, then switches back to the
// scope that was current before Apply ran.
func (c *Container) Apply(injections []Injection) *Container {
	prev := c.currentScope
	c.apply(injections)
	return c.SwitchScope(prev)
}

func (c *Container) apply(injections []Injection) {
	for _, in := range injections {
		if in.Scope == "" {
			continue
		}
		c.SwitchScope(in.Scope).Inject(in.Origin, in.Overrides, in.Vars)
	}
}
