package container

import "slices"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the Reflections of one feature.
//
// Register injects Reflections. Boot runs after every eager provider has been
// registered and is the place to Synthesize.
//
//	type HolidayProvider struct{ container.BaseProvider }
//
//	func (p *HolidayProvider) Register(c *container.Container) {
//	    c.When(greeter).Needs("greeting").Give("Happy holidays").Scoped("holiday").Inject()
//	}
//
//	func (p *HolidayProvider) Provides() []string { return []string{"holiday"} }
//	func (p *HolidayProvider) IsDeferred() bool   { return true }
type ServiceProvider interface {
	// Register injects Reflections into the container.
	// Do NOT synthesize here; use Boot for that.
	Register(c *Container)

	// Boot is called after all eager providers are registered.
	Boot(c *Container)

	// Provides returns the scopes this provider injects into.
	// Used for deferred (lazy) provider loading.
	Provides() []string

	// IsDeferred returns true if this provider should be registered only when
	// one of its Provides() scopes is first synthesized.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	c          *Container
	eager      []ServiceProvider
	deferred   map[string][]ServiceProvider // scope → providers, in registration order
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to c. Deferred providers are
// loaded from c's BeforeSynthesize hook.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		c:          c,
		deferred:   make(map[string][]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	c.BeforeSynthesize(r.loadDeferred)
	return r
}

// Register adds a provider and calls its Register() method (unless deferred).
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, scope := range provider.Provides() {
			if !slices.Contains(r.deferred[scope], provider) {
				r.deferred[scope] = append(r.deferred[scope], provider)
			}
		}
		return
	}

	provider.Register(r.c)
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		provider.Boot(r.c)
	}
}

// loadDeferred registers every deferred provider of scope, in registration
// order. A loaded provider is dropped from all the scopes it provides. It runs
// in the middle of Synthesize, so the container's current scope is restored
// afterwards.
func (r *ProviderRegistry) loadDeferred(scope string) {
	pending := slices.Clone(r.deferred[scope])
	if len(pending) == 0 {
		return
	}
	for _, provider := range pending {
		r.forget(provider)
	}

	prev := r.c.CurrentScope()
	for _, provider := range pending {
		provider.Register(r.c)
		r.c.SwitchScope(prev)
		if r.booted {
			provider.Boot(r.c)
		}
	}
}

func (r *ProviderRegistry) forget(provider ServiceProvider) {
	for _, s := range provider.Provides() {
		rest := slices.DeleteFunc(r.deferred[s], func(p ServiceProvider) bool { return p == provider })
		if len(rest) == 0 {
			delete(r.deferred, s)
			continue
		}
		r.deferred[s] = rest
	}
}

// Boot calls Boot() on all eager providers.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.c)
	}
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return slices.Clone(r.eager) }

// Pending returns the scopes whose deferred providers are not loaded yet.
func (r *ProviderRegistry) Pending() []string {
	out := make([]string, 0, len(r.deferred))
	for s := range r.deferred {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
