package providers

import (
	"slices"

	"github.com/go-logr/logr"

	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
)

// ── ManifestServiceProvider ───────────────────────────────────────────────────

// ManifestServiceProvider applies Injections decoded from a manifest.
//
// With Deferred set the provider waits until one of the manifest's scopes is
// first synthesized, so large manifests cost nothing until used.
//
//	injections, _ := m.Injections(catalog)
//	registry.Register(&providers.ManifestServiceProvider{Injections: injections})
type ManifestServiceProvider struct {
	container.BaseProvider
	Injections []container.Injection
	Deferred   bool
	Log        logr.Logger
}

func (p *ManifestServiceProvider) Register(c *container.Container) {
	before := len(c.Reflections())
	c.Apply(p.Injections)
	p.Log.V(logging.VERBOSE).Info("applied manifest", "reflections", len(c.Reflections())-before, "scopes", p.Provides())
}

// Provides returns the distinct scopes named by the Injections.
func (p *ManifestServiceProvider) Provides() []string {
	out := []string{}
	for _, in := range p.Injections {
		if in.Scope != "" && !slices.Contains(out, in.Scope) {
			out = append(out, in.Scope)
		}
	}
	return out
}

func (p *ManifestServiceProvider) IsDeferred() bool { return p.Deferred }

// ── ScopeServiceProvider ──────────────────────────────────────────────────────

// ScopeServiceProvider synthesizes BootScope once every eager provider has
// registered, so the application starts with that scope active. An empty
// BootScope leaves every Type on its origin.
type ScopeServiceProvider struct {
	container.BaseProvider
	BootScope string
	Log       logr.Logger
}

func (p *ScopeServiceProvider) Register(c *container.Container) {}

func (p *ScopeServiceProvider) Boot(c *container.Container) {
	if p.BootScope == "" {
		return
	}
	c.Synthesize(p.BootScope)
	p.Log.Info("synthesized boot scope", "scope", p.BootScope)
}
