package providers_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/providers"
)

func newGreeter(t *testing.T) (*container.Container, *container.Type) {
	t.Helper()
	greeter := container.NewType("greeter", container.Members{"greeting": "Hello"})
	c := container.New(container.WithLogger(logging.NewTestLogger()))
	t.Cleanup(func() { c.Dispose() })
	return c, greeter
}

func injections(greeter *container.Type) []container.Injection {
	return []container.Injection{
		{Scope: "holiday", Origin: greeter, Overrides: container.Members{"greeting": "Happy holidays"}},
		{Scope: "formal", Origin: greeter, Overrides: container.Members{"greeting": "Good evening"}},
		// same scope, later wins
		{Scope: "holiday", Origin: greeter, Overrides: container.Members{"greeting": "Happy holidays", "extra": true}},
		{Origin: greeter, Overrides: container.Members{"greeting": "skipped"}},
	}
}

// ── ManifestServiceProvider ───────────────────────────────────────────────────

func TestManifestProvider_Provides(t *testing.T) {
	_, greeter := newGreeter(t)
	p := &providers.ManifestServiceProvider{Injections: injections(greeter)}

	if diff := cmp.Diff([]string{"holiday", "formal"}, p.Provides()); diff != "" {
		t.Errorf("Provides mismatch (-want +got):\n%s", diff)
	}
}

func TestManifestProvider_Eager(t *testing.T) {
	c, greeter := newGreeter(t)
	c.SwitchScope("home")
	reg := container.NewProviderRegistry(c)

	reg.Register(&providers.ManifestServiceProvider{Injections: injections(greeter)})

	if got := len(c.ReflectionsOf(greeter)); got != 3 {
		t.Errorf("reflections: got %d want 3", got)
	}
	if got := c.CurrentScope(); got != "home" {
		t.Errorf("current scope: got %q want home", got)
	}
}

func TestManifestProvider_Deferred(t *testing.T) {
	c, greeter := newGreeter(t)
	reg := container.NewProviderRegistry(c)

	reg.Register(&providers.ManifestServiceProvider{Injections: injections(greeter), Deferred: true})
	reg.Boot()

	if got := len(c.ReflectionsOf(greeter)); got != 0 {
		t.Fatalf("deferred manifest should not inject yet, got %d reflections", got)
	}

	c.Synthesize("formal")
	if got := greeter.New().Get("greeting"); got != "Good evening" {
		t.Errorf("greeting: got %v want 'Good evening'", got)
	}
	if got := len(c.ReflectionsOf(greeter)); got != 3 {
		t.Errorf("reflections: got %d want 3", got)
	}
}

// ── ScopeServiceProvider ──────────────────────────────────────────────────────

func TestScopeProvider_SynthesizesOnBoot(t *testing.T) {
	c, greeter := newGreeter(t)
	reg := container.NewProviderRegistry(c)

	// registered first; Boot still runs after the manifest is in
	reg.Register(&providers.ScopeServiceProvider{BootScope: "holiday"})
	reg.Register(&providers.ManifestServiceProvider{Injections: injections(greeter)})

	if !c.IsOrigin(greeter) {
		t.Fatal("nothing should be active before Boot")
	}

	reg.Boot()

	o := greeter.New()
	if got := o.Get("greeting"); got != "Happy holidays" {
		t.Errorf("greeting: got %v", got)
	}
	if got := o.Get("extra"); got != true {
		t.Errorf("extra: got %v", got)
	}
}

func TestScopeProvider_EmptyBootScope(t *testing.T) {
	c, greeter := newGreeter(t)
	reg := container.NewProviderRegistry(c)
	reg.Register(&providers.ManifestServiceProvider{Injections: injections(greeter)})
	reg.Register(&providers.ScopeServiceProvider{})
	reg.Boot()

	if !c.IsOrigin(greeter) {
		t.Error("empty boot scope should leave types on their origin")
	}
}

func TestScopeProvider_LoadsDeferredManifest(t *testing.T) {
	c, greeter := newGreeter(t)
	reg := container.NewProviderRegistry(c)
	reg.Register(&providers.ManifestServiceProvider{Injections: injections(greeter), Deferred: true})
	reg.Register(&providers.ScopeServiceProvider{BootScope: "formal"})
	reg.Boot()

	if got := greeter.New().Get("greeting"); got != "Good evening" {
		t.Errorf("greeting: got %v want 'Good evening'", got)
	}
	if got := reg.Pending(); len(got) != 0 {
		t.Errorf("pending: got %v want none", got)
	}
}
