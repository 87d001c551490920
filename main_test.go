package main

import (
	"testing"

	"github.com/km-arc/go-ioc/framework/container"
)

func TestHolidayProvider_TransitivePunctuation(t *testing.T) {
	c := container.New()
	t.Cleanup(func() { c.Dispose() })
	reg := container.NewProviderRegistry(c)
	reg.Register(&HolidayProvider{})
	reg.Boot()

	if got := greeter.New().Call("greet", "Ada"); got != "Hello, Ada." {
		t.Errorf("origin: got %v", got)
	}

	c.Synthesize("holiday")
	g := greeter.New()

	// a later scope moves punctuator elsewhere; greet pulls it back
	c.SwitchScope("plain").Inject(punctuator, container.Members{"mark": "?"})
	c.Synthesize("plain")

	if got := g.Call("greet", "Ada"); got != "Happy holidays, Ada!" {
		t.Errorf("holiday: got %v want 'Happy holidays, Ada!'", got)
	}
}

func TestShout_UsesOrigin(t *testing.T) {
	c := container.New()
	t.Cleanup(func() { c.Dispose() })

	c.SwitchScope("loud").Inject(greeter, container.Members{"greet": shout})
	c.Synthesize("loud")

	if got := greeter.New().Call("greet", "Ada"); got != "HELLO, ADA." {
		t.Errorf("got %v want 'HELLO, ADA.'", got)
	}
}
