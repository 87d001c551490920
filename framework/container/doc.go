// Package container provides a runtime behavior-override registry.
//
// # Overview
//
// A Type is defined once with its default members (its origin). A Container
// layers Reflections over that origin: named sets of overriding operations and
// values, each tagged with a scope. Synthesize makes every Reflection of a
// scope the active Implementation of its Type at once; Objects built afterwards
// dispatch through it.
//
// Overridden operations carry the scope with them. Calling one first
// re-synthesizes its own scope, so any Object it constructs on the way picks
// the Implementations that scope declares, even if another scope was activated
// in between.
//
// # Lifecycle
//
//  1. Define: greeter := container.NewType("greeter", members)
//  2. Inject: c.SwitchScope("holiday").Inject(greeter, overrides)
//  3. Activate: c.Synthesize("holiday")
//  4. Restore: c.Synthesize(container.OriginScope), c.Flush(nil) or c.Dispose()
//
// # Types and Objects
//
//	greeter := container.NewType("greeter", container.Members{
//	    "greeting": "Hello",
//	    "greet": container.Method(func(self *container.Object, args ...any) any {
//	        return self.Get("greeting").(string) + ", " + args[0].(string)
//	    }),
//	})
//	greeter.New().Call("greet", "Ada") // "Hello, Ada"
//
// # Scopes
//
//	c := container.New()
//	c.SwitchScope("holiday").
//	    Inject(greeter, container.Members{"greeting": "Happy holidays"}).
//	    SwitchScope("formal").
//	    Inject(greeter, container.Members{"greeting": "Good evening"})
//
//	c.Synthesize("formal")
//	greeter.New().Call("greet", "Ada") // "Good evening, Ada"
//
// # Delegating to the origin
//
//	c.Inject(greeter, container.Members{
//	    "greet": container.Method(func(self *container.Object, args ...any) any {
//	        return self.Super("greet", args...).(string) + "!"
//	    }),
//	})
//
// # Declarative setup
//
//	c := container.Create("startup", []container.Injection{
//	    {Scope: "startup", Origin: greeter, Overrides: container.Members{"greeting": "Hi"}},
//	})
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&HolidayProvider{}) // deferred until "holiday" is synthesized
//	registry.Boot()
//
// # Concurrency
//
// Nothing here locks. The active Implementation of a Type is process-wide
// state, and calling a wrapped operation mutates it. Use a Container from one
// goroutine, or serialize every access yourself.
package container
