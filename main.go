package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/km-arc/go-ioc/framework/app"
	"github.com/km-arc/go-ioc/framework/container"
	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/framework/http/validation"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/manifest"
	"github.com/km-arc/go-ioc/framework/routing"
)

// ── Demo types ────────────────────────────────────────────────────────────────

// punctuator finishes a sentence.
var punctuator = container.NewType("punctuator", container.Members{
	"mark": ".",
	"punctuate": container.Method(func(self *container.Object, args ...any) any {
		return args[0].(string) + self.Get("mark").(string)
	}),
})

// greeter builds a punctuator on every call, so whatever scope the greet
// operation belongs to also decides the punctuation.
var greeter = container.NewType("greeter", container.Members{
	"greeting": "Hello",
	"greet": container.Method(func(self *container.Object, args ...any) any {
		line := self.Get("greeting").(string) + ", " + args[0].(string)
		return punctuator.New().Call("punctuate", line)
	}),
})

func shout(self *container.Object, args ...any) any {
	return strings.ToUpper(self.Super("greet", args...).(string))
}

// ── HolidayProvider ───────────────────────────────────────────────────────────

// HolidayProvider is loaded the first time "holiday" is synthesized.
type HolidayProvider struct {
	container.BaseProvider
}

func (p *HolidayProvider) Register(c *container.Container) {
	c.When(greeter).
		Needs("greeting").Give("Happy holidays").
		// greet runs under "holiday", punctuator included, whatever is active
		Needs("greet").GiveMethod(func(self *container.Object, args ...any) any {
			return self.Super("greet", args...)
		}).
		WithVars(container.Vars{"owner": "marketing"}).
		Scoped("holiday").
		Inject()
	c.When(punctuator).Needs("mark").Give("!").Scoped("holiday").Inject()
}

func (p *HolidayProvider) Provides() []string { return []string{"holiday"} }
func (p *HolidayProvider) IsDeferred() bool   { return true }

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	catalog := manifest.NewCatalog().
		RegisterType(greeter).
		RegisterType(punctuator).
		RegisterMethod("greeter.shout", shout)

	application, err := app.New(catalog)
	if err != nil {
		bootLog, _ := logging.New(logging.Options{Verbosity: logging.DEFAULT})
		logging.Fatal(bootLog, err, "bootstrapping")
	}
	application.Register(&HolidayProvider{})

	application.Router.Get("/greet/{name}", func(w http.ResponseWriter, r *http.Request) {
		res := gohttp.NewResponse(w)
		name := routing.Param(r, "name")

		v := validation.Make(map[string]string{"name": name}, validation.Rules{"name": "required|max:64"})
		if v.Fails() {
			res.ValidationError(v.Errors())
			return
		}

		var line any
		greet := func(*container.Container) { line = greeter.New().Call("greet", name) }
		if application.Admin != nil {
			application.Admin.Do(greet)
		} else {
			greet(application.Container)
		}
		res.Success(map[string]any{"greeting": line})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logging.Fatal(application.Log, err, "server error")
	}
}
