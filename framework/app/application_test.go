package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/km-arc/go-ioc/framework/app"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/manifest"
)

var envKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT",
	"IOC_MANIFEST", "IOC_BOOT_SCOPE", "IOC_ADMIN_PREFIX",
	"LOG_VERBOSITY", "LOG_DEVELOPMENT",
}

// cleanEnv unsets every key the app reads so testdata/app.env applies, and
// restores them after the test.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func newApp(t *testing.T) (*app.Application, *container.Type) {
	t.Helper()
	cleanEnv(t)

	greeter := container.NewType("greeter", container.Members{"greeting": "Hello"})
	catalog := manifest.NewCatalog().RegisterType(greeter)

	a, err := app.New(catalog, "testdata/app.env")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Dispose() })
	return a, greeter
}

func TestNew_LoadsConfigAndManifest(t *testing.T) {
	a, greeter := newApp(t)

	if !a.IsTesting() {
		t.Errorf("env: got %q want testing", a.Environment())
	}
	if a.Admin == nil {
		t.Error("admin handler should be mounted")
	}
	if got := len(a.ReflectionsOf(greeter)); got != 2 {
		t.Errorf("manifest reflections: got %d want 2", got)
	}
	if !a.IsOrigin(greeter) {
		t.Error("nothing should be active before Boot")
	}
}

func TestBoot_SynthesizesBootScope(t *testing.T) {
	a, greeter := newApp(t)
	a.Boot()

	if got := greeter.New().Get("greeting"); got != "Happy holidays" {
		t.Errorf("greeting: got %v want 'Happy holidays'", got)
	}
}

func TestNew_UnknownManifestType(t *testing.T) {
	cleanEnv(t)
	t.Setenv("IOC_MANIFEST", "testdata/unknown.yaml")

	_, err := app.New(manifest.NewCatalog(), "testdata/app.env")
	if !errors.Is(err, manifest.ErrUnknownType) {
		t.Errorf("got %v, want ErrUnknownType", err)
	}
}

func TestNew_MissingManifest(t *testing.T) {
	cleanEnv(t)
	t.Setenv("IOC_MANIFEST", "testdata/missing.yaml")

	if _, err := app.New(nil, "testdata/app.env"); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestNew_DefaultsMountAdmin(t *testing.T) {
	cleanEnv(t)

	// missing .env: every key falls back to its default
	a, err := app.New(nil, "testdata/none.env")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Admin == nil {
		t.Error("default prefix should mount the admin handler")
	}
}

func TestHandler_ServesAdmin(t *testing.T) {
	a, _ := newApp(t)

	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/_ioc/scope", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rr.Code)
	}
	if !a.Providers.Booted() {
		t.Error("Handler should boot the application")
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	a, greeter := newApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	res, err := http.Post("http://"+ln.Addr().String()+"/_ioc/synthesize/formal", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var body struct {
		Data []struct {
			Name  string `json:"name"`
			Scope string `json:"scope"`
		} `json:"data"`
	}
	err = json.NewDecoder(res.Body).Decode(&body)
	res.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Scope != "formal" {
		t.Errorf("types: got %+v", body.Data)
	}
	var got any
	a.Admin.Do(func(*container.Container) { got = greeter.New().Get("greeting") })
	if got != "Good evening" {
		t.Errorf("greeting: got %v want 'Good evening'", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve: %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_PORT", "http")

	if _, err := app.New(nil, "testdata/app.env"); err == nil {
		t.Error("expected error for a non-numeric APP_PORT")
	}
}
