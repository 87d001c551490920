package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-ioc/framework/http/validation"
)

// Config is the central typed configuration struct.
type Config struct {
	App AppConfig
	IoC IoCConfig
	Log LogConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

// IoCConfig controls how the reflection container is prepared at boot.
type IoCConfig struct {
	// BootScope is synthesized once every provider has booted. Empty keeps
	// every Type on its origin.
	BootScope string
	// Manifest is a YAML file of reflections applied at startup.
	Manifest string
	// AdminPrefix mounts the inspection API. Empty disables it.
	AdminPrefix string
}

type LogConfig struct {
	Verbosity   int
	Development bool
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	debug := envBool("APP_DEBUG", true)
	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoIoC"),
			Env:   env("APP_ENV", "local"),
			Debug: debug,
			Port:  env("APP_PORT", "8000"),
		},
		IoC: IoCConfig{
			BootScope:   env("IOC_BOOT_SCOPE", ""),
			Manifest:    env("IOC_MANIFEST", ""),
			AdminPrefix: env("IOC_ADMIN_PREFIX", "/_ioc"),
		},
		Log: LogConfig{
			Verbosity:   GetInt("LOG_VERBOSITY", 2),
			Development: envBool("LOG_DEVELOPMENT", debug),
		},
	}
}

// Validate checks the values that would otherwise fail late: the listen port,
// the boot scope name, the log verbosity and the admin prefix.
func (c *Config) Validate() error {
	v := validation.Make(map[string]string{
		"APP_PORT":       c.App.Port,
		"IOC_BOOT_SCOPE": c.IoC.BootScope,
	}, validation.Rules{
		"APP_PORT":       "required|integer|max:5",
		"IOC_BOOT_SCOPE": validation.OptionalScopeRules,
	})
	if v.Fails() {
		keys := make([]string, 0, len(v.Errors().Bag))
		for k := range v.Errors().Bag {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, v.Errors().First(k))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, " "))
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("invalid config: LOG_VERBOSITY %d must not be negative", c.Log.Verbosity)
	}
	if p := c.IoC.AdminPrefix; p != "" && !strings.HasPrefix(p, "/") {
		return fmt.Errorf("invalid config: IOC_ADMIN_PREFIX %q must start with /", p)
	}
	return nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
