// Package manifest declares Reflections in YAML and turns them into
// container.Injection values.
//
//	reflections:
//	  - scope: holiday
//	    type: greeter
//	    values:  { greeting: "Happy holidays" }
//	    methods: { greet: greeter.shout }
//	    vars:    { owner: marketing }
//
// Types and Methods are code, so a manifest refers to them by name through a
// Catalog filled in by the program.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-ioc/framework/container"
)

var (
	// ErrUnknownType is returned when an entry names a Type missing from the Catalog.
	ErrUnknownType = errors.New("manifest: unknown type")
	// ErrUnknownMethod is returned when an entry names a Method missing from the Catalog.
	ErrUnknownMethod = errors.New("manifest: unknown method")
)

// ── Catalog ───────────────────────────────────────────────────────────────────

// Catalog names the Types and Methods a manifest may refer to.
type Catalog struct {
	types   map[string]*container.Type
	methods map[string]container.Method
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:   make(map[string]*container.Type),
		methods: make(map[string]container.Method),
	}
}

// RegisterType makes t addressable as t.Name().
func (c *Catalog) RegisterType(t *container.Type) *Catalog {
	c.types[t.Name()] = t
	return c
}

// RegisterMethod makes fn addressable as name, by convention "<type>.<method>".
func (c *Catalog) RegisterMethod(name string, fn container.Method) *Catalog {
	c.methods[name] = fn
	return c
}

// Type returns the Type registered under name.
func (c *Catalog) Type(name string) (*container.Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// Method returns the Method registered under name.
func (c *Catalog) Method(name string) (container.Method, bool) {
	fn, ok := c.methods[name]
	return fn, ok
}

// TypeNames returns the registered Type names, sorted.
func (c *Catalog) TypeNames() []string {
	names := make([]string, 0, len(c.types))
	for n := range c.types {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ── Manifest ──────────────────────────────────────────────────────────────────

// Manifest is a decoded reflections document.
type Manifest struct {
	Reflections []Entry `yaml:"reflections"`
}

// Entry declares one Reflection. Values are injected as-is; Methods map a
// member name to a Catalog method name.
type Entry struct {
	Scope   string            `yaml:"scope"`
	Type    string            `yaml:"type"`
	Values  map[string]any    `yaml:"values,omitempty"`
	Methods map[string]string `yaml:"methods,omitempty"`
	Vars    map[string]any    `yaml:"vars,omitempty"`
}

// Load decodes a manifest from r. Unknown fields are rejected.
func Load(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the entries are well-formed. Catalog lookups happen later,
// in Injections.
func (m *Manifest) Validate() error {
	for i, e := range m.Reflections {
		if e.Type == "" {
			return fmt.Errorf("reflection %d: type must not be empty", i)
		}
		for name := range e.Methods {
			if _, clash := e.Values[name]; clash {
				return fmt.Errorf("reflection %d: %q is both a value and a method", i, name)
			}
		}
	}
	return nil
}

// Scopes returns the distinct scopes declared, in document order.
func (m *Manifest) Scopes() []string {
	out := []string{}
	for _, e := range m.Reflections {
		if e.Scope != "" && !slices.Contains(out, e.Scope) {
			out = append(out, e.Scope)
		}
	}
	return out
}

// Injections resolves every entry against cat. Entries without a scope are
// kept; Create and Apply skip them.
func (m *Manifest) Injections(cat *Catalog) ([]container.Injection, error) {
	out := make([]container.Injection, 0, len(m.Reflections))
	for i, e := range m.Reflections {
		t, ok := cat.Type(e.Type)
		if !ok {
			return nil, fmt.Errorf("reflection %d: %w %q", i, ErrUnknownType, e.Type)
		}

		overrides := make(container.Members, len(e.Values)+len(e.Methods))
		for name, v := range e.Values {
			overrides[name] = v
		}
		for name, ref := range e.Methods {
			fn, ok := cat.Method(ref)
			if !ok {
				return nil, fmt.Errorf("reflection %d: %w %q", i, ErrUnknownMethod, ref)
			}
			overrides[name] = fn
		}

		out = append(out, container.Injection{
			Scope:     e.Scope,
			Origin:    t,
			Overrides: overrides,
			Vars:      container.Vars(e.Vars),
		})
	}
	return out, nil
}
