package container

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// ── Members ───────────────────────────────────────────────────────────────────

// Method is an operation of a Type. self is the receiving Object.
//
//	greet := container.Method(func(self *container.Object, args ...any) any {
//	    return self.Get("greeting").(string) + ", " + args[0].(string)
//	})
type Method func(self *Object, args ...any) any

// Members maps operation and property names to a Method or a literal value.
// Literal values are stored by reference, never copied.
type Members map[string]any

// Vars is caller-supplied metadata attached to a Reflection.
type Vars map[string]any

// Constructor initialises a freshly built Object. It belongs to the Type and
// is never overridden by a Reflection.
type Constructor func(self *Object, args ...any)

// asMethod reports whether v is an operation, accepting both the named Method
// type and a bare func literal of the same signature.
func asMethod(v any) (Method, bool) {
	switch fn := v.(type) {
	case Method:
		return fn, fn != nil
	case func(*Object, ...any) any:
		return fn, fn != nil
	}
	return nil, false
}

// ── Type ──────────────────────────────────────────────────────────────────────

var typeIDs atomic.Uint64

// Type is a unit of behavior with exactly one active Implementation at a time.
// Its identity is the handle itself; ID and Name are for humans and tooling.
type Type struct {
	id     uint64
	name   string
	origin *Implementation
	active *Implementation
	ctor   Constructor
}

// TypeOption configures a Type at definition time.
type TypeOption func(*Type)

// WithConstructor sets the function New runs on every fresh Object.
func WithConstructor(fn Constructor) TypeOption {
	return func(t *Type) { t.ctor = fn }
}

// NewType defines a Type whose default behavior is members.
// The members map is copied, so later edits by the caller do not leak into
// the origin.
func NewType(name string, members Members, opts ...TypeOption) *Type {
	t := &Type{id: typeIDs.Add(1), name: name}
	own := make(Members, len(members))
	for k, v := range members {
		own[k] = v
	}
	t.origin = &Implementation{typ: t, members: own}
	t.active = t.origin
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the process-unique identifier assigned by NewType.
func (t *Type) ID() uint64 { return t.id }

// Name returns the name given to NewType.
func (t *Type) Name() string { return t.name }

// Origin returns the Type's immutable default Implementation.
func (t *Type) Origin() *Implementation { return t.origin }

// Active returns the Implementation new Objects are currently built from.
func (t *Type) Active() *Implementation { return t.active }

func (t *Type) String() string { return fmt.Sprintf("%s#%d", t.name, t.id) }

// New builds an Object bound to the currently active Implementation and runs
// the Type's constructor with args.
func (t *Type) New(args ...any) *Object {
	obj := &Object{typ: t, impl: t.active}
	if t.ctor != nil {
		t.ctor(obj, args...)
	}
	return obj
}

// ── Object ────────────────────────────────────────────────────────────────────

// Object is an instance of a Type. It keeps the Implementation that was
// active when it was built; later activations do not retarget it.
type Object struct {
	typ    *Type
	impl   *Implementation
	fields map[string]any
}

// Type returns the Type the Object was built from.
func (o *Object) Type() *Type { return o.typ }

// Implementation returns the Implementation the Object dispatches through.
func (o *Object) Implementation() *Implementation { return o.impl }

// Detail returns the reflection detail of the Object's Implementation, or nil
// when the Object was built from the origin.
func (o *Object) Detail() *Detail { return o.impl.detail }

// Set stores an own field, shadowing any member of the same name.
func (o *Object) Set(name string, value any) {
	if o.fields == nil {
		o.fields = make(map[string]any)
	}
	o.fields[name] = value
}

// Get returns an own field or the member resolved through the Implementation.
func (o *Object) Get(name string) any {
	v, _ := o.lookup(name)
	return v
}

// Has reports whether name resolves to a field or member.
func (o *Object) Has(name string) bool {
	_, ok := o.lookup(name)
	return ok
}

func (o *Object) lookup(name string) (any, bool) {
	if v, ok := o.fields[name]; ok {
		return v, true
	}
	return o.impl.Lookup(name)
}

// Call invokes the operation name with the Object as receiver.
// It panics when name does not resolve to a Method.
func (o *Object) Call(name string, args ...any) any {
	out, ok := o.TryCall(name, args...)
	if !ok {
		panic(fmt.Sprintf("container: %s has no operation [%s]", o.typ, name))
	}
	return out
}

// TryCall is like Call but reports false instead of panicking.
func (o *Object) TryCall(name string, args ...any) (any, bool) {
	v, found := o.lookup(name)
	if !found {
		return nil, false
	}
	fn, ok := asMethod(v)
	if !ok {
		return nil, false
	}
	return fn(o, args...), true
}

// Super invokes the origin's operation name with the Object as receiver,
// bypassing every Reflection. Overrides use it to extend default behavior.
//
//	"greet": container.Method(func(self *container.Object, args ...any) any {
//	    return self.Super("greet", args...).(string) + "!"
//	})
func (o *Object) Super(name string, args ...any) any {
	v, _ := o.typ.origin.Lookup(name)
	fn, ok := asMethod(v)
	if !ok {
		panic(fmt.Sprintf("container: origin of %s has no operation [%s]", o.typ, name))
	}
	return fn(o, args...)
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// CallAs calls an operation and type-asserts the result.
//
//	// Instead of: s := obj.Call("greet", "Ada").(string)
//	// Write:      s := container.CallAs[string](obj, "greet", "Ada")
func CallAs[T any](o *Object, name string, args ...any) T {
	out := o.Call(name, args...)
	typed, ok := out.(T)
	if !ok {
		panic(fmt.Sprintf("container: CallAs[%T]: [%s] returned %T", *new(T), name, out))
	}
	return typed
}

// GetAs returns a field or member as T, or false if absent or of another type.
func GetAs[T any](o *Object, name string) (T, bool) {
	typed, ok := o.Get(name).(T)
	return typed, ok
}

// TypeKey returns the package-qualified name of v's type, useful as a stable
// Type name when the Type models a Go type.
//
//	greeter := container.NewType(container.TypeKey((*Greeter)(nil)), members)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}
