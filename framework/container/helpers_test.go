package container_test

import (
	"strconv"

	"github.com/km-arc/go-ioc/framework/container"
)

// ── helpers ───────────────────────────────────────────────────────────────────

// returns builds an operation that always yields v.
func returns(v any) container.Method {
	return func(*container.Object, ...any) any { return v }
}

// valueType defines a Type whose "get" operation returns value.
func valueType(name string, value any) *container.Type {
	return container.NewType(name, container.Members{"get": returns(value)})
}

// get calls "get" on a fresh Object of t.
func get(t *container.Type) any {
	return t.New().Call("get")
}

func itoa(n uint64) string { return strconv.FormatUint(n, 10) }
