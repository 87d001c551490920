package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/km-arc/go-ioc/framework/http/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the validator passes for the given data/rules.
func pass(t *testing.T, label string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Fails() {
			t.Errorf("expected PASS, got FAIL, errors: %+v", v.Errors().Bag)
		}
	})
}

// fail asserts the validator fails with an error on the given field.
func fail(t *testing.T, label, field string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Passes() {
			t.Errorf("expected FAIL on field %q, but validator PASSED", field)
		}
		if v.Errors().First(field) == "" {
			t.Errorf("expected error on field %q, but none found. Errors: %+v", field, v.Errors().Bag)
		}
	})
}

// ── required / sometimes ─────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty value", map[string]string{"name": "Alice"}, r)
	fail(t, "empty string", "name", map[string]string{"name": ""}, r)
	fail(t, "whitespace only", "name", map[string]string{"name": "   "}, r)
	fail(t, "missing key", "name", map[string]string{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"name": ""}, validation.Rules{"name": "required"})
	_ = v.Fails()
	msg := v.Errors().First("name")
	expected := "The name field is required."
	if msg != expected {
		t.Errorf("message: got %q want %q", msg, expected)
	}
}

func TestValidation_Sometimes(t *testing.T) {
	r := validation.Rules{"scope": "sometimes|max:3"}

	pass(t, "absent is skipped", map[string]string{}, r)
	pass(t, "present and valid", map[string]string{"scope": "eve"}, r)
	fail(t, "present and invalid", "scope", map[string]string{"scope": "holiday"}, r)
}

// ── max ──────────────────────────────────────────────────────────────────────

func TestValidation_Max(t *testing.T) {
	r := validation.Rules{"bio": "max:5"}

	pass(t, "exactly 5", map[string]string{"bio": "hello"}, r)
	pass(t, "less than 5", map[string]string{"bio": "hi"}, r)
	fail(t, "more than 5", "bio", map[string]string{"bio": "toolong"}, r)
}

func TestValidation_Max_Unicode(t *testing.T) {
	// "日本語" = 3 runes, max:3 should pass
	pass(t, "unicode rune count", map[string]string{"name": "日本語"}, validation.Rules{"name": "max:3"})
	fail(t, "unicode rune count too long", "name", map[string]string{"name": "日本語です"}, validation.Rules{"name": "max:3"})
}

// ── integer / in ─────────────────────────────────────────────────────────────

func TestValidation_Integer(t *testing.T) {
	r := validation.Rules{"count": "integer"}

	pass(t, "integer", map[string]string{"count": "42"}, r)
	pass(t, "negative", map[string]string{"count": "-1"}, r)
	fail(t, "float", "count", map[string]string{"count": "3.14"}, r)
	fail(t, "text", "count", map[string]string{"count": "many"}, r)
}

func TestValidation_In(t *testing.T) {
	r := validation.Rules{"state": "in:origin, reflection"}

	pass(t, "listed", map[string]string{"state": "origin"}, r)
	pass(t, "listed with padding", map[string]string{"state": "reflection"}, r)
	fail(t, "not listed", "state", map[string]string{"state": "master"}, r)
}

// ── alpha_dash ───────────────────────────────────────────────────────────────

func TestValidation_AlphaDash(t *testing.T) {
	r := validation.Rules{"scope": "alpha_dash"}

	pass(t, "minted scope", map[string]string{"scope": "scope-12"}, r)
	pass(t, "origin scope", map[string]string{"scope": "origin-scope"}, r)
	pass(t, "underscore", map[string]string{"scope": "black_friday"}, r)
	fail(t, "space", "scope", map[string]string{"scope": "black friday"}, r)
	fail(t, "slash", "scope", map[string]string{"scope": "a/b"}, r)
}

// ── Scope rule sets ──────────────────────────────────────────────────────────

func TestValidation_ScopeRules(t *testing.T) {
	r := validation.Rules{"scope": validation.ScopeRules}

	pass(t, "plain", map[string]string{"scope": "holiday"}, r)
	pass(t, "128 chars", map[string]string{"scope": strings.Repeat("a", 128)}, r)
	fail(t, "129 chars", "scope", map[string]string{"scope": strings.Repeat("a", 129)}, r)
	fail(t, "empty", "scope", map[string]string{"scope": ""}, r)

	opt := validation.Rules{"scope": validation.OptionalScopeRules}
	pass(t, "optional absent", map[string]string{}, opt)
	fail(t, "optional bad", "scope", map[string]string{"scope": "a b"}, opt)
}

// ── Bail and bag ─────────────────────────────────────────────────────────────

func TestValidation_BailsOnFirstFailure(t *testing.T) {
	v := validation.Make(map[string]string{"scope": ""}, validation.Rules{"scope": "required|alpha_dash"})
	if !v.Fails() {
		t.Fatal("expected failure")
	}
	if got := len(v.Errors().Bag["scope"]); got != 1 {
		t.Errorf("messages: got %d, want 1", got)
	}
}

func TestValidation_RepeatedFailsDoesNotDuplicate(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"scope": "required"})
	v.Fails()
	v.Fails()

	want := map[string][]string{"scope": {"The scope field is required."}}
	if diff := cmp.Diff(want, v.Errors().Bag); diff != "" {
		t.Errorf("bag mismatch (-want +got):\n%s", diff)
	}
}

func TestValidation_UnknownRulePasses(t *testing.T) {
	pass(t, "unknown", map[string]string{"x": "y"}, validation.Rules{"x": "shiny"})
}

func TestErrors_FirstMissingField(t *testing.T) {
	var e validation.Errors
	if e.Has() {
		t.Error("empty bag should not report errors")
	}
	if got := e.First("nope"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
