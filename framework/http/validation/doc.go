// Package validation checks flat string inputs against pipe-separated rule
// strings.
//
// # Basic Usage
//
//	v := validation.Make(map[string]string{
//	    "scope": chi.URLParam(r, "scope"),
//	}, validation.Rules{
//	    "scope": validation.ScopeRules, // "required|max:128|alpha_dash"
//	})
//
//	if v.Fails() {
//	    // JSON: {"errors": {"scope": ["The scope field is required."]}}
//	}
//
// Fields are checked in name order and each field stops at its first failing
// rule.
//
// # Available Rules
//
//   - required: present and non-blank
//   - sometimes: skip the field silently when empty
//   - integer: parseable as int
//   - max:n: length bound in UTF-8 characters
//   - in:a,b,c: membership in a comma-separated list
//   - alpha_dash: [a-zA-Z0-9_-], the shape of scope names
//
// Unknown rule names pass.
package validation
