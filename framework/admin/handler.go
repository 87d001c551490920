// Package admin serves a JSON API for inspecting and steering one container.
//
//	GET    /scope                 current scope, minted counter, known scopes
//	PUT    /scope                 {"scope": "x"} switch (empty mints a name)
//	GET    /types                 known types and what they dispatch through, ?state=
//	GET    /reflections           ?scope= ?type= filters
//	POST   /synthesize/{scope}    activate a scope (origin-scope allowed)
//	DELETE /reflections           flush everything, or ?scope= only
//	POST   /dispose               forget every type and reflection
//
// Every container access happens under one mutex.
package admin

import (
	"net/http"
	"slices"
	"sync"

	"github.com/go-logr/logr"

	"github.com/km-arc/go-ioc/framework/container"
	gohttp "github.com/km-arc/go-ioc/framework/http"
	"github.com/km-arc/go-ioc/framework/http/validation"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/routing"
)

// Handler exposes a Container over HTTP.
type Handler struct {
	mu  sync.Mutex
	c   *container.Container
	log logr.Logger
}

// New returns a Handler for c.
func New(c *container.Container, log logr.Logger) *Handler {
	return &Handler{c: c, log: log.WithName("admin")}
}

// Routes registers the endpoints on r.
//
//	router.Prefix(cfg.IoC.AdminPrefix, h.Routes)
func (h *Handler) Routes(r *routing.Router) {
	r.Get("/scope", h.showScope)
	r.Put("/scope", h.switchScope)
	r.Get("/types", h.listTypes)
	r.Get("/reflections", h.listReflections)
	r.Delete("/reflections", h.flush)
	r.Post("/synthesize/{scope}", h.synthesize)
	r.Post("/dispose", h.dispose)
}

// Do runs fn with exclusive access to the container. Code sharing the
// container with the API goes through here.
func (h *Handler) Do(fn func(c *container.Container)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.c)
}

// ── Views ────────────────────────────────────────────────────────────────────

type scopeView struct {
	Current string   `json:"current"`
	Minted  uint64   `json:"minted"`
	Scopes  []string `json:"scopes"`
}

type typeView struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"` // origin | reflection | master | foreign
	Scope       string `json:"scope,omitempty"`
	Reflections int    `json:"reflections"`
}

type reflectionView struct {
	Type    string         `json:"type"`
	Scope   string         `json:"scope"`
	Members []string       `json:"members"`
	Vars    map[string]any `json:"vars"`
	Active  bool           `json:"active"`
}

func (h *Handler) scopeView() scopeView {
	return scopeView{
		Current: h.c.CurrentScope(),
		Minted:  container.NumScopes(),
		Scopes:  h.c.Scopes(),
	}
}

func (h *Handler) typeViews() []typeView {
	out := []typeView{}
	for _, t := range h.c.Types() {
		v := typeView{
			ID:          t.ID(),
			Name:        t.Name(),
			Scope:       t.Active().Scope(),
			Reflections: len(h.c.ReflectionsOf(t)),
		}
		switch {
		case h.c.IsOrigin(t):
			v.State = "origin"
		case h.c.IsReflection(t):
			v.State = "reflection"
		case t.Active() == h.c.MasterOf(t):
			v.State = "master"
		default:
			v.State = "foreign"
		}
		out = append(out, v)
	}
	return out
}

func reflectionViews(rs []*container.Implementation) []reflectionView {
	out := make([]reflectionView, 0, len(rs))
	for _, r := range rs {
		members := r.Own()
		slices.Sort(members)
		out = append(out, reflectionView{
			Type:    r.Type().Name(),
			Scope:   r.Scope(),
			Members: members,
			Vars:    r.Detail().Vars,
			Active:  r.Type().Active() == r,
		})
	}
	return out
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (h *Handler) showScope(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	gohttp.NewResponse(w).Success(h.scopeView())
}

func (h *Handler) switchScope(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	if !req.IsJSON() {
		res.Error(http.StatusUnsupportedMediaType, "body must be application/json")
		return
	}
	var body struct {
		Scope string `json:"scope"`
	}
	if err := req.Bind(&body); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	v := validation.Make(map[string]string{"scope": body.Scope}, validation.Rules{"scope": validation.OptionalScopeRules})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.c.SwitchScope(body.Scope)
	h.log.V(logging.VERBOSE).Info("switched scope", "scope", h.c.CurrentScope())
	res.Success(h.scopeView())
}

// typeStates are the values of typeView.State.
const typeStates = "origin,reflection,master,foreign"

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	filter := req.Queries("state")
	v := validation.Make(filter, validation.Rules{"state": "sometimes|in:" + typeStates})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	views := h.typeViews()
	if state, ok := filter["state"]; ok {
		views = slices.DeleteFunc(views, func(tv typeView) bool { return tv.State != state })
	}
	res.Success(views)
}

func (h *Handler) listReflections(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	filter := req.Queries("scope", "type")
	v := validation.Make(filter, validation.Rules{
		"scope": validation.OptionalScopeRules,
		"type":  "sometimes|max:128",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	rs := h.c.ReflectionsWhere(func(d container.Detail) bool {
		if s, ok := filter["scope"]; ok && d.Scope != s {
			return false
		}
		if n, ok := filter["type"]; ok && d.Origin.Type().Name() != n {
			return false
		}
		return true
	})
	res.Success(reflectionViews(rs))
}

func (h *Handler) synthesize(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	scope := req.RouteParam("scope")
	v := validation.Make(map[string]string{"scope": scope}, validation.Rules{"scope": validation.ScopeRules})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.c.Synthesize(scope)
	h.log.V(logging.VERBOSE).Info("synthesized scope", "scope", scope)
	res.Success(h.typeViews())
}

func (h *Handler) flush(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	filter := req.Queries("scope")
	v := validation.Make(filter, validation.Rules{"scope": validation.OptionalScopeRules})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	var targets []*container.Implementation // nil flushes everything
	if s, ok := filter["scope"]; ok {
		targets = h.c.ReflectionsWhere(func(d container.Detail) bool { return d.Scope == s })
	}
	before := len(h.c.Reflections())
	h.c.Flush(targets)
	flushed := before - len(h.c.Reflections())

	h.log.V(logging.VERBOSE).Info("flushed reflections", "scope", filter["scope"], "count", flushed)
	res.Success(map[string]int{"flushed": flushed})
}

func (h *Handler) dispose(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.c.Dispose()
	h.log.Info("disposed container")
	gohttp.NewResponse(w).NoContent()
}
