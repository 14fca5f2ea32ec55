package guard

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/users"
)

// Route is one entry of the console route table.
type Route struct {
	Pattern string
	Name    string
	Public  bool
	Roles   []users.RoleType // Required roles; empty means any authenticated user
}

// DefaultRoutes is the console route table.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: RouteHome, Name: "home", Public: true},
		{Pattern: RouteLogin, Name: "login", Public: true},
		{Pattern: RouteUnauthorized, Name: "unauthorized", Public: true},

		{Pattern: RouteDashboard, Name: "dashboard"},
		{Pattern: RoutePatients, Name: "patients"},
		{Pattern: RoutePatientDetail, Name: "patient-detail"},
		{Pattern: RouteAppointments, Name: "appointments"},
		{Pattern: RoutePrescriptions, Name: "prescriptions"},
		{Pattern: RouteMedicalRecords, Name: "medical-records"},
		{Pattern: RouteHistory, Name: "history"},

		{Pattern: RouteUsers, Name: "users", Roles: []users.RoleType{users.RoleAdmin}},
	}
}

// State is the part of the session a Router needs.
type State struct {
	IsAuthenticated bool
	Role            users.RoleType
	ProfilePending  bool
}

// Match is a resolved route with its path parameters.
type Match struct {
	Route  Route
	Params map[string]string
}

// Router resolves paths against a route table and applies Decide.
type Router struct {
	mux    *chi.Mux
	routes map[string]Route
}

func NewRouter(routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	r := &Router{mux: chi.NewRouter(), routes: make(map[string]Route, len(routes))}
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, route := range routes {
		r.mux.Get(route.Pattern, noop)
		r.routes[route.Pattern] = route
	}
	return r
}

// Resolve finds the route for path. The query string and fragment are ignored.
func (r *Router) Resolve(path string) (Match, bool) {
	path = cleanPath(path)
	rctx := chi.NewRouteContext()
	pattern := r.mux.Find(rctx, http.MethodGet, path)
	route, ok := r.routes[pattern]
	if !ok {
		return Match{}, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return Match{Route: route, Params: params}, true
}

// Decide resolves path and decides whether the session may enter it.
func (r *Router) Decide(path string, state State) (Decision, Match) {
	m, ok := r.Resolve(path)
	if !ok {
		return Decision{Outcome: OutcomeNotFound, Location: path}, Match{}
	}
	if m.Route.Public {
		return Decision{Outcome: OutcomeAllow, Location: path}, m
	}
	return Decide(Input{
		IsAuthenticated: state.IsAuthenticated,
		Role:            state.Role,
		ProfilePending:  state.ProfilePending,
		Required:        m.Route.Roles,
		Location:        path,
	}), m
}

// Routes lists the table sorted by pattern.
func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.routes))
	for _, route := range r.routes {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
