package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/ternarybob/onboarder/internal/handlers"
)

// RouteHandler is a function type for HTTP handlers
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers
type MethodRouter map[string]RouteHandler

// RouteByMethod dispatches on the request method. Unlisted methods get a
// JSON 405 with an Allow header.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	if handler, ok := routes[r.Method]; ok {
		handler(w, r)
		return
	}

	allowed := make([]string, 0, len(routes))
	for method := range routes {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	_ = handlers.WriteError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
}

// RouteResourceCollection routes GET to list and POST to create
func RouteResourceCollection(w http.ResponseWriter, r *http.Request, list, create RouteHandler) {
	routes := make(MethodRouter)
	if list != nil {
		routes[http.MethodGet] = list
	}
	if create != nil {
		routes[http.MethodPost] = create
	}
	RouteByMethod(w, r, routes)
}
