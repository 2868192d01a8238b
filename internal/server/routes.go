package server

import (
	"net/http"
	"strings"
)

const sessionsPrefix = "/api/sessions/"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html"))

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)

	// API routes - Sessions
	mux.HandleFunc("/api/sessions", s.handleSessionsRoute)
	mux.HandleFunc(sessionsPrefix, s.handleSessionRoutes)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleSessionsRoute routes /api/sessions requests (list and create)
func (s *Server) handleSessionsRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.SessionHandler.ListSessionsHandler, s.app.SessionHandler.CreateSessionHandler)
}

// handleSessionRoutes routes /api/sessions/{id} and /api/sessions/{id}/{action}
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	id, action := splitSessionPath(r.URL.Path)
	if id == "" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	h := s.app.SessionHandler
	bind := func(fn func(http.ResponseWriter, *http.Request, string)) RouteHandler {
		return func(w http.ResponseWriter, r *http.Request) { fn(w, r, id) }
	}

	switch action {
	case "":
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:    bind(h.GetSessionHandler),
			http.MethodDelete: bind(h.DeleteSessionHandler),
		})
	case "fetch":
		RouteByMethod(w, r, MethodRouter{http.MethodPost: bind(h.FetchHandler)})
	case "summarize":
		RouteByMethod(w, r, MethodRouter{http.MethodPost: bind(h.SummarizeHandler)})
	case "generate":
		RouteByMethod(w, r, MethodRouter{http.MethodPost: bind(h.GenerateHandler)})
	case "document.html":
		RouteByMethod(w, r, MethodRouter{http.MethodGet: bind(h.DownloadHTMLHandler)})
	case "document.pdf":
		RouteByMethod(w, r, MethodRouter{http.MethodGet: bind(h.DownloadPDFHandler)})
	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// splitSessionPath extracts the session ID and optional action from a path
// below /api/sessions/
func splitSessionPath(path string) (id, action string) {
	rest := strings.Trim(strings.TrimPrefix(path, sessionsPrefix), "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
