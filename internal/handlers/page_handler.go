package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/common"
)

//go:embed pages/*.html
var pagesFS embed.FS

type PageHandler struct {
	logger    arbor.ILogger
	templates *template.Template
	defaults  common.DocumentConfig
}

func NewPageHandler(logger arbor.ILogger, defaults common.DocumentConfig) *PageHandler {
	return &PageHandler{
		logger:    logger,
		templates: template.Must(template.ParseFS(pagesFS, "pages/*.html")),
		defaults:  defaults,
	}
}

// ServePage creates a handler function for serving a specific page template
func (h *PageHandler) ServePage(templateName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data := map[string]interface{}{
			"Version":        common.GetVersion(),
			"DefaultAuthor":  h.defaults.DefaultAuthor,
			"DefaultCompany": h.defaults.DefaultCompany,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
			h.logger.Error().
				Err(err).
				Str("template", templateName).
				Msg("Failed to render page")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
