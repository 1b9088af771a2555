// Package http serves the expense pad: a JSON API over the entry form,
// taxonomy, history and settings, plus the server-rendered page that
// drives it.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"

	"expensepad/internal/entry"
	"expensepad/internal/history"
	"expensepad/internal/log"
	"expensepad/internal/store"
	appweb "expensepad/web"
)

// Deps are the components the handlers work on.
type Deps struct {
	State   *store.State
	Form    *entry.Form
	History *history.View
	// SinkKind is reported by the settings endpoint.
	SinkKind string
}

type Server struct {
	http.Server
	templates *template.Template
	state     *store.State
	form      *entry.Form
	history   *history.View
	sinkKind  string
	logger    *log.Logger
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		state:    deps.State,
		form:     deps.Form,
		history:  deps.History,
		sinkKind: deps.SinkKind,
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/suggest", s.handleSuggestCategories)
	mux.HandleFunc("DELETE /api/categories/{name}", s.handleRemoveCategory)
	mux.HandleFunc("GET /api/categories/{name}/suggest", s.handleSuggestSubcategories)
	mux.HandleFunc("POST /api/categories/{name}/subcategories", s.handleCreateSubcategory)
	mux.HandleFunc("DELETE /api/categories/{name}/subcategories/{sub}", s.handleRemoveSubcategory)

	mux.HandleFunc("GET /api/drafts", s.handleListDrafts)
	mux.HandleFunc("POST /api/drafts", s.handleAddDraft)
	mux.HandleFunc("POST /api/drafts/submit", s.handleSubmit)
	mux.HandleFunc("PATCH /api/drafts/{index}", s.handleUpdateDraft)
	mux.HandleFunc("DELETE /api/drafts/{index}", s.handleRemoveDraft)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/expenses/export.xlsx", s.handleExportExpenses)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleRemoveExpense)
	mux.HandleFunc("POST /api/history/toggle", s.handleToggleHistory)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	s.Handler = log.Middleware(logger)(withSecurityHeaders(mux))
	return s
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	return s.Server.Shutdown(ctx)
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.state == nil || s.form == nil || s.templates == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
