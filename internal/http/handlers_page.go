package http

import (
	"html/template"
	"net/http"

	"expensepad/internal/core"
	"expensepad/internal/history"
	"expensepad/internal/log"
)

var templateFuncs = template.FuncMap{
	"currency": core.FormatCurrency,
	"isoDate":  func(d core.Date) string { return d.String() },
}

type pageData struct {
	Categories []categoryView
	Drafts     []draftView
	History    []history.Row
	ShowAll    bool
	HasMore    bool
	SinkURL    string
	SinkKind   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	cats := s.state.Categories().List()
	data := pageData{
		Categories: make([]categoryView, len(cats)),
		Drafts:     viewDrafts(s.form.Rows()),
		History:    s.history.Rows(),
		ShowAll:    s.history.ShowAll(),
		HasMore:    s.history.HasMore(),
		SinkURL:    s.state.SinkURL(),
		SinkKind:   s.sinkKind,
	}
	for i, c := range cats {
		data.Categories[i] = viewCategory(c)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err, "template", "index.html")
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
