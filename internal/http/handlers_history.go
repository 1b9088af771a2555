package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"expensepad/internal/history"
	"expensepad/internal/log"
)

type historyResponse struct {
	Rows    []history.Row `json:"rows"`
	ShowAll bool          `json:"showAll"`
	HasMore bool          `json:"hasMore"`
	Count   int           `json:"count"`
}

type settingsBody struct {
	ScriptURL string `json:"scriptUrl"`
	SinkKind  string `json:"sinkKind,omitempty"`
}

func (s *Server) historyResponse(showAll bool) historyResponse {
	return historyResponse{
		Rows:    s.history.RowsFor(showAll),
		ShowAll: showAll,
		HasMore: s.history.HasMore(),
		Count:   s.state.Expenses().Len(),
	}
}

// handleListExpenses honours the shared toggle unless ?all=true asks for
// everything.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	showAll := s.history.ShowAll() || ParseBool(r, "all")
	NewResponse().JSON(s.historyResponse(showAll)).Write(w)
}

func (s *Server) handleToggleHistory(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.historyResponse(s.history.Toggle())).Write(w)
}

// handleRemoveExpense is idempotent: unknown ids still answer 204.
func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.state.Expenses().Remove(r.Context(), id) {
		log.FromContext(r.Context()).InfoContext(r.Context(), "Expense removed",
			log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	if err := history.WriteXLSX(w, s.state.Expenses().SortedDescendingByDate()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed", log.FieldError, err)
		InternalServerError("export failed").Write(w)
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(settingsBody{ScriptURL: s.state.SinkURL(), SinkKind: s.sinkKind}).Write(w)
}

// handlePutSettings stores the sink URL; an empty value disables the sink.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScriptURL string `json:"scriptUrl"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	raw := strings.TrimSpace(req.ScriptURL)
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			ErrorResponse(http.StatusUnprocessableEntity, fmt.Sprintf("invalid script URL %q: must be an http(s) URL", raw)).Write(w)
			return
		}
	}
	s.state.SetSinkURL(r.Context(), raw)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Sink URL updated", "configured", raw != "")
	NewResponse().JSON(settingsBody{ScriptURL: s.state.SinkURL(), SinkKind: s.sinkKind}).Write(w)
}
