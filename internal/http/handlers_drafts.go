package http

import (
	"net/http"

	"expensepad/internal/core"
	"expensepad/internal/entry"
	"expensepad/internal/sink"
)

type draftView struct {
	Index int `json:"index"`
	entry.Draft
	Total          int64  `json:"total"`
	TotalFormatted string `json:"totalFormatted"`
}

func viewDrafts(rows []entry.Draft) []draftView {
	out := make([]draftView, len(rows))
	for i, d := range rows {
		out[i] = viewDraft(i, d)
	}
	return out
}

func viewDraft(i int, d entry.Draft) draftView {
	return draftView{Index: i, Draft: d, Total: d.Total(), TotalFormatted: core.FormatCurrency(d.Total())}
}

type updateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type outcomeView struct {
	Row       int          `json:"row"`
	Committed bool         `json:"committed"`
	Expense   core.Expense `json:"expense"`
	Error     string       `json:"error,omitempty"`
	Reason    string       `json:"reason,omitempty"`
}

type submitResponse struct {
	Committed int           `json:"committed"`
	Failed    int           `json:"failed"`
	Outcomes  []outcomeView `json:"outcomes"`
	Drafts    []draftView   `json:"drafts"`
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(viewDrafts(s.form.Rows())).Write(w)
}

func (s *Server) handleAddDraft(w http.ResponseWriter, r *http.Request) {
	i := s.form.AddRow()
	rows := s.form.Rows()
	if i >= len(rows) {
		// A concurrent removal got there first.
		NewResponse().Status(http.StatusCreated).JSON(viewDrafts(rows)).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(viewDraft(i, rows[i])).Write(w)
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	i, err := ParseIndex(r, "index")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var req updateRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	edit, err := entry.ParseEdit(req.Field, sanitizeInput(req.Value))
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.form.Update(i, edit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(viewDraft(i, d)).Write(w)
}

func (s *Server) handleRemoveDraft(w http.ResponseWriter, r *http.Request) {
	i, err := ParseIndex(r, "index")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := s.form.RemoveRow(i); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleSubmit always answers 200: per-row failures are part of the report.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	report := s.form.Submit(r.Context())

	resp := submitResponse{
		Committed: report.Committed(),
		Failed:    report.Failed(),
		Outcomes:  make([]outcomeView, len(report.Outcomes)),
		Drafts:    viewDrafts(s.form.Rows()),
	}
	for i, o := range report.Outcomes {
		v := outcomeView{Row: o.Row, Committed: o.Committed, Expense: o.Expense}
		if o.Err != nil {
			v.Error = o.Err.Error()
			v.Reason = sink.ReasonOf(o.Err).String()
		}
		resp.Outcomes[i] = v
	}
	NewResponse().JSON(resp).Write(w)
}
