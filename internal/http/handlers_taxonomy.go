package http

import (
	"net/http"

	"expensepad/internal/core"
	"expensepad/internal/entry"
)

// categoryView marks which subcategories are locked by the seed table.
type categoryView struct {
	core.Category
	Protected []string `json:"protected"`
}

func viewCategory(c core.Category) categoryView {
	v := categoryView{Category: c, Protected: []string{}}
	if c.IsDefault {
		for _, sub := range c.Subcategories {
			if core.IsSeededSubcategory(c.Name, sub) {
				v.Protected = append(v.Protected, sub)
			}
		}
	}
	return v
}

type createRequest struct {
	Name string `json:"name"`
	// Row selects the new entry on that draft row when set.
	Row *int `json:"row,omitempty"`
}

func (c createRequest) row() int {
	if c.Row == nil {
		return entry.NoRow
	}
	return *c.Row
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.state.Categories().List()
	out := make([]categoryView, len(cats))
	for i, c := range cats {
		out[i] = viewCategory(c)
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleSuggestCategories(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.form.SuggestCategories(r.URL.Query().Get("q"))).Write(w)
}

func (s *Server) handleSuggestSubcategories(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := s.state.Categories().Get(name); !ok {
		writeError(w, r, entry.ErrUnknownCategory)
		return
	}
	NewResponse().JSON(s.form.SuggestSubcategories(name, r.URL.Query().Get("q"))).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	name := sanitizeInput(req.Name)
	confirm := entry.Answer(ParseBool(r, "confirm"))
	if err := s.form.CreateCategory(r.Context(), req.row(), name, confirm); err != nil {
		writeError(w, r, err)
		return
	}
	c, _ := s.state.Categories().Get(name)
	NewResponse().Status(http.StatusCreated).JSON(viewCategory(c)).Write(w)
}

func (s *Server) handleCreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	category := r.PathValue("name")
	confirm := entry.Answer(ParseBool(r, "confirm"))
	if err := s.form.CreateSubcategory(r.Context(), req.row(), category, sanitizeInput(req.Name), confirm); err != nil {
		writeError(w, r, err)
		return
	}
	c, _ := s.state.Categories().Get(category)
	NewResponse().Status(http.StatusCreated).JSON(viewCategory(c)).Write(w)
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	confirm := entry.Answer(ParseBool(r, "confirm"))
	if err := s.form.RemoveCategory(r.Context(), r.PathValue("name"), confirm); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleRemoveSubcategory(w http.ResponseWriter, r *http.Request) {
	confirm := entry.Answer(ParseBool(r, "confirm"))
	if err := s.form.RemoveSubcategory(r.Context(), r.PathValue("name"), r.PathValue("sub"), confirm); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}
