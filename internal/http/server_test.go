package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"expensepad/internal/core"
	"expensepad/internal/entry"
	"expensepad/internal/history"
	"expensepad/internal/log"
	"expensepad/internal/sink"
	"expensepad/internal/sink/memory"
	"expensepad/internal/store"
)

type fixture struct {
	srv   *Server
	state *store.State
	sink  *memory.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	state := store.NewSeeded()
	rec := memory.New()
	form := entry.New(state, rec, entry.WithClock(func() core.Date { return core.NewDate(2025, 6, 1) }))
	logger := log.New(log.Config{Output: io.Discard})
	srv := NewServer(":0", Deps{State: state, Form: form, History: history.New(state.Expenses()), SinkKind: "memory"}, logger)
	return &fixture{srv: srv, state: state, sink: rec}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	rr := httptest.NewRecorder()
	f.srv.Handler.ServeHTTP(rr, httptest.NewRequest(method, path, rd))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestIndexAndHealth(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Expense Pad")
	assert.Contains(t, rr.Body.String(), `value="2025-06-01"`)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get(log.RequestIDHeader))

	for _, path := range []string{"/healthz", "/readyz", "/static/app.js"} {
		assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, path, nil).Code, path)
	}
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/nope", nil).Code)
}

func TestSubmitScenario(t *testing.T) {
	f := newFixture(t)
	f.state.SetSinkURL(context.Background(), "https://example.com/hook")

	for field, value := range map[string]string{"category": "Food", "quantity": "3", "unitPrice": "50"} {
		rr := f.do(t, http.MethodPatch, "/api/drafts/0", updateRequest{Field: field, Value: value})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	rr := f.do(t, http.MethodPatch, "/api/drafts/0", updateRequest{Field: "subcategory", Value: "Groceries"})
	d := decode[draftView](t, rr)
	assert.Equal(t, int64(150), d.Total)
	assert.Equal(t, "150", d.TotalFormatted)

	rr = f.do(t, http.MethodPost, "/api/drafts/submit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[submitResponse](t, rr)
	assert.Equal(t, 1, resp.Committed)
	assert.Len(t, resp.Drafts, 1)
	assert.Equal(t, int64(150), resp.Outcomes[0].Expense.TotalAmount)

	require.Len(t, f.sink.Sent(), 1)
	assert.Equal(t, 1, f.state.Expenses().Len())
}

func TestSubmitReportsSinkFailure(t *testing.T) {
	f := newFixture(t)
	f.sink.FailWith(sink.Unconfigured("endpoint url"))

	resp := decode[submitResponse](t, f.do(t, http.MethodPost, "/api/drafts/submit", nil))

	assert.Equal(t, 0, resp.Committed)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "not_configured", resp.Outcomes[0].Reason)
	assert.Zero(t, f.state.Expenses().Len())
}

func TestDraftRows(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/drafts", nil).Code)
	assert.Len(t, decode[[]draftView](t, f.do(t, http.MethodGet, "/api/drafts", nil)), 2)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/drafts/1", nil).Code)
	rr404 := f.do(t, http.MethodDelete, "/api/drafts/5", nil)
	assert.Equal(t, http.StatusNotFound, rr404.Code)
	assert.Equal(t, "draft row not found", decode[ErrorBody](t, rr404).Error)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/api/drafts/x", nil).Code)

	rr := f.do(t, http.MethodPatch, "/api/drafts/0", updateRequest{Field: "colour", Value: "red"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	rr = f.do(t, http.MethodPatch, "/api/drafts/0", map[string]string{"bogus": "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/api/categories?confirm=true", createRequest{Name: "AB"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "category", decode[ErrorBody](t, rr).Field)

	rr = f.do(t, http.MethodPost, "/api/categories", createRequest{Name: "Pets"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, "unconfirmed create is refused")
	_, ok := f.state.Categories().Get("Pets")
	assert.False(t, ok)

	row := 0
	rr = f.do(t, http.MethodPost, "/api/categories?confirm=true", createRequest{Name: "Pets", Row: &row})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Pets", decode[categoryView](t, rr).Name)

	rr = f.do(t, http.MethodPost, "/api/categories/Pets/subcategories?confirm=true", createRequest{Name: "Vet"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, []string{"Vet"}, decode[categoryView](t, rr).Subcategories)

	s := decode[entry.Suggestions](t, f.do(t, http.MethodGet, "/api/categories/Pets/suggest?q=v", nil))
	assert.Equal(t, []string{"Vet"}, s.Matches)
	rr = f.do(t, http.MethodGet, "/api/categories/Nope/suggest?q=v", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, ErrorBody{Error: "unknown category"}, decode[ErrorBody](t, rr))
	rr = f.do(t, http.MethodPost, "/api/categories/Nope/subcategories?confirm=true", createRequest{Name: "Vet"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "unknown category: Nope", decode[ErrorBody](t, rr).Error)

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodDelete, "/api/categories/Food?confirm=true", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodDelete, "/api/categories/Food/subcategories/Groceries?confirm=true", nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/categories/Pets/subcategories/Vet?confirm=true", nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/categories/Pets?confirm=true", nil).Code)

	cats := decode[[]categoryView](t, f.do(t, http.MethodGet, "/api/categories", nil))
	assert.Len(t, cats, len(core.DefaultCategories))
	assert.Contains(t, cats[0].Protected, "Groceries")
}

func TestHistoryEndpoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 1; i <= 6; i++ {
		f.state.Expenses().Add(ctx, core.Expense{ID: fmt.Sprintf("e-%d", i), Date: core.NewDate(2025, 1, i), Quantity: 1, UnitPrice: 1000, TotalAmount: 1000})
	}

	h := decode[historyResponse](t, f.do(t, http.MethodGet, "/api/expenses", nil))
	assert.Len(t, h.Rows, store.PageSize)
	assert.True(t, h.HasMore)
	assert.Equal(t, "1,000", h.Rows[0].Total)

	assert.Len(t, decode[historyResponse](t, f.do(t, http.MethodGet, "/api/expenses?all=true", nil)).Rows, 6)

	h = decode[historyResponse](t, f.do(t, http.MethodPost, "/api/history/toggle", nil))
	assert.True(t, h.ShowAll)
	assert.Len(t, h.Rows, 6)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/expenses/e-1", nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/expenses/nonexistent-id", nil).Code)
	assert.Equal(t, 5, f.state.Expenses().Len())

	rr := f.do(t, http.MethodGet, "/api/expenses/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	wb, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Expenses")
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPut, "/api/settings", settingsBody{ScriptURL: "https://script.google.com/macros/s/x/exec"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://script.google.com/macros/s/x/exec", f.state.SinkURL())

	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPut, "/api/settings", settingsBody{ScriptURL: "not a url"}).Code)

	got := decode[settingsBody](t, f.do(t, http.MethodGet, "/api/settings", nil))
	assert.Equal(t, "memory", got.SinkKind)

	f.do(t, http.MethodPut, "/api/settings", settingsBody{})
	assert.Empty(t, f.state.SinkURL())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&core.ValidationError{Field: "category"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrap: %w", entry.ErrRowNotFound), http.StatusNotFound},
		{entry.ErrDefaultCategory, http.StatusUnprocessableEntity},
		{entry.ErrDeclined, http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Pet food", sanitizeInput("  Pet\x00 food\x07 "))
	assert.True(t, strings.HasPrefix(sanitizeInput("a\tb"), "a\tb"))
}
