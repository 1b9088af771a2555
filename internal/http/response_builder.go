package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"expensepad/internal/core"
	"expensepad/internal/entry"
	"expensepad/internal/log"
)

// ResponseBuilder assembles a JSON response fluently.
type ResponseBuilder struct {
	statusCode int
	body       any
}

func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{statusCode: http.StatusOK}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// JSON sets the value encoded as the body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the response. A nil body writes only the status.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(ErrorBody{Error: message})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// statusFor maps workflow errors to HTTP statuses: rejected input and
// policy refusals are 422, unknown rows and categories 404.
func statusFor(err error) int {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entry.ErrRowNotFound), errors.Is(err, entry.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, entry.ErrDefaultCategory),
		errors.Is(err, entry.ErrDefaultSubcategory),
		errors.Is(err, entry.ErrCategoryExists),
		errors.Is(err, entry.ErrSubcategoryExists),
		errors.Is(err, entry.ErrDeclined):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err against the request and sends the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := log.FromContext(r.Context())
	if status >= 500 {
		logger.ErrorContext(r.Context(), "Request failed", log.FieldError, err)
	} else {
		logger.WarnContext(r.Context(), "Request rejected", log.FieldError, err, log.FieldStatusCode, status)
	}

	if status == http.StatusNotFound {
		NotFoundError(err.Error()).Write(w)
		return
	}

	body := ErrorBody{Error: err.Error()}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	if errors.Is(err, entry.ErrDeclined) {
		body.Error = "confirmation required: repeat the request with confirm=true"
	}
	NewResponse().Status(status).JSON(body).Write(w)
}
