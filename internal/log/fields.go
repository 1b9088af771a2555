package log

// Field names shared by every structured log line.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldExpenseID   = "expense_id"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldTotal       = "total_amount"
	FieldRow         = "row"
	FieldReason      = "reason"
)

const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentEntry   = "entry"
	ComponentSink    = "sink"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentRelay   = "relay"
)

const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpSubmit   = "submit"
	OpSend     = "send"
	OpPersist  = "persist"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields builds slog key/value pairs fluently.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	if requestID != "" {
		f[FieldRequestID] = requestID
	}
	return f
}

// WithError is a no-op for a nil error.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds the identifying fields of a saved or attempted expense.
func (f LogFields) WithExpense(id, category, subcategory string, total int64) LogFields {
	f[FieldExpenseID] = id
	f[FieldCategory] = category
	f[FieldSubcategory] = subcategory
	f[FieldTotal] = total
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice flattens the fields for slog's variadic args.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
