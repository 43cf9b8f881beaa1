package log

import (
	"spendwise/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldExpenseID  = "expense_id"
	FieldAmount     = "amount"
	FieldCurrency   = "currency"
	FieldCategory   = "category"
	FieldDate       = "date"
	FieldBase       = "base_currency"
	FieldView       = "view"
	FieldEventType  = "event_type"
	FieldStorageKey = "storage_key"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentSession   = "session"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentAdvice    = "advice"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentBackend   = "backend"
	ComponentTemplate  = "template"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpAsk      = "ask"
	OpNavigate = "navigate"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// Fields collects attributes for a single record.
type Fields map[string]any

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithRequestID(requestID string) Fields {
	if requestID != "" {
		f[FieldRequestID] = requestID
	}
	return f
}

func (f Fields) WithClientIP(ip string) Fields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds the error message, if any.
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds the identifying fields of an expense.
func (f Fields) WithExpense(e core.Expense) Fields {
	f[FieldExpenseID] = e.ID
	f[FieldAmount] = e.Amount.String()
	f[FieldCurrency] = string(e.Currency)
	f[FieldCategory] = string(e.Category)
	f[FieldDate] = e.Date.String()
	return f
}

func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// Args flattens the fields into slog key/value arguments.
func (f Fields) Args() []any {
	args := make([]any, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}
