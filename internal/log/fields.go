package log

import "sort"

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldRepo      = "repo"
	FieldBackend   = "backend"
	FieldDebtID    = "debt_id"
	FieldPaymentID = "payment_id"
	FieldAmount    = "amount"
	FieldCommit    = "commit"
	FieldDuration  = "duration_ms"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentGit     = "git"
	ComponentReport  = "report"
)

// Operation names.
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpRecord   = "record"
	OpDelete   = "delete"
	OpValidate = "validate"
	OpCommit   = "commit"
	OpRender   = "render"
)

// Fields is a builder for structured log fields.
type Fields map[string]any

// NewFields creates an empty Fields.
func NewFields() Fields {
	return make(Fields)
}

// WithOperation adds the operation field.
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error field when err is not nil.
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithPayment adds payment-related fields.
func (f Fields) WithPayment(debtID, paymentID, amount string) Fields {
	f[FieldDebtID] = debtID
	f[FieldPaymentID] = paymentID
	f[FieldAmount] = amount
	return f
}

// ToSlice converts Fields to slog key/value arguments, sorted by key.
func (f Fields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(f)*2)
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}
