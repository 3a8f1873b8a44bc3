package log

import "fintrack/internal/core"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldDate       = "date"
	FieldLimit      = "limit"
	FieldSpent      = "spent"
	FieldMessageID  = "message_id"
	FieldCount      = "count"
	FieldSheetsRows = "sheets_rows"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentMirror  = "mirror"
	ComponentSheets  = "sheets"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpAppend   = "append"
	OpBackfill = "backfill"
	OpAlert    = "alert"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

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

// WithTransaction adds the category, amount and date of t.
func (f LogFields) WithTransaction(t core.Transaction) LogFields {
	f[FieldCategory] = t.Category
	f[FieldAmount] = t.Amount.String()
	f[FieldDate] = t.Date.String()
	return f
}

func (f LogFields) WithMessageID(id string) LogFields {
	f[FieldMessageID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
