package log

// Common field names for structured logging
const (
	FieldComponent       = "component"
	FieldError           = "error"
	FieldOperation       = "operation"
	FieldTransactionID   = "transaction_id"
	FieldTemplateID      = "template_id"
	FieldAccountID       = "account_id"
	FieldTitle           = "title"
	FieldAmount          = "amount"
	FieldBalance         = "balance"
	FieldFrequency       = "frequency"
	FieldDueDate         = "due_date"
	FieldOccurrenceCount = "occurrence_count"
	FieldTemplateCount   = "template_count"
	FieldProcessedCount  = "processed_count"
	FieldProcessingDate  = "processing_date"
)

// Components defines standard component names
const (
	ComponentLedger    = "ledger"
	ComponentProcessor = "processor"
	ComponentStorage   = "storage"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpComplete = "complete"
	OpGenerate = "generate"
	OpProcess  = "process"
)

// LogFields provides a builder for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction identity fields
func (f LogFields) WithTransaction(id, title string) LogFields {
	f[FieldTransactionID] = id
	f[FieldTitle] = title
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
