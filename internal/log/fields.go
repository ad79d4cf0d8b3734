package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldSlot      = "slot"
	FieldShopName  = "shop_name"
	FieldItemCount = "item_count"
	FieldTotal     = "total_amount"
	FieldTaxTotal  = "tax_total"
	FieldBackend   = "backend"
	FieldRef       = "ref"
	FieldQueue     = "queue"
	FieldDuration  = "duration_ms"
	FieldSuccess   = "success"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldAttempt   = "attempt"
	FieldBatchSize = "batch_size"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentDraft   = "draft"
	ComponentSubmit  = "submit"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentGateway = "gateway"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentNotify  = "notify"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpSave     = "save"
	OpLoad     = "load"
	OpClear    = "clear"
	OpSubmit   = "submit"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpSeed     = "seed"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
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

// WithSlot adds the draft slot field
func (f LogFields) WithSlot(slot string) LogFields {
	f[FieldSlot] = slot
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

// WithReceipt adds receipt summary fields
func (f LogFields) WithReceipt(shopName string, itemCount int, total int64) LogFields {
	f[FieldShopName] = shopName
	f[FieldItemCount] = itemCount
	f[FieldTotal] = total
	return f
}

// WithSubmission adds submission outcome fields
func (f LogFields) WithSubmission(backend, ref string, durationMs int64, success bool) LogFields {
	f[FieldBackend] = backend
	f[FieldRef] = ref
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
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
