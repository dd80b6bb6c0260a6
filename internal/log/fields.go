package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldAccountID = "account_id"
	FieldReturnID  = "return_id"
	FieldCount     = "count"
	FieldRetry     = "retry"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldCommand   = "command"
	FieldYear      = "year"
	FieldFile      = "file"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentBackup   = "backup"
	ComponentOrdering = "ordering"
	ComponentReport   = "report"
	ComponentCLI      = "cli"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpReplace  = "replace_all"
	OpMove     = "move"
	OpExport   = "export"
	OpImport   = "import"
	OpMigrate  = "migrate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

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

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithAccount adds the account id when set
func (f LogFields) WithAccount(id string) LogFields {
	if id != "" {
		f[FieldAccountID] = id
	}
	return f
}

func (f LogFields) WithReturn(id string) LogFields {
	if id != "" {
		f[FieldReturnID] = id
	}
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
