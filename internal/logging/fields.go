package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one extraction run.
	FieldRunID = "run_id"
	// FieldSessionID is the credential session (subdirectory name, or "main").
	FieldSessionID = "session_id"
	// FieldDeviceJID is the raw device address from the relational store.
	FieldDeviceJID = "device_jid"
	// FieldMethod names the resolution strategy that produced (or failed to produce) an identifier.
	FieldMethod = "method"
	// FieldPhone is the normalized primary number.
	FieldPhone = "phone"
	// FieldLID is the resolved alternate identifier.
	FieldLID = "lid"
	// FieldPath is a filesystem path involved in the log line.
	FieldPath = "path"
	// FieldEventType is a stable machine-readable label for the log line.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldReason carries a short explanation when a unit is skipped.
	FieldReason = "reason"
)
