package logging

// Common structured logging keys shared across stages.
const (
	FieldComponent    = "component"
	FieldRunID        = "run_id"
	FieldStage        = "stage"
	FieldEventType    = "event_type"
	FieldErrorHint    = "error_hint"
	FieldImpact       = "impact"
	FieldSource       = "source"
	FieldPath         = "path"
	FieldCategory     = "category"
	FieldDigest       = "digest"
	FieldDecisionType = "decision_type"
	FieldDurationMS   = "duration_ms"
)
