package models

// FailureKind tags an assistant message that ended a chat turn in error.
type FailureKind string

const (
	FailureModel     FailureKind = "model_failure"
	FailureParse     FailureKind = "parse_failure"
	FailureApply     FailureKind = "apply_failure"
	FailureUserInput FailureKind = "user_input_failure"
	FailureStore     FailureKind = "store_failure"
)
