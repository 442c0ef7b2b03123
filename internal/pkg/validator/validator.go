package validator

// Validator validates a struct and reports failures as an error whose
// concrete type carries per-field messages.
type Validator interface {
	Validate(data any) error
}
