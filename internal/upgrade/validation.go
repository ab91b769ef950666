package upgrade

// ValidationResult is the outcome of a driver's post-transform check.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error appends an error and marks the result invalid.
func (v *ValidationResult) Error(msg string) {
	v.Valid = false
	v.Errors = append(v.Errors, msg)
}

// Warn appends a warning without affecting validity.
func (v *ValidationResult) Warn(msg string) {
	v.Warnings = append(v.Warnings, msg)
}

// NewValidationResult returns a valid, empty result.
func NewValidationResult() ValidationResult {
	return ValidationResult{Valid: true}
}
