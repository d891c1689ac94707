package wizard

// ValidationResult is the outcome of the local, synchronous checks that gate
// a step commit. Remote checks (duplicate email, tag validity) live with the
// step commit itself and only run once this passes.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ValidateStep runs the local validators for a step against its payload.
// A payload presented to the wrong step fails outright.
func ValidateStep(step Step, p StepPayload) ValidationResult {
	if p.Step() != step {
		return ValidationResult{
			Valid:  false,
			Errors: map[string]string{"step": "payload does not belong to step " + step.String()},
		}
	}

	errs := p.Validate()
	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return ValidationResult{Valid: true, Errors: map[string]string{}}
}
