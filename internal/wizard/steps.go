package wizard

// Step is one ordinal stage of the shop onboarding wizard.
type Step int

const (
	StepRegister Step = iota
	StepCategory
	StepMedia
	StepDetails
	StepDone
)

// stepRoutes is the single declaration of the path ↔ step mapping. Both the
// HTTP layer and StepFromPath consume it, so the ordering can never drift
// between the two.
var stepRoutes = []struct {
	Path string
	Step Step
}{
	{"/create-shop/register", StepRegister},
	{"/create-shop/category", StepCategory},
	{"/create-shop/image", StepMedia},
	{"/create-shop/info", StepDetails},
}

// StepFromPath maps a wizard path to its ordinal step. The mapping is total:
// any path outside the wizard maps to StepDone.
func StepFromPath(path string) Step {
	for _, r := range stepRoutes {
		if r.Path == path {
			return r.Step
		}
	}
	return StepDone
}

// PathForStep returns the canonical path for a step. StepDone has no page of
// its own and returns "".
func PathForStep(s Step) string {
	for _, r := range stepRoutes {
		if r.Step == s {
			return r.Path
		}
	}
	return ""
}

// Next returns the step that follows s. It saturates at StepDone.
func (s Step) Next() Step {
	if s >= StepDetails {
		return StepDone
	}
	return s + 1
}

func (s Step) String() string {
	switch s {
	case StepRegister:
		return "register"
	case StepCategory:
		return "category"
	case StepMedia:
		return "image"
	case StepDetails:
		return "info"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}
