package care

import "strings"

// Validate checks fields required to add a provider.
func (p Provider) Validate() error {
	if strings.TrimSpace(p.Type) == "" || strings.TrimSpace(p.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to add a medication.
func (m Medication) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to add an allergy.
func (a Allergy) Validate() error {
	if strings.TrimSpace(a.Allergen) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to add a risk flag.
func (r Risk) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to create a care plan.
func (p CarePlan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to add a goal to a plan.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks fields required to write a progress note.
func (n ProgressNote) Validate() error {
	if strings.TrimSpace(n.Date) == "" || strings.TrimSpace(n.Content) == "" {
		return ErrInvalidInput
	}
	return nil
}
