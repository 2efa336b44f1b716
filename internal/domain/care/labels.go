package care

import (
	"fmt"
	"strings"
)

// TopAllergyLabel picks the allergy shown in the safety snapshot: the first
// one whose severity is "severe" (case-insensitive), else the first in load
// order. The label is the allergen, suffixed with the severity when present.
// Empty when no allergies are loaded.
func TopAllergyLabel(allergies []Allergy) string {
	top := pickBySeverity(len(allergies), "severe", func(i int) *string { return allergies[i].Severity })
	if top < 0 {
		return ""
	}
	return severityLabel(allergies[top].Allergen, allergies[top].Severity)
}

// TopRiskLabel is the same selection over risk flags, prioritizing severity
// "high" and labeling by category.
func TopRiskLabel(risks []Risk) string {
	top := pickBySeverity(len(risks), "high", func(i int) *string { return risks[i].Severity })
	if top < 0 {
		return ""
	}
	return severityLabel(risks[top].Category, risks[top].Severity)
}

func pickBySeverity(n int, priority string, severity func(int) *string) int {
	for i := 0; i < n; i++ {
		if s := severity(i); s != nil && strings.EqualFold(strings.TrimSpace(*s), priority) {
			return i
		}
	}
	if n > 0 {
		return 0
	}
	return -1
}

func severityLabel(name string, severity *string) string {
	if severity != nil && strings.TrimSpace(*severity) != "" {
		return fmt.Sprintf("%s (%s)", name, strings.TrimSpace(*severity))
	}
	return name
}
