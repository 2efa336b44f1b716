package client

import "strings"

// PrimaryContact picks the contact shown in the at-a-glance header: the
// first contact flagged as an emergency contact, else the first contact in
// load order, else nil.
func PrimaryContact(contacts []Contact) *Contact {
	for i := range contacts {
		if contacts[i].IsEmergencyContact {
			return &contacts[i]
		}
	}
	if len(contacts) > 0 {
		return &contacts[0]
	}
	return nil
}

// PrimaryInsurance picks the policy flagged primary, else the first one.
func PrimaryInsurance(policies []Insurance) *Insurance {
	for i := range policies {
		if policies[i].Primary {
			return &policies[i]
		}
	}
	if len(policies) > 0 {
		return &policies[0]
	}
	return nil
}

// PrimaryInsuranceLabel renders the primary policy as "carrier · type ·
// policy number", omitting blank parts. Empty when no policies are loaded.
func PrimaryInsuranceLabel(policies []Insurance) string {
	ins := PrimaryInsurance(policies)
	if ins == nil {
		return ""
	}
	var parts []string
	for _, field := range []*string{ins.Carrier, ins.InsuranceType, ins.PolicyNumber} {
		if field != nil && strings.TrimSpace(*field) != "" {
			parts = append(parts, strings.TrimSpace(*field))
		}
	}
	return strings.Join(parts, " · ")
}
