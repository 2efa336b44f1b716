package client

import "strings"

// Validate checks fields required to create a contact.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks that an insurance record carries at least one identifying
// field; a row of all-blank optionals is rejected.
func (i Insurance) Validate() error {
	for _, field := range []*string{i.Carrier, i.InsuranceType, i.PolicyNumber, i.MemberID} {
		if field != nil && strings.TrimSpace(*field) != "" {
			return nil
		}
	}
	return ErrInvalidInput
}

// Validate checks fields required to create a document reference.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(d.FileURL) == "" {
		return ErrInvalidInput
	}
	return nil
}
