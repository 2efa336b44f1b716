package billing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elderflowhq/console/internal/domain/billing"
)

func TestOpenCount(t *testing.T) {
	tests := []struct {
		name     string
		statuses []billing.InvoiceStatus
		expected int
	}{
		{"empty", nil, 0},
		{"only open", []billing.InvoiceStatus{billing.StatusSent, billing.StatusOverdue}, 2},
		{"mixed", []billing.InvoiceStatus{billing.StatusDraft, billing.StatusSent, billing.StatusPaid, billing.StatusOverdue}, 2},
		{"unknown status excluded", []billing.InvoiceStatus{"pending_review", billing.StatusSent}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invoices []billing.Invoice
			for _, s := range tt.statuses {
				invoices = append(invoices, billing.Invoice{Status: s})
			}
			require.Equal(t, tt.expected, billing.OpenCount(invoices))
		})
	}
}
