package billing

// InvoiceStatus is the lifecycle status reported by the billing backend.
// Unknown statuses pass through untouched; only sent and overdue count as
// open.
type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusSent    InvoiceStatus = "sent"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

// Invoice is read-only from the chart view; it is generated and edited on
// the billing pages.
type Invoice struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"clientId,omitempty"`
	TotalAmount float64       `json:"totalAmount"`
	Status      InvoiceStatus `json:"status"`
	PeriodEnd   string        `json:"periodEnd,omitempty"`
	CreatedAt   string        `json:"createdAt,omitempty"`
}

// OpenCount counts invoices awaiting payment (sent or overdue). Draft, paid,
// and unknown statuses are excluded.
func OpenCount(invoices []Invoice) int {
	n := 0
	for _, inv := range invoices {
		if inv.Status == StatusSent || inv.Status == StatusOverdue {
			n++
		}
	}
	return n
}
