package client

// Timestamps throughout the domain are kept as the ISO-8601 strings the
// backend delivers; the console never reinterprets them in local time.

// CareManagerRef is a lightweight reference to the staff member assigned as
// primary care manager.
type CareManagerRef struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Client is the aggregate root every chart sub-resource hangs off of. The
// console reads it; creation and edits happen on a separate page.
type Client struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Status              string          `json:"status"` // active, inactive, or other
	BillingContactName  string          `json:"billingContactName,omitempty"`
	BillingContactEmail string          `json:"billingContactEmail,omitempty"`
	CareManager         *CareManagerRef `json:"careManager,omitempty"`
}

// Contact is a personal contact on a client's chart.
type Contact struct {
	ID                 string  `json:"id,omitempty"`
	Name               string  `json:"name"`
	Relationship       *string `json:"relationship,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Email              *string `json:"email,omitempty"`
	Address            *string `json:"address,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	IsEmergencyContact bool    `json:"isEmergencyContact"`
	CreatedAt          string  `json:"createdAt,omitempty"`
}

// Insurance is one insurance policy on file for a client.
type Insurance struct {
	ID            string  `json:"id,omitempty"`
	InsuranceType *string `json:"insuranceType,omitempty"`
	Carrier       *string `json:"carrier,omitempty"`
	PolicyNumber  *string `json:"policyNumber,omitempty"`
	GroupNumber   *string `json:"groupNumber,omitempty"`
	MemberID      *string `json:"memberId,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Primary       bool    `json:"primary"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}

// Document is an uploaded file reference on a client's chart.
type Document struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title"`
	FileURL    string  `json:"fileUrl"`
	FileType   *string `json:"fileType,omitempty"`
	Category   *string `json:"category,omitempty"`
	UploadedAt string  `json:"uploadedAt,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}
