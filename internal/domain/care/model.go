package care

// Provider is an external medical or service provider attached to a client.
type Provider struct {
	ID        string  `json:"id,omitempty"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Specialty *string `json:"specialty,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// Medication is one entry on a client's medication list.
type Medication struct {
	ID                  string  `json:"id,omitempty"`
	Name                string  `json:"name"`
	Dosage              *string `json:"dosage,omitempty"`
	Frequency           *string `json:"frequency,omitempty"`
	Route               *string `json:"route,omitempty"`
	PrescribingProvider *string `json:"prescribingProvider,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	CreatedAt           string  `json:"createdAt,omitempty"`
}

// Allergy is one entry on a client's allergy list.
type Allergy struct {
	ID        string  `json:"id,omitempty"`
	Allergen  string  `json:"allergen"`
	Reaction  *string `json:"reaction,omitempty"`
	Severity  *string `json:"severity,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// Risk is a safety or wellbeing flag on a client's chart.
type Risk struct {
	ID        string  `json:"id,omitempty"`
	Category  string  `json:"category"`
	Severity  *string `json:"severity,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// PlanStatus is the lifecycle status of a care plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// CarePlan is a structured plan of care. Its goals are fetched lazily, only
// when a plan is opened for detail.
type CarePlan struct {
	ID         string     `json:"id,omitempty"`
	Title      string     `json:"title"`
	Status     PlanStatus `json:"status,omitempty"`
	StartDate  *string    `json:"startDate,omitempty"`
	TargetDate *string    `json:"targetDate,omitempty"`
	Summary    *string    `json:"summary,omitempty"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	UpdatedAt  string     `json:"updatedAt,omitempty"`
}

// Goal is a child record of a care plan.
type Goal struct {
	ID          string  `json:"id,omitempty"`
	PlanID      string  `json:"planId,omitempty"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	TargetDate  *string `json:"targetDate,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// ProgressNote is a dated clinical progress entry, optionally linked to a
// care plan.
type ProgressNote struct {
	ID         string  `json:"id,omitempty"`
	Date       string  `json:"date"`
	NoteType   *string `json:"noteType,omitempty"`
	Content    string  `json:"content"`
	AuthorID   *string `json:"authorId,omitempty"`
	AuthorName *string `json:"authorName,omitempty"`
	CarePlanID *string `json:"carePlanId,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}
