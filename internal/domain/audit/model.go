package audit

// Entry is one row of the backend-written audit trail. The console only
// reads it; entries are appended server-side as mutations happen.
type Entry struct {
	ID         string  `json:"id"`
	EntityType string  `json:"entityType"`
	EntityID   *string `json:"entityId,omitempty"`
	Action     string  `json:"action"`
	Details    *string `json:"details,omitempty"`
	UserName   *string `json:"userName,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}
