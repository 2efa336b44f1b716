package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/elderflowhq/console/internal/auth"
	"github.com/elderflowhq/console/internal/domain/activity"
	"github.com/elderflowhq/console/internal/domain/audit"
	"github.com/elderflowhq/console/internal/domain/billing"
	"github.com/elderflowhq/console/internal/domain/care"
	"github.com/elderflowhq/console/internal/domain/client"
	"github.com/elderflowhq/console/internal/domain/org"
)

// loginResponse is the payload returned by POST /api/auth/login.
type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user"`
}

// Login exchanges email and password for credentials. It is the only call
// that does not require an existing session.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.doWithToken(ctx, http.MethodPost, "/api/auth/login", nil, "", body, &resp); err != nil {
		return auth.Credentials{}, err
	}
	return auth.Credentials{
		Token: resp.Token,
		User: auth.User{
			ID:   resp.User.ID,
			Name: resp.User.Name,
			Role: auth.ParseRole(resp.User.Role),
		},
	}, nil
}

// ListClients returns every client visible to the current user.
func (c *Client) ListClients(ctx context.Context) ([]client.Client, error) {
	var clients []client.Client
	if err := c.do(ctx, http.MethodGet, "/api/clients", nil, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClient resolves one client record. The backend exposes no per-id
// endpoint; detail views filter the list client-side.
func (c *Client) GetClient(ctx context.Context, id string) (*client.Client, error) {
	clients, err := c.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Message: "client not found"}
}

// ListActivities returns the logged activities for one client.
func (c *Client) ListActivities(ctx context.Context, clientID string) ([]activity.Activity, error) {
	var activities []activity.Activity
	query := url.Values{"clientId": {clientID}}
	if err := c.do(ctx, http.MethodGet, "/api/activities", query, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// CreateActivity logs a new activity.
func (c *Client) CreateActivity(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	var created activity.Activity
	if err := c.do(ctx, http.MethodPost, "/api/activities", nil, a, &created); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateActivity patches an activity and returns the fields the server
// echoed back, for overlay onto local state.
func (c *Client) UpdateActivity(ctx context.Context, id string, patch activity.Patch) (activity.Patch, error) {
	var resp activity.Patch
	path := fmt.Sprintf("/api/activities/%s", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &resp); err != nil {
		return activity.Patch{}, err
	}
	return resp, nil
}

// DeleteActivity removes an activity by id.
func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/activities/%s", id), nil, nil, nil)
}

// ListInvoices returns invoices for one client.
func (c *Client) ListInvoices(ctx context.Context, clientID string) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := url.Values{"clientId": {clientID}}
	if err := c.do(ctx, http.MethodGet, "/api/invoices", query, nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListGoals returns the goals of one care plan. Goals are fetched only when
// a plan is opened for detail.
func (c *Client) ListGoals(ctx context.Context, planID string) ([]care.Goal, error) {
	var goals []care.Goal
	path := fmt.Sprintf("/api/clients/care-plans/%s/goals", planID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal adds a goal to a care plan.
func (c *Client) CreateGoal(ctx context.Context, planID string, g care.Goal) (care.Goal, error) {
	var created care.Goal
	path := fmt.Sprintf("/api/clients/care-plans/%s/goals", planID)
	if err := c.do(ctx, http.MethodPost, path, nil, g, &created); err != nil {
		return created, err
	}
	return created, nil
}

// ClientAuditLog returns the audit trail for one client.
func (c *Client) ClientAuditLog(ctx context.Context, clientID string) ([]audit.Entry, error) {
	var entries []audit.Entry
	path := fmt.Sprintf("/api/clients/%s/audit-logs", clientID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// OrgAuditLog returns the organization-wide audit trail.
func (c *Client) OrgAuditLog(ctx context.Context) ([]audit.Entry, error) {
	var entries []audit.Entry
	if err := c.do(ctx, http.MethodGet, "/api/org/audit-logs", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FaceSheet downloads the backend-generated emergency summary PDF.
func (c *Client) FaceSheet(ctx context.Context, clientID string) ([]byte, error) {
	return c.download(ctx, fmt.Sprintf("/api/clients/%s/face-sheet", clientID))
}

// OrgSettings fetches the organization settings.
func (c *Client) OrgSettings(ctx context.Context) (org.Settings, error) {
	var settings org.Settings
	if err := c.do(ctx, http.MethodGet, "/api/org/settings", nil, nil, &settings); err != nil {
		return org.Settings{}, err
	}
	return settings, nil
}

// SaveOrgSettings replaces the organization settings.
func (c *Client) SaveOrgSettings(ctx context.Context, settings org.Settings) (org.Settings, error) {
	var saved org.Settings
	if err := c.do(ctx, http.MethodPut, "/api/org/settings", nil, settings, &saved); err != nil {
		return org.Settings{}, err
	}
	return saved, nil
}

// ServiceTypes returns the org's billing service types.
func (c *Client) ServiceTypes(ctx context.Context) ([]activity.ServiceType, error) {
	var types []activity.ServiceType
	if err := c.do(ctx, http.MethodGet, "/api/service-types", nil, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// CreateServiceType adds one service type.
func (c *Client) CreateServiceType(ctx context.Context, st activity.ServiceType) (activity.ServiceType, error) {
	var created activity.ServiceType
	if err := c.do(ctx, http.MethodPost, "/api/service-types", nil, st, &created); err != nil {
		return created, err
	}
	return created, nil
}

// BulkSyncServiceTypes replaces the service-type catalog in one call.
func (c *Client) BulkSyncServiceTypes(ctx context.Context, types []activity.ServiceType) ([]activity.ServiceType, error) {
	var synced []activity.ServiceType
	if err := c.do(ctx, http.MethodPost, "/api/service-types/bulk-sync", nil, types, &synced); err != nil {
		return nil, err
	}
	return synced, nil
}

// Users lists staff accounts.
func (c *Client) Users(ctx context.Context) ([]org.Account, error) {
	var accounts []org.Account
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateUser invites a staff account.
func (c *Client) CreateUser(ctx context.Context, account org.Account) (org.Account, error) {
	var created org.Account
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, account, &created); err != nil {
		return created, err
	}
	return created, nil
}

// UserMetrics returns the workload summary for one staff account.
func (c *Client) UserMetrics(ctx context.Context, userID string) (org.AccountMetrics, error) {
	var metrics org.AccountMetrics
	path := fmt.Sprintf("/api/users/%s/metrics", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &metrics); err != nil {
		return org.AccountMetrics{}, err
	}
	return metrics, nil
}

// CMSummary returns the care-manager dashboard snapshot for the current user.
func (c *Client) CMSummary(ctx context.Context) (org.CMSummary, error) {
	var summary org.CMSummary
	if err := c.do(ctx, http.MethodGet, "/api/cm/summary", nil, nil, &summary); err != nil {
		return org.CMSummary{}, err
	}
	return summary, nil
}

// CMNotes returns the current user's working notes.
func (c *Client) CMNotes(ctx context.Context) ([]org.CMNote, error) {
	var notes []org.CMNote
	if err := c.do(ctx, http.MethodGet, "/api/cm/notes", nil, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateCMNote adds a working note.
func (c *Client) CreateCMNote(ctx context.Context, n org.CMNote) (org.CMNote, error) {
	var created org.CMNote
	if err := c.do(ctx, http.MethodPost, "/api/cm/notes", nil, n, &created); err != nil {
		return created, err
	}
	return created, nil
}
