package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elderflowhq/console/internal/auth"
)

// requireCap rejects the request when the token's role lacks a capability.
// It reports whether the handler may proceed.
func (s *Server) requireCap(w http.ResponseWriter, r *http.Request, c auth.Capability) bool {
	claims := currentUser(r.Context())
	if claims == nil || !auth.ParseRole(claims.Role).Can(c) {
		writeError(w, http.StatusForbidden, "you do not have permission to perform this action")
		return false
	}
	return true
}

func decodeBody(r *http.Request) (doc, error) {
	var d doc
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Server) audit(r *http.Request, clientID, entityType, entityID, action string) {
	userName := ""
	if claims := currentUser(r.Context()); claims != nil {
		userName = claims.Name
	}
	err := s.store.AppendAudit(r.Context(), auditRow{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserName:   userName,
		CreatedAt:  nowISO(),
	})
	if err != nil {
		s.logger.Warn("audit append failed", "error", err)
	}
}

// ---- auth ----

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.makeToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]string{"id": user.ID, "name": user.Name, "role": user.Role},
	})
}

// ---- clients ----

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load clients")
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// ---- chart sub-resources ----

func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !chartCollections[collection] {
		writeError(w, http.StatusNotFound, "unknown resource "+collection)
		return
	}
	docs, err := s.store.ListChart(r.Context(), chi.URLParam(r, "clientID"), collection)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load "+collection)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleChartCreate(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !chartCollections[collection] {
		writeError(w, http.StatusNotFound, "unknown resource "+collection)
		return
	}
	if !s.requireCap(w, r, auth.CapWriteChart) {
		return
	}
	clientID := chi.URLParam(r, "clientID")

	d, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	d["id"] = uuid.NewString()
	if _, ok := d["createdAt"]; !ok {
		d["createdAt"] = nowISO()
	}
	if collection == "notes" {
		if claims := currentUser(r.Context()); claims != nil {
			d["authorId"] = claims.UserID
			d["authorName"] = claims.Name
		}
	}

	if err := s.store.InsertChart(r.Context(), clientID, collection, d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save "+collection)
		return
	}
	s.audit(r, clientID, collection, d["id"].(string), "created")
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleChartDelete(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !chartCollections[collection] {
		writeError(w, http.StatusNotFound, "unknown resource "+collection)
		return
	}
	if !s.requireCap(w, r, auth.CapWriteChart) {
		return
	}
	clientID := chi.URLParam(r, "clientID")
	id := chi.URLParam(r, "id")

	err := s.store.DeleteChart(r.Context(), clientID, collection, id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete "+collection)
		return
	}
	s.audit(r, clientID, collection, id, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ---- care plan goals ----

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load goals")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapWriteChart) {
		return
	}
	planID := chi.URLParam(r, "planID")
	d, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	d["id"] = uuid.NewString()
	d["planId"] = planID
	if _, ok := d["createdAt"]; !ok {
		d["createdAt"] = nowISO()
	}
	if err := s.store.InsertGoal(r.Context(), planID, d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save goal")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ---- activities ----

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}
	docs, err := s.store.ListChart(r.Context(), clientID, "activities")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapWriteChart) {
		return
	}
	d, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	clientID, _ := d["clientId"].(string)
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}
	d["id"] = uuid.NewString()
	if _, ok := d["createdAt"]; !ok {
		d["createdAt"] = nowISO()
	}
	if err := s.store.InsertChart(r.Context(), clientID, "activities", d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save activity")
		return
	}
	s.audit(r, clientID, "activity", d["id"].(string), "created")
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handlePatchActivity(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapWriteChart) {
		return
	}
	id := chi.URLParam(r, "id")
	existing, err := s.store.GetChart(r.Context(), "activities", id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load activity")
		return
	}

	patch, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	for k, v := range patch {
		if k == "id" || k == "clientId" || k == "createdAt" {
			continue
		}
		existing[k] = v
	}

	if err := s.store.UpdateChart(r.Context(), "activities", id, existing); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}
	clientID, _ := existing["clientId"].(string)
	s.audit(r, clientID, "activity", id, "updated")
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapWriteChart) {
		return
	}
	id := chi.URLParam(r, "id")
	existing, err := s.store.GetChart(r.Context(), "activities", id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	if err := s.store.DeleteChartByID(r.Context(), "activities", id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	clientID, _ := existing["clientId"].(string)
	s.audit(r, clientID, "activity", id, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ---- invoices ----

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}
	docs, err := s.store.ListChart(r.Context(), clientID, "invoices")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load invoices")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// ---- audit ----

func (s *Server) handleClientAudit(w http.ResponseWriter, r *http.Request) {
	s.writeAudit(w, r, chi.URLParam(r, "clientID"))
}

func (s *Server) handleOrgAudit(w http.ResponseWriter, r *http.Request) {
	s.writeAudit(w, r, "")
}

func (s *Server) writeAudit(w http.ResponseWriter, r *http.Request, clientID string) {
	entries, err := s.store.ListAudit(r.Context(), clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load audit log")
		return
	}
	out := make([]doc, 0, len(entries))
	for _, e := range entries {
		d := doc{
			"id":         e.ID,
			"entityType": e.EntityType,
			"action":     e.Action,
			"createdAt":  e.CreatedAt,
		}
		if e.EntityID != "" {
			d["entityId"] = e.EntityID
		}
		if e.Details != "" {
			d["details"] = e.Details
		}
		if e.UserName != "" {
			d["userName"] = e.UserName
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- org settings ----

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusOK, doc{"name": ""})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapEditOrgSettings) {
		return
	}
	d, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if name, _ := d["name"].(string); strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "organization name is required")
		return
	}
	d["updatedAt"] = nowISO()
	if err := s.store.PutSettings(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	s.audit(r, "", "org-settings", "", "updated")
	writeJSON(w, http.StatusOK, d)
}

// ---- service types ----

func (s *Server) handleListServiceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.store.ListServiceTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load service types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleCreateServiceType(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapEditOrgSettings) {
		return
	}
	d, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if name, _ := d["name"].(string); strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	d["id"] = uuid.NewString()
	if err := s.store.InsertServiceType(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save service type")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleBulkSyncServiceTypes(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapEditOrgSettings) {
		return
	}
	var incoming []doc
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := s.store.ClearServiceTypes(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sync service types")
		return
	}
	for _, d := range incoming {
		if id, _ := d["id"].(string); id == "" {
			d["id"] = uuid.NewString()
		}
		if err := s.store.InsertServiceType(r.Context(), d); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to sync service types")
			return
		}
	}
	types, err := s.store.ListServiceTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sync service types")
		return
	}
	s.audit(r, "", "service-types", "", "synced")
	writeJSON(w, http.StatusOK, types)
}

// ---- users ----

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	out := make([]doc, 0, len(users))
	for _, u := range users {
		out = append(out, doc{
			"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role, "createdAt": u.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireCap(w, r, auth.CapManageUsers) {
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if req.Role == "" {
		req.Role = "care_manager"
	}
	if req.Password == "" {
		req.Password = "changeme"
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	u := userRow{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    nowISO(),
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, http.StatusConflict, "email already in use")
		return
	}
	s.audit(r, "", "user", u.ID, "created")
	writeJSON(w, http.StatusCreated, doc{
		"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role, "createdAt": u.CreatedAt,
	})
}

func (s *Server) handleUserMetrics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	clientIDs, err := s.clientsManagedBy(r, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}

	count, minutes, err := s.activityTotals(r, clientIDs, monthStart())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	writeJSON(w, http.StatusOK, doc{
		"userId":              userID,
		"activeClients":       len(clientIDs),
		"activitiesThisMonth": count,
		"hoursThisMonth":      float64(minutes) / 60,
	})
}

// ---- care manager dashboard ----

func (s *Server) handleCMSummary(w http.ResponseWriter, r *http.Request) {
	claims := currentUser(r.Context())
	clientIDs, err := s.clientsManagedBy(r, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	_, minutes, err := s.activityTotals(r, clientIDs, weekStart())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	openInvoices := 0
	flagged := 0
	for id := range clientIDs {
		invoices, err := s.store.ListChart(r.Context(), id, "invoices")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute summary")
			return
		}
		for _, inv := range invoices {
			if status, _ := inv["status"].(string); status == "sent" || status == "overdue" {
				openInvoices++
			}
		}
		risks, err := s.store.ListChart(r.Context(), id, "risks")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to compute summary")
			return
		}
		if len(risks) > 0 {
			flagged++
		}
	}

	writeJSON(w, http.StatusOK, doc{
		"clientCount":    len(clientIDs),
		"hoursThisWeek":  float64(minutes) / 60,
		"openInvoices":   openInvoices,
		"flaggedClients": flagged,
	})
}

func (s *Server) handleListCMNotes(w http.ResponseWriter, r *http.Request) {
	claims := currentUser(r.Context())
	notes, err := s.store.ListCMNotes(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreateCMNote(w http.ResponseWriter, r *http.Request) {
	claims := currentUser(r.Context())
	d, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if content, _ := d["content"].(string); strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	d["id"] = uuid.NewString()
	d["authorName"] = claims.Name
	if _, ok := d["createdAt"]; !ok {
		d["createdAt"] = nowISO()
	}
	if err := s.store.InsertCMNote(r.Context(), claims.UserID, d); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save note")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ---- summary helpers ----

// clientsManagedBy returns the ids of clients assigned to the given care
// manager; admins see every client.
func (s *Server) clientsManagedBy(r *http.Request, userID string) (map[string]bool, error) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		return nil, err
	}
	claims := currentUser(r.Context())
	all := claims != nil && claims.UserID == userID &&
		auth.ParseRole(claims.Role).Can(auth.CapViewAllClients)

	ids := map[string]bool{}
	for _, c := range clients {
		id, _ := c["id"].(string)
		if all {
			ids[id] = true
			continue
		}
		if cm, ok := c["careManager"].(map[string]any); ok {
			if cmID, _ := cm["id"].(string); cmID == userID {
				ids[id] = true
			}
		}
	}
	return ids, nil
}

// activityTotals counts activities and minutes since the given ISO date
// across a set of clients.
func (s *Server) activityTotals(r *http.Request, clientIDs map[string]bool, since string) (int, int, error) {
	count, minutes := 0, 0
	for id := range clientIDs {
		docs, err := s.store.ListChart(r.Context(), id, "activities")
		if err != nil {
			return 0, 0, err
		}
		for _, d := range docs {
			start, _ := d["startTime"].(string)
			if start < since {
				continue
			}
			count++
			if dur, ok := d["durationMinutes"].(float64); ok {
				minutes += int(dur)
			}
		}
	}
	return count, minutes, nil
}

func monthStart() string {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func weekStart() string {
	return time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
}
