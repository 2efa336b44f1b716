package stubserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested row doesn't exist
var ErrNotFound = errors.New("not found")

// Store is the stub's persistence layer. Chart sub-resources, clients, and
// goals are stored as JSON documents so the handlers echo exactly what the
// console sent, plus server-assigned fields.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ---- users ----

type userRow struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    string
}

func (s *Store) CreateUser(ctx context.Context, u userRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (userRow, error) {
	var u userRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return userRow{}, ErrNotFound
	}
	if err != nil {
		return userRow{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]userRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role, password_hash, created_at FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []userRow
	for rows.Next() {
		var u userRow
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ---- JSON document helpers ----

type doc = map[string]any

func decodeDoc(body string) (doc, error) {
	var d doc
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return d, nil
}

func encodeDoc(d doc) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(data), nil
}

func (s *Store) queryDocs(ctx context.Context, query string, args ...any) ([]doc, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []doc{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d, err := decodeDoc(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ---- clients ----

func (s *Store) InsertClient(ctx context.Context, d doc) error {
	id, _ := d["id"].(string)
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO clients (id, body, created_at) VALUES (?, ?, ?)`, id, body, nowISO())
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (s *Store) ListClients(ctx context.Context) ([]doc, error) {
	return s.queryDocs(ctx, `SELECT body FROM clients ORDER BY created_at ASC`)
}

// ---- chart sub-resource documents ----

func (s *Store) ListChart(ctx context.Context, clientID, collection string) ([]doc, error) {
	return s.queryDocs(ctx,
		`SELECT body FROM chart_records WHERE client_id = ? AND collection = ? ORDER BY created_at DESC, id DESC`,
		clientID, collection)
}

func (s *Store) InsertChart(ctx context.Context, clientID, collection string, d doc) error {
	id, _ := d["id"].(string)
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	createdAt, _ := d["createdAt"].(string)
	if createdAt == "" {
		createdAt = nowISO()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chart_records (id, client_id, collection, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, clientID, collection, body, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert %s record: %w", collection, err)
	}
	return nil
}

func (s *Store) GetChart(ctx context.Context, collection, id string) (doc, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM chart_records WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s record: %w", collection, err)
	}
	return decodeDoc(body)
}

func (s *Store) UpdateChart(ctx context.Context, collection, id string, d doc) error {
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE chart_records SET body = ? WHERE collection = ? AND id = ?`, body, collection, id)
	if err != nil {
		return fmt.Errorf("failed to update %s record: %w", collection, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteChart(ctx context.Context, clientID, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chart_records WHERE client_id = ? AND collection = ? AND id = ?`,
		clientID, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", collection, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteChartByID(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chart_records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", collection, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- care plan goals ----

func (s *Store) ListGoals(ctx context.Context, planID string) ([]doc, error) {
	return s.queryDocs(ctx,
		`SELECT body FROM care_plan_goals WHERE plan_id = ? ORDER BY created_at ASC`, planID)
}

func (s *Store) InsertGoal(ctx context.Context, planID string, d doc) error {
	id, _ := d["id"].(string)
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO care_plan_goals (id, plan_id, body, created_at) VALUES (?, ?, ?, ?)`,
		id, planID, body, nowISO())
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// ---- audit ----

type auditRow struct {
	ID         string
	ClientID   string
	EntityType string
	EntityID   string
	Action     string
	Details    string
	UserName   string
	CreatedAt  string
}

func (s *Store) AppendAudit(ctx context.Context, entry auditRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, client_id, entity_type, entity_id, action, details, user_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ClientID, entry.EntityType, entry.EntityID, entry.Action,
		entry.Details, entry.UserName, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListAudit(ctx context.Context, clientID string) ([]auditRow, error) {
	query := `SELECT id, COALESCE(client_id, ''), entity_type, COALESCE(entity_id, ''), action,
	                 COALESCE(details, ''), COALESCE(user_name, ''), created_at
	          FROM audit_logs`
	args := []any{}
	if clientID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []auditRow
	for rows.Next() {
		var e auditRow
		if err := rows.Scan(&e.ID, &e.ClientID, &e.EntityType, &e.EntityID, &e.Action,
			&e.Details, &e.UserName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ---- org settings ----

func (s *Store) GetSettings(ctx context.Context) (doc, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM org_settings WHERE id = 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return decodeDoc(body)
}

func (s *Store) PutSettings(ctx context.Context, d doc) error {
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO org_settings (id, body, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		body, nowISO())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ---- service types ----

func (s *Store) ListServiceTypes(ctx context.Context) ([]doc, error) {
	return s.queryDocs(ctx, `SELECT body FROM service_types ORDER BY created_at ASC`)
}

func (s *Store) InsertServiceType(ctx context.Context, d doc) error {
	id, _ := d["id"].(string)
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO service_types (id, body, created_at) VALUES (?, ?, ?)`, id, body, nowISO())
	if err != nil {
		return fmt.Errorf("failed to insert service type: %w", err)
	}
	return nil
}

func (s *Store) ClearServiceTypes(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM service_types`); err != nil {
		return fmt.Errorf("failed to clear service types: %w", err)
	}
	return nil
}

// ---- cm notes ----

func (s *Store) ListCMNotes(ctx context.Context, authorID string) ([]doc, error) {
	return s.queryDocs(ctx,
		`SELECT body FROM cm_notes WHERE author_id = ? ORDER BY created_at DESC`, authorID)
}

func (s *Store) InsertCMNote(ctx context.Context, authorID string, d doc) error {
	id, _ := d["id"].(string)
	body, err := encodeDoc(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cm_notes (id, author_id, body, created_at) VALUES (?, ?, ?, ?)`,
		id, authorID, body, nowISO())
	if err != nil {
		return fmt.Errorf("failed to insert cm note: %w", err)
	}
	return nil
}
