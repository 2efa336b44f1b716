package stubserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Seed populates an empty database with a demo organization: two users
// (admin@example.com / cm@example.com, password "password"), one client
// with a fully populated chart, and a handful of activities and invoices.
// It is a no-op when users already exist.
func (s *Server) Seed(ctx context.Context) error {
	if users, err := s.store.ListUsers(ctx); err != nil {
		return err
	} else if len(users) > 0 {
		return nil
	}

	hash, err := hashPassword("password")
	if err != nil {
		return err
	}

	admin := userRow{
		ID: uuid.NewString(), Name: "Dana Whitfield", Email: "admin@example.com",
		Role: "admin", PasswordHash: hash, CreatedAt: nowISO(),
	}
	cm := userRow{
		ID: uuid.NewString(), Name: "Ruth Okafor", Email: "cm@example.com",
		Role: "care_manager", PasswordHash: hash, CreatedAt: nowISO(),
	}
	for _, u := range []userRow{admin, cm} {
		if err := s.store.CreateUser(ctx, u); err != nil {
			return err
		}
	}

	if err := s.store.PutSettings(ctx, doc{"name": "Evergreen Senior Care"}); err != nil {
		return err
	}

	serviceTypes := []doc{
		{"id": uuid.NewString(), "name": "Home Visit", "hourlyRate": 85.0},
		{"id": uuid.NewString(), "name": "Care Coordination", "hourlyRate": 70.0},
		{"id": uuid.NewString(), "name": "Medication Review", "hourlyRate": 95.0},
	}
	for _, st := range serviceTypes {
		if err := s.store.InsertServiceType(ctx, st); err != nil {
			return err
		}
	}

	clientID := uuid.NewString()
	client := doc{
		"id":     clientID,
		"name":   "Eleanor Vance",
		"status": "active",
		"careManager": doc{
			"id":   cm.ID,
			"name": cm.Name,
		},
		"billingContactName":  "Thomas Vance",
		"billingContactEmail": "thomas.vance@example.com",
	}
	if err := s.store.InsertClient(ctx, client); err != nil {
		return err
	}

	chart := map[string][]doc{
		"contacts": {
			{"name": "Marcus Vance", "relationship": "Son", "phone": "555-0142",
				"email": "marcus.vance@example.com", "isEmergencyContact": true},
			{"name": "Thomas Vance", "relationship": "Brother", "phone": "555-0178",
				"isEmergencyContact": false},
		},
		"providers": {
			{"type": "Primary Care", "name": "Dr. Amy Chen", "phone": "555-0200"},
			{"type": "Cardiology", "name": "Dr. Luis Romero", "phone": "555-0211"},
		},
		"medications": {
			{"name": "Lisinopril", "dosage": "10mg", "frequency": "daily"},
			{"name": "Metformin", "dosage": "500mg", "frequency": "twice daily"},
		},
		"allergies": {
			{"allergen": "Penicillin", "severity": "severe", "reaction": "hives"},
			{"allergen": "Shellfish", "severity": "moderate"},
		},
		"insurance": {
			{"carrier": "Medicare", "insuranceType": "Part B", "policyNumber": "MB-4417",
				"primary": true},
			{"carrier": "Aetna", "insuranceType": "Supplemental", "policyNumber": "AE-9920",
				"primary": false},
		},
		"risks": {
			{"category": "Falls", "severity": "high", "notes": "Two falls in the last quarter"},
		},
		"documents": {
			{"title": "Power of Attorney", "fileUrl": "https://files.example.com/poa.pdf"},
		},
		"care-plans": {
			{"title": "Fall Prevention Plan", "status": "active",
				"summary": "Reduce fall risk through home safety and PT"},
		},
		"progress-notes": {
			{"date": "2026-08-20", "content": "Client steady on walker, mood good."},
		},
		"notes": {
			{"content": "Family requested a care conference next month.",
				"authorId": cm.ID, "authorName": cm.Name},
		},
		"activities": {
			{"clientId": clientID, "description": "Monthly home visit",
				"startTime": "2026-08-25T10:00:00Z", "durationMinutes": 90.0,
				"isBillable": true, "isFlagged": false,
				"serviceType": doc{"id": serviceTypes[0]["id"], "name": "Home Visit"}},
			{"clientId": clientID, "description": "Coordinated cardiology follow-up",
				"startTime": "2026-08-28T14:30:00Z", "durationMinutes": 30.0,
				"isBillable": true, "isFlagged": true,
				"serviceType": doc{"id": serviceTypes[1]["id"], "name": "Care Coordination"}},
		},
		"invoices": {
			{"invoiceNumber": "INV-1007", "status": "sent", "totalAmount": 255.0,
				"periodEnd": "2026-07-31"},
			{"invoiceNumber": "INV-1001", "status": "paid", "totalAmount": 170.0,
				"periodEnd": "2026-06-30"},
		},
	}

	for collection, docs := range chart {
		for _, d := range docs {
			d["id"] = uuid.NewString()
			if _, ok := d["createdAt"]; !ok {
				d["createdAt"] = nowISO()
			}
			if err := s.store.InsertChart(ctx, clientID, collection, d); err != nil {
				return fmt.Errorf("seed %s: %w", collection, err)
			}
		}
	}

	// Give the active care plan a starter goal.
	plans, err := s.store.ListChart(ctx, clientID, "care-plans")
	if err != nil {
		return err
	}
	if len(plans) > 0 {
		planID, _ := plans[0]["id"].(string)
		goal := doc{
			"id": uuid.NewString(), "planId": planID,
			"title": "Install grab bars in bathroom", "status": "in_progress",
			"createdAt": nowISO(),
		}
		if err := s.store.InsertGoal(ctx, planID, goal); err != nil {
			return err
		}
	}

	s.logger.Info("seeded demo data", "client", "Eleanor Vance")
	return nil
}
