package stubserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleFaceSheet renders a printable one-page summary for a client as
// plain text. The console treats the response as an opaque download.
func (s *Server) handleFaceSheet(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build face sheet")
		return
	}
	var client doc
	for _, c := range clients {
		if id, _ := c["id"].(string); id == clientID {
			client = c
			break
		}
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	var b strings.Builder
	name, _ := client["name"].(string)
	fmt.Fprintf(&b, "FACE SHEET\n%s\n%s\n\n", name, strings.Repeat("=", len(name)+2))

	sections := []struct {
		title      string
		collection string
		line       func(doc) string
	}{
		{"EMERGENCY CONTACTS", "contacts", func(d doc) string {
			n, _ := d["name"].(string)
			rel, _ := d["relationship"].(string)
			phone, _ := d["phone"].(string)
			return joinNonEmpty(n, rel, phone)
		}},
		{"MEDICATIONS", "medications", func(d doc) string {
			n, _ := d["name"].(string)
			dose, _ := d["dosage"].(string)
			freq, _ := d["frequency"].(string)
			return joinNonEmpty(n, dose, freq)
		}},
		{"ALLERGIES", "allergies", func(d doc) string {
			a, _ := d["allergen"].(string)
			sev, _ := d["severity"].(string)
			return joinNonEmpty(a, sev)
		}},
		{"RISKS", "risks", func(d doc) string {
			cat, _ := d["category"].(string)
			sev, _ := d["severity"].(string)
			return joinNonEmpty(cat, sev)
		}},
		{"INSURANCE", "insurance", func(d doc) string {
			carrier, _ := d["carrier"].(string)
			policy, _ := d["policyNumber"].(string)
			return joinNonEmpty(carrier, policy)
		}},
		{"CARE PROVIDERS", "providers", func(d doc) string {
			typ, _ := d["type"].(string)
			n, _ := d["name"].(string)
			phone, _ := d["phone"].(string)
			return joinNonEmpty(typ, n, phone)
		}},
	}

	for _, sec := range sections {
		docs, err := s.store.ListChart(r.Context(), clientID, sec.collection)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build face sheet")
			return
		}
		fmt.Fprintf(&b, "%s\n", sec.title)
		if len(docs) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, d := range docs {
			fmt.Fprintf(&b, "  - %s\n", sec.line(d))
		}
		b.WriteString("\n")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "face-sheet-"+clientID+".txt"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(b.String()))
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " / ")
}
