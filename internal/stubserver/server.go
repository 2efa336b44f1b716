package stubserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// chartCollections are the uniform client-scoped sub-resources served under
// /api/clients/{clientID}/{collection}.
var chartCollections = map[string]bool{
	"notes":          true,
	"contacts":       true,
	"providers":      true,
	"medications":    true,
	"allergies":      true,
	"insurance":      true,
	"risks":          true,
	"documents":      true,
	"care-plans":     true,
	"progress-notes": true,
}

// Server is a local ElderFlow backend for development and integration
// testing. It implements the console's full endpoint family over SQLite.
type Server struct {
	store  *Store
	secret string
	logger *slog.Logger
}

// NewServer creates a stub server over an initialized database.
func NewServer(db *DB, secret string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: NewStore(db), secret: secret, logger: logger}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/clients", s.handleListClients)

		// static segment wins over {clientID}, so goals route first
		r.Get("/api/clients/care-plans/{planID}/goals", s.handleListGoals)
		r.Post("/api/clients/care-plans/{planID}/goals", s.handleCreateGoal)

		r.Get("/api/clients/{clientID}/audit-logs", s.handleClientAudit)
		r.Get("/api/clients/{clientID}/face-sheet", s.handleFaceSheet)
		r.Get("/api/clients/{clientID}/{collection}", s.handleChartList)
		r.Post("/api/clients/{clientID}/{collection}", s.handleChartCreate)
		r.Delete("/api/clients/{clientID}/{collection}/{id}", s.handleChartDelete)

		r.Get("/api/activities", s.handleListActivities)
		r.Post("/api/activities", s.handleCreateActivity)
		r.Patch("/api/activities/{id}", s.handlePatchActivity)
		r.Delete("/api/activities/{id}", s.handleDeleteActivity)

		r.Get("/api/invoices", s.handleListInvoices)

		r.Get("/api/org/audit-logs", s.handleOrgAudit)
		r.Get("/api/org/settings", s.handleGetSettings)
		r.Put("/api/org/settings", s.handlePutSettings)

		r.Get("/api/service-types", s.handleListServiceTypes)
		r.Post("/api/service-types", s.handleCreateServiceType)
		r.Post("/api/service-types/bulk-sync", s.handleBulkSyncServiceTypes)

		r.Get("/api/users", s.handleListUsers)
		r.Post("/api/users", s.handleCreateUser)
		r.Get("/api/users/{id}/metrics", s.handleUserMetrics)

		r.Get("/api/cm/summary", s.handleCMSummary)
		r.Get("/api/cm/notes", s.handleListCMNotes)
		r.Post("/api/cm/notes", s.handleCreateCMNote)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
