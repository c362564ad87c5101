package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kordano/jobly/internal/config"
	"github.com/kordano/jobly/internal/db"
	"github.com/kordano/jobly/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(AuthMiddleware(cfg.JWTSecret))

	// Repository
	repo := sqlite.New(db, logger, cfg.BcryptCost)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	companiesHandler := NewCompaniesHandler(repo, repo)
	jobsHandler := NewJobsHandler(repo)
	usersHandler := NewUsersHandler(repo, cfg.JWTSecret, cfg.TokenDuration)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Companies
	r.HandleFunc("/companies", requireLoggedIn(companiesHandler.List)).Methods("GET")
	r.HandleFunc("/companies", requireAdmin(companiesHandler.Create)).Methods("POST")
	r.HandleFunc("/companies/{handle}", requireLoggedIn(companiesHandler.Get)).Methods("GET")
	r.HandleFunc("/companies/{handle}", requireAdmin(companiesHandler.Update)).Methods("PATCH")
	r.HandleFunc("/companies/{handle}", requireAdmin(companiesHandler.Delete)).Methods("DELETE")

	// Jobs
	r.HandleFunc("/jobs", requireLoggedIn(jobsHandler.List)).Methods("GET")
	r.HandleFunc("/jobs", requireAdmin(jobsHandler.Create)).Methods("POST")
	r.HandleFunc("/jobs/{id}", requireLoggedIn(jobsHandler.Get)).Methods("GET")
	r.HandleFunc("/jobs/{id}", requireAdmin(jobsHandler.Update)).Methods("PATCH")
	r.HandleFunc("/jobs/{id}", requireAdmin(jobsHandler.Delete)).Methods("DELETE")

	// Users: registration and reads are open, mutation is self-or-admin
	r.HandleFunc("/users", usersHandler.List).Methods("GET")
	r.HandleFunc("/users", usersHandler.Create).Methods("POST")
	r.HandleFunc("/users/{username}", usersHandler.Get).Methods("GET")
	r.HandleFunc("/users/{username}", requireSelfOrAdmin("username", usersHandler.Update)).Methods("PATCH")
	r.HandleFunc("/users/{username}", requireSelfOrAdmin("username", usersHandler.Delete)).Methods("DELETE")

	// Unmatched routes get the same JSON error envelope
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, errorBody{Status: http.StatusNotFound, Message: "not found"}, http.StatusNotFound)
	})

	return r
}
