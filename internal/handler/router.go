package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const serviceName = "dojangkok-ai"

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	checklistHandler *ChecklistHandler,
	contractHandler *ContractHandler,
	authMiddleware func(http.Handler) http.Handler,
	requestLogger func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogger)

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	// /sync must be registered before /{id}
	api.HandleFunc("/checklists/sync", checklistHandler.CreateSync).Methods(http.MethodPost)
	api.HandleFunc("/checklists/{id}", checklistHandler.CreateAsync).Methods(http.MethodPost)

	api.HandleFunc("/easycontract/sync", contractHandler.CreateSync).Methods(http.MethodPost)
	api.HandleFunc("/easycontract/{id}", contractHandler.CreateAsync).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{
			requestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
