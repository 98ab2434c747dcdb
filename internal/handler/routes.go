package handler

import (
	"net/http"

	"github.com/Dan9191/mortgage-service/internal/config"
	"github.com/Dan9191/mortgage-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the public and authenticated routes
func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", metricsHandler).Methods("GET")
	r.HandleFunc("/schedule", h.Schedule).Methods("POST")
	r.HandleFunc("/key-rate", h.KeyRate).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/calculations").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("", h.CreateCalculation).Methods("POST")
	authRouter.HandleFunc("", h.ListCalculations).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.GetCalculation).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}/email", h.EmailCalculation).Methods("POST")

	return r
}
