package handler

import (
	"net/http"

	"notes-api/internal/config"
	"notes-api/internal/middleware"
	"notes-api/pkg/logger"
	"notes-api/pkg/metrics"

	"github.com/gorilla/mux"
)

type RouterDeps struct {
	Notes          *NoteHandler
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	CORS           config.CORSConfig
}

func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.CORSMiddleware(
		deps.CORS.AllowedOrigins,
		deps.CORS.AllowedMethods,
		deps.CORS.AllowedHeaders,
	))

	notes := deps.Notes
	r.HandleFunc("/createNote", notes.Create).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/getAllNote", notes.List).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/getNoteById/{id}", notes.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/updateNoteById/{id}", notes.Update).Methods(http.MethodPatch, http.MethodOptions)
	r.HandleFunc("/deleteNoteById", notes.Delete).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods(http.MethodGet)
	}
	r.HandleFunc("/", Welcome).Methods(http.MethodGet)

	return r
}
