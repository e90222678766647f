package handler

import (
	"net/http"

	"notes-api/pkg/response"
)

func Welcome(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"message": "Welcome"})
}

func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "notes-api",
	})
}
