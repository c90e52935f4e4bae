package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"attendance-report/internal/service"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func fail(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func badRequest(w http.ResponseWriter, message string, details map[string]string) {
	fail(w, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func notFound(w http.ResponseWriter, message string) {
	fail(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// validationDetails maps each failing field to the rule it broke.
func validationDetails(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	details := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return details
}

// handleError maps service errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var noEmployees *service.NoActiveEmployeesError
	switch {
	case errors.As(err, &noEmployees):
		fail(w, http.StatusUnprocessableEntity, "NO_ACTIVE_EMPLOYEES", noEmployees.Error(), nil)
	case errors.Is(err, service.ErrInvalidPeriod):
		badRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrCompanyNotFound):
		notFound(w, "Company not found")
	case errors.Is(err, service.ErrAttachmentNotFound):
		notFound(w, "Attachment not found")
	default:
		fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}
