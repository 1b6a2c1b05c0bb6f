package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

// APIResponse is the uniform envelope every endpoint returns.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func SuccessResponse(w http.ResponseWriter, message string, data any) {
	if message == "" {
		message = "Success"
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

func CreatedResponse(w http.ResponseWriter, message string, data any) {
	if message == "" {
		message = "Resource created"
	}
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

func BadRequestResponse(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Bad request"
	}
	writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Message: message})
}

func UnauthorizedResponse(w http.ResponseWriter, message string) {
	if message == "" {
		message = "UnAuthorized"
	}
	writeJSON(w, http.StatusUnauthorized, APIResponse{Success: false, Message: message})
}

func NotFoundResponse(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	writeJSON(w, http.StatusNotFound, APIResponse{Success: false, Message: message})
}

func ConflictResponse(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource already exist"
	}
	writeJSON(w, http.StatusConflict, APIResponse{Success: false, Message: message})
}

func ServerErrorResponse(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	writeJSON(w, http.StatusInternalServerError, APIResponse{Success: false, Message: message})
}

// ErrorResponse maps a coded error to the envelope. Uncoded errors become a
// generic 500 so internal detail never reaches the client.
func ErrorResponse(w http.ResponseWriter, err error) {
	var appErr *models.Error
	if !errors.As(err, &appErr) {
		ServerErrorResponse(w, "")
		return
	}

	switch appErr.Code {
	case models.ErrCodeInvalid:
		BadRequestResponse(w, appErr.Message)
	case models.ErrCodeUnauthorized, models.ErrCodeInvalidToken:
		UnauthorizedResponse(w, appErr.Message)
	case models.ErrCodeNotFound:
		NotFoundResponse(w, appErr.Message)
	case models.ErrCodeConflict:
		ConflictResponse(w, appErr.Message)
	default:
		ServerErrorResponse(w, appErr.Message)
	}
}
