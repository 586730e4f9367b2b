package response

import (
	"encoding/json"
	"net/http"
)

type Status string

const (
	StatusSuccess            Status = "success"
	StatusError              Status = "error"
	StatusNotFound           Status = "not_found"
	StatusConflict           Status = "conflict"
	StatusInternalError      Status = "internal_error"
	StatusServiceUnavailable Status = "service_unavailable"
)

type DataResponse[T any] struct {
	Data T `json:"data"`
}

type ErrorResponse struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func Error(status Status, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Status:  status,
		Message: message,
	}
	if len(detail) > 0 {
		resp.Error = detail[0]
	}
	return resp
}

func WriteJSON(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func WriteSuccess[T any](w http.ResponseWriter, data T) {
	WriteJSON(w, http.StatusOK, &DataResponse[T]{Data: data})
}

func WriteCreated[T any](w http.ResponseWriter, data T) {
	WriteJSON(w, http.StatusCreated, &DataResponse[T]{Data: data})
}

func WriteError(w http.ResponseWriter, statusCode int, status Status, message string, detail ...string) {
	WriteJSON(w, statusCode, Error(status, message, detail...))
}
