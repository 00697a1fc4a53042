package response

import (
	"encoding/json"
	"log"
	"net/http"

	"rakshak-women-safety/pkg/apperror"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] Failed to encode response: %v", err)
	}
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, errDetail string) {
	JSON(w, statusCode, APIResponse{
		Status:  "error",
		Message: message,
		Error:   errDetail,
	})
}

// FromError writes err using the status code of its apperror kind.
// Internal causes are logged and never echoed to the client.
func FromError(w http.ResponseWriter, err error) {
	status := apperror.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] Internal error: %v", err)
		Error(w, status, "Server error", "")
		return
	}
	Error(w, status, apperror.Message(err), string(apperror.KindOf(err)))
}
