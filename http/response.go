package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sagarc03/foldery"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	writeError(w, code, ErrorResponse{Error: errCode, Message: message})
}

func writeError(w http.ResponseWriter, code int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the response for err based on its foldery.Kind.
// Unclassified failures become a 500 carrying the error chain as details.
func HandleError(w http.ResponseWriter, err error) {
	kind := foldery.KindOf(err)
	status := kind.StatusCode()

	if status >= http.StatusInternalServerError {
		slog.Error("request error", "error", err)
	} else {
		slog.Debug("request rejected", "error", err)
	}

	if kind == foldery.KindUnclassified {
		writeError(w, status, ErrorResponse{
			Error:   kind.Code(),
			Message: "Internal server error",
			Details: foldery.Trace(err),
		})
		return
	}

	writeError(w, status, ErrorResponse{
		Error:   kind.Code(),
		Message: foldery.MessageOf(err),
	})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
