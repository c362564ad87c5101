package api

import (
	"encoding/json"
	"io"
	"net/http"

	"log/slog"

	"github.com/kordano/jobly/pkg/apperr"
)

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// readBody buffers a request body so it can be schema-validated and decoded.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Validation("unreadable request body")
	}
	return body, nil
}

// writeError is the single terminal error handler: domain errors keep their
// status and message, everything else is logged and masked as a 500.
func writeError(w http.ResponseWriter, err error) {
	if ae, ok := apperr.From(err); ok {
		writeJSON(w, errorBody{Status: ae.Status, Message: ae.Message}, ae.Status)
		return
	}

	logger.Error("internal error", slog.Any("err", err))
	writeJSON(w, errorBody{Status: http.StatusInternalServerError, Message: "internal server error"}, http.StatusInternalServerError)
}
