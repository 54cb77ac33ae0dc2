package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fwojciec/briefly"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	briefly.ECONFLICT:     http.StatusConflict,
	briefly.EINVALID:      http.StatusBadRequest,
	briefly.ENOTFOUND:     http.StatusNotFound,
	briefly.EUNAUTHORIZED: http.StatusUnauthorized,
	briefly.EMISSINGBODY:  http.StatusUnprocessableEntity,
	briefly.EINSUFFICIENT: http.StatusUnprocessableEntity,
	briefly.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error writes err as JSON with the status for its code. Internal errors
// are logged and their details hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code, message := briefly.ErrorCode(err), briefly.ErrorMessage(err)
	if code == briefly.EINTERNAL {
		logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), &errorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
