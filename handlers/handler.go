package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/logging"
	"github.com/priyen27/taskflow360-backend/middleware"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error kind to a status code and emits the {message}
// envelope. Internal causes are logged here and never reach the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.StatusCode(err)
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, messageResponse{Message: errs.Message(err)})
}

func requestIdentity(r *http.Request) (auth.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, errs.Authentication("not authenticated")
	}
	return identity, nil
}
