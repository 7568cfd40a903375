package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "fellgate/pkg/domain-errors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps coded domain errors onto HTTP statuses with a consistent
// JSON envelope. Uncoded errors read as internal and hide their message.
func writeError(w http.ResponseWriter, err error) {
	status := dErrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{
		"error":   string(dErrors.CodeOf(err)),
		"message": message,
	})
}

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
