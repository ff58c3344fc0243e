// Package handlers implements the HTTP endpoints. Each handler attaches its
// routes through Register and receives the bearer-auth middleware for the
// routes that need a signed-in user.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hongminglow/medplat-be/internal/middleware"
	"github.com/hongminglow/medplat-be/internal/models"
)

// Protect wraps a handler so it only runs for authenticated callers.
type Protect func(http.Handler) http.Handler

const maxJSONBody = 1 << 20

var errEmptyBody = errors.New("request body is empty")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// currentUser is only valid behind Protect.
func currentUser(r *http.Request) models.User {
	user, _ := middleware.UserFrom(r.Context())
	return user
}
