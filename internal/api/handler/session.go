package handler

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "sb_session"

// editorSession returns the caller's session ID, minting one and setting
// the cookie when absent. Orphan review slots are keyed by this ID.
func editorSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
