package middleware

import (
	"net/http"
	"os"

	"github.com/go-chi/render"
)

// AdminOnly gates the admin-mode routes (delete, export) behind the
// ADMIN_TOKEN environment variable. With the variable unset the gate is
// open: the app then behaves like a single-user install where every visitor
// is the admin.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := os.Getenv("ADMIN_TOKEN")
		if token != "" && r.Header.Get("X-Admin-Token") != token {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, map[string]string{"error": "Admin token is required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
