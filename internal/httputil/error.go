package httputil

import (
	"log/slog"
	"net/http"
	"net/url"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

// RedirectWithAuthError sends the browser back to the sign-in page
// with the rejection code in the query string. The underlying error
// stays in the logs.
func RedirectWithAuthError(w http.ResponseWriter, r *http.Request, code string, err error) {
	slog.Warn("authentication failed", "code", code, "error", err)
	http.Redirect(w, r, "/user-auth?error="+url.QueryEscape(code), http.StatusFound)
}
