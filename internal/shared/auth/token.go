package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken pulls the bearer token out of the Authorization
// header, returning an empty string when none is present.
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if strings.HasPrefix(strings.ToLower(header), prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// ExtractToken tries the Authorization header first and falls back to the
// "token" query parameter, which websocket clients have to use.
func ExtractToken(r *http.Request) string {
	if token := ExtractBearerToken(r); token != "" {
		return token
	}
	if r == nil || r.URL == nil {
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
