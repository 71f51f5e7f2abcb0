package utils

import (
	"math/rand"
	"net/http"
	"time"

	"mandi/globals"
)

var rndm = rand.New(rand.NewSource(time.Now().UnixNano()))

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// NewID builds an entity id like "prod4Kx9TqAw" or "orderZm31hPqR".
func NewID(prefix string) string {
	return prefix + GenerateRandomString(8)
}

// GetUserIDFromRequest returns the authenticated user id, or "".
func GetUserIDFromRequest(r *http.Request) string {
	if id, ok := r.Context().Value(globals.UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRoleFromRequest returns the authenticated role claim, or "".
func GetRoleFromRequest(r *http.Request) string {
	if role, ok := r.Context().Value(globals.RoleKey).(string); ok {
		return role
	}
	return ""
}

// GetSessionID returns the caller's session id. Clients generate one and
// send it on every request; it is the server-side stand-in for one browser
// tab's local state.
func GetSessionID(r *http.Request) string {
	return r.Header.Get("X-Session-Id")
}
