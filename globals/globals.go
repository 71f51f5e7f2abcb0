package globals

import "os"

var JwtSecret = jwtSecretFromEnv()

func jwtSecretFromEnv() []byte {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("mandi-dev-secret")
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"
