package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Monitor statuses. A freshly created monitor is "unknown" until its
// first probe completes.
const (
	StatusUnknown = "unknown"
	StatusUp      = "up"
	StatusDown    = "down"
)

// Incident statuses.
const (
	IncidentOngoing  = "ongoing"
	IncidentResolved = "resolved"
)

// Plans and their limits.
const (
	PlanFree         = "free"
	FreeMonitorLimit = 3
)

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AllowedOrigins reads the environment on every call so origins set in a
// .env file loaded after package init are still honored.
func AllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
