package store

import (
	"errors"
	"time"

	"github.com/statuspng/statuspng/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// branch on it with errors.Is.
var ErrNotFound = errors.New("record not found")

// Store is the persistence surface consumed by the checker and the HTTP
// handlers. Production uses the gorm-backed DB implementation; tests use
// Memory.
type Store interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserBySlug(slug string) (*models.User, error)

	CreateMonitor(monitor *models.Monitor) error
	GetMonitor(id uint) (*models.Monitor, error)
	ListMonitors() ([]models.Monitor, error)
	ListMonitorsForUser(userID uint) ([]models.Monitor, error)
	DeleteMonitor(id uint) error

	// UpdateMonitorStatus records the outcome of a check. LastChecked is
	// always bumped to checkedAt; when transitioned is true the status
	// and LastStatusChange are updated as well.
	UpdateMonitorStatus(id uint, status string, transitioned bool, checkedAt time.Time) error

	InsertCheck(check *models.Check) error
	ListChecks(monitorID uint, limit int) ([]models.Check, error)

	InsertIncident(incident *models.Incident) error
	FindOngoingIncident(monitorID uint) (*models.Incident, error)
	ResolveOngoingIncidents(monitorID uint, resolvedAt time.Time) error
	ListIncidents(monitorID uint) ([]models.Incident, error)
}
