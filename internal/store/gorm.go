package store

import (
	"errors"
	"time"

	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/types"
	"gorm.io/gorm"
)

// DB is the gorm-backed Store used in production.
type DB struct {
	gdb *gorm.DB
}

func NewDB(gdb *gorm.DB) *DB {
	return &DB{gdb: gdb}
}

func (s *DB) CreateUser(user *models.User) error {
	return s.gdb.Create(user).Error
}

func (s *DB) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.gdb.First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *DB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.gdb.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *DB) GetUserBySlug(slug string) (*models.User, error) {
	var user models.User
	if err := s.gdb.Where("org_slug = ?", slug).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *DB) CreateMonitor(monitor *models.Monitor) error {
	return s.gdb.Create(monitor).Error
}

func (s *DB) GetMonitor(id uint) (*models.Monitor, error) {
	var monitor models.Monitor
	if err := s.gdb.First(&monitor, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &monitor, nil
}

func (s *DB) ListMonitors() ([]models.Monitor, error) {
	var monitors []models.Monitor
	if err := s.gdb.Find(&monitors).Error; err != nil {
		return nil, err
	}
	return monitors, nil
}

func (s *DB) ListMonitorsForUser(userID uint) ([]models.Monitor, error) {
	var monitors []models.Monitor
	if err := s.gdb.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&monitors).Error; err != nil {
		return nil, err
	}
	return monitors, nil
}

// DeleteMonitor removes the monitor together with its checks and
// incidents. gorm soft-deletes rows, so the FK cascade never fires at
// the database layer and the dependents are deleted explicitly.
func (s *DB) DeleteMonitor(id uint) error {
	return s.gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("monitor_id = ?", id).Delete(&models.Check{}).Error; err != nil {
			return err
		}
		if err := tx.Where("monitor_id = ?", id).Delete(&models.Incident{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Monitor{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *DB) UpdateMonitorStatus(id uint, status string, transitioned bool, checkedAt time.Time) error {
	updates := map[string]interface{}{
		"last_checked": checkedAt,
	}
	if transitioned {
		updates["status"] = status
		updates["last_status_change"] = checkedAt
	}
	return s.gdb.Model(&models.Monitor{}).Where("id = ?", id).Updates(updates).Error
}

func (s *DB) InsertCheck(check *models.Check) error {
	return s.gdb.Create(check).Error
}

func (s *DB) ListChecks(monitorID uint, limit int) ([]models.Check, error) {
	var checks []models.Check
	if err := s.gdb.Where("monitor_id = ?", monitorID).
		Order("checked_at DESC").
		Limit(limit).
		Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

func (s *DB) InsertIncident(incident *models.Incident) error {
	return s.gdb.Create(incident).Error
}

func (s *DB) FindOngoingIncident(monitorID uint) (*models.Incident, error) {
	var incident models.Incident
	if err := s.gdb.Where("monitor_id = ? AND status = ?", monitorID, types.IncidentOngoing).
		Order("started_at DESC").
		First(&incident).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &incident, nil
}

func (s *DB) ResolveOngoingIncidents(monitorID uint, resolvedAt time.Time) error {
	return s.gdb.Model(&models.Incident{}).
		Where("monitor_id = ? AND status = ?", monitorID, types.IncidentOngoing).
		Updates(map[string]interface{}{
			"status":      types.IncidentResolved,
			"resolved_at": resolvedAt,
		}).Error
}

func (s *DB) ListIncidents(monitorID uint) ([]models.Incident, error) {
	var incidents []models.Incident
	if err := s.gdb.Where("monitor_id = ?", monitorID).
		Order("started_at DESC").
		Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

var _ Store = (*DB)(nil)
