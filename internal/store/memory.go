package store

import (
	"sort"
	"sync"
	"time"

	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/types"
)

// Memory is an in-memory Store. It backs the test suites and keeps the
// same semantics as the gorm implementation.
type Memory struct {
	mu        sync.RWMutex
	users     map[uint]*models.User
	monitors  map[uint]*models.Monitor
	checks    map[uint]*models.Check
	incidents map[uint]*models.Incident
	nextID    uint
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[uint]*models.User),
		monitors:  make(map[uint]*models.Monitor),
		checks:    make(map[uint]*models.Check),
		incidents: make(map[uint]*models.Incident),
	}
}

func (s *Memory) nextIDLocked() uint {
	s.nextID++
	return s.nextID
}

func (s *Memory) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextIDLocked()
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Memory) GetUserByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Memory) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) GetUserBySlug(slug string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.OrgSlug == slug {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateMonitor(monitor *models.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	monitor.ID = s.nextIDLocked()
	monitor.CreatedAt = time.Now()
	if monitor.Status == "" {
		monitor.Status = types.StatusUnknown
	}
	copied := *monitor
	s.monitors[monitor.ID] = &copied
	return nil
}

func (s *Memory) GetMonitor(id uint) (*models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	monitor, ok := s.monitors[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *monitor
	return &copied, nil
}

func (s *Memory) ListMonitors() ([]models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Monitor, 0, len(s.monitors))
	for _, monitor := range s.monitors {
		out = append(out, *monitor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Memory) ListMonitorsForUser(userID uint) ([]models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Monitor
	for _, monitor := range s.monitors {
		if monitor.UserID == userID {
			out = append(out, *monitor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Memory) DeleteMonitor(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.monitors[id]; !ok {
		return ErrNotFound
	}
	delete(s.monitors, id)
	for checkID, check := range s.checks {
		if check.MonitorID == id {
			delete(s.checks, checkID)
		}
	}
	for incidentID, incident := range s.incidents {
		if incident.MonitorID == id {
			delete(s.incidents, incidentID)
		}
	}
	return nil
}

func (s *Memory) UpdateMonitorStatus(id uint, status string, transitioned bool, checkedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	monitor, ok := s.monitors[id]
	if !ok {
		return ErrNotFound
	}
	checked := checkedAt
	monitor.LastChecked = &checked
	if transitioned {
		monitor.Status = status
		changed := checkedAt
		monitor.LastStatusChange = &changed
	}
	return nil
}

func (s *Memory) InsertCheck(check *models.Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	check.ID = s.nextIDLocked()
	check.CreatedAt = time.Now()
	copied := *check
	s.checks[check.ID] = &copied
	return nil
}

func (s *Memory) ListChecks(monitorID uint, limit int) ([]models.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Check
	for _, check := range s.checks {
		if check.MonitorID == monitorID {
			out = append(out, *check)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) InsertIncident(incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident.ID = s.nextIDLocked()
	incident.CreatedAt = time.Now()
	if incident.Status == "" {
		incident.Status = types.IncidentOngoing
	}
	copied := *incident
	s.incidents[incident.ID] = &copied
	return nil
}

func (s *Memory) FindOngoingIncident(monitorID uint) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Incident
	for _, incident := range s.incidents {
		if incident.MonitorID != monitorID || incident.Status != types.IncidentOngoing {
			continue
		}
		if found == nil || incident.StartedAt.After(found.StartedAt) {
			found = incident
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	copied := *found
	return &copied, nil
}

func (s *Memory) ResolveOngoingIncidents(monitorID uint, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, incident := range s.incidents {
		if incident.MonitorID == monitorID && incident.Status == types.IncidentOngoing {
			incident.Status = types.IncidentResolved
			resolved := resolvedAt
			incident.ResolvedAt = &resolved
		}
	}
	return nil
}

func (s *Memory) ListIncidents(monitorID uint) ([]models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Incident
	for _, incident := range s.incidents {
		if incident.MonitorID == monitorID {
			out = append(out, *incident)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

var _ Store = (*Memory)(nil)
