package checker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/probe"
	"github.com/statuspng/statuspng/internal/store"
	"github.com/statuspng/statuspng/internal/types"
)

// Prober runs one probe against a monitor's URL.
type Prober interface {
	Probe(ctx context.Context, url string, timeoutSeconds int) probe.Result
}

// ReportGenerator produces incident report text. It must not fail: on
// provider trouble it returns deterministic fallback text.
type ReportGenerator interface {
	Generate(ctx context.Context, monitor models.Monitor, statusCode *int, errorMessage string) string
}

// Result is the outcome of one check operation on one monitor.
type Result struct {
	MonitorID    uint   `json:"monitor_id"`
	Status       string `json:"status"`
	Transitioned bool   `json:"transitioned"`
	ResponseTime int    `json:"response_time"`
	StatusCode   *int   `json:"status_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Service runs check operations: probe, record, transition, incident
// lifecycle. Checks for the same monitor are serialized through a mutex
// keyed by monitor ID, so an overlapping manual trigger and bulk sweep
// cannot race the incident guard.
type Service struct {
	store   store.Store
	prober  Prober
	reports ReportGenerator

	mu    sync.Mutex
	locks map[uint]*sync.Mutex

	// OnCheck, when set, is called after every completed check. The
	// websocket layer uses it to push dashboard refreshes.
	OnCheck func(monitor models.Monitor, result Result)
}

func NewService(st store.Store, prober Prober, reports ReportGenerator) *Service {
	return &Service{
		store:   st,
		prober:  prober,
		reports: reports,
		locks:   make(map[uint]*sync.Mutex),
	}
}

func (s *Service) monitorLock(id uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// CheckMonitor performs one full check operation: probe the URL, append
// a check row, apply the status transition, and run the incident
// lifecycle if the status changed. The check row is written before the
// monitor is updated, and the monitor before any incident work.
func (s *Service) CheckMonitor(ctx context.Context, monitor models.Monitor) (Result, error) {
	lock := s.monitorLock(monitor.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock so the transition compares against the
	// latest recorded status, not the caller's snapshot.
	current, err := s.store.GetMonitor(monitor.ID)
	if err != nil {
		return Result{}, fmt.Errorf("load monitor %d: %w", monitor.ID, err)
	}
	monitor = *current

	probed := s.prober.Probe(ctx, monitor.URL, monitor.Timeout)
	now := time.Now()

	check := models.Check{
		MonitorID:    monitor.ID,
		Status:       probed.Status,
		ResponseTime: probed.ResponseTime,
		StatusCode:   probed.StatusCode,
		ErrorMessage: probed.ErrorMessage,
		CheckedAt:    now,
	}

	if err := s.store.InsertCheck(&check); err != nil {
		return Result{}, fmt.Errorf("record check for monitor %d: %w", monitor.ID, err)
	}

	previousStatus := monitor.Status
	transitioned := probed.Status != previousStatus

	if err := s.store.UpdateMonitorStatus(monitor.ID, probed.Status, transitioned, now); err != nil {
		return Result{}, fmt.Errorf("update monitor %d: %w", monitor.ID, err)
	}

	if transitioned {
		switch {
		case probed.Status == types.StatusDown:
			if err := s.openIncident(ctx, monitor, probed, now); err != nil {
				return Result{}, err
			}
		case previousStatus == types.StatusDown:
			// Recovery. unknown -> up is a transition too, but there is
			// nothing to resolve.
			if err := s.store.ResolveOngoingIncidents(monitor.ID, now); err != nil {
				return Result{}, fmt.Errorf("resolve incidents for monitor %d: %w", monitor.ID, err)
			}
		}
	}

	result := Result{
		MonitorID:    monitor.ID,
		Status:       probed.Status,
		Transitioned: transitioned,
		ResponseTime: probed.ResponseTime,
		StatusCode:   probed.StatusCode,
		ErrorMessage: probed.ErrorMessage,
	}

	if s.OnCheck != nil {
		s.OnCheck(monitor, result)
	}

	return result, nil
}

// openIncident creates the incident for a transition to down, unless
// one is already ongoing. The report is generated synchronously before
// the incident row is persisted.
func (s *Service) openIncident(ctx context.Context, monitor models.Monitor, probed probe.Result, now time.Time) error {
	_, err := s.store.FindOngoingIncident(monitor.ID)
	if err == nil {
		// Already ongoing, nothing to open.
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("query ongoing incident for monitor %d: %w", monitor.ID, err)
	}

	var description string
	if probed.StatusCode != nil {
		description = fmt.Sprintf("Monitor returned HTTP %d", *probed.StatusCode)
	} else {
		description = fmt.Sprintf("Monitor failed with error: %s", probed.ErrorMessage)
	}

	incident := models.Incident{
		MonitorID:   monitor.ID,
		Title:       fmt.Sprintf("%s is down", monitor.Name),
		Description: description,
		Report:      s.reports.Generate(ctx, monitor, probed.StatusCode, probed.ErrorMessage),
		Status:      types.IncidentOngoing,
		StartedAt:   now,
	}

	if err := s.store.InsertIncident(&incident); err != nil {
		return fmt.Errorf("create incident for monitor %d: %w", monitor.ID, err)
	}

	return nil
}

// CheckAll sweeps every monitor sequentially. A failing monitor is
// logged and skipped; it never aborts the sweep. Returns the results of
// the checks that completed.
func (s *Service) CheckAll(ctx context.Context) ([]Result, error) {
	monitors, err := s.store.ListMonitors()
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}

	results := make([]Result, 0, len(monitors))
	for _, monitor := range monitors {
		result, err := s.CheckMonitor(ctx, monitor)
		if err != nil {
			log.Printf("Error checking monitor %d: %v", monitor.ID, err)
			continue
		}
		results = append(results, result)
	}

	return results, nil
}
