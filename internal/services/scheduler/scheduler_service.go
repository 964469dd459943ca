// Package scheduler runs registered background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
)

// DefaultJobTimeout bounds a single job execution.
const DefaultJobTimeout = 5 * time.Minute

// ErrJobNotFound is returned for unknown job names.
var ErrJobNotFound = errors.New("job not found")

// JobFunc is the work performed by a job.
type JobFunc func(ctx context.Context) error

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name      string
	schedule  string
	handler   JobFunc
	cronID    cron.EntryID
	lastRun   *time.Time
	isRunning bool
	lastError string
}

// JobStatus is a snapshot of a registered job.
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	IsRunning bool       `json:"is_running"`
	LastError string     `json:"last_error,omitempty"`
}

// Service schedules jobs with robfig/cron.
type Service struct {
	cron       *cron.Cron
	logger     arbor.ILogger
	jobMu      sync.Mutex // Protects jobs map and entry state
	jobs       map[string]*jobEntry
	running    bool
	jobTimeout time.Duration
	baseCtx    context.Context
	cancel     context.CancelFunc
}

// NewService creates a new scheduler service
func NewService(logger arbor.ILogger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cron:       cron.New(),
		logger:     logger,
		jobs:       make(map[string]*jobEntry),
		jobTimeout: DefaultJobTimeout,
		baseCtx:    ctx,
		cancel:     cancel,
	}
}

// RegisterJob registers a new job with the scheduler
func (s *Service) RegisterJob(name, schedule string, handler JobFunc) error {
	if err := common.ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	cronID, err := s.cron.AddFunc(schedule, func() {
		s.executeJob(name)
	})
	if err != nil {
		return fmt.Errorf("failed to add job to cron: %w", err)
	}

	s.jobs[name] = &jobEntry{
		name:     name,
		schedule: schedule,
		handler:  handler,
		cronID:   cronID,
	}

	s.logger.Info().
		Str("job_name", name).
		Str("schedule", schedule).
		Msg("Job registered")

	return nil
}

// Start begins running registered jobs on their schedules
func (s *Service) Start() error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.cron.Start()
	s.running = true

	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler, cancels running jobs and waits for them to return
func (s *Service) Stop() error {
	s.jobMu.Lock()
	if !s.running {
		s.jobMu.Unlock()
		return nil
	}
	s.running = false
	s.jobMu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true if scheduler is active
func (s *Service) IsRunning() bool {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	return s.running
}

// TriggerJob runs a job immediately in the background
func (s *Service) TriggerJob(name string) error {
	s.jobMu.Lock()
	_, exists := s.jobs[name]
	s.jobMu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	s.logger.Info().Str("job_name", name).Msg("Manual job trigger requested")
	common.SafeGo(s.logger, "job:"+name, func() { s.executeJob(name) })
	return nil
}

// Status returns a snapshot of every job ordered by name
func (s *Service) Status() []JobStatus {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, entry := range s.jobs {
		status := JobStatus{
			Name:      entry.name,
			Schedule:  entry.schedule,
			IsRunning: entry.isRunning,
			LastError: entry.lastError,
		}
		if entry.lastRun != nil {
			t := *entry.lastRun
			status.LastRun = &t
		}
		if s.running {
			if next := s.cron.Entry(entry.cronID).Next; !next.IsZero() {
				status.NextRun = &next
			}
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// executeJob runs a job unless a previous run is still in progress
func (s *Service) executeJob(name string) {
	defer common.RecoverAndLog(s.logger, "job:"+name)

	s.jobMu.Lock()
	entry, exists := s.jobs[name]
	if !exists || entry.isRunning {
		s.jobMu.Unlock()
		if exists {
			s.logger.Warn().Str("job_name", name).Msg("Job still running, skipping this execution")
		}
		return
	}
	entry.isRunning = true
	handler := entry.handler
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		entry.isRunning = false
		s.jobMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(s.baseCtx, s.jobTimeout)
	defer cancel()

	start := time.Now()
	err := handler(ctx)

	s.jobMu.Lock()
	now := time.Now()
	entry.lastRun = &now
	entry.lastError = ""
	if err != nil {
		entry.lastError = err.Error()
	}
	s.jobMu.Unlock()

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("job_name", name).
			Dur("duration", time.Since(start)).
			Msg("Job failed")
		return
	}
	s.logger.Info().
		Str("job_name", name).
		Dur("duration", time.Since(start)).
		Msg("Job completed")
}
