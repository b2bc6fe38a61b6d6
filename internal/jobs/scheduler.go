package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"orderdesk/internal/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const auditExportJob = "audit-export"

// Scheduler runs the background jobs. The order engine itself never depends on it.
type Scheduler struct {
	scheduler gocron.Scheduler
	export    services.AuditExportService
	log       *zap.Logger
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewScheduler registers the daily audit export. interval is how often the previous UTC day is
// re-exported; re-running a day overwrites the same object.
func NewScheduler(export services.AuditExportService, interval time.Duration, log *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("audit export interval must be positive, got %s", interval)
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: scheduler,
		export:    export,
		log:       log.Named("jobs"),
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.exportPreviousDay, context.Background()),
		gocron.WithName(auditExportJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("register %s job: %w", auditExportJob, err)
	}
	s.jobs[auditExportJob] = job

	s.log.Info("registered background jobs", zap.Int("count", len(s.jobs)), zap.Duration("export_interval", interval))
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info("starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	s.log.Info("stopping background job scheduler")
	return s.scheduler.Shutdown()
}

// RunNow triggers a job outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// Status reports each registered job and its next run.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]string, len(s.jobs))
	for name, job := range s.jobs {
		next, err := job.NextRun()
		if err != nil {
			jobs[name] = "unscheduled"
			continue
		}
		jobs[name] = next.UTC().Format(time.RFC3339)
	}
	return map[string]interface{}{
		"total_jobs": len(s.jobs),
		"next_runs":  jobs,
	}
}

func (s *Scheduler) exportPreviousDay(ctx context.Context) error {
	day := s.now().UTC().AddDate(0, 0, -1)
	start := time.Now()

	result, err := s.export.ExportDay(ctx, day)
	if err != nil {
		s.log.Error("audit export failed",
			zap.String("day", day.Format("2006-01-02")),
			zap.Error(err))
		return err
	}

	s.log.Info("audit export completed",
		zap.String("object", result.Object),
		zap.Int("entries", result.Entries),
		zap.Duration("took", time.Since(start)))
	return nil
}
