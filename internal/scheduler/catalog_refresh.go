package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/novelshelf/internal/config"
	"github.com/mrlokans/novelshelf/internal/tasks"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer hands tasks to the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// CatalogRefreshScheduler periodically refreshes the catalog snapshots of
// the given providers. With a queue the refreshes run as tasks; without
// one they run inline on the cron goroutine.
type CatalogRefreshScheduler struct {
	cfg       config.CatalogRefresh
	providers []string
	resolver  tasks.CatalogResolver
	queue     Enqueuer

	cron         *cron.Cron
	entryID      cron.EntryID
	mu           sync.RWMutex
	isRunning    bool
	isRefreshing bool
	cancelFunc   context.CancelFunc
}

// NewCatalogRefreshScheduler creates a new scheduler instance. queue may be nil.
func NewCatalogRefreshScheduler(cfg config.CatalogRefresh, providers []string, resolver tasks.CatalogResolver, queue Enqueuer) *CatalogRefreshScheduler {
	return &CatalogRefreshScheduler{
		cfg:       cfg,
		providers: providers,
		resolver:  resolver,
		queue:     queue,
		cron:      cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if refreshes are enabled.
func (s *CatalogRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Catalog refresh scheduler: disabled")
		return nil
	}

	if len(s.providers) == 0 {
		log.Printf("Catalog refresh scheduler: no catalog providers, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runRefresh(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule catalog refresh job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.cfg.Schedule, time.Now())
	log.Printf("Catalog refresh scheduler: started with schedule '%s' (%s) for %v. Next run: %v",
		s.cfg.Schedule,
		CronDescription(s.cfg.Schedule),
		s.providers,
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running refresh and stops the scheduler.
func (s *CatalogRefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// the running job takes s.mu when it finishes, so wait unlocked
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	if cancel != nil {
		cancel()
	}

	log.Printf("Catalog refresh scheduler: stopped")
}

// RunNow triggers an immediate refresh of every provider.
func (s *CatalogRefreshScheduler) RunNow(ctx context.Context) {
	go s.runRefresh(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *CatalogRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsRefreshing returns whether a refresh round is in progress.
func (s *CatalogRefreshScheduler) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRefreshing
}

// NextRun returns when the next refresh will occur.
func (s *CatalogRefreshScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CatalogRefreshScheduler) runRefresh(ctx context.Context) {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		log.Printf("Catalog refresh: skipped (already refreshing)")
		return
	}
	s.isRefreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRefreshing = false
		s.mu.Unlock()
	}()

	for _, name := range s.providers {
		task := tasks.RefreshCatalogTask{Provider: name}

		if s.queue != nil {
			id, err := s.queue.Enqueue(ctx, task)
			if err != nil {
				log.Printf("Catalog refresh: failed to enqueue %s: %v", name, err)
				continue
			}
			log.Printf("Catalog refresh: enqueued %s as task %s", name, id)
			continue
		}

		runCtx, cancel := context.WithTimeout(ctx, task.Config().Timeout)
		err := tasks.RefreshCatalogProcessor(s.resolver)(runCtx, task)
		cancel()
		if err != nil {
			log.Printf("Catalog refresh: %s failed: %v", name, err)
		}
	}
}

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRunTime calculates the first activation of schedule after from.
func NextRunTime(schedule string, from time.Time) (*time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(from)
	return &next, nil
}

// CronDescription returns a human-readable description of a cron schedule
func CronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 4 * * *":
		return "Daily at 04:00"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}
