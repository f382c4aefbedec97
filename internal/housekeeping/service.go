// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"sync"
	"time"
	"trialdb/internal/config"
	"trialdb/internal/logging"
	"trialdb/internal/shared"
)

// MinCheckInterval is the minimum time between sweeps to prevent busy-looping.
const MinCheckInterval = 1 * time.Minute

// Service provides the background worker for automated housekeeping.
type Service struct {
	Deps     Dependencies
	Target   string
	Interval time.Duration
	MaxAge   time.Duration

	timer    *time.Timer
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  bool
	now      func() time.Time
}

// NewService creates a new housekeeping service for the store at target.
func NewService(deps Dependencies, target string, cfg config.HousekeepingConfig) (*Service, error) {
	interval, err := shared.ParseDuration(cfg.Interval)
	if err != nil {
		return nil, err
	}
	maxAge, err := shared.ParseDuration(cfg.MaxAge)
	if err != nil {
		return nil, err
	}
	if interval != 0 && interval < MinCheckInterval {
		interval = MinCheckInterval
	}
	return &Service{
		Deps:     deps,
		Target:   target,
		Interval: interval,
		MaxAge:   maxAge,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}, nil
}

// Start kicks off the background housekeeping service.
// It does nothing when the interval or the max age is 0.
func (s *Service) Start() {
	s.started = true
	if s.Interval == 0 || s.MaxAge == 0 {
		logging.Log.Info("Background housekeeping is disabled.")
		close(s.done)
		return
	}

	logging.Log.Infof("Starting background housekeeping service (every %v, max age %v).", s.Interval, s.MaxAge)
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.timer.C:
				s.runChecks()
				s.timer.Reset(s.Interval)
				logging.Log.Debugf("Next housekeeping check scheduled in %v.", s.Interval)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background housekeeping service and waits for a
// running sweep to finish. It is safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		logging.Log.Info("Stopping background housekeeping service.")
		close(s.stopCh)
	})
	if s.started {
		<-s.done
	}
}

// runChecks sweeps the staging files of the store once.
func (s *Service) runChecks() {
	logging.Log.Debugf("Housekeeping service: Checking staging files of '%s'...", s.Target)
	report, err := SweepStaging(s.Deps, s.Target, s.MaxAge, s.now())
	if err != nil {
		logging.Log.Errorf("Housekeeping run failed for '%s': %v", s.Target, err)
		return
	}
	if report.FilesRemoved > 0 {
		logging.Log.Info(report.Message)
	} else {
		logging.Log.Debug(report.Message)
	}
}
