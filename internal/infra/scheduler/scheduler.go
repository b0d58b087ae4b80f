package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PresenceRefresher requests a one-shot location fix so the in-region state
// is re-established periodically.
type PresenceRefresher interface {
	RefreshPresence()
	IsMonitoring() bool
}

// PresenceScheduler drives the periodic presence refresh: a geofence only
// reports boundary crossings, so without an occasional location fix a missed
// platform callback would leave the in-region state stale forever.
type PresenceScheduler struct {
	cronEngine  *cron.Cron
	refresher   PresenceRefresher
	log         *logrus.Logger
	refreshSpec string
}

func NewPresenceScheduler(refresher PresenceRefresher, refreshSpec string, log *logrus.Logger) *PresenceScheduler {
	return &PresenceScheduler{
		cronEngine:  cron.New(cron.WithLocation(time.Local)),
		refresher:   refresher,
		log:         log,
		refreshSpec: refreshSpec,
	}
}

// Start registers the refresh job and starts the cron engine.
func (s *PresenceScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.refreshSpec, func() {
		if !s.refresher.IsMonitoring() {
			s.log.Debug("Presence refresh skipped, not monitoring.")
			return
		}
		s.log.Debug("Presence refresh triggered, requesting location fix.")
		s.refresher.RefreshPresence()
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	s.log.Infof("Presence scheduler started with spec %q.", s.refreshSpec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *PresenceScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Presence scheduler stopped.")
}
