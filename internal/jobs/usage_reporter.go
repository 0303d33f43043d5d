package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pairpad/internal/session"
)

// UsageReporter periodically logs live room and member counts. Rooms are not
// persisted, so this log line is the only historical record of usage.
type UsageReporter struct {
	store    *session.Store
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewUsageReporter(store *session.Store, schedule string, logger *zap.Logger) *UsageReporter {
	return &UsageReporter{
		store:    store,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the reporter. An empty schedule disables it.
func (u *UsageReporter) Start() error {
	if u.schedule == "" {
		return nil
	}
	_, err := u.cron.AddFunc(u.schedule, u.report)
	if err != nil {
		return fmt.Errorf("failed to schedule usage reporter: %w", err)
	}
	u.cron.Start()
	u.logger.Info("usage reporter started", zap.String("schedule", u.schedule))
	return nil
}

func (u *UsageReporter) Stop() {
	if u.cron != nil {
		u.cron.Stop()
	}
}

func (u *UsageReporter) report() {
	rooms, members := u.store.Stats()
	u.logger.Info("collab usage",
		zap.Int("rooms", rooms),
		zap.Int("members", members))
}
