package jobs

import (
	"github.com/endeavored/seatwatch/internal/pkg/metrics"
	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Start runs one check right away and schedules the rest. Overlapping runs are
// skipped rather than queued.
func Start(a *models.App, schedule string, fetcher Fetcher, notifier Notifier, m *metrics.Metrics) (*SafeSeatCheck, *cron.Cron, error) {
	ssc, err := seatCheckJob(a, fetcher, notifier, m)
	if err != nil {
		return nil, nil, err
	}
	logger := cronLogger{zap.S()}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(schedule, ssc.run); err != nil {
		return nil, nil, err
	}
	go ssc.run()
	c.Start()
	return ssc, c, nil
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
