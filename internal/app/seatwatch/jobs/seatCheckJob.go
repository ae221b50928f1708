package jobs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/endeavored/seatwatch/internal/pkg/extractor"
	"github.com/endeavored/seatwatch/internal/pkg/metrics"
	"github.com/endeavored/seatwatch/internal/pkg/models"
	"go.uber.org/zap"
)

type Fetcher interface {
	Get(url string) ([]byte, error)
}

type Notifier interface {
	Notify(verdict models.Verdict, courseURL string) error
}

// SafeSeatCheck watches a single class page. Only the extractor options and the
// last verdict change after construction, both guarded by mu.
type SafeSeatCheck struct {
	courseURL string
	fetcher   Fetcher
	notifier  Notifier
	metrics   *metrics.Metrics

	mu           sync.Mutex
	extractor    *extractor.Extractor
	last         *models.Verdict
	wasAvailable bool
}

func seatCheckJob(a *models.App, fetcher Fetcher, notifier Notifier, m *metrics.Metrics) (*SafeSeatCheck, error) {
	e, err := extractor.New(extractor.Options{Threshold: a.Threshold, Label: a.Label})
	if err != nil {
		return nil, err
	}
	return &SafeSeatCheck{
		courseURL: a.CourseURL,
		fetcher:   fetcher,
		notifier:  notifier,
		metrics:   m,
		extractor: e,
	}, nil
}

// Check fetches the page once and evaluates it. A notification goes out only
// when the section turns available; the watch starts out unavailable.
func (ssc *SafeSeatCheck) Check() (models.Verdict, error) {
	body, err := ssc.fetcher.Get(ssc.courseURL)
	if err != nil {
		ssc.metrics.ObserveCheck(metrics.ResultFetchError)
		return models.Verdict{}, fmt.Errorf("fetch course page: %w", err)
	}

	ssc.mu.Lock()
	e := ssc.extractor
	ssc.mu.Unlock()

	verdict, err := e.ExtractVerdict(string(body))
	if err != nil {
		ssc.metrics.ObserveCheck(resultOf(err))
		return models.Verdict{}, err
	}
	ssc.metrics.ObserveCheck(metrics.ResultOK)
	ssc.metrics.ObserveVerdict(verdict.OpenSeats, verdict.IsAvailable)

	ssc.mu.Lock()
	turnedAvailable := verdict.IsAvailable && !ssc.wasAvailable
	ssc.wasAvailable = verdict.IsAvailable
	ssc.last = &verdict
	ssc.mu.Unlock()

	if turnedAvailable {
		zap.L().Info("section is available", zap.String("message", verdict.Message))
		if err := ssc.notifier.Notify(verdict, ssc.courseURL); err != nil {
			zap.L().Error("failed to notify", zap.Error(err))
		}
	}
	return verdict, nil
}

func (ssc *SafeSeatCheck) run() {
	verdict, err := ssc.Check()
	if err != nil {
		zap.L().Error("seat check failed", zap.String("url", ssc.courseURL), zap.Error(err))
		return
	}
	zap.L().Debug("seat check",
		zap.Int("openSeats", verdict.OpenSeats),
		zap.Bool("available", verdict.IsAvailable),
	)
}

func (ssc *SafeSeatCheck) SetThreshold(threshold int) error {
	ssc.mu.Lock()
	defer ssc.mu.Unlock()
	opts := ssc.extractor.Options()
	opts.Threshold = threshold
	e, err := extractor.New(opts)
	if err != nil {
		return err
	}
	ssc.extractor = e
	// re-arm so a section already above the new threshold alerts on the next check
	ssc.wasAvailable = false
	return nil
}

func (ssc *SafeSeatCheck) Options() extractor.Options {
	ssc.mu.Lock()
	defer ssc.mu.Unlock()
	return ssc.extractor.Options()
}

func (ssc *SafeSeatCheck) CourseURL() string {
	return ssc.courseURL
}

func (ssc *SafeSeatCheck) LastVerdict() (models.Verdict, bool) {
	ssc.mu.Lock()
	defer ssc.mu.Unlock()
	if ssc.last == nil {
		return models.Verdict{}, false
	}
	return *ssc.last, true
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, extractor.ErrStructuredDataNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, extractor.ErrMalformedStructuredData):
		return metrics.ResultMalformed
	default:
		return metrics.ResultNoAvailability
	}
}
