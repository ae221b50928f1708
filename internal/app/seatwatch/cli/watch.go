package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/endeavored/seatwatch/internal/app/seatwatch/jobs"
	"github.com/endeavored/seatwatch/internal/pkg/config"
	"github.com/endeavored/seatwatch/internal/pkg/helpers"
	"github.com/endeavored/seatwatch/internal/pkg/heroku"
	"github.com/endeavored/seatwatch/internal/pkg/logger"
	"github.com/endeavored/seatwatch/internal/pkg/metrics"
	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/endeavored/seatwatch/internal/pkg/requests"
	"github.com/endeavored/seatwatch/internal/pkg/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Checks the configured class page on a schedule and posts to slack when seats open.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.Initialize(cfg.IsProduction(), cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()
		return Start(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// Start wires the watch together and blocks until ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config) error {
	a := &models.App{
		Ctx:       ctx,
		CourseURL: cfg.CourseURL,
		Label:     cfg.SectionLabel,
		Threshold: cfg.SeatThreshold,
		Webhooks:  cfg.Webhooks(),
	}

	var settings store.SettingsStore
	if cfg.MongoConnectionString != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		mongoStore, err := store.Connect(connectCtx, cfg.MongoConnectionString, cfg.MongoDatabase)
		cancel()
		if err != nil {
			return err
		}
		defer mongoStore.Close(context.Background())
		settings = mongoStore
		loadSettings(ctx, a, settings)
	}

	fetcher := requests.NewClient(cfg.FetchTimeout)
	if a.Label == "" {
		a.Label = resolveLabel(fetcher, a.CourseURL)
	}
	zap.L().Info("watching course",
		zap.String("url", a.CourseURL),
		zap.String("label", a.Label),
		zap.Int("threshold", a.Threshold),
		zap.String("schedule", cfg.CheckSchedule),
	)

	m := metrics.New()
	job, c, err := jobs.Start(a, cfg.CheckSchedule, fetcher, helpers.NewSlackNotifier(a.Webhooks), m)
	if err != nil {
		return err
	}
	defer c.Stop()

	if cfg.SlackSocketToken != "" {
		go runSocket(ctx, &commandHandler{job: job, store: settings}, cfg.SlackSocketToken)
	}
	if cfg.HeartbeatURL != "" {
		go heroku.StartHeartbeat(ctx, cfg.HeartbeatURL)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(job, m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func loadSettings(ctx context.Context, a *models.App, settings store.SettingsStore) {
	s, err := settings.Load(ctx)
	if errors.Is(err, store.ErrSettingsNotFound) {
		return
	}
	if err != nil {
		zap.L().Warn("could not load watch settings, using config", zap.Error(err))
		return
	}
	a.CourseURL, a.Label, a.Threshold = s.Apply(a.CourseURL, a.Label, a.Threshold)
	zap.L().Info("loaded watch settings from database")
}

// resolveLabel names the section from its page heading, falling back to the
// extractor default when the page cannot be read.
func resolveLabel(fetcher jobs.Fetcher, courseURL string) string {
	body, err := fetcher.Get(courseURL)
	if err != nil {
		zap.L().Warn("could not fetch page for section label", zap.Error(err))
		return ""
	}
	label, err := helpers.GetSectionLabel(string(body))
	if err != nil {
		zap.L().Warn("could not read section label", zap.Error(err))
		return ""
	}
	return label
}
