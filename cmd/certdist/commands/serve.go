package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/events"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	r := roster.New(cfg.Paths.RosterCSV, cfg.Paths.ManagementCSV, cfg.Certificate.IDPrefix)
	if err := r.Validate(); err != nil {
		slog.Warn("roster validation failed, lookups will report unavailable", logfields.Error(err))
	}

	gen, err := certificate.NewGenerator(cfg.Certificate, cfg.Paths.TemplatesDir, cfg.Paths.CertificatesDir)
	if err != nil {
		return err
	}

	var log *issuance.Log
	if cfg.Issuance.DBPath != "" {
		log, err = issuance.Open(cfg.Issuance.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = log.Close() }()
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
		if err != nil {
			return err
		}
		publisher = np
		defer np.Close()
	}

	opts := httpserver.Options{
		Roster:    r,
		Generator: gen,
		Issuance:  log,
		Publisher: publisher,
	}
	if cfg.Server.AdminListen != "" {
		reg := prom.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		opts.PrometheusHandler = metrics.HTTPHandler(reg)
	}

	srv := httpserver.New(cfg, opts)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	var scheduler gocron.Scheduler
	if cfg.Schedule.GenerateCron != "" {
		scheduler, err = startSchedule(cfg.Schedule.GenerateCron, r, gen, opts.Recorder)
		if err != nil {
			return err
		}
	}

	slog.Info("Server started, waiting for shutdown signal...")
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping...")

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("scheduler shutdown failed", logfields.Error(err))
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}

// startSchedule runs the batch generation pass on a cron schedule so new
// roster rows gain certificates without a manual trigger.
func startSchedule(cronExpr string, r *roster.Roster, gen *certificate.Generator, rec metrics.Recorder) (gocron.Scheduler, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			summary, err := runGeneratePass(r, gen, false, rec)
			if err != nil {
				slog.Error("Scheduled generation failed", logfields.Error(err))
				return
			}
			slog.Info("Scheduled generation complete",
				slog.Int("total", summary.Total),
				slog.Int("generated", summary.Generated),
				slog.Int("skipped", summary.Skipped))
		}),
		gocron.WithName("generate-all"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule generation job: %w", err)
	}

	scheduler.Start()
	slog.Info("Scheduled generation enabled", slog.String("cron", cronExpr))
	return scheduler, nil
}
