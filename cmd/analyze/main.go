package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"
	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/services"
	"social-analytics-dashboard/internal/viewmodel"
)

func main() {
	app := &cli.App{
		Name:  "analyze",
		Usage: "run one social media analysis against the analytics backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "brands.yaml", Usage: "brand file"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "./reports", Usage: "directory for the CSV report"},
			&cli.StringFlag{Name: "env", Value: ".env", Usage: "optional env file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(c.String("env")); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	brandFile, err := LoadBrandFile(c.String("config"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := services.NewSession("cli", services.SessionDeps{
		Client: analytics.NewClient(cfg.AnalyticsAPIBaseURL, cfg.AnalyticsAPIKey, cfg.AnalyticsTimeout),
		Poll: services.PollConfig{
			InitialDelay: cfg.PollInitialDelay,
			Interval:     cfg.PollInterval,
			BackoffStep:  cfg.PollBackoffStep,
			MaxBackoff:   cfg.PollMaxBackoff,
			MaxRetries:   cfg.PollMaxRetries,
		},
		Events: progressLogger{logger: logger},
		Logger: logger,
	})

	attached, err := brandFile.AttachImages(session)
	if err != nil {
		return err
	}
	logger.Info("brand file loaded", "brands", len(brandFile.Brands), "reference_images", attached)

	analysisID, err := session.StartAnalysis(ctx, brandFile.Inputs())
	if err != nil {
		return err
	}

	select {
	case <-session.PollDone():
	case <-ctx.Done():
		session.Reset()
		return ctx.Err()
	}
	logNotifications(logger, session.DrainNotifications())

	snap := session.Snapshot()
	if snap.State != services.StateCompleted {
		return fmt.Errorf("analysis %s did not complete: %s", analysisID, snap.Message)
	}

	results := snap.Results
	if brandFile.StartDate != "" {
		results, err = session.ApplyFilter(ctx, brandFile.StartDate, brandFile.EndDate)
		if err != nil {
			return err
		}
	}

	if err := viewmodel.WriteSummary(os.Stdout, viewmodel.BuildBrandCards(results)); err != nil {
		return err
	}

	dl, err := session.Download(ctx, "", "")
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyDownload) {
			logger.Warn("backend returned an empty report", "analysis_id", analysisID)
			return nil
		}
		return err
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outDir, filepath.Base(dl.Filename))
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("report saved", "path", path, "bytes", len(dl.Data))
	return nil
}

// progressLogger reports lifecycle events on the terminal.
type progressLogger struct {
	logger *slog.Logger
}

func (p progressLogger) PublishAnalysisEvent(_ context.Context, event models.AnalysisEvent) error {
	attrs := []any{"analysis_id", event.AnalysisID, "status", event.Status, "progress", event.Progress}
	if event.Message != "" {
		attrs = append(attrs, "message", event.Message)
	}
	if event.Attempt > 0 {
		attrs = append(attrs, "attempt", event.Attempt)
	}
	p.logger.Info(event.Event, attrs...)
	return nil
}

func logNotifications(logger *slog.Logger, notes []services.Notification) {
	for _, n := range notes {
		switch n.Level {
		case services.LevelError:
			logger.Error(n.Message)
		case services.LevelWarning:
			logger.Warn(n.Message)
		default:
			logger.Info(n.Message)
		}
	}
}
