package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/artifact"
	"github.com/tamilansjob/apicheck/internal/check"
	"github.com/tamilansjob/apicheck/internal/config"
	"github.com/tamilansjob/apicheck/internal/jobapi"
	"github.com/tamilansjob/apicheck/internal/logging"
	"github.com/tamilansjob/apicheck/internal/notify"
	"github.com/tamilansjob/apicheck/internal/report"
	"github.com/tamilansjob/apicheck/internal/store"
	"github.com/tamilansjob/apicheck/internal/store/postgres"
)

// newRunCmd creates and configures the 'run' subcommand. It executes the full
// conformance checklist against the configured base URL and exits non-zero
// when any check fails.
func newRunCmd() *cobra.Command {
	var (
		baseURL        string
		jsonPath       string
		timeoutSeconds int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the conformance suite against the target API",
		Long: `Executes every conformance check in order: health, seed, reference
tables, job listing and filtering, job creation, single-job fetch, error
paths, and CORS preflight. Failures never abort the run; each check records
its outcome and the command exits non-zero if any check failed.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if baseURL != "" {
				cfg.Target.BaseURL = baseURL
			}
			if jsonPath != "" {
				cfg.Report.JSONPath = jsonPath
			}
			if timeoutSeconds > 0 {
				cfg.HTTP.TimeoutSeconds = timeoutSeconds
			}
			return runSuite(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (overrides config)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the JSON report to this path")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "request timeout in seconds (overrides config)")

	return cmd
}

func runSuite(parent context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	startedAt := time.Now().UTC()

	switch cfg.Report.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	sinks := []check.Sink{
		report.NewConsoleSink(os.Stdout),
		report.NewLogSink(logger.Named("results")),
	}

	registry := prometheus.NewRegistry()
	promSink, err := report.NewPrometheusSink(registry)
	if err != nil {
		return fmt.Errorf("init prometheus sink: %w", err)
	}
	sinks = append(sinks, promSink)

	var repo store.RunRepository
	if cfg.Store.Provider == "postgres" {
		runStore, storeErr := postgres.NewRunStore(ctx, postgres.RunStoreConfig{
			DSN:      cfg.Store.DSN,
			MaxConns: cfg.Store.MaxConns,
		})
		if storeErr != nil {
			return fmt.Errorf("init run store: %w", storeErr)
		}
		defer runStore.Close()
		repo = runStore

		if createErr := repo.CreateRun(ctx, store.Run{
			ID:        runID,
			BaseURL:   cfg.Target.BaseURL,
			StartedAt: startedAt,
		}); createErr != nil {
			return fmt.Errorf("create run record: %w", createErr)
		}
		sinks = append(sinks, report.NewStoreSink(repo, runID, logger.Named("store")))
	}

	saver, closer, err := buildArtifactProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	notifier, err := buildNotifyProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := notifier.Close(); closeErr != nil {
			logger.Warn("failed to close notify provider", zap.Error(closeErr))
		}
	}()

	client := jobapi.New(jobapi.Config{
		BaseURL:   cfg.Target.BaseURL,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.HTTP.UserAgent,
	})

	rec := check.NewRecorder(logger.Named("recorder"), sinks...)
	suite := check.NewSuite(client, rec, toExpectations(cfg.Expect), logger.Named("suite"))
	suite.UseRunID(runID)

	rep := suite.Run(ctx)
	rec.Close(ctx)

	if err := report.WriteSummary(os.Stdout, rep); err != nil {
		logger.Warn("failed to write summary", zap.Error(err))
	}

	status := store.RunPassed
	if rep.Summary.Failed > 0 {
		status = store.RunFailed
	}
	if repo != nil {
		if err := repo.CompleteRun(
			ctx,
			runID,
			rep.FinishedAt,
			status,
			rep.Summary.Total,
			rep.Summary.Passed,
			rep.Summary.Failed,
			rep.Summary.Skipped,
		); err != nil {
			logger.Warn("failed to complete run record", zap.Error(err))
		}
	}

	payload, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if cfg.Report.JSONPath != "" {
		if err := os.WriteFile(cfg.Report.JSONPath, payload, 0o600); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		logger.Info("JSON report written", zap.String("path", cfg.Report.JSONPath))
	}

	objectName := path.Join(cfg.Artifact.Prefix, fmt.Sprintf("run-%s.json", runID))
	if err := saver.Save(ctx, objectName, payload); err != nil {
		logger.Warn("failed to save report artifact", zap.Error(err))
	}

	if err := publishCompletion(ctx, notifier, rep, status); err != nil {
		logger.Warn("failed to publish run notification", zap.Error(err))
	}

	if rep.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d checks failed", rep.Summary.Failed, rep.Summary.Total)
	}
	return nil
}

func buildArtifactProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (artifact.Provider, func(), error) {
	switch cfg.Artifact.Provider {
	case "", "noop":
		return &artifact.NoOpProvider{}, nil, nil
	case "local":
		provider, err := artifact.NewLocalProvider(cfg.Artifact.BaseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init local artifact provider: %w", err)
		}
		return provider, nil, nil
	case "gcs":
		provider, err := artifact.NewGCSProvider(ctx, cfg.Artifact.GCSBucket, logger.Named("gcs"))
		if err != nil {
			return nil, nil, fmt.Errorf("init GCS artifact provider: %w", err)
		}
		closer := func() {
			if closeErr := provider.Close(); closeErr != nil {
				logger.Warn("failed to close GCS client", zap.Error(closeErr))
			}
		}
		return provider, closer, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifact provider %q", cfg.Artifact.Provider)
	}
}

func buildNotifyProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (notify.Provider, error) {
	switch cfg.Notify.Provider {
	case "", "noop":
		return &notify.NoOpProvider{}, nil
	case "pubsub":
		provider, err := notify.NewPubSubProvider(ctx, cfg.Notify.ProjectID, cfg.Notify.TopicID, logger.Named("pubsub"))
		if err != nil {
			return nil, fmt.Errorf("init pubsub notify provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Notify.Provider)
	}
}

func publishCompletion(ctx context.Context, notifier notify.Provider, rep check.Report, status store.RunStatus) error {
	msg, err := json.Marshal(map[string]any{
		"run_id":   rep.RunID,
		"base_url": rep.BaseURL,
		"status":   string(status),
		"total":    rep.Summary.Total,
		"passed":   rep.Summary.Passed,
		"failed":   rep.Summary.Failed,
		"skipped":  rep.Summary.Skipped,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return notifier.Publish(ctx, msg)
}

func toExpectations(cfg config.ExpectConfig) check.Expectations {
	return check.Expectations{
		SeedCounts: jobapi.SeedCounts{
			Districts:      cfg.SeedDistricts,
			Qualifications: cfg.SeedQualifications,
			Categories:     cfg.SeedCategories,
			Jobs:           cfg.SeedJobs,
		},
		MinDistricts:       cfg.SeedDistricts,
		MinQualifications:  cfg.SeedQualifications,
		MinCategories:      cfg.SeedCategories,
		MinJobs:            cfg.SeedJobs,
		DistrictNames:      cfg.DistrictNames,
		QualificationNames: cfg.QualificationNames,
		CategoryNames:      cfg.CategoryNames,
	}
}
