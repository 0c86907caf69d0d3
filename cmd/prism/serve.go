package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/advisor"
	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api"
	"github.com/prismlab/prism/internal/api/job"
	"github.com/prismlab/prism/internal/config"
	"github.com/prismlab/prism/internal/logger"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/narrator"
	"github.com/prismlab/prism/internal/narrator/factory"
	"github.com/prismlab/prism/internal/storage/archive"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PRISM server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	// Load config
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("starting PRISM server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	deps, err := buildDependencies(cfg, log)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down PRISM server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// buildDependencies wires the archive, advisor, narrator, job store and
// metrics registry from config.
func buildDependencies(cfg *config.Config, log *zap.Logger) (api.Dependencies, error) {
	var backend archive.Backend
	var err error

	switch cfg.Archive.Type {
	case "s3":
		backend, err = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		backend, err = archive.NewLocalFS(cfg.Archive.Path)
	}
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("creating archive backend: %w", err)
	}

	jobTTL := time.Duration(cfg.Server.JobTTLHours) * time.Hour
	if jobTTL <= 0 {
		jobTTL = time.Hour
	}
	maxJobs := cfg.Server.MaxJobs
	if maxJobs <= 0 {
		maxJobs = 100
	}

	deps := api.Dependencies{
		Runs:    archive.NewRunStore(backend),
		Advisor: advisor.New(cfg.Advisor.Benchmarks),
		Jobs:    job.NewStore(maxJobs, jobTTL),
		Defaults: analytics.Params{
			PeriodsPerYear: int(cfg.Analytics.PeriodsPerYear),
			RiskFreeRate:   cfg.Analytics.RiskFreeRate,
		},
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewRegistry()
	}

	if cfg.Narrator.Provider != "" {
		provider, err := factory.New(cfg.Narrator)
		if err != nil {
			return api.Dependencies{}, fmt.Errorf("creating narrator provider: %w", err)
		}
		deps.Narrator = narrator.New(provider)
		log.Info("narrator enabled", zap.String("provider", provider.Name()))
	}

	return deps, nil
}
