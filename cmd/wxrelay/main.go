package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wxrelay/wxrelay/internal/config"
	"github.com/wxrelay/wxrelay/internal/metrics"
	"github.com/wxrelay/wxrelay/internal/poster"
	"github.com/wxrelay/wxrelay/internal/source"

	"github.com/prometheus/client_golang/prometheus"
)

const version = "1.0.0"

func main() {
	if err := buildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildCLI() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:     "wxrelay",
		Short:   "wxrelay posts weather station records to a hub device over HTTP",
		Version: version,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the posting pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, debug)
		},
	}
	root.AddCommand(runCmd)

	return root
}

func run(configPath string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	log.Info("wxrelay starting", "version", version, "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var col *metrics.Collector
	if cfg.Metrics.Addr != "" {
		col = metrics.NewCollector(prometheus.DefaultRegisterer)
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				log.Error("metrics listener failed", "addr", cfg.Metrics.Addr, "err", err)
			}
		}()
		log.Info("metrics exposed", "addr", cfg.Metrics.Addr)
	}

	// A fatal posting config error (bad target_unit) disables the pipeline
	// only: the host process stays up and enqueues become no-ops.
	pipe, err := poster.New(cfg.Post, col, log)
	if err != nil {
		log.Error("posting disabled", "err", err)
	} else {
		go pipe.Run(ctx)
		log.Info("records will be posted", "url", cfg.Post.ServerURL)
	}
	disp := pipe.Dispatcher()

	if cfg.Source.Enabled() {
		poll, err := source.New(cfg.Source, disp.OnRecord, log)
		if err != nil {
			log.Error("source disabled", "err", err)
		} else {
			go poll.Run(ctx)
		}
	} else {
		log.Info("no source configured, waiting for external producer")
	}

	go func() {
		if err := config.Watch(ctx, log, configPath, func(updated *config.Config) {
			// Reload is observed and logged; applying it needs a restart.
			log.Info("config changed on disk, restart to apply",
				"url", updated.Post.ServerURL)
		}); err != nil {
			log.Error("config watcher stopped", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("wxrelay shutting down")
	return nil
}
