package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stdsdb/internal/catalog"
	"stdsdb/internal/config"
	_ "stdsdb/internal/etl/sources"
	"stdsdb/internal/logging"
	mcpserver "stdsdb/internal/mcp"
	"stdsdb/internal/publish"
	"stdsdb/internal/service"
	"stdsdb/internal/storage"
)

const usage = `usage: stdsdb [-config file] [-debug] <command> [flags]

commands:
  build     load the seed files into the database (-reset drops tables first)
  dump      write every table back to seed files
  generate  publish the data files of every configured code
  watch     rebuild on a schedule or when seed files change (-now rebuilds at start)
  mcp       serve read-only query tools over stdio
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("stdsdb", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	configPath := fs.String("config", os.Getenv("STDSDB_CONFIG"), "YAML configuration file")
	debug := fs.Bool("debug", false, "development logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	command, cmdArgs := fs.Arg(0), fs.Args()[1:]

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *debug {
		cfg.Log.Debug = true
	}

	var logger *zap.SugaredLogger
	if command == "mcp" {
		logger, err = logging.NewStderr(cfg.Log.Debug)
	} else {
		logger, err = logging.New(cfg.Log.Debug)
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	reg, err := catalog.NewRegistry(db, cfg.Catalog.Options())
	if err != nil {
		return err
	}
	sink, err := publish.Open(ctx, cfg.Output)
	if err != nil {
		return err
	}
	defer sink.Close(context.WithoutCancel(ctx))

	metrics := service.NewMetrics()
	pipeline := service.NewPipeline(reg, sink, service.Options{
		SeedDir:       cfg.Seeds.Dir,
		SeedFormat:    cfg.Seeds.Format,
		ExportDir:     cfg.Export.Dir,
		ExportFormats: cfg.Export.Formats,
		Codes:         cfg.Codes,
	}, service.LogEmitter{Logger: logger}, metrics, logger)

	logger.Infow("stdsdb starting", "command", command, "driver", cfg.Database.Driver, "sink", sink.Driver())

	switch command {
	case "build":
		cmd := flag.NewFlagSet("build", flag.ContinueOnError)
		reset := cmd.Bool("reset", false, "drop and recreate every table before loading")
		if err := cmd.Parse(cmdArgs); err != nil {
			return err
		}
		_, _, err := pipeline.Build(ctx, service.TriggerCLI, *reset)
		return err
	case "dump":
		_, _, err := pipeline.Dump(ctx, service.TriggerCLI)
		return err
	case "generate":
		_, _, err := pipeline.Generate(ctx, service.TriggerCLI)
		return err
	case "watch":
		cmd := flag.NewFlagSet("watch", flag.ContinueOnError)
		now := cmd.Bool("now", false, "rebuild once before waiting for triggers")
		if err := cmd.Parse(cmdArgs); err != nil {
			return err
		}
		return watch(ctx, cfg, pipeline, metrics, logger, *now)
	case "mcp":
		srv := mcpserver.New(mcpserver.Deps{Pipeline: pipeline, Codes: cfg.Codes, Logger: logger})
		return srv.ServeStdio()
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// watch runs the rebuild daemon and its status endpoint until ctx is done.
func watch(ctx context.Context, cfg config.Config, p *service.Pipeline, m *service.Metrics, logger *zap.SugaredLogger, now bool) error {
	if now {
		if err := p.Rebuild(ctx, service.TriggerCLI); err != nil {
			logger.Errorw("initial rebuild failed", "error", err)
		}
	}

	watcher := service.NewWatcher(p, service.WatchOptions{
		Schedule:   cfg.Watch.Schedule,
		SeedDir:    cfg.Seeds.Dir,
		WatchSeeds: cfg.Watch.WatchSeeds,
		Debounce:   cfg.Watch.Debounce,
	}, logger)
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	var status *service.StatusServer
	if cfg.Watch.StatusAddr != "" {
		status = service.NewStatusServer(cfg.Watch.StatusAddr, service.NewStatusRouter(p, m), logger)
		if err := status.Start(); err != nil {
			return err
		}
	}

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	watcher.Stop()
	if status != nil {
		if err := status.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("status server shutdown", "error", err)
		}
	}
	p.WaitRunning(shutdownCtx)
	return nil
}
