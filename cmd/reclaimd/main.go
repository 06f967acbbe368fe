package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/daemon"
	"reclaim/internal/lifecycle"
	"reclaim/internal/logging"
	"reclaim/internal/notify"
	"reclaim/internal/services/mailer"
	"reclaim/internal/services/matcher"
	"reclaim/internal/services/moderation"
	"reclaim/internal/store"
	"reclaim/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		return
	}

	d, err := buildDaemon(cfg, st, logger)
	if err != nil {
		logger.Error("create daemon", slog.String("error", err.Error()))
		_ = st.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", slog.String("error", err.Error()))
		return
	}

	<-ctx.Done()
	logger.Info("reclaimd shutting down")
}

func buildDaemon(cfg *config.Config, st *store.Store, logger *slog.Logger) (*daemon.Daemon, error) {
	matchClient := matcher.NewClient(cfg.Matcher.BaseURL, time.Duration(cfg.Matcher.TimeoutSeconds)*time.Second)

	var gate moderation.Gate
	if cfg.Moderation.Enabled {
		gate = moderation.NewClient(cfg.Moderation.BaseURL, time.Duration(cfg.Moderation.TimeoutSeconds)*time.Second)
	}

	var sender mailer.Sender = mailer.Noop{}
	if cfg.Email.Enabled {
		sender = mailer.NewClient(cfg.Email.BaseURL, cfg.Email.FromAddress, time.Duration(cfg.Email.TimeoutSeconds)*time.Second)
	}

	fanout := notify.New(cfg, st, sender, logger)
	machine := lifecycle.New(st, logger)
	intake := workflow.NewIntake(cfg, st, matchClient, gate, fanout, logger)
	verifier := workflow.NewVerifier(st, machine, fanout, logger)
	sweeper := daemon.NewSweeper(cfg, st, logger)

	return daemon.New(cfg, st, logger, intake, verifier, machine, sweeper)
}
