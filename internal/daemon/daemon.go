package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"reclaim/internal/config"
	"reclaim/internal/lifecycle"
	"reclaim/internal/store"
	"reclaim/internal/workflow"
)

// Daemon coordinates the API server and the expiry sweeper and enforces
// single-instance execution through a file lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	intake   *workflow.Intake
	verifier *workflow.Verifier
	machine  *lifecycle.Machine

	lockPath string
	lock     *flock.Flock

	api     *apiServer
	sweeper *Sweeper

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, intake *workflow.Intake, verifier *workflow.Verifier, machine *lifecycle.Machine, sweeper *Sweeper) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil || intake == nil || verifier == nil || machine == nil {
		return nil, errors.New("daemon requires config, store, logger, and workflow components")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "reclaimd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		intake:   intake,
		verifier: verifier,
		machine:  machine,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		sweeper:  sweeper,
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and launches the API server and sweeper.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reclaim daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}
	if d.sweeper != nil {
		d.sweeper.Start(runCtx)
	}

	d.running.Store(true)
	d.logger.Info("reclaim daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.sweeper != nil {
		d.sweeper.Stop()
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.running.Store(false)
	d.logger.Info("reclaim daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the bound API address, empty until Start succeeds.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}
