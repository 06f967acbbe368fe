package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/logging"
	"reclaim/internal/notify"
	"reclaim/internal/report"
	"reclaim/internal/store"
)

// Sweeper periodically flags found items whose pending review window lapsed
// without verification. It writes one back-office notification per item and
// never changes item status; expiry is an operator signal, not a transition.
type Sweeper struct {
	store    *store.Store
	logger   *slog.Logger
	interval time.Duration
	uid      string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper builds the expiry sweeper. It is inert when no back-office uid
// is configured.
func NewSweeper(cfg *config.Config, st *store.Store, logger *slog.Logger) *Sweeper {
	interval := time.Duration(cfg.Workflow.ExpirySweepInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		store:    st,
		logger:   logging.WithComponent(logger, "sweeper"),
		interval: interval,
		uid:      cfg.Notifications.BackOfficeUID,
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.SweepOnce(runCtx)
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// SweepOnce flags every expired still-pending item exactly once.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	if s.uid == "" {
		return
	}

	records, err := s.store.ListExpiredPending(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("expiry sweep failed", slog.String("error", err.Error()))
		return
	}

	for _, record := range records {
		flagged, err := s.store.HasNotification(ctx, s.uid, record.ItemID, report.NotificationExpiryFlagged)
		if err != nil {
			s.logger.Error("expiry flag lookup failed",
				slog.String(logging.FieldItemID, record.ItemID),
				slog.String("error", err.Error()))
			continue
		}
		if flagged {
			continue
		}

		notification := &report.NotificationRecord{
			UID:     s.uid,
			ItemID:  record.ItemID,
			Message: notify.ExpiryMessage(record),
			Type:    report.NotificationExpiryFlagged,
		}
		if err := s.store.AddNotification(ctx, notification); err != nil {
			s.logger.Error("expiry flag write failed",
				slog.String(logging.FieldItemID, record.ItemID),
				slog.String("error", err.Error()))
			continue
		}
		s.logger.Warn("pending item past review window",
			slog.String(logging.FieldItemID, record.ItemID),
			slog.String(logging.FieldAlert, "expiry"))
	}
}
