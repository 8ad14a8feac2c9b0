package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
)

// RetentionStore is the storage the retention sweeper prunes.
type RetentionStore interface {
	PruneHistory(ctx context.Context, cutoff time.Time) (int64, error)
	PruneTodoEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionConfig holds configuration for the retention sweeper.
type RetentionConfig struct {
	// HistoryRetention is how long generated texts are kept.
	// Default: 90 days
	HistoryRetention time.Duration

	// TodoRetention is how long task completion events are kept.
	// Default: 30 days
	TodoRetention time.Duration

	// Interval is how often the sweep runs.
	// Default: 6 hours
	Interval time.Duration

	// InitialDelay postpones the first sweep after Start.
	InitialDelay time.Duration
}

// DefaultRetentionConfig returns default retention configuration.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		HistoryRetention: 90 * 24 * time.Hour,
		TodoRetention:    30 * 24 * time.Hour,
		Interval:         6 * time.Hour,
		InitialDelay:     time.Minute,
	}
}

// SweepResult reports how many rows one sweep removed.
type SweepResult struct {
	History    int64 `json:"history"`
	TodoEvents int64 `json:"todo_events"`
}

// RetentionSweeper periodically deletes old history and todo events.
type RetentionSweeper struct {
	store     RetentionStore
	config    RetentionConfig
	now       func() time.Time
	log       *logrus.Entry
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewRetentionSweeper creates a new retention sweeper.
func NewRetentionSweeper(store RetentionStore, config RetentionConfig, logger logrus.FieldLogger) *RetentionSweeper {
	def := DefaultRetentionConfig()
	if config.HistoryRetention <= 0 {
		config.HistoryRetention = def.HistoryRetention
	}
	if config.TodoRetention <= 0 {
		config.TodoRetention = def.TodoRetention
	}
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}

	return &RetentionSweeper{
		store:  store,
		config: config,
		now:    time.Now,
		log:    logging.Component(logger, "RetentionSweeper"),
		stopCh: make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (s *RetentionSweeper) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"interval":          s.config.Interval.String(),
		"history_retention": s.config.HistoryRetention.String(),
		"todo_retention":    s.config.TodoRetention.String(),
	}).Info("started")

	go s.run()
}

func (s *RetentionSweeper) run() {
	if s.config.InitialDelay > 0 {
		select {
		case <-time.After(s.config.InitialDelay):
			s.sweep()
		case <-s.stopCh:
			s.log.Info("stopped")
			return
		}
	}

	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.stopCh:
			s.log.Info("stopped")
			return
		}
	}
}

func (s *RetentionSweeper) sweep() {
	res, err := s.RunNow(context.Background())
	if err != nil {
		logging.LogError(s.log, "RetentionSweeper", "sweep", "prune", nil, err)
		return
	}
	if res.History > 0 || res.TodoEvents > 0 {
		s.log.WithFields(logrus.Fields{
			"history":     res.History,
			"todo_events": res.TodoEvents,
		}).Info("pruned old records")
	}
}

// Stop stops the sweeper.
func (s *RetentionSweeper) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}

// RunNow performs one sweep immediately.
func (s *RetentionSweeper) RunNow(ctx context.Context) (SweepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	now := s.now()
	var res SweepResult

	n, err := s.store.PruneHistory(ctx, now.Add(-s.config.HistoryRetention))
	if err != nil {
		return res, err
	}
	res.History = n

	n, err = s.store.PruneTodoEvents(ctx, now.Add(-s.config.TodoRetention))
	if err != nil {
		return res, err
	}
	res.TodoEvents = n
	return res, nil
}
