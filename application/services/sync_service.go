package services

import (
	"context"
	"sync"
	"time"

	"threatsync/application/mapper"
	"threatsync/application/ports"
	"threatsync/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock abstracts time for the sync loop so tests can drive cycles
// without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// state of the sync loop. The loop alternates between the two until the
// context is cancelled; there is no terminal state under normal operation.
type state int

const (
	stateFetching state = iota
	stateSleeping
)

// CycleStatus is a snapshot of the most recent sync cycle, served by the
// admin status endpoint. In-memory only; reset on restart.
type CycleStatus struct {
	CyclesCompleted int       `json:"cycles_completed"`
	LastCycleAt     time.Time `json:"last_cycle_at"`
	LastDurationMS  int64     `json:"last_duration_ms"`
	RecordsFetched  int       `json:"records_fetched"`
	RecordsWritten  int       `json:"records_written"`
	RecordsSkipped  int       `json:"records_skipped"`
	RecordsFailed   int       `json:"records_failed"`
	LastError       string    `json:"last_error,omitempty"`
}

// SyncService drives the periodic fetch → classify → map → write cycle.
// Cycles never overlap: a slow cycle delays the next one, and the
// interval sleep starts only after the cycle completes.
type SyncService struct {
	feed     ports.FeedSource
	writer   ports.GraphWriter
	interval time.Duration
	clock    Clock
	metrics  *observability.Metrics
	tracer   *observability.TracerProvider
	logger   *zap.Logger

	mu     sync.RWMutex
	status CycleStatus
}

// NewSyncService creates a new sync service
func NewSyncService(
	feed ports.FeedSource,
	writer ports.GraphWriter,
	interval time.Duration,
	metrics *observability.Metrics,
	tracer *observability.TracerProvider,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		feed:     feed,
		writer:   writer,
		interval: interval,
		clock:    systemClock{},
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// WithClock replaces the clock. Used by tests.
func (s *SyncService) WithClock(c Clock) *SyncService {
	s.clock = c
	return s
}

// Status returns a copy of the last cycle snapshot.
func (s *SyncService) Status() CycleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Run executes cycles until the context is cancelled. A failed cycle is
// treated identically to a successful empty one: the loop still sleeps
// the full interval before retrying. No backoff, no circuit breaker -
// steady-state failures are retried implicitly by the next poll.
func (s *SyncService) Run(ctx context.Context) error {
	s.logger.Info("starting sync loop",
		zap.Duration("interval", s.interval),
	)

	st := stateFetching
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch st {
		case stateFetching:
			s.runCycle(ctx)
			st = stateSleeping
		case stateSleeping:
			if err := s.clock.Sleep(ctx, s.interval); err != nil {
				return err
			}
			st = stateFetching
		}
	}
}

// runCycle performs one fetch-and-process pass. Failures are contained:
// a fetch error discards the cycle, a write error discards one record.
func (s *SyncService) runCycle(ctx context.Context) {
	logger := s.logger.With(zap.String("cycle_id", uuid.NewString()))
	ctx, span := s.tracer.StartSpan(ctx, "sync.cycle")
	defer span.End()

	start := s.clock.Now()
	status := CycleStatus{}

	records, err := s.feed.FetchAll(ctx)
	if err != nil {
		logger.Error("feed fetch failed, cycle skipped", zap.Error(err))
		s.finishCycle(start, status, err)
		return
	}

	status.RecordsFetched = len(records)
	logger.Info("processing records", zap.Int("count", len(records)))

	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}

		m := mapper.Map(rec)
		if m.Empty() {
			logger.Warn("record yields no mutations, skipped",
				zap.String("record_id", rec.ID),
				zap.String("record_type", rec.Type),
			)
			status.RecordsSkipped++
			continue
		}

		writeStart := s.clock.Now()
		err := s.writer.Apply(ctx, m)
		s.metrics.RecordWrite(s.clock.Now().Sub(writeStart), err)
		if err != nil {
			logger.Error("record write failed",
				zap.String("record_id", rec.ID),
				zap.String("record_type", rec.Type),
				zap.Error(err),
			)
			status.RecordsFailed++
			continue
		}
		status.RecordsWritten++
	}

	s.finishCycle(start, status, nil)
}

func (s *SyncService) finishCycle(start time.Time, status CycleStatus, err error) {
	duration := s.clock.Now().Sub(start)
	s.metrics.RecordCycle(duration, err)

	status.LastCycleAt = start
	status.LastDurationMS = duration.Milliseconds()
	if err != nil {
		status.LastError = err.Error()
	}

	s.mu.Lock()
	status.CyclesCompleted = s.status.CyclesCompleted + 1
	s.status = status
	s.mu.Unlock()
}
