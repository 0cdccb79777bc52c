package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/feeledger/core"
)

type Options struct {
	// FlushSchedule is a cron spec (e.g. "@every 5m") for periodic saves; empty disables them.
	FlushSchedule string
	Location      *time.Location
	SaveTimeout   time.Duration
}

// Session binds the in-memory store to its persistence for the lifetime of the process:
// the snapshot is loaded on Open, saved in the background after every mutation and saved one last time on Close.
type Session struct {
	store   Store
	persist Persistence
	logger  core.Logger
	opts    Options

	cron    *cron.Cron
	pending chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex // serialises saves
	closed bool
}

// Open restores the persisted snapshot into store and starts the save worker.
func Open(ctx context.Context, store Store, persist Persistence, logger core.Logger, opts Options) (*Session, error) {
	snap, err := persist.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading ledger snapshot")
	}
	store.Restore(snap)

	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 30 * time.Second
	}

	s := &Session{
		store:   store,
		persist: persist,
		logger:  logger,
		opts:    opts,
		pending: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}

	if opts.FlushSchedule != "" {
		s.cron = cron.New(cron.WithLocation(opts.Location))
		if _, err = s.cron.AddFunc(opts.FlushSchedule, s.Mutated); err != nil {
			return nil, errors.Wrapf(err, "scheduling ledger flush %q", opts.FlushSchedule)
		}
		s.cron.Start()
	}

	s.wg.Add(1)
	go s.worker()

	logger.Info("ledger loaded", map[string]interface{}{
		"fee_records":    len(snap.FeeRecords),
		"periods":        len(snap.Periods),
		"academic_years": len(snap.AcademicYears),
		"fee_heads":      len(snap.FeeHeads),
	})
	return s, nil
}

// Mutated schedules a background save. It never blocks: signals arriving while a save is pending are coalesced.
func (s *Session) Mutated() {
	select {
	case s.pending <- struct{}{}:
	default:
	}
}

func (s *Session) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case <-s.pending:
			ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
			if err := s.Flush(ctx); err != nil {
				s.logger.Error("saving ledger snapshot", err)
			}
			cancel()
		}
	}
}

// Flush saves the current snapshot synchronously.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.Save(ctx, s.store.Snapshot()); err != nil {
		return errors.Wrap(err, "saving ledger snapshot")
	}
	return nil
}

// Close stops the scheduler and the worker then saves a last time.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	close(s.stop)
	s.wg.Wait()

	return s.Flush(ctx)
}
