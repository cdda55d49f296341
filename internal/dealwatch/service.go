package dealwatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Adda-Baaj/pcprice/internal/logger"
	"github.com/Adda-Baaj/pcprice/internal/watchlist"
)

const defaultConcurrency = 4

// Service coordinates deal polling across multiple watches.
type Service struct {
	processor   *WatchProcessor
	log         logger.Logger
	concurrency int
}

// NewService wires a deal watcher over the API client, the publisher fanout
// and the de-dup store.
func NewService(source DealSource, publisher EventPublisher, log logger.Logger, deduper Deduper) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		processor:   NewWatchProcessor(source, publisher, log, deduper),
		log:         log,
		concurrency: defaultConcurrency,
	}
}

// Run executes one polling pass for every given watch. Disabled watches are
// skipped. A failing watch does not stop the others; every failure is
// returned joined.
func (s *Service) Run(ctx context.Context, watches []watchlist.Watch) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("deal watch service is not initialized")
	}
	if len(watches) == 0 {
		return fmt.Errorf("no watches configured")
	}

	errs := s.runAll(ctx, watches)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, watches []watchlist.Watch) []error {
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, w := range watches {
		if !w.IsEnabled() {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if _, err := s.processor.Process(gctx, w); err != nil {
				s.log.ErrorObj("watch pass failed", "watch_error", map[string]any{
					"watch_id": w.ID,
					"error":    err.Error(),
				})
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errs
}
