package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/pcprice/internal/config"
	"github.com/Adda-Baaj/pcprice/internal/dealwatch"
	"github.com/Adda-Baaj/pcprice/internal/logger"
	"github.com/Adda-Baaj/pcprice/internal/storage"
	"github.com/Adda-Baaj/pcprice/internal/watchlist"
	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
	"github.com/Adda-Baaj/pcprice/pkg/publishers"
)

// DealWatcher represents the deal watcher runtime. It manages the polling loop,
// coordinating between the watchlist, the deal watch service, and publishers. It
// also owns the de-dup store and publisher connections.
type DealWatcher struct {
	cfg          *config.Config
	watches      *watchlist.Registry
	fanout       *publishers.Fanout
	service      *dealwatch.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewDealWatcher builds a deal watcher runtime from config files.
func NewDealWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*DealWatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	watches, err := watchlist.Load(cfg.WatchlistFile)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	all := watches.All()
	watchIDs := make([]string, 0, len(all))
	for _, w := range all {
		watchIDs = append(watchIDs, w.ID)
	}
	log.InfoObj("watchlist loaded", "watchlist_meta", map[string]any{
		"count":   len(watchIDs),
		"enabled": len(watches.Enabled()),
		"ids":     watchIDs,
	})

	client, err := pcprice.New(cfg.APIBaseURL, pcprice.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeType := "none"
	if cfg.DedupeEnabled {
		storeType = "memory"
	}
	store, err := storage.NewStore(storeType, storage.Options{
		TTL:             cfg.DedupeTTL,
		CleanupInterval: cfg.DedupeCleanup,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("dedupe store initialized", "storage_config", map[string]any{
		"type":                     storeType,
		"ttl_seconds":              int(cfg.DedupeTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.DedupeCleanup.Seconds()),
	})

	return &DealWatcher{
		cfg:          cfg,
		watches:      watches,
		fanout:       fanout,
		service:      dealwatch.NewService(client, fanout, log, store),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the polling loop until the context is cancelled.
func (d *DealWatcher) Run(ctx context.Context) error {
	if d == nil || d.service == nil {
		return fmt.Errorf("deal watcher is not initialized")
	}
	defer d.close()

	watches := d.watches.Enabled()
	if len(watches) == 0 {
		d.log.WarnObj("no enabled watches; deal watcher idle", "watchlist_file", d.cfg.WatchlistFile)
		<-ctx.Done()
		return ctx.Err()
	}

	d.log.InfoObj("deal watcher loop starting", "dealwatch_state", map[string]any{
		"watches_count":    len(watches),
		"publishers_count": d.fanout.Size(),
		"poll_interval":    d.pollInterval.String(),
	})

	if err := d.runOnce(ctx, watches); err != nil {
		d.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.InfoObj("deal watcher loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := d.runOnce(ctx, watches); err != nil {
				d.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single polling pass across all enabled watches.
func (d *DealWatcher) runOnce(ctx context.Context, watches []watchlist.Watch) error {
	start := time.Now()
	d.log.InfoObj("poll started", "poll_meta", map[string]any{
		"watches_count": len(watches),
		"started_at":    start.UTC(),
	})
	if err := d.service.Run(ctx, watches); err != nil {
		return err
	}
	d.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"watches_count": len(watches),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and publisher connections, logging any errors encountered.
func (d *DealWatcher) close() {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if err := d.fanout.Close(); err != nil {
		d.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}
