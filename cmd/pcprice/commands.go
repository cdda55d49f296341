package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
)

type execFunc func(ctx context.Context, e *env, args []string) error

// command registers its flags on fs and returns the function that runs it.
type command struct {
	summary string
	usage   string
	setup   func(fs *pflag.FlagSet) execFunc
}

var commands = map[string]command{
	"latest": {
		summary: "most recently updated products",
		usage:   "[--limit N] [--type TYPE]",
		setup: func(fs *pflag.FlagSet) execFunc {
			limit := fs.Int("limit", 0, "number of products (default 20)")
			typ := fs.String("type", "", "component type")
			return func(ctx context.Context, e *env, _ []string) error {
				resp, err := e.client.LatestProducts(ctx, pcprice.LatestParams{Limit: *limit, ComponentType: *typ})
				if err != nil {
					return err
				}
				return e.printProducts(resp)
			}
		},
	},
	"deals": {
		summary: "cheapest current listings",
		usage:   "[--limit N] [--type TYPE]",
		setup: func(fs *pflag.FlagSet) execFunc {
			limit := fs.Int("limit", 0, "number of products (default 10)")
			typ := fs.String("type", "", "component type")
			return func(ctx context.Context, e *env, _ []string) error {
				resp, err := e.client.BestDeals(ctx, pcprice.DealsParams{Limit: *limit, ComponentType: *typ})
				if err != nil {
					return err
				}
				return e.printProducts(resp)
			}
		},
	},
	"compare": {
		summary: "compare one product across stores",
		usage:   "[--type TYPE] <product name>",
		setup: func(fs *pflag.FlagSet) execFunc {
			typ := fs.String("type", "", "component type")
			return func(ctx context.Context, e *env, args []string) error {
				if len(args) == 0 {
					return errUsage
				}
				cmp, err := e.client.CompareProduct(ctx, strings.Join(args, " "), *typ)
				if err != nil {
					return err
				}
				if e.table {
					return e.printComparison(cmp)
				}
				return e.printJSON(cmp)
			}
		},
	},
	"quick": {
		summary: "alternatives for one product id",
		usage:   "<product id>",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, args []string) error {
				id, err := productID(args)
				if err != nil {
					return err
				}
				q, err := e.client.QuickCompare(ctx, id)
				if err != nil {
					return err
				}
				return e.printJSON(q)
			}
		},
	},
	"search": {
		summary: "search products by name",
		usage:   "[--limit N] <query>",
		setup: func(fs *pflag.FlagSet) execFunc {
			limit := fs.Int("limit", 0, "number of products (default 20)")
			return func(ctx context.Context, e *env, args []string) error {
				if len(args) == 0 {
					return errUsage
				}
				resp, err := e.client.Search(ctx, pcprice.SearchParams{Query: strings.Join(args, " "), Limit: *limit})
				if err != nil {
					return err
				}
				return e.printProducts(resp)
			}
		},
	},
	"health": {
		summary: "service health document",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				h, err := e.client.HealthCheck(ctx)
				if err != nil {
					return err
				}
				return e.printJSON(h)
			}
		},
	},
	"products": {
		summary: "page through the catalog",
		usage:   "[--skip N] [--limit N] [--type TYPE] [--brand BRAND] [--store STORE]",
		setup: func(fs *pflag.FlagSet) execFunc {
			f := filterFlags(fs, true)
			return func(ctx context.Context, e *env, _ []string) error {
				page, err := e.client.ListProducts(ctx, *f)
				if err != nil {
					return err
				}
				return e.printCatalog(page)
			}
		},
	},
	"product": {
		summary: "one catalog product",
		usage:   "<product id>",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, args []string) error {
				id, err := productID(args)
				if err != nil {
					return err
				}
				p, err := e.client.GetProduct(ctx, id)
				if err != nil {
					return err
				}
				return e.printJSON(p)
			}
		},
	},
	"stores": {
		summary: "stores in the catalog",
		usage:   "[--stats]",
		setup: func(fs *pflag.FlagSet) execFunc {
			withStats := fs.Bool("stats", false, "also fetch per-store statistics")
			return func(ctx context.Context, e *env, _ []string) error {
				list, err := e.client.Stores(ctx)
				if err != nil {
					return err
				}
				if !*withStats {
					return e.printJSON(list)
				}
				stats, err := storeStats(ctx, e.client, list.Stores)
				if err != nil {
					return err
				}
				return e.printJSON(stats)
			}
		},
	},
	"store-products": {
		summary: "page through one store's catalog",
		usage:   "[--skip N] [--limit N] [--type TYPE] [--brand BRAND] <store>",
		setup: func(fs *pflag.FlagSet) execFunc {
			f := filterFlags(fs, false)
			return func(ctx context.Context, e *env, args []string) error {
				if len(args) != 1 {
					return errUsage
				}
				page, err := e.client.StoreProducts(ctx, args[0], *f)
				if err != nil {
					return err
				}
				return e.printCatalog(page)
			}
		},
	},
	"store-stats": {
		summary: "catalog summary of one store",
		usage:   "<store>",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, args []string) error {
				if len(args) != 1 {
					return errUsage
				}
				s, err := e.client.StoreStats(ctx, args[0])
				if err != nil {
					return err
				}
				return e.printJSON(s)
			}
		},
	},
	"stats": {
		summary: "service-wide catalog statistics",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				s, err := e.client.Statistics(ctx)
				if err != nil {
					return err
				}
				return e.printJSON(s)
			}
		},
	},
	"compare-stores": {
		summary: "stats of every store side by side, as computed by the service",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				cmp, err := e.client.CompareAllStores(ctx)
				if err != nil {
					return err
				}
				return e.printJSON(cmp)
			}
		},
	},
	"config": {
		summary: "service configuration and scraped stores",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				cfg, err := e.client.ServiceConfig(ctx)
				if err != nil {
					return err
				}
				return e.printJSON(cfg)
			}
		},
	},
	"brands": {
		summary: "brands in the catalog",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				b, err := e.client.Brands(ctx)
				if err != nil {
					return err
				}
				return e.printJSON(b)
			}
		},
	},
	"types": {
		summary: "component types in the catalog",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				t, err := e.client.ComponentTypes(ctx)
				if err != nil {
					return err
				}
				return e.printJSON(t)
			}
		},
	},
	"overview": {
		summary: "health, statistics and stores in one go",
		setup: func(*pflag.FlagSet) execFunc {
			return func(ctx context.Context, e *env, _ []string) error {
				ov, err := fetchOverview(ctx, e.client)
				if perr := e.printJSON(ov); perr != nil {
					return errors.Join(err, perr)
				}
				return err
			}
		},
	},
}

func filterFlags(fs *pflag.FlagSet, withStore bool) *pcprice.ProductFilter {
	f := &pcprice.ProductFilter{}
	fs.IntVar(&f.Skip, "skip", 0, "rows to skip")
	fs.IntVar(&f.Limit, "limit", 0, "rows per page (default 50)")
	fs.StringVar(&f.ComponentType, "type", "", "component type")
	fs.StringVar(&f.Brand, "brand", "", "brand")
	if withStore {
		fs.StringVar(&f.Store, "store", "", "store")
	}
	return f
}

func productID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

// storeStats fetches the statistics of every known store concurrently.
// Stores without a dedicated endpoint are skipped.
func storeStats(ctx context.Context, client *pcprice.Client, stores []string) (map[string]*pcprice.StoreStats, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]*pcprice.StoreStats, len(stores))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, store := range stores {
		if !isKnownStore(store) {
			continue
		}
		g.Go(func() error {
			s, err := client.StoreStats(gctx, store)
			if err != nil {
				return fmt.Errorf("store %s: %w", store, err)
			}
			mu.Lock()
			out[store] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func isKnownStore(store string) bool {
	store = strings.ToLower(strings.TrimSpace(store))
	for _, known := range pcprice.KnownStores {
		if store == known {
			return true
		}
	}
	return false
}

type overview struct {
	Health     map[string]any      `json:"health,omitempty"`
	Statistics *pcprice.Statistics `json:"statistics,omitempty"`
	Stores     *pcprice.StoreList  `json:"stores,omitempty"`
}

// fetchOverview issues the three requests concurrently and collects their
// results on a loop running on the calling goroutine, so no locking is needed.
func fetchOverview(ctx context.Context, client *pcprice.Client) (overview, error) {
	var (
		ov      overview
		errs    []error
		pending = 3
	)
	loop := pcprice.NewLoop()
	done := func(what string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
		}
		if pending--; pending == 0 {
			loop.Stop()
		}
	}

	pcprice.Async(ctx, client.HealthCheck).Then(loop, func(h map[string]any, err error) {
		ov.Health = h
		done("health", err)
	})
	pcprice.Async(ctx, client.Statistics).Then(loop, func(s *pcprice.Statistics, err error) {
		ov.Statistics = s
		done("statistics", err)
	})
	pcprice.Async(ctx, client.Stores).Then(loop, func(s *pcprice.StoreList, err error) {
		ov.Stores = s
		done("stores", err)
	})

	if err := loop.Run(ctx); err != nil {
		return ov, err
	}
	return ov, errors.Join(errs...)
}
