package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cloud-carousel/internal/carousel"
	"cloud-carousel/internal/imagesrc"
	"cloud-carousel/internal/itemlist"
)

// Config holds the shared resources for one load.
type Config struct {
	Resolver imagesrc.Resolver
	Workers  int
	Logger   *slog.Logger
}

// Result holds the outcome of loading one image.
type Result struct {
	Def   itemlist.ItemDef
	Image *image.NRGBA
	Err   error
}

// Load decodes every image with a worker pool and returns once all of them
// have either decoded or failed. Results keep the order of defs. Images
// not started before ctx is cancelled fail with the context error.
func Load(ctx context.Context, cfg Config, defs []itemlist.ItemDef) []Result {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	total := len(defs)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	// Worker pool
	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				results[idx] = loadOne(ctx, cfg.Resolver, defs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range defs {
		itemChan <- i
	}
	close(itemChan)
	wg.Wait()

	logger.Info("images loaded",
		"count", processed.Load(),
		"total", total,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

func loadOne(ctx context.Context, res imagesrc.Resolver, def itemlist.ItemDef) Result {
	if err := ctx.Err(); err != nil {
		return Result{Def: def, Err: err}
	}
	img, err := res.Resolve(def.Src)
	if err != nil {
		return Result{Def: def, Err: err}
	}
	return Result{Def: def, Image: img}
}

// Ready converts results to carousel sources, leaving out failed images.
// The returned error joins every failure and is nil when all loaded.
func Ready(results []Result, logger *slog.Logger) ([]carousel.Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		sources []carousel.Source
		errs    []error
	)
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("image left out", "src", r.Def.Src, "err", r.Err)
			errs = append(errs, fmt.Errorf("loader: %s: %w", r.Def.Src, r.Err))
			continue
		}
		sources = append(sources, carousel.Source{
			Src:   r.Def.Src,
			Alt:   r.Def.Alt,
			Title: r.Def.Title,
			Image: r.Image,
		})
	}
	return sources, errors.Join(errs...)
}
