package batch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"cloud-carousel/internal/carousel"
	"cloud-carousel/internal/compositor"
	"cloud-carousel/internal/postprocess"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds the output settings for a batch run.
type Config struct {
	OutputDir string
	Workers   int
	// Supersample is the factor by which the surface exceeds the output
	// size. Frames are downsampled by it before encoding.
	Supersample int
	Logger      *slog.Logger
}

// Step is a scripted rotation applied before the tick of one frame.
type Step struct {
	Frame  int
	Rotate int
}

// Plan describes the simulated session to render.
type Plan struct {
	Frames        int
	FrameInterval time.Duration
	// AutoRotateDelay fires the controller's autorotation on this
	// simulated interval. Zero disables it.
	AutoRotateDelay time.Duration
	Steps           []Step
}

// Result holds the outcome of encoding one frame.
type Result struct {
	Frame   int
	Name    string // path relative to the output dir
	Success bool
	Error   string
}

type job struct {
	frame int
	img   *image.RGBA
}

// Run steps the controller through the plan on the calling goroutine and
// encodes every frame to WebP with a worker pool. The controller must draw
// to surf. Frames not produced before ctx is cancelled are omitted.
func Run(ctx context.Context, cfg Config, ctrl *carousel.Controller, surf *compositor.Surface, plan Plan) ([]Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	outW, outH := surf.Bounds().Dx()/ss, surf.Bounds().Dy()/ss
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: create %s: %w", cfg.OutputDir, err)
	}

	total := plan.Frames
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Info("encoding", "done", p, "total", total, "fps", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan job, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				var img image.Image = j.img
				if ss > 1 {
					img = postprocess.Downsample(j.img, outW, outH)
				}
				results[j.frame] = encodeFrame(cfg.OutputDir, j.frame, img)
				processed.Add(1)
			}
		}()
	}

	steps := make(map[int][]int)
	for _, s := range plan.Steps {
		steps[s.Frame] = append(steps[s.Frame], s.Rotate)
	}

	ctrl.ShowFrontText()
	ctrl.Refresh()

	produced := 0
	for f := 0; f < total; f++ {
		if ctx.Err() != nil {
			break
		}
		if autoRotateDue(f, plan.FrameInterval, plan.AutoRotateDelay) {
			ctrl.AutoRotate()
		}
		for _, d := range steps[f] {
			ctrl.Rotate(d)
		}
		ctrl.Tick()
		jobs <- job{frame: f, img: surf.Snapshot()}
		produced++
	}
	close(jobs)
	wg.Wait()
	close(done)

	return results[:produced], ctx.Err()
}

// autoRotateDue reports whether an autorotate interval elapsed between
// frame f-1 and frame f.
func autoRotateDue(f int, interval, delay time.Duration) bool {
	if delay <= 0 || interval <= 0 || f == 0 {
		return false
	}
	now := time.Duration(f) * interval
	prev := time.Duration(f-1) * interval
	return now/delay > prev/delay
}

// FrameName is the output file name of frame f.
func FrameName(f int) string {
	return fmt.Sprintf("frame_%04d.webp", f)
}

func encodeFrame(dir string, f int, img image.Image) Result {
	name := FrameName(f)
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Result{Frame: f, Name: name, Error: err.Error()}
	}
	defer out.Close()

	if err := nativewebp.Encode(out, img, nil); err != nil {
		return Result{Frame: f, Name: name, Error: fmt.Sprintf("WebP encode: %v", err)}
	}
	return Result{Frame: f, Name: name, Success: true}
}
