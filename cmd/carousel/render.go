package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud-carousel/internal/batch"
	"cloud-carousel/internal/compositor"
	"cloud-carousel/internal/config"

	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		flags  config.Flags
		rotate string
	)
	cmd := &cobra.Command{
		Use:   "render [list]",
		Short: "Render a carousel session to WebP frames",
		Long: `Render simulates a carousel session and writes every frame to
OUT/frame_NNNN.webp plus OUT/manifest.json.

The session rotates on its own when --autorotate is set. --rotate scripts
user rotations as frame:steps pairs, for example "10:1,60:-2".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listArg(args, &flags)
			cfg, err := loadConfig(opts, flags)
			if err != nil {
				return err
			}
			steps, err := parseSteps(rotate)
			if err != nil {
				return err
			}
			return runRender(cmd, cfg, steps)
		},
	}

	cmd.Flags().StringVarP(&flags.OutputDir, "out", "o", "", "Output directory (default: carousel-frames)")
	cmd.Flags().IntVar(&flags.Frames, "frames", 0, "Number of frames (default: 120)")
	cmd.Flags().IntVar(&flags.FPS, "fps", 0, "Frames per second of the simulated session (default: 60)")
	cmd.Flags().IntVar(&flags.Width, "width", 0, "Frame width in pixels (default: 640)")
	cmd.Flags().IntVar(&flags.Height, "height", 0, "Frame height in pixels (default: 360)")
	cmd.Flags().IntVar(&flags.Supersample, "supersample", 0, "Render at this multiple of the frame size and downsample (default: 1)")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	cmd.Flags().StringVar(&flags.AutoRotate, "autorotate", "", "Autorotation: off, left or right")
	cmd.Flags().StringVar(&rotate, "rotate", "", "Scripted rotations as frame:steps,...")

	return cmd
}

func runRender(cmd *cobra.Command, cfg config.Config, steps []batch.Step) error {
	ctx := cmd.Context()
	logger := slog.Default()

	sources, err := loadSources(ctx, cfg, logger)
	if err != nil {
		return err
	}

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	ss := cfg.Supersample
	surf := compositor.New(cfg.Width*ss, cfg.Height*ss, compositor.Options{Background: bg})

	cc, err := cfg.Carousel()
	if err != nil {
		return err
	}
	cc = cc.Scaled(float64(ss))
	cc.AltText, cc.TitleText = surf.AltSink(), surf.TitleSink()
	ctrl, err := newController(sources, surf, cc, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Carousel → WebP frames\n")
	fmt.Fprintf(out, "Images: %d, Frames: %d, Size: %dx%d, Workers: %d\n",
		ctrl.Registry().Len(), cfg.Frames, cfg.Width, cfg.Height, cfg.Workers)
	fmt.Fprintf(out, "Output: %s\n", cfg.OutputDir)
	fmt.Fprintln(out, "------------------------------------------------------------")

	start := time.Now()
	plan := batch.Plan{
		Frames:        cfg.Frames,
		FrameInterval: cc.FrameInterval,
		Steps:         steps,
	}
	if cc.AutoRotate.Direction() != 0 {
		plan.AutoRotateDelay = cc.AutoRotateDelay
	}
	results, err := batch.Run(ctx, batch.Config{
		OutputDir:   cfg.OutputDir,
		Workers:     cfg.Workers,
		Supersample: ss,
		Logger:      logger,
	}, ctrl, surf, plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "------------------------------------------------------------")
	fmt.Fprintf(out, "Done in %.1fs\n", time.Since(start).Seconds())

	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Fprintf(out, "Rendered: %d/%d\n", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		fmt.Fprintf(out, "\nFailed (%d):\n", len(failed))
		limit := min(len(failed), 20)
		for _, r := range failed[:limit] {
			fmt.Fprintf(out, "  %s: %s\n", r.Name, r.Error)
		}
		if len(failed) > limit {
			fmt.Fprintf(out, "  ... and %d more\n", len(failed)-limit)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results, ctrl.Registry().Items(), plan.FrameInterval); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Fprintf(out, "Manifest: %s\n", manifestPath)
	return nil
}

// parseSteps parses "frame:steps" pairs separated by commas.
func parseSteps(s string) ([]batch.Step, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var steps []batch.Step
	for _, part := range strings.Split(s, ",") {
		frame, dir, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid --rotate step %q: want frame:steps", part)
		}
		f, err := strconv.Atoi(frame)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid --rotate frame %q", frame)
		}
		d, err := strconv.Atoi(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid --rotate steps %q", dir)
		}
		steps = append(steps, batch.Step{Frame: f, Rotate: d})
	}
	return steps, nil
}
