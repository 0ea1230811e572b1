package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud-carousel/internal/carousel"
	"cloud-carousel/internal/config"
	"cloud-carousel/internal/interact"
	"cloud-carousel/internal/sound"
	"cloud-carousel/internal/term"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func newViewCmd(opts *rootOptions) *cobra.Command {
	var (
		flags   config.Flags
		logFile string
	)
	cmd := &cobra.Command{
		Use:   "view [list]",
		Short: "Show the carousel in the terminal",
		Long: `View runs the carousel interactively in the terminal.

Keys: left/right (or h/l) rotate, space pauses, q or Esc quits.
Click an image to show its text; with --bring-to-front it also rotates to
the front. The wheel rotates when --mouse-wheel is set.

The layout is sized to the terminal when the viewer starts and keeps that
size if the terminal is resized.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listArg(args, &flags)
			cfg, err := loadConfig(opts, flags)
			if err != nil {
				return err
			}

			// The screen owns stderr while the viewer runs.
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			return runView(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&flags.AutoRotate, "autorotate", "", "Autorotation: off, left or right")
	cmd.Flags().BoolVar(&flags.MouseWheel, "mouse-wheel", false, "Rotate with the mouse wheel")
	cmd.Flags().BoolVar(&flags.BringToFront, "bring-to-front", false, "Rotate clicked images to the front")
	cmd.Flags().BoolVar(&flags.Sound, "sound", false, "Play a tick on every rotation")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Number of image decode workers (default: NumCPU)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	return cmd
}

func runView(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	sources, err := loadSources(ctx, cfg, logger)
	if err != nil {
		return err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	cc, err := cfg.Carousel()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	surf := term.New(screen, term.Options{Background: bg})
	cc.AltText, cc.TitleText = surf.AltSink(), surf.TitleSink()
	ctrl, err := newController(sources, surf, cc, logger)
	if err != nil {
		return err
	}

	if cfg.Sound {
		player, err := sound.NewPlayer(0.3)
		if err != nil {
			// Non-fatal, the viewer runs without sound
			logger.Warn("sound disabled", "err", err)
		} else {
			defer player.Close()
			ctrl.OnRotate(player.Rotate)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := carousel.NewLoop(ctrl, carousel.SystemClock{}, logger)
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	adapter := interact.NewAdapter(loop, logger)
	for {
		select {
		case <-ctx.Done():
			return <-loopErr
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				continue
			}
			if iev, ok := surf.Translate(ev); ok && !adapter.Handle(iev) {
				cancel()
			}
		}
	}
}
