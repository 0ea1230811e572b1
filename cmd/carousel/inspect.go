package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"cloud-carousel/internal/compositor"
	"cloud-carousel/internal/config"

	"github.com/spf13/cobra"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var flags config.Flags
	cmd := &cobra.Command{
		Use:   "inspect [list]",
		Short: "Print the loaded images and their initial placement",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listArg(args, &flags)
			cfg, err := loadConfig(opts, flags)
			if err != nil {
				return err
			}
			return runInspect(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&flags.Width, "width", 0, "Surface width in pixels (default: 640)")
	cmd.Flags().IntVar(&flags.Height, "height", 0, "Surface height in pixels (default: 360)")
	return cmd
}

func runInspect(cmd *cobra.Command, cfg config.Config) error {
	logger := slog.Default()
	sources, err := loadSources(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	cc, err := cfg.Carousel()
	if err != nil {
		return err
	}
	surf := compositor.New(cfg.Width, cfg.Height, compositor.Options{})
	ctrl, err := newController(sources, surf, cc, logger)
	if err != nil {
		return err
	}
	ctrl.Refresh()

	p := ctrl.Params()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Surface: %dx%d, centre (%.1f, %.1f), radii %.1f x %.1f\n",
		cfg.Width, cfg.Height, p.XCentre, p.YCentre, p.XRadius, p.YRadius)
	fmt.Fprintf(out, "Front: %d, autorotate: %s\n\n", ctrl.Front(), cc.AutoRotate)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSRC\tSIZE\tBOX\tZ\tREFLECTION\tALT\tTITLE")
	for _, it := range ctrl.Registry().Items() {
		refl := "-"
		if it.Reflection != nil {
			b := it.Reflection.Box
			refl = fmt.Sprintf("%dx%d@%d,%d", b.W, b.H, b.X, b.Y)
		}
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%dx%d@%d,%d\t%d\t%s\t%s\t%s\n",
			it.Index, it.Src, it.Width, it.Height,
			it.Box.W, it.Box.H, it.Box.X, it.Box.Y, it.Box.Z,
			refl, it.Alt, it.Title)
	}
	return w.Flush()
}
