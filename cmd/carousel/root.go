package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud-carousel/internal/carousel"
	"cloud-carousel/internal/config"
	"cloud-carousel/internal/imagesrc"
	"cloud-carousel/internal/itemlist"
	"cloud-carousel/internal/loader"
	"cloud-carousel/internal/reflection"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "carousel",
		Short: "Pseudo-3D image carousel",
		Long: `Carousel arranges a set of images on a rotating elliptical path with
scaling, stacking order and optional reflections.

Images come from an XML or YAML list file or from a directory. The carousel
can be rendered to a WebP frame sequence, viewed interactively in the
terminal, or inspected.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("CAROUSEL_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newViewCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))

	return cmd
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// loadConfig merges the config file, CAROUSEL_* environment and flags.
func loadConfig(opts *rootOptions, flags config.Flags) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Resolve(flags)
	if cfg.ItemList == "" {
		return cfg, fmt.Errorf("no image list: pass a list file or directory, or set item_list")
	}
	return cfg, nil
}

// loadSources parses the image list and decodes every image. Images that
// fail are logged and left out.
func loadSources(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]carousel.Source, error) {
	defs, err := itemlist.Parse(cfg.ItemList)
	if err != nil {
		return nil, err
	}

	results := loader.Load(ctx, loader.Config{
		Resolver: imagesrc.NewCache(),
		Workers:  cfg.Workers,
		Logger:   logger,
	}, defs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sources, err := loader.Ready(results, logger)
	if err != nil {
		logger.Warn("some images failed to load", "loaded", len(sources), "total", len(defs))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.ItemList, itemlist.ErrNoImages)
	}
	return sources, nil
}

// newController builds the registry for surface and the controller that
// drives it. cc must already carry the surface's text sinks.
func newController(sources []carousel.Source, surface carousel.Surface, cc carousel.Config, logger *slog.Logger) (*carousel.Controller, error) {
	gen := reflection.Detect(surface)
	if gen == nil && cc.ReflectionHeight > 0 {
		logger.Info("surface cannot draw images, reflections disabled")
	}
	reg := carousel.NewRegistry(sources, cc, gen, logger)
	return carousel.NewController(reg, surface, cc, logger)
}

// listArg fills flags.ItemList from the optional positional argument.
func listArg(args []string, flags *config.Flags) {
	if len(args) > 0 {
		flags.ItemList = args[0]
	}
}
