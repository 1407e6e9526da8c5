package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/eventbridge/internal/app"
	"github.com/dshills/eventbridge/internal/config"
	"github.com/dshills/eventbridge/internal/script"
)

type runOptions struct {
	actions string
	docs    int
}

func newRunCmd(c *cli) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run SCRIPT.lua",
		Short: "Run a script, replay actions, then shut down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.actions, "actions", "a", "", "YAML action file replayed after the script")
	cmd.Flags().IntVarP(&opts.docs, "docs", "n", 1, "number of documents to open before the script runs")
	// Read through viper as preferences.watch, so the config file can set it too.
	cmd.Flags().BoolP("watch", "w", false, "keep running and reload color preferences when the config file changes")
	return cmd
}

func (c *cli) run(ctx context.Context, cmd *cobra.Command, scriptPath string, opts *runOptions) error {
	if opts.docs < 0 {
		return fmt.Errorf("--docs must not be negative, got %d", opts.docs)
	}

	var actions []Action
	if opts.actions != "" {
		var err error
		if actions, err = LoadActions(opts.actions); err != nil {
			return err
		}
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, closer, err := app.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer closer.Close()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	engine, err := script.New(a, script.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		a.Shutdown()
		return err
	}
	// Exit hooks release listeners into the Lua state, so it closes last.
	defer func() {
		a.Shutdown()
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Msg("close script engine")
		}
	}()

	for i := 0; i < opts.docs; i++ {
		if _, err := a.OpenDocument(fmt.Sprintf("untitled-%d", i+1)); err != nil {
			return err
		}
	}

	if err := engine.RunFile(scriptPath); err != nil {
		return fmt.Errorf("run %s: %w", scriptPath, err)
	}
	if err := Replay(a, actions); err != nil {
		return err
	}
	stats := engine.Registry().Stats()
	log.Info().
		Int("actions", len(actions)).
		Int("listeners", engine.Listeners()).
		Uint64("dispatches", stats.Dispatches).
		Uint64("callback_failures", stats.Failures).
		Dur("max_callback", stats.MaxCallTime).
		Msg("script finished")

	if !cfg.Preferences.Watch {
		return nil
	}
	return watch(ctx, a, c, log)
}

// watch applies preference reloads on this goroutine until ctx ends.
func watch(ctx context.Context, a *app.Application, c *cli, log zerolog.Logger) error {
	if c.v.ConfigFileUsed() == "" {
		return errors.New("--watch needs a config file")
	}
	loop := a.Loop()
	a.Preferences().Watch(c.v, func(fn func()) {
		if err := loop.Post(fn); err != nil {
			log.Debug().Err(err).Msg("preference reload dropped")
		}
	}, app.WithComponent(log, "config"))

	log.Info().Str("file", c.v.ConfigFileUsed()).Msg("watching preferences")
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
