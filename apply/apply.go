// Package apply implements the apply subcommand: it builds a scene, loads
// the configured stylesheets, runs the style engine over the tree and
// prints the result. With watching enabled it keeps re-applying styles as
// the sheets change on disk.
package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ecss/assets"
	"ecss/css"
	"ecss/ecs"
	"ecss/engine"
	"ecss/property"
	"ecss/scene"
	"ecss/state"
)

// Run is the apply command action.
func Run(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	log := env.Log

	if cmd.Args().Len() == 0 {
		return errors.New("no scene file specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	scenePath := cmd.Args().Get(0)

	nodes, err := scene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("unable to load scene '%s': %w", scenePath, err)
	}
	w := ecs.NewWorld()
	roots, err := scene.Build(w, ecs.None, nodes)
	if err != nil {
		return fmt.Errorf("unable to build scene '%s': %w", scenePath, err)
	}
	log.Debug("Scene built", zap.String("path", scenePath), zap.Int("roots", len(roots)), zap.Int("entities", len(w.Entities())))

	loader := assets.NewLoader(env.Cfg.Styles.Root, log)

	// The built-in baseline goes under every user sheet.
	base := css.NewParser(log).Parse(env.DefaultSheet, "builtin.css")
	attach(w, roots, base)

	paths := append(append([]string{}, env.Cfg.Styles.Sheets...), cmd.StringSlice("sheet")...)
	loaded := make(map[string]*css.Stylesheet, len(paths))
	for _, path := range paths {
		sheet, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("unable to load stylesheet: %w", err)
		}
		for _, d := range sheet.Diagnostics {
			log.Warn("Stylesheet diagnostic", zap.String("path", path), zap.String("detail", d.String()))
		}
		attach(w, roots, sheet)
		loaded[path] = sheet
	}

	eng := engine.New(property.Default(log), log)
	eng.SetAssetResolver(loader)

	stats := eng.Tick(w)
	log.Info("Styles applied",
		zap.Int("entities", stats.Entities),
		zap.Int("applied", stats.Applied),
		zap.Int("skipped", stats.Skipped))

	out := io.Writer(os.Stdout)
	if dest := cmd.Args().Get(1); len(dest) > 0 {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dest, err)
		}
		defer f.Close()
		out = f
	}
	dumpAll(out, w, roots)

	if !env.Watch {
		return nil
	}
	return watch(ctx, env, w, eng, loader, loaded, roots)
}

func attach(w *ecs.World, roots []ecs.Entity, sheet *css.Stylesheet) {
	for _, root := range roots {
		w.AttachSheet(root, sheet)
	}
}

func dumpAll(out io.Writer, w *ecs.World, roots []ecs.Entity) {
	for _, root := range roots {
		scene.Dump(out, w, root)
	}
}

// watch keeps the scene styled until the context is cancelled, swapping in
// reloaded sheets wholesale and restyling on a fixed cadence.
func watch(ctx context.Context, env *state.LocalEnv, w *ecs.World, eng *engine.Engine, loader *assets.Loader, loaded map[string]*css.Stylesheet, roots []ecs.Entity) (err error) {

	log := env.Log

	watcher, err := assets.NewWatcher(loader, log)
	if err != nil {
		return fmt.Errorf("unable to watch stylesheets: %w", err)
	}
	defer func() {
		if er := watcher.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to stop stylesheet watcher: %w", er))
		}
	}()

	for path, sheet := range loaded {
		if err := watcher.Watch(path, sheet); err != nil {
			return fmt.Errorf("unable to watch stylesheet '%s': %w", path, err)
		}
	}
	log.Info("Watching stylesheets", zap.Int("count", len(loaded)))

	ticker := time.NewTicker(time.Duration(env.Cfg.Engine.TickMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if n := w.ReplaceSheet(ev.Old.ID, ev.Sheet); n == 0 {
				log.Warn("Reloaded stylesheet is no longer attached", zap.String("path", ev.Path))
			}
		case <-ticker.C:
			if stats := eng.Tick(w); stats.Entities > 0 {
				log.Info("Styles reapplied",
					zap.Int("entities", stats.Entities),
					zap.Int("applied", stats.Applied))
				dumpAll(os.Stdout, w, roots)
			}
		}
	}
}
