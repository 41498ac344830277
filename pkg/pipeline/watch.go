package pipeline

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/registry"
)

// DefaultDebounce is how long Watch waits for further changes before it
// rebuilds.
const DefaultDebounce = 300 * time.Millisecond

// rebuildPlan is what a batch of changed files requires.
type rebuildPlan struct {
	Registry     bool
	Coverage     bool
	Dictionaries []string
}

func (p rebuildPlan) all() bool { return p.Registry || p.Coverage }

func (p rebuildPlan) empty() bool { return !p.all() && len(p.Dictionaries) == 0 }

// planRebuild maps changed files to the work they require. Registry and
// coverage changes affect every dictionary; a snapshot change affects only
// its own dictionary.
func planRebuild(paths Paths, changed []string) rebuildPlan {
	var plan rebuildPlan
	for _, p := range changed {
		p = filepath.Clean(p)
		switch {
		case p == filepath.Clean(paths.Registry):
			plan.Registry = true
		case filepath.Dir(p) == filepath.Clean(paths.Coverage):
			plan.Coverage = true
		case filepath.Dir(p) == filepath.Clean(paths.Snapshots):
			if name, ok := dictionary.SnapshotName(p); ok && !slices.Contains(plan.Dictionaries, name) {
				plan.Dictionaries = append(plan.Dictionaries, name)
			}
		}
	}
	slices.Sort(plan.Dictionaries)
	return plan
}

// Watch rebuilds dictionaries when their inputs below paths change until ctx
// is done. Changes are collected for debounce before a rebuild starts; zero
// means DefaultDebounce.
//
// Watch replaces the Runner's Registry and Usage when those files change, so
// a watched Runner must not be used by other goroutines.
func (r *Runner) Watch(ctx context.Context, paths Paths, opts Options, debounce time.Duration) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	paths = paths.WithDefaults()
	logger := r.logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer w.Close()
	for _, dir := range []string{paths.Snapshots, paths.Coverage, filepath.Dir(paths.Registry)} {
		if err := w.Add(dir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", dir)
		}
	}
	logger.Info("watching for changes", "snapshots", paths.Snapshots, "coverage", paths.Coverage)

	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending []string

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending = append(pending, ev.Name)
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			plan := planRebuild(paths, pending)
			pending = pending[:0]
			if plan.empty() {
				continue
			}
			if err := r.rebuild(ctx, paths, opts, plan); err != nil {
				logger.Error("rebuild failed", "err", err)
			}
		}
	}
}

// rebuild reloads changed shared inputs and runs the affected dictionaries.
func (r *Runner) rebuild(ctx context.Context, paths Paths, opts Options, plan rebuildPlan) error {
	logger := r.logger()
	if plan.Registry {
		reg, err := registry.Load(paths.Registry)
		if err != nil {
			return err
		}
		r.Registry = reg
	}
	if plan.Coverage {
		usage, err := coverage.NewReader(paths.Coverage, logger).Load(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "reload coverage")
		}
		r.Usage = usage
	}

	if !plan.all() {
		names := plan.Dictionaries
		if len(opts.Dictionaries) > 0 {
			names = slices.DeleteFunc(names, func(n string) bool { return !slices.Contains(opts.Dictionaries, n) })
		}
		if len(names) == 0 {
			return nil
		}
		opts.Dictionaries = names
		opts.TestMode = false
	}
	logger.Info("rebuilding", "registry", plan.Registry, "coverage", plan.Coverage, "dictionaries", opts.Dictionaries)
	_, err := r.Run(ctx, opts)
	return err
}
