// Package pipeline generates the dictionary documentation site.
//
// This package implements the batch workflow shared by the build commands
// and watch mode: load the registry and coverage data, then for every
// registered dictionary render the neighbor figures of its categories and
// write its HTML pages. By centralizing this logic, every entry point
// produces the same tree.
//
// # Architecture
//
// A run has two stages per dictionary:
//
//  1. Figures: build one neighbor graph per category and usage context with
//     pkg/neighbor, then render it to SVG with pkg/render
//  2. HTML: write the index, group, category, item and supporting data pages
//     with pkg/site
//
// Dictionaries are processed concurrently. A failure in one category or
// dictionary is logged and recorded in the run; it never aborts the batch.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(ctx, pipeline.Paths{Assets: assets}, renderer, runs, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	run, err := runner.Run(ctx, pipeline.Options{DocsPath: docs, HTML: true, Figures: true})
//	pages, figures, errs := run.Totals()
package pipeline

import (
	"path/filepath"
	"runtime"

	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/neighbor"
	"github.com/matzehuels/mmcifsite/pkg/render"
	"github.com/matzehuels/mmcifsite/pkg/site"
	"github.com/matzehuels/mmcifsite/pkg/store"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxItems is the row cap of category nodes in site figures.
	DefaultMaxItems = neighbor.DefaultMaxItems

	// RegistryFile is the registry location below the assets path.
	RegistryFile = "config/mmcif_dictionary_registry.json"
)

// DefaultConcurrency is the number of dictionaries processed at once.
var DefaultConcurrency = min(runtime.NumCPU(), 4)

// =============================================================================
// Paths
// =============================================================================

// Paths locates the source assets of a build.
//
// The assets tree holds dictionary snapshots under dictionaries/, coverage
// files under coverage/ and the registry under config/. Each of the three
// may be overridden.
type Paths struct {
	Assets    string
	Snapshots string
	Coverage  string
	Registry  string
}

// WithDefaults fills the unset locations from Assets.
func (p Paths) WithDefaults() Paths {
	if p.Snapshots == "" {
		p.Snapshots = filepath.Join(p.Assets, site.DefaultTopDir)
	}
	if p.Coverage == "" {
		p.Coverage = filepath.Join(p.Assets, "coverage")
	}
	if p.Registry == "" {
		p.Registry = filepath.Join(p.Assets, filepath.FromSlash(RegistryFile))
	}
	return p
}

// =============================================================================
// Options
// =============================================================================

// Options configure one run.
type Options struct {
	// DocsPath is the root of the generated site.
	DocsPath string
	// TopDir is the directory below DocsPath holding the dictionary trees.
	TopDir string

	HTML    bool
	Figures bool

	// Dictionaries restricts the run to the named dictionaries. Empty means
	// every public and internal dictionary of the registry.
	Dictionaries []string

	// TestMode processes only the first dictionary.
	TestMode bool

	// Purge removes each dictionary tree before writing it.
	Purge bool

	Concurrency int

	Figure FigureOptions
}

// FigureOptions control neighbor figure generation.
type FigureOptions struct {
	MaxItems      int
	MaxCategories int

	// Size is a Graphviz size attribute; empty keeps the natural size.
	Size       string
	Responsive bool

	// Cleanup removes the DOT file once its SVG is written.
	Cleanup bool

	// DotOnly writes DOT files without rendering them.
	DotOnly bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.DocsPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "docs path is required")
	}
	if !o.HTML && !o.Figures {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to generate: enable HTML or figures")
	}
	if o.TopDir == "" {
		o.TopDir = site.DefaultTopDir
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Figure.MaxItems <= 0 {
		o.Figure.MaxItems = DefaultMaxItems
	}
	if o.Figure.MaxCategories < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max categories must not be negative")
	}
	return nil
}

// Kind returns the run kind recorded in the store.
func (o *Options) Kind() store.Kind {
	switch {
	case o.HTML && o.Figures:
		return store.KindAll
	case o.Figures:
		return store.KindFigures
	default:
		return store.KindHTML
	}
}

func (o FigureOptions) renderOptions() render.Options {
	return render.Options{Format: render.SVG, Size: o.Size, Responsive: o.Responsive}
}

// leadingGroups lists the groups shown first on a dictionary's group index.
var leadingGroups = map[string][]string{
	"mmcif_mdb": {"mdb_group"},
	"mmcif_sas": {"sas_group"},
	"mmcif_ma":  {"ma_group"},
	"mmcif_nef": {"nef_group"},
	"mmcif_ihm": {"ihm_group"},
}
