package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/registry"
	"github.com/matzehuels/mmcifsite/pkg/render"
	"github.com/matzehuels/mmcifsite/pkg/store"
)

const testRegistry = `{
  "mmcif_dictionary_registry": {
    "pdbxDictionaryNameList": ["mmcif_test"],
    "otherDictionaryNameList": ["mmcif_other"],
    "internalDictionaryNameList": ["mmcif_internal"],
    "dictionaryInfo": {
      "mmcif_test": {"title": "Test", "description": "Test dictionary", "schema": "pdbx-test"},
      "mmcif_other": {"title": "Other", "description": "Other dictionary", "schema": null},
      "mmcif_internal": {"title": "Internal", "description": "Private", "schema": null}
    }
  }
}`

type mapLoader map[string]*dictionary.Dictionary

func (m mapLoader) Load(name string) (*dictionary.Dictionary, error) {
	d, ok := m[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeDictionaryNotFound, "no dictionary %s", name)
	}
	return d, nil
}

type stubRenderer struct {
	err   error
	calls atomic.Int32
}

func (*stubRenderer) Name() string { return "stub" }

func (s *stubRenderer) Render(_ context.Context, dot []byte, _ render.Options) ([]byte, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not a graph")
	}
	return []byte("<svg/>"), nil
}

func testDictionary() *dictionary.Dictionary {
	return dictionary.New(dictionary.Snapshot{
		Title:   "mmcif_test.dic",
		Version: "1.0",
		Groups: []dictionary.Group{
			{Name: "entity_group", Description: "Entities", Categories: []string{"entity", "entity_poly"}},
		},
		Categories: []dictionary.Category{
			{Name: "entity", Keys: []string{"id"}, Items: []dictionary.Item{{Name: "id"}}},
			{Name: "entity_poly", Keys: []string{"entity_id"}, Items: []dictionary.Item{
				{Name: "entity_id", Parents: []string{"_entity.id"}},
			}},
		},
	})
}

func testUsage() *coverage.Usage {
	u := coverage.NewUsage()
	u.Set(coverage.Archive, map[string]int{"_entry.id": 10, "_entity.id": 10, "_entity_poly.entity_id": 5})
	return u
}

func testRunner(t *testing.T, rd render.Renderer) *Runner {
	t.Helper()
	reg, err := registry.Parse([]byte(testRegistry))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	runs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return &Runner{
		Loader:   mapLoader{"mmcif_test": testDictionary()},
		Registry: reg,
		Usage:    testUsage(),
		Renderer: rd,
		Store:    runs,
		Logger:   log.New(io.Discard),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"html", Options{DocsPath: "docs", HTML: true}, false},
		{"figures", Options{DocsPath: "docs", Figures: true}, false},
		{"no docs path", Options{HTML: true}, true},
		{"nothing selected", Options{DocsPath: "docs"}, true},
		{"negative max categories", Options{DocsPath: "docs", Figures: true, Figure: FigureOptions{MaxCategories: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.opts.TopDir != "dictionaries" {
				t.Errorf("TopDir = %q, want dictionaries", tt.opts.TopDir)
			}
			if tt.opts.Concurrency != DefaultConcurrency {
				t.Errorf("Concurrency = %d, want %d", tt.opts.Concurrency, DefaultConcurrency)
			}
			if tt.opts.Figure.MaxItems != DefaultMaxItems {
				t.Errorf("MaxItems = %d, want %d", tt.opts.Figure.MaxItems, DefaultMaxItems)
			}
		})
	}
}

func TestOptionsKind(t *testing.T) {
	tests := []struct {
		html, figures bool
		want          store.Kind
	}{
		{true, false, store.KindHTML},
		{false, true, store.KindFigures},
		{true, true, store.KindAll},
	}
	for _, tt := range tests {
		o := Options{HTML: tt.html, Figures: tt.figures}
		if got := o.Kind(); got != tt.want {
			t.Errorf("Kind(html=%v, figures=%v) = %q, want %q", tt.html, tt.figures, got, tt.want)
		}
	}
}

func TestPathsDefaults(t *testing.T) {
	p := Paths{Assets: "assets"}.WithDefaults()
	if want := filepath.Join("assets", "dictionaries"); p.Snapshots != want {
		t.Errorf("Snapshots = %q, want %q", p.Snapshots, want)
	}
	if want := filepath.Join("assets", "coverage"); p.Coverage != want {
		t.Errorf("Coverage = %q, want %q", p.Coverage, want)
	}
	if want := filepath.Join("assets", "config", "mmcif_dictionary_registry.json"); p.Registry != want {
		t.Errorf("Registry = %q, want %q", p.Registry, want)
	}

	p = Paths{Assets: "assets", Coverage: "elsewhere"}.WithDefaults()
	if p.Coverage != "elsewhere" {
		t.Errorf("Coverage = %q, want override kept", p.Coverage)
	}
}

func TestDictionaryNames(t *testing.T) {
	r := testRunner(t, nil)

	got := r.dictionaryNames(Options{})
	want := []string{"mmcif_test", "mmcif_other", "mmcif_internal"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("dictionaryNames() = %v, want %v", got, want)
	}
	if got := r.dictionaryNames(Options{TestMode: true}); len(got) != 1 || got[0] != "mmcif_test" {
		t.Errorf("dictionaryNames(test mode) = %v, want [mmcif_test]", got)
	}
	if got := r.dictionaryNames(Options{Dictionaries: []string{"mmcif_other"}}); len(got) != 1 || got[0] != "mmcif_other" {
		t.Errorf("dictionaryNames(selected) = %v, want [mmcif_other]", got)
	}
}

func TestCategoryFigures(t *testing.T) {
	u := testUsage()
	u.Set(coverage.ChemComp, map[string]int{"_entity.id": 2})

	figs := CategoryFigures("entity", "mmcif_test.dic", "1.0", u)
	var variants []string
	for _, f := range figs {
		variants = append(variants, f.Variant())
	}
	if got, want := strings.Join(variants, ","), ",archive,cc"; got != want {
		t.Fatalf("variants = %q, want %q", got, want)
	}

	if !strings.Contains(figs[0].Title, "Category Relationship Diagram for <b>ENTITY</b>") {
		t.Errorf("full title = %q", figs[0].Title)
	}
	if figs[0].SubTitle != " in dictionary mmcif_test.dic version 1.0 " {
		t.Errorf("full subtitle = %q", figs[0].SubTitle)
	}
	if !strings.Contains(figs[1].Title, "Abbreviated Category Relationship Diagram") {
		t.Errorf("archive title = %q", figs[1].Title)
	}
	if !strings.HasSuffix(figs[1].SubTitle, "used in current PDB entries.") {
		t.Errorf("archive subtitle = %q", figs[1].SubTitle)
	}
	if !strings.HasSuffix(figs[2].SubTitle, "used in the chemical reference dictionary.") {
		t.Errorf("cc subtitle = %q", figs[2].SubTitle)
	}

	// Unused categories still get the archive figure; Build decides it is empty.
	if got := CategoryFigures("entity", "t", "1", nil); len(got) != 2 {
		t.Errorf("CategoryFigures(nil usage) = %d figures, want 2", len(got))
	}
}

func TestRun(t *testing.T) {
	docs := t.TempDir()
	rd := &stubRenderer{}
	r := testRunner(t, rd)

	run, err := r.Run(context.Background(), Options{
		DocsPath:     docs,
		HTML:         true,
		Figures:      true,
		Dictionaries: []string{"mmcif_test"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Status != store.StatusSucceeded {
		t.Errorf("Status = %q, want %q (%v)", run.Status, store.StatusSucceeded, run.Dictionaries)
	}
	if run.Kind != store.KindAll {
		t.Errorf("Kind = %q, want %q", run.Kind, store.KindAll)
	}

	pages, figures, errs := run.Totals()
	if pages != 10 || figures != 4 || errs != 0 {
		t.Errorf("Totals() = %d, %d, %d, want 10, 4, 0", pages, figures, errs)
	}
	if got := rd.calls.Load(); got != 4 {
		t.Errorf("renderer calls = %d, want 4", got)
	}

	tree := filepath.Join(docs, "dictionaries", "mmcif_test.dic")
	for _, rel := range []string{
		"Index/index.html",
		"Groups/index.html",
		"Groups/entity_group.html",
		"Categories/entity_poly.html",
		"Items/_entity_poly.entity_id.html",
		"Data/index.html",
		"Images/Categories/entity_neighbors.svg",
		"Images/Categories/entity_neighbors.dot",
		"Images/Categories/entity_poly_neighbors_archive.svg",
	} {
		if !exists(filepath.Join(tree, filepath.FromSlash(rel))) {
			t.Errorf("missing %s", rel)
		}
	}
	if exists(filepath.Join(tree, "Images", "Categories", "entity_neighbors_cc.svg")) {
		t.Error("figure written for an unused context")
	}
	if !exists(filepath.Join(docs, "downloads", "downloads.html")) {
		t.Error("download pages not written")
	}

	saved, err := r.Store.Get(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if saved.Status != run.Status || len(saved.Dictionaries) != 1 {
		t.Errorf("saved run = %+v, want %+v", saved, run)
	}
}

func TestRunFigureFailure(t *testing.T) {
	docs := t.TempDir()
	r := testRunner(t, &stubRenderer{err: errors.New(errors.ErrCodeInternal, "dot crashed")})

	run, err := r.RunFigures(context.Background(), Options{DocsPath: docs, Dictionaries: []string{"mmcif_test"}})
	if err != nil {
		t.Fatalf("RunFigures() error = %v", err)
	}
	if run.Status != store.StatusFailed {
		t.Errorf("Status = %q, want %q", run.Status, store.StatusFailed)
	}
	if got := len(run.Dictionaries[0].Errors); got != 4 {
		t.Errorf("errors = %d, want 4", got)
	}

	dir := filepath.Join(docs, "dictionaries", "mmcif_test.dic", "Images", "Categories")
	svgs, _ := filepath.Glob(filepath.Join(dir, "*.svg"))
	if len(svgs) != 0 {
		t.Errorf("failed renders left %v", svgs)
	}
	if !exists(filepath.Join(dir, "entity_neighbors.dot")) {
		t.Error("DOT file missing after a failed render")
	}
}

func TestRunFigureOptions(t *testing.T) {
	t.Run("cleanup", func(t *testing.T) {
		docs := t.TempDir()
		r := testRunner(t, &stubRenderer{})
		opts := Options{DocsPath: docs, Figure: FigureOptions{Cleanup: true}}
		if _, err := r.RunFigures(context.Background(), opts); err != nil {
			t.Fatalf("RunFigures() error = %v", err)
		}
		dir := filepath.Join(docs, "dictionaries", "mmcif_test.dic", "Images", "Categories")
		if exists(filepath.Join(dir, "entity_neighbors.dot")) {
			t.Error("DOT file kept with cleanup")
		}
		if !exists(filepath.Join(dir, "entity_neighbors.svg")) {
			t.Error("SVG missing")
		}
	})

	t.Run("dot only", func(t *testing.T) {
		docs := t.TempDir()
		r := testRunner(t, nil)
		opts := Options{DocsPath: docs, Dictionaries: []string{"mmcif_test"}, Figure: FigureOptions{DotOnly: true}}
		run, err := r.RunFigures(context.Background(), opts)
		if err != nil {
			t.Fatalf("RunFigures() error = %v", err)
		}
		if _, figures, _ := run.Totals(); figures != 4 {
			t.Errorf("figures = %d, want 4", figures)
		}
		dir := filepath.Join(docs, "dictionaries", "mmcif_test.dic", "Images", "Categories")
		if exists(filepath.Join(dir, "entity_neighbors.svg")) {
			t.Error("SVG written in DOT-only mode")
		}
	})

	t.Run("no renderer", func(t *testing.T) {
		r := testRunner(t, nil)
		_, err := r.RunFigures(context.Background(), Options{DocsPath: t.TempDir()})
		if !errors.Is(err, errors.ErrCodeRendererUnavailable) {
			t.Errorf("RunFigures() error = %v, want renderer unavailable", err)
		}
	})
}

func TestRunMissingDictionary(t *testing.T) {
	r := testRunner(t, nil)
	run, err := r.RunHTML(context.Background(), Options{DocsPath: t.TempDir(), Dictionaries: []string{"mmcif_missing"}})
	if err != nil {
		t.Fatalf("RunHTML() error = %v", err)
	}
	if run.Status != store.StatusFailed {
		t.Errorf("Status = %q, want %q", run.Status, store.StatusFailed)
	}
	if len(run.Dictionaries) != 1 || len(run.Dictionaries[0].Errors) != 1 {
		t.Errorf("Dictionaries = %+v, want one error", run.Dictionaries)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := testRunner(t, &stubRenderer{})
	run, err := r.Run(ctx, Options{DocsPath: t.TempDir(), HTML: true, Dictionaries: []string{"mmcif_test"}})
	if err == nil {
		t.Fatal("Run() error = nil on a canceled context")
	}
	if run == nil {
		t.Fatal("Run() returned no run record")
	}
}
