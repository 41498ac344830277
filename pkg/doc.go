// Package pkg provides the libraries behind mmcifsite, the PDBx/mmCIF
// dictionary documentation site generator.
//
// # Overview
//
// mmcifsite turns exported dictionary snapshots into a static site: one tree
// per dictionary with index, group, category and item pages, plus a Graphviz
// diagram of every category's relationship neighborhood. The pkg directory
// is organized by concern:
//
//  1. Domain model: [dictionary], [coverage], [registry]
//  2. Figures: [neighbor], [render]
//  3. Site: [site]
//  4. Orchestration: [pipeline]
//  5. Infrastructure: [cache], [store], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow through a build:
//
//	snapshots + coverage counts + registry
//	         ↓
//	    [dictionary], [coverage], [registry] (load sources)
//	         ↓
//	    [neighbor] (category neighborhood as DOT)
//	         ↓
//	    [render] (DOT to SVG, through the [cache])
//	         ↓
//	    [site] (HTML pages, downloads, preview server)
//
// [pipeline] drives the whole sequence per dictionary and records each run
// in a [store].
//
// # Quick Start
//
// Build the figure of one category:
//
//	d, _ := dictionary.Loader{Dir: "assets/dictionaries"}.Load("mmcif_pdbx_v50")
//	b := neighbor.NewBuilder(d)
//	g := b.Build("atom_site", neighbor.Options{MaxItems: 20})
//
//	rd, _ := render.New(render.KindGraphviz, "")
//	svg, _ := rd.Render(ctx, g.DOT(), render.Options{Format: render.SVG})
//
// Generate the full site:
//
//	runner, _ := pipeline.NewRunner(ctx, pipeline.Paths{Assets: "assets"}, rd, store.NullStore{}, logger)
//	run, err := runner.Run(ctx, pipeline.Options{DocsPath: "docs", HTML: true, Figures: true})
//
// # Main Packages
//
// [dictionary] - In-memory dictionary model decoded from JSON or YAML
// snapshots: categories, items, parent/child relations, groups, units and
// history.
//
// [coverage] - Per-item usage counts for the archive and the chemical
// component, BIRD and BIRD family reference dictionaries.
//
// [registry] - The list of public, other and internal dictionaries with
// their titles and schema file names.
//
// [neighbor] - Builds the Graphviz description of a category and the
// categories holding parents or children of its items, with row capping and
// usage filtering.
//
// [render] - Graphviz backends (embedded library or external dot binary)
// and a caching wrapper keyed on the DOT text.
//
// [site] - Page layout, HTML fragments, download pages and the preview HTTP
// server.
//
// [pipeline] - Runs the figure and HTML stages over the registered
// dictionaries, and rebuilds on source changes in watch mode.
//
// [cache] - Render cache with null, file and Redis backends.
//
// [store] - Run history with null, file and MongoDB backends.
//
// [observability] - Hooks for site, cache and HTTP events with a Prometheus
// implementation.
package pkg
