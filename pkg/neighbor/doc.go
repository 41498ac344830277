// Package neighbor builds Graphviz descriptions of the relationship
// neighborhood of a dictionary category.
//
// A neighbor graph shows one focal category together with the categories
// holding parents or children of its items. Each category is a node drawn as
// an HTML-like table: a colored header row followed by one row per item, each
// row carrying a PORT anchor so that edges can attach to individual items.
// Edges run from the child item to the parent item.
//
// # Row selection
//
// Rows are ordered key items first, then items related to the focal
// category, then the rest. Key and relation items are always retained: they
// are never truncated by [Options.MaxItems], never dropped by usage
// filtering, and never suppress an edge. When rows are cut, a single
// "... and others ..." row closes the node.
//
// # Usage filtering
//
// With [Options.Filter], categories and items with zero usage in
// [Options.Context] are left out. If the focal category itself is unused the
// result is empty and the caller should skip the figure.
//
// # Usage
//
//	b := neighbor.NewBuilder(dict, neighbor.WithLinks(paths))
//	b.SetUsageCounts(coverage.Archive, counts)
//	g := b.Build("atom_site", neighbor.Options{MaxItems: 20})
//	if !g.Empty() {
//	    os.WriteFile("atom_site_neighbors.dot", []byte(g.DOT()), 0o644)
//	}
//
// Build does no I/O; rendering the DOT text is left to pkg/render.
package neighbor
