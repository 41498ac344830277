package neighbor

import (
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
)

// Source is the read-only dictionary query surface the builder needs.
// *dictionary.Dictionary satisfies it.
type Source interface {
	ItemNames(category string) []string
	KeyItems(category string) []string
	MandatoryCode(category, attribute string) string
	MandatoryCodeAlt(category, attribute string) string
	ParentItems(category, attribute string) []string
	ChildItems(category, attribute string) []string
}

// Linker resolves page URLs for categories and items. Without a Linker,
// nodes carry no HREF attributes.
type Linker interface {
	CategoryURL(category string) string
	ItemURL(item string) string
}

// Builder produces neighbor graphs for the categories of one dictionary.
//
// A Builder is meant to be owned by a single build session. Usage counts
// must be registered before concurrent calls to Build.
type Builder struct {
	src    Source
	usage  *coverage.Usage
	links  Linker
	fonts  Fonts
	logger *log.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLinks sets the URL resolver for node and row links.
func WithLinks(l Linker) Option {
	return func(b *Builder) { b.links = l }
}

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithUsage shares preloaded usage counts. SetUsageCounts on the builder
// then writes through to u.
func WithUsage(u *coverage.Usage) Option {
	return func(b *Builder) {
		if u != nil {
			b.usage = u
		}
	}
}

// WithFonts overrides the default label fonts.
func WithFonts(f Fonts) Option {
	return func(b *Builder) { b.fonts = f }
}

// NewBuilder creates a Builder reading from src.
func NewBuilder(src Source, opts ...Option) *Builder {
	b := &Builder{
		src:    src,
		usage:  coverage.NewUsage(),
		fonts:  DefaultFonts,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetUsageCounts replaces the item usage counts registered for ctx.
func (b *Builder) SetUsageCounts(ctx coverage.Context, counts map[string]int) {
	b.usage.Set(ctx, counts)
	b.logger.Debug("registered usage counts", "context", ctx,
		"items", b.usage.Items(ctx))
}

// CategoryUsageCount returns the usage count of a category in ctx, or 0.
func (b *Builder) CategoryUsageCount(category string, ctx coverage.Context) int {
	return b.usage.CategoryCount(category, ctx)
}

// Usage returns the usage counts the builder reads.
func (b *Builder) Usage() *coverage.Usage { return b.usage }

// retention decides which items survive usage filtering and truncation.
type retention struct {
	keys    map[string]bool
	related map[string]bool
}

// isAlwaysRetained reports whether an item is a key or takes part in a
// relation with the focal category. Such items are never filtered out,
// never truncated away, and never suppress an edge.
func (r retention) isAlwaysRetained(item string) bool {
	return r.keys[item] || r.related[item]
}

// survivesFilter reports whether item stays visible under usage filtering.
func (b *Builder) survivesFilter(keep retention, item string, opts Options) bool {
	return !opts.Filter || keep.isAlwaysRetained(item) || b.usage.ItemUsed(item, opts.Context)
}

// Build computes the neighbor graph around category. It performs no I/O and
// never fails; missing data shrinks the output instead.
func (b *Builder) Build(category string, opts Options) *Graph {
	opts = opts.withDefaults()
	g := &Graph{Category: category}

	if opts.Filter && !b.usage.CategoryUsed(category, opts.Context) {
		b.logger.Debug("category unused, skipping figure", "category", category, "context", opts.Context)
		return g
	}

	focal := b.src.ItemNames(category)
	related := b.relationItems(focal)

	neighbors := opts.Neighbors
	if neighbors == nil {
		neighbors = relatedCategories(related)
	}
	cats := adjacentCategories(category, neighbors, opts.MaxCategories)

	keep := retention{keys: make(map[string]bool), related: related}
	for _, cat := range cats {
		for _, k := range b.src.KeyItems(cat) {
			keep.keys[k] = true
		}
	}

	for _, cat := range cats {
		if opts.Filter && !b.usage.CategoryUsed(cat, opts.Context) {
			continue
		}
		hl := Adjacent
		if cat == category {
			hl = Current
		}
		g.Nodes = append(g.Nodes, b.node(cat, hl, keep, opts))
	}
	g.Rendered = len(g.Nodes)
	g.Edges = b.edges(g.Nodes, keep, opts)
	g.Lines = b.lines(g, opts)
	return g
}

// relationItems returns every focal item with a parent or child, together
// with those parents and children.
func (b *Builder) relationItems(focal []string) map[string]bool {
	related := make(map[string]bool)
	for _, item := range focal {
		cat, att := dictionary.CategoryPart(item), dictionary.AttributePart(item)
		rel := slices.Concat(b.src.ParentItems(cat, att), b.src.ChildItems(cat, att))
		if len(rel) == 0 {
			continue
		}
		related[item] = true
		for _, r := range rel {
			related[r] = true
		}
	}
	return related
}

func relatedCategories(related map[string]bool) []string {
	var out []string
	for item := range related {
		out = append(out, dictionary.CategoryPart(item))
	}
	return out
}

// adjacentCategories returns focal plus neighbors, sorted and deduplicated.
// When capped, the focal category is always kept.
func adjacentCategories(focal string, neighbors []string, limit int) []string {
	set := map[string]bool{focal: true}
	for _, n := range neighbors {
		if n != "" {
			set[n] = true
		}
	}
	cats := make([]string, 0, len(set))
	for c := range set {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	if limit <= 0 || len(cats) <= limit {
		return cats
	}

	out := []string{focal}
	for _, c := range cats {
		if len(out) == limit {
			break
		}
		if c != focal {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// node lays out the rows of one category.
func (b *Builder) node(cat string, hl Highlight, keep retention, opts Options) Node {
	n := Node{Category: cat, Highlight: hl}

	all := b.src.ItemNames(cat)
	if len(all) == 0 {
		n.Placeholder = true
		for item := range keep.related {
			if dictionary.CategoryPart(item) == cat {
				n.Rows = append(n.Rows, Row{Item: item, Attribute: dictionary.AttributePart(item), Icon: "none"})
			}
		}
		sort.Slice(n.Rows, func(i, j int) bool { return n.Rows[i].Item < n.Rows[j].Item })
		return n
	}
	all = slices.Clone(all)
	sort.Strings(all)

	inCategory := make(map[string]bool, len(all))
	for _, item := range all {
		inCategory[item] = true
	}

	keys := slices.Clone(b.src.KeyItems(cat))
	sort.Strings(keys)
	isKey := make(map[string]bool, len(keys))
	var ordered []string
	for _, k := range keys {
		if !inCategory[k] {
			b.logger.Warn("key item missing from category", "category", cat, "item", k)
			continue
		}
		isKey[k] = true
		ordered = append(ordered, k)
	}
	for _, item := range all {
		if !isKey[item] && keep.related[item] {
			ordered = append(ordered, item)
		}
	}
	for _, item := range all {
		if isKey[item] || keep.related[item] {
			continue
		}
		if !b.survivesFilter(keep, item, opts) {
			continue
		}
		ordered = append(ordered, item)
	}

	minimum := 0
	for _, item := range ordered {
		if keep.isAlwaysRetained(item) {
			minimum++
		}
	}
	limit := max(minimum, opts.MaxItems)
	if len(ordered) > limit {
		n.Omitted = len(ordered) - limit
		ordered = ordered[:limit]
	}

	for _, item := range ordered {
		att := dictionary.AttributePart(item)
		n.Rows = append(n.Rows, Row{
			Item:      item,
			Attribute: att,
			Key:       isKey[item],
			Icon: b.usage.ItemIconType(item, isKey[item],
				dictionary.IsMandatory(b.src.MandatoryCode(cat, att)),
				dictionary.IsMandatory(b.src.MandatoryCodeAlt(cat, att))),
		})
	}
	return n
}

// edges links rendered rows, child side first. Each unordered pair appears
// once and both ends always reference rendered anchors.
func (b *Builder) edges(nodes []Node, keep retention, opts Options) []Edge {
	anchored := make(map[string]bool)
	for _, n := range nodes {
		for _, r := range n.Rows {
			anchored[r.Item] = true
		}
	}
	visible := func(item string) bool {
		return anchored[item] && b.survivesFilter(keep, item, opts)
	}

	type pair struct{ a, b string }
	seen := make(map[pair]bool)
	var out []Edge
	add := func(child, parent string) {
		if child == parent || seen[pair{child, parent}] {
			return
		}
		if !visible(child) || !visible(parent) {
			return
		}
		seen[pair{child, parent}] = true
		seen[pair{parent, child}] = true
		out = append(out, Edge{Child: child, Parent: parent})
	}

	for _, n := range nodes {
		items := b.src.ItemNames(n.Category)
		if n.Placeholder {
			for _, r := range n.Rows {
				items = append(items, r.Item)
			}
		}
		for _, item := range items {
			if !visible(item) {
				continue
			}
			cat, att := dictionary.CategoryPart(item), dictionary.AttributePart(item)
			for _, p := range b.src.ParentItems(cat, att) {
				add(item, p)
			}
			for _, c := range b.src.ChildItems(cat, att) {
				add(c, item)
			}
		}
	}
	return out
}
