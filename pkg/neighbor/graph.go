package neighbor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxItems is the nominal number of rows per category node.
	DefaultMaxItems = 20

	keyColor   = "#ffff99"
	othersText = "... and others ..."
)

// Highlight selects the header color of a category node.
type Highlight string

const (
	Current  Highlight = "current"
	Adjacent Highlight = "adjacent"
)

var highlightColors = map[Highlight]string{
	Current:  "#f0027f",
	Adjacent: "#99c49b",
}

// Color returns the Graphviz BGCOLOR value for h.
func (h Highlight) Color() string { return highlightColors[h] }

// TitleFormat selects how the graph label is written.
type TitleFormat int

const (
	// TitleHTML writes an HTML-like label with title and subtitle fonts.
	TitleHTML TitleFormat = iota
	// TitleText writes a quoted plain label; the subtitle is not shown.
	TitleText
)

// Fonts configures label typography.
type Fonts struct {
	Face          string
	CategorySize  int
	AttributeSize int
	TitleSize     int
	SubTitleSize  int
}

// DefaultFonts matches the figures on the published site.
var DefaultFonts = Fonts{
	Face:          "helvetica",
	CategorySize:  10,
	AttributeSize: 9,
	TitleSize:     18,
	SubTitleSize:  14,
}

// Options control one Build call.
type Options struct {
	// Neighbors replaces automatic parent/child discovery when non-nil.
	Neighbors []string

	// MaxItems is the soft row cap per category; keys and relation items
	// are always shown. Zero means DefaultMaxItems.
	MaxItems int

	// MaxCategories caps the number of nodes; zero means unlimited.
	MaxCategories int

	// Filter restricts the graph to categories and items used in Context.
	Filter  bool
	Context coverage.Context

	Title       string
	SubTitle    string
	TitleFormat TitleFormat
}

func (o Options) withDefaults() Options {
	if o.MaxItems <= 0 {
		o.MaxItems = DefaultMaxItems
	}
	return o
}

// Row is one rendered item of a category node.
type Row struct {
	Item      string
	Attribute string
	Icon      string
	Key       bool
}

// Node is one rendered category.
type Node struct {
	Category    string
	Highlight   Highlight
	Rows        []Row
	Omitted     int
	Placeholder bool
}

// Edge links a child item to its parent item.
type Edge struct {
	Child  string
	Parent string
}

// Graph is the result of Build.
type Graph struct {
	Category string
	Nodes    []Node
	Edges    []Edge

	// Rendered is the number of category nodes; zero means there is
	// nothing to draw.
	Rendered int

	// Lines is the Graphviz description, one statement per line.
	Lines []string
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return g.Rendered == 0 }

// DOT returns the description as a single newline-terminated document, or ""
// for an empty graph.
func (g *Graph) DOT() string {
	if len(g.Lines) == 0 {
		return ""
	}
	return strings.Join(g.Lines, "\n") + "\n"
}

// =============================================================================
// DOT text
// =============================================================================

func (b *Builder) lines(g *Graph, opts Options) []string {
	if g.Rendered == 0 {
		return nil
	}
	out := []string{
		"digraph " + nodeID(g.Category) + " {",
		"splines=true; overlap=compress; ",
	}
	if opts.Title != "" {
		out = append(out, b.titleLine(opts))
	}
	out = append(out, "node [shape=plaintext]")
	for _, n := range g.Nodes {
		out = append(out, b.nodeLines(n)...)
	}
	for _, e := range g.Edges {
		out = append(out, edgeLine(e))
	}
	return append(out, "}")
}

func (b *Builder) titleLine(opts Options) string {
	f := b.fonts
	if opts.TitleFormat == TitleText {
		return fmt.Sprintf(`graph [labelloc=b, labeljust=left, labelfontname=%s, labelfontsize=%d, label=%s];`,
			f.Face, f.TitleSize, quoteID(opts.Title))
	}
	text := fmt.Sprintf(`<FONT POINT-SIZE="%d" FACE="%s">%s</FONT>`, f.TitleSize, f.Face, opts.Title)
	if opts.SubTitle != "" {
		text += fmt.Sprintf(`<FONT POINT-SIZE="%d" FACE="%s"> <br/> %s</FONT>`, f.SubTitleSize, f.Face, opts.SubTitle)
	}
	return fmt.Sprintf("graph [labelloc=b, label=<%s>];", text)
}

func (b *Builder) font(size int, text string) string {
	return fmt.Sprintf(`<FONT POINT-SIZE="%d" FACE="%s">%s</FONT>`, size, b.fonts.Face, text)
}

func (b *Builder) nodeLines(n Node) []string {
	out := []string{nodeID(n.Category) + ` [label=<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" ALIGN="LEFT">`}

	header := b.font(b.fonts.CategorySize, strings.ToUpper(n.Category))
	color := fmt.Sprintf(`BGCOLOR="%s"`, n.Highlight.Color())
	if href := b.categoryURL(n); href != "" {
		out = append(out, fmt.Sprintf(`    <tr><td %s CELLPADDING="4" HREF="%s" TARGET="_top">%s</td></tr>`, color, href, header))
	} else {
		out = append(out, fmt.Sprintf(`    <tr><td %s CELLPADDING="4"  TARGET="_top">%s</td></tr>`, color, header))
	}

	for _, r := range n.Rows {
		var attrs []string
		if r.Key {
			attrs = append(attrs, fmt.Sprintf(`BGCOLOR="%s"`, keyColor))
		}
		attrs = append(attrs, fmt.Sprintf(`PORT="__%s"`, r.Attribute), `CELLPADDING="4"`)
		if href := b.itemURL(n, r); href != "" {
			attrs = append(attrs, fmt.Sprintf(`HREF="%s"`, href))
		}
		attrs = append(attrs, `TARGET="_top"`, `ALIGN="LEFT"`)
		out = append(out, fmt.Sprintf("<tr><td %s>%s</td></tr>", strings.Join(attrs, " "), b.font(b.fonts.AttributeSize, r.Attribute)))
	}
	if n.Omitted > 0 {
		out = append(out, fmt.Sprintf("<tr><td>%s</td></tr>", b.font(b.fonts.AttributeSize, othersText)))
	}
	return append(out, "</TABLE>>];")
}

func (b *Builder) categoryURL(n Node) string {
	if b.links == nil || n.Placeholder {
		return ""
	}
	return b.links.CategoryURL(n.Category)
}

func (b *Builder) itemURL(n Node, r Row) string {
	if b.links == nil || n.Placeholder {
		return ""
	}
	return b.links.ItemURL(r.Item)
}

// plainID matches names usable as bare DOT identifiers.
var plainID = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// dotID returns s as a DOT identifier, quoting it when it is not plain.
func dotID(s string) string {
	if plainID.MatchString(s) {
		return s
	}
	return quoteID(s)
}

func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func nodeID(category string) string { return dotID("_" + category) }

func portRef(attribute string) string { return dotID("__" + attribute) }

func edgeLine(e Edge) string {
	cc, ca := dictionary.CategoryPart(e.Child), dictionary.AttributePart(e.Child)
	pc, pa := dictionary.CategoryPart(e.Parent), dictionary.AttributePart(e.Parent)
	side := "w"
	if cc == pc {
		side = "e"
	}
	return fmt.Sprintf(" %s:%s:%s -> %s:%s:%s;", nodeID(cc), portRef(ca), side, nodeID(pc), portRef(pa), side)
}
