package site

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
)

// notNull reports whether a dictionary value is present; "." and "?" mark
// missing values.
func notNull(s string) bool {
	return s != "" && s != "." && s != "?"
}

// =============================================================================
// Category page
// =============================================================================

// CategoryPage renders the page of one category: general facts, figures,
// descriptions, examples, keys and the item list.
func (c *Content) CategoryPage(cat string) []string {
	var h HTML
	h.BeginContainer("")

	info, _ := c.dict.Category(cat)
	if info == nil {
		info = &dictionary.Category{Name: cat}
	}
	local := len(info.Context) > 0 && strings.ToUpper(info.Context[0]) == "WWPDB_LOCAL"
	mandatory := c.dict.CategoryMandatoryCode(cat)
	if !notNull(mandatory) {
		mandatory = "No"
	}

	var groups []string
	for _, g := range c.dict.CategoryGroups(cat) {
		if g != "inclusive_group" {
			groups = append(groups, Anchor(c.paths.ObjectURL(g, Groups), g, linkClass))
		}
	}
	sort.Strings(groups)

	h.BeginContainer("")
	icon, class := iconMarkup("general")
	h.BeginPanel("General "+icon, "panel-default "+class)
	h.BeginContainer("")
	h.BeginDescriptionList(true)
	h.AddDescription(Description{Term: "Category name", Detail: Anchor(c.paths.ObjectURL(cat, Categories), cat, linkClass), Format: Markup})
	h.Describe("Required in PDB entries", mandatory)
	h.AddDescription(Description{Term: "Category group membership", Detail: strings.Join(groups, "&nbsp;&nbsp;"), Format: Markup})
	switch used := c.usage.CategoryUsed(cat, coverage.Archive); {
	case used && local:
		h.Describe("Used internally by PDB", usedIn(c.usage.CategoryPercent(cat, coverage.Archive)))
	case used:
		h.Describe("Used in current PDB entries", usedIn(c.usage.CategoryPercent(cat, coverage.Archive)))
	default:
		h.Describe("Used in current PDB entries", "No")
		if local {
			h.Describe("Used internally by PDB", "Yes")
		}
	}
	if c.usage.CategoryUsed(cat, coverage.ChemComp) {
		h.Describe("Used in the Chemical Component dictionary", "Yes")
	}
	if c.usage.CategoryUsed(cat, coverage.BIRD) {
		h.Describe("Used in the BIRD dictionary", "Yes")
	}
	h.EndDescriptionList()
	h.EndContainer()
	h.EndPanel()
	h.EndContainer()

	c.addCategoryFigures(&h, cat)

	icon, class = iconMarkup("info")
	h.BeginContainer("row")
	h.BeginPanel("Category Description "+icon, "panel-default "+class)
	h.Add(Formatted(info.Description, Pre, Text, false))
	h.EndPanel()
	h.EndContainer()

	if notNull(info.DescriptionAlt) {
		c.addTextPanel(&h, "Additional Descriptive Information for Depositors ", "deposit-info", info.DescriptionAlt)
	}
	if notNull(info.NxMapping) {
		c.addTextPanel(&h, "NeXus Mapping Details", "deposit-info", info.NxMapping)
	}

	h.BeginContainer("row")
	h.Add(renderExamples(info.Examples, "Category Example", "Category Examples", "a")...)
	h.EndContainer()
	h.BeginContainer("row")
	h.Add(renderExamples(info.ExamplesAlt, "Additional Category Example for Depositors", "Additional Category Examples for Depositors", "b")...)
	h.EndContainer()

	keys := slices.Clone(c.dict.KeyItems(cat))
	sort.Strings(keys)
	icon, class = iconMarkup("key")
	h.BeginContainer("row")
	h.BeginPanel("Key Data Items "+icon, "panel-default "+class)
	h.BeginInlineList()
	for _, k := range keys {
		h.AddInlineItem(Anchor(c.paths.ObjectURL(k, Items), k, linkClass), Markup, "")
	}
	h.EndInlineList()
	h.EndPanel()
	h.EndContainer()

	_, items := c.itemLinkList(cat)
	h.BeginContainer("row")
	h.AddAccordionPanel(AccordionPanel{
		Title:   "Category Data Items",
		Body:    items,
		ID:      "pit0",
		GroupID: "pgit0",
		Open:    true,
		Toggle:  "View/hide item list",
	})
	h.EndContainer()

	h.EndContainer()
	return h.Lines()
}

func usedIn(percent string) string {
	return fmt.Sprintf("Yes, in about %s %% of entries", percent)
}

func (c *Content) addTextPanel(h *HTML, title, iconTag, text string) {
	icon, class := iconMarkup(iconTag)
	h.BeginContainer("row")
	h.BeginPanel(title+icon, "panel-default "+class)
	h.Add(Formatted(text, Pre, Markup, false))
	h.EndPanel()
	h.EndContainer()
}

// renderExamples shows a single example in one open panel, and several
// examples as numbered sub-panels inside an enclosing panel.
func renderExamples(examples []dictionary.Example, single, multi, suffix string) []string {
	var h HTML
	prefix := "pcex" + suffix
	switch len(examples) {
	case 0:
		return nil
	case 1:
		h.AddAccordionPanel(AccordionPanel{
			Title:   single,
			Body:    []string{Formatted(examples[0].Text, Pre, Markup, false)},
			ID:      prefix,
			GroupID: "pgex" + suffix,
			Open:    true,
			Toggle:  "View/hide Example",
		})
		return h.Lines()
	}

	var inner HTML
	for i, ex := range examples {
		n := fmt.Sprint(i + 1)
		inner.AddAccordionPanel(AccordionPanel{
			Title:   single + n,
			Body:    []string{Formatted(ex.Text, Pre, Markup, false)},
			ID:      prefix + n,
			GroupID: prefix + "g" + n,
			Open:    i == 0,
			Toggle:  "View/Hide " + single,
		})
	}
	group := prefix + "g0"
	h.BeginAccordionGroup(group)
	h.AddAccordionPanel(AccordionPanel{
		Title:    multi,
		SubTitle: Badge(len(examples)),
		Body:     inner.Lines(),
		ID:       prefix + "0",
		GroupID:  group,
		Open:     true,
		Toggle:   "View/hide " + multi,
	})
	h.EndAccordionGroup()
	return h.Lines()
}

// =============================================================================
// Category figures
// =============================================================================

const figureIcon = "/assets/images/cr-figure-icon.svg"

type figure struct {
	variant string
	modalID string
	caption string
	title   string
}

var figures = []figure{
	{"", "image-modal-full-1",
		"View <b>full</b> category relationship diagram including all dictionary data categories",
		"Category Relationship Diagram for %s"},
	{coverage.Archive.String(), "image-modal-abbrev-1",
		" View <b>abbreviated</b> category relationship diagram including only those categories used in <b>current PDB entries</b>.",
		"Abbreviated Category Relationship Diagram for %s"},
	{coverage.ChemComp.String(), "image-modal-cc-1",
		" View <b>abbreviated</b> category relationship diagram including only those categories used in the <b>chemical reference dictionary</b>.",
		"Category Relationship Diagram for %s"},
	{coverage.BIRD.String(), "image-modal-bird-1",
		" View <b>abbreviated</b> category relationship diagram including only those categories used in the <b>BIRD reference dictionary</b>.",
		"Category Relationship Diagram for %s"},
	{coverage.BIRDFamily.String(), "image-modal-bird-family-1",
		" View <b>abbreviated</b> category relationship diagram including only those categories used in the <b>BIRD Family reference dictionary</b>.",
		"Category Relationship Diagram for %s"},
}

// availableFigures returns the figures of cat present on disk.
func (c *Content) availableFigures(cat string) []figure {
	var out []figure
	for _, f := range figures {
		name := filepath.Join(c.paths.CategoryImagePath(), FigureStem(cat, f.variant)+".svg")
		if _, err := os.Stat(name); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// addCategoryFigures adds a panel of buttons opening the rendered figures
// of cat, followed by their dialogs. Nothing is added without figures.
func (c *Content) addCategoryFigures(h *HTML, cat string) {
	found := c.availableFigures(cat)
	if len(found) == 0 {
		return
	}

	icon, class := iconMarkup("category-image")
	h.BeginContainer("row")
	h.BeginPanel("Category Relationship Diagrams "+icon, "panel-default "+class)
	h.BeginContainer("row")
	for _, f := range found {
		col := "col-md-1"
		if f.variant == "" && len(found) <= 2 {
			col = "col-md-1 col-md-offset-1"
		}
		h.BeginContainer(col)
		img := Image(figureIcon, "Category relationship diagram", 70, 70, "img-thumbnail")
		h.Add(ButtonAnchor(img, Markup, "#"+f.modalID, "btn-wwpdb-green btn-wwpdb-lg", `data-toggle="modal"`))
		h.EndContainer()
		h.BeginContainer("col-md-3")
		h.Add(f.caption)
		h.EndContainer()
	}
	h.EndContainer()
	h.EndPanel()
	h.EndContainer()

	for _, f := range found {
		src := path.Join(c.paths.CategoryImageURL(), FigureStem(cat, f.variant)+".svg")
		h.AddModalImage(f.modalID, fmt.Sprintf(f.title, strings.ToUpper(cat)), src, "my-image-scrollable", "btn-default")
	}
}

// =============================================================================
// Item page
// =============================================================================

// ItemPage renders the page of one item: general facts, description,
// examples, data type, vocabularies, boundaries and relations.
func (c *Content) ItemPage(item string) []string {
	cat, att := dictionary.CategoryPart(item), dictionary.AttributePart(item)
	it, _ := c.dict.Item(item)
	if it == nil {
		it = &dictionary.Item{Name: item}
	}
	mandatory := c.dict.MandatoryCode(cat, att)
	mandatoryAlt := c.dict.MandatoryCodeAlt(cat, att)

	var h HTML
	h.BeginContainer("")

	h.BeginContainer("")
	icon, class := iconMarkup("default")
	h.BeginPanel("General "+icon, "panel-default "+class)
	h.BeginContainer("")
	h.BeginDescriptionList(true)
	h.Describe("Item name", item)
	h.AddDescription(Description{Term: "Category name", Detail: Anchor(c.paths.ObjectURL(cat, Categories), cat, linkClass), Format: Markup})
	h.Describe("Attribute name", att)
	h.Describe("Required in PDB entries", mandatory)
	if mandatoryAlt != "" && mandatoryAlt != mandatory {
		h.Describe("Required for PDB deposition", mandatoryAlt)
	}
	if c.usage.ItemUsed(item, coverage.Archive) {
		h.Describe("Used in current PDB entries", usedIn(c.usage.ItemPercent(item, coverage.Archive)))
	} else {
		h.Describe("Used in current PDB entries", "No")
	}
	if c.usage.ItemUsed(item, coverage.BIRD) {
		h.Describe("Used in the BIRD dictionary", "Yes")
	}
	if c.usage.ItemUsed(item, coverage.ChemComp) {
		h.Describe("Used in the Chemical Component dictionary", "Yes")
	}
	h.EndDescriptionList()
	h.EndContainer()
	h.EndPanel()
	h.EndContainer()

	icon, class = iconMarkup("info")
	h.BeginContainer("row")
	h.BeginPanel("Item Description "+icon, "panel-default "+class)
	h.Add(Formatted(it.Description, Verbatim, Text, true))
	h.EndPanel()
	h.EndContainer()

	if notNull(it.DescriptionAlt) {
		c.addTextPanel(&h, "Additional Descriptive Information for Depositors ", "deposit-info", it.DescriptionAlt)
	}

	h.BeginContainer("row")
	h.Add(renderExamples(it.Examples, "Item Example", "Item Examples", "a")...)
	h.EndContainer()
	h.BeginContainer("row")
	h.Add(renderExamples(it.ExamplesAlt, "Additional Item Example for Depositors", "Additional Item Examples for Depositors", "b")...)
	h.EndContainer()

	c.addDataType(&h, it)

	enumColumns := []string{"Allowed&nbsp;Value", "Details"}
	if rows := enumRows(it.Enums); len(rows) > 0 {
		c.addAccordionTable(&h, enumColumns, rows, "Controlled Vocabulary", "enum")
	}
	if rows := enumRows(it.EnumsAlt); len(rows) > 0 {
		c.addAccordionTable(&h, enumColumns, rows, "Controlled Vocabulary at Deposition", "enumalt")
	}

	boundColumns := []string{"Minimum&nbsp;Value", "Maximum&nbsp;Value"}
	if rows := boundaryRows(it.Boundaries); len(rows) > 0 {
		c.addTablePanel(&h, boundColumns, rows, "Allowed Boundary Conditions", "default", Markup)
	}
	if rows := boundaryRows(it.BoundariesAlt); len(rows) > 0 {
		c.addTablePanel(&h, boundColumns, rows, "Advisory Boundary Conditions", "default", Markup)
	}

	var parents []string
	for _, p := range it.Parents {
		if p != item {
			parents = append(parents, p)
		}
	}
	if len(parents) > 0 {
		sorted := slices.Clone(parents)
		sort.Strings(sorted)
		c.addItemListPanel(&h, sorted, "Parent Data Items", "parent-child")
		if up := c.dict.UltimateParent(cat, att); up != "" && up != parents[0] {
			c.addItemListPanel(&h, []string{up}, "Leading Parent Item", "parent-child")
		}
		if len(parents) > 1 {
			c.logger.Debug("multiple parents", "item", item, "parents", parents)
		}
	}
	if len(it.Children) > 0 {
		children := slices.Clone(it.Children)
		sort.Strings(children)
		c.addItemListPanel(&h, children, "Child Data Items", "parent-child")
	}

	if len(it.Related) > 0 {
		var rows [][]string
		for _, r := range it.Related {
			rows = append(rows, []string{Anchor(c.paths.ObjectURL(r.Item, Items), r.Item, ""), r.Type})
		}
		c.addTablePanel(&h, []string{"Related&nbsp;Item&nbsp;Name", "Relation&nbsp;Type"}, rows, "Related Items", "related-item", Markup)
	}
	if len(it.Dependents) > 0 {
		c.addItemListPanel(&h, it.Dependents, "Dependent Items", "related-item")
	}
	if len(it.SubCategories) > 0 {
		var rows [][]string
		for _, s := range it.SubCategories {
			rows = append(rows, []string{s, c.dict.SubCategoryDescription(s)})
		}
		c.addTablePanel(&h, []string{"Subcategory&nbsp;Name", "Subcategory&nbsp;Description"}, rows, "Subcategories", "info", Text)
	}
	if len(it.Aliases) > 0 {
		var rows [][]string
		for _, a := range it.Aliases {
			rows = append(rows, []string{a.Name, a.Dictionary, a.Version})
		}
		c.addTablePanel(&h, []string{"Alias&nbsp;Item&nbsp;Name", "Dictionary&nbsp;Name", "Dictionary&nbsp;Version"}, rows, "Aliases", "info", Text)
	}

	h.EndContainer()
	return h.Lines()
}

func (c *Content) addDataType(h *HTML, it *dictionary.Item) {
	t := it.Type
	icon, class := iconMarkup("regex")
	h.BeginContainer("")
	h.BeginPanel("Data Type "+icon, "panel-default "+class)
	h.BeginContainer("")
	h.BeginDescriptionList(true)
	if t.Code != "" {
		h.Describe("Data type code", t.Code)
		h.Describe("Data type detail", t.Detail)
		h.Describe("Primitive data type code", t.Primitive)
		h.AddDescription(Description{Term: "Regular expression", Detail: t.Regex, DetailClass: "my-font-monospace"})
	} else {
		c.logger.Warn("missing data type", "item", it.Name)
	}
	if t.CodeAlt != "" && t.CodeAlt != t.Code {
		h.Describe("Deposition data type", t.CodeAlt)
	}
	if t.RegexAlt != "" && t.RegexAlt != t.Regex {
		h.Describe("Deposition regular expression", t.RegexAlt)
	}
	if it.Default != "" {
		h.Describe("Default value", it.Default)
	}
	if it.Units != "" {
		h.Describe("Units", it.Units)
	}
	if len(it.Context) > 0 && strings.Contains(strings.ToLower(it.Context[0]), "local") {
		h.Describe("Internal data item", "Yes")
	}
	if it.EnumClosed == "no" {
		h.Describe("Values limited by enumeration list ", "no")
	}
	h.EndDescriptionList()
	h.EndContainer()
	h.EndPanel()
	h.EndContainer()
}

func enumRows(enums []dictionary.Enum) [][]string {
	rows := make([][]string, 0, len(enums))
	for _, e := range enums {
		rows = append(rows, []string{e.Value, e.Detail})
	}
	return rows
}

// boundaryRows drops degenerate ranges and shows open ends as infinity.
func boundaryRows(bounds []dictionary.Boundary) [][]string {
	var rows [][]string
	for _, b := range bounds {
		if b.Min == b.Max {
			continue
		}
		lo, hi := b.Min, b.Max
		if lo == "." {
			lo = "<h3>-&infin;</h3>"
		}
		if hi == "." {
			hi = "<h3>+&infin;</h3>"
		}
		rows = append(rows, []string{lo, hi})
	}
	return rows
}

func (c *Content) addItemListPanel(h *HTML, items []string, title, iconTag string) {
	icon, class := iconMarkup(iconTag)
	h.BeginContainer("")
	h.BeginPanel(title+icon, "panel-default "+class)
	h.BeginInlineList()
	for _, item := range items {
		h.AddInlineItem(Anchor(c.paths.ObjectURL(item, Items), item, linkClass), Markup, "")
	}
	h.EndInlineList()
	h.EndPanel()
	h.EndContainer()
}

func (c *Content) addTablePanel(h *HTML, columns []string, rows [][]string, title, iconTag string, f Format) {
	icon, class := iconMarkup(iconTag)
	h.BeginContainer("row")
	h.BeginPanel(title+icon, "panel-default "+class)
	h.Add(Table(columns, rows, RowStyle{Format: f, Verbatim: true})...)
	h.EndPanel()
	h.EndContainer()
}

func (c *Content) addAccordionTable(h *HTML, columns []string, rows [][]string, title, suffix string) {
	group, id := "pgapwt"+suffix, "papwt"+suffix
	h.BeginContainer("")
	h.BeginAccordionGroup(group)
	h.AddAccordionPanel(AccordionPanel{
		Title:   title,
		Body:    Table(columns, rows, RowStyle{Verbatim: true}),
		ID:      id,
		GroupID: group,
		Open:    true,
		Toggle:  "View/Hide Table",
	})
	h.EndAccordionGroup()
	h.EndContainer()
}
