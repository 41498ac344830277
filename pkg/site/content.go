package site

import (
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/registry"
)

// DownloadPath is the URL directory holding the dictionary text files.
const DownloadPath = "/dictionaries/ascii"

// linkClass styles links embedded in panel text.
const linkClass = "my-link-color"

// Content renders page bodies for one dictionary. Usage counts decide the
// icons and usage statements shown for categories and items.
type Content struct {
	dict   dictionary.API
	paths  *PathInfo
	usage  *coverage.Usage
	logger *log.Logger
}

// NewContent returns a Content reading d. A nil usage reads as unused
// everywhere.
func NewContent(d dictionary.API, p *PathInfo, u *coverage.Usage, logger *log.Logger) *Content {
	if u == nil {
		u = coverage.NewUsage()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Content{dict: d, paths: p, usage: u, logger: logger}
}

var historyColumns = []string{"Version", "Revision&nbsp;Date", "Revision&nbsp;Description"}

func historyRows(h []dictionary.Revision) [][]string {
	rows := make([][]string, len(h))
	for i, r := range h {
		rows[i] = []string{r.Version, r.Date, r.Description}
	}
	return rows
}

// =============================================================================
// Dictionary and supporting data
// =============================================================================

// DictionaryIndex renders the dictionary overview: general information,
// download buttons and the revision history. Empty info fields are left out.
func (c *Content) DictionaryIndex(name string, info registry.Info, order dictionary.Order) []string {
	history := Table(historyColumns, historyRows(c.dict.History(order)), RowStyle{Verbatim: true})

	var h HTML
	h.BeginContainer("row")
	icon, class := iconMarkup("general")
	h.BeginPanel("General "+icon, "panel-default "+class)
	h.BeginDescriptionList(true)
	for _, d := range []struct{ term, detail string }{
		{"Dictionary title", info.Title},
		{"Dictionary description", info.Description},
		{"Original developers", info.Developers},
		{"Dictionary maintainers", info.Maintainers},
	} {
		if d.detail != "" {
			h.Describe(d.term, d.detail)
		}
	}
	h.Describe("Dictionary name", c.dict.Title())
	h.Describe("Dictionary version", c.dict.Version())
	h.Describe("Last update", c.dict.LastUpdate(order))
	h.EndDescriptionList()
	h.EndPanel()
	h.EndContainer()

	h.BeginContainer("row")
	icon, class = iconMarkup("download")
	h.BeginPanel("Downloads "+icon, "panel-default "+class)
	h.BeginContainer("col-md-10 col-md-offset-1")
	const button = "btn-lg btn-wwpdb-green"
	h.Add(
		ButtonAnchor("Dictionary Text", Text, path.Join(DownloadPath, name+".dic"), button, ""),
		ButtonAnchor("Dictionary Text (gz)", Text, path.Join(DownloadPath, name+".dic.gz"), button, ""),
	)
	h.EndContainer()
	h.EndPanel()
	h.EndContainer()

	h.BeginContainer("")
	h.BeginAccordionGroup("pg1")
	h.AddAccordionPanel(AccordionPanel{
		Title:   "Dictionary Revision History",
		Body:    history,
		ID:      "p1",
		GroupID: "pg1",
		Open:    true,
		Toggle:  "View/Hide revision history list",
	})
	h.EndAccordionGroup()
	h.EndContainer()
	return h.Lines()
}

// SupportingDataIndex renders the history, data type, subcategory, unit and
// unit conversion tables as closed accordion panels.
func (c *Content) SupportingDataIndex() []string {
	var types, subcats, units, conversions [][]string
	for _, t := range c.dict.DataTypes() {
		types = append(types, []string{t.Code, t.Primitive, t.Regex, t.Description})
	}
	for _, s := range c.dict.SubCategories() {
		subcats = append(subcats, []string{s.ID, s.Description})
	}
	for _, u := range c.dict.Units() {
		units = append(units, []string{u.Code, u.Description})
	}
	for _, u := range c.dict.UnitConversions() {
		conversions = append(conversions, []string{u.From, u.To, u.Operator, u.Factor})
	}

	panels := []struct {
		title, id, toggle string
		body              []string
	}{
		{"Dictionary Revision History", "sdp1", "View/Hide revision history list",
			Table(historyColumns, historyRows(c.dict.History(dictionary.OrderReverse)), RowStyle{Verbatim: true})},
		{"Data Type List", "sdp2", "View/Hide data type list",
			Table([]string{"Data&nbsp;Type&nbsp;Code", "Primitive&nbsp;Type&nbsp;Code", "Regular&nbsp;Expression", "Description"}, types, RowStyle{Verbatim: true})},
		{"SubCategory List", "sdp3", "View/Hide subcategory list",
			Table([]string{"SubCategory&nbsp;Identifier", "Description"}, subcats, RowStyle{Verbatim: true})},
		{"Units List", "sdp4", "View/Hide units list",
			Table([]string{"Units&nbsp;Identifier", "Description"}, units, RowStyle{Verbatim: true, Math: true})},
		{"Units Conversion List", "sdp5", "View/Hide units conversion list",
			Table([]string{"From&nbsp;Units&nbsp;Identifier", "To&nbsp;Units&nbsp;Identifier", "Operator", "Conversion&nbsp;Factor"}, conversions, RowStyle{Verbatim: true})},
	}

	var h HTML
	h.BeginContainer("")
	h.BeginAccordionGroup("pg1")
	for _, p := range panels {
		h.AddAccordionPanel(AccordionPanel{Title: p.title, Body: p.body, ID: p.id, GroupID: "pg1", Toggle: p.toggle})
	}
	h.EndAccordionGroup()
	h.EndContainer()
	return h.Lines()
}

// =============================================================================
// Groups
// =============================================================================

// groupCategories returns the sorted members of a group, whether listed by
// the group or declared by the category.
func (c *Content) groupCategories(name string) []string {
	set := make(map[string]bool)
	if g, ok := c.dict.Group(name); ok {
		for _, cat := range g.Categories {
			set[cat] = true
		}
	}
	for _, cat := range c.dict.Categories() {
		if slices.Contains(c.dict.CategoryGroups(cat), name) {
			set[cat] = true
		}
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

func (c *Content) groupDescription(name string) string {
	if g, ok := c.dict.Group(name); ok {
		return g.Description
	}
	return ""
}

func (c *Content) groupPanel(name, id string, open bool) (AccordionPanel, bool) {
	cats := c.groupCategories(name)
	if len(cats) == 0 {
		return AccordionPanel{}, false
	}
	return AccordionPanel{
		Title:    name,
		SubTitle: c.groupDescription(name),
		Body:     c.linkGroupWithIcons(cats, c.categoryIconTags(cats), Categories),
		ID:       id,
		GroupID:  "pg1",
		Open:     open,
		Toggle:   "View/Hide category list",
		TopID:    name,
	}, true
}

// CategoryGroupIndex renders every non-empty group as an accordion panel
// listing its categories. Leading groups come first, in the given order.
func (c *Content) CategoryGroupIndex(openFirst bool, leading []string) []string {
	names := slices.Clone(leading)
	for _, g := range c.dict.Groups() {
		if !slices.Contains(leading, g) {
			names = append(names, g)
		}
	}

	var h HTML
	h.BeginContainer("")
	h.BeginAccordionGroup("pg1")
	n := 0
	for _, g := range names {
		p, ok := c.groupPanel(g, "p"+strconv.Itoa(n+1), openFirst && n == 0)
		if !ok {
			continue
		}
		h.AddAccordionPanel(p)
		n++
	}
	h.EndAccordionGroup()
	h.EndContainer()
	return h.Lines()
}

// CategoryGroupPage renders the category list of a single group.
func (c *Content) CategoryGroupPage(group string) []string {
	var h HTML
	h.BeginContainer("")
	if p, ok := c.groupPanel(group, "p1", true); ok {
		h.AddAccordionPanel(p)
	}
	h.EndContainer()
	return h.Lines()
}

// =============================================================================
// Indexes
// =============================================================================

// byInitial groups sorted category names by their first character.
func byInitial(cats []string) ([]string, map[string][]string) {
	idx := make(map[string][]string)
	var keys []string
	for _, cat := range cats {
		if cat == "" {
			continue
		}
		k := cat[:1]
		if _, ok := idx[k]; !ok {
			keys = append(keys, k)
		}
		idx[k] = append(idx[k], cat)
	}
	sort.Strings(keys)
	return keys, idx
}

// CategoryIndex renders a flat link list of every category.
func (c *Content) CategoryIndex() []string {
	var h HTML
	h.BeginContainer("")
	h.BeginLinkList()
	for _, cat := range c.dict.Categories() {
		h.AddLink(c.paths.ObjectURL(cat, Categories), cat, false)
	}
	h.EndLinkList()
	h.EndContainer()
	return h.Lines()
}

// CategoryAlphaIndex renders one accordion panel per initial letter, each
// listing its categories with usage icons.
func (c *Content) CategoryAlphaIndex(openFirst bool) []string {
	const id = "alIdA"
	keys, idx := byInitial(c.dict.Categories())

	var h HTML
	h.BeginContainer("")
	h.BeginAccordionGroup(id)
	for i, k := range keys {
		cats := idx[k]
		h.AddAccordionPanel(AccordionPanel{
			Title:    IndexTitle(strings.ToUpper(k)),
			SubTitle: "Categories " + Badge(len(cats)),
			Body:     c.linkGroupWithIcons(cats, c.categoryIconTags(cats), Categories),
			ID:       id + strconv.Itoa(i+1),
			GroupID:  id,
			Open:     openFirst && i == 0,
			Toggle:   "Category list view/hide",
		})
	}
	h.EndAccordionGroup()
	h.EndContainer()
	return h.Lines()
}

// ItemCategoryIndex renders one accordion panel per category listing its
// items.
func (c *Content) ItemCategoryIndex(openFirst bool) []string {
	var h HTML
	h.BeginContainer("")
	h.BeginAccordionGroup("pg1")
	for i, cat := range c.dict.Categories() {
		h.AddAccordionPanel(c.itemListPanel(cat, "p"+strconv.Itoa(i+1), "pg1", openFirst && i == 0))
	}
	h.EndAccordionGroup()
	h.EndContainer()
	return h.Lines()
}

// ItemCategoryAlphaIndex nests the per-category item lists inside one
// accordion panel per initial letter.
func (c *Content) ItemCategoryAlphaIndex(openFirst bool) []string {
	const id = "alIdA"
	keys, idx := byInitial(c.dict.Categories())

	var h HTML
	h.BeginContainer("")
	h.BeginAccordionGroup(id)
	for i, k := range keys {
		cats := idx[k]
		group := id + k + strconv.Itoa(i+1)

		var inner HTML
		inner.BeginContainer("col-md-10 col-md-offset-1")
		inner.BeginAccordionGroup(group)
		for j, cat := range cats {
			inner.AddAccordionPanel(c.itemListPanel(cat, group+strconv.Itoa(j+1), group, false))
		}
		inner.EndAccordionGroup()
		inner.EndContainer()

		h.AddAccordionPanel(AccordionPanel{
			Title:    IndexTitle(strings.ToUpper(k)),
			SubTitle: "Categories " + Badge(len(cats)),
			Body:     inner.Lines(),
			ID:       id + strconv.Itoa(i+1),
			GroupID:  id,
			Open:     openFirst && i == 0,
			Toggle:   "Category list view/hide",
		})
	}
	h.EndAccordionGroup()
	h.EndContainer()
	return h.Lines()
}

func (c *Content) itemListPanel(cat, id, group string, open bool) AccordionPanel {
	n, body := c.itemLinkList(cat)
	return AccordionPanel{
		Title:    Anchor(c.paths.ObjectURL(cat, Categories), cat, linkClass),
		SubTitle: "Items " + Badge(n),
		Body:     body,
		ID:       id,
		GroupID:  group,
		Open:     open,
		Toggle:   "Item list view/hide",
	}
}

// =============================================================================
// Link lists
// =============================================================================

func (c *Content) linkGroupWithIcons(names, tags []string, ct ContentType) []string {
	var h HTML
	h.BeginListGroup()
	for i, name := range names {
		tag := "none"
		if i < len(tags) {
			tag = tags[i]
		}
		icon, class := iconMarkup(tag)
		h.AddListItem(Anchor(c.paths.ObjectURL(name, ct), name, "")+icon, false, class)
	}
	h.EndListGroup()
	return h.Lines()
}

func (c *Content) categoryIconTags(cats []string) []string {
	tags := make([]string, len(cats))
	for i, cat := range cats {
		tags[i] = c.usage.CategoryIconType(cat, dictionary.IsMandatory(c.dict.CategoryMandatoryCode(cat)))
	}
	return tags
}

func (c *Content) itemIconTags(cat string, items []string) []string {
	keys := c.dict.KeyItems(cat)
	tags := make([]string, len(items))
	for i, item := range items {
		att := dictionary.AttributePart(item)
		tags[i] = c.usage.ItemIconType(item, slices.Contains(keys, item),
			dictionary.IsMandatory(c.dict.MandatoryCode(cat, att)),
			dictionary.IsMandatory(c.dict.MandatoryCodeAlt(cat, att)))
	}
	return tags
}

// orderedItems returns the key items of a category, then the remaining
// items, each part sorted. Keys without a definition are skipped.
func (c *Content) orderedItems(cat string) []string {
	rest := slices.Clone(c.dict.ItemNames(cat))
	sort.Strings(rest)
	keys := slices.Clone(c.dict.KeyItems(cat))
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		i := slices.Index(rest, k)
		if i < 0 {
			c.logger.Debug("category is missing key definition", "category", cat, "item", k)
			continue
		}
		rest = slices.Delete(rest, i, i+1)
		out = append(out, k)
	}
	return append(out, rest...)
}

func (c *Content) itemLinkList(cat string) (int, []string) {
	items := c.orderedItems(cat)
	if len(items) == 0 {
		return 0, nil
	}
	return len(items), c.linkGroupWithIcons(items, c.itemIconTags(cat, items), Items)
}
