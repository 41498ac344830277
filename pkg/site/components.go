package site

import (
	"fmt"
	"slices"
	"strings"
)

// HTML accumulates the lines of a page body built from Bootstrap
// components. The zero value is ready to use.
type HTML struct {
	lines []string
}

// Lines returns a copy of the markup collected so far.
func (h *HTML) Lines() []string { return slices.Clone(h.lines) }

func (h *HTML) Reset() { h.lines = h.lines[:0] }

// Add appends prebuilt markup.
func (h *HTML) Add(lines ...string) { h.lines = append(h.lines, lines...) }

func (h *HTML) addf(format string, args ...any) {
	h.lines = append(h.lines, fmt.Sprintf(format, args...))
}

// =============================================================================
// Containers and panels
// =============================================================================

// BeginContainer opens a div; an empty class means "row".
func (h *HTML) BeginContainer(class string) {
	if class == "" {
		class = "row"
	}
	h.addf(`<div class="%s">`, class)
}

func (h *HTML) EndContainer() { h.Add("</div>") }

// BeginPanel opens a titled panel. The title is inserted as markup.
func (h *HTML) BeginPanel(title, style string) {
	if style == "" {
		style = "panel-default"
	}
	h.addf(`<div class="panel %s">`, style)
	h.Add(`<div class="panel-heading">`)
	h.addf(`<h3 class="panel-title">%s</h3>`, title)
	h.Add("</div>", `<div class="panel-body">`)
}

func (h *HTML) EndPanel() { h.Add("</div>", "</div>") }

// =============================================================================
// Tables
// =============================================================================

// BeginTable opens a striped table. Column names are inserted as markup.
func (h *HTML) BeginTable(columns ...string) {
	h.Add(`<div class="my-table-scrollable">`, `<table class="table table-striped table-condensed ">`, "<thead>", "<tr>")
	for _, c := range columns {
		h.addf("<th>%s</th>", c)
	}
	h.Add("</tr>", "</thead>", "<tbody>")
}

// RowStyle controls how AddTableRow renders cells.
type RowStyle struct {
	Format Format
	// Verbatim shows cells in a monospace font with line breaks kept.
	Verbatim bool
	Math     bool
}

func (h *HTML) AddTableRow(cells []string, st RowStyle) {
	h.Add("<tr>")
	for _, c := range cells {
		v := escapeText(c, st.Format, st.Math)
		if st.Verbatim {
			h.addf(`<td class="my-monospace">%s</td>`, strings.ReplaceAll(v, "\n", "<br />"))
		} else {
			h.addf("<td>%s</td>", v)
		}
	}
	h.Add("</tr>")
}

func (h *HTML) EndTable() { h.Add("</tbody>", "</table>", "</div>") }

// Table renders a complete table.
func Table(columns []string, rows [][]string, st RowStyle) []string {
	var h HTML
	h.BeginTable(columns...)
	for _, r := range rows {
		h.AddTableRow(r, st)
	}
	h.EndTable()
	return h.Lines()
}

// =============================================================================
// Description lists
// =============================================================================

// BeginDescriptionList opens a dl; horizontal lists put terms beside their
// descriptions.
func (h *HTML) BeginDescriptionList(horizontal bool) {
	if horizontal {
		h.Add(`<dl class="dl-horizontal dl-lg">`)
	} else {
		h.Add(`<dl class="dl-lg">`)
	}
}

// Description is one term of a description list. Terms and details are
// escaped unless marked as markup.
type Description struct {
	Term        string
	Detail      string
	TermFormat  Format
	Format      Format
	TermClass   string
	DetailClass string
	ExtraSpace  bool
}

func (h *HTML) AddDescription(d Description) {
	h.addf("<dt %s >%s</dt>", classAttr(d.TermClass), escapeText(d.Term, d.TermFormat, false))
	h.addf("<dd %s >%s</dd>", classAttr(d.DetailClass), escapeText(d.Detail, d.Format, false))
	if d.ExtraSpace {
		h.Add("<br />")
	}
}

// Describe adds a plain-text term and detail.
func (h *HTML) Describe(term, detail string) {
	h.AddDescription(Description{Term: term, Detail: detail})
}

func (h *HTML) EndDescriptionList() { h.Add("</dl>") }

func classAttr(class string) string {
	if class == "" {
		return ""
	}
	return fmt.Sprintf(` class="%s" `, class)
}

// =============================================================================
// Accordions
// =============================================================================

func (h *HTML) BeginAccordionGroup(id string) {
	h.addf(`<div class="panel-group my-spacer" id="%s">`, id)
}

func (h *HTML) EndAccordionGroup() { h.Add("</div> <!-- end accordion panel group -->") }

// AccordionPanel is a collapsible panel inside an accordion group.
type AccordionPanel struct {
	Title    string
	SubTitle string
	Body     []string
	ID       string
	GroupID  string
	Open     bool
	Toggle   string
	// TopID, when set, makes the panel addressable as a page fragment.
	TopID string
}

func (h *HTML) AddAccordionPanel(p AccordionPanel) {
	toggle := p.Toggle
	if toggle == "" {
		toggle = "(view/hide)"
	}
	in := ""
	if p.Open {
		in = "in"
	}
	if p.TopID != "" {
		h.addf(`<div id="%s" class="panel panel-default"> <!-- begin top accordion panel -->`, p.TopID)
	} else {
		h.Add(`<div class="panel panel-default"> <!-- begin top accordion panel -->`)
	}
	h.Add(`   <div class="panel-heading">`, `       <div class="row">`)
	if p.SubTitle == "" {
		h.Add(`          <div class="col-md-8">`)
		h.addf("\t             <h4 class=\"panel-title\"> %s </h4> ", p.Title)
		h.Add("          </div>", `          <div class="col-md-4">`)
		h.addf(`              <a class="accordion-toggle pull-right" data-toggle="collapse" data-parent="#%s" href="#%s">`, p.GroupID, p.ID)
		h.addf(" %s", toggle)
		h.Add("              </a>", "           </div>")
	} else {
		h.Add(`          <div class="col-md-3">`)
		h.addf("\t             <h4 class=\"panel-title\"> %s </h4> ", p.Title)
		h.Add("          </div>", `          <div class="col-md-5">`)
		h.addf("\t            <h4 class=\"panel-title\"> %s </h4> ", p.SubTitle)
		h.Add("          </div>", `          <div class="col-md-4">`)
		h.addf(`             <a class="accordion-toggle pull-right" data-toggle="collapse" data-parent="#%s" href="#%s">`, p.GroupID, p.ID)
		h.addf(" %s", toggle)
		h.Add("             </a>", "          </div>")
	}
	h.Add("       </div> <!-- end heading row -->", "   </div> <!-- end panel heading -->")
	h.addf(`    <div id="%s" class="panel-collapse collapse %s">`, p.ID, in)
	h.Add(`      <div class="panel-body">`, "<!-- BEGIN inserted markup -->")
	h.Add(p.Body...)
	h.Add("<!-- END inserted markup -->",
		"      </div> <!-- end panel body-->",
		"    </div> <!-- end panel-collapse -->",
		"</div> <!-- end top accordion panel panel-default -->")
}

// =============================================================================
// Lists
// =============================================================================

func (h *HTML) BeginLinkList() { h.Add(`<div class="list-group">`) }

func (h *HTML) AddLink(url, label string, active bool) {
	h.addf(`<a href="%s" class="list-group-item %s">%s</a>`, url, activeClass(active), Escape(label))
}

func (h *HTML) EndLinkList() { h.Add("</div>") }

func (h *HTML) BeginListGroup() { h.Add(`<ul class="list-group">`) }

// AddListItem appends a list group entry; value is inserted as markup.
func (h *HTML) AddListItem(value string, active bool, class string) {
	h.addf(`<li class="list-group-item %s %s">%s</li>`, activeClass(active), class, value)
}

func (h *HTML) EndListGroup() { h.Add("</ul>") }

func (h *HTML) BeginInlineList() { h.Add(`<ul class="list-inline">`) }

func (h *HTML) AddInlineItem(value string, f Format, class string) {
	h.addf(`<li class="%s">%s</li>`, class, escapeText(value, f, false))
}

func (h *HTML) EndInlineList() { h.Add("</ul>") }

func activeClass(active bool) string {
	if active {
		return "active"
	}
	return ""
}

// =============================================================================
// Dialogs
// =============================================================================

// AddModalImage appends a hidden dialog showing src in an iframe. A button
// anchor pointing at "#"+id opens it.
func (h *HTML) AddModalImage(id, title, src, section, closeClass string) {
	h.addf(`<div class="modal fade" id="%s" tabindex="-1" role="dialog" aria-labelledby="%sLabel" aria-hidden="true">`, id, id)
	h.Add(`    <div class="my-modal-dialog">`,
		`        <div class="modal-content">`,
		`            <div class="modal-header">`,
		`                <button type="button" class="close" data-dismiss="modal" aria-hidden="true">&times;</button>`)
	h.addf(`                         <h4 class="modal-title">%s</h4>`, title)
	h.Add("            </div>", `            <div class="modal-body">`)
	h.addf(`                  <div class="row %s">`, section)
	h.addf(`                       <iframe class="my-iframe-handle" src="%s"></iframe>`, src)
	h.Add("                  </div>", "            </div>", `            <div class="modal-footer">`)
	h.addf(`                <button type="button" class="btn %s" data-dismiss="modal">Close</button>`, closeClass)
	h.Add("            </div>",
		"       </div><!-- /.modal-content -->",
		"   </div><!-- /.modal-dialog -->",
		"</div><!-- /.modal -->")
}
