package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/registry"
)

func testDictionary() *dictionary.Dictionary {
	return dictionary.New(dictionary.Snapshot{
		Title:   "mmcif_test.dic",
		Version: "1.2",
		History: []dictionary.Revision{
			{Version: "1.2", Date: "2024-02-01", Description: "Second"},
			{Version: "1.1", Date: "2023-01-01", Description: "First"},
		},
		Groups: []dictionary.Group{
			{Name: "entity_group", Description: "Entities", Categories: []string{"entity"}},
			{Name: "struct_group", Description: "Structure"},
			{Name: "empty_group", Description: "Nothing"},
			{Name: "inclusive_group", Description: "All"},
		},
		Categories: []dictionary.Category{
			{
				Name:           "entity",
				Description:    "Entities <in> the entry.",
				DescriptionAlt: "Deposit <b>entities</b>.",
				Mandatory:      "yes",
				Groups:         []string{"inclusive_group"},
				Keys:           []string{"id"},
				Examples:       []dictionary.Example{{Text: "_entity.id 1"}},
				Items: []dictionary.Item{
					{Name: "type", Type: dictionary.TypeInfo{Code: "ucode"}},
					{Name: "id", Mandatory: "yes", MandatoryAlt: "yes", Type: dictionary.TypeInfo{Code: "code", Regex: "[A-Z]+"}},
				},
			},
			{
				Name:    "entity_poly",
				Groups:  []string{"struct_group"},
				Context: []string{"WWPDB_LOCAL"},
				Keys:    []string{"entity_id", "missing"},
				Items: []dictionary.Item{
					{
						Name:           "entity_id",
						Description:    "Units in A^2^.",
						DescriptionAlt: "Alt text",
						Parents:        []string{"_entity.id"},
						Boundaries:     []dictionary.Boundary{{Min: "0", Max: "."}, {Min: "3", Max: "3"}},
						Enums:          []dictionary.Enum{{Value: "a", Detail: "first"}},
						Related:        []dictionary.Related{{Item: "_entity.type", Type: "alternate"}},
					},
				},
			},
			{
				Name:  "atom_site",
				Keys:  []string{"id"},
				Items: []dictionary.Item{{Name: "id"}},
			},
		},
		Units: []dictionary.Unit{{Code: "angstroms_squared", Description: "A^2^"}},
	})
}

func testContent(t *testing.T) *Content {
	t.Helper()
	p := NewPathInfo(t.TempDir(), "", "mmcif_test.dic")
	u := coverage.NewUsage()
	u.Set(coverage.Archive, map[string]int{"_entry.id": 200, "_entity.id": 50, "_entity_poly.entity_id": 200})
	u.Set(coverage.ChemComp, map[string]int{"_entity.type": 3})
	return NewContent(testDictionary(), p, u, quietLogger())
}

func joined(lines []string) string { return strings.Join(lines, "\n") }

func TestDictionaryIndex(t *testing.T) {
	c := testContent(t)
	info := registry.Info{Title: "Test Dictionary", Maintainers: "wwPDB"}

	got := joined(c.DictionaryIndex("mmcif_test", info, dictionary.OrderForward))
	for _, want := range []string{
		"<dd  >Test Dictionary</dd>",
		"<dd  >wwPDB</dd>",
		"<dt  >Dictionary version</dt>",
		"<dd  >2024-02-01</dd>",
		`href="/dictionaries/ascii/mmcif_test.dic.gz"`,
		"View/Hide revision history list",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DictionaryIndex() missing %q", want)
		}
	}
	if strings.Contains(got, "Original developers") {
		t.Error("DictionaryIndex() listed an empty field")
	}
	if strings.Index(got, ">1.2<") > strings.Index(got, ">1.1<") {
		t.Error("history not in forward order")
	}
}

func TestSupportingDataIndex(t *testing.T) {
	got := joined(testContent(t).SupportingDataIndex())
	for _, id := range []string{"sdp1", "sdp2", "sdp3", "sdp4", "sdp5"} {
		if !strings.Contains(got, `id="`+id+`"`) {
			t.Errorf("SupportingDataIndex() missing panel %s", id)
		}
	}
	if !strings.Contains(got, "A<sup>2</sup>") {
		t.Error("units not marked up")
	}
}

func TestCategoryGroupIndex(t *testing.T) {
	c := testContent(t)
	got := joined(c.CategoryGroupIndex(true, []string{"struct_group"}))

	if strings.Contains(got, `id="empty_group"`) {
		t.Error("empty group listed")
	}
	s, e := strings.Index(got, `id="struct_group"`), strings.Index(got, `id="entity_group"`)
	if s < 0 || e < 0 || s > e {
		t.Errorf("leading group order: struct=%d entity=%d", s, e)
	}
	if !strings.Contains(got, `<div id="p1" class="panel-collapse collapse in">`) {
		t.Error("first panel not open")
	}
	if !strings.Contains(got, "Categories/entity_poly.html") {
		t.Error("category declared membership not listed")
	}
}

func TestCategoryGroupPage(t *testing.T) {
	got := joined(testContent(t).CategoryGroupPage("entity_group"))
	if !strings.Contains(got, "Categories/entity.html") {
		t.Errorf("CategoryGroupPage() missing member")
	}
	if got := testContent(t).CategoryGroupPage("empty_group"); len(got) != 2 {
		t.Errorf("CategoryGroupPage(empty) = %d lines, want 2", len(got))
	}
}

func TestCategoryAlphaIndex(t *testing.T) {
	got := joined(testContent(t).CategoryAlphaIndex(false))
	for _, want := range []string{
		`id="alIdA"`,
		`<div id="alIdA1" class="panel-collapse collapse ">`,
		`<div id="alIdA2" class="panel-collapse collapse ">`,
		"-&nbsp;A &nbsp;-",
		"-&nbsp;E &nbsp;-",
		`Categories <span class="badge">2</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CategoryAlphaIndex() missing %q", want)
		}
	}
}

func TestItemCategoryAlphaIndex(t *testing.T) {
	got := joined(testContent(t).ItemCategoryAlphaIndex(true))
	for _, want := range []string{
		`id="alIdAe2"`,
		`<div id="alIdAe21" class="panel-collapse collapse ">`,
		`<div id="alIdAe22" class="panel-collapse collapse ">`,
		`<div id="alIdA1" class="panel-collapse collapse in">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ItemCategoryAlphaIndex() missing %q", want)
		}
	}
}

func TestOrderedItems(t *testing.T) {
	c := testContent(t)
	got := c.orderedItems("entity")
	want := []string{"_entity.id", "_entity.type"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("orderedItems() = %v, want %v", got, want)
	}
	if got := c.orderedItems("entity_poly"); len(got) != 1 {
		t.Errorf("orderedItems() = %v, want missing key skipped", got)
	}
}

func TestItemIcons(t *testing.T) {
	got := joined(testContent(t).ItemCategoryIndex(false))
	for _, want := range []string{
		`<li class="list-group-item  key-item"><a href="/dictionaries/mmcif_test.dic/Items/_entity.id.html">_entity.id</a>`,
		`<li class="list-group-item  in-ref-chem-dict-item"><a href="/dictionaries/mmcif_test.dic/Items/_entity.type.html">_entity.type</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ItemCategoryIndex() missing %q", want)
		}
	}
}

func TestCategoryPage(t *testing.T) {
	c := testContent(t)

	t.Run("without figures", func(t *testing.T) {
		got := joined(c.CategoryPage("entity"))
		for _, want := range []string{
			"<dd  >yes</dd>",
			"Yes, in about    25 % of entries",
			"Entities &lt;in&gt; the entry.",
			"Deposit <b>entities</b>.",
			"Category Example",
			`<div id="pit0" class="panel-collapse collapse in">`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("CategoryPage() missing %q", want)
			}
		}
		if strings.Contains(got, "Category Relationship Diagrams") {
			t.Error("CategoryPage() shows figures that do not exist")
		}
		if strings.Contains(got, "inclusive_group") {
			t.Error("CategoryPage() lists inclusive_group")
		}
	})

	t.Run("local with figures", func(t *testing.T) {
		dir := c.paths.CategoryImagePath()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, v := range []string{"", "archive"} {
			name := filepath.Join(dir, FigureStem("entity_poly", v)+".svg")
			if err := os.WriteFile(name, []byte("<svg/>"), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		got := joined(c.CategoryPage("entity_poly"))
		for _, want := range []string{
			"<dd  >No</dd>",
			"<dt  >Used internally by PDB</dt>",
			`<div class="col-md-1 col-md-offset-1">`,
			`href="#image-modal-full-1"`,
			`href="#image-modal-abbrev-1"`,
			`src="/dictionaries/mmcif_test.dic/Images/Categories/entity_poly_neighbors_archive.svg"`,
			"Abbreviated Category Relationship Diagram for ENTITY_POLY",
			"Groups/struct_group.html",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("CategoryPage() missing %q", want)
			}
		}
		if strings.Contains(got, "image-modal-cc-1") {
			t.Error("CategoryPage() links a missing figure")
		}
	})
}

func TestItemPage(t *testing.T) {
	c := testContent(t)
	got := joined(c.ItemPage("_entity_poly.entity_id"))
	for _, want := range []string{
		"<dd  >_entity_poly.entity_id</dd>",
		"<dd  >entity_id</dd>",
		"Units in A<sup>2</sup>.",
		"Alt text",
		"Controlled Vocabulary",
		"<td class=\"my-monospace\"><h3>+&infin;</h3></td>",
		"Parent Data Items",
		`Items/_entity.id.html" class="my-link-color">_entity.id</a>`,
		`<td class="my-monospace"><a href="/dictionaries/mmcif_test.dic/Items/_entity.type.html">_entity.type</a></td>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ItemPage() missing %q", want)
		}
	}
	if strings.Contains(got, "<td class=\"my-monospace\">3</td>") {
		t.Error("degenerate boundary shown")
	}
	if strings.Contains(got, "Leading Parent Item") {
		t.Error("leading parent repeated the direct parent")
	}

	got = joined(c.ItemPage("_entity.id"))
	if !strings.Contains(got, "Child Data Items") || !strings.Contains(got, "_entity_poly.entity_id") {
		t.Error("ItemPage() missing mirrored children")
	}
	if !strings.Contains(got, `<dd  class="my-font-monospace"  >[A-Z]+</dd>`) {
		t.Error("ItemPage() missing regular expression")
	}
}

func TestBoundaryRows(t *testing.T) {
	rows := boundaryRows([]dictionary.Boundary{{Min: ".", Max: "5"}, {Min: "1", Max: "1"}, {Min: "0", Max: "."}})
	if len(rows) != 2 {
		t.Fatalf("boundaryRows() = %d rows, want 2", len(rows))
	}
	if rows[0][0] != "<h3>-&infin;</h3>" || rows[1][1] != "<h3>+&infin;</h3>" {
		t.Errorf("boundaryRows() = %v", rows)
	}
}
