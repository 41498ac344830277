package dictionary

import (
	"slices"
	"testing"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Title:   "mmcif_test.dic",
		Version: "1.2",
		History: []Revision{
			{Version: "1.0", Date: "2020-01-01", Description: "Initial"},
			{Version: "1.2", Date: "2021-06-30", Description: "Update"},
		},
		Categories: []Category{
			{
				Name:      "entity",
				Mandatory: "yes",
				Keys:      []string{"id"},
				Groups:    []string{"inclusive_group"},
				Items: []Item{
					{Name: "_entity.id", Mandatory: "yes"},
					{Name: "type", Mandatory: "no", MandatoryAlt: "yes"},
				},
			},
			{
				Name: "atom_site",
				Keys: []string{"_atom_site.id"},
				Items: []Item{
					{Name: "_atom_site.id", Mandatory: "yes"},
					{Name: "_atom_site.label_entity_id", Parents: []string{"_entity.id"}},
				},
			},
			{
				Name: "entity_poly",
				Keys: []string{"_entity_poly.entity_id"},
				Items: []Item{
					{Name: "_entity_poly.entity_id", Parents: []string{"_entity.id"}},
				},
			},
		},
		Groups: []Group{
			{Name: "atom_group", Categories: []string{"atom_site"}},
			{Name: "entity_group", Categories: []string{"entity", "entity_poly"}},
		},
		SubCategories: []SubCategory{{ID: "cartesian_coordinate", Description: "xyz"}},
	}
}

func TestNewQualifiesNames(t *testing.T) {
	d := New(testSnapshot())

	if got, want := d.ItemNames("entity"), []string{"_entity.id", "_entity.type"}; !slices.Equal(got, want) {
		t.Errorf("ItemNames(entity) = %v, want %v", got, want)
	}
	if got, want := d.KeyItems("entity"), []string{"_entity.id"}; !slices.Equal(got, want) {
		t.Errorf("KeyItems(entity) = %v, want %v", got, want)
	}
	if got := d.ItemNames("missing"); got != nil {
		t.Errorf("ItemNames(missing) = %v, want nil", got)
	}
}

func TestNewDoesNotMutateSnapshot(t *testing.T) {
	s := testSnapshot()
	New(s)
	if got := s.Categories[0].Items[1].Name; got != "type" {
		t.Errorf("snapshot item name = %q, want %q", got, "type")
	}
	if got := s.Categories[0].Items[0].Children; got != nil {
		t.Errorf("snapshot children = %v, want nil", got)
	}
}

func TestChildrenMirrored(t *testing.T) {
	d := New(testSnapshot())

	got := d.ChildItems("entity", "id")
	want := []string{"_atom_site.label_entity_id", "_entity_poly.entity_id"}
	if !slices.Equal(got, want) {
		t.Errorf("ChildItems(entity, id) = %v, want %v", got, want)
	}
	if got := d.ParentItems("atom_site", "label_entity_id"); !slices.Equal(got, []string{"_entity.id"}) {
		t.Errorf("ParentItems(atom_site, label_entity_id) = %v", got)
	}
}

func TestParentsMirrored(t *testing.T) {
	d := New(Snapshot{Categories: []Category{
		{Name: "entity", Items: []Item{
			{Name: "id", Children: []string{"_entity_poly.entity_id", "_atom_site.label_entity_id"}},
		}},
		{Name: "entity_poly", Items: []Item{{Name: "entity_id"}}},
		{Name: "atom_site", Items: []Item{
			{Name: "label_entity_id", Parents: []string{"_entity.id"}},
		}},
	}})

	tests := []struct {
		cat, att string
		want     []string
	}{
		{"entity_poly", "entity_id", []string{"_entity.id"}},
		{"atom_site", "label_entity_id", []string{"_entity.id"}},
		{"entity", "id", nil},
	}
	for _, tt := range tests {
		if got := d.ParentItems(tt.cat, tt.att); !slices.Equal(got, tt.want) {
			t.Errorf("ParentItems(%s, %s) = %v, want %v", tt.cat, tt.att, got, tt.want)
		}
	}
	if got := d.ChildItems("entity", "id"); len(got) != 2 {
		t.Errorf("ChildItems(entity, id) = %v, want both children once", got)
	}
}

func TestMandatoryCodes(t *testing.T) {
	d := New(testSnapshot())

	tests := []struct {
		cat, att      string
		code, codeAlt string
	}{
		{"entity", "id", "yes", ""},
		{"entity", "type", "no", "yes"},
		{"entity", "missing", "", ""},
	}
	for _, tt := range tests {
		if got := d.MandatoryCode(tt.cat, tt.att); got != tt.code {
			t.Errorf("MandatoryCode(%s, %s) = %q, want %q", tt.cat, tt.att, got, tt.code)
		}
		if got := d.MandatoryCodeAlt(tt.cat, tt.att); got != tt.codeAlt {
			t.Errorf("MandatoryCodeAlt(%s, %s) = %q, want %q", tt.cat, tt.att, got, tt.codeAlt)
		}
	}
	if got := d.CategoryMandatoryCode("entity"); got != "yes" {
		t.Errorf("CategoryMandatoryCode(entity) = %q, want yes", got)
	}
}

func TestHistoryOrder(t *testing.T) {
	d := New(testSnapshot())

	if got := d.LastUpdate(OrderReverse); got != "2021-06-30" {
		t.Errorf("LastUpdate(reverse) = %q, want 2021-06-30", got)
	}
	if got := d.LastUpdate(OrderForward); got != "2020-01-01" {
		t.Errorf("LastUpdate(forward) = %q, want 2020-01-01", got)
	}
	if got := d.History(OrderReverse)[0].Version; got != "1.2" {
		t.Errorf("History(reverse)[0].Version = %q, want 1.2", got)
	}
	if got := New(Snapshot{}).LastUpdate(OrderReverse); got != "" {
		t.Errorf("LastUpdate on empty history = %q, want empty", got)
	}
}

func TestCategoriesAndGroups(t *testing.T) {
	d := New(testSnapshot())

	if got, want := d.Categories(), []string{"atom_site", "entity", "entity_poly"}; !slices.Equal(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
	if got, want := d.CategoryGroups("entity"), []string{"inclusive_group", "entity_group"}; !slices.Equal(got, want) {
		t.Errorf("CategoryGroups(entity) = %v, want %v", got, want)
	}
	if g, ok := d.Group("atom_group"); !ok || g.Categories[0] != "atom_site" {
		t.Errorf("Group(atom_group) = %v, %v", g, ok)
	}
	if got := d.SubCategoryDescription("cartesian_coordinate"); got != "xyz" {
		t.Errorf("SubCategoryDescription() = %q, want xyz", got)
	}
}

func TestUltimateParent(t *testing.T) {
	s := testSnapshot()
	s.Categories = append(s.Categories, Category{
		Name:  "pdbx_entity_nonpoly",
		Items: []Item{{Name: "_pdbx_entity_nonpoly.entity_id", Parents: []string{"_entity_poly.entity_id"}}},
	})
	d := New(s)

	tests := []struct {
		cat, att, want string
	}{
		{"pdbx_entity_nonpoly", "entity_id", "_entity.id"},
		{"entity_poly", "entity_id", "_entity.id"},
		{"entity", "id", ""},
	}
	for _, tt := range tests {
		if got := d.UltimateParent(tt.cat, tt.att); got != tt.want {
			t.Errorf("UltimateParent(%s, %s) = %q, want %q", tt.cat, tt.att, got, tt.want)
		}
	}
}

func TestUltimateParentCycle(t *testing.T) {
	d := New(Snapshot{Categories: []Category{{
		Name: "a",
		Items: []Item{
			{Name: "_a.x", Parents: []string{"_a.y"}},
			{Name: "_a.y", Parents: []string{"_a.x"}},
		},
	}}})
	if got := d.UltimateParent("a", "x"); got != "_a.y" {
		t.Errorf("UltimateParent(a, x) = %q, want _a.y", got)
	}
}

func TestNameParts(t *testing.T) {
	tests := []struct {
		item, cat, att string
	}{
		{"_atom_site.label_atom_id", "atom_site", "label_atom_id"},
		{"_atom_sites.fract_transf_matrix[1][1]", "atom_sites", "fract_transf_matrix[1][1]"},
		{"entity", "entity", ""},
	}
	for _, tt := range tests {
		if got := CategoryPart(tt.item); got != tt.cat {
			t.Errorf("CategoryPart(%q) = %q, want %q", tt.item, got, tt.cat)
		}
		if got := AttributePart(tt.item); got != tt.att {
			t.Errorf("AttributePart(%q) = %q, want %q", tt.item, got, tt.att)
		}
	}
	if got := ItemName("entity", "id"); got != "_entity.id" {
		t.Errorf("ItemName() = %q, want _entity.id", got)
	}
}
