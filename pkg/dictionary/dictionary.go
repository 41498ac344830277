package dictionary

import (
	"slices"
	"sort"
	"strings"
)

// API is the query surface the site generator reads from.
type API interface {
	Title() string
	Version() string
	History(order Order) []Revision
	LastUpdate(order Order) string

	Categories() []string
	Category(name string) (*Category, bool)
	ItemNames(category string) []string
	Item(name string) (*Item, bool)
	KeyItems(category string) []string
	CategoryMandatoryCode(category string) string

	Groups() []string
	Group(name string) (*Group, bool)
	CategoryGroups(category string) []string

	MandatoryCode(category, attribute string) string
	MandatoryCodeAlt(category, attribute string) string
	ParentItems(category, attribute string) []string
	ChildItems(category, attribute string) []string
	UltimateParent(category, attribute string) string

	DataTypes() []DataType
	SubCategories() []SubCategory
	SubCategoryDescription(id string) string
	Units() []Unit
	UnitConversions() []UnitConversion
}

// Order selects the direction history records are returned in.
type Order string

const (
	// OrderForward returns revisions in snapshot order.
	OrderForward Order = "forward"
	// OrderReverse returns revisions in reverse snapshot order.
	OrderReverse Order = "reverse"
)

// Snapshot is the serialized form of a dictionary.
type Snapshot struct {
	Title           string           `json:"title" yaml:"title"`
	Version         string           `json:"version" yaml:"version"`
	History         []Revision       `json:"history,omitempty" yaml:"history,omitempty"`
	Categories      []Category       `json:"categories" yaml:"categories"`
	Groups          []Group          `json:"groups,omitempty" yaml:"groups,omitempty"`
	DataTypes       []DataType       `json:"data_types,omitempty" yaml:"data_types,omitempty"`
	SubCategories   []SubCategory    `json:"sub_categories,omitempty" yaml:"sub_categories,omitempty"`
	Units           []Unit           `json:"units,omitempty" yaml:"units,omitempty"`
	UnitConversions []UnitConversion `json:"unit_conversions,omitempty" yaml:"unit_conversions,omitempty"`
}

// Revision is one entry of the dictionary history.
type Revision struct {
	Version     string `json:"version" yaml:"version"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
}

// Category is a named group of items.
type Category struct {
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionAlt string    `json:"description_alt,omitempty" yaml:"description_alt,omitempty"`
	NxMapping      string    `json:"nx_mapping,omitempty" yaml:"nx_mapping,omitempty"`
	Mandatory      string    `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Context        []string  `json:"context,omitempty" yaml:"context,omitempty"`
	Groups         []string  `json:"groups,omitempty" yaml:"groups,omitempty"`
	Keys           []string  `json:"keys,omitempty" yaml:"keys,omitempty"`
	Examples       []Example `json:"examples,omitempty" yaml:"examples,omitempty"`
	ExamplesAlt    []Example `json:"examples_alt,omitempty" yaml:"examples_alt,omitempty"`
	Items          []Item    `json:"items" yaml:"items"`
}

// Item is a single data item. Name is fully qualified.
type Item struct {
	Name           string     `json:"name" yaml:"name"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionAlt string     `json:"description_alt,omitempty" yaml:"description_alt,omitempty"`
	Mandatory      string     `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	MandatoryAlt   string     `json:"mandatory_alt,omitempty" yaml:"mandatory_alt,omitempty"`
	Context        []string   `json:"context,omitempty" yaml:"context,omitempty"`
	Type           TypeInfo   `json:"type" yaml:"type"`
	Default        string     `json:"default,omitempty" yaml:"default,omitempty"`
	Units          string     `json:"units,omitempty" yaml:"units,omitempty"`
	EnumClosed     string     `json:"enum_closed,omitempty" yaml:"enum_closed,omitempty"`
	Enums          []Enum     `json:"enums,omitempty" yaml:"enums,omitempty"`
	EnumsAlt       []Enum     `json:"enums_alt,omitempty" yaml:"enums_alt,omitempty"`
	Boundaries     []Boundary `json:"boundaries,omitempty" yaml:"boundaries,omitempty"`
	BoundariesAlt  []Boundary `json:"boundaries_alt,omitempty" yaml:"boundaries_alt,omitempty"`
	Parents        []string   `json:"parents,omitempty" yaml:"parents,omitempty"`
	Children       []string   `json:"children,omitempty" yaml:"children,omitempty"`
	Examples       []Example  `json:"examples,omitempty" yaml:"examples,omitempty"`
	ExamplesAlt    []Example  `json:"examples_alt,omitempty" yaml:"examples_alt,omitempty"`
	Related        []Related  `json:"related,omitempty" yaml:"related,omitempty"`
	Dependents     []string   `json:"dependents,omitempty" yaml:"dependents,omitempty"`
	SubCategories  []string   `json:"sub_categories,omitempty" yaml:"sub_categories,omitempty"`
	Aliases        []Alias    `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// TypeInfo describes the data type of an item, with deposition overrides.
type TypeInfo struct {
	Code      string `json:"code,omitempty" yaml:"code,omitempty"`
	CodeAlt   string `json:"code_alt,omitempty" yaml:"code_alt,omitempty"`
	Primitive string `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Regex     string `json:"regex,omitempty" yaml:"regex,omitempty"`
	RegexAlt  string `json:"regex_alt,omitempty" yaml:"regex_alt,omitempty"`
}

// Example is an illustrative snippet with an optional caption.
type Example struct {
	Text   string `json:"text" yaml:"text"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Enum is one controlled-vocabulary value.
type Enum struct {
	Value  string `json:"value" yaml:"value"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Boundary is an inclusive value range; "." marks an open end.
type Boundary struct {
	Min string `json:"min" yaml:"min"`
	Max string `json:"max" yaml:"max"`
}

// Related names an item associated with another and the kind of association.
type Related struct {
	Item string `json:"item" yaml:"item"`
	Type string `json:"type" yaml:"type"`
}

// Alias is an alternative name for an item in another dictionary.
type Alias struct {
	Name       string `json:"name" yaml:"name"`
	Dictionary string `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Group is a named category group.
type Group struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// DataType is a type code definition from the supporting data.
type DataType struct {
	Code        string `json:"code" yaml:"code"`
	Primitive   string `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Regex       string `json:"regex,omitempty" yaml:"regex,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// SubCategory is a named cluster of items spanning categories.
type SubCategory struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Unit is a units code definition.
type Unit struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// UnitConversion converts between two unit codes.
type UnitConversion struct {
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Operator string `json:"operator" yaml:"operator"`
	Factor   string `json:"factor" yaml:"factor"`
}

// Dictionary is an in-memory, indexed [API] built from a [Snapshot].
// It is read-only after construction and safe for concurrent use.
type Dictionary struct {
	snap       Snapshot
	categories map[string]*Category
	items      map[string]*Item
	groups     map[string]*Group
	catNames   []string
	groupNames []string
	subcats    map[string]string
}

var _ API = (*Dictionary)(nil)

// New indexes a snapshot. Item names missing their category prefix are
// qualified, and parent and child lists are completed from each other.
func New(s Snapshot) *Dictionary {
	d := &Dictionary{
		snap:       s,
		categories: make(map[string]*Category, len(s.Categories)),
		items:      make(map[string]*Item),
		groups:     make(map[string]*Group, len(s.Groups)),
		subcats:    make(map[string]string, len(s.SubCategories)),
	}

	// Names are normalized in place, so detach from the caller's slices.
	d.snap.Categories = slices.Clone(s.Categories)
	for i := range d.snap.Categories {
		c := &d.snap.Categories[i]
		c.Items = slices.Clone(c.Items)
		c.Keys = slices.Clone(c.Keys)
		d.categories[c.Name] = c
		d.catNames = append(d.catNames, c.Name)
		for j := range c.Items {
			it := &c.Items[j]
			it.Parents = slices.Clone(it.Parents)
			it.Children = slices.Clone(it.Children)
			if !strings.Contains(it.Name, ".") {
				it.Name = ItemName(c.Name, strings.TrimPrefix(it.Name, "_"))
			}
			d.items[it.Name] = it
		}
		for j, k := range c.Keys {
			if !strings.Contains(k, ".") {
				c.Keys[j] = ItemName(c.Name, strings.TrimPrefix(k, "_"))
			}
		}
	}
	sort.Strings(d.catNames)

	for i := range d.snap.Groups {
		g := &d.snap.Groups[i]
		d.groups[g.Name] = g
		d.groupNames = append(d.groupNames, g.Name)
	}
	sort.Strings(d.groupNames)

	for _, sc := range d.snap.SubCategories {
		d.subcats[sc.ID] = sc.Description
	}

	d.mirrorRelations()
	return d
}

// mirrorRelations adds each item to the child list of every parent it
// declares and to the parent list of every child it declares.
func (d *Dictionary) mirrorRelations() {
	for _, name := range d.sortedItemNames() {
		it := d.items[name]
		for _, p := range it.Parents {
			if parent, ok := d.items[p]; ok && !slices.Contains(parent.Children, name) {
				parent.Children = append(parent.Children, name)
			}
		}
		for _, c := range it.Children {
			if child, ok := d.items[c]; ok && !slices.Contains(child.Parents, name) {
				child.Parents = append(child.Parents, name)
			}
		}
	}
}

func (d *Dictionary) sortedItemNames() []string {
	names := make([]string, 0, len(d.items))
	for n := range d.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d *Dictionary) Title() string   { return d.snap.Title }
func (d *Dictionary) Version() string { return d.snap.Version }

// History returns the revision records in the requested order.
func (d *Dictionary) History(order Order) []Revision {
	out := slices.Clone(d.snap.History)
	if order == OrderReverse {
		slices.Reverse(out)
	}
	return out
}

// LastUpdate returns the date of the first revision in the requested order.
func (d *Dictionary) LastUpdate(order Order) string {
	h := d.History(order)
	if len(h) == 0 {
		return ""
	}
	return h[0].Date
}

// Categories returns all category names, sorted.
func (d *Dictionary) Categories() []string { return slices.Clone(d.catNames) }

func (d *Dictionary) Category(name string) (*Category, bool) {
	c, ok := d.categories[name]
	return c, ok
}

// ItemNames returns the item names of a category in definition order.
func (d *Dictionary) ItemNames(category string) []string {
	c, ok := d.categories[category]
	if !ok {
		return nil
	}
	out := make([]string, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Name
	}
	return out
}

func (d *Dictionary) Item(name string) (*Item, bool) {
	it, ok := d.items[name]
	return it, ok
}

func (d *Dictionary) KeyItems(category string) []string {
	if c, ok := d.categories[category]; ok {
		return slices.Clone(c.Keys)
	}
	return nil
}

func (d *Dictionary) CategoryMandatoryCode(category string) string {
	if c, ok := d.categories[category]; ok {
		return c.Mandatory
	}
	return ""
}

func (d *Dictionary) Groups() []string { return slices.Clone(d.groupNames) }

func (d *Dictionary) Group(name string) (*Group, bool) {
	g, ok := d.groups[name]
	return g, ok
}

// CategoryGroups returns the groups a category belongs to, as declared on
// the category or listed by the group.
func (d *Dictionary) CategoryGroups(category string) []string {
	var out []string
	if c, ok := d.categories[category]; ok {
		out = append(out, c.Groups...)
	}
	for _, g := range d.groupNames {
		if slices.Contains(d.groups[g].Categories, category) && !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}

func (d *Dictionary) item(category, attribute string) *Item {
	return d.items[ItemName(category, attribute)]
}

func (d *Dictionary) MandatoryCode(category, attribute string) string {
	if it := d.item(category, attribute); it != nil {
		return it.Mandatory
	}
	return ""
}

// MandatoryCodeAlt returns the deposition mandatory code without falling
// back to the archive code.
func (d *Dictionary) MandatoryCodeAlt(category, attribute string) string {
	if it := d.item(category, attribute); it != nil {
		return it.MandatoryAlt
	}
	return ""
}

func (d *Dictionary) ParentItems(category, attribute string) []string {
	if it := d.item(category, attribute); it != nil {
		return slices.Clone(it.Parents)
	}
	return nil
}

func (d *Dictionary) ChildItems(category, attribute string) []string {
	if it := d.item(category, attribute); it != nil {
		return slices.Clone(it.Children)
	}
	return nil
}

// UltimateParent follows first-declared parents to the root of the chain.
// It returns "" for items without parents.
func (d *Dictionary) UltimateParent(category, attribute string) string {
	it := d.item(category, attribute)
	if it == nil || len(it.Parents) == 0 {
		return ""
	}
	seen := map[string]bool{it.Name: true}
	cur := it.Parents[0]
	for {
		seen[cur] = true
		next, ok := d.items[cur]
		if !ok || len(next.Parents) == 0 || seen[next.Parents[0]] {
			return cur
		}
		cur = next.Parents[0]
	}
}

func (d *Dictionary) DataTypes() []DataType { return d.snap.DataTypes }

func (d *Dictionary) SubCategories() []SubCategory { return d.snap.SubCategories }

func (d *Dictionary) Units() []Unit { return d.snap.Units }

func (d *Dictionary) UnitConversions() []UnitConversion { return d.snap.UnitConversions }

func (d *Dictionary) SubCategoryDescription(id string) string { return d.subcats[id] }
