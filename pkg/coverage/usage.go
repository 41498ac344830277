package coverage

import (
	"fmt"
	"maps"

	"github.com/matzehuels/mmcifsite/pkg/dictionary"
)

// EntryItem is the item whose archive count is the number of entries; usage
// percentages are relative to it.
const EntryItem = "_entry.id"

// Usage holds item and derived category usage counts per delivery context.
//
// A Usage is populated with [Usage.Set] and then read. Reads may run
// concurrently once population is finished; Set is not synchronized.
type Usage struct {
	items      map[Context]map[string]int
	categories map[Context]map[string]int
}

// NewUsage returns an empty Usage. Every context reads as all-zero until Set.
func NewUsage() *Usage {
	return &Usage{
		items:      make(map[Context]map[string]int),
		categories: make(map[Context]map[string]int),
	}
}

// Set replaces the item counts registered for ctx. Category counts are the
// maximum count among each category's items.
func (u *Usage) Set(ctx Context, counts map[string]int) {
	items := maps.Clone(counts)
	if items == nil {
		items = map[string]int{}
	}
	cats := make(map[string]int)
	for item, n := range items {
		cat := dictionary.CategoryPart(item)
		if cur, ok := cats[cat]; !ok || n > cur {
			cats[cat] = n
		}
	}
	u.items[ctx] = items
	u.categories[ctx] = cats
}

// Registered reports whether counts were set for ctx.
func (u *Usage) Registered(ctx Context) bool {
	_, ok := u.items[ctx]
	return ok
}

// Items returns the number of items with counts registered for ctx.
func (u *Usage) Items(ctx Context) int { return len(u.items[ctx]) }

// ItemCount returns the usage count for an item, or 0.
func (u *Usage) ItemCount(item string, ctx Context) int {
	return u.items[ctx][item]
}

// ItemUsed reports a nonzero item count.
func (u *Usage) ItemUsed(item string, ctx Context) bool {
	return u.ItemCount(item, ctx) > 0
}

// CategoryCount returns the derived category count, or 0.
func (u *Usage) CategoryCount(category string, ctx Context) int {
	return u.categories[ctx][category]
}

// CategoryUsed reports a nonzero category count.
func (u *Usage) CategoryUsed(category string, ctx Context) bool {
	return u.CategoryCount(category, ctx) > 0
}

// CategoryPercent formats the category count as a percentage of entries.
func (u *Usage) CategoryPercent(category string, ctx Context) string {
	n, ok := u.categories[ctx][category]
	if !ok {
		return "0.0"
	}
	return u.percent(n, ctx)
}

// ItemPercent formats the item count as a percentage of entries.
func (u *Usage) ItemPercent(item string, ctx Context) string {
	n, ok := u.items[ctx][item]
	if !ok {
		return "0.0"
	}
	return u.percent(n, ctx)
}

func (u *Usage) percent(n int, ctx Context) string {
	denom := u.items[ctx][EntryItem]
	if denom <= 0 {
		return "0.0"
	}
	return FormatPercent(100.0 * float64(n) / float64(denom))
}

// FormatPercent renders a percentage with precision that grows as the value
// shrinks.
func FormatPercent(pc float64) string {
	switch {
	case pc > 1:
		return fmt.Sprintf("%5d", int(pc))
	case pc > 0.10:
		return fmt.Sprintf("%5.1f", pc)
	case pc > 0.01:
		return fmt.Sprintf("%5.2f", pc)
	default:
		return fmt.Sprintf("%6.3f", pc)
	}
}

// ItemIconType builds the icon tag for an item: the base tag ("key",
// "all-mandatory", "mandatory", "deposit-mandatory" or "none") followed by a
// usage marker for each context using the item.
func (u *Usage) ItemIconType(item string, key, archiveMandatory, depositMandatory bool) string {
	tag := "none"
	switch {
	case key:
		tag = "key"
	case archiveMandatory && depositMandatory:
		tag = "all-mandatory"
	case archiveMandatory:
		tag = "mandatory"
	case depositMandatory:
		tag = "deposit-mandatory"
	}
	return tag + u.markers(
		u.ItemUsed(item, Archive),
		u.ItemUsed(item, ChemComp),
		u.ItemUsed(item, BIRD) || u.ItemUsed(item, BIRDFamily),
	)
}

// CategoryIconType builds the icon tag for a category.
func (u *Usage) CategoryIconType(category string, mandatory bool) string {
	tag := "none"
	if mandatory {
		tag = "mandatory"
	}
	return tag + u.markers(
		u.CategoryUsed(category, Archive),
		u.CategoryUsed(category, ChemComp),
		u.CategoryUsed(category, BIRD) || u.CategoryUsed(category, BIRDFamily),
	)
}

func (u *Usage) markers(archive, chemDict, birdDict bool) string {
	var s string
	if archive {
		s += "+database"
	}
	if chemDict {
		s += "+chem-dict"
	}
	if birdDict {
		s += "+bird-dict"
	}
	return s
}
