package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/site"
)

// writeHTML writes every page of one dictionary tree and returns the number
// written. It stops at the first failed write.
func (r *Runner) writeHTML(ctx context.Context, d *dictionary.Dictionary, name string, gen *site.Generator, logger *log.Logger) (int, error) {
	info, ok := r.Registry.Info(name)
	if !ok {
		logger.Warn("missing dictionary info")
	}
	order := dictionary.OrderReverse
	if name == "mmcif_img" {
		order = dictionary.OrderForward
	}

	c := site.NewContent(d, gen.Paths(), r.Usage, logger)
	title := d.Title()

	pages := []site.Page{
		{Name: "index", Title: "Dictionary Index", SubTitle: title, Type: site.Index, Content: c.DictionaryIndex(name, info, order)},
		{Name: "index", Title: "Category Group Index", SubTitle: title, Type: site.Groups, Content: c.CategoryGroupIndex(true, leadingGroups[name])},
	}
	for _, g := range d.Groups() {
		pages = append(pages, site.Page{Name: g, Title: "Category Group", SubTitle: g, Type: site.Groups, Nav: site.NoNav, Content: c.CategoryGroupPage(g)})
	}
	pages = append(pages,
		site.Page{Name: "index", Title: "Category Index", SubTitle: title, Type: site.Categories, Content: c.CategoryAlphaIndex(true)},
		site.Page{Name: "index", Title: "Item Index", SubTitle: title, Type: site.Items, Content: c.ItemCategoryAlphaIndex(true)},
	)

	n := 0
	write := func(p site.Page) error {
		if err := gen.WritePage(ctx, p); err != nil {
			return err
		}
		n++
		return nil
	}
	for _, p := range pages {
		if err := write(p); err != nil {
			return n, err
		}
	}

	for _, cat := range d.Categories() {
		p := site.Page{Name: cat, Title: "Data Category", SubTitle: cat, Type: site.Categories, Nav: site.NoNav, Content: c.CategoryPage(cat)}
		if err := write(p); err != nil {
			return n, err
		}
		for _, item := range d.ItemNames(cat) {
			p := site.Page{Name: item, Title: "Data Item", SubTitle: item, Type: site.Items, Nav: site.NoNav, Content: c.ItemPage(item)}
			if err := write(p); err != nil {
				return n, err
			}
		}
	}

	err := write(site.Page{Name: "index", Title: "Supporting Data", SubTitle: title, Type: site.Data, Content: c.SupportingDataIndex()})
	logger.Debug("wrote pages", "count", n)
	return n, err
}
