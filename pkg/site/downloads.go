package site

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mmcifsite/pkg/registry"
)

const (
	dictionaryURL = "/" + DefaultTopDir
	schemaURL     = "/schema"
)

func downloadLinks(name string) []string {
	return []string{
		anchor(path.Join(dictionaryURL, DictDirName(name), "Index"), "Dictionary Browser  &raquo;", ""),
		anchor(path.Join(dictionaryURL, "ascii", name+".dic"), "Dictionary Text  &raquo;", ""),
		anchor(path.Join(dictionaryURL, "ascii", name+".dic.gz"), "Dictionary Text (gz)  &raquo;", ""),
	}
}

func schemaLink(schema string) string {
	return anchor(path.Join(schemaURL, schema+".xsd"), "PDBML Schema  &raquo;", "")
}

func describeDownload(h *HTML, term, description string, links []string) {
	h.AddDescription(Description{
		Term:       term,
		Detail:     description + "<br />" + strings.Join(links, "&nbsp;|&nbsp;"),
		TermFormat: Markup,
		Format:     Markup,
		ExtraSpace: true,
	})
}

// PdbxDownloads lists browser, text and schema links for each named
// dictionary. Unregistered names are listed with empty text.
func PdbxDownloads(reg *registry.Registry, names []string) []string {
	var h HTML
	h.BeginDescriptionList(false)
	for _, name := range names {
		info, _ := reg.Info(name)
		links := downloadLinks(name)
		if s := info.SchemaName(); s != "" {
			links = append(links, schemaLink(s))
		}
		describeDownload(&h, info.Title, info.Description, links)
	}
	h.EndDescriptionList()
	return h.Lines()
}

// PdbmlDownloads lists the schema of each named dictionary followed by the
// links of the dictionary backing it. Entries without a schema are skipped.
func PdbmlDownloads(reg *registry.Registry, names []string) []string {
	var h HTML
	h.BeginDescriptionList(false)
	for _, name := range names {
		info, _ := reg.Info(name)
		s := info.SchemaName()
		if s == "" {
			continue
		}
		backing := name
		if info.Dictionary != "" {
			backing = info.Dictionary
		}
		links := append([]string{schemaLink(s)}, downloadLinks(backing)...)
		describeDownload(&h, "PDBML schema for the "+info.Title, info.Description, links)
	}
	h.EndDescriptionList()
	return h.Lines()
}

// WriteDownloads writes the public, internal and PDBML download pages to
// <docsPath>/downloads.
func WriteDownloads(ctx context.Context, docsPath string, reg *registry.Registry) error {
	dir := filepath.Join(docsPath, "downloads")
	pages := []struct {
		file, subTitle string
		content        []string
		flavor         Flavor
	}{
		{"downloads.html", "Dictionaries and Schema", PdbxDownloads(reg, reg.Names()), PDBx},
		{"internal-downloads.html", "Internal Dictionaries and Schema", PdbxDownloads(reg, reg.InternalNames()), PDBx},
		{"pdbml-downloads.html", "PDBML Schema", PdbmlDownloads(reg, reg.PdbmlSchemaNames()), PDBML},
	}
	for _, p := range pages {
		if err := WriteFile(ctx, filepath.Join(dir, p.file), "Browse/Download ", p.subTitle, p.content, p.flavor); err != nil {
			return err
		}
	}
	return nil
}
