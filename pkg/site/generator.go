package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/observability"
)

// NavBrowse is the title shown beside the section tabs.
const NavBrowse = "Browse:"

// NoNav disables tab highlighting on a page.
const NoNav ContentType = "none"

// Page is one generated document of a dictionary tree.
type Page struct {
	// Name is the object name; "index" for section index pages.
	Name     string
	Title    string
	SubTitle string
	Type     ContentType
	// Nav selects the highlighted tab. Empty means Type; NoNav means none.
	Nav     ContentType
	Content []string
}

// Generator writes the pages of one dictionary tree.
type Generator struct {
	paths      *PathInfo
	dictionary string
	logger     *log.Logger
}

// NewGenerator returns a Generator writing below p. The dictionary name is
// reported to observability hooks.
func NewGenerator(p *PathInfo, dictionary string, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{paths: p, dictionary: dictionary, logger: logger}
}

func (g *Generator) Paths() *PathInfo { return g.paths }

// MakeDirectories creates the section and image directories of the tree.
// With purge, an existing tree is removed first.
func (g *Generator) MakeDirectories(purge bool) error {
	if purge {
		if err := os.RemoveAll(g.paths.ContentPath()); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "purge %s", g.paths.ContentPath())
		}
	}
	dirs := []string{g.paths.CategoryImagePath(), g.paths.ItemImagePath()}
	for _, ct := range ContentTypes {
		dirs = append(dirs, g.paths.ContentTypePath(ct))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", d)
		}
	}
	return nil
}

// WritePage renders p with the shared header, navigation and trailer.
func (g *Generator) WritePage(ctx context.Context, p Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nav := p.Nav
	switch nav {
	case "":
		nav = p.Type
	case NoNav:
		nav = ""
	}

	path := g.paths.ObjectPath(p.Name, p.Type)
	g.logger.Debug("writing page", "path", path)

	var buf bytes.Buffer
	buf.WriteString(PageHeader(p.Title+" "+p.SubTitle, PDBx) + "\n")
	buf.WriteString(PageTitle(p.Title, p.SubTitle) + "\n")
	buf.WriteString(TopNavbar(NavBrowse, nav, g.paths) + "\n")
	buf.WriteString(strings.Join(p.Content, "\n"))
	buf.WriteString(PageTrailer() + "\n")

	if err := writeExecutable(path, buf.Bytes()); err != nil {
		return err
	}
	observability.Site().OnPageWritten(ctx, g.dictionary, string(p.Type), buf.Len())
	return nil
}

// WriteFile renders a standalone page, without section tabs, to path. The
// parent directory is created when missing.
func WriteFile(ctx context.Context, path, title, subTitle string, content []string, f Flavor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}

	var buf bytes.Buffer
	buf.WriteString(PageHeader(title+" "+subTitle, f) + "\n")
	buf.WriteString(PageTitle(title, subTitle) + "\n")
	buf.WriteString(strings.Join(content, "\n"))
	buf.WriteString(PageTrailer() + "\n")

	if err := writeExecutable(path, buf.Bytes()); err != nil {
		return err
	}
	observability.Site().OnPageWritten(ctx, "", "downloads", buf.Len())
	return nil
}

// writeExecutable writes data and adds execute permission for everyone,
// which marks the page for server-side include processing (XBitHack).
func writeExecutable(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	st, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if err := os.Chmod(path, st.Mode()|0o111); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "chmod %s", path)
	}
	return nil
}
