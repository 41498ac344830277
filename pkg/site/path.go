package site

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultTopDir is the directory under the document root holding all
// dictionary trees.
const DefaultTopDir = "dictionaries"

// ContentType is a major section of a dictionary tree. Its value is also the
// subdirectory name.
type ContentType string

const (
	Index      ContentType = "Index"
	Groups     ContentType = "Groups"
	Categories ContentType = "Categories"
	Items      ContentType = "Items"
	Data       ContentType = "Data"
)

// ContentTypes lists the sections in navigation order.
var ContentTypes = []ContentType{Index, Groups, Categories, Items, Data}

var displayNames = map[ContentType]string{
	Index:      "Dictionary",
	Groups:     "Category Groups",
	Categories: "Data Categories",
	Items:      "Data Items",
	Data:       "Supporting Data",
}

// DisplayName returns the navigation tab label, or "" for an unknown type.
func (c ContentType) DisplayName() string { return displayNames[c] }

// DictDirName returns the tree directory name of a dictionary.
func DictDirName(dictionary string) string { return dictionary + ".dic" }

// FigureStem returns the file name stem of a category figure. Variant is ""
// for the unfiltered figure or a usage context name such as "archive".
func FigureStem(category, variant string) string {
	if variant == "" {
		return category + "_neighbors"
	}
	return category + "_neighbors_" + variant
}

// PathInfo maps the pages and images of one dictionary to URLs and file
// system paths.
type PathInfo struct {
	docsPath string
	topDir   string
	dictDir  string
}

// NewPathInfo returns the layout of dictDir below docsPath. An empty topDir
// means [DefaultTopDir].
func NewPathInfo(docsPath, topDir, dictDir string) *PathInfo {
	if topDir == "" {
		topDir = DefaultTopDir
	}
	if abs, err := filepath.Abs(docsPath); err == nil {
		docsPath = abs
	}
	return &PathInfo{docsPath: docsPath, topDir: topDir, dictDir: dictDir}
}

func (p *PathInfo) DocsPath() string { return p.docsPath }
func (p *PathInfo) TopDir() string   { return p.topDir }
func (p *PathInfo) DictDir() string  { return p.dictDir }

// TopPath is the directory containing every dictionary tree.
func (p *PathInfo) TopPath() string { return filepath.Join(p.docsPath, p.topDir) }

// ContentPath is the root of this dictionary's tree.
func (p *PathInfo) ContentPath() string { return filepath.Join(p.TopPath(), p.dictDir) }

func (p *PathInfo) ContentTypePath(ct ContentType) string {
	return filepath.Join(p.ContentPath(), string(ct))
}

func (p *PathInfo) IndexURL(ct ContentType) string {
	return path.Join("/", p.topDir, p.dictDir, string(ct), "index.html")
}

func (p *PathInfo) IndexPath(ct ContentType) string {
	return filepath.Join(p.ContentTypePath(ct), "index.html")
}

// ObjectURL returns the page URL of a named group, category or item.
func (p *PathInfo) ObjectURL(name string, ct ContentType) string {
	return path.Join("/", p.topDir, p.dictDir, string(ct), escapeFileName(name)+".html")
}

// ObjectPath returns the page file of a named group, category or item.
func (p *PathInfo) ObjectPath(name string, ct ContentType) string {
	return filepath.Join(p.ContentTypePath(ct), escapeFileName(name)+".html")
}

func (p *PathInfo) CategoryImagePath() string {
	return filepath.Join(p.ContentPath(), "Images", "Categories")
}

func (p *PathInfo) CategoryImageURL() string {
	return path.Join("/", p.topDir, p.dictDir, "Images", "Categories")
}

func (p *PathInfo) ItemImagePath() string {
	return filepath.Join(p.ContentPath(), "Images", "Items")
}

// CategoryURL and ItemURL let a PathInfo link neighbor figure nodes.
func (p *PathInfo) CategoryURL(category string) string { return p.ObjectURL(category, Categories) }
func (p *PathInfo) ItemURL(item string) string         { return p.ObjectURL(item, Items) }

// escapeFileName replaces characters that cannot appear in a file name.
func escapeFileName(name string) string {
	return strings.ReplaceAll(name, "/", "_over_")
}
