package site

import "strings"

const glyphDir = "/assets/images/glyphicons-dot-com/png/"

const (
	glyphKey       = glyphDir + "glyphicons_044_keys.png"
	glyphBang      = glyphDir + "glyphicons_196_circle_exclamation_mark.png"
	glyphUserInput = glyphDir + "glyphicons_006_user_add.png"
	glyphInfo      = glyphDir + "glyphicons_195_circle_info.png"
	glyphDatabase  = glyphDir + "glyphicons_141_database_plus.png"
	glyphLink      = glyphDir + "glyphicons_050_link.png"
	glyphBookOpen  = glyphDir + "glyphicons_351_book_open.png"
	glyphDownload  = glyphDir + "glyphicons_181_download_alt.png"
	glyphQuestion  = glyphDir + "glyphicons_194_circle_question_mark.png"
	glyphDiagram   = glyphDir + "glyphicons_138_picture.png"
	glyphRegex     = "/assets/images/misc/regex-35.png"
	glyphParent    = "/assets/images/misc/parent-child-40.png"
)

type icon struct {
	glyphs []glyph
	class  string
}

type glyph struct {
	tip, path, imageClass string
}

var icons = map[string]icon{
	"key":      {[]glyph{{"Category key item", glyphKey, ""}}, "key-item"},
	"default":  {[]glyph{{"Additional information", glyphInfo, ""}}, "default"},
	"download": {[]glyph{{"Download options", glyphDownload, ""}}, "default"},
	"help":     {[]glyph{{"Additional help information", glyphQuestion, ""}}, "default"},
	"general":  {[]glyph{{"General information", glyphInfo, ""}}, "general"},
	"mandatory": {
		[]glyph{{"Mandatory data item", glyphBang, ""}}, "mandatory-item",
	},
	"info":         {[]glyph{{"Descriptive information", glyphInfo, ""}}, "info"},
	"deposit-info": {[]glyph{{"Descriptive information", glyphInfo, ""}}, "deposit-description"},
	"deposit-mandatory": {
		[]glyph{{"Required data item for deposition of new entries", glyphUserInput, ""}}, "mandatory-item",
	},
	"regex": {
		[]glyph{{"Data type information", glyphRegex, "my-image-glyph-margin"}}, "regex-item",
	},
	"category-image": {
		[]glyph{{"Category relationship diagram", glyphDiagram, "my-image-glyph-margin"}}, "image-item",
	},
	"parent-child": {
		[]glyph{{"Parent-child data item relationships", glyphParent, "my-image-glyph-margin"}}, "parent-child-item",
	},
	"related-item": {
		[]glyph{{"Related and dependent data items", glyphLink, "my-image-glyph-margin"}}, "related-item",
	},
	"all-mandatory": {[]glyph{
		{"Required data item for archive entries", glyphBang, ""},
		{"Required data item deposition of new entries", glyphUserInput, ""},
	}, "mandatory-item"},
}

// usage markers, applied in order; each prepends its glyph.
var markers = []struct {
	suffix string
	glyph  glyph
	class  string
}{
	{"+database", glyph{"Used in current PDB entries", glyphDatabase, ""}, "in-archive-item"},
	{"+chem-dict", glyph{"Used in the Chemical Component Reference Dictionary", glyphBookOpen, ""}, "in-ref-chem-dict-item"},
	{"+bird-dict", glyph{"Used in the BIRD Reference Dictionary", glyphBookOpen, ""}, "in-ref-bird-dict-item"},
}

// iconMarkup returns the glyph anchors and list class for an icon tag such
// as "key+database" or "mandatory+chem-dict". Unknown base tags (including
// "none") yield no base glyph; usage markers still apply. The category
// image icon takes no markers.
func iconMarkup(tag string) (string, string) {
	base, _, _ := strings.Cut(tag, "+")
	var text, class string
	if ic, ok := icons[base]; ok && (base != "category-image" || base == tag) {
		for _, g := range ic.glyphs {
			text += GlyphAnchor(g.tip, g.path, g.imageClass)
		}
		class = ic.class
	}
	for _, m := range markers {
		if !strings.Contains(tag, m.suffix) {
			continue
		}
		text = GlyphAnchor(m.glyph.tip, m.glyph.path, m.glyph.imageClass) + text
		if class == "" {
			class = m.class
		}
	}
	return text, class
}
