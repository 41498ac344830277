package site

import (
	"fmt"
	"html"
	"strings"
)

// Format says whether text handed to a markup helper is plain text that must
// be escaped, or markup that is inserted as is.
type Format int

const (
	Text Format = iota
	Markup
)

// Wrapper selects the element enclosing a formatted block of text.
type Wrapper int

const (
	Pre Wrapper = iota
	Code
	Verbatim
	Monospace
)

// Escape replaces the HTML special characters of s with entities.
func Escape(s string) string { return html.EscapeString(s) }

// MarkupMath turns ~x~ into subscripts and ^x^ into superscripts.
func MarkupMath(s string) string {
	s = alternate(s, "~", "<sub>", "</sub>")
	return alternate(s, "^", "<sup>", "</sup>")
}

// alternate replaces successive occurrences of delim with open and close in
// turn. An unpaired delimiter leaves an open tag.
func alternate(s, delim, open, close string) string {
	if !strings.Contains(s, delim) {
		return s
	}
	parts := strings.Split(s, delim)
	var b strings.Builder
	b.WriteString(parts[0])
	for i, p := range parts[1:] {
		if i%2 == 0 {
			b.WriteString(open)
		} else {
			b.WriteString(close)
		}
		b.WriteString(p)
	}
	return b.String()
}

func escapeText(s string, f Format, math bool) string {
	if f != Text {
		return s
	}
	s = Escape(s)
	if math {
		s = MarkupMath(s)
	}
	return s
}

// Formatted wraps a block of text for display. With math, the text is
// escaped, sub- and superscripts are marked up, and the result is shown
// verbatim.
func Formatted(s string, w Wrapper, f Format, math bool) string {
	if math {
		s = MarkupMath(Escape(s))
		w, f = Verbatim, Markup
	}
	if f == Text {
		switch w {
		case Pre:
			return `<pre class="pre-scrollable"> ` + Escape(s) + `</pre>`
		case Code:
			return `<code> ` + Escape(s) + `</code>`
		case Verbatim:
			return `<div class="my-monospace highlight"> ` + strings.ReplaceAll(Escape(s), "\n", "<br />") + `</div>`
		default:
			return `<div class="my-monospace"> ` + Escape(s) + `</div>`
		}
	}
	switch w {
	case Pre:
		return `<pre class="pre-scrollable"> ` + s + `</pre>`
	case Code:
		return `<code> ` + s + `</code>`
	case Verbatim:
		// Class name matches the published stylesheet.
		return `<div class="my-monospace higlight"> ` + s + `</div>`
	default:
		return `<div class="my-monospace highlight"> ` + s + `</div>`
	}
}

// Anchor links label to url. The label is escaped; class may be empty.
func Anchor(url, label, class string) string {
	return anchor(url, Escape(label), class)
}

func anchor(url, label, class string) string {
	if class == "" {
		return fmt.Sprintf(`<a href="%s">%s</a>`, url, label)
	}
	return fmt.Sprintf(`<a href="%s" class="%s">%s</a>`, url, class, label)
}

// GlyphAnchor renders a right-floated tooltip icon.
func GlyphAnchor(tip, glyph, imageClass string) string {
	return fmt.Sprintf(`<a href="#" class="mytip pull-right" data-toggle="tooltip"  data-placement="left" title="%s"> <img class="%s" src="%s"></a>`,
		tip, imageClass, glyph)
}

// ButtonAnchor renders a link styled as a button. Data holds extra
// attributes such as data-toggle.
func ButtonAnchor(label string, f Format, url, class, data string) string {
	return fmt.Sprintf(`<a %s class="btn %s" href="%s">%s</a>`, data, class, url, escapeText(label, f, false))
}

func Image(src, alt string, width, height int, class string) string {
	return fmt.Sprintf(`<img src="%s" width=%d height=%d alt="%s" class="%s">`, src, width, height, alt, class)
}

func Badge(v any) string { return fmt.Sprintf(`<span class="badge">%v</span>`, v) }

// IndexTitle decorates a letter heading of an alphabetical index.
func IndexTitle(s string) string { return fmt.Sprintf("-&nbsp;%s &nbsp;-", s) }
