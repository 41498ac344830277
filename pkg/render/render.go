package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// Format is an output image format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// Kind names a renderer implementation.
type Kind string

const (
	KindGraphviz Kind = "graphviz"
	KindExec     Kind = "dot"
)

// Options control one render.
type Options struct {
	// Format defaults to SVG.
	Format Format

	// Size is a Graphviz size attribute such as "7,7"; empty leaves the
	// natural size.
	Size string

	// Responsive rewrites the root svg element to scale with its container.
	Responsive bool
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = SVG
	}
	return o
}

// Renderer converts DOT text into an image.
type Renderer interface {
	Render(ctx context.Context, dot []byte, opts Options) ([]byte, error)
	Name() string
}

// New returns the renderer of the given kind. dotPath is only used by
// KindExec; empty means FindDot.
func New(kind Kind, dotPath string) (Renderer, error) {
	switch kind {
	case KindGraphviz, "":
		return NewGraphviz(), nil
	case KindExec:
		return NewExec(dotPath)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown renderer %q", kind)
	}
}

func checkFormat(f Format) error {
	switch f {
	case SVG, PNG:
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported image format %q", f)
}

// withSize adds a graph-level size attribute after the opening brace.
func withSize(dot []byte, size string) []byte {
	if size == "" {
		return dot
	}
	i := bytes.IndexByte(dot, '{')
	if i < 0 {
		return dot
	}
	attr := fmt.Sprintf("\ngraph [size=%s];", strconv.Quote(size))
	out := make([]byte, 0, len(dot)+len(attr))
	out = append(out, dot[:i+1]...)
	out = append(out, attr...)
	return append(out, dot[i+1:]...)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element with one carrying only the
// namespace, a zero-origin viewBox, and the natural width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	out := make([]byte, 0, len(svg))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}

func finish(img []byte, opts Options) []byte {
	if opts.Responsive && opts.Format == SVG {
		return normalizeViewBox(img)
	}
	return img
}
