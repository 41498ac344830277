package render

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// Graphviz renders DOT in-process.
type Graphviz struct{}

// NewGraphviz returns the in-process renderer.
func NewGraphviz() *Graphviz { return &Graphviz{} }

// Name implements Renderer.
func (*Graphviz) Name() string { return string(KindGraphviz) }

// Render implements Renderer.
func (*Graphviz) Render(ctx context.Context, dot []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := checkFormat(opts.Format); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererUnavailable, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(withSize(dot, opts.Size))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format(opts.Format), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", opts.Format)
	}
	if buf.Len() == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "graphviz produced no %s output", opts.Format)
	}
	return finish(buf.Bytes(), opts), nil
}

var _ Renderer = (*Graphviz)(nil)
