// Package render turns Graphviz DOT text into images.
//
// Two renderers are provided:
//
//   - [Graphviz] renders in-process with go-graphviz. No system packages are
//     needed.
//   - [Exec] runs an external dot binary, found by [FindDot]. Output matches
//     the system Graphviz install byte for byte.
//
// [Cached] wraps either one with a [cache.Cache] keyed by the DOT text and
// render options.
//
//	r, err := render.New(render.KindGraphviz, "")
//	svg, err := r.Render(ctx, []byte(g.DOT()), render.Options{Format: render.SVG})
package render
