package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// DotEnv names the environment variable that overrides dot discovery.
const DotEnv = "GRAPHVIZ_DOT_BINARY"

// dotCandidates are checked in order after DotEnv.
var dotCandidates = []string{"/usr/bin/dot", "/usr/local/bin/dot", "/opt/bin/dot"}

// FindDot returns the first executable among $GRAPHVIZ_DOT_BINARY and the
// standard install locations, then falls back to a PATH lookup. It returns
// "" when none is found.
func FindDot() string {
	var paths []string
	if p := os.Getenv(DotEnv); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, dotCandidates...)
	for _, p := range paths {
		if isExecutable(p) {
			return p
		}
	}
	if p, err := exec.LookPath("dot"); err == nil {
		return p
	}
	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// Exec renders by running an external dot binary.
type Exec struct {
	path string
}

// NewExec returns a renderer running the binary at path, or the one found by
// FindDot when path is empty.
func NewExec(path string) (*Exec, error) {
	if path == "" {
		path = FindDot()
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeRendererUnavailable,
			"graphviz dot not found; install graphviz or set %s", DotEnv)
	}
	if !isExecutable(path) {
		return nil, errors.New(errors.ErrCodeRendererUnavailable, "%s is not an executable file", path)
	}
	return &Exec{path: path}, nil
}

// Path returns the dot binary in use.
func (e *Exec) Path() string { return e.path }

// Name implements Renderer.
func (*Exec) Name() string { return string(KindExec) }

// Render implements Renderer. The DOT text is passed on stdin.
func (e *Exec) Render(ctx context.Context, dot []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := checkFormat(opts.Format); err != nil {
		return nil, err
	}

	args := []string{"-T" + string(opts.Format)}
	if opts.Size != "" {
		args = append(args, "-Gsize="+opts.Size)
	}
	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Stdin = bytes.NewReader(dot)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", e.path, errBuf.String())
	}
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s produced no %s output", e.path, opts.Format)
	}
	return finish(out.Bytes(), opts), nil
}

var _ Renderer = (*Exec)(nil)
