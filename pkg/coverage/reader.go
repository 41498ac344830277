package coverage

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Reader loads coverage files from a directory.
type Reader struct {
	Dir    string
	Logger *log.Logger
}

// NewReader creates a Reader. A nil logger falls back to log.Default().
func NewReader(dir string, logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.Default()
	}
	return &Reader{Dir: dir, Logger: logger}
}

// ItemCounts reads the item counts for ctx. A missing coverage file yields
// an empty map.
func (r *Reader) ItemCounts(ctx Context) (map[string]int, error) {
	name := ctx.CoverageFile()
	if name == "" {
		return map[string]int{}, nil
	}
	path := filepath.Join(r.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger().Debug("no coverage file", "context", ctx, "path", path)
			return map[string]int{}, nil
		}
		return nil, err
	}
	defer f.Close()

	counts, err := parseCounts(f)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("loaded coverage", "context", ctx, "items", len(counts))
	return counts, nil
}

// Load reads every context into a new Usage. It stops early when ctx is
// cancelled.
func (r *Reader) Load(ctx context.Context) (*Usage, error) {
	u := NewUsage()
	for _, c := range Contexts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts, err := r.ItemCounts(c)
		if err != nil {
			return nil, err
		}
		u.Set(c, counts)
	}
	return u, nil
}

func (r *Reader) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// parseCounts reads "item<TAB>count" rows. Blank, short and non-numeric
// rows are skipped.
func parseCounts(rd io.Reader) (map[string]int, error) {
	cr := csv.NewReader(rd)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	counts := make(map[string]int)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			continue
		}
		item := strings.TrimSpace(rec[0])
		n, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if item == "" || err != nil {
			continue
		}
		counts[item] = n
	}
	return counts, nil
}
