package render

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/cache"
	"github.com/matzehuels/mmcifsite/pkg/observability"
)

const figureKeyType = "figure"

// Cached wraps a Renderer with a cache keyed by the DOT text and options.
// Cache failures are logged and never fail a render.
type Cached struct {
	inner  Renderer
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps inner. A nil cache disables caching; a nil keyer uses the
// default keyer.
func NewCached(inner Renderer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, ttl: cache.TTLFigure, logger: logger}
}

// WithTTL sets how long rendered figures are kept; zero or less keeps
// [cache.TTLFigure].
func (c *Cached) WithTTL(d time.Duration) *Cached {
	if d > 0 {
		c.ttl = d
	}
	return c
}

// Name implements Renderer.
func (c *Cached) Name() string { return c.inner.Name() }

// Render implements Renderer.
func (c *Cached) Render(ctx context.Context, dot []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	key := c.keyer.FigureKey(cache.Hash(dot), cache.FigureKeyOpts{
		Renderer: c.inner.Name(),
		Format:   string(opts.Format),
		Size:     sizeKey(opts),
	})

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("render cache read failed", "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, figureKeyType)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, figureKeyType)

	img, err := c.inner.Render(ctx, dot, opts)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, img, c.ttl); err != nil {
		c.logger.Warn("render cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, figureKeyType, len(img))
	}
	return img, nil
}

func sizeKey(opts Options) string {
	if opts.Responsive {
		return opts.Size + ";responsive"
	}
	return opts.Size
}

var _ Renderer = (*Cached)(nil)
