package cache

// ScopedKeyer wraps a Keyer with a prefix. Sites sharing one Redis database
// use different prefixes:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mmcifsite:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FigureKey generates a prefixed figure key.
func (k *ScopedKeyer) FigureKey(dotHash string, opts FigureKeyOpts) string {
	return k.prefix + k.inner.FigureKey(dotHash, opts)
}
