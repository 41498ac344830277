package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// FigureKey returns the key of a rendered figure.
	FigureKey(dotHash string, opts FigureKeyOpts) string
}

// FigureKeyOpts are the render settings that change the output bytes.
type FigureKeyOpts struct {
	Renderer string `json:"renderer"`
	Format   string `json:"format"`
	Size     string `json:"size,omitempty"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FigureKey hashes the options so that any change in them yields a new key.
func (DefaultKeyer) FigureKey(dotHash string, opts FigureKeyOpts) string {
	return hashKey(fmt.Sprintf("figure:%s", dotHash), opts)
}
