package dictionary

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// Snapshot file extensions tried by [Loader], in order.
var snapshotExts = []string{".json", ".yaml", ".yml"}

// Load reads a dictionary snapshot. The format follows the file extension;
// anything other than .json is decoded as YAML.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeDictionaryNotFound, err, "dictionary snapshot %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read dictionary snapshot %s", path)
	}
	return Decode(data, strings.ToLower(filepath.Ext(path)))
}

// Decode parses snapshot bytes. ext selects the format (".json" or YAML).
func Decode(data []byte, ext string) (*Dictionary, error) {
	var s Snapshot
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON snapshot")
		}
	} else if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode YAML snapshot")
	}
	if len(s.Categories) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot %q defines no categories", s.Title)
	}
	return New(s), nil
}

// Loader resolves dictionary snapshots by name inside a directory.
type Loader struct {
	Dir string
}

// Path returns the snapshot file for name, or "" when none exists.
func (l Loader) Path(name string) string {
	base := strings.TrimSuffix(name, ".dic")
	for _, ext := range snapshotExts {
		p := filepath.Join(l.Dir, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the snapshot for a dictionary name such as "mmcif_pdbx_v50".
func (l Loader) Load(name string) (*Dictionary, error) {
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	p := l.Path(name)
	if p == "" {
		return nil, errors.New(errors.ErrCodeDictionaryNotFound, "no snapshot for %s in %s", name, l.Dir)
	}
	return Load(p)
}

// SnapshotName returns the dictionary name of a snapshot file path, or
// false when the extension is not a snapshot format.
func SnapshotName(path string) (string, bool) {
	ext := filepath.Ext(path)
	if !slices.Contains(snapshotExts, strings.ToLower(ext)) {
		return "", false
	}
	return strings.TrimSuffix(filepath.Base(path), ext), true
}
