package registry

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// PdbmlLegacySchema is listed ahead of the registered dictionaries on the
// PDBML download page.
const PdbmlLegacySchema = "mmcif_pdbx_v42"

// Info describes one dictionary.
type Info struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Developers  string  `json:"developers,omitempty"`
	Maintainers string  `json:"maintainers,omitempty"`
	Schema      *string `json:"schema"`

	// Dictionary names the dictionary whose definitions back this entry
	// when it differs from the registry key.
	Dictionary string `json:"dictionary,omitempty"`
}

// SchemaName returns the PDBML schema name, or "" when there is none.
func (i Info) SchemaName() string {
	if i.Schema == nil {
		return ""
	}
	return *i.Schema
}

type document struct {
	Root *Registry `json:"mmcif_dictionary_registry"`
}

// Registry is the decoded registry file.
type Registry struct {
	Pdbx     []string        `json:"pdbxDictionaryNameList"`
	Other    []string        `json:"otherDictionaryNameList"`
	Internal []string        `json:"internalDictionaryNameList"`
	Entries  map[string]Info `json:"dictionaryInfo"`
}

// Load reads the registry file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "registry file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read registry %s", path)
	}
	return Parse(data)
}

// Parse decodes a registry document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode registry")
	}
	if doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "registry has no mmcif_dictionary_registry object")
	}
	if doc.Root.Entries == nil {
		doc.Root.Entries = make(map[string]Info)
	}
	return doc.Root, nil
}

// Names returns the public dictionaries: PDBx dictionaries first, then the
// others, in file order.
func (r *Registry) Names() []string {
	return slices.Concat(r.Pdbx, r.Other)
}

// PdbxNames returns the PDBx dictionaries.
func (r *Registry) PdbxNames() []string { return slices.Clone(r.Pdbx) }

// InternalNames returns the dictionaries published for internal use only.
func (r *Registry) InternalNames() []string { return slices.Clone(r.Internal) }

// PdbmlSchemaNames returns the dictionaries listed on the PDBML download page.
func (r *Registry) PdbmlSchemaNames() []string {
	return slices.Concat([]string{PdbmlLegacySchema}, r.Names())
}

// Info returns the metadata of name.
func (r *Registry) Info(name string) (Info, bool) {
	info, ok := r.Entries[name]
	return info, ok
}

// Title returns the title of name, or "" when it is not registered.
func (r *Registry) Title(name string) string {
	return r.Entries[name].Title
}
