package registry

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

const sample = `{
  "mmcif_dictionary_registry": {
    "pdbxDictionaryNameList": ["mmcif_pdbx_v50", "mmcif_ddl"],
    "otherDictionaryNameList": ["mmcif_ihm", "mmcif_sas"],
    "internalDictionaryNameList": ["mmcif_rcsb_xray"],
    "dictionaryInfo": {
      "mmcif_pdbx_v50": {
        "title": "PDB Exchange Dictionary",
        "description": "The current version",
        "developers": "wwPDB",
        "maintainers": "wwPDB",
        "schema": "pdbx-v50"
      },
      "mmcif_pdbx_v31": {
        "title": "Early PDBx",
        "description": "An early version",
        "schema": null
      }
    }
  }
}`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"Names", r.Names(), []string{"mmcif_pdbx_v50", "mmcif_ddl", "mmcif_ihm", "mmcif_sas"}},
		{"PdbxNames", r.PdbxNames(), []string{"mmcif_pdbx_v50", "mmcif_ddl"}},
		{"InternalNames", r.InternalNames(), []string{"mmcif_rcsb_xray"}},
		{"PdbmlSchemaNames", r.PdbmlSchemaNames(), []string{"mmcif_pdbx_v42", "mmcif_pdbx_v50", "mmcif_ddl", "mmcif_ihm", "mmcif_sas"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Equal(tt.got, tt.want) {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestNamesDoesNotAlias(t *testing.T) {
	r, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	names := r.Names()
	names[0] = "changed"
	if r.Pdbx[0] != "mmcif_pdbx_v50" {
		t.Errorf("Names() aliases the PDBx list: %v", r.Pdbx)
	}
}

func TestInfo(t *testing.T) {
	r, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	info, ok := r.Info("mmcif_pdbx_v50")
	if !ok {
		t.Fatal("Info(mmcif_pdbx_v50) not found")
	}
	if info.SchemaName() != "pdbx-v50" {
		t.Errorf("SchemaName() = %q, want %q", info.SchemaName(), "pdbx-v50")
	}
	if info.Developers != "wwPDB" {
		t.Errorf("Developers = %q, want %q", info.Developers, "wwPDB")
	}

	old, ok := r.Info("mmcif_pdbx_v31")
	if !ok {
		t.Fatal("Info(mmcif_pdbx_v31) not found")
	}
	if old.Schema != nil || old.SchemaName() != "" {
		t.Errorf("null schema decoded as %v", old.Schema)
	}

	if _, ok := r.Info("unknown"); ok {
		t.Error("Info(unknown) should not be found")
	}
	if got := r.Title("unknown"); got != "" {
		t.Errorf("Title(unknown) = %q, want empty", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", "{"},
		{"missing root", `{"other": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(r.Names()) != 4 {
		t.Errorf("len(Names()) = %d, want 4", len(r.Names()))
	}

	_, err = Load(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
