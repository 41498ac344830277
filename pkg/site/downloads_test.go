package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mmcifsite/pkg/registry"
)

const testRegistry = `{
  "mmcif_dictionary_registry": {
    "pdbxDictionaryNameList": ["mmcif_pdbx_v50"],
    "otherDictionaryNameList": ["mmcif_ihm"],
    "internalDictionaryNameList": ["mmcif_internal"],
    "dictionaryInfo": {
      "mmcif_pdbx_v50": {"title": "PDBx v5", "description": "Current", "schema": "pdbx-v50"},
      "mmcif_pdbx_v42": {"title": "PDBx v4", "description": "Legacy", "schema": "pdbx-v42", "dictionary": "mmcif_pdbx_v40"},
      "mmcif_ihm": {"title": "IHM", "description": "Integrative", "schema": null},
      "mmcif_internal": {"title": "Internal", "description": "Private", "schema": null}
    }
  }
}`

func loadTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.Parse([]byte(testRegistry))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return r
}

func TestPdbxDownloads(t *testing.T) {
	got := joined(PdbxDownloads(loadTestRegistry(t), []string{"mmcif_pdbx_v50", "mmcif_ihm"}))
	for _, want := range []string{
		`<dl class="dl-lg">`,
		"<dt  >PDBx v5</dt>",
		`<a href="/dictionaries/mmcif_pdbx_v50.dic/Index">Dictionary Browser  &raquo;</a>`,
		`<a href="/dictionaries/ascii/mmcif_ihm.dic.gz">Dictionary Text (gz)  &raquo;</a>`,
		`<a href="/schema/pdbx-v50.xsd">PDBML Schema  &raquo;</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PdbxDownloads() missing %q", want)
		}
	}
	if strings.Count(got, "PDBML Schema") != 1 {
		t.Error("schema link added for a dictionary without schema")
	}
}

func TestPdbmlDownloads(t *testing.T) {
	r := loadTestRegistry(t)
	got := joined(PdbmlDownloads(r, r.PdbmlSchemaNames()))
	for _, want := range []string{
		"<dt  >PDBML schema for the PDBx v4</dt>",
		`<a href="/dictionaries/mmcif_pdbx_v40.dic/Index">`,
		"<dt  >PDBML schema for the PDBx v5</dt>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PdbmlDownloads() missing %q", want)
		}
	}
	if strings.Contains(got, "IHM") {
		t.Error("PdbmlDownloads() listed a dictionary without schema")
	}
	if strings.Index(got, "PDBx v4") > strings.Index(got, "PDBx v5") {
		t.Error("legacy schema not listed first")
	}
}

func TestWriteDownloads(t *testing.T) {
	docs := t.TempDir()
	if err := WriteDownloads(context.Background(), docs, loadTestRegistry(t)); err != nil {
		t.Fatalf("WriteDownloads() error = %v", err)
	}
	tests := []struct {
		file string
		want string
	}{
		{"downloads.html", "PDBx v5"},
		{"internal-downloads.html", "Internal"},
		{"pdbml-downloads.html", "pdbml_page_header_bs.html"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(docs, "downloads", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("%s missing %q", tt.file, tt.want)
			}
		})
	}
}
