package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

const yamlSnapshot = `
title: mmcif_ma.dic
version: "1.4.5"
categories:
  - name: ma_model_list
    keys: [ordinal_id]
    items:
      - name: ordinal_id
        mandatory: "yes"
        type: {code: int}
      - name: data_id
        parents: [_ma_data.id]
  - name: ma_data
    keys: [id]
    items:
      - name: id
`

const jsonSnapshot = `{
  "title": "mmcif_nef.dic",
  "version": "0.9",
  "categories": [
    {"name": "nef_sequence", "keys": ["index"], "items": [{"name": "index"}]}
  ]
}`

func TestLoaderResolvesExtensions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mmcif_ma.yaml"), []byte(yamlSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mmcif_nef.json"), []byte(jsonSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Loader{Dir: dir}

	d, err := l.Load("mmcif_ma")
	if err != nil {
		t.Fatalf("Load(mmcif_ma) error = %v", err)
	}
	if d.Version() != "1.4.5" {
		t.Errorf("Version() = %q, want 1.4.5", d.Version())
	}
	if got := d.ChildItems("ma_data", "id"); len(got) != 1 || got[0] != "_ma_model_list.data_id" {
		t.Errorf("ChildItems(ma_data, id) = %v", got)
	}
	if it, ok := d.Item("_ma_model_list.ordinal_id"); !ok || it.Type.Code != "int" {
		t.Errorf("Item(_ma_model_list.ordinal_id) = %v, %v", it, ok)
	}

	d, err = l.Load("mmcif_nef.dic")
	if err != nil {
		t.Fatalf("Load(mmcif_nef.dic) error = %v", err)
	}
	if d.Title() != "mmcif_nef.dic" {
		t.Errorf("Title() = %q", d.Title())
	}
}

func TestLoaderErrors(t *testing.T) {
	l := Loader{Dir: t.TempDir()}

	if _, err := l.Load("mmcif_pdbx_v50"); !errors.Is(err, errors.ErrCodeDictionaryNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeDictionaryNotFound)
	}
	if _, err := l.Load("../etc"); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("Load(../etc) error = %v, want %s", err, errors.ErrCodeInvalidName)
	}
}

func TestDecodeRejectsEmpty(t *testing.T) {
	if _, err := Decode([]byte(`{"title": "x"}`), ".json"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Decode(empty) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := Decode([]byte("title: [unterminated"), ".yaml"); err == nil {
		t.Error("Decode(bad yaml) error = nil, want error")
	}
}

func TestSnapshotName(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/a/mmcif_pdbx_v50.json", "mmcif_pdbx_v50", true},
		{"mmcif_ihm.YAML", "mmcif_ihm", true},
		{"dir/mmcif_ma.yml", "mmcif_ma", true},
		{"dir/mmcif_ma.dic", "", false},
		{"dir/.mmcif_ma.json.swp", "", false},
	}
	for _, tt := range tests {
		got, ok := SnapshotName(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SnapshotName(%q) = %q, %v, want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
