package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlanRebuild(t *testing.T) {
	paths := Paths{Assets: "/assets"}.WithDefaults()

	tests := []struct {
		name    string
		changed []string
		want    rebuildPlan
	}{
		{"nothing", nil, rebuildPlan{}},
		{"snapshot", []string{"/assets/dictionaries/mmcif_ma.json", "/assets/dictionaries/mmcif_ma.json"},
			rebuildPlan{Dictionaries: []string{"mmcif_ma"}}},
		{"sorted snapshots", []string{"/assets/dictionaries/mmcif_sas.yaml", "/assets/dictionaries/mmcif_ihm.yml"},
			rebuildPlan{Dictionaries: []string{"mmcif_ihm", "mmcif_sas"}}},
		{"editor swap file", []string{"/assets/dictionaries/.mmcif_ma.json.swp"}, rebuildPlan{}},
		{"coverage", []string{"/assets/coverage/archive_item_counts.csv"}, rebuildPlan{Coverage: true}},
		{"registry", []string{"/assets/config/mmcif_dictionary_registry.json"}, rebuildPlan{Registry: true}},
		{"unrelated", []string{"/assets/config/other.json", "/elsewhere/x.json"}, rebuildPlan{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planRebuild(paths, tt.changed)
			if got.Registry != tt.want.Registry || got.Coverage != tt.want.Coverage ||
				strings.Join(got.Dictionaries, ",") != strings.Join(tt.want.Dictionaries, ",") {
				t.Errorf("planRebuild() = %+v, want %+v", got, tt.want)
			}
			if got.empty() != tt.want.empty() {
				t.Errorf("empty() = %v, want %v", got.empty(), tt.want.empty())
			}
		})
	}
}

func TestRebuildSnapshot(t *testing.T) {
	docs := t.TempDir()
	r := testRunner(t, &stubRenderer{})
	opts := Options{DocsPath: docs, HTML: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	plan := rebuildPlan{Dictionaries: []string{"mmcif_test"}}
	if err := r.rebuild(context.Background(), Paths{}, opts, plan); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}
	index := filepath.Join(docs, "dictionaries", "mmcif_test.dic", "Index", "index.html")
	if _, err := os.Stat(index); err != nil {
		t.Errorf("index not rebuilt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(docs, "dictionaries", "mmcif_other.dic")); err == nil {
		t.Error("unchanged dictionary rebuilt")
	}
}

func TestRebuildSelection(t *testing.T) {
	docs := t.TempDir()
	r := testRunner(t, &stubRenderer{})
	opts := Options{DocsPath: docs, HTML: true, Dictionaries: []string{"mmcif_other"}}

	plan := rebuildPlan{Dictionaries: []string{"mmcif_test"}}
	if err := r.rebuild(context.Background(), Paths{}, opts, plan); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(docs, "dictionaries")); err == nil {
		t.Error("rebuild ran for a dictionary outside the selection")
	}
}

func TestRebuildRegistry(t *testing.T) {
	assets := t.TempDir()
	paths := Paths{Assets: assets}.WithDefaults()
	if err := os.MkdirAll(filepath.Dir(paths.Registry), 0o755); err != nil {
		t.Fatal(err)
	}
	reg := strings.Replace(testRegistry, `"otherDictionaryNameList": ["mmcif_other"]`, `"otherDictionaryNameList": []`, 1)
	if err := os.WriteFile(paths.Registry, []byte(reg), 0o644); err != nil {
		t.Fatal(err)
	}

	r := testRunner(t, &stubRenderer{})
	opts := Options{DocsPath: t.TempDir(), HTML: true}
	if err := r.rebuild(context.Background(), paths, opts, rebuildPlan{Registry: true}); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}
	if got := r.Registry.Names(); len(got) != 1 || got[0] != "mmcif_test" {
		t.Errorf("Registry.Names() = %v, want reloaded [mmcif_test]", got)
	}
}
