package site

import (
	"strings"
	"testing"
)

func TestPageHeader(t *testing.T) {
	tests := []struct {
		flavor  Flavor
		prefix  string
		include string
	}{
		{PDBx, "PDBx/mmCIF Data Dictionary Title", "/includes/page_header_bs.html"},
		{PDBML, "PDBx/mmCIF Resources Title", "/includes/pdbml_page_header_bs.html"},
	}
	for _, tt := range tests {
		got := PageHeader("Title", tt.flavor)
		if !strings.Contains(got, `content="`+tt.prefix+`"`) {
			t.Errorf("PageHeader(%d) missing description %q", tt.flavor, tt.prefix)
		}
		if !strings.Contains(got, `<!--#include virtual="`+tt.include+`"-->`) {
			t.Errorf("PageHeader(%d) missing include %q", tt.flavor, tt.include)
		}
		if !strings.Contains(got, "<title>Title</title>") {
			t.Errorf("PageHeader(%d) missing title", tt.flavor)
		}
	}
	if !strings.Contains(PageTrailer(), "</html>") {
		t.Error("PageTrailer() does not close the document")
	}
}

func TestPageTitle(t *testing.T) {
	got := PageTitle("Data Category", "atom_site")
	if !strings.Contains(got, "<h2>Data Category <small>atom_site</small></h2>") {
		t.Errorf("PageTitle() = %q", got)
	}
}

func TestTopNavbar(t *testing.T) {
	p := NewPathInfo("/docs", "", "d.dic")

	t.Run("active", func(t *testing.T) {
		got := TopNavbar(NavBrowse, Items, p)
		if n := strings.Count(got, `<li class="active">`); n != 1 {
			t.Fatalf("active tabs = %d, want 1", n)
		}
		want := `<li class="active">               <a href="/dictionaries/d.dic/Items/index.html">Data Items</a></li>`
		if !strings.Contains(got, want) {
			t.Errorf("TopNavbar() missing %q", want)
		}
		if !strings.Contains(got, "<h4>Browse:</h4>") {
			t.Error("TopNavbar() missing nav title")
		}
	})
	t.Run("none", func(t *testing.T) {
		got := TopNavbar(NavBrowse, "", p)
		if strings.Contains(got, "active") {
			t.Error("TopNavbar() highlighted a tab")
		}
		if n := strings.Count(got, "<a href="); n != len(ContentTypes) {
			t.Errorf("tabs = %d, want %d", n, len(ContentTypes))
		}
	})
}
