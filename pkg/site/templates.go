package site

import (
	"fmt"
	"strings"
)

// Flavor selects the page header used by WriteFile.
type Flavor int

const (
	PDBx Flavor = iota
	PDBML
)

const pageHeader = `<!DOCTYPE html>
<html lang="en">
  <head>
   <!--#include virtual="/includes/head_common_bs.html"-->
    <meta name="description" content="%s %s">
    <meta name="author" content="Worldwide Protein Data Bank">
    <title>%s</title>
  </head>

  <body>
    <!-- Wrap all page content here -->
    <div id="wrap">

      <!--#include virtual="/includes/%s"-->
      <div class="container">
    `

const pageTrailer = `
     </div> <!-- end top container-->
     </div> <!-- end wrap -->

    <!-- END TEXT HERE  -->
    <!--#include virtual="/includes/page_javascript_bs.html"-->
    <!--#include virtual="/includes/page_footer_bs.html"-->
  </body>
</html>
    `

// PageHeader returns the document head and the opening of the page body.
func PageHeader(title string, f Flavor) string {
	if f == PDBML {
		return fmt.Sprintf(pageHeader, "PDBx/mmCIF Resources", title, title, "pdbml_page_header_bs.html")
	}
	return fmt.Sprintf(pageHeader, "PDBx/mmCIF Data Dictionary", title, title, "page_header_bs.html")
}

// PageTrailer closes what PageHeader opened.
func PageTrailer() string { return pageTrailer }

func PageTitle(title, subTitle string) string {
	return strings.Join([]string{
		`    <div class="my-page-header">`,
		fmt.Sprintf("      <h2>%s <small>%s</small></h2>", title, subTitle),
		"    </div>",
	}, "\n")
}

// TopNavbar renders the section tabs of a dictionary tree with active
// highlighted. Pass an empty active to highlight nothing.
func TopNavbar(navTitle string, active ContentType, p *PathInfo) string {
	out := []string{
		`    <div class="row">`,
		fmt.Sprintf(`      <div class="col-md-1 my-nav-title"><div class="pull-right"> <h4>%s</h4></div></div>`, navTitle),
		`       <div class="col-md-11">`,
		`        <ul class="nav nav-tabs">`,
	}
	for _, ct := range ContentTypes {
		if ct == active {
			out = append(out, fmt.Sprintf(`<li class="active">               <a href="%s">%s</a></li>`, p.IndexURL(ct), ct.DisplayName()))
		} else {
			out = append(out, fmt.Sprintf(`<li               >               <a href="%s">%s</a></li>`, p.IndexURL(ct), ct.DisplayName()))
		}
	}
	out = append(out, "</ul>", "</div>", "</div>")
	return strings.Join(out, "\n")
}
