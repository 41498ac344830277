package neighbor_test

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
	"github.com/matzehuels/mmcifsite/pkg/neighbor"
)

func exampleDictionary() *dictionary.Dictionary {
	return dictionary.New(dictionary.Snapshot{
		Categories: []dictionary.Category{
			{Name: "entity", Keys: []string{"id"}, Items: []dictionary.Item{{Name: "id"}}},
			{Name: "entity_poly", Keys: []string{"entity_id"}, Items: []dictionary.Item{
				{Name: "entity_id", Parents: []string{"_entity.id"}},
			}},
		},
	})
}

func ExampleBuilder_Build() {
	b := neighbor.NewBuilder(exampleDictionary(), neighbor.WithLogger(log.New(io.Discard)))
	g := b.Build("entity_poly", neighbor.Options{MaxItems: 5})

	for _, line := range g.Lines {
		fmt.Println(strings.TrimSpace(line))
	}
	// Output:
	// digraph _entity_poly {
	// splines=true; overlap=compress;
	// node [shape=plaintext]
	// _entity [label=<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" ALIGN="LEFT">
	// <tr><td BGCOLOR="#99c49b" CELLPADDING="4"  TARGET="_top"><FONT POINT-SIZE="10" FACE="helvetica">ENTITY</FONT></td></tr>
	// <tr><td BGCOLOR="#ffff99" PORT="__id" CELLPADDING="4" TARGET="_top" ALIGN="LEFT"><FONT POINT-SIZE="9" FACE="helvetica">id</FONT></td></tr>
	// </TABLE>>];
	// _entity_poly [label=<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" ALIGN="LEFT">
	// <tr><td BGCOLOR="#f0027f" CELLPADDING="4"  TARGET="_top"><FONT POINT-SIZE="10" FACE="helvetica">ENTITY_POLY</FONT></td></tr>
	// <tr><td BGCOLOR="#ffff99" PORT="__entity_id" CELLPADDING="4" TARGET="_top" ALIGN="LEFT"><FONT POINT-SIZE="9" FACE="helvetica">entity_id</FONT></td></tr>
	// </TABLE>>];
	// _entity_poly:__entity_id:w -> _entity:__id:w;
	// }
}

func ExampleBuilder_CategoryUsageCount() {
	b := neighbor.NewBuilder(exampleDictionary(), neighbor.WithLogger(log.New(io.Discard)))
	b.SetUsageCounts(coverage.Archive, map[string]int{"_entry.id": 100, "_entity.id": 100})

	fmt.Println(b.CategoryUsageCount("entity", coverage.Archive))
	fmt.Println(b.CategoryUsageCount("unknown_category", coverage.Archive))

	g := b.Build("entity_poly", neighbor.Options{Filter: true, Context: coverage.Archive})
	fmt.Println(g.Rendered, len(g.Lines))
	// Output:
	// 100
	// 0
	// 0 0
}
