package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/notionmap/pkg/hierarchy"
)

func ExampleBuild() {
	idx := hierarchy.Build([]hierarchy.Node{
		{ID: "home", Title: "Home"},
		{ID: "eng", Title: "Engineering", ParentID: "home"},
		{ID: "rfc", Title: "RFCs", ParentID: "eng"},
		{ID: "lost", Title: "Lost page", ParentID: "deleted"},
	})

	for _, id := range []string{"home", "eng", "rfc", "lost"} {
		d, ok := idx.Depth(id)
		fmt.Println(id, d, ok)
	}
	fmt.Println("orphans:", idx.Orphans())
	// Output:
	// home 0 true
	// eng 1 true
	// rfc 2 true
	// lost 0 false
	// orphans: [lost]
}

func ExampleNotionURL() {
	fmt.Println(hierarchy.NotionURL("Sprint Board", "db::8f1c-22aa"))
	// Output: https://www.notion.so/sprint-board-8f1c22aa
}
