package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/notionmap/pkg/graph"
)

func ExampleDecode() {
	input := `{"nodes": [
	  {"id": "root", "title": "Workspace", "parent_id": null},
	  {"id": "db::1a2b-3c", "title": "Tasks", "parent_id": "root", "kind": "db"}
	]}`

	d, err := graph.Decode(strings.NewReader(input), graph.FormatJSON)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, n := range d.HierarchyNodes() {
		fmt.Printf("%s -> %s\n", n.EffectiveTitle(), n.EffectiveLink())
	}
	// Output:
	// Workspace -> https://www.notion.so/workspace-root
	// Tasks -> https://www.notion.so/tasks-1a2b3c
}

func ExampleMerge() {
	notion := graph.Dataset{Nodes: []graph.Record{{ID: "root", Title: "Notion"}}}
	drive := graph.Dataset{Nodes: []graph.Record{{ID: "root", Title: "Drive"}, {ID: "f1", Name: "Specs", ParentID: "root"}}}

	for _, r := range graph.Merge(notion, drive).Nodes {
		fmt.Println(r.Node().EffectiveTitle())
	}
	// Output:
	// Notion
	// Specs
}
