package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/render/nodelink"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

func ExampleToDOT() {
	g := scene.NewGraph("Glow")
	_ = g.AddNode(scene.Node{ID: "Emission", Type: "EMISSION",
		Outputs: []scene.Socket{{Name: "Emission", Type: scene.TypeShader}}})
	_ = g.AddNode(scene.Node{ID: "Output", Type: "OUTPUT_MATERIAL",
		Inputs: []scene.Socket{{Name: "Surface", Type: scene.TypeShader}}})
	_ = g.AddLink(scene.Link{FromNode: "Emission", FromSocket: "Emission", ToNode: "Output", ToSocket: "Surface"})

	doc, _ := nodetree.Serialize(g, scene.KindMaterial, nil, nodetree.Options{})
	dot, _ := nodelink.ToDOT(doc, nodelink.Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "Emission" -> "Output";
}
