package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

func shaderDoc(t *testing.T) *nodetree.Document {
	t.Helper()
	wobble := scene.NewGraph("Wobble")
	g := scene.NewGraph("Shader_A")
	add := func(g *scene.Graph, n scene.Node) {
		t.Helper()
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	link := func(g *scene.Graph, from, fs, to, ts string) {
		t.Helper()
		if err := g.AddLink(scene.Link{FromNode: from, FromSocket: fs, ToNode: to, ToSocket: ts}); err != nil {
			t.Fatal(err)
		}
	}

	add(wobble, scene.Node{ID: "Group Input", Type: scene.NodeGroupInput,
		Outputs: []scene.Socket{{Name: "Vector", Type: scene.TypeVector}}})
	add(wobble, scene.Node{ID: "Noise", Type: "TEX_NOISE",
		Inputs:  []scene.Socket{{Name: "Vector", Type: scene.TypeVector}},
		Outputs: []scene.Socket{{Name: "Fac", Type: scene.TypeValue}}})
	add(wobble, scene.Node{ID: "Group Output", Type: scene.NodeGroupOutput,
		Inputs: []scene.Socket{{Name: "Fac", Type: scene.TypeValue}}})
	link(wobble, "Group Input", "Vector", "Noise", "Vector")
	link(wobble, "Noise", "Fac", "Group Output", "Fac")

	add(g, scene.Node{ID: "TexImage1", Type: scene.NodeTexImage,
		Outputs: []scene.Socket{{Name: "Color", Type: scene.TypeRGBA}}})
	add(g, scene.Node{ID: "Mix", Type: "MIX", Muted: true,
		Inputs:  []scene.Socket{{Name: "A", Type: scene.TypeRGBA}},
		Outputs: []scene.Socket{{Name: "Result", Type: scene.TypeRGBA}}})
	add(g, scene.Node{ID: "Group", Type: scene.NodeGroup, Tree: "Wobble",
		Inputs:  []scene.Socket{{Name: "Vector", Type: scene.TypeVector}},
		Outputs: []scene.Socket{{Name: "Fac", Type: scene.TypeValue}}})
	add(g, scene.Node{ID: "Output1", Type: "OUTPUT_MATERIAL",
		Inputs: []scene.Socket{{Name: "Surface", Type: scene.TypeShader}}})
	add(g, scene.Node{ID: "Reroute", Type: scene.NodeReroute,
		Inputs:  []scene.Socket{{Name: "Input", Type: scene.TypeShader}},
		Outputs: []scene.Socket{{Name: "Output", Type: scene.TypeShader}}})
	link(g, "TexImage1", "Color", "Mix", "A")
	link(g, "Mix", "Result", "Reroute", "Input")
	link(g, "Reroute", "Output", "Output1", "Surface")

	doc, err := nodetree.Serialize(g, scene.KindMaterial, scene.Library{"Wobble": wobble}, nodetree.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestToDOT_Basic(t *testing.T) {
	dot, err := ToDOT(shaderDoc(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"digraph G",
		`label="Shader_A"`,
		`"TexImage1" [label="TexImage1"]`,
		`"TexImage1" -> "Mix";`,
		`"Mix" -> "Output1";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Styles(t *testing.T) {
	dot, err := ToDOT(shaderDoc(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "dashed") || !strings.Contains(dot, "lightgrey") {
		t.Error("muted node should be dashed and grey")
	}
	if !strings.Contains(dot, "peripheries=2") {
		t.Error("inlined group should have a double outline")
	}
	if !strings.Contains(dot, `"Reroute" [label="", shape=circle`) {
		t.Errorf("reroute should be drawn as a dot\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot, err := ToDOT(shaderDoc(t), Options{Detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `label="Color → Input"`) {
		t.Errorf("detailed edge label missing\n%s", dot)
	}
	if !strings.Contains(dot, `label="TexImage1\nTEX_IMAGE"`) {
		t.Errorf("detailed node label should include the type\n%s", dot)
	}
	if !strings.Contains(dot, `label="Mix\nMIX\nREROUTE"`) {
		t.Errorf("detailed muted node label should show its original type\n%s", dot)
	}
}

func TestToDOT_InternalTree(t *testing.T) {
	doc := shaderDoc(t)
	dot, err := ToDOT(doc, Options{Tree: "Wobble"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `"Group Input" -> "Noise";`) {
		t.Errorf("internal tree edges missing\n%s", dot)
	}
	if strings.Contains(dot, "TexImage1") {
		t.Error("internal tree render should not include top-level nodes")
	}

	_, err = ToDOT(doc, Options{Tree: "Missing"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown tree err = %v, want NOT_FOUND", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
