package nodetree

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetrees/pkg/scene"
)

type graphBuilder struct {
	t *testing.T
	g *scene.Graph
}

func newGraph(t *testing.T, name string) *graphBuilder {
	t.Helper()
	return &graphBuilder{t: t, g: scene.NewGraph(name)}
}

func (b *graphBuilder) node(n scene.Node) *graphBuilder {
	b.t.Helper()
	if err := b.g.AddNode(n); err != nil {
		b.t.Fatalf("AddNode(%s): %v", n.ID, err)
	}
	return b
}

func (b *graphBuilder) link(from, fromSocket, to, toSocket string) *graphBuilder {
	b.t.Helper()
	err := b.g.AddLink(scene.Link{FromNode: from, FromSocket: fromSocket, ToNode: to, ToSocket: toSocket})
	if err != nil {
		b.t.Fatalf("AddLink(%s.%s -> %s.%s): %v", from, fromSocket, to, toSocket, err)
	}
	return b
}

func (b *graphBuilder) build() *scene.Graph { return b.g }

func sock(name, typ string, def any) scene.Socket {
	return scene.Socket{Name: name, Type: typ, Default: def}
}

func reroute(id, typ string) scene.Node {
	return scene.Node{
		ID:      id,
		Type:    scene.NodeReroute,
		Inputs:  []scene.Socket{sock("Input", typ, nil)},
		Outputs: []scene.Socket{sock("Output", typ, nil)},
	}
}

// wobbleGroup is a three-node group that samples noise at its Vector input.
func wobbleGroup(t *testing.T) *scene.Graph {
	return newGraph(t, "Wobble").
		node(scene.Node{ID: "Group Input", Type: scene.NodeGroupInput,
			Outputs: []scene.Socket{sock("Vector", scene.TypeVector, []any{0.0, 0.0, 0.0})}}).
		node(scene.Node{ID: "Noise", Type: "TEX_NOISE",
			Inputs:  []scene.Socket{sock("Vector", scene.TypeVector, []any{0.0, 0.0, 0.0}), sock("Scale", scene.TypeValue, 5.0)},
			Outputs: []scene.Socket{sock("Fac", scene.TypeValue, 0.0)}}).
		node(scene.Node{ID: "Group Output", Type: scene.NodeGroupOutput,
			Inputs: []scene.Socket{sock("Fac", scene.TypeValue, 0.0)}}).
		link("Group Input", "Vector", "Noise", "Vector").
		link("Noise", "Fac", "Group Output", "Fac").
		build()
}

func groupNode(id, tree string) scene.Node {
	return scene.Node{
		ID:      id,
		Type:    scene.NodeGroup,
		Tree:    tree,
		Inputs:  []scene.Socket{sock("Vector", scene.TypeVector, []any{0.0, 0.0, 0.0})},
		Outputs: []scene.Socket{sock("Fac", scene.TypeValue, 0.0)},
	}
}

func texCoord(id string) scene.Node {
	return scene.Node{ID: id, Type: "TEX_COORD", Outputs: []scene.Socket{
		sock("Generated", scene.TypeVector, nil),
		sock("Object", scene.TypeVector, nil),
		sock("UV", scene.TypeVector, nil),
	}}
}

func bufferLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf), &buf
}

func mustSerialize(t *testing.T, g *scene.Graph, kind scene.Kind, lib scene.Library, opts Options) *Document {
	t.Helper()
	doc, err := Serialize(g, kind, lib, opts)
	if err != nil {
		t.Fatalf("Serialize(%s): %v", g.Name, err)
	}
	return doc
}

func mustRecord(t *testing.T, table NodeTable, id string) *NodeRecord {
	t.Helper()
	rec, ok := table.Get(id)
	if !ok {
		t.Fatalf("record %q missing; have %v", id, table.Keys())
	}
	return rec
}

func mustSocket(t *testing.T, s Sockets, name string) *SocketValue {
	t.Helper()
	entry, ok := s.Get(name)
	if !ok || len(entry) == 0 {
		t.Fatalf("socket %q missing; have %v", name, s.Keys())
	}
	return entry[0]
}
