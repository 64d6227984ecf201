package nodetree

import (
	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// Serialize walks g and assembles its document. Node groups referenced from
// g are looked up in lib and inlined once each into the internal-trees
// table. Serializing an unchanged graph twice yields identical documents.
//
// The only error conditions are an invalid call and a node group that
// contains itself; per-node problems are logged and skipped.
func Serialize(g *scene.Graph, kind scene.Kind, lib scene.Library, opts Options) (*Document, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if !kind.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown tree type %q", kind)
	}

	p := newPass(lib, opts)
	if kind == scene.KindLogic {
		// Logic trees live in the library themselves.
		p.inProgress[g.Name] = true
	}

	nodes, err := p.serializeTree(g)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:          g.Name,
		Kind:          kind,
		Nodes:         nodes,
		InternalTrees: p.trees,
	}, nil
}

// SerializeTarget resolves t to its graph and serializes it. It returns
// ok == false, with no error, when the target has nothing to serialize.
func SerializeTarget(t scene.Target, lib scene.Library, opts Options) (doc *Document, ok bool, err error) {
	r, ok := scene.Resolve(t, lib, opts.LogicMarker)
	if !ok {
		return nil, false, nil
	}
	doc, err = Serialize(r.Graph, r.Kind, lib, opts)
	if err != nil {
		return nil, true, err
	}
	doc.Name = r.Name
	return doc, true, nil
}
