package nodetree

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetrees/pkg/observability"
	"github.com/matzehuels/nodetrees/pkg/scene"
	"github.com/matzehuels/nodetrees/pkg/space"
)

// AssetStore persists images referenced by image-texture nodes.
//
// Relocate returns the filename to record for the image. It should return
// the filename even when the write fails so the document stays usable.
type AssetStore interface {
	Relocate(img scene.Image) (string, error)
}

// Options configures a serialization pass.
type Options struct {
	// Logger receives warnings about modeling inconsistencies. Nil discards.
	Logger *log.Logger

	// Assets relocates texture images. Nil records image names without
	// touching the filesystem.
	Assets AssetStore

	// LogicMarker selects logic modifiers in SerializeTarget. Empty uses
	// scene.DefaultLogicMarker.
	LogicMarker string
}

// pass is the state of one top-level serialization. It is discarded once
// the document is assembled.
type pass struct {
	lib    scene.Library
	log    *log.Logger
	assets AssetStore
	hooks  observability.SerializerHooks

	trees      OrderedMap[NodeTable] // internal trees, keyed by group name
	inProgress map[string]bool

	spaces    map[spaceKey]space.Tag
	resolving map[spaceKey]bool
}

func newPass(lib scene.Library, opts Options) *pass {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &pass{
		lib:        lib,
		log:        logger,
		assets:     opts.Assets,
		hooks:      observability.Serializer(),
		inProgress: make(map[string]bool),
		spaces:     make(map[spaceKey]space.Tag),
		resolving:  make(map[spaceKey]bool),
	}
}

// serializeTree serializes every node of g in graph order. Reroute nodes
// get a record like any other node; links elsewhere skip over them.
func (p *pass) serializeTree(g *scene.Graph) (NodeTable, error) {
	var table NodeTable
	for _, n := range g.Nodes() {
		rec, err := p.serializeNode(g, n)
		if err != nil {
			return NodeTable{}, err
		}
		table.Set(rec.ID, rec)
	}
	return table, nil
}

// serializeNode converts one node into its record. A muted node is recorded
// as a REROUTE exposing one pass-through socket per direction.
func (p *pass) serializeNode(g *scene.Graph, n *scene.Node) (*NodeRecord, error) {
	rec := &NodeRecord{
		ID:         n.ID,
		Type:       effectiveType(n),
		Name:       p.recordName(n),
		Properties: make(map[string]any),
	}

	staticProperties(n, rec.Properties)
	p.driverProperties(g, n, rec.Properties)
	p.typeProperties(n, rec.Properties)

	p.serializeSockets(g, n, scene.Input, &rec.Inputs)
	p.serializeSockets(g, n, scene.Output, &rec.Outputs)
	rec.rollupSpace()

	if sub, ok := p.inlinable(n); ok {
		if err := p.inline(sub); err != nil {
			return nil, err
		}
		rec.Properties[PropContainsNodeTree] = true
		rec.InternalNodeTree = sub.Name
		p.propagateSpaces(rec, sub)
	}
	return rec, nil
}

// recordName is the bound group's name for group nodes and the host type
// tag for everything else, muted nodes included. Runtimes dispatch on it,
// so labels never appear here.
func (p *pass) recordName(n *scene.Node) string {
	if n.Type == scene.NodeGroup {
		if sub, ok := p.lib.Lookup(n.Tree); ok {
			return sub.Name
		}
	}
	return n.Type
}
