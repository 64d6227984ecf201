package scene

import (
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateSocket is returned by [Graph.AddNode] when two sockets in
	// the same direction declare the same explicit identifier.
	ErrDuplicateSocket = errors.New("duplicate socket identifier")

	// ErrUnknownSourceNode is returned by [Graph.AddLink] when the link's
	// FromNode does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddLink] when the link's
	// ToNode does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownSocket is returned by [Graph.AddLink] when a link endpoint
	// names a socket its node does not have.
	ErrUnknownSocket = errors.New("unknown socket")
)

type socketKey struct {
	node   string
	socket string
}

// Graph is a named collection of nodes connected by links.
//
// The zero value is not usable - use NewGraph. A Graph is built once and then
// only read; it is not safe for concurrent mutation.
type Graph struct {
	Name    string
	Drivers []Driver

	nodes []*Node
	index map[string]*Node
	links []Link
	into  map[socketKey][]Link // keyed by destination input
	from  map[socketKey][]Link // keyed by origin output
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:  name,
		index: make(map[string]*Node),
		into:  make(map[socketKey][]Link),
		from:  make(map[socketKey][]Link),
	}
}

// AddNode copies n into the graph. Socket identifiers are filled in from
// socket names where missing; repeated names get "_001", "_002" suffixes.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}

	var err error
	if n.Inputs, err = normalizeSockets(n.Inputs); err != nil {
		return fmt.Errorf("inputs: %w", err)
	}
	if n.Outputs, err = normalizeSockets(n.Outputs); err != nil {
		return fmt.Errorf("outputs: %w", err)
	}
	n.Properties = maps.Clone(n.Properties)

	node := &n
	g.nodes = append(g.nodes, node)
	g.index[node.ID] = node
	return nil
}

func normalizeSockets(in []Socket) ([]Socket, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Socket, len(in))
	copy(out, in)

	taken := make(map[string]bool, len(out))
	for i := range out {
		if id := out[i].Identifier; id != "" {
			if taken[id] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateSocket, id)
			}
			taken[id] = true
		}
	}
	for i := range out {
		if out[i].Identifier != "" {
			continue
		}
		id := out[i].Name
		for n := 1; taken[id]; n++ {
			id = fmt.Sprintf("%s_%03d", out[i].Name, n)
		}
		out[i].Identifier = id
		taken[id] = true
	}
	return out, nil
}

// AddLink connects two existing sockets.
func (g *Graph) AddLink(l Link) error {
	from, ok := g.index[l.FromNode]
	if !ok {
		return ErrUnknownSourceNode
	}
	to, ok := g.index[l.ToNode]
	if !ok {
		return ErrUnknownTargetNode
	}
	if _, ok := from.Socket(Output, l.FromSocket); !ok {
		return fmt.Errorf("%w: %s output %q", ErrUnknownSocket, l.FromNode, l.FromSocket)
	}
	if _, ok := to.Socket(Input, l.ToSocket); !ok {
		return fmt.Errorf("%w: %s input %q", ErrUnknownSocket, l.ToNode, l.ToSocket)
	}

	g.links = append(g.links, l)
	in := socketKey{l.ToNode, l.ToSocket}
	out := socketKey{l.FromNode, l.FromSocket}
	g.into[in] = append(g.into[in], l)
	g.from[out] = append(g.from[out], l)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The slice is a copy; the nodes
// themselves must be treated as read-only.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Links returns all links in insertion order.
func (g *Graph) Links() []Link {
	out := make([]Link, len(g.links))
	copy(out, g.links)
	return out
}

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// LinksInto returns the links that terminate at the given input socket.
func (g *Graph) LinksInto(node, socket string) []Link {
	return g.into[socketKey{node, socket}]
}

// LinksFrom returns the links that originate at the given output socket.
func (g *Graph) LinksFrom(node, socket string) []Link {
	return g.from[socketKey{node, socket}]
}

// SocketLinks returns the links touching a socket in the given direction.
func (g *Graph) SocketLinks(node string, dir Direction, socket string) []Link {
	if dir == Output {
		return g.LinksFrom(node, socket)
	}
	return g.LinksInto(node, socket)
}

// IsLinked reports whether any link touches the socket.
func (g *Graph) IsLinked(node string, dir Direction, socket string) bool {
	return len(g.SocketLinks(node, dir, socket)) > 0
}

// Library is the pool of node groups shared by all graphs of a snapshot,
// keyed by group name.
type Library map[string]*Graph

// Lookup returns the group with the given name.
func (l Library) Lookup(name string) (*Graph, bool) {
	if l == nil || name == "" {
		return nil, false
	}
	g, ok := l[name]
	return g, ok
}
