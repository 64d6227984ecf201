package nodetree

import (
	"github.com/matzehuels/nodetrees/pkg/coerce"
	"github.com/matzehuels/nodetrees/pkg/scene"
	"github.com/matzehuels/nodetrees/pkg/space"
)

// serializeSockets records a node's sockets in one direction. A muted node
// records only its first enabled socket, under the pass-through name.
func (p *pass) serializeSockets(g *scene.Graph, n *scene.Node, dir scene.Direction, dst *Sockets) {
	sockets := n.Sockets(dir)
	for i := range sockets {
		s := &sockets[i]
		if dir == scene.Input && s.Disabled {
			continue
		}
		name := s.Name
		if n.Muted {
			name = passName(dir)
		}
		addSocket(dst, name, p.socketValue(g, n, dir, s, name))
		if n.Muted {
			return
		}
	}
}

func (p *pass) socketValue(g *scene.Graph, n *scene.Node, dir scene.Direction, s *scene.Socket, name string) *SocketValue {
	v := &SocketValue{
		Type:  coerce.TypeTag(s.Type, s.Default),
		Value: coerce.Value(s.Type, s.Default),
		Label: s.Label,
	}
	vector := scene.IsVectorType(s.Type)

	var links []Endpoint
	if g.IsLinked(n.ID, dir, s.Identifier) {
		links = p.resolveLinks(g, n, dir, s)
	}
	// A socket whose links all dead-end keeps its literal value.
	if len(links) > 0 {
		v.Linked = true
		v.Links = links
		if vector && dir == scene.Input {
			v.IncomingVectorSpace = p.incomingSpace(g, n.ID, s.Identifier)
		}
	} else if dir == scene.Input {
		hidden := s.HideValue
		v.InputHidden = &hidden
	}

	if vector {
		if dir == scene.Output {
			v.VectorSpace = p.outputSpace(g, n, s)
		} else {
			v.VectorSpace = space.Resolve(effectiveType(n), name, dir)
		}
	}
	return v
}

func effectiveType(n *scene.Node) string {
	if n.Muted {
		return scene.NodeReroute
	}
	return n.Type
}

type spaceKey struct {
	graph  *scene.Graph
	node   string
	socket string
}

// outputSpace resolves the space an output socket produces. Tabled outputs
// are concrete; PRESERVE outputs take the first concrete space flowing into
// the node's linked vector inputs. Group outputs take the space arriving at
// the matching socket of the group's GROUP_OUTPUT node.
func (p *pass) outputSpace(g *scene.Graph, n *scene.Node, s *scene.Socket) space.Tag {
	name := s.Name
	if n.Muted {
		name = PassOutput
	}
	if tag := space.Resolve(effectiveType(n), name, scene.Output); space.Concrete(tag) {
		return tag
	}

	key := spaceKey{g, n.ID, s.Identifier}
	if tag, ok := p.spaces[key]; ok {
		return tag
	}
	if p.resolving[key] {
		return space.Preserve
	}
	p.resolving[key] = true
	tag := p.inheritedSpace(g, n, s)
	delete(p.resolving, key)
	p.spaces[key] = tag
	return tag
}

func (p *pass) inheritedSpace(g *scene.Graph, n *scene.Node, s *scene.Socket) space.Tag {
	if !n.Muted && n.Type == scene.NodeGroup {
		if sub, ok := p.lib.Lookup(n.Tree); ok {
			return p.groupOutputSpace(sub, s.Name)
		}
	}
	for i := range n.Inputs {
		in := &n.Inputs[i]
		if in.Disabled || !scene.IsVectorType(in.Type) {
			continue
		}
		if tag := p.incomingSpace(g, n.ID, in.Identifier); space.Concrete(tag) {
			return tag
		}
	}
	return space.Preserve
}

func (p *pass) groupOutputSpace(sub *scene.Graph, socket string) space.Tag {
	for _, n := range sub.Nodes() {
		if n.Type != scene.NodeGroupOutput || n.Muted {
			continue
		}
		for i := range n.Inputs {
			if n.Inputs[i].Name != socket {
				continue
			}
			if tag := p.incomingSpace(sub, n.ID, n.Inputs[i].Identifier); space.Concrete(tag) {
				return tag
			}
		}
	}
	return space.Preserve
}

// incomingSpace returns the first concrete space among the origins feeding
// an input socket.
func (p *pass) incomingSpace(g *scene.Graph, node, socket string) space.Tag {
	for _, o := range p.origins(g, node, socket) {
		if tag := p.outputSpace(g, o.node, o.socket); space.Concrete(tag) {
			return tag
		}
	}
	return space.Preserve
}
