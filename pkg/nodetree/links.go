package nodetree

import "github.com/matzehuels/nodetrees/pkg/scene"

// resolveLinks returns the real endpoints of the links touching a socket.
// Reroute nodes are followed in the link's direction until a non-reroute
// node is reached; chains that end without one are dropped.
func (p *pass) resolveLinks(g *scene.Graph, n *scene.Node, dir scene.Direction, s *scene.Socket) []Endpoint {
	out := []Endpoint{}
	seen := make(map[string]bool)
	for _, l := range g.SocketLinks(n.ID, dir, s.Identifier) {
		if dir == scene.Input {
			out = p.upstream(g, l, seen, out)
		} else {
			out = p.downstream(g, l, seen, out)
		}
	}
	if len(out) == 0 {
		p.log.Warn("dropped unresolvable link", "tree", g.Name, "node", n.ID, "socket", s.Name)
		p.hooks.OnLinkDropped(g.Name, n.ID, s.Name)
	}
	return out
}

func (p *pass) upstream(g *scene.Graph, l scene.Link, seen map[string]bool, out []Endpoint) []Endpoint {
	from, ok := g.Node(l.FromNode)
	if !ok {
		return out
	}
	if !from.IsReroute() {
		return append(out, Endpoint{Node: from.ID, Socket: endpointSocket(from, scene.Output, l.FromSocket)})
	}
	if seen[from.ID] {
		return out
	}
	seen[from.ID] = true
	for _, in := range from.Inputs {
		for _, next := range g.LinksInto(from.ID, in.Identifier) {
			out = p.upstream(g, next, seen, out)
		}
	}
	return out
}

func (p *pass) downstream(g *scene.Graph, l scene.Link, seen map[string]bool, out []Endpoint) []Endpoint {
	to, ok := g.Node(l.ToNode)
	if !ok {
		return out
	}
	if !to.IsReroute() {
		return append(out, Endpoint{Node: to.ID, Socket: endpointSocket(to, scene.Input, l.ToSocket)})
	}
	if seen[to.ID] {
		return out
	}
	seen[to.ID] = true
	for _, o := range to.Outputs {
		for _, next := range g.LinksFrom(to.ID, o.Identifier) {
			out = p.downstream(g, next, seen, out)
		}
	}
	return out
}

// endpointSocket names a link endpoint the way the endpoint's own record
// names it: muted nodes only expose their pass-through sockets.
func endpointSocket(n *scene.Node, dir scene.Direction, identifier string) string {
	if n.Muted {
		return passName(dir)
	}
	if s, ok := n.Socket(dir, identifier); ok {
		return s.Name
	}
	return identifier
}

func passName(dir scene.Direction) string {
	if dir == scene.Output {
		return PassOutput
	}
	return PassInput
}

// origins returns the non-reroute output sockets feeding an input.
func (p *pass) origins(g *scene.Graph, node, socket string) []originSocket {
	var out []originSocket
	seen := make(map[string]bool)
	var walk func(l scene.Link)
	walk = func(l scene.Link) {
		from, ok := g.Node(l.FromNode)
		if !ok {
			return
		}
		if !from.IsReroute() {
			if s, ok := from.Socket(scene.Output, l.FromSocket); ok {
				out = append(out, originSocket{node: from, socket: s})
			}
			return
		}
		if seen[from.ID] {
			return
		}
		seen[from.ID] = true
		for _, in := range from.Inputs {
			for _, next := range g.LinksInto(from.ID, in.Identifier) {
				walk(next)
			}
		}
	}
	for _, l := range g.LinksInto(node, socket) {
		walk(l)
	}
	return out
}

type originSocket struct {
	node   *scene.Node
	socket *scene.Socket
}
