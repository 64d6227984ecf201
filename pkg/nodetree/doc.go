// Package nodetree serializes node graphs into documents.
//
// A document mirrors one top-level graph: every node becomes a [NodeRecord]
// keyed by node ID, node groups with more than two nodes are inlined once
// into a shared internal-trees table, and vector sockets carry a coordinate
// space from [github.com/matzehuels/nodetrees/pkg/space].
//
// # Records
//
// A record lists the node's type, display name, sockets and properties.
// Sockets are either linked, listing the real endpoints they connect to, or
// literal, carrying a coerced default value:
//
//	"Fac": {"type": "linked", "links": [{"node": "TexImage1", "socket": "Color"}],
//	        "intended_type": "VALUE", "default_value": 0.5}
//	"Scale": {"value": 5, "type": "VALUE", "input_hidden": false}
//
// Reroute nodes never appear in links: chains of them are followed to the
// first real node. A muted node is recorded as a REROUTE with a single
// "Input" and "Output" socket.
//
// # Determinism
//
// Records, sockets and internal trees are written in graph order, so two
// passes over an unchanged graph produce identical JSON. The document
// package relies on this for content hashing.
package nodetree
