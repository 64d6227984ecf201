// Package scene provides read-only views of the node graphs a host 3D
// authoring application exposes: shader trees, geometry "logic" trees and
// compositor trees, plus the shared library of node groups they reference.
//
// # Overview
//
// The serialization engine never talks to the host directly. Instead the host
// (or an exporter script running inside it) dumps a snapshot, and this package
// turns that snapshot into immutable [Graph] values that are safe to traverse
// for the duration of a serialization pass. No live host references survive
// a pass.
//
// # Building Graphs
//
// Create a graph with [NewGraph], add nodes with [Graph.AddNode] and links
// with [Graph.AddLink]. Node IDs must be unique within a graph and links may
// only reference sockets that exist on their endpoint nodes:
//
//	g := scene.NewGraph("Shader_A")
//	g.AddNode(scene.Node{ID: "Value", Type: "VALUE", Outputs: []scene.Socket{{Name: "Value", Type: scene.TypeValue}}})
//	g.AddNode(scene.Node{ID: "Output", Type: "OUTPUT_MATERIAL", Inputs: []scene.Socket{{Name: "Surface", Type: scene.TypeShader}}})
//	g.AddLink(scene.Link{FromNode: "Value", FromSocket: "Value", ToNode: "Output", ToSocket: "Surface"})
//
// Sockets are addressed by identifier. The identifier defaults to the socket
// name, and sockets sharing a display name on the same node (dynamic-arity
// inputs) receive "Name_001"-style identifiers in declaration order.
//
// # Targets
//
// A [Target] is anything the host may ask to serialize: an [Object] with a
// node-based modifier stack, a [Material], a [World] or a [Scene] compositor.
// [Resolve] maps a target to the graph and [Kind] it serializes as, or
// reports that the target is not applicable.
//
// # Snapshots
//
// [ReadSnapshot] and [LoadSnapshot] decode a JSON or YAML snapshot into a
// [Snapshot] holding the node-group [Library] and all targets. Decoding runs
// every node and link through the graph builders, so structural errors are
// reported with the offending tree, node or link in the message.
package scene
