// Package nodelink renders serialized node trees as node-link diagrams.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	doc, err := document.Load("shaders/Brick.json")
//	dot, err := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Internal trees of inlined groups are rendered by name:
//
//	dot, err := nodelink.ToDOT(doc, nodelink.Options{Tree: "Wobble"})
//
// The generated DOT lays nodes out left to right, the way shader editors
// do, and can also be saved and processed with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
