// Package render holds the visual renderers for serialized node trees.
//
// The [nodelink] subpackage draws a document's node table as a directed
// Graphviz diagram, which is what the visualize command uses to inspect a
// document without opening the authoring tool.
//
// [nodelink]: github.com/matzehuels/nodetrees/pkg/render/nodelink
package render
