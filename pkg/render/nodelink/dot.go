package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type and vector space to labels and names the
	// sockets on every edge. When false, only the node name is shown.
	Detailed bool

	// Tree selects an internal tree by group name. Empty renders the
	// document's top-level table.
	Tree string
}

// ToDOT converts a serialized document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Muted nodes are drawn dashed and grey, reroutes as small dots and inlined
// group nodes with a double outline. Edges follow the recorded links of every input socket, in
// document order.
func ToDOT(doc *nodetree.Document, opts Options) (string, error) {
	table := doc.Nodes
	title := doc.Name
	if opts.Tree != "" {
		t, ok := doc.InternalTrees.Get(opts.Tree)
		if !ok {
			return "", errors.New(errors.ErrCodeNotFound, "internal tree %q not in document", opts.Tree)
		}
		table, title = t, opts.Tree
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", title)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range table.Keys() {
		rec, _ := table.Get(id)
		attrs := fmtAttrs(rec, fmtLabel(rec, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range table.Keys() {
		rec, _ := table.Get(id)
		for _, socket := range rec.Inputs.Keys() {
			entry, _ := rec.Inputs.Get(socket)
			for _, v := range entry {
				if !v.Linked {
					continue
				}
				for _, l := range v.Links {
					if !table.Has(l.Node) {
						continue
					}
					if opts.Detailed {
						fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", l.Node, id, l.Socket+" → "+socket)
					} else {
						fmt.Fprintf(&buf, "  %q -> %q;\n", l.Node, id)
					}
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(rec *nodetree.NodeRecord, detailed bool) string {
	if !detailed {
		return rec.ID
	}
	parts := []string{rec.ID}
	if rec.Name != rec.Type {
		parts = append(parts, rec.Name)
	}
	parts = append(parts, rec.Type)
	if vs := rec.VectorSpace(); vs != "" {
		parts = append(parts, "space: "+string(vs))
	}
	return strings.Join(parts, "\n")
}

// fmtAttrs draws reroutes as small unlabeled dots. A muted node is also
// recorded as REROUTE but keeps its original type as name.
func fmtAttrs(rec *nodetree.NodeRecord, label string) []string {
	if rec.Type == scene.NodeReroute && rec.Name == scene.NodeReroute {
		return []string{`label=""`, "shape=circle", "width=0.15", "fixedsize=true"}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case rec.Type == scene.NodeReroute:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case rec.InternalNodeTree != "":
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
