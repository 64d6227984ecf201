package nodetree

import (
	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/scene"
	"github.com/matzehuels/nodetrees/pkg/space"
)

// minInlineNodes is the smallest group that gets inlined. Groups with only
// their input and output nodes are pass-throughs and stay opaque.
const minInlineNodes = 3

// inlinable returns the bound group of n if it should be inlined.
func (p *pass) inlinable(n *scene.Node) (*scene.Graph, bool) {
	if n.Muted || n.Type != scene.NodeGroup {
		return nil, false
	}
	sub, ok := p.lib.Lookup(n.Tree)
	if !ok || sub.NodeCount() < minInlineNodes {
		return nil, false
	}
	return sub, true
}

// inline serializes sub into the internal-trees table unless it is already
// there. A group reached again while it is still being serialized is a cycle.
func (p *pass) inline(sub *scene.Graph) error {
	if p.trees.Has(sub.Name) {
		return nil
	}
	if p.inProgress[sub.Name] {
		return errors.New(errors.ErrCodeCyclicGroup, "node group %q contains itself", sub.Name)
	}

	p.inProgress[sub.Name] = true
	table, err := p.serializeTree(sub)
	delete(p.inProgress, sub.Name)
	if err != nil {
		return err
	}
	p.trees.Set(sub.Name, table)
	p.hooks.OnGroupInlined(sub.Name, table.Len())
	return nil
}

// propagateSpaces pushes the spaces arriving at a group node's inputs into
// the matching GROUP_INPUT outputs of the inlined group. An internal output
// that is PRESERVE or already agrees adopts the parent's space; a concrete
// disagreement is logged and the internal value is kept.
func (p *pass) propagateSpaces(parent *NodeRecord, sub *scene.Graph) {
	table, ok := p.trees.Get(sub.Name)
	if !ok {
		return
	}
	for _, n := range sub.Nodes() {
		if n.Type != scene.NodeGroupInput {
			continue
		}
		inner, ok := table.Get(n.ID)
		if !ok {
			continue
		}
		changed := false
		for _, name := range inner.Outputs.Keys() {
			outer, ok := parent.Inputs.Get(name)
			if !ok || len(outer) == 0 {
				continue
			}
			incoming := outer[0].parentSpace()
			if !space.Concrete(incoming) {
				continue
			}
			entry, _ := inner.Outputs.Get(name)
			for _, v := range entry {
				switch {
				case v.VectorSpace == "":
				case v.VectorSpace == space.Preserve || v.VectorSpace == incoming:
					v.VectorSpace = incoming
					changed = true
				default:
					p.log.Warn("conflicting vector space across group boundary",
						"group", sub.Name, "node", parent.ID, "socket", name,
						"internal", v.VectorSpace, "parent", incoming)
					p.hooks.OnSpaceConflict(sub.Name, name)
				}
			}
		}
		if changed {
			inner.rollupSpace()
		}
	}
}
