package nodetree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/nodetrees/pkg/scene"
	"github.com/matzehuels/nodetrees/pkg/space"
)

// Document keys that are not node IDs.
const (
	KeyHash          = "hash"
	KeyTreeType      = "$treeType"
	KeyInternalTrees = "$internalTrees"
)

// LinkedType is the type tag of a linked socket value.
const LinkedType = "linked"

// Pass-through socket names of a muted node.
const (
	PassInput  = "Input"
	PassOutput = "Output"
)

// Endpoint is the far end of a link: a node ID and the socket display name.
type Endpoint struct {
	Node   string `json:"node"`
	Socket string `json:"socket"`
}

// SocketValue is the serialized form of one socket.
//
// A linked value lists its resolved endpoints and keeps the literal default
// as a fallback. A literal value carries the coerced default. VectorSpace is
// set for every vector-typed socket and empty for all others.
type SocketValue struct {
	Linked              bool
	Links               []Endpoint
	Type                string // Declared data type, with arity for vectors
	Value               any    // Literal value, or the fallback default when linked
	InputHidden         *bool  // Inputs only
	Label               string
	VectorSpace         space.Tag
	IncomingVectorSpace space.Tag // Linked inputs only
}

type literalValue struct {
	Value       any       `json:"value"`
	Type        string    `json:"type"`
	InputHidden *bool     `json:"input_hidden,omitempty"`
	Label       string    `json:"label,omitempty"`
	VectorSpace space.Tag `json:"vector_space,omitempty"`
}

type linkedValue struct {
	Type                string     `json:"type"`
	Links               []Endpoint `json:"links"`
	IntendedType        string     `json:"intended_type"`
	DefaultValue        any        `json:"default_value"`
	IncomingVectorSpace space.Tag  `json:"incoming_vector_space,omitempty"`
	VectorSpace         space.Tag  `json:"vector_space,omitempty"`
	Label               string     `json:"label,omitempty"`
}

// MarshalJSON writes the linked or literal shape.
func (v *SocketValue) MarshalJSON() ([]byte, error) {
	if v.Linked {
		links := v.Links
		if links == nil {
			links = []Endpoint{}
		}
		return json.Marshal(linkedValue{
			Type:                LinkedType,
			Links:               links,
			IntendedType:        v.Type,
			DefaultValue:        v.Value,
			IncomingVectorSpace: v.IncomingVectorSpace,
			VectorSpace:         v.VectorSpace,
			Label:               v.Label,
		})
	}
	return json.Marshal(literalValue{
		Value:       v.Value,
		Type:        v.Type,
		InputHidden: v.InputHidden,
		Label:       v.Label,
		VectorSpace: v.VectorSpace,
	})
}

// UnmarshalJSON reads either shape.
func (v *SocketValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		literalValue
		Links               []Endpoint `json:"links"`
		IntendedType        string     `json:"intended_type"`
		DefaultValue        any        `json:"default_value"`
		IncomingVectorSpace space.Tag  `json:"incoming_vector_space"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == LinkedType {
		*v = SocketValue{
			Linked:              true,
			Links:               raw.Links,
			Type:                raw.IntendedType,
			Value:               raw.DefaultValue,
			Label:               raw.Label,
			VectorSpace:         raw.VectorSpace,
			IncomingVectorSpace: raw.IncomingVectorSpace,
		}
		return nil
	}
	*v = SocketValue{
		Type:        raw.Type,
		Value:       raw.Value,
		InputHidden: raw.InputHidden,
		Label:       raw.Label,
		VectorSpace: raw.VectorSpace,
	}
	return nil
}

// parentSpace is the space a value hands across a group boundary.
func (v *SocketValue) parentSpace() space.Tag {
	if v.Linked && space.Concrete(v.IncomingVectorSpace) {
		return v.IncomingVectorSpace
	}
	return v.VectorSpace
}

// SocketEntry holds the values recorded under one socket name. Sockets that
// share a display name are merged into one entry in socket order.
type SocketEntry []*SocketValue

// MarshalJSON writes a single value bare and several values as a list.
func (e SocketEntry) MarshalJSON() ([]byte, error) {
	if len(e) == 1 {
		return json.Marshal(e[0])
	}
	return json.Marshal([]*SocketValue(e))
}

// UnmarshalJSON reads a bare value or a list.
func (e *SocketEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []*SocketValue
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*e = list
		return nil
	}
	var v SocketValue
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = SocketEntry{&v}
	return nil
}

// Sockets maps socket display names to their values in socket order.
type Sockets = OrderedMap[SocketEntry]

// addSocket records v under name, merging with an existing entry.
func addSocket(s *Sockets, name string, v *SocketValue) {
	entry, _ := s.Get(name)
	s.Set(name, append(entry, v))
}

// NodeRecord is the serialized form of one node.
type NodeRecord struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	Inputs           Sockets        `json:"inputs"`
	Outputs          Sockets        `json:"outputs"`
	Properties       map[string]any `json:"properties"`
	InternalNodeTree string         `json:"internalNodeTree,omitempty"`
}

// VectorSpace returns the node's rollup space, or "" when it has no vector
// sockets.
func (r *NodeRecord) VectorSpace() space.Tag {
	switch v := r.Properties[PropVectorSpace].(type) {
	case space.Tag:
		return v
	case string:
		return space.Tag(v)
	}
	return ""
}

// rollupSpace stores the first concrete space among the node's vector
// sockets, inputs before outputs. A node whose vector sockets are all
// PRESERVE rolls up to PRESERVE.
func (r *NodeRecord) rollupSpace() {
	found := false
	for _, sockets := range []*Sockets{&r.Inputs, &r.Outputs} {
		for _, name := range sockets.keys {
			for _, v := range sockets.vals[name] {
				if v.VectorSpace == "" {
					continue
				}
				found = true
				if tag := v.parentSpace(); space.Concrete(tag) {
					r.Properties[PropVectorSpace] = tag
					return
				}
			}
		}
	}
	if found {
		r.Properties[PropVectorSpace] = space.Preserve
	}
}

// NodeTable maps node IDs to records in graph order.
type NodeTable = OrderedMap[*NodeRecord]

// Document is the assembled output of one top-level graph.
type Document struct {
	Name          string // Graph name, used for the output path
	Kind          scene.Kind
	Hash          string // Set only on documents read back from disk
	Nodes         NodeTable
	InternalTrees OrderedMap[NodeTable]
}

// MarshalJSON writes $treeType, $internalTrees and then every node keyed by
// ID, in that order. The hash is not part of the marshaled content.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, KeyTreeType, d.Kind); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeMember(&buf, KeyInternalTrees, d.InternalTrees); err != nil {
		return nil, err
	}
	for _, id := range d.Nodes.keys {
		buf.WriteByte(',')
		if err := writeMember(&buf, id, d.Nodes.vals[id]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a document written by MarshalJSON, with or without
// the spliced hash.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = Document{}
	dec := json.NewDecoder(bytes.NewReader(data))
	return decodeObject(dec, func(key string) error {
		var err error
		switch key {
		case KeyHash:
			err = dec.Decode(&d.Hash)
		case KeyTreeType:
			err = dec.Decode(&d.Kind)
		case KeyInternalTrees:
			err = dec.Decode(&d.InternalTrees)
		default:
			var rec *NodeRecord
			if err = dec.Decode(&rec); err == nil {
				d.Nodes.Set(key, rec)
			}
		}
		if err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		return nil
	})
}
