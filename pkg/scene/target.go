package scene

import "strings"

// DefaultLogicMarker is the token a node-group name must contain for an
// object's geometry-node modifier to be treated as a logic tree.
const DefaultLogicMarker = "+logic"

// ModifierNodes is the modifier type of node-based modifiers.
const ModifierNodes = "NODES"

// Target is something the host can ask to serialize. The set of variants is
// closed: Object, Material, World and Scene.
type Target interface {
	TargetName() string
	isTarget()
}

// Object is a scene object with a modifier stack.
type Object struct {
	Name      string
	Modifiers []Modifier
}

// Modifier is one entry of an object's modifier stack.
type Modifier struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	NodeGroup string `json:"node_group" yaml:"node_group"`
}

// Material is a shader-capable material.
type Material struct {
	Name     string
	UseNodes bool
	Tree     *Graph
}

// World is an environment shader container.
type World struct {
	Name     string
	UseNodes bool
	Tree     *Graph
}

// Scene carries the compositing node tree.
type Scene struct {
	Name     string
	UseNodes bool
	Tree     *Graph
}

func (o *Object) TargetName() string   { return o.Name }
func (m *Material) TargetName() string { return m.Name }
func (w *World) TargetName() string    { return w.Name }
func (s *Scene) TargetName() string    { return s.Name }

func (*Object) isTarget()   {}
func (*Material) isTarget() {}
func (*World) isTarget()    {}
func (*Scene) isTarget()    {}

// Resolved is an admissible target reduced to the graph it serializes.
type Resolved struct {
	Name  string // Output name: material/world/scene name, or the logic group name
	Kind  Kind
	Graph *Graph
}

// Resolve maps a target to its graph. It returns false when the target is
// not serializable, which is not an error. An empty marker selects
// DefaultLogicMarker.
func Resolve(t Target, lib Library, marker string) (Resolved, bool) {
	if marker == "" {
		marker = DefaultLogicMarker
	}
	switch t := t.(type) {
	case *Object:
		for _, m := range t.Modifiers {
			if m.Type != ModifierNodes || !strings.Contains(m.NodeGroup, marker) {
				continue
			}
			g, ok := lib.Lookup(m.NodeGroup)
			if !ok {
				return Resolved{}, false
			}
			return Resolved{Name: m.NodeGroup, Kind: KindLogic, Graph: g}, true
		}
	case *Material:
		if t.UseNodes && t.Tree != nil {
			return Resolved{Name: t.Name, Kind: KindMaterial, Graph: t.Tree}, true
		}
	case *World:
		if t.UseNodes && t.Tree != nil {
			return Resolved{Name: t.Name, Kind: KindEnvironment, Graph: t.Tree}, true
		}
	case *Scene:
		if t.UseNodes && t.Tree != nil {
			return Resolved{Name: t.Name, Kind: KindComposition, Graph: t.Tree}, true
		}
	}
	return Resolved{}, false
}
