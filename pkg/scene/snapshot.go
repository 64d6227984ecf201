package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath infers the snapshot format from a file extension.
// Anything that is not .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Snapshot is one dump of the host scene.
type Snapshot struct {
	Library Library
	Targets []Target
}

// Target returns the first target with the given name.
func (s *Snapshot) Target(name string) (Target, bool) {
	for _, t := range s.Targets {
		if t.TargetName() == name {
			return t, true
		}
	}
	return nil, false
}

type rawSnapshot struct {
	NodeGroups []rawTree   `json:"node_groups" yaml:"node_groups"`
	Materials  []rawHolder `json:"materials" yaml:"materials"`
	Worlds     []rawHolder `json:"worlds" yaml:"worlds"`
	Scenes     []rawHolder `json:"scenes" yaml:"scenes"`
	Objects    []rawObject `json:"objects" yaml:"objects"`
}

type rawHolder struct {
	Name     string   `json:"name" yaml:"name"`
	UseNodes bool     `json:"use_nodes" yaml:"use_nodes"`
	Tree     *rawTree `json:"tree" yaml:"tree"`
}

type rawObject struct {
	Name      string     `json:"name" yaml:"name"`
	Modifiers []Modifier `json:"modifiers" yaml:"modifiers"`
}

type rawTree struct {
	Name    string    `json:"name" yaml:"name"`
	Nodes   []rawNode `json:"nodes" yaml:"nodes"`
	Links   []rawLink `json:"links" yaml:"links"`
	Drivers []Driver  `json:"drivers" yaml:"drivers"`
}

type rawNode struct {
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	Label      string         `json:"label" yaml:"label"`
	Mute       bool           `json:"mute" yaml:"mute"`
	NodeTree   string         `json:"node_tree" yaml:"node_tree"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Inputs     []rawSocket    `json:"inputs" yaml:"inputs"`
	Outputs    []rawSocket    `json:"outputs" yaml:"outputs"`
	ColorRamp  *ColorRamp     `json:"color_ramp" yaml:"color_ramp"`
	Image      *Image         `json:"image" yaml:"image"`
}

type rawSocket struct {
	Name         string `json:"name" yaml:"name"`
	Identifier   string `json:"identifier" yaml:"identifier"`
	Type         string `json:"type" yaml:"type"`
	DefaultValue any    `json:"default_value" yaml:"default_value"`
	HideValue    bool   `json:"hide_value" yaml:"hide_value"`
	Label        string `json:"label" yaml:"label"`
	Enabled      *bool  `json:"enabled" yaml:"enabled"`
}

type rawLink struct {
	FromNode   string `json:"from_node" yaml:"from_node"`
	FromSocket string `json:"from_socket" yaml:"from_socket"`
	ToNode     string `json:"to_node" yaml:"to_node"`
	ToSocket   string `json:"to_socket" yaml:"to_socket"`
}

// ReadSnapshot decodes a snapshot from r.
//
// Every tree is rebuilt through [Graph.AddNode] and [Graph.AddLink], so
// duplicate node IDs and dangling links are rejected. Errors name the tree
// and the node or link that caused them. ReadSnapshot does not close r.
func ReadSnapshot(r io.Reader, format Format) (*Snapshot, error) {
	var raw rawSnapshot
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
	return raw.build()
}

// LoadSnapshot reads a snapshot file, picking the format from its extension.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f, FormatForPath(path))
}

func (raw *rawSnapshot) build() (*Snapshot, error) {
	s := &Snapshot{Library: make(Library, len(raw.NodeGroups))}

	for _, rt := range raw.NodeGroups {
		if _, dup := s.Library[rt.Name]; dup {
			return nil, fmt.Errorf("node group %q: duplicate name", rt.Name)
		}
		g, err := rt.build(rt.Name)
		if err != nil {
			return nil, err
		}
		s.Library[rt.Name] = g
	}

	for _, m := range raw.Materials {
		g, err := m.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		s.Targets = append(s.Targets, &Material{Name: m.Name, UseNodes: m.UseNodes, Tree: g})
	}
	for _, w := range raw.Worlds {
		g, err := w.build()
		if err != nil {
			return nil, fmt.Errorf("world %q: %w", w.Name, err)
		}
		s.Targets = append(s.Targets, &World{Name: w.Name, UseNodes: w.UseNodes, Tree: g})
	}
	for _, sc := range raw.Scenes {
		g, err := sc.build()
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", sc.Name, err)
		}
		s.Targets = append(s.Targets, &Scene{Name: sc.Name, UseNodes: sc.UseNodes, Tree: g})
	}
	for _, o := range raw.Objects {
		s.Targets = append(s.Targets, &Object{Name: o.Name, Modifiers: o.Modifiers})
	}
	return s, nil
}

func (h rawHolder) build() (*Graph, error) {
	if h.Tree == nil {
		return nil, nil
	}
	name := h.Tree.Name
	if name == "" {
		name = h.Name
	}
	return h.Tree.build(name)
}

func (rt *rawTree) build(name string) (*Graph, error) {
	g := NewGraph(name)
	g.Drivers = append([]Driver(nil), rt.Drivers...)

	for _, rn := range rt.Nodes {
		n := Node{
			ID:         rn.Name,
			Type:       rn.Type,
			Label:      rn.Label,
			Muted:      rn.Mute,
			Tree:       rn.NodeTree,
			Properties: normalizeMap(rn.Properties),
			Inputs:     buildSockets(rn.Inputs),
			Outputs:    buildSockets(rn.Outputs),
			ColorRamp:  rn.ColorRamp,
			Image:      rn.Image,
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("tree %q: node %q: %w", name, rn.Name, err)
		}
	}
	for _, rl := range rt.Links {
		l := Link{FromNode: rl.FromNode, FromSocket: rl.FromSocket, ToNode: rl.ToNode, ToSocket: rl.ToSocket}
		if err := g.AddLink(l); err != nil {
			return nil, fmt.Errorf("tree %q: link %s:%s→%s:%s: %w", name, l.FromNode, l.FromSocket, l.ToNode, l.ToSocket, err)
		}
	}
	return g, nil
}

func buildSockets(raw []rawSocket) []Socket {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Socket, len(raw))
	for i, rs := range raw {
		out[i] = Socket{
			Identifier: rs.Identifier,
			Name:       rs.Name,
			Type:       rs.Type,
			Default:    normalizeValue(rs.DefaultValue),
			HideValue:  rs.HideValue,
			Label:      rs.Label,
			Disabled:   rs.Enabled != nil && !*rs.Enabled,
		}
	}
	return out
}

// normalizeValue folds decoder-specific representations (YAML integers,
// map[any]any) into the value set documented on [Socket].
func normalizeValue(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		return normalizeMap(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = normalizeValue(e)
		}
		return out
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}
