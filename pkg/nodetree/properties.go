package nodetree

import (
	"path/filepath"

	"github.com/matzehuels/nodetrees/pkg/coerce"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// Property keys written by the serializer.
const (
	PropDrivers          = "drivers"
	PropVectorSpace      = "vector_space"
	PropContainsNodeTree = "containsNodeTree"
	PropColor            = "color"
	PropValue            = "value"
	PropImage            = "image"
	PropElements         = "elements"
	PropColorMode        = "color_mode"
	PropInterpolation    = "interpolation"
	PropHueInterpolation = "hue_interpolation"
)

// baseFields are the fields every node shares. Only type-specific fields
// are copied into a record's properties.
var baseFields = map[string]bool{
	"name": true, "label": true, "type": true, "location": true,
	"width": true, "height": true, "dimensions": true, "parent": true,
	"select": true, "hide": true, "mute": true, "show_options": true,
	"show_preview": true, "show_texture": true, "use_custom_color": true,
	"color": true, "inputs": true, "outputs": true, "internal_links": true,
	"rna_type": true, "bl_idname": true, "bl_label": true,
	"bl_description": true, "bl_icon": true, "bl_static_type": true,
	"bl_width_default": true, "bl_width_min": true, "bl_width_max": true,
	"bl_height_default": true, "bl_height_min": true, "bl_height_max": true,
}

// DriverBinding is one driver expression bound to a socket or property.
type DriverBinding struct {
	Socket     string `json:"socket"`
	Expression string `json:"expression"`
}

// RampStop is one color ramp element.
type RampStop struct {
	Position float64   `json:"position"`
	Color    []float64 `json:"color"`
}

func staticProperties(n *scene.Node, props map[string]any) {
	for k, v := range n.Properties {
		if baseFields[k] {
			continue
		}
		switch v.(type) {
		case bool, string, float64, int, int64:
			props[k] = coerce.Value("", v)
		}
	}
}

func (p *pass) driverProperties(g *scene.Graph, n *scene.Node, props map[string]any) {
	var bindings []DriverBinding
	for _, d := range g.Drivers {
		t, ok := scene.ParseDriverPath(d.DataPath)
		if !ok || t.Node != n.ID {
			continue
		}
		socket, ok := scene.DriverSocketName(n, t)
		if !ok {
			p.log.Debug("driver target not found", "tree", g.Name, "node", n.ID, "path", d.DataPath)
			continue
		}
		bindings = append(bindings, DriverBinding{Socket: socket, Expression: d.Expression})
	}
	if len(bindings) > 0 {
		props[PropDrivers] = bindings
	}
}

// typeProperties adds the fixed per-type extras.
func (p *pass) typeProperties(n *scene.Node, props map[string]any) {
	switch n.Type {
	case scene.NodeRGB:
		if len(n.Outputs) > 0 {
			props[PropColor] = coerce.Value(scene.TypeRGBA, n.Outputs[0].Default)
		}
	case scene.NodeValue:
		if len(n.Outputs) > 0 {
			props[PropValue] = coerce.Value(scene.TypeValue, n.Outputs[0].Default)
		}
	case scene.NodeColorRamp:
		if n.ColorRamp == nil {
			return
		}
		stops := make([]RampStop, len(n.ColorRamp.Elements))
		for i, e := range n.ColorRamp.Elements {
			stops[i] = RampStop{Position: coerce.Round6(e.Position), Color: e.Color}
		}
		props[PropElements] = stops
		props[PropColorMode] = n.ColorRamp.ColorMode
		props[PropInterpolation] = n.ColorRamp.Interpolation
		props[PropHueInterpolation] = n.ColorRamp.HueInterpolation
	case scene.NodeTexImage:
		if n.Image != nil {
			props[PropImage] = p.relocateImage(n)
		}
	}
}

// relocateImage stores the node's image through the asset store and returns
// the filename to record. A failed write is logged and the best known
// filename is still recorded.
func (p *pass) relocateImage(n *scene.Node) string {
	fallback := n.Image.Name
	if fallback == "" {
		fallback = filepath.Base(n.Image.Filepath)
	}
	if p.assets == nil {
		return fallback
	}
	name, err := p.assets.Relocate(*n.Image)
	if err != nil {
		p.log.Warn("failed to store image", "node", n.ID, "image", n.Image.Name, "err", err)
	}
	if name == "" {
		return fallback
	}
	return name
}
