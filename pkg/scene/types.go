package scene

// =============================================================================
// Graph Kinds
// =============================================================================

// Kind classifies a top-level graph by what it shades or drives.
type Kind string

const (
	KindMaterial    Kind = "material"
	KindEnvironment Kind = "environment"
	KindComposition Kind = "composition"
	KindLogic       Kind = "logic"
)

// Valid reports whether k is one of the known graph kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMaterial, KindEnvironment, KindComposition, KindLogic:
		return true
	}
	return false
}

// =============================================================================
// Sockets
// =============================================================================

// Direction tells whether a socket consumes or produces a value.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Socket data types as reported by the host.
const (
	TypeValue      = "VALUE"
	TypeInt        = "INT"
	TypeBoolean    = "BOOLEAN"
	TypeVector     = "VECTOR"
	TypeRotation   = "ROTATION"
	TypeRGBA       = "RGBA"
	TypeString     = "STRING"
	TypeMenu       = "MENU"
	TypeShader     = "SHADER"
	TypeGeometry   = "GEOMETRY"
	TypeObject     = "OBJECT"
	TypeCollection = "COLLECTION"
	TypeImage      = "IMAGE"
	TypeMaterial   = "MATERIAL"
	TypeTexture    = "TEXTURE"
	TypeCustom     = "CUSTOM"
)

// IsVectorType reports whether values of the data type are fixed-length
// numeric vectors that carry a coordinate space.
func IsVectorType(dataType string) bool {
	return dataType == TypeVector || dataType == TypeRotation
}

// Socket is one typed port on a node.
//
// Default holds the literal value used when the socket is not linked. It is
// one of nil, bool, float64, string, []any or map[string]any.
type Socket struct {
	Identifier string // Unique per node and direction (defaults to Name)
	Name       string // Display name, used as the record key
	Type       string // Data type (VALUE, VECTOR, RGBA, ...)
	Default    any
	HideValue  bool   // Literal editor suppressed in the host UI
	Label      string // Optional user-facing label
	Disabled   bool   // Disabled sockets are invisible to consumers
}

// =============================================================================
// Nodes
// =============================================================================

// Node types with special meaning to the serializer.
const (
	NodeReroute     = "REROUTE"
	NodeGroup       = "GROUP"
	NodeGroupInput  = "GROUP_INPUT"
	NodeGroupOutput = "GROUP_OUTPUT"
	NodeColorRamp   = "VALTORGB"
	NodeRGB         = "RGB"
	NodeValue       = "VALUE"
	NodeTexImage    = "TEX_IMAGE"
)

// Node is one unit of a graph.
//
// Properties holds the node's type-specific static fields as reported by the
// host. Non-primitive values are tolerated and ignored by the serializer.
type Node struct {
	ID         string
	Type       string
	Label      string
	Muted      bool
	Tree       string // Bound node-group name for GROUP nodes
	Properties map[string]any
	Inputs     []Socket
	Outputs    []Socket
	ColorRamp  *ColorRamp
	Image      *Image
}

// IsReroute reports whether the node is a pass-through reroute.
func (n *Node) IsReroute() bool { return n.Type == NodeReroute }

// Sockets returns the node's sockets in the given direction.
func (n *Node) Sockets(dir Direction) []Socket {
	if dir == Output {
		return n.Outputs
	}
	return n.Inputs
}

// Socket looks up a socket by identifier.
func (n *Node) Socket(dir Direction, identifier string) (*Socket, bool) {
	sockets := n.Sockets(dir)
	for i := range sockets {
		if sockets[i].Identifier == identifier {
			return &sockets[i], true
		}
	}
	return nil, false
}

// ColorRamp is the gradient owned by a VALTORGB node.
type ColorRamp struct {
	ColorMode        string        `json:"color_mode" yaml:"color_mode"`
	Interpolation    string        `json:"interpolation" yaml:"interpolation"`
	HueInterpolation string        `json:"hue_interpolation" yaml:"hue_interpolation"`
	Elements         []RampElement `json:"elements" yaml:"elements"`
}

// RampElement is one color stop.
type RampElement struct {
	Position float64   `json:"position" yaml:"position"`
	Color    []float64 `json:"color" yaml:"color"`
}

// Image is the image datablock behind a TEX_IMAGE node.
type Image struct {
	Name     string `json:"name" yaml:"name"`
	Filepath string `json:"filepath" yaml:"filepath"` // "//" prefix means relative to the project root
}

// =============================================================================
// Links and Drivers
// =============================================================================

// Link connects an output socket to an input socket. Sockets are addressed
// by identifier.
type Link struct {
	FromNode   string
	FromSocket string
	ToNode     string
	ToSocket   string
}

// Driver binds an animation expression to a property path inside a graph.
type Driver struct {
	DataPath   string `json:"data_path" yaml:"data_path"`
	Expression string `json:"expression" yaml:"expression"`
}
