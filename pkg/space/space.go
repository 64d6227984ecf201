// Package space assigns coordinate-space tags to vector sockets.
//
// Resolution is a pure table lookup keyed by node type, socket name and
// direction. Output and input tables are kept apart because the same node
// type can produce one space while consuming another: VECT_TRANSFORM reads
// object-space vectors and writes world-space ones.
//
// A socket with no table entry resolves to [Preserve], meaning it carries
// whatever space flows into it. The single exception is a socket literally
// named "UV", which resolves to [UV].
package space

import "github.com/matzehuels/nodetrees/pkg/scene"

// Tag is a coordinate-space classification.
type Tag string

const (
	UV              Tag = "UV"
	Object          Tag = "OBJECT"
	ObjectNormal    Tag = "OBJECT_NORMAL"
	ObjectGenerated Tag = "OBJECT_GENERATED"
	World           Tag = "WORLD"
	WorldReflection Tag = "WORLD_REFLECTION"
	Camera          Tag = "CAMERA"
	Screen          Tag = "SCREEN"
	Tangent         Tag = "TANGENT"
	Instance        Tag = "INSTANCE"
	Preserve        Tag = "PRESERVE"
)

// Wildcard matches every socket of a node type.
const Wildcard = "*"

// Tags lists every known tag.
var Tags = []Tag{
	UV, Object, ObjectNormal, ObjectGenerated, World, WorldReflection,
	Camera, Screen, Tangent, Instance, Preserve,
}

// Concrete reports whether t names an actual space rather than [Preserve].
func Concrete(t Tag) bool { return t != "" && t != Preserve }

// Valid reports whether t is one of [Tags].
func (t Tag) Valid() bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// Table maps node type to socket name to space.
type Table map[string]map[string]Tag

// Outputs is the table for sockets that produce a vector.
var Outputs = Table{
	"TEX_COORD": {
		"Generated":  ObjectGenerated,
		"Normal":     ObjectNormal,
		"UV":         UV,
		"Object":     Object,
		"Camera":     Camera,
		"Window":     Screen,
		"Reflection": WorldReflection,
	},
	"NEW_GEOMETRY": {
		"Position":    World,
		"Normal":      World,
		"Tangent":     World,
		"True Normal": World,
		"Incoming":    World,
		"Parametric":  UV,
	},
	"UVMAP":          {"UV": UV},
	"TANGENT":        {"Tangent": World},
	"VECT_TRANSFORM": {Wildcard: World},
	"NORMAL_MAP":     {"Normal": World},
	"BUMP":           {"Normal": World},
	"CAMERA":         {"View Vector": Camera},
	"OBJECT_INFO":    {"Location": World},
	"PARTICLE_INFO": {
		"Location":         Instance,
		"Velocity":         Instance,
		"Angular Velocity": Instance,
	},
	"INPUT_POSITION": {"Position": Object},
	"INPUT_NORMAL":   {"Normal": Object},
}

var (
	proceduralInputs = map[string]Tag{"Vector": ObjectGenerated}
	bsdfInputs       = map[string]Tag{"Normal": World, "Coat Normal": World, "Tangent": World}
)

// Inputs is the table for sockets that consume a vector.
var Inputs = Table{
	"TEX_IMAGE":             {"Vector": UV},
	"TEX_NOISE":             proceduralInputs,
	"TEX_VORONOI":           proceduralInputs,
	"TEX_WAVE":              proceduralInputs,
	"TEX_MUSGRAVE":          proceduralInputs,
	"TEX_GRADIENT":          proceduralInputs,
	"TEX_MAGIC":             proceduralInputs,
	"TEX_CHECKER":           proceduralInputs,
	"TEX_BRICK":             proceduralInputs,
	"TEX_WHITE_NOISE":       proceduralInputs,
	"TEX_ENVIRONMENT":       {"Vector": World},
	"TEX_SKY":               {"Vector": World},
	"VECT_TRANSFORM":        {Wildcard: Object},
	"BSDF_PRINCIPLED":       bsdfInputs,
	"BSDF_DIFFUSE":          bsdfInputs,
	"BSDF_GLOSSY":           bsdfInputs,
	"BSDF_GLASS":            bsdfInputs,
	"BSDF_ANISOTROPIC":      bsdfInputs,
	"SUBSURFACE_SCATTERING": {"Normal": World},
	"OUTPUT_MATERIAL":       {"Displacement": Object},
	"DISPLACEMENT":          {"Normal": World},
	"BUMP":                  {"Normal": World},
}

// Lookup returns the table entry for a socket, trying the exact socket name
// before the node type's wildcard.
func (t Table) Lookup(nodeType, socketName string) (Tag, bool) {
	sockets, ok := t[nodeType]
	if !ok {
		return "", false
	}
	if tag, ok := sockets[socketName]; ok {
		return tag, true
	}
	tag, ok := sockets[Wildcard]
	return tag, ok
}

// Resolve returns the space of a socket.
func Resolve(nodeType, socketName string, dir scene.Direction) Tag {
	table := Inputs
	if dir == scene.Output {
		table = Outputs
	}
	if tag, ok := table.Lookup(nodeType, socketName); ok {
		return tag
	}
	if socketName == "UV" {
		return UV
	}
	return Preserve
}
