package document

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

func sampleDoc(t *testing.T, name string) *nodetree.Document {
	t.Helper()
	g := scene.NewGraph(name)
	nodes := []scene.Node{
		{ID: "Principled BSDF", Type: "BSDF_PRINCIPLED",
			Inputs: []scene.Socket{
				{Name: "Base Color", Type: scene.TypeRGBA, Default: []any{0.8, 0.8, 0.8, 1.0}},
				{Name: "Roughness", Type: scene.TypeValue, Default: 0.5},
			},
			Outputs: []scene.Socket{{Name: "BSDF", Type: scene.TypeShader}}},
		{ID: "Material Output", Type: "OUTPUT_MATERIAL",
			Inputs: []scene.Socket{{Name: "Surface", Type: scene.TypeShader}}},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddLink(scene.Link{FromNode: "Principled BSDF", FromSocket: "BSDF", ToNode: "Material Output", ToSocket: "Surface"}); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	doc, err := nodetree.Serialize(g, scene.KindMaterial, nil, nodetree.Options{})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return doc
}

func TestFinalize(t *testing.T) {
	out, err := Finalize(sampleDoc(t, "Brick"))
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if out.Path != "shaders/Brick.json" {
		t.Errorf("Path = %q, want shaders/Brick.json", out.Path)
	}
	if len(out.Hash) != 2*HashBytes {
		t.Errorf("hash %q has length %d, want %d", out.Hash, len(out.Hash), 2*HashBytes)
	}

	wantHead := "{\n  \"hash\": \"" + out.Hash + "\",\n  \"$treeType\": \"material\",\n"
	if !strings.HasPrefix(string(out.Data), wantHead) {
		t.Errorf("document starts with %q, want prefix %q", firstLines(out.Data, 3), wantHead)
	}

	// The embedded hash covers exactly the document without its hash line.
	content, hash, err := Unsplice(out.Data)
	if err != nil {
		t.Fatalf("Unsplice: %v", err)
	}
	if hash != out.Hash {
		t.Errorf("embedded hash = %q, want %q", hash, out.Hash)
	}
	if got := ContentHash(content); got != out.Hash {
		t.Errorf("ContentHash(content) = %q, want %q", got, out.Hash)
	}

	var generic map[string]any
	if err := json.Unmarshal(out.Data, &generic); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestFinalizeDeterministic(t *testing.T) {
	a, err := Finalize(sampleDoc(t, "Brick"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Finalize(sampleDoc(t, "Brick"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Data, b.Data) {
		t.Errorf("two finalizations differ:\n%s", cmp.Diff(string(a.Data), string(b.Data)))
	}
}

func TestSpliceRoundTrip(t *testing.T) {
	content := []byte("{\n  \"$treeType\": \"logic\"\n}\n")
	data := Splice(content, "abc123")
	want := "{\n  \"hash\": \"abc123\",\n  \"$treeType\": \"logic\"\n}\n"
	if string(data) != want {
		t.Errorf("Splice = %q, want %q", data, want)
	}
	back, hash, err := Unsplice(data)
	if err != nil {
		t.Fatal(err)
	}
	if hash != "abc123" || !bytes.Equal(back, content) {
		t.Errorf("Unsplice = (%q, %q), want (%q, abc123)", back, hash, content)
	}
}

func TestVerify(t *testing.T) {
	out, err := Finalize(sampleDoc(t, "Brick"))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("intact", func(t *testing.T) {
		hash, err := Verify(out.Data)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if hash != out.Hash {
			t.Errorf("hash = %q, want %q", hash, out.Hash)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := bytes.Replace(out.Data, []byte(`"Roughness"`), []byte(`"Roughnesz"`), 1)
		_, err := Verify(tampered)
		if !errors.Is(err, errors.ErrCodeHashMismatch) {
			t.Fatalf("Verify(tampered) = %v, want HASH_MISMATCH", err)
		}
		var mismatch *errors.HashMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("error %v does not carry HashMismatchError", err)
		}
		if mismatch.Embedded != out.Hash || mismatch.Computed == out.Hash {
			t.Errorf("mismatch = %+v", mismatch)
		}
	})

	t.Run("no hash", func(t *testing.T) {
		_, err := Verify([]byte("{\n  \"$treeType\": \"material\"\n}\n"))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Verify(no hash) = %v, want INVALID_INPUT", err)
		}
	})
}

func TestPath(t *testing.T) {
	tests := []struct {
		kind    scene.Kind
		name    string
		want    string
		wantErr bool
	}{
		{scene.KindMaterial, "Brick", "shaders/Brick.json", false},
		{scene.KindEnvironment, "Sky", "shaders/Sky.json", false},
		{scene.KindComposition, "Scene", "shaders/Scene.json", false},
		{scene.KindLogic, "Spin+logic", "logic-trees/Spin+logic.json", false},
		{scene.KindMaterial, "Metal.001", "shaders/Metal-001.json", false},
		{scene.KindMaterial, "a/b\\c", "shaders/a-b-c.json", false},
		{scene.KindMaterial, "..", "shaders/--.json", false},
		{scene.KindMaterial, "", "", true},
		{scene.KindMaterial, "   ", "", true},
		{scene.Kind("mesh"), "Brick", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.name, func(t *testing.T) {
			got, err := Path(tt.kind, tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Path(%q, %q) error = %v, wantErr %v", tt.kind, tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Path(%q, %q) = %q, want %q", tt.kind, tt.name, got, tt.want)
			}
		})
	}
}

func TestWriteAndLoad(t *testing.T) {
	root := t.TempDir()
	out, err := Finalize(sampleDoc(t, "Brick"))
	if err != nil {
		t.Fatal(err)
	}

	abs, err := Write(root, out)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(root, "shaders", "Brick.json"); abs != want {
		t.Errorf("Write returned %q, want %q", abs, want)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, out.Data) {
		t.Error("written bytes differ from finalized output")
	}

	entries, err := os.ReadDir(filepath.Join(root, "shaders"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("shaders dir has %d entries, want 1 (temp file left behind?)", len(entries))
	}

	doc, err := Load(abs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Kind != scene.KindMaterial || doc.Hash != out.Hash {
		t.Errorf("Load = kind %q hash %q, want material %q", doc.Kind, doc.Hash, out.Hash)
	}
	if doc.Name != "Brick" {
		t.Errorf("Load name = %q, want Brick", doc.Name)
	}
	if _, ok := doc.Nodes.Get("Principled BSDF"); !ok {
		t.Errorf("loaded nodes = %v", doc.Nodes.Keys())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) = %v, want NOT_FOUND", err)
	}
}

func firstLines(data []byte, n int) string {
	lines := strings.SplitN(string(data), "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
