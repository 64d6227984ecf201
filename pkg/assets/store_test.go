package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/observability"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

var _ nodetree.AssetStore = (*DirStore)(nil)

type assetEvents struct {
	observability.NoopAssetHooks
	stored, skipped, failed []string
}

func (h *assetEvents) OnAssetStored(name string, _ int64) { h.stored = append(h.stored, name) }
func (h *assetEvents) OnAssetSkipped(name string)         { h.skipped = append(h.skipped, name) }
func (h *assetEvents) OnAssetFailed(name string, _ error) { h.failed = append(h.failed, name) }

func recordAssets(t *testing.T) *assetEvents {
	t.Helper()
	h := &assetEvents{}
	observability.SetAssetHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		img  scene.Image
		want string
	}{
		{scene.Image{Name: "bricks.jpg"}, "bricks.jpg"},
		{scene.Image{Name: "bricks"}, "bricks.png"},
		{scene.Image{Filepath: "//tex/wood.exr"}, "wood.exr"},
		{scene.Image{Filepath: "/abs/path/noext"}, "noext.png"},
		{scene.Image{Name: "a/b"}, "a_b.png"},
		{scene.Image{}, ""},
	}
	for _, tt := range tests {
		if got := FileName(tt.img); got != tt.want {
			t.Errorf("FileName(%+v) = %q, want %q", tt.img, got, tt.want)
		}
	}
}

func TestRelocateCopiesOnce(t *testing.T) {
	events := recordAssets(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "bricks.jpg"), "jpeg")

	store := NewDirStore(root, "")
	img := scene.Image{Name: "bricks.jpg", Filepath: "//src/bricks.jpg"}

	name, err := store.Relocate(img)
	if err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if name != "bricks.jpg" {
		t.Errorf("name = %q, want bricks.jpg", name)
	}
	data, err := os.ReadFile(filepath.Join(root, DefaultDir, "bricks.jpg"))
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("relocated file = %q, %v", data, err)
	}

	// Change the source: the existing destination must not be rewritten.
	writeFile(t, filepath.Join(root, "src", "bricks.jpg"), "changed")
	if _, err := store.Relocate(img); err != nil {
		t.Fatalf("second Relocate: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(root, DefaultDir, "bricks.jpg"))
	if string(data) != "jpeg" {
		t.Errorf("destination rewritten: %q", data)
	}

	if len(events.stored) != 1 || len(events.skipped) != 1 {
		t.Errorf("events stored=%v skipped=%v, want one each", events.stored, events.skipped)
	}
}

func TestRelocateAlreadyInTextures(t *testing.T) {
	events := recordAssets(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "textures", "sky.hdr"), "hdr")

	store := NewDirStore(root, "textures")
	name, err := store.Relocate(scene.Image{Name: "Sky", Filepath: "//textures/sky.hdr"})
	if err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if name != "sky.hdr" {
		t.Errorf("name = %q, want sky.hdr", name)
	}
	if _, err := os.Stat(filepath.Join(root, "textures", "Sky.png")); !os.IsNotExist(err) {
		t.Errorf("image inside textures dir was copied again")
	}
	if len(events.skipped) != 1 || len(events.stored) != 0 {
		t.Errorf("events stored=%v skipped=%v", events.stored, events.skipped)
	}
}

func TestRelocateMissingSource(t *testing.T) {
	events := recordAssets(t)
	root := t.TempDir()
	store := NewDirStore(root, "")

	name, err := store.Relocate(scene.Image{Name: "ghost", Filepath: "//nowhere/ghost.png"})
	if !errors.Is(err, errors.ErrCodeAssetWrite) {
		t.Fatalf("Relocate error = %v, want ASSET_WRITE", err)
	}
	if name != "ghost.png" {
		t.Errorf("name = %q, want the filename even on failure", name)
	}
	if len(events.failed) != 1 {
		t.Errorf("failed events = %v", events.failed)
	}
}

func TestPlanStoreMatchesDirStore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "maps", "rust.png"), "png")
	writeFile(t, filepath.Join(root, "textures", "sky.hdr"), "hdr")

	images := []scene.Image{
		{Name: "brick", Filepath: "//maps/rust.png"},
		{Name: "Sky", Filepath: "//textures/sky.hdr"},
		{Name: "ghost", Filepath: "//nowhere/ghost.png"},
	}

	plan := NewPlanStore(root, "")
	var planned []string
	for _, img := range images {
		name, err := plan.Relocate(img)
		if err != nil {
			t.Fatalf("plan Relocate(%s): %v", img.Name, err)
		}
		planned = append(planned, name)
	}
	if _, err := os.Stat(filepath.Join(root, DefaultDir, "brick.png")); !os.IsNotExist(err) {
		t.Fatalf("plan store wrote brick.png")
	}

	store := NewDirStore(root, "")
	for i, img := range images {
		name, _ := store.Relocate(img)
		if name != planned[i] {
			t.Errorf("%s: plan recorded %q, real store %q", img.Name, planned[i], name)
		}
	}
	if _, err := os.Stat(filepath.Join(root, DefaultDir, "brick.png")); err != nil {
		t.Errorf("real store did not copy brick.png: %v", err)
	}
}

func TestRelocateThroughSerializer(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "maps", "rust.png"), "png")

	g := scene.NewGraph("Rust")
	err := g.AddNode(scene.Node{
		ID:      "Image Texture",
		Type:    scene.NodeTexImage,
		Image:   &scene.Image{Name: "rust.png", Filepath: "//maps/rust.png"},
		Outputs: []scene.Socket{{Name: "Color", Type: scene.TypeRGBA}},
	})
	if err != nil {
		t.Fatal(err)
	}

	doc, err := nodetree.Serialize(g, scene.KindMaterial, nil, nodetree.Options{Assets: NewDirStore(root, "")})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	rec, _ := doc.Nodes.Get("Image Texture")
	if got := rec.Properties[nodetree.PropImage]; got != "rust.png" {
		t.Errorf("image property = %v, want rust.png", got)
	}
	if _, err := os.Stat(filepath.Join(root, DefaultDir, "rust.png")); err != nil {
		t.Errorf("texture not relocated: %v", err)
	}
}
