// Package assets relocates texture images next to the serialized documents.
//
// Image-texture nodes reference image files anywhere on disk. The runtime
// only looks in one directory, so [DirStore] copies each image into
// <root>/textures the first time it is seen and records the bare filename.
// A destination that already exists is never rewritten, which keeps
// repeated passes cheap and makes relocation idempotent.
package assets

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/observability"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// DefaultDir is the texture directory relative to the project root.
const DefaultDir = "textures"

// DefaultExt is appended to image names that have no extension.
const DefaultExt = ".png"

// blendRelPrefix marks host paths that are relative to the project root.
const blendRelPrefix = "//"

// DirStore copies images into a directory under the project root.
// It implements nodetree.AssetStore.
type DirStore struct {
	root string
	dir  string
	plan bool // resolve names only, never touch the filesystem
}

// NewDirStore returns a store writing to root/dir. An empty dir selects
// DefaultDir. Nothing is created until the first image is stored.
func NewDirStore(root, dir string) *DirStore {
	if dir == "" {
		dir = DefaultDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return &DirStore{root: root, dir: filepath.Clean(dir)}
}

// NewPlanStore returns a store that records the same filenames as
// NewDirStore(root, dir) but copies nothing. Dry runs use it so their
// documents match a real pass byte for byte.
func NewPlanStore(root, dir string) *DirStore {
	s := NewDirStore(root, dir)
	s.plan = true
	return s
}

// Dir returns the directory images are copied into.
func (s *DirStore) Dir() string { return s.dir }

// Relocate copies img into the texture directory and returns the filename
// to record. The filename is returned even when the copy fails.
func (s *DirStore) Relocate(img scene.Image) (string, error) {
	hooks := observability.Asset()

	name := FileName(img)
	if name == "" {
		err := errors.New(errors.ErrCodeAssetWrite, "image has neither a name nor a file path")
		hooks.OnAssetFailed(img.Name, err)
		return "", err
	}

	src := s.SourcePath(img.Filepath)
	dst := filepath.Join(s.dir, name)

	if src != "" && s.within(src) {
		hooks.OnAssetSkipped(name)
		return filepath.Base(src), nil
	}
	if s.plan {
		return name, nil
	}
	if _, err := os.Stat(dst); err == nil {
		hooks.OnAssetSkipped(name)
		return name, nil
	}

	size, err := s.copy(src, dst)
	if err != nil {
		hooks.OnAssetFailed(name, err)
		return name, err
	}
	hooks.OnAssetStored(name, size)
	return name, nil
}

// FileName derives the stored filename of an image: its name, else the
// base of its file path, with DefaultExt added when there is no extension.
func FileName(img scene.Image) string {
	name := img.Name
	if name == "" && img.Filepath != "" {
		name = filepath.Base(strings.TrimPrefix(img.Filepath, blendRelPrefix))
	}
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return ""
	}
	if filepath.Ext(name) == "" {
		name += DefaultExt
	}
	return name
}

// SourcePath resolves a host image path against the project root.
// Paths starting with "//" and other relative paths are root-relative.
func (s *DirStore) SourcePath(p string) string {
	if p == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(p, blendRelPrefix); ok {
		return filepath.Join(s.root, filepath.FromSlash(rest))
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.root, p)
}

func (s *DirStore) within(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (s *DirStore) copy(src, dst string) (int64, error) {
	if src == "" {
		return 0, errors.New(errors.ErrCodeAssetWrite, "%s: image has no source file", filepath.Base(dst))
	}
	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "open %s", src)
	}
	defer in.Close()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "create %s", s.dir)
	}
	tmp, err := os.CreateTemp(s.dir, ".texture-*")
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "create temp file in %s", s.dir)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, in)
	if err != nil {
		tmp.Close()
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "copy %s", src)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "close %s", dst)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "chmod %s", dst)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, errors.Wrap(errors.ErrCodeAssetWrite, err, "rename into %s", dst)
	}
	return n, nil
}
