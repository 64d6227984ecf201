package document

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
)

// Write stores out under root, creating the output directory on demand.
// The file is written to a temporary name and renamed into place, so a
// reader never sees a partial document. It returns the absolute path.
func Write(root string, out *Output) (string, error) {
	dst := filepath.Join(root, filepath.FromSlash(out.Path))
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDocumentWrite, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".nodetrees-*.json")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDocumentWrite, err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(out.Data); err != nil {
		tmp.Close()
		return "", errors.Wrap(errors.ErrCodeDocumentWrite, err, "write %s", out.Path)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeDocumentWrite, err, "close %s", out.Path)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeDocumentWrite, err, "chmod %s", out.Path)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return "", errors.Wrap(errors.ErrCodeDocumentWrite, err, "rename into %s", dst)
	}

	if abs, err := filepath.Abs(dst); err == nil {
		return abs, nil
	}
	return dst, nil
}

// Load reads, verifies and decodes a document file.
func Load(path string) (*nodetree.Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "document %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = nameFromPath(path)
	}
	return doc, nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
