// Package document turns serialized graphs into hashed JSON files.
//
// [Finalize] renders a [nodetree.Document] as canonical JSON (two-space
// indent, walker key order), computes a 128-bit content digest over that
// text and splices it in as the first member:
//
//	{
//	  "hash": "3f2a...",
//	  "$treeType": "material",
//	  "$internalTrees": {},
//	  ...
//	}
//
// Removing the hash line gives back exactly the bytes that were hashed, so
// [Verify] can recheck a file without re-serializing it.
package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/nodetree"
	"github.com/matzehuels/nodetrees/pkg/scene"
)

// Output directories relative to the project root.
const (
	DirShaders = "shaders"
	DirLogic   = "logic-trees"
)

// HashBytes is the digest length embedded in documents.
const HashBytes = 16

const (
	openBrace  = "{\n"
	hashPrefix = `  "hash": "`
	hashSuffix = "\",\n"
)

// Output is a finalized document ready to be written.
type Output struct {
	Path string // Slash-separated, relative to the project root
	Hash string
	Data []byte
}

// Finalize renders doc, hashes it and derives its output path.
func Finalize(doc *nodetree.Document) (*Output, error) {
	path, err := Path(doc.Kind, doc.Name)
	if err != nil {
		return nil, err
	}
	content, err := Canonical(doc)
	if err != nil {
		return nil, err
	}
	hash := ContentHash(content)
	return &Output{Path: path, Hash: hash, Data: Splice(content, hash)}, nil
}

// Canonical renders doc as indented JSON with a trailing newline.
func Canonical(doc *nodetree.Document) ([]byte, error) {
	compact, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal %q", doc.Name)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "indent %q", doc.Name)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ContentHash returns the hex digest of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:HashBytes])
}

// Splice inserts the hash member right after the opening brace.
func Splice(content []byte, hash string) []byte {
	body := bytes.TrimPrefix(content, []byte(openBrace))
	out := make([]byte, 0, len(content)+len(hashPrefix)+len(hash)+len(hashSuffix))
	out = append(out, openBrace...)
	out = append(out, hashPrefix...)
	out = append(out, hash...)
	out = append(out, hashSuffix...)
	return append(out, body...)
}

// Unsplice removes the hash member added by Splice and returns the original
// content and the embedded hash.
func Unsplice(data []byte) (content []byte, hash string, err error) {
	head := openBrace + hashPrefix
	if !bytes.HasPrefix(data, []byte(head)) {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "document does not start with a hash member")
	}
	rest := data[len(head):]
	end := bytes.Index(rest, []byte(hashSuffix))
	if end < 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "document hash member is not terminated")
	}
	hash = string(rest[:end])
	content = append([]byte(openBrace), rest[end+len(hashSuffix):]...)
	return content, hash, nil
}

// Verify checks the embedded hash of a written document and returns it.
func Verify(data []byte) (string, error) {
	content, embedded, err := Unsplice(data)
	if err != nil {
		return "", err
	}
	if computed := ContentHash(content); computed != embedded {
		return embedded, errors.Wrap(errors.ErrCodeHashMismatch,
			&errors.HashMismatchError{Embedded: embedded, Computed: computed},
			"document content does not match its hash")
	}
	return embedded, nil
}

// Parse verifies data and decodes it.
func Parse(data []byte) (*nodetree.Document, error) {
	if _, err := Verify(data); err != nil {
		return nil, err
	}
	var doc nodetree.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	return &doc, nil
}

// Dir returns the output directory for a tree kind.
func Dir(kind scene.Kind) string {
	if kind == scene.KindLogic {
		return DirLogic
	}
	return DirShaders
}

// SanitizeName makes a tree name safe to use as a file name.
func SanitizeName(name string) string {
	return strings.NewReplacer(".", "-", "/", "-", `\`, "-").Replace(name)
}

// Path returns the slash-separated output path of a tree.
func Path(kind scene.Kind, name string) (string, error) {
	if !kind.Valid() {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown tree type %q", kind)
	}
	if err := errors.ValidateTreeName(name); err != nil {
		return "", err
	}
	p := Dir(kind) + "/" + SanitizeName(name) + ".json"
	if err := errors.ValidatePath(p); err != nil {
		return "", err
	}
	return p, nil
}
