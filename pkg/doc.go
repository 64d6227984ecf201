// Package pkg provides the libraries behind nodetrees.
//
// # Overview
//
// nodetrees turns the shader and logic node graphs of a 3D scene into
// self-describing JSON documents that a runtime can load and hot-reload.
// The packages are organized as follows:
//
//  1. [scene] - Host-independent graph model and snapshot decoding
//  2. [nodetree] - Walker and serializer producing node tables
//  3. [coerce] and [space] - Literal value and coordinate-space conversion
//  4. [document] - Canonical JSON, content hashing and output paths
//  5. [assets] - Texture relocation next to the documents
//  6. [cache] - Change-detection index (file, redis, none)
//  7. [pipeline] - One serialization pass over every target
//  8. [render] - Node-link diagrams of written documents
//
// # Architecture
//
// The data flow of a pass:
//
//	Scene snapshot (JSON/YAML)
//	         ↓
//	    [scene] package (graphs, node-group library, targets)
//	         ↓
//	    [nodetree] package (walk, inline groups, record nodes)
//	         ↓
//	    [document] package (canonical JSON + embedded hash)
//	         ↓
//	    shaders/<name>.json, logic-trees/<group>.json
//
// # Quick Start
//
//	snap, err := scene.LoadSnapshot("scene.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, snap, pipeline.Options{Root: "./game"})
//
// # Error Handling
//
// Errors carry a machine-readable code from [errors]; use errors.Is with a
// code to branch on the failure kind.
//
// [scene]: github.com/matzehuels/nodetrees/pkg/scene
// [nodetree]: github.com/matzehuels/nodetrees/pkg/nodetree
// [coerce]: github.com/matzehuels/nodetrees/pkg/coerce
// [space]: github.com/matzehuels/nodetrees/pkg/space
// [document]: github.com/matzehuels/nodetrees/pkg/document
// [assets]: github.com/matzehuels/nodetrees/pkg/assets
// [cache]: github.com/matzehuels/nodetrees/pkg/cache
// [pipeline]: github.com/matzehuels/nodetrees/pkg/pipeline
// [render]: github.com/matzehuels/nodetrees/pkg/render
// [errors]: github.com/matzehuels/nodetrees/pkg/errors
package pkg
