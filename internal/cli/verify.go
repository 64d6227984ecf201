package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetrees/pkg/document"
	"github.com/matzehuels/nodetrees/pkg/errors"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [document.json|dir]...",
		Short: "Check the embedded hash of written documents",
		Long: `Check the embedded hash of written documents.

Each document's hash field is removed and the digest of the remaining text is
recomputed. A directory argument verifies every .json file below it. The
command fails if any document does not match its hash.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(cmd.Context(), args)
		},
	}
}

func (c *CLI) runVerify(ctx context.Context, args []string) error {
	logger := loggerFromContext(ctx)

	paths, err := collectDocuments(args)
	if err != nil {
		return err
	}

	failed := 0
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			failed++
			printError("%s: %v", p, err)
			continue
		}
		hash, err := document.Verify(data)
		if err != nil {
			failed++
			printError("%s: %s", p, errors.UserMessage(err))
			var mismatch *errors.HashMismatchError
			if errors.As(err, &mismatch) {
				printDetail("embedded %s, computed %s", mismatch.Embedded, mismatch.Computed)
			}
			continue
		}
		logger.Debug("verified", "path", p, "hash", hash)
		printSuccess("%s %s", StyleValue.Render(p), StyleDim.Render(shortHash(hash)))
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeHashMismatch, "%d of %d documents failed verification", failed, len(paths))
	}
	printInfo("%s documents verified", StyleNumber.Render(strconv.Itoa(len(paths))))
	return nil
}

// collectDocuments expands directory arguments into the .json files below
// them, in lexical order.
func collectDocuments(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "%s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".json" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "walk %s", arg)
		}
	}
	return paths, nil
}
