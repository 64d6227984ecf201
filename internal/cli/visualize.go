package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetrees/pkg/document"
	"github.com/matzehuels/nodetrees/pkg/errors"
	"github.com/matzehuels/nodetrees/pkg/render/nodelink"
)

// Visualization formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// visualizeCommand creates the visualize command for drawing a document.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		format string
		output string
		opts   nodelink.Options
	)

	cmd := &cobra.Command{
		Use:   "visualize [document.json]",
		Short: "Draw a serialized document as a node-link diagram",
		Long: `Draw a serialized document as a node-link diagram.

The document's hash is verified first. By default the top-level node table
is drawn; use --tree to draw the internal tree of an inlined group instead.
Muted nodes are dashed and inlined groups have a double outline.

Use "-o -" to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return errors.New(errors.ErrCodeUnsupported, "unsupported format: %q (must be one of: dot, svg)", format)
			}
			return c.runVisualize(cmd.Context(), args[0], format, output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg, dot")
	cmd.Flags().StringVar(&opts.Tree, "tree", "", "draw the internal tree of this node group")
	cmd.Flags().BoolVarP(&opts.Detailed, "detailed", "d", false, "show node types, spaces and socket names")

	return cmd
}

// runVisualize loads the document and renders it.
func (c *CLI) runVisualize(ctx context.Context, input, format, output string, opts nodelink.Options) error {
	logger := loggerFromContext(ctx)

	doc, err := document.Load(input)
	if err != nil {
		return err
	}
	dot, err := nodelink.ToDOT(doc, opts)
	if err != nil {
		return err
	}
	logger.Debug("generated DOT", "nodes", doc.Nodes.Len(), "bytes", len(dot))

	data := []byte(dot)
	if format == formatSVG {
		spinner := newSpinner(ctx, "Rendering diagram...")
		spinner.Start()
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("visualize: %w", err)
		}
		spinner.Stop()
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %s", doc.Name)
	printFile(output)
	return nil
}
