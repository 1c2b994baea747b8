package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inkgraph/pkg/errors"
	"github.com/matzehuels/inkgraph/pkg/graph"
	"github.com/matzehuels/inkgraph/pkg/layout"
	"github.com/matzehuels/inkgraph/pkg/observability"
	"github.com/matzehuels/inkgraph/pkg/render"
)

// Render output formats.
const (
	renderFormatDOT = "dot"
	renderFormatSVG = "svg"
	renderFormatPNG = "png"
)

// renderCommand creates the render command for graph previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output       string
		format       string
		direction    string
		branchColors bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph preview as DOT, SVG, or PNG",
		Long: `Render a graph preview as DOT, SVG, or PNG.

The render command reads a canonical graph JSON file and produces a
Graphviz preview. Containers become clusters, node kinds map to their
conventional shapes, and tree graphs can be colored per branch with
--branch-colors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := render.Options{
				Direction:    layout.Direction(direction),
				BranchColors: branchColors,
			}
			return c.runRender(cmd.Context(), args[0], format, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", renderFormatSVG, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&direction, "direction", "d", c.Config.Layout.Direction, "flow direction: right, left, down, up")
	cmd.Flags().BoolVar(&branchColors, "branch-colors", c.Config.Render.BranchColors, "color nodes by mind-map branch")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, format string, opts render.Options, output string) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	observability.Pipeline().OnRenderStart(ctx, []string{format})
	start := time.Now()
	data, err := renderAs(ctx, g, format, opts)
	observability.Pipeline().OnRenderComplete(ctx, []string{format}, time.Since(start), err)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Rendered %s", format)
	printFile(outputPath)
	return nil
}

func renderAs(ctx context.Context, g graph.Graph, format string, opts render.Options) ([]byte, error) {
	dot := render.ToDOT(g, opts)
	switch format {
	case renderFormatDOT:
		return []byte(dot), nil
	case renderFormatSVG:
		return render.RenderSVG(ctx, dot)
	case renderFormatPNG:
		return render.RenderPNG(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown render format %q", format)
	}
}
