package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inkgraph/pkg/dsl"
	"github.com/matzehuels/inkgraph/pkg/errors"
	"github.com/matzehuels/inkgraph/pkg/flowxml"
	"github.com/matzehuels/inkgraph/pkg/graph"
	"github.com/matzehuels/inkgraph/pkg/observability"
	"github.com/matzehuels/inkgraph/pkg/sketch"
)

// Format names accepted by convert's --from/--to flags.
const (
	formatGraph   = "graph"
	formatSketch  = "sketch"
	formatFlowXML = "flowxml"
	formatDSL     = "dsl"
)

// convertCommand creates the convert command for format translation.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		from   string
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert between canonical graphs and external diagram formats",
		Long: `Convert between canonical graphs and external diagram formats.

Supported formats:
  graph     canonical graph JSON (the interchange format)
  sketch    whiteboard sketch elements (JSON array)
  flowxml   structured flowchart XML
  dsl       compact shorthand records (JSON array)

The dsl format is input-only and expands to sketch elements; flowxml is
one-directional into the canonical graph. Malformed external elements
are dropped, never invented: a lossless round trip is not promised.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], from, to, output)
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", formatGraph, "input format: graph, sketch, flowxml, dsl")
	cmd.Flags().StringVarP(&to, "to", "t", "", "output format (default: graph, or sketch for dsl input)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>.json)")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, from, to, output string) error {
	p := newProgress(c.Logger)
	if to == "" {
		to = formatGraph
		if from == formatDSL {
			to = formatSketch
		}
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
	}

	observability.Pipeline().OnConvertStart(ctx, from, to)
	start := time.Now()

	var out any
	switch {
	case from == formatGraph && to == formatSketch:
		g, err := graph.Read(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse graph %s", input)
		}
		out = sketch.FromGraph(g)

	case from == formatSketch && to == formatGraph:
		var elements []sketch.Element
		if err := json.Unmarshal(data, &elements); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse sketch %s", input)
		}
		out = sketch.ToGraph(sketch.Normalize(elements))

	case from == formatFlowXML && to == formatGraph:
		g, err := flowxml.FromReader(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse flowxml %s", input)
		}
		out = g

	case from == formatDSL && to == formatSketch:
		var records []dsl.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse dsl %s", input)
		}
		out = dsl.Expand(records)

	case from == formatDSL && to == formatGraph:
		var records []dsl.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse dsl %s", input)
		}
		out = sketch.ToGraph(dsl.Expand(records))

	default:
		return errors.New(errors.ErrCodeUnsupported, "no converter from %s to %s", from, to)
	}

	count := 0
	if g, ok := out.(graph.Graph); ok {
		count = len(g.Nodes)
	}
	observability.Pipeline().OnConvertComplete(ctx, from, to, count, time.Since(start), nil)

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	encoded = append(encoded, '\n')

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, "."+from)
		outputPath = fmt.Sprintf("%s.%s.json", base, to)
	}
	if err := os.WriteFile(outputPath, encoded, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	p.done(fmt.Sprintf("Converted %s to %s", from, to))
	printFile(outputPath)
	if g, ok := out.(graph.Graph); ok {
		printStats(len(g.Nodes), len(g.Edges), false)
	}
	return nil
}
