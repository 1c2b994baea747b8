package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inkgraph/pkg/cache"
	"github.com/matzehuels/inkgraph/pkg/collide"
	"github.com/matzehuels/inkgraph/pkg/errors"
	"github.com/matzehuels/inkgraph/pkg/graph"
	"github.com/matzehuels/inkgraph/pkg/layout"
	"github.com/matzehuels/inkgraph/pkg/observability"
)

// layoutCommand creates the layout command for positioning graphs.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		direction string
		spacingX  float64
		spacingY  float64
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions and edge anchors for a graph",
		Long: `Compute node positions and edge anchors for a graph.

The layout command reads a canonical graph JSON file, classifies its
shape (tree, layered, or force-directed), positions every node, and
resolves edge anchor sides. Overlapping boxes are pushed apart by the
collision resolver.

Results are cached by content hash for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(direction, spacingX, spacingY)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, timeout)
		},
	}

	cfg := c.Config.Layout
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&direction, "direction", "d", cfg.Direction, "flow direction: right, left, down, up (default: infer)")
	cmd.Flags().Float64Var(&spacingX, "spacing-x", cfg.SpacingX, "horizontal gap between nodes")
	cmd.Flags().Float64Var(&spacingY, "spacing-y", cfg.SpacingY, "vertical gap between nodes")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "abort layout after this long")

	return cmd
}

// layoutOptions merges flag values over config defaults.
func (c *CLI) layoutOptions(direction string, sx, sy float64) layout.Options {
	return layout.Options{
		Direction: layout.Direction(direction),
		SpacingX:  sx,
		SpacingY:  sy,
	}
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layout.Options, output string, noCache bool, timeout time.Duration) error {
	if opts.Direction != "" && !opts.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q", opts.Direction)
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	store := c.newCache(ctx, noCache)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	laid, cacheHit, err := c.layoutWithCache(ctx, store, g, opts, timeout)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := graph.WriteFile(outputPath, laid); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(laid.Nodes), len(laid.Edges), cacheHit)
	printNewline()
	printNextStep("Preview", appName+" render "+outputPath)

	return nil
}

// layoutWithCache runs the layout engine behind the artifact cache,
// keyed by the normalized graph content and the layout options.
func (c *CLI) layoutWithCache(ctx context.Context, store cache.Cache, g graph.Graph, opts layout.Options, timeout time.Duration) (graph.Graph, bool, error) {
	key := layoutCacheKey(g, opts)

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		var cached graph.Graph
		if json.Unmarshal(data, &cached) == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	family := layout.Classify(g.Normalize())
	observability.Pipeline().OnLayoutStart(ctx, family.String(), len(g.Nodes))
	start := time.Now()

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	laid, err := layout.Layout(runCtx, g, opts)
	observability.Pipeline().OnLayoutComplete(ctx, family.String(), time.Since(start), err)
	if err != nil {
		return graph.Graph{}, false, err
	}

	if data, err := json.Marshal(laid); err == nil {
		if err := store.Set(ctx, key, data, c.Config.Cache.TTL.Duration); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return laid, false, nil
}

func layoutCacheKey(g graph.Graph, opts layout.Options) string {
	content, _ := json.Marshal(g.Normalize())
	o := opts
	if o.Collide == (collide.Options{}) {
		o.Collide = collide.DefaultOptions()
	}
	return cache.NewDefaultKeyer().LayoutKey(cache.Hash(content), cache.LayoutKeyOpts{
		Direction: string(o.Direction),
		SpacingX:  o.SpacingX,
		SpacingY:  o.SpacingY,
	})
}
