package layout

import (
	"math"
	"math/rand"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

const (
	forceIterations = 150
	forceSeed       = 1 // fixed seed keeps layouts reproducible
)

// layoutForce runs a Fruchterman-Reingold style simulation for graphs
// where layers carry no meaning (dense or cyclic). Nodes repel each
// other, edges pull their endpoints together, and a linearly cooling
// temperature caps movement per iteration. The seed is fixed, so the
// same graph always settles into the same drawing.
func layoutForce(g graph.Graph, sx, sy float64) graph.Graph {
	out := g.Clone()
	ensureSizes(out.Nodes)

	n := len(out.Nodes)
	if n == 1 {
		out.Nodes[0].Position = &graph.Point{}
		return out
	}

	// Ideal pairwise distance: node footprint plus the requested gaps.
	k := graph.DefaultWidth + (sx+sy)/2
	radius := k * math.Sqrt(float64(n)) / 2

	rng := rand.New(rand.NewSource(forceSeed))
	x := make([]float64, n)
	y := make([]float64, n)
	for i, node := range out.Nodes {
		if node.Position != nil {
			x[i], y[i] = node.Position.X, node.Position.Y
			continue
		}
		angle := 2 * math.Pi * (float64(i) / float64(n))
		x[i] = radius*math.Cos(angle) + rng.Float64()
		y[i] = radius*math.Sin(angle) + rng.Float64()
	}

	idx := out.Index()
	temp := radius / 2
	cool := temp / float64(forceIterations)

	dx := make([]float64, n)
	dy := make([]float64, n)
	for iter := 0; iter < forceIterations; iter++ {
		for i := range dx {
			dx[i], dy[i] = 0, 0
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				vx, vy := x[i]-x[j], y[i]-y[j]
				d := math.Hypot(vx, vy)
				if d < 0.01 {
					vx, vy, d = rng.Float64()-0.5, rng.Float64()-0.5, 1
				}
				rep := k * k / d
				dx[i] += vx / d * rep
				dy[i] += vy / d * rep
				dx[j] -= vx / d * rep
				dy[j] -= vy / d * rep
			}
		}

		for _, e := range out.Edges {
			i, okI := idx[e.Source]
			j, okJ := idx[e.Target]
			if !okI || !okJ || i == j {
				continue
			}
			vx, vy := x[i]-x[j], y[i]-y[j]
			d := math.Hypot(vx, vy)
			if d < 0.01 {
				continue
			}
			att := d * d / k
			dx[i] -= vx / d * att
			dy[i] -= vy / d * att
			dx[j] += vx / d * att
			dy[j] += vy / d * att
		}

		for i := 0; i < n; i++ {
			d := math.Hypot(dx[i], dy[i])
			if d < 0.01 {
				continue
			}
			step := math.Min(d, temp)
			x[i] += dx[i] / d * step
			y[i] += dy[i] / d * step
		}
		temp = math.Max(temp-cool, 0.5)
	}

	for i := range out.Nodes {
		b := out.Nodes[i].Bounds()
		out.Nodes[i].Position = &graph.Point{X: x[i] - b.W/2, Y: y[i] - b.H/2}
	}
	return out
}
