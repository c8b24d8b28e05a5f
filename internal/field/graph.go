package field

import (
	"sort"

	"github.com/tomz197/termwall/internal/physics"
)

// ComputeConnections builds the proximity graph. Pairs of entered particles
// closer than the connection threshold are connected greedily: pairs are
// visited in ascending (i, j) order and skipped once either endpoint reached
// MaxConnectionsPerParticle. The result depends on particle order and is not
// a maximum degree-constrained matching.
//
// A spatial grid with cells as large as the threshold limits the pairs that
// are measured; candidates are sorted so the visit order matches a full scan.
func (f *Field) ComputeConnections() []Edge {
	f.edges = f.edges[:0]
	for _, p := range f.particles {
		p.Connections = 0
	}

	limit := f.cfg.MaxConnectionsPerParticle
	threshold := f.cfg.ConnectionThreshold
	if limit <= 0 || threshold <= 0 {
		return f.edges
	}

	f.grid.Reset(float64(f.screen.Width), float64(f.screen.Height), threshold)
	for i, p := range f.particles {
		if p.Entered {
			f.grid.Insert(p.X, p.Y, i)
		}
	}

	for i, p := range f.particles {
		if !p.Entered || p.Connections >= limit {
			continue
		}

		candidates := f.candidates[:0]
		f.grid.QueryAround(p.X, p.Y, func(j int) bool {
			if j > i {
				candidates = append(candidates, j)
			}
			return false
		})
		sort.Ints(candidates)
		f.candidates = candidates

		for _, j := range candidates {
			if p.Connections >= limit {
				break
			}
			q := f.particles[j]
			if q.Connections >= limit {
				continue
			}
			if physics.Within(p.X, p.Y, q.X, q.Y, threshold) {
				f.edges = append(f.edges, Edge{A: i, B: j})
				p.Connections++
				q.Connections++
			}
		}
	}
	return f.edges
}

// FindTriangles lists ascending index triples of entered particles with at
// least MinTriangleConnections connections whose three pairwise distances
// are all below the connection threshold. Enumeration stops after
// MaxTriangles triples. Must run after ComputeConnections.
func (f *Field) FindTriangles() []Triangle {
	f.triangles = f.triangles[:0]
	limit := f.cfg.MaxTriangles
	threshold := f.cfg.ConnectionThreshold
	if limit <= 0 || threshold <= 0 {
		return f.triangles
	}

	eligible := f.eligible[:0]
	for i, p := range f.particles {
		if p.Entered && p.Connections >= f.cfg.MinTriangleConnections {
			eligible = append(eligible, i)
		}
	}
	f.eligible = eligible

	near := func(a, b int) bool {
		p, q := f.particles[a], f.particles[b]
		return physics.Within(p.X, p.Y, q.X, q.Y, threshold)
	}

	for x := 0; x < len(eligible); x++ {
		a := eligible[x]
		for y := x + 1; y < len(eligible); y++ {
			b := eligible[y]
			if !near(a, b) {
				continue
			}
			for z := y + 1; z < len(eligible); z++ {
				c := eligible[z]
				if near(a, c) && near(b, c) {
					f.triangles = append(f.triangles, Triangle{A: a, B: b, C: c})
					if len(f.triangles) >= limit {
						return f.triangles
					}
				}
			}
		}
	}
	return f.triangles
}
