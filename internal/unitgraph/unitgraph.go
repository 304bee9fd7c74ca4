// Package unitgraph exposes the cross-unit dependency edges recorded
// during reconstruction as a renderable graph.
package unitgraph

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"sdkgen/internal/sdk"
)

// Build assembles a graph whose nodes are the emission order and whose
// edges point from the dependent unit to its dependency.
func Build(order []string, edges []sdk.Edge) *lattice.Graph {
	g := &lattice.Graph{}
	g.Nodes = append(g.Nodes, order...)
	for _, e := range edges {
		g.Edges = append(g.Edges, lattice.Edge{Caller: e.From, Callee: e.To})
	}
	g.Dedup()
	return g
}

// DOT renders the archive's unit ordering as Graphviz source.
func DOT(a *sdk.Archive) string {
	return render.DOT(Build(a.Order, a.Edges), "unitorder")
}
