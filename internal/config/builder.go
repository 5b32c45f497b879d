package config

import (
	"github.com/example/taskgraph/pkg/graph"
)

// Build assembles a validated pipeline into a dependency graph. Steps
// with no after list become roots; a single reference chains with Then;
// multiple references join. The pipeline must have passed Validate.
func Build(p *Pipeline) *graph.Graph[Step] {
	g := graph.New[Step]()
	nodes := make(map[string]*graph.Node[Step], len(p.Steps))

	for _, step := range p.Steps {
		switch len(step.After) {
		case 0:
			nodes[step.ID] = g.Root(step)
		case 1:
			nodes[step.ID] = nodes[step.After[0]].Then(step)
		default:
			group := make(graph.Nodes[Step], len(step.After))
			for i, ref := range step.After {
				group[i] = nodes[ref]
			}
			nodes[step.ID] = group.Join(step)
		}
	}
	return g
}
