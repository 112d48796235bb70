package plan

import (
	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/plan/graph"
)

// BuildGraph renders pairs as a graph.Graph indexed by each device's
// position in pairs, with the root marked by a self-loop at index 0.
// It exists so the planner's output can be validated and logged with the
// same generic tree tooling the rest of the plan package already carries,
// instead of a bespoke well-formedness checker.
func BuildGraph(pairs []DevicePair) *graph.Graph {
	index := make(map[accel.DeviceID]int, len(pairs))
	for i, p := range pairs {
		index[p.Device] = i
	}

	g := graph.New(len(pairs))
	for i, p := range pairs {
		if p.Parent == Root {
			g.AddEdge(i, i)
			continue
		}
		g.AddEdge(index[p.Parent], i)
	}
	return g
}
