package plan

import (
	"testing"

	"github.com/lsds/p2pcoord/srcs/go/accel"
)

func Test_BuildGraph_IsTreeWithOneRoot(t *testing.T) {
	ds := devs(6)
	rt := accel.NewSim(nil, nil)
	pairs := Compute(ds, rt)

	g := BuildGraph(pairs)

	roots := 0
	for i := range pairs {
		if g.IsSelfLoop(i) {
			roots++
			if len(g.Prevs(i)) != 0 {
				t.Errorf("root node %d has parents: %v", i, g.Prevs(i))
			}
		} else if len(g.Prevs(i)) != 1 {
			t.Errorf("non-root node %d has %d parents, want 1", i, len(g.Prevs(i)))
		}
	}
	if roots != 1 {
		t.Errorf("got %d roots, want 1", roots)
	}
}
