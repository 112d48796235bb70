package graph

import (
	"testing"

	"github.com/lsds/p2pcoord/srcs/go/utils/assert"
)

func Test_AddEdge_SelfLoop(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 0)
	assert.True(g.IsSelfLoop(0))
	assert.True(!g.IsSelfLoop(1))
}

func Test_AddEdge_Tree(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)

	assert.True(len(g.Prevs(0)) == 0)
	assert.True(len(g.Prevs(1)) == 1 && g.Prevs(1)[0] == 0)
	assert.True(len(g.Nexts(0)) == 1 && g.Nexts(0)[0] == 1)
	assert.True(len(g.Nexts(1)) == 1 && g.Nexts(1)[0] == 2)
}

func Test_DigestBytes_StableForIsomorphicEdgeOrder(t *testing.T) {
	a := New(3)
	a.AddEdge(0, 0)
	a.AddEdge(0, 1)
	a.AddEdge(0, 2)

	b := New(3)
	b.AddEdge(0, 0)
	b.AddEdge(0, 2)
	b.AddEdge(0, 1)

	da, db := a.DigestBytes(), b.DigestBytes()
	assert.True(len(da) == len(db))
	for i := range da {
		assert.True(da[i] == db[i])
	}
}

func Test_DigestBytes_DiffersForDifferentShapes(t *testing.T) {
	a := New(3)
	a.AddEdge(0, 0)
	a.AddEdge(0, 1)
	a.AddEdge(1, 2)

	b := New(3)
	b.AddEdge(0, 0)
	b.AddEdge(0, 1)
	b.AddEdge(0, 2)

	da, db := a.DigestBytes(), b.DigestBytes()
	diff := len(da) != len(db)
	if !diff {
		for i := range da {
			if da[i] != db[i] {
				diff = true
				break
			}
		}
	}
	assert.True(diff)
}

func Test_DebugString_Format(t *testing.T) {
	g := New(2)
	g.AddEdge(0, 0)
	g.AddEdge(0, 1)
	want := "[2]{(0)(0->1)}"
	assert.True(g.DebugString() == want)
}
