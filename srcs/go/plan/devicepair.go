// Package plan computes the parent-child pairing of devices that forms
// the binary reduction tree (C3). The three-phase greedy algorithm is
// ported from the original source's DevicePair::compute: board-local
// pairs first, then P2P-capable pairs, then whatever is left paired off
// in order. Each phase is optional except the fallback, and on a runtime
// that reports no locality and no P2P at all only the fallback's
// adjacent pairing runs, which still yields a tree in which a node can
// have several children.
package plan

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/config"
	"github.com/lsds/p2pcoord/srcs/go/log"
	"github.com/lsds/p2pcoord/srcs/go/utils/assert"
)

// Root is the parent sentinel for the pair whose Device is the tree root.
const Root accel.DeviceID = -1

// DevicePair is one parent->child edge of the in-tree the coordinator
// builds replicas from. A Parent of Root means Device is the root itself.
type DevicePair struct {
	Parent accel.DeviceID
	Device accel.DeviceID
}

func (p DevicePair) String() string {
	if p.Parent == Root {
		return fmt.Sprintf("(root:%s)", p.Device)
	}
	return fmt.Sprintf("(%s->%s)", p.Parent, p.Device)
}

// Compute maps devices onto a binary reduction tree, returning one
// DevicePair per device with pairs[0] always the root sentinel. The
// emit order of the non-root pairs is the order the coordinator must
// build replicas in modulo the multi-sweep parent-before-child
// resolution it already performs, so this planner is free to emit a
// child before its parent.
func Compute(devices []accel.DeviceID, rt accel.Runtime) []DevicePair {
	assert.True(len(devices) > 0)

	remaining := append([]accel.DeviceID(nil), devices...)
	var pairs []DevicePair

	if !config.DisableBoardLocal {
		remaining, pairs = pairByBoard(remaining, pairs, rt)
	}
	remaining, pairs = pairByP2P(remaining, pairs, rt)
	remaining, pairs = pairFallback(remaining, pairs)

	assert.True(len(remaining) == 1)
	pairs = append([]DevicePair{{Parent: Root, Device: remaining[0]}}, pairs...)

	assert.True(len(pairs) == len(devices))
	tree := BuildGraph(pairs)
	log.Infof("plan: tree shape %s", hex.EncodeToString(tree.DigestBytes()))
	if config.ShowDebugLog() {
		log.Debugf("plan: tree %s", tree.DebugString())
	}
	return pairs
}

func passes(n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

func removeAt(xs []accel.DeviceID, i int) []accel.DeviceID {
	return append(xs[:i], xs[i+1:]...)
}

func pairByBoard(remaining []accel.DeviceID, pairs []DevicePair, rt accel.Runtime) ([]accel.DeviceID, []DevicePair) {
	nPasses := passes(len(remaining))
	for d := 0; d < nPasses; d++ {
		for i := 0; i < len(remaining); i++ {
			for j := i + 1; j < len(remaining); j++ {
				a, aok := rt.BoardGroup(remaining[i])
				b, bok := rt.BoardGroup(remaining[j])
				if aok && bok && a == b {
					log.Debugf("plan: board-local pair %s:%s", remaining[i], remaining[j])
					pairs = append(pairs, DevicePair{Parent: remaining[i], Device: remaining[j]})
					remaining = removeAt(remaining, j)
					break
				}
			}
		}
	}
	return remaining, pairs
}

func pairByP2P(remaining []accel.DeviceID, pairs []DevicePair, rt accel.Runtime) ([]accel.DeviceID, []DevicePair) {
	nPasses := passes(len(remaining))
	for d := 0; d < nPasses; d++ {
		for i := 0; i < len(remaining); i++ {
			for j := i + 1; j < len(remaining); j++ {
				if rt.CanAccessPeer(remaining[i], remaining[j]) {
					log.Debugf("plan: p2p pair %s:%s", remaining[i], remaining[j])
					pairs = append(pairs, DevicePair{Parent: remaining[i], Device: remaining[j]})
					remaining = removeAt(remaining, j)
					break
				}
			}
		}
	}
	return remaining, pairs
}

func pairFallback(remaining []accel.DeviceID, pairs []DevicePair) ([]accel.DeviceID, []DevicePair) {
	nPasses := passes(len(remaining))
	for d := 0; d < nPasses; d++ {
		for i := 0; i+1 < len(remaining); i++ {
			log.Debugf("plan: fallback pair %s:%s", remaining[i], remaining[i+1])
			pairs = append(pairs, DevicePair{Parent: remaining[i], Device: remaining[i+1]})
			remaining = removeAt(remaining, i+1)
		}
	}
	return remaining, pairs
}
