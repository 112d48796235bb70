package accel

import (
	"sync"

	"github.com/lsds/p2pcoord/srcs/go/kernel"
	"github.com/lsds/p2pcoord/srcs/go/log"
	"github.com/lsds/p2pcoord/srcs/go/tensor"
	"github.com/lsds/p2pcoord/srcs/go/utils/assert"
)

// Sim is a reference Runtime that simulates device memory with ordinary
// Go slices and peer access with an adjacency set the caller configures.
// It stands in for "the accelerator runtime" in tests and single-box runs
// with no real GPU wired in, following the teacher's habit of shipping a
// fake collaborator (tests/go/fakemodel) next to the real protocol code.
type Sim struct {
	mu      sync.Mutex
	current DeviceID

	peersMu sync.Mutex
	peers   map[[2]DeviceID]bool // self -> peer accessibility, configured up front
	enabled map[[2]DeviceID]bool

	boards map[DeviceID]int

	kernel kernel.Kernel
}

// NewSim builds a Sim runtime. peerAccess enumerates the (self, peer)
// pairs that CanAccessPeer should report true for; boards assigns devices
// to multi-GPU board groups (omit a device to mean "unknown", which
// disables planner Phase 1 for it).
func NewSim(peerAccess [][2]DeviceID, boards map[DeviceID]int) *Sim {
	s := &Sim{
		peers:   make(map[[2]DeviceID]bool),
		enabled: make(map[[2]DeviceID]bool),
		boards:  boards,
		kernel:  kernel.Naive{},
	}
	for _, p := range peerAccess {
		s.peers[p] = true
	}
	return s
}

func (s *Sim) CurrentDevice() DeviceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Sim) SetDevice(dev DeviceID) DeviceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = dev
	return prev
}

func (s *Sim) Alloc(dev DeviceID, count int, dtype tensor.DType) *tensor.Vector {
	if count <= 0 {
		count = 1
	}
	return tensor.NewVector(count, dtype)
}

func (s *Sim) Free(*tensor.Vector) {
	// Go's GC reclaims the backing slice; nothing to do.
}

func (s *Sim) MemcpyAsync(dst, src *tensor.Vector) {
	assert.True(dst.Count == src.Count)
	s.kernel.Copy(dst, src)
}

func (s *Sim) StreamSynchronize() {
	// The naive kernel above is already synchronous; real bindings would
	// block on the issued stream here.
}

func (s *Sim) CanAccessPeer(self, peer DeviceID) bool {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()
	return s.peers[[2]DeviceID{self, peer}]
}

func (s *Sim) EnablePeerAccess(self, peer DeviceID) {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()
	key := [2]DeviceID{self, peer}
	if s.enabled[key] {
		return
	}
	s.enabled[key] = true
	log.Debugf("accel: enabled peer access %s -> %s", self, peer)
}

func (s *Sim) DisablePeerAccess(self, peer DeviceID) {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()
	key := [2]DeviceID{self, peer}
	if !s.enabled[key] {
		return
	}
	delete(s.enabled, key)
	log.Debugf("accel: disabled peer access %s -> %s", self, peer)
}

func (s *Sim) BoardGroup(dev DeviceID) (int, bool) {
	if s.boards == nil {
		return 0, false
	}
	g, ok := s.boards[dev]
	return g, ok
}
