package accel

import "github.com/lsds/p2pcoord/srcs/go/log"

// AccessManager enables and disables peer-to-peer access between a
// replica and its parent (C6 in the design). Enabling is idempotent
// within the underlying Runtime but is paired by device here: every
// Acquire for (self, peer) expects a matching Release at teardown.
type AccessManager struct {
	rt Runtime
}

func NewAccessManager(rt Runtime) *AccessManager {
	return &AccessManager{rt: rt}
}

// Acquire enables P2P access from self to peer when the runtime reports
// it is available, and reports whether it did so. When unavailable it
// logs and falls back silently: subsequent copies between the two
// devices still succeed via the runtime's staged path.
func (m *AccessManager) Acquire(self, peer DeviceID) bool {
	if !m.rt.CanAccessPeer(self, peer) {
		log.Infof("GPU %s does not have p2p access to GPU %s", self, peer)
		return false
	}
	m.rt.EnablePeerAccess(self, peer)
	return true
}

// Release disables P2P access previously acquired for (self, peer). It
// calls the runtime's DisablePeerAccess whenever CanAccessPeer reports the
// pair accessible, and does nothing otherwise; Sim ignores a disable for a
// pair that is not enabled.
func (m *AccessManager) Release(self, peer DeviceID) {
	if m.rt.CanAccessPeer(self, peer) {
		m.rt.DisablePeerAccess(self, peer)
	}
}
