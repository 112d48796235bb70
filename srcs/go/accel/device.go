// Package accel is the accelerator runtime the core consumes: device
// set/get, alloc/free, async device-to-device memcpy, stream
// synchronization, and peer-access queries. A production binding would
// forward Runtime to CUDA or ROCm; Sim is the in-process reference
// implementation used by tests and by single-box runs that have no real
// accelerator attached.
package accel

import (
	"fmt"

	"github.com/lsds/p2pcoord/srcs/go/tensor"
)

// DeviceID identifies one accelerator. -1 is reserved by plan.DevicePair
// as the "this is the root" sentinel and is never a valid device.
type DeviceID int

// Runtime is the external accelerator collaborator described in the
// spec's "Consumed from the accelerator runtime" section.
type Runtime interface {
	CurrentDevice() DeviceID
	SetDevice(DeviceID) DeviceID // returns the previous device, for scoped restore

	// Alloc returns a zeroed region of count elements of dtype on dev.
	Alloc(dev DeviceID, count int, dtype tensor.DType) *tensor.Vector
	Free(*tensor.Vector)

	// MemcpyAsync issues a device-to-device copy and returns immediately;
	// the caller must call StreamSynchronize before relying on dst.
	MemcpyAsync(dst, src *tensor.Vector)
	StreamSynchronize()

	CanAccessPeer(self, peer DeviceID) bool
	EnablePeerAccess(self, peer DeviceID)
	DisablePeerAccess(self, peer DeviceID)

	// BoardGroup reports the multi-GPU board a device belongs to, if the
	// runtime can report it. ok is false when the query is unsupported,
	// which gates planner Phase 1 off per the spec's open question.
	BoardGroup(DeviceID) (group int, ok bool)
}

// Scoped sets the active device to dev for the duration of f and restores
// the previously active device on every exit path, modelling the
// save/set/restore pattern the original source repeats at every entry
// point that touches a specific accelerator.
func Scoped(rt Runtime, dev DeviceID, f func()) {
	prev := rt.SetDevice(dev)
	defer rt.SetDevice(prev)
	f()
}

func (d DeviceID) String() string {
	return fmt.Sprintf("gpu%d", int(d))
}
