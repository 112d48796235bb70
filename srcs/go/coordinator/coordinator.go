// Package coordinator implements Run (C5): given a device list, an
// accelerator runtime, and a per-device driver factory, it plans the
// reduction tree, builds one replica per device, starts a worker
// goroutine per non-root replica, runs the root's driver on the calling
// goroutine, and tears every replica down once the root returns. It is
// grounded on P2PSync::Prepare and P2PSync::Run: the same
// parent-before-child multi-sweep construction order, the same
// start-workers / run-root / join-workers shape.
package coordinator

import (
	"fmt"

	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/config"
	"github.com/lsds/p2pcoord/srcs/go/kernel"
	"github.com/lsds/p2pcoord/srcs/go/log"
	"github.com/lsds/p2pcoord/srcs/go/plan"
	"github.com/lsds/p2pcoord/srcs/go/replica"
	"github.com/lsds/p2pcoord/srcs/go/runid"
	"github.com/lsds/p2pcoord/srcs/go/tensor"
	"github.com/lsds/p2pcoord/srcs/go/utils"
	"github.com/unixpickle/essentials"
)

// DriverFactory builds the tensor.Driver a replica on dev should run. The
// root's driver is built first. Each replica's flat buffers start from
// its own driver's current parameter values; the root's values reach the
// other replicas through the scatter in the first OnStart.
type DriverFactory func(dev accel.DeviceID) tensor.Driver

// Config is everything Run needs beyond the device list itself.
type Config struct {
	Runtime   accel.Runtime
	Kernel    kernel.Kernel // defaults to kernel.Naive{} if nil
	DType     tensor.DType
	NewDriver DriverFactory
}

func validate(devices []accel.DeviceID, cfg Config) error {
	if len(devices) == 0 {
		return essentials.AddCtx("coordinator.Run", fmt.Errorf("no devices given"))
	}
	seen := make(map[accel.DeviceID]bool)
	for _, d := range devices {
		if seen[d] {
			return essentials.AddCtx("coordinator.Run", fmt.Errorf("duplicate device %s", d))
		}
		seen[d] = true
	}
	if cfg.Runtime == nil {
		return essentials.AddCtx("coordinator.Run", fmt.Errorf("no runtime given"))
	}
	if cfg.NewDriver == nil {
		return essentials.AddCtx("coordinator.Run", fmt.Errorf("no driver factory given"))
	}
	return nil
}

// Run plans the reduction tree over devices, builds and wires every
// replica, drives the training loop to completion, and tears every
// replica down before returning. After every worker has joined it returns
// the root's Driver.Solve error, or, if Solve succeeded, the merged
// errors of the failed workers, if any.
func Run(devices []accel.DeviceID, cfg Config) error {
	if err := validate(devices, cfg); err != nil {
		return err
	}
	id := runid.New()
	if config.ShowDebugLog() {
		utils.LogKungfuEnv()
	}
	k := cfg.Kernel
	if k == nil {
		k = kernel.Naive{}
	}

	pairs := plan.Compute(devices, cfg.Runtime)
	log.Infof("[%s] device pairs: %v", id, pairs[1:])

	reps := make([]*replica.Replica, len(pairs))

	rootDriver := cfg.NewDriver(pairs[0].Device)
	reps[0] = replica.New(cfg.Runtime, k, pairs[0].Device, cfg.DType, rootDriver, nil)
	reps[0].SetReplicaCount(len(pairs))

	for attempts := 0; attempts < len(pairs); attempts++ {
		for i := 1; i < len(pairs); i++ {
			if reps[i] != nil {
				continue
			}
			parent := findReplica(reps, pairs, pairs[i].Parent)
			if parent == nil {
				continue
			}
			d := cfg.NewDriver(pairs[i].Device)
			reps[i] = replica.New(cfg.Runtime, k, pairs[i].Device, cfg.DType, d, parent)
		}
	}
	assertAllBuilt(reps, pairs)
	root := reps[0]

	defer func() {
		for _, r := range reps {
			r.Close()
		}
	}()

	log.Infof("[%s] starting %s", id, plural(len(reps)-1))
	errCh := make(chan error, len(reps)-1)
	for i := 1; i < len(reps); i++ {
		go func(r *replica.Replica) {
			errCh <- r.RunWorker()
		}(reps[i])
	}

	log.Infof("[%s] running root on %s", id, root.Device)
	err := rootDriver.Solve()

	log.Infof("[%s] joining %s", id, plural(len(reps)-1))
	var errs []error
	for i := 1; i < len(reps); i++ {
		if werr := <-errCh; werr != nil {
			errs = append(errs, werr)
		}
	}
	if werr := utils.MergeErrors(errs, "workers"); werr != nil {
		log.Errorf("[%s] %v", id, werr)
		if err == nil {
			err = werr
		}
	}
	return err
}

func plural(n int) string {
	if n == 1 {
		return "1 worker"
	}
	return fmt.Sprintf("%d workers", n)
}

// findReplica finds the already-built replica whose Device equals
// parentDevice, or nil if there is none yet. It mirrors Prepare's linear scan
// over (this, syncs...) for the pair whose device_id matches the wanted
// parent, needed because pairs can name a parent that hasn't been built
// yet within the same sweep.
func findReplica(reps []*replica.Replica, pairs []plan.DevicePair, parentDevice accel.DeviceID) *replica.Replica {
	for i, p := range pairs {
		if p.Device == parentDevice && reps[i] != nil {
			return reps[i]
		}
	}
	return nil
}

func assertAllBuilt(reps []*replica.Replica, pairs []plan.DevicePair) {
	for i := 1; i < len(pairs); i++ {
		if reps[i] == nil {
			log.Exitf("coordinator: failed to build replica for pair %s", pairs[i])
		}
	}
}
