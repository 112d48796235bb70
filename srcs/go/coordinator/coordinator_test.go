package coordinator

import (
	"testing"

	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/replica/fakedriver"
	"github.com/lsds/p2pcoord/srcs/go/tensor"
)

func newFactory(t *testing.T, maxIter int) DriverFactory {
	return func(dev accel.DeviceID) tensor.Driver {
		p := fakedriver.NewParam(8, tensor.F32, 1.0)
		cfg := &tensor.Config{DeviceID: int(dev), MaxIter: maxIter, RandomSeed: -1}
		return fakedriver.New([]*fakedriver.Param{p}, tensor.F32, cfg, 3.0)
	}
}

func devs(n int) []accel.DeviceID {
	var ds []accel.DeviceID
	for i := 0; i < n; i++ {
		ds = append(ds, accel.DeviceID(i))
	}
	return ds
}

func Test_Run_SingleDevice(t *testing.T) {
	rt := accel.NewSim(nil, nil)
	err := Run(devs(1), Config{Runtime: rt, DType: tensor.F32, NewDriver: newFactory(t, 1)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func Test_Run_FourDevices(t *testing.T) {
	rt := accel.NewSim(nil, nil)
	err := Run(devs(4), Config{Runtime: rt, DType: tensor.F32, NewDriver: newFactory(t, 2)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func Test_Run_EightDevicesWithP2PAndBoards(t *testing.T) {
	peers := [][2]accel.DeviceID{
		{0, 1}, {1, 0}, {2, 3}, {3, 2}, {4, 5}, {5, 4}, {6, 7}, {7, 6},
		{0, 4}, {4, 0},
	}
	boards := map[accel.DeviceID]int{0: 1, 1: 1, 2: 2, 3: 2}
	rt := accel.NewSim(peers, boards)
	err := Run(devs(8), Config{Runtime: rt, DType: tensor.F32, NewDriver: newFactory(t, 2)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func Test_Run_RejectsEmptyDeviceList(t *testing.T) {
	rt := accel.NewSim(nil, nil)
	err := Run(nil, Config{Runtime: rt, DType: tensor.F32, NewDriver: newFactory(t, 1)})
	if err == nil {
		t.Fatalf("expected error for empty device list")
	}
}

func Test_Run_RejectsDuplicateDevice(t *testing.T) {
	rt := accel.NewSim(nil, nil)
	err := Run([]accel.DeviceID{0, 1, 0}, Config{Runtime: rt, DType: tensor.F32, NewDriver: newFactory(t, 1)})
	if err == nil {
		t.Fatalf("expected error for duplicate device")
	}
}

func Test_Run_RejectsMissingRuntime(t *testing.T) {
	err := Run(devs(2), Config{DType: tensor.F32, NewDriver: newFactory(t, 1)})
	if err == nil {
		t.Fatalf("expected error for missing runtime")
	}
}
