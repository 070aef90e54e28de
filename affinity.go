//go:build linux

package jobdispatch

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling OS thread to a single CPU. Callers should
// hold runtime.LockOSThread for the pin to stay with their goroutine.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return fmt.Errorf("worker: pin to cpu %d: %w", cpu, err)
	}
	return nil
}
