//go:build !linux

package jobdispatch

func PinToCPU(cpu int) error {
	return ErrPinUnsupported
}
