package vips

// #include "vips.h"
import "C"
import (
	"runtime"
	"sync"
)

// Kernel names accepted by NewInterpolate
const (
	KernelBilinear = "bilinear"
	KernelBicubic  = "bicubic"
	KernelNohalo   = "nohalo"
)

// Interpolate contains a libvips interpolator handle and manages its lifecycle.
// The resampling strategy itself lives entirely inside libvips.
type Interpolate struct {
	interpolate *C.VipsInterpolate
	lock        sync.Mutex
}

// NewInterpolate creates an Interpolate from a named libvips
// interpolator such as bilinear, bicubic or nohalo
func NewInterpolate(name string) (*Interpolate, error) {
	startupIfNeeded()

	cName := C.CString(name)
	defer freeCString(cName)

	interpolate := C.vips_interpolate_new(cName)
	if interpolate == nil {
		return nil, handleVipsError()
	}
	ref := &Interpolate{interpolate: interpolate}
	runtime.SetFinalizer(ref, finalizeInterpolate)
	return ref, nil
}

func finalizeInterpolate(ref *Interpolate) {
	ref.Close()
}

// Close releases the interpolator handle. Calling Close() is optional;
// handles are released by GC otherwise.
func (i *Interpolate) Close() {
	i.lock.Lock()

	if i.interpolate != nil {
		C.g_object_unref(C.gpointer(i.interpolate))
		i.interpolate = nil
	}

	i.lock.Unlock()
}
