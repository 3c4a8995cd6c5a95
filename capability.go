// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Capability flag states. The flag is computed at most once per process;
// there is no reset or re-probe API by design.
const (
	capUnset int32 = iota
	capProbing
	capReady
)

var (
	capState atomix.Int32
	capFast  atomix.Bool
)

// HasFastPath reports whether the accelerated offset-based mechanism
// passed self-validation on this runtime. The first caller runs the
// probe; concurrent first callers spin until the result is published.
// The answer is stable for the process lifetime.
func HasFastPath() bool {
	sw := spin.Wait{}
	for {
		switch capState.LoadAcquire() {
		case capReady:
			return capFast.LoadRelaxed()
		case capUnset:
			if capState.CompareAndSwapAcqRel(capUnset, capProbing) {
				// capFast is written before the capReady release store,
				// so readers that acquire capReady see the final value.
				capFast.StoreRelaxed(runProbe(defaultProbeEnv()))
				capState.StoreRelease(capReady)
				return capFast.LoadRelaxed()
			}
		default:
			sw.Once()
		}
	}
}

// Accessor is the validated handle to the accelerated primitive: raw
// offset-based atomic access to pointer slots. Field offsets stay inside
// updaters; the Accessor only combines a base pointer it is handed with
// an offset it is handed.
//
// All methods are total and safe for unlimited concurrent use.
type Accessor struct {
	_ [0]func() // not comparable; one process-wide instance
}

var fastAccessor Accessor

// FastAccessor returns the validated primitive handle, or ErrUnavailable
// when the capability probe failed. Most callers want [New] instead,
// which falls back on its own.
func FastAccessor() (*Accessor, error) {
	if !HasFastPath() {
		return nil, fmt.Errorf("fast path did not validate on this runtime: %w", ErrUnavailable)
	}
	return &fastAccessor, nil
}

// Load atomically loads the pointer slot at base+off.
func (a *Accessor) Load(base unsafe.Pointer, off uintptr) unsafe.Pointer {
	return atomic.LoadPointer((*unsafe.Pointer)(unsafe.Add(base, off)))
}

// Store atomically stores v into the pointer slot at base+off.
func (a *Accessor) Store(base unsafe.Pointer, off uintptr, v unsafe.Pointer) {
	atomic.StorePointer((*unsafe.Pointer)(unsafe.Add(base, off)), v)
}

// CompareAndSwap atomically replaces the pointer slot at base+off with
// new iff it holds old, reporting whether the swap happened.
func (a *Accessor) CompareAndSwap(base unsafe.Pointer, off uintptr, old, new unsafe.Pointer) bool {
	return atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Add(base, off)), old, new)
}

// Swap atomically stores v into the pointer slot at base+off and returns
// the previous value.
func (a *Accessor) Swap(base unsafe.Pointer, off uintptr, v unsafe.Pointer) unsafe.Pointer {
	return atomic.SwapPointer((*unsafe.Pointer)(unsafe.Add(base, off)), v)
}
