// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mem

import (
	"errors"
	"unsafe"
)

// ErrUnsupported indicates direct regions cannot be allocated on this
// platform. Callers treat it as "no fast path", not as a failure.
var ErrUnsupported = errors.New("mem: direct regions unsupported on this platform")

// Region is a directly-addressed memory region outside the Go heap.
// The zero Region is unmapped and reports address zero.
//
// A Region is not safe for concurrent Free; the probe uses one from a
// single goroutine.
type Region struct {
	mapping []byte // full mapped pages; nil once freed
	n       int    // requested length, n <= len(mapping)
}

// Addr returns the base address of the region, or zero when unmapped.
func (r *Region) Addr() uintptr {
	if len(r.mapping) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(r.mapping)))
}

// Base returns the base of the region as an unsafe.Pointer, or nil when
// unmapped. The pointed-to memory is not managed by the Go heap; raw
// reads and writes through it are valid for the life of the region.
func (r *Region) Base() unsafe.Pointer {
	if len(r.mapping) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(r.mapping))
}

// Bytes returns the requested-length view of the region, or nil when
// unmapped.
func (r *Region) Bytes() []byte {
	if r.mapping == nil {
		return nil
	}
	return r.mapping[:r.n]
}

// Len returns the requested length, or zero when unmapped.
func (r *Region) Len() int {
	if r.mapping == nil {
		return 0
	}
	return r.n
}
