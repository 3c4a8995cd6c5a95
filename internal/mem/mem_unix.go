// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Alloc maps a directly-addressed region of at least n bytes as an
// anonymous private mapping. The mapping rounds up to whole pages; the
// Region views expose the requested length.
func Alloc(n int) (*Region, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mem: size must be positive, got %d", n)
	}
	page := unix.Getpagesize()
	size := (n + page - 1) / page * page
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mem: mmap: %w", err)
	}
	return &Region{mapping: buf, n: n}, nil
}

// Free unmaps the region. Freeing an unmapped region is a no-op.
// The region reports address zero afterwards.
func (r *Region) Free() error {
	if r.mapping == nil {
		return nil
	}
	m := r.mapping
	r.mapping = nil
	r.n = 0
	return unix.Munmap(m)
}
