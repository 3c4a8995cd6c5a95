// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package mem

// Alloc is a stub for platforms without anonymous mappings.
// Returns ErrUnsupported so the probe reports no fast path.
func Alloc(n int) (*Region, error) {
	return nil, ErrUnsupported
}

// Free is a no-op on platforms without anonymous mappings; no Region is
// ever mapped here.
func (r *Region) Free() error {
	r.mapping = nil
	r.n = 0
	return nil
}
