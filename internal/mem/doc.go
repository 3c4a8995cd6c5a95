// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mem provides directly-addressed memory regions outside the Go
// heap, used by the capability probe to validate raw address reporting
// and bulk copies.
//
// Allocation is platform-specific: anonymous private mappings on unix
// targets, unavailable elsewhere. A [Region] that was never mapped, or
// has been freed, reports address zero; a live region always reports a
// real address. The probe relies on both properties.
package mem
