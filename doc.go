// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package afu provides atomic field updaters with a validated fast path.
//
// An [Updater] is bound to one (struct type, field name) pair and performs
// lock-free compare-and-swap, set, ordered set, load, and swap on that
// field across any number of instances. Two mechanisms back the same
// interface:
//
//   - Accelerated: the field's raw memory offset is cached at construction
//     and every operation is a single pointer-arithmetic step plus an
//     atomic intrinsic.
//   - Portable: the field is re-resolved through the reflect API on every
//     call. Slower, but correct on any runtime.
//
// The accelerated mechanism is used only after a one-time, process-wide
// capability probe has validated that raw offset access can be trusted on
// the current runtime. The probe result is computed once and never
// recomputed; there is no reset API by design.
//
// # Quick Start
//
// The bound field must be declared on the target type itself, exported,
// and of type unsafe.Pointer (the strict cross-goroutine visibility
// contract every operation relies on):
//
//	type Node struct {
//	    Next unsafe.Pointer // *Node
//	}
//
//	next, err := afu.New[Node]("Next")
//	if err != nil {
//	    // the request itself was invalid; see Error Handling
//	}
//
//	n, succ := &Node{}, &Node{}
//	next.Set(n, unsafe.Pointer(succ))
//	next.CompareAndSwap(n, unsafe.Pointer(succ), nil)
//
// Callers typically create one updater per (type, field) pair and cache it
// for the process lifetime. Construction is the only step with a cost
// beyond the atomic operation itself.
//
// # Mechanism Selection
//
// [New] checks the cached capability flag. When the fast path validated,
// it builds an accelerated updater; any failure during that construction
// is absorbed and the portable updater is returned instead. Acceleration
// is a best-effort optimization, never a hard requirement. [NewPortable]
// skips the fast path entirely.
//
// Both constructors fail, with the same error, when the request itself is
// invalid: the field is missing, unexported, promoted from an embedded
// struct, or not an unsafe.Pointer. There is no silent creation of an
// updater that would misbehave.
//
// # Capability Probe
//
// The probe runs at most once per process, on first demand:
//
//  1. Excluded platform classes (wasm targets) answer false immediately,
//     without probing.
//  2. Struct layout introspection is self-validated: the first field of a
//     probe struct must report offset zero, a later field a real non-zero
//     offset, and a store through the computed offset must be observable
//     through a plain field read.
//  3. The toolchain must be inside the range verified for raw offset
//     access (see AFU_ASSUME_SAFE_RUNTIME below for the escape hatch).
//  4. A directly-addressed buffer outside the Go heap is allocated, must
//     report a real address, and a raw bulk copy through it must
//     round-trip byte-exactly.
//
// Every failure, including panics, is downgraded to "unavailable": the
// package then serves portable updaters for the remainder of the process.
// The probe never fails process startup.
//
// # Error Handling
//
// Construction errors carry one of the package sentinels:
//
//	afu.ErrFieldNotFound  // no such declared field on the target type
//	afu.ErrNotAtomic      // field exists but is not an unsafe.Pointer
//	afu.ErrInaccessible   // field is unexported or promoted
//	afu.ErrUnavailable    // returned by FastAccessor only
//
// Operations on a constructed updater cannot fail; they are total over any
// live target instance.
//
// # Configuration
//
// A handful of process-wide flags are resolved once on first use from an
// optional YAML file (AFU_CONFIG) and environment variables, in that
// order, and never polled. See [Flags]. AFU_PORTABLE=1 forces the portable
// mechanism; AFU_TRACE_PROBE=1 logs each probe step.
//
// # Logging
//
// Diagnostics go through the [code.hybscloud.com/afu/alog] facade: probe
// failures and fallback decisions at debug level, nothing on the hot path.
// The facade defaults to the host application's log/slog logger and can be
// switched or silenced; it is never part of correctness.
//
// # Thread Safety
//
// The capability flag is published with release semantics after a single
// computation; concurrent first readers spin until it is available and
// never observe a torn value. Updaters are immutable after construction
// and safe for concurrent use by unlimited goroutines against unlimited
// target instances.
//
// Set, Get, CompareAndSwap, and Swap are sequentially consistent with
// respect to the bound field. LazySet guarantees at least release
// ordering: a concurrent Get may observe the previous value for a short,
// bounded time. Once an accelerated updater is bound to a field, all
// writes to that field must go through updater operations; a plain
// assignment would race non-atomically with the offset-based writes.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the once-only
// capability publication, [code.hybscloud.com/spin] for waiting on it,
// golang.org/x/sys for the direct probe buffer, golang.org/x/mod/semver
// for the toolchain gate, and gopkg.in/yaml.v3 for the optional config
// file.
package afu
