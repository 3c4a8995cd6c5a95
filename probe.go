// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync/atomic"
	"unsafe"

	"golang.org/x/mod/semver"

	"code.hybscloud.com/afu/alog"
	"code.hybscloud.com/afu/internal/mem"
)

// probeEnv parameterizes the capability probe so every failure mode can be
// exercised in tests. Production probing uses defaultProbeEnv.
type probeEnv struct {
	// disabled short-circuits to the portable mechanism (AFU_PORTABLE).
	disabled bool
	// excluded marks the constrained platform class: never probe further.
	excluded bool
	// assumeSafe skips the toolchain gate.
	assumeSafe bool
	// trace enables per-step logging.
	trace bool

	goVersion   string
	offsetOf    func(t reflect.Type, i int) uintptr
	allocDirect func(n int) (*mem.Region, error)
}

func defaultProbeEnv() probeEnv {
	cfg := Config()
	return probeEnv{
		disabled:    cfg.Portable,
		excluded:    platformExcluded || cfg.ExcludePlatform,
		assumeSafe:  cfg.AssumeSafeRuntime,
		trace:       cfg.TraceProbe,
		goVersion:   runtime.Version(),
		offsetOf:    func(t reflect.Type, i int) uintptr { return t.Field(i).Offset },
		allocDirect: mem.Alloc,
	}
}

// runProbe decides whether raw offset-based atomic access can be trusted
// on this runtime. It never panics and never propagates a failure: every
// error is downgraded to "unavailable". Called exactly once per process,
// from HasFastPath.
func runProbe(env probeEnv) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			alog.L().Debug("afu: capability probe panicked, using portable updaters", "err", r)
			ok = false
		}
	}()

	if env.disabled {
		alog.L().Debug("afu: fast path disabled by configuration")
		return false
	}
	if env.excluded {
		// Policy: the primitive is known absent or unreliable here,
		// independent of what introspection would report.
		alog.L().Debug("afu: excluded platform class, using portable updaters")
		return false
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"layout", func() error { return checkLayout(env.offsetOf) }},
		{"toolchain", func() error { return checkToolchain(env.goVersion, env.assumeSafe) }},
		{"direct-copy", func() error { return checkDirectCopy(env.allocDirect) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			alog.L().Debug("afu: capability probe failed, using portable updaters",
				"step", s.name, "err", err)
			return false
		}
		if env.trace {
			alog.L().Trace("afu: probe step passed", "step", s.name)
		}
	}

	alog.L().Debug("afu: fast path validated", "go", env.goVersion)
	return true
}

// probeSample mirrors the field shape updaters operate on: pointer slots
// inside a plain struct. The first field must report offset zero and the
// second a real non-zero offset; anything else means the layout
// introspection machinery cannot be trusted.
type probeSample struct {
	first  unsafe.Pointer
	second unsafe.Pointer
}

// checkLayout self-validates struct layout introspection and the atomic
// intrinsics the accelerated mechanism is built on.
func checkLayout(offsetOf func(reflect.Type, int) uintptr) error {
	t := reflect.TypeOf(probeSample{})

	if off := offsetOf(t, 0); off != 0 {
		return fmt.Errorf("first field reports offset %d, want 0", off)
	}
	off := offsetOf(t, 1)
	if off == 0 {
		return fmt.Errorf("second field reports offset 0, want non-zero")
	}
	if want := unsafe.Offsetof(probeSample{}.second); off != want {
		return fmt.Errorf("second field reports offset %d, layout says %d", off, want)
	}

	// Functional gate: a store through the computed offset must be
	// observable through a plain field read, and compare-and-swap must
	// succeed exactly when the expected value matches.
	s := new(probeSample)
	sentinel := unsafe.Pointer(s)
	slot := (*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(s), off))
	atomic.StorePointer(slot, sentinel)
	if s.second != sentinel {
		return fmt.Errorf("offset store not visible through field read")
	}
	if !atomic.CompareAndSwapPointer(slot, sentinel, nil) {
		return fmt.Errorf("compare-and-swap failed on matching value")
	}
	if atomic.CompareAndSwapPointer(slot, sentinel, nil) {
		return fmt.Errorf("compare-and-swap succeeded on stale value")
	}
	return nil
}

// Toolchain range verified for raw offset access: the Go collector has
// never moved heap objects, but an unverified future runtime must fail
// closed instead of corrupting memory. firstUnverifiedGo is exclusive.
const (
	minVerifiedGo     = "v1.22"
	firstUnverifiedGo = "v1.28"
)

// checkToolchain gates the fast path on the verified toolchain range.
// assumeSafe accepts any version; the caller has validated the runtime
// themselves.
func checkToolchain(version string, assumeSafe bool) error {
	if assumeSafe {
		return nil
	}
	v := toolchainSemver(version)
	if v == "" {
		return fmt.Errorf("unrecognized toolchain %q", version)
	}
	if semver.Compare(v, minVerifiedGo) < 0 {
		return fmt.Errorf("toolchain %q predates verified range (min %s)", version, minVerifiedGo)
	}
	if semver.Compare(v, firstUnverifiedGo) >= 0 {
		return fmt.Errorf("toolchain %q not yet verified (max %s)", version, firstUnverifiedGo)
	}
	return nil
}

// toolchainSemver converts runtime.Version output ("go1.25.3") to a
// canonical semver string, or "" for devel builds and non-gc toolchains.
func toolchainSemver(version string) string {
	v, found := strings.CutPrefix(version, "go")
	if !found {
		return ""
	}
	v = "v" + v
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// checkDirectCopy validates address reporting and the required raw bulk
// copy against a directly-addressed buffer outside the Go heap.
func checkDirectCopy(alloc func(int) (*mem.Region, error)) error {
	// An unmapped region must report address zero; if it does not, the
	// address accounting itself is untrustworthy.
	var unmapped mem.Region
	if unmapped.Addr() != 0 {
		return fmt.Errorf("unmapped region reports address %#x, want 0", unmapped.Addr())
	}

	r, err := alloc(1)
	if err != nil {
		return fmt.Errorf("direct buffer: %w", err)
	}
	defer r.Free()

	// A direct buffer must have a real address.
	if r.Addr() == 0 {
		return fmt.Errorf("direct buffer reports address 0")
	}

	// Raw copy in, safe view out; then safe copy in, raw view out.
	const pattern = byte(0xA5)
	*(*byte)(r.Base()) = pattern
	if got := r.Bytes()[0]; got != pattern {
		return fmt.Errorf("raw store reads back %#x through mapping, want %#x", got, pattern)
	}
	r.Bytes()[0] = ^pattern
	if got := *(*byte)(r.Base()); got != ^pattern {
		return fmt.Errorf("mapped store reads back %#x through raw pointer, want %#x", got, ^pattern)
	}
	return nil
}
