// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu_test

import (
	"errors"
	"sync"
	"testing"
	"unsafe"

	"code.hybscloud.com/afu"
)

// =============================================================================
// Capability probe
// =============================================================================

func TestHasFastPathStable(t *testing.T) {
	first := afu.HasFastPath()
	for range 100 {
		if afu.HasFastPath() != first {
			t.Fatal("HasFastPath changed its answer")
		}
	}
}

func TestHasFastPathConcurrent(t *testing.T) {
	const workers = 32
	results := make([]bool, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = afu.HasFastPath()
		}()
	}
	wg.Wait()
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent callers observed differing answers")
		}
	}
}

func TestFastAccessorMatchesProbe(t *testing.T) {
	acc, err := afu.FastAccessor()
	if afu.HasFastPath() {
		if err != nil {
			t.Fatalf("FastAccessor: %v with fast path available", err)
		}
		if acc == nil {
			t.Fatal("FastAccessor: nil accessor with fast path available")
		}
		return
	}
	if !errors.Is(err, afu.ErrUnavailable) {
		t.Fatalf("FastAccessor: got %v, want ErrUnavailable", err)
	}
	if !afu.IsUnavailable(err) {
		t.Fatalf("IsUnavailable(%v) = false", err)
	}
	if acc != nil {
		t.Fatal("FastAccessor: non-nil accessor without fast path")
	}
}

// =============================================================================
// Raw accessor operations
// =============================================================================

func TestAccessorFieldOperations(t *testing.T) {
	acc, err := afu.FastAccessor()
	if err != nil {
		t.Skipf("fast path unavailable: %v", err)
	}

	obj := &node{}
	base := unsafe.Pointer(obj)
	off := unsafe.Offsetof(obj.Value)

	if got := acc.Load(base, off); got != nil {
		t.Fatalf("Load on zero value: %p", got)
	}

	a, b := new(int), new(int)
	acc.Store(base, off, unsafe.Pointer(a))
	if obj.Value != unsafe.Pointer(a) {
		t.Fatal("Store not visible through the field")
	}
	if got := acc.Load(base, off); got != unsafe.Pointer(a) {
		t.Fatalf("Load: got %p, want %p", got, a)
	}

	if !acc.CompareAndSwap(base, off, unsafe.Pointer(a), unsafe.Pointer(b)) {
		t.Fatal("CompareAndSwap with matching expected value failed")
	}
	if acc.CompareAndSwap(base, off, unsafe.Pointer(a), unsafe.Pointer(b)) {
		t.Fatal("CompareAndSwap with stale expected value succeeded")
	}

	if prev := acc.Swap(base, off, nil); prev != unsafe.Pointer(b) {
		t.Fatalf("Swap: previous %p, want %p", prev, b)
	}
	if obj.Value != nil {
		t.Fatal("Swap did not install the new value")
	}
}
