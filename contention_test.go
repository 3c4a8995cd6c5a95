// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu_test

import (
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"

	"code.hybscloud.com/afu"
)

// =============================================================================
// Contention
// =============================================================================

// TestCompareAndSwapSingleWinner races N goroutines swapping distinct new
// values from the same expected value. Exactly one must win each round,
// and the field must end up holding the winner's value.
func TestCompareAndSwapSingleWinner(t *testing.T) {
	rounds := 500
	if afu.RaceEnabled {
		rounds = 50
	}
	workers := max(runtime.NumCPU(), 4)

	for name, u := range updaters(t) {
		t.Run(name, func(t *testing.T) {
			obj := &node{}
			for range rounds {
				base := new(int)
				u.Set(obj, unsafe.Pointer(base))

				tokens := make([]*int, workers)
				for i := range tokens {
					tokens[i] = new(int)
				}

				var wins atomix.Int32
				start := make(chan struct{})
				var wg sync.WaitGroup
				for w := range workers {
					wg.Add(1)
					go func() {
						defer wg.Done()
						<-start
						if u.CompareAndSwap(obj, unsafe.Pointer(base), unsafe.Pointer(tokens[w])) {
							wins.Add(1)
						}
					}()
				}
				close(start)
				wg.Wait()

				if got := wins.Load(); got != 1 {
					t.Fatalf("round: %d winners, want exactly 1", got)
				}
				final := u.Get(obj)
				if final == unsafe.Pointer(base) {
					t.Fatal("round: field still holds the expected value after a successful swap")
				}
				found := false
				for _, tok := range tokens {
					if final == unsafe.Pointer(tok) {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("round: field holds %p, not one of the racers' values", final)
				}
			}
		})
	}
}

// TestHandoffUnderContention drives a publish/consume handoff through one
// updater: the producer swaps values in, the consumer claims each value
// by swapping nil back, and every published value must be claimed exactly
// once.
func TestHandoffUnderContention(t *testing.T) {
	count := 100000
	if afu.RaceEnabled {
		count = 5000
	}

	for name, u := range updaters(t) {
		t.Run(name, func(t *testing.T) {
			obj := &node{}
			var claimed atomix.Int64

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				backoff := iox.Backoff{}
				for i := 0; i < count; {
					v := new(int)
					*v = i
					if u.CompareAndSwap(obj, nil, unsafe.Pointer(v)) {
						backoff.Reset()
						i++
						continue
					}
					backoff.Wait()
				}
			}()
			go func() {
				defer wg.Done()
				backoff := iox.Backoff{}
				for claimed.Load() < int64(count) {
					v := u.Swap(obj, nil)
					if v == nil {
						backoff.Wait()
						continue
					}
					backoff.Reset()
					claimed.Add(1)
				}
			}()
			wg.Wait()

			if got := claimed.Load(); got != int64(count) {
				t.Fatalf("claimed %d values, want %d", got, count)
			}
			if got := u.Get(obj); got != nil {
				t.Fatalf("field not drained: %p", got)
			}
		})
	}
}

// TestConcurrentDistinctInstances verifies one updater serves many
// instances at once without cross-talk.
func TestConcurrentDistinctInstances(t *testing.T) {
	u, err := afu.New[node]("Value")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const instances = 64
	objs := make([]*node, instances)
	vals := make([]*int, instances)
	for i := range objs {
		objs[i] = &node{}
		vals[i] = new(int)
	}

	var wg sync.WaitGroup
	for i := range instances {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Set(objs[i], unsafe.Pointer(vals[i]))
		}()
	}
	wg.Wait()

	for i := range instances {
		if got := u.Get(objs[i]); got != unsafe.Pointer(vals[i]) {
			t.Fatalf("instance %d: got %p, want %p", i, got, vals[i])
		}
	}
}
