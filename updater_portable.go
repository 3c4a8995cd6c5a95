// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"reflect"
	"sync/atomic"
	"unsafe"
)

// portableUpdater is the universally correct mechanism: the field is
// re-resolved through the reflect API on every call, then mutated with
// the standard atomic pointer intrinsics on the addressable slot. Slower
// than the offset path, valid on any runtime.
type portableUpdater[T any] struct {
	index int
}

func newPortable[T any](f reflect.StructField) Updater[T] {
	return portableUpdater[T]{index: f.Index[0]}
}

// slot resolves the bound field of obj to its addressable pointer slot.
// fieldOf guaranteed the field is exported and of type unsafe.Pointer, so
// the Interface assertion cannot fail on a live obj.
func (u portableUpdater[T]) slot(obj *T) *unsafe.Pointer {
	return reflect.ValueOf(obj).Elem().Field(u.index).Addr().Interface().(*unsafe.Pointer)
}

func (u portableUpdater[T]) CompareAndSwap(obj *T, old, new unsafe.Pointer) bool {
	return atomic.CompareAndSwapPointer(u.slot(obj), old, new)
}

func (u portableUpdater[T]) WeakCompareAndSwap(obj *T, old, new unsafe.Pointer) bool {
	return atomic.CompareAndSwapPointer(u.slot(obj), old, new)
}

func (u portableUpdater[T]) Set(obj *T, v unsafe.Pointer) {
	atomic.StorePointer(u.slot(obj), v)
}

// LazySet promises release ordering or stronger; the seq-cst store is a
// conservative superset of the required order.
func (u portableUpdater[T]) LazySet(obj *T, v unsafe.Pointer) {
	atomic.StorePointer(u.slot(obj), v)
}

func (u portableUpdater[T]) Get(obj *T) unsafe.Pointer {
	return atomic.LoadPointer(u.slot(obj))
}

func (u portableUpdater[T]) Swap(obj *T, v unsafe.Pointer) unsafe.Pointer {
	return atomic.SwapPointer(u.slot(obj), v)
}
