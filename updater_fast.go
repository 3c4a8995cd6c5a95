// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"reflect"
	"unsafe"
)

// fastUpdater is the accelerated mechanism: the field's raw offset is
// cached at construction and every operation goes through the validated
// [Accessor]. The offset never escapes the updater.
type fastUpdater[T any] struct {
	acc *Accessor
	off uintptr
}

func newFast[T any](f reflect.StructField) (Updater[T], error) {
	acc, err := FastAccessor()
	if err != nil {
		return nil, err
	}
	return fastUpdater[T]{acc: acc, off: f.Offset}, nil
}

func (u fastUpdater[T]) CompareAndSwap(obj *T, old, new unsafe.Pointer) bool {
	return u.acc.CompareAndSwap(unsafe.Pointer(obj), u.off, old, new)
}

func (u fastUpdater[T]) WeakCompareAndSwap(obj *T, old, new unsafe.Pointer) bool {
	return u.acc.CompareAndSwap(unsafe.Pointer(obj), u.off, old, new)
}

func (u fastUpdater[T]) Set(obj *T, v unsafe.Pointer) {
	u.acc.Store(unsafe.Pointer(obj), u.off, v)
}

// LazySet promises release ordering or stronger; the seq-cst store is a
// conservative superset of the required order.
func (u fastUpdater[T]) LazySet(obj *T, v unsafe.Pointer) {
	u.acc.Store(unsafe.Pointer(obj), u.off, v)
}

func (u fastUpdater[T]) Get(obj *T) unsafe.Pointer {
	return u.acc.Load(unsafe.Pointer(obj), u.off)
}

func (u fastUpdater[T]) Swap(obj *T, v unsafe.Pointer) unsafe.Pointer {
	return u.acc.Swap(unsafe.Pointer(obj), u.off, v)
}
