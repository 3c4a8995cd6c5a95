// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import (
	"fmt"
	"reflect"
	"unsafe"

	"code.hybscloud.com/afu/alog"
)

// Updater performs atomic operations on one pointer field of target
// struct type T. An Updater is immutable after construction and safe for
// concurrent use by unlimited goroutines against unlimited instances.
//
// Operations never fail; they are total over any live *T. Once an updater
// is bound to a field, all writes to that field must go through updater
// operations, or they race non-atomically with the offset-based writes.
type Updater[T any] interface {
	// CompareAndSwap atomically sets the bound field of obj to new iff
	// its current value is old, reporting whether the swap happened.
	// Linearizable with all other operations on the same field of obj.
	CompareAndSwap(obj *T, old, new unsafe.Pointer) bool

	// WeakCompareAndSwap has the same semantics and strength as
	// CompareAndSwap; it exists for interface symmetry and exploits no
	// weaker ordering.
	WeakCompareAndSwap(obj *T, old, new unsafe.Pointer) bool

	// Set stores v with sequentially consistent ordering: the write is
	// immediately visible to Get on any goroutine.
	Set(obj *T, v unsafe.Pointer)

	// LazySet stores v with at least release ordering. A concurrent Get
	// may observe the previous value for a short, bounded time. Use only
	// when prompt cross-goroutine visibility is not required.
	LazySet(obj *T, v unsafe.Pointer)

	// Get loads the current value with sequentially consistent ordering.
	Get(obj *T) unsafe.Pointer

	// Swap stores v and returns the value the field held immediately
	// before, as a single atomic step.
	Swap(obj *T, v unsafe.Pointer) unsafe.Pointer
}

// New returns an updater bound to the named field of T.
//
// The field must be declared on T itself (not promoted), exported, and of
// type unsafe.Pointer; violations surface as ErrFieldNotFound,
// ErrInaccessible, or ErrNotAtomic. Preconditions are checked before
// either mechanism is built, so both mechanisms fail identically on an
// invalid request.
//
// When the capability probe validated the fast path, the returned updater
// uses a cached raw field offset; any failure while building it is
// absorbed and the portable updater is returned instead. Acceleration is
// best-effort, never a hard requirement.
func New[T any](fieldName string) (Updater[T], error) {
	f, err := fieldOf[T](fieldName)
	if err != nil {
		return nil, err
	}
	if HasFastPath() {
		u, err := newFast[T](f)
		if err == nil {
			return u, nil
		}
		alog.L().Debug("afu: accelerated updater construction failed, using portable",
			"type", reflect.TypeFor[T]().String(), "field", fieldName, "err", err)
	}
	return newPortable[T](f), nil
}

// NewPortable returns an updater bound to the named field of T that uses
// the portable reflective mechanism regardless of the capability flag.
// Field preconditions are identical to [New].
func NewPortable[T any](fieldName string) (Updater[T], error) {
	f, err := fieldOf[T](fieldName)
	if err != nil {
		return nil, err
	}
	return newPortable[T](f), nil
}

var pointerType = reflect.TypeOf(unsafe.Pointer(nil))

// fieldOf resolves and validates the named field of T. Every precondition
// failure surfaces here, before any mechanism is constructed.
func fieldOf[T any](name string) (reflect.StructField, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, fmt.Errorf("%s is not a struct type: %w", t, ErrFieldNotFound)
	}
	f, ok := t.FieldByName(name)
	if !ok {
		return reflect.StructField{}, fmt.Errorf("%s has no field %q: %w", t, name, ErrFieldNotFound)
	}
	if len(f.Index) != 1 {
		// Promoted from an embedded struct: not declared on T itself.
		return reflect.StructField{}, fmt.Errorf("%s.%s is promoted, not declared: %w", t, name, ErrInaccessible)
	}
	if f.PkgPath != "" {
		return reflect.StructField{}, fmt.Errorf("%s.%s is unexported: %w", t, name, ErrInaccessible)
	}
	if f.Type != pointerType {
		return reflect.StructField{}, fmt.Errorf("%s.%s has type %s, need unsafe.Pointer: %w", t, name, f.Type, ErrNotAtomic)
	}
	return f, nil
}
