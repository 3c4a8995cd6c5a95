// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package afu

import "errors"

// ErrUnavailable indicates the accelerated primitive is absent on this
// runtime or failed self-validation.
//
// Updater construction never surfaces it: [New] absorbs the condition by
// falling back to the portable mechanism. Only [FastAccessor] returns it,
// for callers that require the accelerated path or nothing.
var ErrUnavailable = errors.New("afu: accelerated access unavailable")

// ErrFieldNotFound indicates the named field is not declared on the target
// type. Fatal for both mechanisms: there is no field to update.
var ErrFieldNotFound = errors.New("afu: field not found")

// ErrNotAtomic indicates the field exists but is not of type
// unsafe.Pointer, so no mechanism can provide the required visibility and
// atomicity guarantees. Fatal for both mechanisms.
var ErrNotAtomic = errors.New("afu: field is not atomically accessible")

// ErrInaccessible indicates the field is unexported or promoted from an
// embedded struct; the portable mechanism cannot address it through the
// reflect API, so neither mechanism is offered. Fatal for both.
var ErrInaccessible = errors.New("afu: field is not accessible")

// IsUnavailable reports whether err indicates the accelerated primitive
// cannot be used. Supports wrapped errors.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsConstructionError reports whether err is one of the construction-time
// sentinels surfaced by [New] and [NewPortable].
func IsConstructionError(err error) bool {
	return errors.Is(err, ErrFieldNotFound) ||
		errors.Is(err, ErrNotAtomic) ||
		errors.Is(err, ErrInaccessible)
}
