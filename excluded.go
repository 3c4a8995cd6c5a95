// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build js || wasip1 || wasm

package afu

// platformExcluded is true on constrained runtime classes where raw
// offset access is off-policy regardless of what probing would report:
// wasm targets are single-threaded, have no direct-map memory, and give
// no layout guarantees worth trusting.
const platformExcluded = true
