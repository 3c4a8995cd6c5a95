// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !js && !wasip1 && !wasm

package afu

// platformExcluded is false on general-purpose runtime targets; the
// capability probe decides whether raw offset access can be trusted.
const platformExcluded = false
