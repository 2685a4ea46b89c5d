// Copyright 2024 tobyzxj
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msgpackcore

import (
	"bytes"
	"math"
)

// StructurallyEqual implements §4.2's equality: same variant and equal
// content, componentwise for containers, bit-exact for floats. Per
// IEEE-754, a NaN float never equals itself, so StructurallyEqual(NaN,
// NaN) is false even though both floats carry the same bit pattern.
func StructurallyEqual(a, b Payload) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindUint:
		return a.u == b.u
	case KindFloat:
		if math.IsNaN(a.f) || math.IsNaN(b.f) {
			return false
		}
		return math.Float64bits(a.f) == math.Float64bits(b.f)
	case KindStr, KindBin:
		return bytes.Equal(a.bytes, b.bytes)
	case KindExt:
		return a.extType == b.extType && bytes.Equal(a.bytes, b.bytes)
	case KindTimestamp:
		return a.tsSec == b.tsSec && a.tsNsec == b.tsNsec
	case KindArr:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !StructurallyEqual(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.MapLen() != b.MapLen() {
			return false
		}
		equal := true
		a.m.Range(func(k, v Payload) bool {
			bv, ok := b.m.Get(k)
			if !ok || !StructurallyEqual(v, bv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	default:
		return false
	}
}

// isNaNKey reports whether p is a float Payload carrying NaN — such keys
// are rejected by PayloadMap.Put (§4.2).
func isNaNKey(p Payload) bool {
	return p.kind == KindFloat && math.IsNaN(p.f)
}
