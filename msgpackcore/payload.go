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
	"fmt"
	"math"
)

// Payload is the codec's single in-memory value: a tagged union of every
// MessagePack value kind (§3.1). The zero value is a nil Payload.
type Payload struct {
	kind Kind

	b bool
	i int64
	u uint64
	f float64

	bytes   []byte
	extType int8

	arr []Payload
	m   *PayloadMap

	tsSec  int64
	tsNsec uint32
}

// Kind reports which variant this Payload carries.
func (p Payload) Kind() Kind { return p.kind }

func NilPayload() Payload { return Payload{kind: KindNil} }

func BoolPayload(v bool) Payload { return Payload{kind: KindBool, b: v} }

func IntPayload(v int64) Payload { return Payload{kind: KindInt, i: v} }

func UintPayload(v uint64) Payload { return Payload{kind: KindUint, u: v} }

func FloatPayload(v float64) Payload { return Payload{kind: KindFloat, f: v} }

// StrPayload takes ownership of b; the codec never validates UTF-8 (§3.1).
func StrPayload(b []byte) Payload { return Payload{kind: KindStr, bytes: b} }

// BinPayload takes ownership of b.
func BinPayload(b []byte) Payload { return Payload{kind: KindBin, bytes: b} }

// ArrPayload takes ownership of items, copying the slice header only.
func ArrPayload(items ...Payload) Payload {
	return Payload{kind: KindArr, arr: items}
}

// MapPayload returns an empty, ready-to-use map Payload.
func MapPayload() Payload {
	return Payload{kind: KindMap, m: NewPayloadMap()}
}

// MapPayloadFromMap wraps an already-built PayloadMap as a map Payload.
// The decoder uses this to attach a map it has been filling entry by
// entry across several iterations of its work-stack loop.
func MapPayloadFromMap(m *PayloadMap) Payload {
	return Payload{kind: KindMap, m: m}
}

// ExtPayload takes ownership of b. Type id -1 is reserved for Timestamp
// and is rejected here (§3.1 invariant).
func ExtPayload(typeID int8, b []byte) (Payload, error) {
	if typeID == TimeExtType {
		return Payload{}, ErrInvalidType
	}
	return Payload{kind: KindExt, extType: typeID, bytes: b}, nil
}

// TimestampPayload validates nsec <= MaxNanoseconds (§3.1 invariant).
func TimestampPayload(sec int64, nsec uint32) (Payload, error) {
	if nsec > MaxNanoseconds {
		return Payload{}, ErrInvalidType
	}
	return Payload{kind: KindTimestamp, tsSec: sec, tsNsec: nsec}, nil
}

// --- strict accessors: fail on any variant mismatch ---

func (p Payload) AsBool() (bool, error) {
	if p.kind != KindBool {
		return false, ErrInvalidType
	}
	return p.b, nil
}

func (p Payload) AsInt() (int64, error) {
	if p.kind != KindInt {
		return 0, ErrInvalidType
	}
	return p.i, nil
}

func (p Payload) AsUint() (uint64, error) {
	if p.kind != KindUint {
		return 0, ErrInvalidType
	}
	return p.u, nil
}

func (p Payload) AsFloat() (float64, error) {
	if p.kind != KindFloat {
		return 0, ErrInvalidType
	}
	return p.f, nil
}

func (p Payload) AsStr() ([]byte, error) {
	if p.kind != KindStr {
		return nil, ErrInvalidType
	}
	return p.bytes, nil
}

func (p Payload) AsBin() ([]byte, error) {
	if p.kind != KindBin {
		return nil, ErrInvalidType
	}
	return p.bytes, nil
}

func (p Payload) AsExt() (int8, []byte, error) {
	if p.kind != KindExt {
		return 0, nil, ErrInvalidType
	}
	return p.extType, p.bytes, nil
}

func (p Payload) AsTimestamp() (sec int64, nsec uint32, err error) {
	if p.kind != KindTimestamp {
		return 0, 0, ErrInvalidType
	}
	return p.tsSec, p.tsNsec, nil
}

// --- lenient accessors: cross convert int/uint when the value fits ---

func (p Payload) GetInt() (int64, error) {
	switch p.kind {
	case KindInt:
		return p.i, nil
	case KindUint:
		if p.u > uint64(math.MaxInt64) {
			return 0, ErrInvalidType
		}
		return int64(p.u), nil
	default:
		return 0, ErrInvalidType
	}
}

func (p Payload) GetUint() (uint64, error) {
	switch p.kind {
	case KindUint:
		return p.u, nil
	case KindInt:
		if p.i < 0 {
			return 0, ErrInvalidType
		}
		return uint64(p.i), nil
	default:
		return 0, ErrInvalidType
	}
}

// --- array container operations ---

// ArrLen returns the number of elements, or 0 for a non-array Payload.
func (p Payload) ArrLen() int {
	if p.kind != KindArr {
		return 0
	}
	return len(p.arr)
}

// ArrAt returns the element at i. It panics if p is not an array or i is
// out of range — the same bounds-checked-but-panicking contract Go slice
// indexing already gives a caller who owns the value.
func (p Payload) ArrAt(i int) Payload {
	if p.kind != KindArr {
		panic("msgpack: ArrAt on non-array Payload")
	}
	return p.arr[i]
}

// ArrSetAt replaces the element at i. It panics under the same conditions
// as ArrAt.
func (p *Payload) ArrSetAt(i int, v Payload) {
	if p.kind != KindArr {
		panic("msgpack: ArrSetAt on non-array Payload")
	}
	p.arr[i] = v
}

// --- map container operations ---

// Map returns the backing PayloadMap, or nil if p is not a map.
func (p Payload) Map() *PayloadMap {
	if p.kind != KindMap {
		return nil
	}
	return p.m
}

// MapLen returns the number of entries, or 0 for a non-map Payload.
func (p Payload) MapLen() int {
	if p.m == nil {
		return 0
	}
	return p.m.Len()
}

// PutStr is sugar for Put(StrPayload([]byte(key)), v) (§3.1: "map
// (string-key compatibility surface)").
func (p Payload) PutStr(key string, v Payload) error {
	if p.kind != KindMap {
		return ErrInvalidType
	}
	return p.m.Put(StrPayload([]byte(key)), v)
}

// GetStr is sugar for Get(StrPayload([]byte(key))).
func (p Payload) GetStr(key string) (Payload, bool) {
	if p.kind != KindMap {
		return Payload{}, false
	}
	return p.m.Get(StrPayload([]byte(key)))
}

// Put inserts or replaces the value for an arbitrary Payload key.
func (p Payload) Put(key, v Payload) error {
	if p.kind != KindMap {
		return ErrInvalidType
	}
	return p.m.Put(key, v)
}

// Get looks up an arbitrary Payload key.
func (p Payload) Get(key Payload) (Payload, bool) {
	if p.kind != KindMap {
		return Payload{}, false
	}
	return p.m.Get(key)
}

// Free walks the Payload tree with an explicit work-stack (never
// recurses, §4.2) releasing every owned byte slice through alloc. It is
// idempotent: a Payload that has already been freed, or the zero value,
// leaves *p as NilPayload() and frees nothing more on a second call.
func (p *Payload) Free(alloc Allocator) {
	if alloc == nil {
		alloc = DefaultAllocator{}
	}
	stack := []Payload{*p}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]

		switch cur.kind {
		case KindStr, KindBin, KindExt:
			alloc.Free(cur.bytes)
		case KindArr:
			stack = append(stack, cur.arr...)
		case KindMap:
			if cur.m != nil {
				for _, e := range cur.m.entries {
					stack = append(stack, e.key, e.value)
				}
			}
		}
	}
	*p = Payload{}
}

func (p Payload) String() string {
	switch p.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("bool(%v)", p.b)
	case KindInt:
		return fmt.Sprintf("int(%d)", p.i)
	case KindUint:
		return fmt.Sprintf("uint(%d)", p.u)
	case KindFloat:
		return fmt.Sprintf("float(%v)", p.f)
	case KindStr:
		return fmt.Sprintf("str(%q)", p.bytes)
	case KindBin:
		return fmt.Sprintf("bin(% 02x)", p.bytes)
	case KindArr:
		return fmt.Sprintf("arr(len=%d)", len(p.arr))
	case KindMap:
		return fmt.Sprintf("map(len=%d)", p.MapLen())
	case KindExt:
		return fmt.Sprintf("ext(type=%d, len=%d)", p.extType, len(p.bytes))
	case KindTimestamp:
		return fmt.Sprintf("timestamp(sec=%d, nsec=%d)", p.tsSec, p.tsNsec)
	default:
		return "invalid"
	}
}
