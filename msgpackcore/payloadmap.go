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
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

type mapEntry struct {
	key   Payload
	value Payload
}

// PayloadMap is the generic-key map backing a KindMap Payload (§3.1,
// §4.2, design note (b)): a map[string]int fast path for str-kind keys,
// and an xxhash-bucketed fallback with linear-scan collision resolution
// for every other key kind. Entries keep insertion order so a single
// Encode call over the same built map is byte-stable (§4.5).
type PayloadMap struct {
	strIndex map[string]int
	buckets  map[uint64][]int
	entries  []mapEntry
}

func NewPayloadMap() *PayloadMap {
	return &PayloadMap{
		strIndex: make(map[string]int),
		buckets:  make(map[uint64][]int),
	}
}

// Put inserts or replaces the value for key. A NaN float key is rejected
// with ErrInvalidType before any mutation, since NaN never equals itself
// and could never be looked back up (§4.2).
func (m *PayloadMap) Put(key, value Payload) error {
	if isNaNKey(key) {
		return ErrInvalidType
	}

	if key.kind == KindStr {
		s := string(key.bytes)
		if idx, ok := m.strIndex[s]; ok {
			m.entries[idx].value = value
			return nil
		}
		idx := len(m.entries)
		m.entries = append(m.entries, mapEntry{key: key, value: value})
		m.strIndex[s] = idx
		return nil
	}

	h := hashKey(key)
	for _, idx := range m.buckets[h] {
		if StructurallyEqual(m.entries[idx].key, key) {
			m.entries[idx].value = value
			return nil
		}
	}
	idx := len(m.entries)
	m.entries = append(m.entries, mapEntry{key: key, value: value})
	m.buckets[h] = append(m.buckets[h], idx)
	return nil
}

// Get looks up an arbitrary Payload key.
func (m *PayloadMap) Get(key Payload) (Payload, bool) {
	if key.kind == KindStr {
		if idx, ok := m.strIndex[string(key.bytes)]; ok {
			return m.entries[idx].value, true
		}
		return Payload{}, false
	}

	h := hashKey(key)
	for _, idx := range m.buckets[h] {
		if StructurallyEqual(m.entries[idx].key, key) {
			return m.entries[idx].value, true
		}
	}
	return Payload{}, false
}

// Len returns the number of entries.
func (m *PayloadMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (m *PayloadMap) Range(fn func(key, value Payload) bool) {
	if m == nil {
		return
	}
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// hashKey derives a stable-within-process hash from a Payload's
// structural form (§4.2), so keys that are structurally equal always
// land in the same bucket.
func hashKey(p Payload) uint64 {
	var buf bytes.Buffer
	appendCanonical(&buf, p)
	return xxhash.Sum64(buf.Bytes())
}

func appendCanonical(buf *bytes.Buffer, p Payload) {
	buf.WriteByte(byte(p.kind))
	var tmp [8]byte
	switch p.kind {
	case KindNil:
	case KindBool:
		if p.b {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindInt:
		binary.BigEndian.PutUint64(tmp[:], uint64(p.i))
		buf.Write(tmp[:])
	case KindUint:
		binary.BigEndian.PutUint64(tmp[:], p.u)
		buf.Write(tmp[:])
	case KindFloat:
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(p.f))
		buf.Write(tmp[:])
	case KindStr, KindBin:
		buf.Write(p.bytes)
	case KindExt:
		buf.WriteByte(byte(p.extType))
		buf.Write(p.bytes)
	case KindTimestamp:
		binary.BigEndian.PutUint64(tmp[:], uint64(p.tsSec))
		buf.Write(tmp[:])
		var tmp4 [4]byte
		binary.BigEndian.PutUint32(tmp4[:], p.tsNsec)
		buf.Write(tmp4[:])
	case KindArr:
		// Key containers are caller-constructed, not adversarial decoder
		// output, so a bounded recursive descent here is acceptable (the
		// iterative, bounded-stack requirement applies to decode, §4.4).
		for _, item := range p.arr {
			appendCanonical(buf, item)
		}
	case KindMap:
		// StructurallyEqual compares maps key-by-key, independent of
		// insertion order (equal.go), so the canonical form must be too:
		// two maps built with the same entries in different orders have
		// to hash into the same bucket. Canonicalize each entry on its
		// own, then sort the entries by their own bytes before writing.
		entries := make([][]byte, 0, p.m.Len())
		p.m.Range(func(k, v Payload) bool {
			var eb bytes.Buffer
			appendCanonical(&eb, k)
			appendCanonical(&eb, v)
			entries = append(entries, eb.Bytes())
			return true
		})
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i], entries[j]) < 0
		})
		for _, e := range entries {
			buf.Write(e)
		}
	}
}
