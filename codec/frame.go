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

// Package codec implements the iterative msgpack encoder and decoder:
// neither ever recurses into Go's call stack to walk a nested
// array/map. Each keeps its own explicit, heap-allocated stack of
// in-progress containers (decodeFrame, encodeFrame below), so a
// pathologically deep adversarial input is rejected by Limits.MaxDepth
// rather than by the process running out of stack space.
package codec

import "github.com/GiterLab/go-msgpack/msgpackcore"

// decodeFrame is one container currently being assembled by Decode: an
// array collecting elements into arr, or a map collecting pairs into m
// one key then one value at a time.
type decodeFrame struct {
	kind   msgpackcore.Kind
	length int
	index  int

	arr []msgpackcore.Payload

	m          *msgpackcore.PayloadMap
	pendingKey *msgpackcore.Payload
}

// mapEntryView is a snapshot of one map pair taken when Encode starts
// walking a KindMap Payload, so the iteration order is fixed even though
// nothing else about the map is mutated mid-walk.
type mapEntryView struct {
	key   msgpackcore.Payload
	value msgpackcore.Payload
}

// encodeFrame is one container currently being walked by Encode.
type encodeFrame struct {
	kind msgpackcore.Kind

	arr   msgpackcore.Payload // valid when kind == KindArr
	index int

	entries      []mapEntryView // valid when kind == KindMap
	writingValue bool
}
