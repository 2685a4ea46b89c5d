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

// Wire marker bytes (big-endian format, per the MessagePack spec).
const (
	MarkerPosFixIntMin byte = 0x00
	MarkerPosFixIntMax byte = 0x7f
	MarkerFixMapMin    byte = 0x80
	MarkerFixMapMax    byte = 0x8f
	MarkerFixArrayMin  byte = 0x90
	MarkerFixArrayMax  byte = 0x9f
	MarkerFixStrMin    byte = 0xa0
	MarkerFixStrMax    byte = 0xbf
	MarkerNil          byte = 0xc0
	MarkerReserved     byte = 0xc1
	MarkerFalse        byte = 0xc2
	MarkerTrue         byte = 0xc3
	MarkerBin8         byte = 0xc4
	MarkerBin16        byte = 0xc5
	MarkerBin32        byte = 0xc6
	MarkerExt8         byte = 0xc7
	MarkerExt16        byte = 0xc8
	MarkerExt32        byte = 0xc9
	MarkerFloat32      byte = 0xca
	MarkerFloat64      byte = 0xcb
	MarkerUint8        byte = 0xcc
	MarkerUint16       byte = 0xcd
	MarkerUint32       byte = 0xce
	MarkerUint64       byte = 0xcf
	MarkerInt8         byte = 0xd0
	MarkerInt16        byte = 0xd1
	MarkerInt32        byte = 0xd2
	MarkerInt64        byte = 0xd3
	MarkerFixExt1      byte = 0xd4
	MarkerFixExt2      byte = 0xd5
	MarkerFixExt4      byte = 0xd6
	MarkerFixExt8      byte = 0xd7
	MarkerFixExt16     byte = 0xd8
	MarkerStr8         byte = 0xd9
	MarkerStr16        byte = 0xda
	MarkerStr32        byte = 0xdb
	MarkerArray16      byte = 0xdc
	MarkerArray32      byte = 0xdd
	MarkerMap16        byte = 0xde
	MarkerMap32        byte = 0xdf
	MarkerNegFixIntMin byte = 0xe0
	MarkerNegFixIntMax byte = 0xff
)

// TimeExtType is the extension type id reserved for the Timestamp format
// (§4.6). A Payload's Ext variant never carries this id; decode
// normalizes it into the Timestamp variant instead.
const TimeExtType int8 = -1

// markerTable is the §4.1 jump table: a pure function of the leading byte,
// computed once so Marker is O(1) with no branching on the hot path.
var markerTable [256]TokenKind

func init() {
	for b := 0; b < 256; b++ {
		markerTable[b] = classify(byte(b))
	}
}

func classify(b byte) TokenKind {
	switch {
	case b >= MarkerPosFixIntMin && b <= MarkerPosFixIntMax:
		return TokenPosFixInt
	case b >= MarkerNegFixIntMin && b <= MarkerNegFixIntMax:
		return TokenNegFixInt
	case b >= MarkerFixMapMin && b <= MarkerFixMapMax:
		return TokenFixMap
	case b >= MarkerFixArrayMin && b <= MarkerFixArrayMax:
		return TokenFixArray
	case b >= MarkerFixStrMin && b <= MarkerFixStrMax:
		return TokenFixStr
	}
	switch b {
	case MarkerNil:
		return TokenNil
	case MarkerReserved:
		return TokenInvalid
	case MarkerFalse:
		return TokenFalse
	case MarkerTrue:
		return TokenTrue
	case MarkerBin8:
		return TokenBin8
	case MarkerBin16:
		return TokenBin16
	case MarkerBin32:
		return TokenBin32
	case MarkerExt8:
		return TokenExt8
	case MarkerExt16:
		return TokenExt16
	case MarkerExt32:
		return TokenExt32
	case MarkerFloat32:
		return TokenFloat32
	case MarkerFloat64:
		return TokenFloat64
	case MarkerUint8:
		return TokenUint8
	case MarkerUint16:
		return TokenUint16
	case MarkerUint32:
		return TokenUint32
	case MarkerUint64:
		return TokenUint64
	case MarkerInt8:
		return TokenInt8
	case MarkerInt16:
		return TokenInt16
	case MarkerInt32:
		return TokenInt32
	case MarkerInt64:
		return TokenInt64
	case MarkerFixExt1:
		return TokenFixExt1
	case MarkerFixExt2:
		return TokenFixExt2
	case MarkerFixExt4:
		return TokenFixExt4
	case MarkerFixExt8:
		return TokenFixExt8
	case MarkerFixExt16:
		return TokenFixExt16
	case MarkerStr8:
		return TokenStr8
	case MarkerStr16:
		return TokenStr16
	case MarkerStr32:
		return TokenStr32
	case MarkerArray16:
		return TokenArray16
	case MarkerArray32:
		return TokenArray32
	case MarkerMap16:
		return TokenMap16
	case MarkerMap32:
		return TokenMap32
	}
	// unreachable: every byte value is covered by the ranges and cases above.
	return TokenInvalid
}

// Marker maps a leading byte to its token kind in O(1).
func Marker(b byte) TokenKind {
	return markerTable[b]
}
