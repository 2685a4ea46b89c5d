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

import "strconv"

// Kind discriminates the variant carried by a Payload.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindBin
	KindArr
	KindMap
	KindExt
	KindTimestamp
)

var kindToString = map[Kind]string{
	KindNil:       "nil",
	KindBool:      "bool",
	KindInt:       "int",
	KindUint:      "uint",
	KindFloat:     "float",
	KindStr:       "str",
	KindBin:       "bin",
	KindArr:       "arr",
	KindMap:       "map",
	KindExt:       "ext",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return "Kind(" + strconv.FormatInt(int64(k), 10) + ")"
}

// TokenKind is the abstract token a marker byte decodes to (§4.1). It is a
// closed set of 36 wire-format tokens plus TokenInvalid for the one
// reserved byte (0xc1) that carries no defined meaning.
type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenPosFixInt
	TokenNegFixInt
	TokenFixMap
	TokenFixArray
	TokenFixStr
	TokenNil
	TokenFalse
	TokenTrue
	TokenBin8
	TokenBin16
	TokenBin32
	TokenExt8
	TokenExt16
	TokenExt32
	TokenFloat32
	TokenFloat64
	TokenUint8
	TokenUint16
	TokenUint32
	TokenUint64
	TokenInt8
	TokenInt16
	TokenInt32
	TokenInt64
	TokenFixExt1
	TokenFixExt2
	TokenFixExt4
	TokenFixExt8
	TokenFixExt16
	TokenStr8
	TokenStr16
	TokenStr32
	TokenArray16
	TokenArray32
	TokenMap16
	TokenMap32
)

var tokenKindToString = map[TokenKind]string{
	TokenInvalid:   "Invalid",
	TokenPosFixInt: "PosFixInt",
	TokenNegFixInt: "NegFixInt",
	TokenFixMap:    "FixMap",
	TokenFixArray:  "FixArray",
	TokenFixStr:    "FixStr",
	TokenNil:       "Nil",
	TokenFalse:     "False",
	TokenTrue:      "True",
	TokenBin8:      "Bin8",
	TokenBin16:     "Bin16",
	TokenBin32:     "Bin32",
	TokenExt8:      "Ext8",
	TokenExt16:     "Ext16",
	TokenExt32:     "Ext32",
	TokenFloat32:   "Float32",
	TokenFloat64:   "Float64",
	TokenUint8:     "Uint8",
	TokenUint16:    "Uint16",
	TokenUint32:    "Uint32",
	TokenUint64:    "Uint64",
	TokenInt8:      "Int8",
	TokenInt16:     "Int16",
	TokenInt32:     "Int32",
	TokenInt64:     "Int64",
	TokenFixExt1:   "FixExt1",
	TokenFixExt2:   "FixExt2",
	TokenFixExt4:   "FixExt4",
	TokenFixExt8:   "FixExt8",
	TokenFixExt16:  "FixExt16",
	TokenStr8:      "Str8",
	TokenStr16:     "Str16",
	TokenStr32:     "Str32",
	TokenArray16:   "Array16",
	TokenArray32:   "Array32",
	TokenMap16:     "Map16",
	TokenMap32:     "Map32",
}

func (t TokenKind) String() string {
	if s, ok := tokenKindToString[t]; ok {
		return s
	}
	return "TokenKind(" + strconv.FormatInt(int64(t), 10) + ")"
}
