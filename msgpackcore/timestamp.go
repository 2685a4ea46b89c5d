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

import "encoding/binary"

// MaxNanoseconds is the largest valid nanosecond component of a
// Timestamp (§3.1 invariant).
const MaxNanoseconds = 999_999_999

const (
	timestamp32Body = 4
	timestamp64Body = 8
	timestamp96Body = 12
)

// EncodeTimestamp writes the extension-type -1 Timestamp in the
// narrowest of the three wire formats (§4.6), choosing:
//
//   - timestamp 32 (fixext 4) when nsec == 0 and 0 <= sec <= 2^32-1
//   - timestamp 64 (fixext 8) when 0 <= sec <= 2^34-1
//   - timestamp 96 (ext 8, len 12) otherwise
//
// This mirrors the (nsec<<34)|sec packing used by the reference msgpack
// Timestamp extension (cross-checked against the hashicorp/go-msgpack
// EncodeTime implementation retrieved for this spec).
func EncodeTimestamp(buf []byte, sec int64, nsec uint32) (int, error) {
	if nsec > MaxNanoseconds {
		return 0, ErrInvalidType
	}

	var bodyLen int
	switch {
	case nsec == 0 && sec >= 0 && sec <= (1<<32-1):
		bodyLen = timestamp32Body
	case sec >= 0 && sec <= (1<<34-1):
		bodyLen = timestamp64Body
	default:
		bodyLen = timestamp96Body
	}

	hdr, err := EncodeExtHeader(buf, TimeExtType, bodyLen)
	if err != nil {
		return hdr, err
	}
	if len(buf) < hdr+bodyLen {
		return hdr + bodyLen, ErrTooSmall
	}
	body := buf[hdr:]

	switch bodyLen {
	case timestamp32Body:
		binary.BigEndian.PutUint32(body, uint32(sec))
	case timestamp64Body:
		data64 := (uint64(nsec) << 34) | uint64(sec)
		binary.BigEndian.PutUint64(body, data64)
	case timestamp96Body:
		binary.BigEndian.PutUint32(body[:4], nsec)
		binary.BigEndian.PutUint64(body[4:12], uint64(sec))
	}
	return hdr + bodyLen, nil
}

// DecodeTimestampExt parses the body of an extension-type -1 value into
// (seconds, nanoseconds); the format is chosen by len(body). Any length
// other than 4, 8, or 12 is rejected as a malformed Timestamp payload.
func DecodeTimestampExt(body []byte) (sec int64, nsec uint32, err error) {
	switch len(body) {
	case timestamp32Body:
		sec = int64(binary.BigEndian.Uint32(body))
		nsec = 0
	case timestamp64Body:
		data64 := binary.BigEndian.Uint64(body)
		nsec = uint32(data64 >> 34)
		sec = int64(data64 & (1<<34 - 1))
	case timestamp96Body:
		nsec = binary.BigEndian.Uint32(body[:4])
		sec = int64(binary.BigEndian.Uint64(body[4:12]))
	default:
		return 0, 0, ErrExtTypeLength
	}
	if nsec > MaxNanoseconds {
		return 0, 0, ErrInvalidType
	}
	return sec, nsec, nil
}
