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

package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/GiterLab/go-msgpack/msgpackcore"
	"github.com/GiterLab/go-msgpack/stream"
)

// decodeState carries the work-stack across decodeOne/attach calls.
type decodeState struct {
	stack []*decodeFrame
}

// Decode reads one MessagePack-encoded value from src, enforcing limits
// (nil means DefaultLimits) and sourcing every owned byte slice from
// alloc (nil means DefaultAllocator). On any error every byte already
// allocated for the partially decoded value is freed through alloc
// before Decode returns, so a failed decode never leaks (§8.1.3).
func Decode(src stream.Source, limits *msgpackcore.Limits, alloc msgpackcore.Allocator) (msgpackcore.Payload, error) {
	if alloc == nil {
		alloc = msgpackcore.DefaultAllocator{}
	}
	l := msgpackcore.Limits{}
	if limits != nil {
		l = *limits
	}
	l.ApplyDefaults()

	st := &decodeState{}
	for {
		p, pushed, err := decodeOne(src, &l, alloc, st)
		if err != nil {
			st.cleanup(alloc)
			return msgpackcore.Payload{}, err
		}
		if pushed {
			continue
		}
		done, root, err := st.attach(p, alloc)
		if err != nil {
			st.cleanup(alloc)
			return msgpackcore.Payload{}, err
		}
		if done {
			return root, nil
		}
	}
}

// attach folds a just-decoded value into the container on top of the
// stack, cascading completed containers up into their own parents with
// a loop instead of a recursive call — a container that completes at
// depth 1000 must not need 1000 native stack frames to report it.
func (st *decodeState) attach(p msgpackcore.Payload, alloc msgpackcore.Allocator) (bool, msgpackcore.Payload, error) {
	for {
		if len(st.stack) == 0 {
			return true, p, nil
		}
		top := st.stack[len(st.stack)-1]
		switch top.kind {
		case msgpackcore.KindArr:
			top.arr[top.index] = p
			top.index++
			if top.index < top.length {
				return false, msgpackcore.Payload{}, nil
			}
			completed := msgpackcore.ArrPayload(top.arr...)
			st.stack = st.stack[:len(st.stack)-1]
			p = completed
		case msgpackcore.KindMap:
			if top.pendingKey == nil {
				k := p
				top.pendingKey = &k
				return false, msgpackcore.Payload{}, nil
			}
			key := *top.pendingKey
			top.pendingKey = nil
			old, dup := top.m.Get(key)
			if err := top.m.Put(key, p); err != nil {
				p.Free(alloc)
				key.Free(alloc)
				return false, msgpackcore.Payload{}, err
			}
			if dup {
				// Last occurrence wins: the map keeps its first key and the
				// new value, so the replaced value and the new key are freed.
				old.Free(alloc)
				key.Free(alloc)
			}
			top.index++
			if top.index < top.length {
				return false, msgpackcore.Payload{}, nil
			}
			completed := msgpackcore.MapPayloadFromMap(top.m)
			st.stack = st.stack[:len(st.stack)-1]
			p = completed
		default:
			return true, p, nil
		}
	}
}

// cleanup frees every byte slice already owned by partially built
// containers left on the stack after a decode error.
func (st *decodeState) cleanup(alloc msgpackcore.Allocator) {
	for _, f := range st.stack {
		switch f.kind {
		case msgpackcore.KindArr:
			for i := 0; i < f.index; i++ {
				f.arr[i].Free(alloc)
			}
		case msgpackcore.KindMap:
			if f.pendingKey != nil {
				f.pendingKey.Free(alloc)
			}
			f.m.Range(func(k, v msgpackcore.Payload) bool {
				k.Free(alloc)
				v.Free(alloc)
				return true
			})
		}
	}
	st.stack = nil
}

func readN(src stream.Source, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := src.ReadExact(b); err != nil {
		return nil, err
	}
	return b, nil
}

// wrapRead attaches the codec's sentinel to the underlying read error
// without discarding it (§6.2: error codes pass through unchanged under a
// wrapping kind), so a caller can match either errors.Is(err, sentinel)
// or errors.Is(err, io.EOF)/io.ErrUnexpectedEOF on the same returned error.
func wrapRead(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// decodeOne reads one value's marker and, for a scalar, its full
// content; for a non-empty array or map it instead pushes a new
// decodeFrame onto st.stack and reports pushed=true so the caller loops
// back to read the container's first child.
func decodeOne(src stream.Source, limits *msgpackcore.Limits, alloc msgpackcore.Allocator, st *decodeState) (msgpackcore.Payload, bool, error) {
	mb, err := readN(src, 1)
	if err != nil {
		return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
	}
	marker := mb[0]
	token := msgpackcore.Marker(marker)

	switch token {
	case msgpackcore.TokenNil:
		return msgpackcore.NilPayload(), false, nil
	case msgpackcore.TokenFalse:
		return msgpackcore.BoolPayload(false), false, nil
	case msgpackcore.TokenTrue:
		return msgpackcore.BoolPayload(true), false, nil
	case msgpackcore.TokenPosFixInt:
		// Positive fixint is the byte range EncodeUint also uses for small
		// values (primitive.go), so it must decode back to KindUint, not
		// KindInt, or a UintPayload never round-trips through 0..127.
		return msgpackcore.UintPayload(uint64(marker)), false, nil
	case msgpackcore.TokenNegFixInt:
		return msgpackcore.IntPayload(int64(int8(marker))), false, nil

	case msgpackcore.TokenUint8:
		b, err := readN(src, 1)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.UintPayload(uint64(b[0])), false, nil
	case msgpackcore.TokenUint16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.UintPayload(uint64(binary.BigEndian.Uint16(b))), false, nil
	case msgpackcore.TokenUint32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.UintPayload(uint64(binary.BigEndian.Uint32(b))), false, nil
	case msgpackcore.TokenUint64:
		b, err := readN(src, 8)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.UintPayload(binary.BigEndian.Uint64(b)), false, nil

	case msgpackcore.TokenInt8:
		b, err := readN(src, 1)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.IntPayload(int64(int8(b[0]))), false, nil
	case msgpackcore.TokenInt16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.IntPayload(int64(int16(binary.BigEndian.Uint16(b)))), false, nil
	case msgpackcore.TokenInt32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.IntPayload(int64(int32(binary.BigEndian.Uint32(b)))), false, nil
	case msgpackcore.TokenInt64:
		b, err := readN(src, 8)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.IntPayload(int64(binary.BigEndian.Uint64(b))), false, nil

	case msgpackcore.TokenFloat32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.FloatPayload(float64(math.Float32frombits(binary.BigEndian.Uint32(b)))), false, nil
	case msgpackcore.TokenFloat64:
		b, err := readN(src, 8)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
		}
		return msgpackcore.FloatPayload(math.Float64frombits(binary.BigEndian.Uint64(b))), false, nil

	case msgpackcore.TokenFixStr:
		return decodeStrBody(src, limits, alloc, int(marker&0x1f))
	case msgpackcore.TokenStr8:
		b, err := readN(src, 1)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeStrBody(src, limits, alloc, int(b[0]))
	case msgpackcore.TokenStr16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeStrBody(src, limits, alloc, int(binary.BigEndian.Uint16(b)))
	case msgpackcore.TokenStr32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeStrBody(src, limits, alloc, int(binary.BigEndian.Uint32(b)))

	case msgpackcore.TokenBin8:
		b, err := readN(src, 1)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeBinBody(src, limits, alloc, int(b[0]))
	case msgpackcore.TokenBin16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeBinBody(src, limits, alloc, int(binary.BigEndian.Uint16(b)))
	case msgpackcore.TokenBin32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeBinBody(src, limits, alloc, int(binary.BigEndian.Uint32(b)))

	case msgpackcore.TokenFixArray:
		return pushArr(st, limits, int(marker&0x0f))
	case msgpackcore.TokenArray16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return pushArr(st, limits, int(binary.BigEndian.Uint16(b)))
	case msgpackcore.TokenArray32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return pushArr(st, limits, int(binary.BigEndian.Uint32(b)))

	case msgpackcore.TokenFixMap:
		return pushMap(st, limits, int(marker&0x0f))
	case msgpackcore.TokenMap16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return pushMap(st, limits, int(binary.BigEndian.Uint16(b)))
	case msgpackcore.TokenMap32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return pushMap(st, limits, int(binary.BigEndian.Uint32(b)))

	case msgpackcore.TokenFixExt1:
		return decodeExtBody(src, limits, alloc, 1)
	case msgpackcore.TokenFixExt2:
		return decodeExtBody(src, limits, alloc, 2)
	case msgpackcore.TokenFixExt4:
		return decodeExtBody(src, limits, alloc, 4)
	case msgpackcore.TokenFixExt8:
		return decodeExtBody(src, limits, alloc, 8)
	case msgpackcore.TokenFixExt16:
		return decodeExtBody(src, limits, alloc, 16)
	case msgpackcore.TokenExt8:
		b, err := readN(src, 1)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeExtBody(src, limits, alloc, int(b[0]))
	case msgpackcore.TokenExt16:
		b, err := readN(src, 2)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeExtBody(src, limits, alloc, int(binary.BigEndian.Uint16(b)))
	case msgpackcore.TokenExt32:
		b, err := readN(src, 4)
		if err != nil {
			return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrLengthReading, err)
		}
		return decodeExtBody(src, limits, alloc, int(binary.BigEndian.Uint32(b)))

	default:
		return msgpackcore.Payload{}, false, msgpackcore.ErrTypeMarker
	}
}

func decodeStrBody(src stream.Source, limits *msgpackcore.Limits, alloc msgpackcore.Allocator, length int) (msgpackcore.Payload, bool, error) {
	if length < 0 || length > limits.MaxStringLen {
		return msgpackcore.Payload{}, false, msgpackcore.ErrStringTooLong
	}
	b, err := alloc.Alloc(length)
	if err != nil {
		return msgpackcore.Payload{}, false, err
	}
	if err := src.ReadExact(b); err != nil {
		alloc.Free(b)
		return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
	}
	return msgpackcore.StrPayload(b), false, nil
}

func decodeBinBody(src stream.Source, limits *msgpackcore.Limits, alloc msgpackcore.Allocator, length int) (msgpackcore.Payload, bool, error) {
	if length < 0 || length > limits.MaxBinLen {
		return msgpackcore.Payload{}, false, msgpackcore.ErrBinDataTooLarge
	}
	b, err := alloc.Alloc(length)
	if err != nil {
		return msgpackcore.Payload{}, false, err
	}
	if err := src.ReadExact(b); err != nil {
		alloc.Free(b)
		return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
	}
	return msgpackcore.BinPayload(b), false, nil
}

// decodeExtBody reads a type id byte plus a length-byte body. Type id -1
// is normalized into the Timestamp variant (§4.6) instead of surfacing
// as a generic Ext payload.
func decodeExtBody(src stream.Source, limits *msgpackcore.Limits, alloc msgpackcore.Allocator, length int) (msgpackcore.Payload, bool, error) {
	if length < 0 || length > limits.MaxExtLen {
		return msgpackcore.Payload{}, false, msgpackcore.ErrExtDataTooLarge
	}
	tb, err := readN(src, 1)
	if err != nil {
		return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
	}
	typeID := int8(tb[0])

	body, err := alloc.Alloc(length)
	if err != nil {
		return msgpackcore.Payload{}, false, err
	}
	if err := src.ReadExact(body); err != nil {
		alloc.Free(body)
		return msgpackcore.Payload{}, false, wrapRead(msgpackcore.ErrDataReading, err)
	}

	if typeID == msgpackcore.TimeExtType {
		sec, nsec, err := msgpackcore.DecodeTimestampExt(body)
		alloc.Free(body)
		if err != nil {
			return msgpackcore.Payload{}, false, err
		}
		p, err := msgpackcore.TimestampPayload(sec, nsec)
		return p, false, err
	}

	p, err := msgpackcore.ExtPayload(typeID, body)
	if err != nil {
		alloc.Free(body)
		return msgpackcore.Payload{}, false, err
	}
	return p, false, nil
}

func pushArr(st *decodeState, limits *msgpackcore.Limits, length int) (msgpackcore.Payload, bool, error) {
	if length < 0 || length > limits.MaxArrayLength {
		return msgpackcore.Payload{}, false, msgpackcore.ErrArrayTooLarge
	}
	if len(st.stack)+1 > limits.MaxDepth {
		return msgpackcore.Payload{}, false, msgpackcore.ErrMaxDepthExceeded
	}
	if length == 0 {
		return msgpackcore.ArrPayload(), false, nil
	}
	st.stack = append(st.stack, &decodeFrame{
		kind:   msgpackcore.KindArr,
		length: length,
		arr:    make([]msgpackcore.Payload, length),
	})
	return msgpackcore.Payload{}, true, nil
}

func pushMap(st *decodeState, limits *msgpackcore.Limits, length int) (msgpackcore.Payload, bool, error) {
	if length < 0 || length > limits.MaxMapSize {
		return msgpackcore.Payload{}, false, msgpackcore.ErrMapTooLarge
	}
	if len(st.stack)+1 > limits.MaxDepth {
		return msgpackcore.Payload{}, false, msgpackcore.ErrMaxDepthExceeded
	}
	if length == 0 {
		return msgpackcore.MapPayload(), false, nil
	}
	st.stack = append(st.stack, &decodeFrame{
		kind:   msgpackcore.KindMap,
		length: length,
		m:      msgpackcore.NewPayloadMap(),
	})
	return msgpackcore.Payload{}, true, nil
}
