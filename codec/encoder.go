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
	"fmt"

	"github.com/GiterLab/go-msgpack/msgpackcore"
	"github.com/GiterLab/go-msgpack/stream"
)

// Encode writes p to sink in the minimum-length wire form (§4.3, §4.5),
// except that Int values use signed formats only (see EncodeInt), walking nested arrays and maps with an explicit stack instead of
// recursion, the same discipline as Decode.
func Encode(sink stream.Sink, p msgpackcore.Payload) error {
	var buf [16]byte // largest single header+body write is timestamp96 at 15 bytes
	var stack []*encodeFrame

	cur := p
	haveCur := true
	for {
		if !haveCur {
			for {
				if len(stack) == 0 {
					return nil
				}
				top := stack[len(stack)-1]
				item, ok := nextChild(top)
				if !ok {
					stack = stack[:len(stack)-1]
					continue
				}
				cur = item
				haveCur = true
				break
			}
		}

		if err := writeValue(sink, buf[:], cur, &stack); err != nil {
			return err
		}
		haveCur = false
	}
}

// nextChild returns the next value to emit from frame, or ok=false if
// the frame is exhausted.
func nextChild(f *encodeFrame) (msgpackcore.Payload, bool) {
	switch f.kind {
	case msgpackcore.KindArr:
		if f.index >= f.arr.ArrLen() {
			return msgpackcore.Payload{}, false
		}
		item := f.arr.ArrAt(f.index)
		f.index++
		return item, true
	case msgpackcore.KindMap:
		if f.index >= len(f.entries) {
			return msgpackcore.Payload{}, false
		}
		e := f.entries[f.index]
		if !f.writingValue {
			f.writingValue = true
			return e.key, true
		}
		f.writingValue = false
		f.index++
		return e.value, true
	default:
		return msgpackcore.Payload{}, false
	}
}

// writeValue emits one value's wire form. For a non-empty array or map
// it writes only the header and pushes a new encodeFrame so the caller's
// main loop supplies its children one at a time.
func writeValue(sink stream.Sink, buf []byte, p msgpackcore.Payload, stack *[]*encodeFrame) error {
	switch p.Kind() {
	case msgpackcore.KindNil:
		return writeN(sink, buf, msgpackcore.EncodeNil)
	case msgpackcore.KindBool:
		v, _ := p.AsBool()
		return writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeBool(b, v) })
	case msgpackcore.KindInt:
		v, _ := p.AsInt()
		return writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeInt(b, v) })
	case msgpackcore.KindUint:
		v, _ := p.AsUint()
		return writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeUint(b, v) })
	case msgpackcore.KindFloat:
		v, _ := p.AsFloat()
		return writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeFloat(b, v) })
	case msgpackcore.KindTimestamp:
		sec, nsec, _ := p.AsTimestamp()
		return writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeTimestamp(b, sec, nsec) })

	case msgpackcore.KindStr:
		data, _ := p.AsStr()
		if err := writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeStrHeader(b, len(data)) }); err != nil {
			return err
		}
		return writeBody(sink, data)
	case msgpackcore.KindBin:
		data, _ := p.AsBin()
		if err := writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeBinHeader(b, len(data)) }); err != nil {
			return err
		}
		return writeBody(sink, data)
	case msgpackcore.KindExt:
		typeID, data, _ := p.AsExt()
		if err := writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeExtHeader(b, typeID, len(data)) }); err != nil {
			return err
		}
		return writeBody(sink, data)

	case msgpackcore.KindArr:
		if err := writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeArrayHeader(b, p.ArrLen()) }); err != nil {
			return err
		}
		if p.ArrLen() == 0 {
			return nil
		}
		*stack = append(*stack, &encodeFrame{kind: msgpackcore.KindArr, arr: p})
		return nil

	case msgpackcore.KindMap:
		if err := writeN(sink, buf, func(b []byte) (int, error) { return msgpackcore.EncodeMapHeader(b, p.MapLen()) }); err != nil {
			return err
		}
		if p.MapLen() == 0 {
			return nil
		}
		entries := make([]mapEntryView, 0, p.MapLen())
		p.Map().Range(func(k, v msgpackcore.Payload) bool {
			entries = append(entries, mapEntryView{key: k, value: v})
			return true
		})
		*stack = append(*stack, &encodeFrame{kind: msgpackcore.KindMap, entries: entries})
		return nil

	default:
		return msgpackcore.ErrInvalidType
	}
}

func writeN(sink stream.Sink, buf []byte, encode func([]byte) (int, error)) error {
	n, err := encode(buf)
	if err != nil {
		return err
	}
	if err := sink.WriteAll(buf[:n]); err != nil {
		return fmt.Errorf("%w: %w", msgpackcore.ErrDataWriting, err)
	}
	return nil
}

func writeBody(sink stream.Sink, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := sink.WriteAll(data); err != nil {
		return fmt.Errorf("%w: %w", msgpackcore.ErrDataWriting, err)
	}
	return nil
}
