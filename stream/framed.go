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

package stream

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/GiterLab/crc16"
)

// ErrFrameCRCMismatch is returned by FramedSource.ReadFrame when the
// trailing CRC16-MODBUS checksum does not match the frame body.
var ErrFrameCRCMismatch = errors.New("stream: frame checksum mismatch")

// crc16Bytes runs CRC16-MODBUS over data.
func crc16Bytes(data []byte) uint16 {
	table := crc16.MakeTable(crc16.CRC16_MODBUS)
	h := crc16.New(table)
	h.Write(data)
	return h.Sum16()
}

// FramedSink wraps a Sink with an additive length-prefixed,
// CRC16-MODBUS-checked frame: a transport-integrity layer a caller can
// put around an encoded message without the codec itself knowing
// anything about framing.
type FramedSink struct {
	sink Sink
}

// NewFramedSink wraps sink.
func NewFramedSink(sink Sink) *FramedSink {
	return &FramedSink{sink: sink}
}

// WriteFrame writes a uint32 big-endian length prefix, the body, and a
// trailing uint16 big-endian CRC16-MODBUS of the body.
func (f *FramedSink) WriteFrame(body []byte) error {
	hdr := make([]byte, 4)
	binary.BigEndian.PutUint32(hdr, uint32(len(body)))
	if err := f.sink.WriteAll(hdr); err != nil {
		return err
	}
	if err := f.sink.WriteAll(body); err != nil {
		return err
	}
	crc := make([]byte, 2)
	binary.BigEndian.PutUint16(crc, crc16Bytes(body))
	return f.sink.WriteAll(crc)
}

// FramedSource is the read side of FramedSink.
type FramedSource struct {
	src Source
}

// NewFramedSource wraps src.
func NewFramedSource(src Source) *FramedSource {
	return &FramedSource{src: src}
}

// ReadFrame reads one frame written by FramedSink.WriteFrame, verifying
// its checksum. maxBody caps the declared body length so a corrupted or
// adversarial length prefix cannot force an unbounded allocation.
func (f *FramedSource) ReadFrame(maxBody int) ([]byte, error) {
	hdr := make([]byte, 4)
	if err := f.src.ReadExact(hdr); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint32(hdr))
	if n < 0 || n > maxBody {
		return nil, io.ErrShortBuffer
	}
	body := make([]byte, n)
	if err := f.src.ReadExact(body); err != nil {
		return nil, err
	}
	crcBytes := make([]byte, 2)
	if err := f.src.ReadExact(crcBytes); err != nil {
		return nil, err
	}
	want := binary.BigEndian.Uint16(crcBytes)
	if crc16Bytes(body) != want {
		return nil, ErrFrameCRCMismatch
	}
	return body, nil
}
