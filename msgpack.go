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

// Package msgpack is the top-level entry point: Marshal/Unmarshal a
// Payload tree to and from the MessagePack wire format, with resource
// limits enforced on every decode.
package msgpack

import (
	"bytes"

	"github.com/GiterLab/go-msgpack/codec"
	"github.com/GiterLab/go-msgpack/msgpackcore"
	"github.com/GiterLab/go-msgpack/stream"
)

// Re-exported so callers need only import this package for the common
// path.
type (
	Payload   = msgpackcore.Payload
	Limits    = msgpackcore.Limits
	Allocator = msgpackcore.Allocator
	Kind      = msgpackcore.Kind
)

// DefaultLimits returns the package's default resource caps.
func DefaultLimits() Limits { return msgpackcore.DefaultLimits() }

// Codec pairs a Limits policy with an Allocator, so a caller that wants
// non-default resource caps or a tracked/failing allocator for testing
// does not have to pass them to every call.
type Codec struct {
	Limits    Limits
	Allocator Allocator
}

// NewCodec returns a Codec with DefaultLimits and DefaultAllocator;
// zero-value fields in limits fall back to the defaults.
func NewCodec(limits *Limits) *Codec {
	l := DefaultLimits()
	if limits != nil {
		l = *limits
		l.ApplyDefaults()
	}
	return &Codec{Limits: l, Allocator: msgpackcore.DefaultAllocator{}}
}

// Marshal encodes p to its minimum-length MessagePack wire form.
func (c *Codec) Marshal(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := codec.Encode(stream.NewSink(&buf), p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one MessagePack value from data, enforcing
// c.Limits and sourcing owned bytes from c.Allocator.
func (c *Codec) Unmarshal(data []byte) (Payload, error) {
	return codec.Decode(stream.NewSource(bytes.NewReader(data)), &c.Limits, c.Allocator)
}

// Marshal encodes p using DefaultLimits and DefaultAllocator.
func Marshal(p Payload) ([]byte, error) {
	return NewCodec(nil).Marshal(p)
}

// Unmarshal decodes data using DefaultLimits and DefaultAllocator.
func Unmarshal(data []byte) (Payload, error) {
	return NewCodec(nil).Unmarshal(data)
}
