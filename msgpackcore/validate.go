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

	"github.com/hashicorp/go-multierror"
)

// Validate walks p against limits (applying DefaultLimits for any zero
// field) and reports every violation found, not just the first: a caller
// building a Payload by hand — rather than decoding untrusted bytes
// through codec.Decode, which already enforces limits length-before
// -allocation — can use Validate to check the whole tree in one pass
// before handing it to an encoder.
func (p Payload) Validate(limits *Limits) error {
	l := DefaultLimits()
	if limits != nil {
		l = *limits
		l.ApplyDefaults()
	}
	var result *multierror.Error
	validateNode(p, &l, 0, &result)
	return result.ErrorOrNil()
}

func validateNode(p Payload, l *Limits, depth int, result **multierror.Error) {
	if depth > l.MaxDepth {
		*result = multierror.Append(*result, fmt.Errorf("%w: depth %d exceeds %d", ErrMaxDepthExceeded, depth, l.MaxDepth))
		return
	}

	switch p.kind {
	case KindFloat:
		if math.IsNaN(p.f) {
			// NaN values are fine; only NaN map keys are rejected, and that
			// is enforced at insertion time by PayloadMap.Put.
			return
		}
	case KindStr:
		if len(p.bytes) > l.MaxStringLen {
			*result = multierror.Append(*result, fmt.Errorf("%w: %d > %d", ErrStringTooLong, len(p.bytes), l.MaxStringLen))
		}
	case KindBin:
		if len(p.bytes) > l.MaxBinLen {
			*result = multierror.Append(*result, fmt.Errorf("%w: %d > %d", ErrBinDataTooLarge, len(p.bytes), l.MaxBinLen))
		}
	case KindExt:
		if len(p.bytes) > l.MaxExtLen {
			*result = multierror.Append(*result, fmt.Errorf("%w: %d > %d", ErrExtDataTooLarge, len(p.bytes), l.MaxExtLen))
		}
	case KindArr:
		if len(p.arr) > l.MaxArrayLength {
			*result = multierror.Append(*result, fmt.Errorf("%w: %d > %d", ErrArrayTooLarge, len(p.arr), l.MaxArrayLength))
		}
		for _, item := range p.arr {
			validateNode(item, l, depth+1, result)
		}
	case KindMap:
		if p.MapLen() > l.MaxMapSize {
			*result = multierror.Append(*result, fmt.Errorf("%w: %d > %d", ErrMapTooLarge, p.MapLen(), l.MaxMapSize))
		}
		if p.m != nil {
			p.m.Range(func(k, v Payload) bool {
				validateNode(k, l, depth+1, result)
				validateNode(v, l, depth+1, result)
				return true
			})
		}
	}
}
