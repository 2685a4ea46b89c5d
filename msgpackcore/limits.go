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

const mib = 1 << 20

// Limits bounds the resources the decoder will commit to a single value
// (§3.2). Every declared length is checked against its cap before any
// allocation or read of payload bytes.
type Limits struct {
	MaxDepth       int
	MaxArrayLength int
	MaxMapSize     int
	MaxStringLen   int
	MaxBinLen      int
	MaxExtLen      int
}

// DefaultLimits returns the spec's default caps.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:       1000,
		MaxArrayLength: 1_000_000,
		MaxMapSize:     1_000_000,
		MaxStringLen:   100 * mib,
		MaxBinLen:      100 * mib,
		MaxExtLen:      100 * mib,
	}
}

// ApplyDefaults fills any zero-valued field with the corresponding
// DefaultLimits value, so a caller can write Limits{MaxDepth: 32} and get
// the package defaults for everything else. A cap of 0 therefore cannot
// be expressed: it means "use the default".
func (l *Limits) ApplyDefaults() {
	d := DefaultLimits()
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxArrayLength == 0 {
		l.MaxArrayLength = d.MaxArrayLength
	}
	if l.MaxMapSize == 0 {
		l.MaxMapSize = d.MaxMapSize
	}
	if l.MaxStringLen == 0 {
		l.MaxStringLen = d.MaxStringLen
	}
	if l.MaxBinLen == 0 {
		l.MaxBinLen = d.MaxBinLen
	}
	if l.MaxExtLen == 0 {
		l.MaxExtLen = d.MaxExtLen
	}
}
