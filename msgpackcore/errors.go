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

import "errors"

// Sentinel errors, one per error kind in the codec's closed taxonomy.
// Coders wrap these with fmt.Errorf("...: %w", Err...) when they need to
// carry extra context; callers should always match with errors.Is.
var (
	ErrDataReading   = errors.New("msgpack: data reading failed")
	ErrDataWriting   = errors.New("msgpack: data writing failed")
	ErrTypeMarker    = errors.New("msgpack: reserved or unrecognized type marker")
	ErrLengthReading = errors.New("msgpack: length prefix could not be read")

	ErrInvalidType = errors.New("msgpack: invalid type")

	ErrStringTooLong    = errors.New("msgpack: string length exceeds limit")
	ErrBinDataTooLarge  = errors.New("msgpack: bin length exceeds limit")
	ErrExtDataTooLarge  = errors.New("msgpack: ext length exceeds limit")
	ErrArrayTooLarge    = errors.New("msgpack: array length exceeds limit")
	ErrMapTooLarge      = errors.New("msgpack: map size exceeds limit")
	ErrMaxDepthExceeded = errors.New("msgpack: max nesting depth exceeded")

	ErrInputValueTooLarge = errors.New("msgpack: encoder input does not fit any format")
	ErrExtTypeLength      = errors.New("msgpack: reserved ext type carried a malformed payload")

	ErrOutOfMemory = errors.New("msgpack: allocator refused the request")

	// ErrTooSmall signals a caller-supplied buffer too small for the write;
	// the Encode* function returning it also returns the byte count the
	// write needs.
	ErrTooSmall = errors.New("msgpack: destination buffer too small")
)
