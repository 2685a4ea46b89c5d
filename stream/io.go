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

// Package stream adapts the codec's read_exact/write_all IO model (§6.1)
// onto the standard io.Reader/io.Writer interfaces: every read either
// fills the caller's buffer completely or fails, and every write either
// lands every byte or fails — no partial-success states for the codec to
// reason about.
package stream

import "io"

// Source reads exactly len(p) bytes or returns an error. A short read
// from the underlying reader is reported as an error, never as a partial
// fill.
type Source interface {
	ReadExact(p []byte) error
}

// Sink writes all of p or returns an error.
type Sink interface {
	WriteAll(p []byte) error
}

// readerSource adapts an io.Reader.
type readerSource struct {
	r io.Reader
}

// NewSource wraps r as a Source.
func NewSource(r io.Reader) Source {
	return readerSource{r: r}
}

func (s readerSource) ReadExact(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	_, err := io.ReadFull(s.r, p)
	return err
}

// writerSink adapts an io.Writer.
type writerSink struct {
	w io.Writer
}

// NewSink wraps w as a Sink.
func NewSink(w io.Writer) Sink {
	return writerSink{w: w}
}

func (s writerSink) WriteAll(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	for len(p) > 0 {
		n, err := s.w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
