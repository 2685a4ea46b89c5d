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

import "sync"

// Allocator is the injected memory capability (§6.3). The bytes owned by a
// Payload (str/bin/ext data) flow through one Allocator so the no-leak
// property is auditable; array/map backing storage is allocated by Go
// directly and is not counted. Swap in a
// TrackingAllocator in a test and every byte in must equal every byte out.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Realloc(b []byte, n int) ([]byte, error)
	Free(b []byte)
}

// DefaultAllocator backs Alloc/Realloc with make/append and never fails;
// Go's garbage collector reclaims memory on its own schedule, so Free is a
// no-op here. The interface boundary is still real: callers that need the
// no-leak guarantee mechanically checked (§8.1.3) swap in a
// TrackingAllocator instead.
type DefaultAllocator struct{}

var _ Allocator = DefaultAllocator{}

func (DefaultAllocator) Alloc(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return make([]byte, n), nil
}

func (DefaultAllocator) Realloc(b []byte, n int) ([]byte, error) {
	if n <= cap(b) {
		return b[:n], nil
	}
	nb := make([]byte, n)
	copy(nb, b)
	return nb, nil
}

func (DefaultAllocator) Free([]byte) {}

// TrackingAllocator counts live bytes handed out by Alloc/Realloc and not
// yet returned through Free. Tests use it to assert invariant 8.1.3: after
// any decode call, successful or not, bytes-in equals bytes-out.
type TrackingAllocator struct {
	mu    sync.Mutex
	live  map[*byte]int
	total int
}

var _ Allocator = (*TrackingAllocator)(nil)

func NewTrackingAllocator() *TrackingAllocator {
	return &TrackingAllocator{live: make(map[*byte]int)}
}

func (a *TrackingAllocator) Alloc(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	a.mu.Lock()
	a.live[&b[0]] = n
	a.total += n
	a.mu.Unlock()
	return b, nil
}

func (a *TrackingAllocator) Realloc(b []byte, n int) ([]byte, error) {
	a.Free(b)
	nb, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}
	copy(nb, b)
	return nb, nil
}

func (a *TrackingAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if n, ok := a.live[&b[0]]; ok {
		delete(a.live, &b[0])
		a.total -= n
	}
}

// Live returns the number of bytes currently allocated and not yet freed.
func (a *TrackingAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// FailingAllocator fails every Alloc/Realloc call once a budget of bytes
// has been handed out, surfacing ErrOutOfMemory the way a real allocator
// would under memory pressure (§6.3, §8.1.3's OOM cleanup test).
type FailingAllocator struct {
	Budget int

	mu     sync.Mutex
	issued int
}

var _ Allocator = (*FailingAllocator)(nil)

func (a *FailingAllocator) Alloc(n int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.issued+n > a.Budget {
		return nil, ErrOutOfMemory
	}
	a.issued += n
	if n == 0 {
		return nil, nil
	}
	return make([]byte, n), nil
}

func (a *FailingAllocator) Realloc(b []byte, n int) ([]byte, error) {
	if n <= cap(b) {
		return b[:n], nil
	}
	nb, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}
	copy(nb, b)
	return nb, nil
}

func (a *FailingAllocator) Free(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued -= len(b)
	if a.issued < 0 {
		a.issued = 0
	}
}
