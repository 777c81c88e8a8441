// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package btreeidx

import (
	"encoding/binary"
	"io"
	"sync"
)

// memFile is an in-memory LockingFileHandle used by the builder,
// reader, and query tests so they don't touch disk.
type memFile struct {
	mu  sync.Mutex
	buf []byte
	pos int64
}

func (m *memFile) Lock()   { m.mu.Lock() }
func (m *memFile) Unlock() { m.mu.Unlock() }

func (m *memFile) Seek(offset int64) error {
	m.pos = offset
	return nil
}

func (m *memFile) Tell() (int64, error) {
	return m.pos, nil
}

func (m *memFile) ReadUint32() (uint32, error) {
	b, err := m.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *memFile) ReadBytes(n int) ([]byte, error) {
	if m.pos < 0 || m.pos+int64(n) > int64(len(m.buf)) {
		return nil, io.ErrUnexpectedEOF
	}
	b := m.buf[m.pos : m.pos+int64(n)]
	m.pos += int64(n)
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (m *memFile) WriteUint32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return m.WriteBytes(b[:])
}

func (m *memFile) WriteBytes(b []byte) error {
	if int64(len(m.buf)) < m.pos+int64(len(b)) {
		grown := make([]byte, m.pos+int64(len(b)))
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], b)
	m.pos += int64(len(b))
	return nil
}
