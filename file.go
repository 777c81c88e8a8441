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
	"fmt"
	"io"
	"os"
	"sync"
)

// FileHandle is the file abstraction the reader and builder consume.
// It is deliberately narrow: seek, tell, and typed reads/writes of
// the fixed-size integers and byte runs the on-disk format uses. A
// dictionary frontend that already owns a file handle and mutex (for
// example one shared with an article-data reader) can implement this
// interface directly instead of using [OSFile].
type FileHandle interface {
	// Seek repositions the file's cursor to offset bytes from the
	// start of the file.
	Seek(offset int64) error

	// Tell returns the file's current cursor position.
	Tell() (int64, error)

	// ReadUint32 reads a 32-bit little-endian unsigned integer at the
	// current cursor position, advancing it by 4 bytes.
	ReadUint32() (uint32, error)

	// ReadBytes reads exactly n bytes at the current cursor position,
	// advancing it by n.
	ReadBytes(n int) ([]byte, error)

	// WriteUint32 writes v as a 32-bit little-endian unsigned integer
	// at the current cursor position, advancing it by 4 bytes.
	WriteUint32(v uint32) error

	// WriteBytes writes b at the current cursor position, advancing
	// it by len(b).
	WriteBytes(b []byte) error
}

// LockingFileHandle is a FileHandle that additionally exposes the
// mutex guarding it, so callers that need to hold the lock across
// several operations (a tree descent, a leaf-to-leaf hop) can do so
// explicitly. This mirrors the idxFileMutex the spec's reader takes
// for the duration of a descent.
type LockingFileHandle interface {
	FileHandle
	Lock()
	Unlock()
}

// OSFile adapts an *os.File to FileHandle/LockingFileHandle. It owns
// a mutex, exposed through Lock and Unlock, since the underlying file
// descriptor's cursor is shared, mutable state; its Seek, Tell, read
// and write methods do not take that mutex themselves.
type OSFile struct {
	mu sync.Mutex
	f  *os.File
}

// NewOSFile wraps f as a LockingFileHandle.
func NewOSFile(f *os.File) *OSFile {
	return &OSFile{f: f}
}

// Lock acquires the file's mutex. Callers must call Unlock.
func (o *OSFile) Lock() { o.mu.Lock() }

// Unlock releases the file's mutex.
func (o *OSFile) Unlock() { o.mu.Unlock() }

// Seek repositions the file's cursor. Callers holding the mutex via
// Lock may call this without it re-locking.
func (o *OSFile) Seek(offset int64) error {
	_, err := o.f.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("seeking index file: %w", err)
	}
	return nil
}

// Tell returns the file's current cursor position.
func (o *OSFile) Tell() (int64, error) {
	off, err := o.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("reading index file position: %w", err)
	}
	return off, nil
}

// ReadUint32 reads a 32-bit little-endian unsigned integer.
func (o *OSFile) ReadUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(o.f, b[:]); err != nil {
		return 0, fmt.Errorf("reading uint32: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadBytes reads exactly n bytes.
func (o *OSFile) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(o.f, b); err != nil {
		return nil, fmt.Errorf("reading %d bytes: %w", n, err)
	}
	return b, nil
}

// WriteUint32 writes v as a 32-bit little-endian unsigned integer.
func (o *OSFile) WriteUint32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	if _, err := o.f.Write(b[:]); err != nil {
		return fmt.Errorf("writing uint32: %w", err)
	}
	return nil
}

// WriteBytes writes b verbatim.
func (o *OSFile) WriteBytes(b []byte) error {
	if _, err := o.f.Write(b); err != nil {
		return fmt.Errorf("writing %d bytes: %w", len(b), err)
	}
	return nil
}
