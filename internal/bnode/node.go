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

// Package bnode implements the on-disk envelope of a B-tree node: the
// compressed header every node (leaf or internal) is wrapped in, and
// the byte-level parsing of an internal node's header word, child
// offsets, and pivot region. It knows nothing about chains or
// WordArticleLink records; that payload semantics lives in the
// btreeidx package, one level up.
package bnode

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// InternalMarker is the header word that identifies an internal node.
// Any other value N identifies a leaf holding N chains.
const InternalMarker uint32 = 0xFFFFFFFF

// ErrFailedToDecompress is returned when a node's compressed payload
// fails to inflate or inflates to an unexpected length.
var ErrFailedToDecompress = errors.New("bnode: failed to decompress node")

// FileHandle is the subset of btreeidx.FileHandle that the node
// envelope needs. It is declared independently here (rather than
// imported) so this package has no dependency on its parent.
type FileHandle interface {
	Seek(offset int64) error
	Tell() (int64, error)
	ReadUint32() (uint32, error)
	ReadBytes(n int) ([]byte, error)
	WriteUint32(v uint32) error
	WriteBytes(b []byte) error
}

// WriteNode compresses payload with zlib and writes the node header
// (uncompressedSize, compressedSize, compressedPayload) at the file's
// current position. It returns the file offset the node was written
// at, so it can be recorded as a child pointer or the tree's root
// offset.
func WriteNode(fh FileHandle, payload []byte) (uint32, error) {
	offset, err := fh.Tell()
	if err != nil {
		return 0, fmt.Errorf("recording node offset: %w", err)
	}
	//nolint:gosec // index files are bounded well under 4GiB in practice.
	nodeOffset := uint32(offset)

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	if _, err := w.Write(payload); err != nil {
		return 0, fmt.Errorf("compressing node: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("closing node compressor: %w", err)
	}

	if err := fh.WriteUint32(uint32(len(payload))); err != nil {
		return 0, fmt.Errorf("writing node header: %w", err)
	}
	if err := fh.WriteUint32(uint32(compressed.Len())); err != nil {
		return 0, fmt.Errorf("writing node header: %w", err)
	}
	if err := fh.WriteBytes(compressed.Bytes()); err != nil {
		return 0, fmt.Errorf("writing node payload: %w", err)
	}

	return nodeOffset, nil
}

// ReadNode reads and decompresses the node at offset. On return the
// file cursor rests immediately past the compressed payload, so a
// caller reading a non-root leaf can read the trailing forward-link
// word right after this call without seeking.
func ReadNode(fh FileHandle, offset uint32) ([]byte, error) {
	if err := fh.Seek(int64(offset)); err != nil {
		return nil, fmt.Errorf("seeking to node at %d: %w", offset, err)
	}

	uncompressedSize, err := fh.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading node header at %d: %w", offset, err)
	}
	compressedSize, err := fh.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading node header at %d: %w", offset, err)
	}

	compressed, err := fh.ReadBytes(int(compressedSize))
	if err != nil {
		return nil, fmt.Errorf("reading node payload at %d: %w", offset, err)
	}

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToDecompress, err)
	}
	defer r.Close()

	payload := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToDecompress, err)
	}

	// Confirm we consumed exactly the payload and nothing more is
	// pending; a real corruption often manifests as trailing bytes.
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return nil, fmt.Errorf("%w: trailing bytes after payload", ErrFailedToDecompress)
	}

	return payload, nil
}

// Header reads the node payload's first word. It reports whether the
// node is internal, or how many chains a leaf holds.
func Header(payload []byte) (isInternal bool, leafChainCount uint32, err error) {
	if len(payload) < 4 {
		return false, 0, fmt.Errorf("%w: payload too short for header", ErrFailedToDecompress)
	}
	word := binary.LittleEndian.Uint32(payload[:4])
	if word == InternalMarker {
		return true, 0, nil
	}
	return false, word, nil
}

// InternalChildren parses the fanout+1 child offsets that immediately
// follow an internal node's header word, returning them along with
// the remaining pivot-key region (fanout NUL-terminated UTF-8 strings
// concatenated to the end of the payload).
func InternalChildren(payload []byte, fanout uint32) ([]uint32, []byte, error) {
	childCount := int(fanout) + 1
	need := 4 + childCount*4
	if len(payload) < need {
		return nil, nil, fmt.Errorf("%w: internal node too short for %d children", ErrFailedToDecompress, childCount)
	}

	children := make([]uint32, childCount)
	for i := 0; i < childCount; i++ {
		children[i] = binary.LittleEndian.Uint32(payload[4+i*4 : 8+i*4])
	}

	return children, payload[need:], nil
}

// FindPivotChild performs the pivot binary search described by the
// on-disk format: it shoots at the byte midpoint of the current
// window, scans backward (and forward) to the bounds of the pivot
// string straddling it, and compares that pivot against the target
// via cmp. cmp must return a negative number when the target is less
// than the pivot, zero when equal, and a positive number when the
// target is greater.
//
// Equality descends right of the pivot; the window collapsing to
// empty on the low side descends the pivot's left child, and
// collapsing on the high side descends its right child. This mirrors
// the pointer-arithmetic technique used by the format's original
// implementation rather than a conventional index-based binary
// search, avoiding a separate pivot-offset array.
func FindPivotChild(region []byte, cmp func(pivot []byte) int) int {
	lo, hi := 0, len(region)
	for {
		mid := lo + (hi-lo)/2

		start := mid
		for start > 0 && region[start-1] != 0 {
			start--
		}
		end := start
		for end < len(region) && region[end] != 0 {
			end++
		}

		i := bytes.Count(region[:start], []byte{0})
		c := cmp(region[start:end])

		switch {
		case c == 0:
			return i + 1
		case c < 0:
			if start <= lo {
				return i
			}
			hi = start
		default:
			if end+1 >= hi {
				return i + 1
			}
			lo = end + 1
		}
	}
}

// PivotCount returns the number of NUL-terminated strings in a pivot
// region of the given fanout (always equal to fanout, but useful for
// validation).
func PivotCount(region []byte) int {
	return bytes.Count(region, []byte{0})
}
