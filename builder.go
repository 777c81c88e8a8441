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

	"github.com/charmbracelet/log"

	"github.com/dictkit/btreeidx/internal/bnode"
	"github.com/dictkit/btreeidx/internal/index"
)

// BuildIndex writes a compressed B-tree index for iw's sorted entries
// to fh, depth-first, and returns the tree's fanout and root offset.
// BuildIndex is single-shot: it assumes fh is positioned wherever the
// caller wants the tree to start and writes nothing else to it.
func BuildIndex(iw *IndexedWords, fh FileHandle) (IndexInfo, error) {
	entries := iw.sorted()
	fanout := ChooseFanout(entries.Len())

	log.Debug("building index", "entries", entries.Len(), "fanout", fanout)

	b := &builder{fh: fh, entries: entries, fanout: fanout}
	rootOffset, consumed, err := b.build(0, entries.Len())
	if err != nil {
		return IndexInfo{}, err
	}
	if consumed != entries.Len() {
		return IndexInfo{}, fmt.Errorf("btreeidx: builder consumed %d of %d entries", consumed, entries.Len())
	}

	log.Debug("index built", "root_offset", rootOffset, "fanout", fanout)

	return IndexInfo{Fanout: fanout, RootOffset: rootOffset}, nil
}

// builder holds the depth-first build's threaded state: the previous
// leaf's forward-link placeholder, patched once the next leaf's
// offset is known.
type builder struct {
	fh      FileHandle
	entries *index.Index[*foldedChain]
	fanout  uint32

	havePrevLeaf       bool
	prevLeafLinkOffset uint32
}

// build writes the subtree covering entries[pos:pos+size] and returns
// its root offset along with pos+size (the iterator position after
// this subtree, used by the caller to read off the next pivot key).
func (b *builder) build(pos, size int) (offset uint32, nextPos int, err error) {
	if size <= int(b.fanout) {
		return b.buildLeaf(pos, size)
	}
	return b.buildInternal(pos, size)
}

func (b *builder) buildLeaf(pos, size int) (uint32, int, error) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(size))
	for i := 0; i < size; i++ {
		payload = append(payload, encodeChain(b.entries.At(pos+i).chain)...)
	}

	offset, err := bnode.WriteNode(b.fh, payload)
	if err != nil {
		return 0, 0, fmt.Errorf("writing leaf node: %w", err)
	}

	placeholderOffset, err := b.fh.Tell()
	if err != nil {
		return 0, 0, fmt.Errorf("recording forward-link offset: %w", err)
	}
	if err := b.fh.WriteUint32(0); err != nil {
		return 0, 0, fmt.Errorf("writing forward-link placeholder: %w", err)
	}

	if b.havePrevLeaf {
		cur, err := b.fh.Tell()
		if err != nil {
			return 0, 0, fmt.Errorf("recording write position: %w", err)
		}
		if err := b.fh.Seek(int64(b.prevLeafLinkOffset)); err != nil {
			return 0, 0, fmt.Errorf("seeking to previous forward-link: %w", err)
		}
		if err := b.fh.WriteUint32(offset); err != nil {
			return 0, 0, fmt.Errorf("patching previous forward-link: %w", err)
		}
		if err := b.fh.Seek(cur); err != nil {
			return 0, 0, fmt.Errorf("restoring write position: %w", err)
		}
	}
	//nolint:gosec // index files are bounded well under 4GiB in practice.
	b.prevLeafLinkOffset = uint32(placeholderOffset)
	b.havePrevLeaf = true

	return offset, pos + size, nil
}

func (b *builder) buildInternal(pos, size int) (uint32, int, error) {
	fanout := int(b.fanout)
	children := make([]uint32, fanout+1)
	pivots := make([][]byte, 0, fanout)

	prevEntry := 0
	cur := pos
	for x := 0; x < fanout; x++ {
		curEntry := (size * (x + 1)) / (fanout + 1)
		childOffset, nextPos, err := b.build(cur, curEntry-prevEntry)
		if err != nil {
			return 0, 0, err
		}
		children[x] = childOffset
		pivots = append(pivots, []byte(b.entries.At(pos+curEntry).key))

		cur = nextPos
		prevEntry = curEntry
	}

	rightOffset, nextPos, err := b.build(cur, size-prevEntry)
	if err != nil {
		return 0, 0, err
	}
	children[fanout] = rightOffset

	payload := make([]byte, 4, 4+4*len(children)+16*len(pivots))
	binary.LittleEndian.PutUint32(payload, bnode.InternalMarker)
	for _, c := range children {
		var b4 [4]byte
		binary.LittleEndian.PutUint32(b4[:], c)
		payload = append(payload, b4[:]...)
	}
	for _, p := range pivots {
		payload = append(payload, p...)
		payload = append(payload, 0)
	}

	offset, err := bnode.WriteNode(b.fh, payload)
	if err != nil {
		return 0, 0, fmt.Errorf("writing internal node: %w", err)
	}

	return offset, nextPos, nil
}
