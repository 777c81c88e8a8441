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
	"github.com/dictkit/btreeidx/internal/bnode"
	"github.com/dictkit/btreeidx/internal/folding"
)

// Reader looks up headwords against an index built by BuildIndex. A
// Reader is safe for concurrent use: every descent takes its file
// handle's lock for the duration of the traversal, matching the
// on-disk format's assumption of a single shared file cursor.
type Reader struct {
	fh   LockingFileHandle
	info IndexInfo

	opened bool
}

// OpenIndex returns a Reader over the tree described by info, backed
// by fh. It performs no I/O until the first lookup; there is no root
// buffer to reset since it is fetched fresh (and re-decompressed) on
// every descent rather than cached across Readers.
func OpenIndex(info IndexInfo, fh LockingFileHandle) *Reader {
	return &Reader{fh: fh, info: info, opened: true}
}

// FindArticles returns the chain of records exactly matching word,
// after antialiasing against word's original, unfolded form. It
// returns a nil, nil result when no chain exists for word's folded
// key.
func (r *Reader) FindArticles(word string) (Chain, error) {
	if !r.opened {
		return nil, ErrIndexWasNotOpened
	}

	key, err := folding.Apply(word)
	if err != nil {
		return nil, wrapFoldErr(err)
	}
	if key == "" {
		return nil, nil
	}

	r.fh.Lock()
	defer r.fh.Unlock()

	payload, err := r.locateLeaf(key)
	if err != nil {
		return nil, err
	}
	_, chainCount, err := bnode.Header(payload)
	if err != nil {
		return nil, wrapNodeErr(err)
	}

	chain, exact, err := r.searchLeaf(payload, chainCount, key)
	if err != nil {
		return nil, err
	}
	if !exact {
		return nil, nil
	}

	return antialias(word, chain)
}

// searchLeaf looks for a chain whose folded head word exactly equals
// target, starting in payload and following forward links when target
// sorts after every chain currently in hand. This can happen because
// the pivot descent only guarantees target belongs at or after the
// returned leaf, never that it is contained within it.
func (r *Reader) searchLeaf(payload []byte, chainCount uint32, target string) (Chain, bool, error) {
	for {
		pos, found, err := firstChainAtOrAfter(payload, chainCount, target)
		if err != nil {
			return nil, false, err
		}
		if found {
			chain, _, err := readChainAt(payload, pos)
			if err != nil {
				return nil, false, err
			}
			key, err := folding.Apply(chain[0].Word)
			if err != nil {
				return nil, false, err
			}
			if key == target {
				return chain, true, nil
			}
			return nil, false, nil
		}

		payload, chainCount, err = r.readForwardLeaf()
		if err != nil {
			return nil, false, err
		}
		if chainCount == 0 {
			return nil, false, nil
		}
	}
}
