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
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/dictkit/btreeidx/internal/bnode"
	"github.com/dictkit/btreeidx/internal/folding"
	"github.com/dictkit/btreeidx/internal/workerpool"
)

// wrapNodeErr maps the internal bnode package's decompression sentinel
// onto the public one so callers can errors.Is against
// ErrFailedToDecompressNode regardless of which node read failed.
func wrapNodeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bnode.ErrFailedToDecompress) {
		return fmt.Errorf("%w: %v", ErrFailedToDecompressNode, err)
	}
	return err
}

// wrapFoldErr maps the folding package's invalid-UTF-8 sentinel onto
// the core one, so a caller passing an invalid query only ever sees
// ErrCantDecodeUTF8 regardless of which layer detected it.
func wrapFoldErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, folding.ErrInvalidUTF8) {
		return fmt.Errorf("%w: %v", ErrCantDecodeUTF8, err)
	}
	return err
}

var (
	poolOnce sync.Once
	pool     *workerpool.Pool
)

// sharedPool lazily starts the worker pool every async query runs on.
// It is shared across every Reader in the process, matching the
// "parallel threads drawn from a shared worker pool" scheduling model.
func sharedPool() *workerpool.Pool {
	poolOnce.Do(func() {
		pool = workerpool.New(0)
	})
	return pool
}

// WordSearchRequest represents an in-flight (or finished) prefix or
// stemmed search. Callers must eventually call Wait, Results, or Err
// so the request's completion is observed; a request whose worker has
// not yet been scheduled still completes once Cancel is set, since the
// worker checks the cancellation flag before doing any work.
type WordSearchRequest struct {
	cancelled atomic.Bool

	mu      sync.Mutex
	matches []WordArticleLink
	err     error

	done chan struct{}
}

// Cancel requests the search stop as soon as it next checks its
// cancellation flag. It does not block; call Wait afterward to block
// until the worker has actually exited.
func (req *WordSearchRequest) Cancel() {
	req.cancelled.Store(true)
}

// Wait blocks until the search has finished, whether it ran to
// completion, hit its result cap, or was cancelled.
func (req *WordSearchRequest) Wait() {
	<-req.done
}

// Results blocks until the search finishes and returns its matches.
// Each match's Word already has any middle-match prefix merged in and
// Prefix cleared.
func (req *WordSearchRequest) Results() []WordArticleLink {
	<-req.done
	req.mu.Lock()
	defer req.mu.Unlock()
	out := make([]WordArticleLink, len(req.matches))
	copy(out, req.matches)
	return out
}

// Err blocks until the search finishes and returns any error it
// encountered. A cancelled search that produced no error returns nil.
func (req *WordSearchRequest) Err() error {
	<-req.done
	return req.err
}

func (req *WordSearchRequest) appendResults(links []WordArticleLink) {
	if len(links) == 0 {
		return
	}
	req.mu.Lock()
	req.matches = append(req.matches, links...)
	req.mu.Unlock()
}

func (req *WordSearchRequest) resultCount() int {
	req.mu.Lock()
	defer req.mu.Unlock()
	return len(req.matches)
}

// PrefixMatch starts an async search for every index entry whose
// folded key begins with word's folded form, middle-match entries
// included. It stops once at least maxResults matches have been
// collected (0 for unlimited); every entry of the last chain read is
// kept, so the result count can exceed maxResults. It never chops
// characters off the target.
func (r *Reader) PrefixMatch(word string, maxResults int) *WordSearchRequest {
	return r.startQuery(word, 0, -1, true, maxResults)
}

// StemmedMatch starts an async search that, after a prefix search at
// the full target, retries against progressively shorter targets
// (down to minLength runes, and at most maxSuffixVariation chops) for
// as long as the result cap has not been hit, whether or not earlier
// targets matched. Matches whose folded key is more than
// maxSuffixVariation runes longer than the full target are dropped. A
// negative maxSuffixVariation disables both chopping and that length
// filter, behaving like PrefixMatch.
func (r *Reader) StemmedMatch(word string, minLength, maxSuffixVariation, maxResults int) *WordSearchRequest {
	return r.startQuery(word, minLength, maxSuffixVariation, true, maxResults)
}

func (r *Reader) startQuery(word string, minLength, maxSuffixVariation int, allowMiddleMatches bool, maxResults int) *WordSearchRequest {
	req := &WordSearchRequest{done: make(chan struct{})}

	if !r.opened {
		req.err = ErrIndexWasNotOpened
		close(req.done)
		return req
	}

	folded, err := folding.Apply(word)
	if err != nil {
		req.err = wrapFoldErr(err)
		close(req.done)
		return req
	}
	if folded == "" {
		close(req.done)
		return req
	}

	sharedPool().Submit(func() {
		defer close(req.done)
		req.run(r, folded, minLength, maxSuffixVariation, allowMiddleMatches, maxResults)
	})
	return req
}

// run drives the suffix-chopping loop: search at the full folded
// target, then progressively drop trailing runes (bounded by
// maxSuffixVariation, never past minLength) until the result cap is
// hit, the search is cancelled, or chopping is exhausted.
func (req *WordSearchRequest) run(r *Reader, t0 string, minLength, maxSuffixVariation int, allowMiddleMatches bool, maxResults int) {
	if req.cancelled.Load() {
		return
	}

	runes := []rune(t0)
	charsLeftToChop := 0
	if maxSuffixVariation >= 0 {
		charsLeftToChop = len(runes) - minLength
		if charsLeftToChop < 0 {
			charsLeftToChop = 0
		}
		if charsLeftToChop > maxSuffixVariation {
			charsLeftToChop = maxSuffixVariation
		}
	}

	chopped := runes
	for {
		target := string(chopped)
		capped, err := req.walkFrom(r, target, t0, allowMiddleMatches, maxSuffixVariation, maxResults)
		if err != nil {
			req.mu.Lock()
			req.err = err
			req.mu.Unlock()
			return
		}
		if capped {
			return
		}
		if charsLeftToChop <= 0 || req.cancelled.Load() {
			return
		}
		charsLeftToChop--
		chopped = chopped[:len(chopped)-1]
	}
}

// walkFrom descends to the leaf where target belongs and walks chains
// forward from there, collecting matches whose folded head word still
// has target as a prefix. It reports whether the result cap was hit.
func (req *WordSearchRequest) walkFrom(r *Reader, target, t0 string, allowMiddleMatches bool, maxSuffixVariation int, maxResults int) (capped bool, err error) {
	t0Runes := len([]rune(t0))

	r.fh.Lock()
	defer r.fh.Unlock()

	payload, err := r.locateLeaf(target)
	if err != nil {
		return false, err
	}
	_, chainCount, err := bnode.Header(payload)
	if err != nil {
		return false, wrapNodeErr(err)
	}

	pos, found, err := firstChainAtOrAfter(payload, chainCount, target)
	if err != nil {
		return false, err
	}
	if !found {
		payload, chainCount, err = r.readForwardLeaf()
		if err != nil {
			return false, err
		}
		if chainCount == 0 {
			return false, nil
		}
		pos = 4
	}

	for {
		if req.cancelled.Load() {
			return false, nil
		}

		chain, next, err := readChainAt(payload, pos)
		if err != nil {
			return false, err
		}

		headKey, err := folding.Apply(chain[0].Word)
		if err != nil {
			return false, err
		}
		if !strings.HasPrefix(headKey, target) {
			return false, nil
		}

		var burst []WordArticleLink
		for _, link := range chain {
			if !allowMiddleMatches {
				foldedPrefix, err := folding.Apply(link.Prefix)
				if err != nil {
					return false, err
				}
				if foldedPrefix != "" {
					continue
				}
			}
			if maxSuffixVariation >= 0 {
				resultLen := len([]rune(headKey))
				if resultLen-t0Runes > maxSuffixVariation {
					continue
				}
			}
			if link.Prefix != "" {
				link.Word = link.Prefix + link.Word
				link.Prefix = ""
			}
			burst = append(burst, link)
		}
		req.appendResults(burst)

		if maxResults > 0 && req.resultCount() >= maxResults {
			return true, nil
		}

		if next >= len(payload) {
			payload, chainCount, err = r.readForwardLeaf()
			if err != nil {
				return false, err
			}
			if chainCount == 0 {
				return false, nil
			}
			pos = 4
			continue
		}
		pos = next
	}
}

// locateLeaf descends from the root to the leaf where target belongs,
// without inspecting the leaf's chains. Caller must hold r.fh's lock.
func (r *Reader) locateLeaf(target string) ([]byte, error) {
	offset := r.info.RootOffset
	for {
		payload, err := bnode.ReadNode(r.fh, offset)
		if err != nil {
			return nil, wrapNodeErr(err)
		}

		isInternal, _, err := bnode.Header(payload)
		if err != nil {
			return nil, wrapNodeErr(err)
		}
		if !isInternal {
			return payload, nil
		}

		children, pivots, err := bnode.InternalChildren(payload, r.info.Fanout)
		if err != nil {
			return nil, wrapNodeErr(err)
		}
		var pivotErr error
		childIdx := bnode.FindPivotChild(pivots, func(pivot []byte) int {
			if !utf8.Valid(pivot) {
				pivotErr = fmt.Errorf("%w: pivot key is not valid utf-8", ErrCantDecodeUTF8)
				return 0
			}
			return strings.Compare(target, string(pivot))
		})
		if pivotErr != nil {
			return nil, pivotErr
		}
		if childIdx < 0 || childIdx >= len(children) {
			return nil, fmt.Errorf("%w: pivot search returned child %d of %d", ErrFailedToDecompressNode, childIdx, len(children))
		}
		offset = children[childIdx]
	}
}

// readForwardLeaf reads the u32 forward-link word expected immediately
// after the file cursor's current position (left there by the
// preceding ReadNode call) and follows it. Caller must hold r.fh's
// lock. chainCount is 0, with no error, only when the link itself is 0
// (no more leaves). A followed, non-zero link that decodes to a leaf
// with 0 chains is corruption: only the root may legitimately be an
// empty leaf.
func (r *Reader) readForwardLeaf() (payload []byte, chainCount uint32, err error) {
	nextLeaf, err := r.fh.ReadUint32()
	if err != nil {
		return nil, 0, fmt.Errorf("reading forward link: %w", err)
	}
	if nextLeaf == 0 {
		return nil, 0, nil
	}

	payload, err = bnode.ReadNode(r.fh, nextLeaf)
	if err != nil {
		return nil, 0, wrapNodeErr(err)
	}
	_, chainCount, err = bnode.Header(payload)
	if err != nil {
		return nil, 0, wrapNodeErr(err)
	}
	if chainCount == 0 {
		return nil, 0, fmt.Errorf("%w: leaf at %d reached via forward link is empty", ErrCorruptedChainData, nextLeaf)
	}
	return payload, chainCount, nil
}

// firstChainAtOrAfter linear-scans a leaf's chains for the first whose
// folded head word is >= target, returning its byte offset within
// payload. found is false when every chain in this leaf sorts before
// target.
func firstChainAtOrAfter(payload []byte, chainCount uint32, target string) (offset int, found bool, err error) {
	pos := 4
	for i := uint32(0); i < chainCount; i++ {
		chain, next, err := readChainAt(payload, pos)
		if err != nil {
			return 0, false, err
		}
		key, err := folding.Apply(chain[0].Word)
		if err != nil {
			return 0, false, err
		}
		if key >= target {
			return pos, true, nil
		}
		pos = next
	}
	return 0, false, nil
}
