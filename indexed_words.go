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
	"strings"

	"golang.org/x/text/transform"

	"github.com/dictkit/btreeidx/internal/folding"
	"github.com/dictkit/btreeidx/internal/index"
)

// maxMiddleMatchChainSize is the cap on chain entries contributed by
// middle-match insertions. Whole-headword insertions (the suffix that
// begins at the first character of the headword) always succeed
// regardless of this cap.
const maxMiddleMatchChainSize = 1024

// IndexedWords is the in-memory builder state BuildIndex consumes: a
// mapping from folded key to chain. Callers populate it with AddWord
// and AddSingleWord, then pass it to BuildIndex.
type IndexedWords struct {
	chains map[string]Chain
}

// NewIndexedWords returns an empty IndexedWords builder.
func NewIndexedWords() *IndexedWords {
	return &IndexedWords{chains: make(map[string]Chain)}
}

// AddSingleWord inserts exactly one entry with an empty prefix and no
// middle-match expansion: the folded form of word becomes (or is
// added to) a chain holding {word, "", offset}.
func (iw *IndexedWords) AddSingleWord(word string, offset uint32) error {
	key, err := folding.Apply(word)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	iw.chains[key] = append(iw.chains[key], WordArticleLink{
		Word:          word,
		ArticleOffset: offset,
	})
	return nil
}

// AddWord tokenizes a raw headword and inserts a middle-match entry
// at every token boundary: the suffix starting at that boundary is
// folded and used as the key, and the entry carries everything before
// the suffix as its prefix. The whole-headword suffix (starting at
// the first rune of the whitespace-trimmed headword) is always
// inserted; every other suffix, including the first token of a
// headword that begins with punctuation, is capped at
// maxMiddleMatchChainSize entries per chain.
func (iw *IndexedWords) AddWord(headword string, offset uint32) error {
	normalized, _, err := transform.String(&folding.WhitespaceFolder{}, headword)
	if err != nil {
		return err
	}

	runes := []rune(normalized)
	n := len(runes)

	i := 0
	for i < n {
		for i < n && folding.IsWordBoundary(runes[i]) {
			i++
		}
		if i >= n {
			break
		}
		tokenStart := i

		suffix := string(runes[tokenStart:])
		prefix := string(runes[:tokenStart])

		if err := iw.addMiddleMatch(suffix, prefix, offset, tokenStart == 0); err != nil {
			return err
		}

		for i < n && !folding.IsWordBoundary(runes[i]) {
			i++
		}
	}

	return nil
}

func (iw *IndexedWords) addMiddleMatch(suffix, prefix string, offset uint32, isWholeHeadword bool) error {
	key, err := folding.Apply(suffix)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}

	chain := iw.chains[key]
	if !isWholeHeadword && len(chain) >= maxMiddleMatchChainSize {
		return nil
	}

	iw.chains[key] = append(chain, WordArticleLink{
		Word:          suffix,
		Prefix:        prefix,
		ArticleOffset: offset,
	})
	return nil
}

// Len returns the number of distinct folded keys, excluding the empty
// key.
func (iw *IndexedWords) Len() int {
	n := len(iw.chains)
	if _, ok := iw.chains[""]; ok {
		n--
	}
	return n
}

// foldedChain pairs a folded key with its chain so it can be held in
// a generic, sorted index.Index.
type foldedChain struct {
	key   string
	chain Chain
}

func (f *foldedChain) String() string {
	return f.key
}

// sorted returns the builder's entries as a sorted, binary-searchable
// index.Index, skipping the empty key. BuildIndex walks it in order
// to lay out the tree depth-first.
func (iw *IndexedWords) sorted() *index.Index[*foldedChain] {
	entries := make([]*foldedChain, 0, len(iw.chains))
	for key, chain := range iw.chains {
		if key == "" {
			continue
		}
		entries = append(entries, &foldedChain{key: key, chain: chain})
	}
	return index.NewIndex(entries, strings.Compare)
}
