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
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// encodeChain lays out a chain's bytes as the format requires:
// chainSize as a u32, then chainSize bytes holding one or more
// {word\0, prefix\0, u32 articleOffset} records.
func encodeChain(c Chain) []byte {
	var body []byte
	for _, link := range c {
		body = append(body, link.Word...)
		body = append(body, 0)
		body = append(body, link.Prefix...)
		body = append(body, 0)

		var off [4]byte
		binary.LittleEndian.PutUint32(off[:], link.ArticleOffset)
		body = append(body, off[:]...)
	}

	out := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(out, uint32(len(body)))
	return append(out, body...)
}

// readChainAt parses the chain whose chainSize word begins at buf[off:].
// It returns the decoded chain and the offset of the next chain's size
// word (or len(buf) if this was the leaf's last chain).
func readChainAt(buf []byte, off int) (Chain, int, error) {
	if off+4 > len(buf) {
		return nil, 0, fmt.Errorf("%w: chain size field out of bounds at %d", ErrCorruptedChainData, off)
	}
	chainSize := binary.LittleEndian.Uint32(buf[off : off+4])
	start := off + 4
	end := start + int(chainSize)
	if end > len(buf) || end < start {
		return nil, 0, fmt.Errorf("%w: chain size %d exceeds buffer at %d", ErrCorruptedChainData, chainSize, off)
	}

	var chain Chain
	pos := start
	for pos < end {
		link, next, err := readRecord(buf, pos, end)
		if err != nil {
			return nil, 0, err
		}
		chain = append(chain, link)
		pos = next
	}
	if pos != end {
		return nil, 0, fmt.Errorf("%w: leftover bytes after chain at %d", ErrCorruptedChainData, off)
	}
	if len(chain) == 0 {
		return nil, 0, fmt.Errorf("%w: empty chain at %d", ErrCorruptedChainData, off)
	}

	return chain, end, nil
}

func readRecord(buf []byte, pos, end int) (WordArticleLink, int, error) {
	wordLen := bytes.IndexByte(buf[pos:end], 0)
	if wordLen < 0 {
		return WordArticleLink{}, 0, fmt.Errorf("%w: missing word terminator", ErrCorruptedChainData)
	}
	word := buf[pos : pos+wordLen]
	pos += wordLen + 1

	prefixLen := bytes.IndexByte(buf[pos:end], 0)
	if prefixLen < 0 {
		return WordArticleLink{}, 0, fmt.Errorf("%w: missing prefix terminator", ErrCorruptedChainData)
	}
	prefix := buf[pos : pos+prefixLen]
	pos += prefixLen + 1

	if pos+4 > end {
		return WordArticleLink{}, 0, fmt.Errorf("%w: truncated article offset", ErrCorruptedChainData)
	}
	articleOffset := binary.LittleEndian.Uint32(buf[pos : pos+4])
	pos += 4

	if !utf8.Valid(word) || !utf8.Valid(prefix) {
		return WordArticleLink{}, 0, ErrCantDecodeUTF8
	}

	return WordArticleLink{
		Word:          string(word),
		Prefix:        string(prefix),
		ArticleOffset: articleOffset,
	}, pos, nil
}
