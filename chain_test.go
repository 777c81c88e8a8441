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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEncodeReadChain_roundTrip(t *testing.T) {
	t.Parallel()

	chain := Chain{
		{Word: "apple", ArticleOffset: 10},
		{Word: "apply", Prefix: "re", ArticleOffset: 20},
	}

	buf := append([]byte{0xAA, 0xBB, 0xCC, 0xDD}, encodeChain(chain)...) // leading bytes to exercise a non-zero offset
	got, next, err := readChainAt(buf, 4)
	if err != nil {
		t.Fatalf("readChainAt: %v", err)
	}
	if diff := cmp.Diff(chain, got); diff != "" {
		t.Errorf("chain diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(len(buf), next); diff != "" {
		t.Errorf("next offset diff (-want +got):\n%s", diff)
	}
}

func TestReadChainAt_corrupted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  []byte
		off  int
	}{
		{
			name: "size field out of bounds",
			buf:  []byte{1, 2},
			off:  0,
		},
		{
			name: "size exceeds buffer",
			buf:  append(le32(t, 999), []byte("short")...),
			off:  0,
		},
		{
			name: "missing word terminator",
			buf:  append(le32(t, 3), []byte("abc")...),
			off:  0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := readChainAt(test.buf, test.off)
			if diff := cmp.Diff(ErrCorruptedChainData, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("error diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadChainAt_invalidUTF8(t *testing.T) {
	t.Parallel()

	body := append([]byte{0xFF, 0xFE, 0}, []byte{0}...) // invalid word bytes, empty prefix
	body = append(body, 0, 0, 0, 0)                     // article offset
	buf := append(le32(t, uint32(len(body))), body...)

	_, _, err := readChainAt(buf, 0)
	if diff := cmp.Diff(ErrCantDecodeUTF8, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("error diff (-want +got):\n%s", diff)
	}
}

func le32(t *testing.T, v uint32) []byte {
	t.Helper()
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return b
}
