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
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReader_PrefixMatch(t *testing.T) {
	t.Parallel()

	iw := NewIndexedWords()
	for i, w := range []string{"apple", "application", "apply", "banana"} {
		if err := iw.AddSingleWord(w, uint32(i)); err != nil {
			t.Fatalf("AddSingleWord(%q): %v", w, err)
		}
	}
	fh := &memFile{}
	info, err := BuildIndex(iw, fh)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	r := OpenIndex(info, fh)

	req := r.PrefixMatch("appl", 0)
	if err := req.Err(); err != nil {
		t.Fatalf("PrefixMatch.Err: %v", err)
	}
	got := wordsOf(req.Results())
	sort.Strings(got)

	want := []string{"apple", "application", "apply"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PrefixMatch(appl) diff (-want +got):\n%s", diff)
	}
}

func TestReader_PrefixMatch_maxResults(t *testing.T) {
	t.Parallel()

	iw := NewIndexedWords()
	for i, w := range []string{"apple", "application", "apply", "apricot"} {
		if err := iw.AddSingleWord(w, uint32(i)); err != nil {
			t.Fatalf("AddSingleWord(%q): %v", w, err)
		}
	}
	fh := &memFile{}
	info, err := BuildIndex(iw, fh)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	r := OpenIndex(info, fh)

	req := r.PrefixMatch("ap", 2)
	results := req.Results()
	if err := req.Err(); err != nil {
		t.Fatalf("PrefixMatch.Err: %v", err)
	}
	if len(results) < 2 {
		t.Errorf("PrefixMatch(ap, maxResults=2) returned %d results, want at least 2", len(results))
	}
}

func TestReader_PrefixMatch_noMatch(t *testing.T) {
	t.Parallel()

	iw := NewIndexedWords()
	if err := iw.AddSingleWord("banana", 0); err != nil {
		t.Fatalf("AddSingleWord: %v", err)
	}
	fh := &memFile{}
	info, err := BuildIndex(iw, fh)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	r := OpenIndex(info, fh)

	req := r.PrefixMatch("zzz", 0)
	if err := req.Err(); err != nil {
		t.Fatalf("PrefixMatch.Err: %v", err)
	}
	if got := req.Results(); len(got) != 0 {
		t.Errorf("PrefixMatch(zzz) = %v, want no results", got)
	}
}

func TestReader_PrefixMatch_cancelledBeforeStart(t *testing.T) {
	t.Parallel()

	iw := NewIndexedWords()
	if err := iw.AddSingleWord("banana", 0); err != nil {
		t.Fatalf("AddSingleWord: %v", err)
	}
	fh := &memFile{}
	info, err := BuildIndex(iw, fh)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	r := OpenIndex(info, fh)

	req := r.PrefixMatch("banana", 0)
	req.Cancel()
	req.Wait()
	if got := req.Results(); len(got) != 0 {
		t.Errorf("cancelled request returned %v, want no results", got)
	}
}

// TestReader_StemmedMatch mirrors the format's worked example: keys
// {apple, apply, apricot}, stemmedMatch("apples", minLength=4, V=2)
// must eventually surface "apple" among its matches, once suffix
// chopping reaches a target that is a prefix of "apple".
func TestReader_StemmedMatch(t *testing.T) {
	t.Parallel()

	iw := NewIndexedWords()
	for i, w := range []string{"apple", "apply", "apricot"} {
		if err := iw.AddSingleWord(w, uint32(i)); err != nil {
			t.Fatalf("AddSingleWord(%q): %v", w, err)
		}
	}
	fh := &memFile{}
	info, err := BuildIndex(iw, fh)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	r := OpenIndex(info, fh)

	req := r.StemmedMatch("apples", 4, 2, 10)
	if err := req.Err(); err != nil {
		t.Fatalf("StemmedMatch.Err: %v", err)
	}
	got := wordsOf(req.Results())

	found := false
	for _, w := range got {
		if w == "apple" {
			found = true
		}
	}
	if !found {
		t.Errorf("StemmedMatch(apples) = %v, want it to include %q", got, "apple")
	}
}

// TestReader_StemmedMatch_zeroVariation confirms V=0 behaves like a
// plain prefix lookup at the original length: no chopping occurs.
func TestReader_StemmedMatch_zeroVariation(t *testing.T) {
	t.Parallel()

	iw := NewIndexedWords()
	for i, w := range []string{"cat", "category", "car"} {
		if err := iw.AddSingleWord(w, uint32(i)); err != nil {
			t.Fatalf("AddSingleWord(%q): %v", w, err)
		}
	}
	fh := &memFile{}
	info, err := BuildIndex(iw, fh)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	r := OpenIndex(info, fh)

	stemmed := r.StemmedMatch("cat", 1, 0, 0)
	prefix := r.PrefixMatch("cat", 0)

	stemmedWords := wordsOf(stemmed.Results())
	prefixWords := wordsOf(prefix.Results())
	sort.Strings(stemmedWords)
	sort.Strings(prefixWords)

	if diff := cmp.Diff(prefixWords, stemmedWords); diff != "" {
		t.Errorf("StemmedMatch(V=0) vs PrefixMatch diff (-want +got):\n%s", diff)
	}
}

func wordsOf(links []WordArticleLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Word
	}
	return out
}
