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
)

func TestAntialias(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		chain Chain
		want  Chain
	}{
		{
			name:  "exact case match survives",
			query: "Apple",
			chain: Chain{{Word: "Apple", ArticleOffset: 1}},
			want:  Chain{{Word: "Apple", ArticleOffset: 1}},
		},
		{
			name:  "diacritic mismatch under simple fold is dropped",
			query: "cafe",
			chain: Chain{{Word: "café", ArticleOffset: 1}},
			want:  nil,
		},
		{
			name:  "case-only difference survives",
			query: "APPLE",
			chain: Chain{{Word: "apple", ArticleOffset: 1}},
			want:  Chain{{Word: "apple", ArticleOffset: 1}},
		},
		{
			name:  "prefix merges into word on survival",
			query: "sunflower",
			chain: Chain{{Word: "flower", Prefix: "sun", ArticleOffset: 5}},
			want:  Chain{{Word: "sunflower", ArticleOffset: 5}},
		},
		{
			name:  "prefixed entry that does not match query is dropped",
			query: "flower",
			chain: Chain{{Word: "flower", Prefix: "sun", ArticleOffset: 5}},
			want:  nil,
		},
		{
			name: "mixed chain keeps only matching entries",
			query: "apple",
			chain: Chain{
				{Word: "apple", ArticleOffset: 1},
				{Word: "Apple", ArticleOffset: 2},
				{Word: "applet", ArticleOffset: 3},
			},
			want: Chain{
				{Word: "apple", ArticleOffset: 1},
				{Word: "Apple", ArticleOffset: 2},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := antialias(test.query, test.chain)
			if err != nil {
				t.Fatalf("antialias: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("antialias(%q) diff (-want +got):\n%s", test.query, diff)
			}
		})
	}
}
