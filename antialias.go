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

import "github.com/dictkit/btreeidx/internal/folding"

// antialias filters a chain against the original, unfolded query. Two
// different queries can fold to the same key (case, diacritics), so a
// chain fetched by folded key can hold entries that only coincidentally
// share it with the query under the full fold. antialias re-checks
// each entry with the weaker, case-only fold and drops anything that
// doesn't actually match; entries that survive with a non-empty prefix
// are rewritten with the prefix merged into Word, since the caller only
// asked about the query as a whole.
func antialias(query string, chain Chain) (Chain, error) {
	wantKey, err := folding.ApplySimpleCaseOnly(query)
	if err != nil {
		return nil, err
	}

	var out Chain
	for _, link := range chain {
		gotKey, err := folding.ApplySimpleCaseOnly(link.Prefix + link.Word)
		if err != nil {
			return nil, err
		}
		if gotKey != wantKey {
			continue
		}
		if link.Prefix != "" {
			link.Word = link.Prefix + link.Word
			link.Prefix = ""
		}
		out = append(out, link)
	}
	return out, nil
}
