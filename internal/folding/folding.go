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

// Package folding implements the string normalization the B-tree
// index uses as its sort key: case folding, diacritic stripping, and
// the weaker case-only fold used for antialiasing. It also classifies
// whitespace and punctuation runes for tokenization.
package folding

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned when a string is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("folding: invalid utf-8")

// fullFold performs case folding and diacritic stripping: normalize
// to NFD so combining marks split off from their base rune, drop the
// marks, then apply a locale-independent case fold.
var fullFold = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	cases.Fold(),
)

// simpleFold performs case folding only, with no diacritic stripping.
var simpleFold = cases.Fold()

// Apply is the full fold used as the index's sort key: case folding
// plus diacritic stripping.
func Apply(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUTF8, s)
	}
	out, _, err := transform.String(fullFold, s)
	if err != nil {
		return "", fmt.Errorf("folding %q: %w", s, err)
	}
	return out, nil
}

// ApplySimpleCaseOnly is the weaker fold used only for antialiasing: a
// case fold with diacritics left intact.
func ApplySimpleCaseOnly(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUTF8, s)
	}
	out, _, err := transform.String(simpleFold, s)
	if err != nil {
		return "", fmt.Errorf("case-folding %q: %w", s, err)
	}
	return out, nil
}

// IsWhitespace reports whether r is a whitespace rune, as used to
// find token boundaries in a raw headword.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsPunct reports whether r is a punctuation rune, as used to find
// token boundaries in a raw headword.
func IsPunct(r rune) bool {
	return unicode.IsPunct(r)
}

// IsWordBoundary reports whether r separates tokens: whitespace or
// punctuation.
func IsWordBoundary(r rune) bool {
	return IsWhitespace(r) || IsPunct(r)
}
