// Copyright 2021 Google LLC
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

// Package btreeidx implements the on-disk B-tree index used by a
// dictionary lookup system to find headwords and their article
// offsets.
//
// An index file holds a B-tree of folded headwords, written
// depth-first by [BuildIndex]. Leaves hold chains of
// [WordArticleLink] records and are linked forward into a singly
// linked list so that a prefix or stemmed search can walk forward
// past the leaf where it landed. Article data and dictionary metadata
// are the concern of the surrounding dictionary frontend, not this
// package; this package consumes a [FileHandle] and raw headword and
// query strings, which it folds itself.
//
// Reading an index is concurrency-safe: a single [Reader] may be
// queried from multiple goroutines. All descents and leaf reads are
// serialized behind the file's mutex. The root node is not cached: it
// is read and decompressed again on every descent.
//
// Building an index is single-shot: [BuildIndex] takes a complete
// [IndexedWords], sorts its entries, and writes the tree once. There is no support
// for updating an index in place, deleting entries, or concurrent
// writers.
package btreeidx
