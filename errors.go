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

import "errors"

// Sentinel errors returned by the reader and builder. Callers should
// use errors.Is against these rather than comparing error strings.
var (
	// ErrIndexWasNotOpened is returned when a lookup is attempted on a
	// Reader before OpenIndex has been called.
	ErrIndexWasNotOpened = errors.New("btreeidx: index was not opened")

	// ErrFailedToDecompressNode is returned when a node's compressed
	// payload fails to inflate, or inflates to a size other than the
	// uncompressedSize recorded in its header.
	ErrFailedToDecompressNode = errors.New("btreeidx: failed to decompress node")

	// ErrCorruptedChainData is returned when a chain's byte layout is
	// structurally inconsistent, or a non-root leaf is unexpectedly
	// empty.
	ErrCorruptedChainData = errors.New("btreeidx: corrupted chain data")

	// ErrCantDecodeUTF8 is returned when a stored word, prefix, or
	// pivot key is not valid UTF-8.
	ErrCantDecodeUTF8 = errors.New("btreeidx: cannot decode utf-8")
)
