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

package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dictkit/btreeidx"
)

// The core index format is bit-exact but self-contained; it doesn't
// record its own fanout or root offset (those are the caller's
// business per §6 of the format). This tool persists them next to the
// index file, in a tiny two-word sidecar, since it has no dictionary
// frontend to hand IndexInfo to it.

func indexInfoPath(idxPath string) string {
	return idxPath + ".info"
}

func writeIndexInfo(idxPath string, info btreeidx.IndexInfo) error {
	f, err := os.Create(indexInfoPath(idxPath))
	if err != nil {
		return fmt.Errorf("creating index info file: %w", err)
	}
	defer f.Close()

	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:4], info.Fanout)
	binary.LittleEndian.PutUint32(b[4:8], info.RootOffset)
	if _, err := f.Write(b[:]); err != nil {
		return fmt.Errorf("writing index info file: %w", err)
	}
	return nil
}

func readIndexInfo(idxPath string) (btreeidx.IndexInfo, error) {
	b, err := os.ReadFile(indexInfoPath(idxPath))
	if err != nil {
		return btreeidx.IndexInfo{}, fmt.Errorf("reading index info file: %w", err)
	}
	if len(b) != 8 {
		return btreeidx.IndexInfo{}, fmt.Errorf("index info file has %d bytes, want 8", len(b))
	}
	return btreeidx.IndexInfo{
		Fanout:     binary.LittleEndian.Uint32(b[0:4]),
		RootOffset: binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

func openReader(idxPath string) (*btreeidx.Reader, *os.File, error) {
	info, err := readIndexInfo(idxPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(idxPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening index file: %w", err)
	}
	return btreeidx.OpenIndex(info, btreeidx.NewOSFile(f)), f, nil
}
