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
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/dictkit/btreeidx"
)

var buildCommand = &cli.Command{
	Name:      "build",
	Usage:     "Build an index from a plain headword list",
	ArgsUsage: "WORDLIST IDXFILE",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return fmt.Errorf("%w: expected WORDLIST and IDXFILE arguments", ErrFlagParse)
		}
		return runBuild(c.Args().Get(0), c.Args().Get(1))
	},
}

func runBuild(wordlistPath, idxPath string) error {
	wordlist, err := os.Open(wordlistPath)
	if err != nil {
		return fmt.Errorf("opening wordlist: %w", err)
	}
	defer wordlist.Close()

	iw := btreeidx.NewIndexedWords()
	scanner := bufio.NewScanner(wordlist)
	var lineNo uint32
	for scanner.Scan() {
		headword := scanner.Text()
		if headword == "" {
			continue
		}
		if err := iw.AddWord(headword, lineNo); err != nil {
			return fmt.Errorf("indexing %q: %w", headword, err)
		}
		lineNo++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading wordlist: %w", err)
	}

	log.Info("read wordlist", "headwords", lineNo)

	idxFile, err := os.Create(idxPath)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer idxFile.Close()

	info, err := btreeidx.BuildIndex(iw, btreeidx.NewOSFile(idxFile))
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	if err := writeIndexInfo(idxPath, info); err != nil {
		return err
	}

	log.Info("index built", "fanout", info.Fanout, "root_offset", info.RootOffset)
	return nil
}
