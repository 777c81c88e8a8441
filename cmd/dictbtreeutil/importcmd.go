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
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k3a/html2text"
	"github.com/urfave/cli/v2"

	"github.com/dictkit/btreeidx"
)

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "Import a tab-separated headword/HTML-article file into a new index",
	ArgsUsage: "TSVFILE IDXFILE DATAFILE",
	Description: strings.Join([]string{
		"Each line of TSVFILE is \"headword<TAB>article HTML\".",
		"Article bodies are stripped of HTML before being written to",
		"DATAFILE; each headword's article offset points into it.",
	}, "\n"),
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 3 {
			return fmt.Errorf("%w: expected TSVFILE, IDXFILE and DATAFILE arguments", ErrFlagParse)
		}
		return runImport(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
	},
}

func runImport(tsvPath, idxPath, dataPath string) error {
	tsv, err := os.Open(tsvPath)
	if err != nil {
		return fmt.Errorf("opening tsv file: %w", err)
	}
	defer tsv.Close()

	dataFile, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("creating data file: %w", err)
	}
	defer dataFile.Close()

	iw := btreeidx.NewIndexedWords()
	var offset uint32
	var entries int

	scanner := bufio.NewScanner(tsv)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		headword, articleHTML, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("%w: malformed line %q, expected a tab separator", ErrFlagParse, line)
		}

		plain := html2text.HTML2Text(articleHTML)
		n, err := fmt.Fprintln(dataFile, plain)
		if err != nil {
			return fmt.Errorf("writing article for %q: %w", headword, err)
		}

		if err := iw.AddWord(headword, offset); err != nil {
			return fmt.Errorf("indexing %q: %w", headword, err)
		}
		offset += uint32(n)
		entries++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading tsv file: %w", err)
	}

	log.Info("imported entries", "count", entries)

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
